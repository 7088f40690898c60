package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"studiopromise/internal/domain"
	"studiopromise/internal/modules/pipeline"
)

// DealStageReader reads the freshest persisted state for a deal.
type DealStageReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Deal, error)
}

// Session is the per-viewer state shared between the websocket read loop and
// the coordinator. The lock flag is the "authorization in progress" latch:
// while the viewer itself is mid multi-step flow, sync is suppressed so it
// is never redirected out of a flow it started.
type Session struct {
	mu       sync.Mutex
	locked   bool
	route    domain.RouteState
	hasRoute bool
}

func (s *Session) SetLocked(v bool) {
	s.mu.Lock()
	s.locked = v
	s.mu.Unlock()
}

func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// SetRoute records the route the viewer is currently on, reported by the
// client itself or set after a pushed navigation.
func (s *Session) SetRoute(r domain.RouteState) {
	s.mu.Lock()
	s.route = r
	s.hasRoute = true
	s.mu.Unlock()
}

func (s *Session) Route() (domain.RouteState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.route, s.hasRoute
}

// Coordinator keeps one viewer session on the canonical sub-route for one
// deal. Two producers feed it — broker notifications and a poll ticker —
// and both coalesce through the same idempotent resolve-and-compare step,
// so duplicate or out-of-order wake-ups can never cause a redirect loop.
type Coordinator struct {
	dealID       int64
	deals        DealStageReader
	session      *Session
	events       <-chan domain.ChangeEvent
	nudge        chan struct{}
	pollInterval time.Duration
	navigate     func(domain.RouteState)

	hasRedirected bool
}

func NewCoordinator(
	dealID int64,
	deals DealStageReader,
	session *Session,
	events <-chan domain.ChangeEvent,
	pollInterval time.Duration,
	navigate func(domain.RouteState),
) *Coordinator {
	return &Coordinator{
		dealID:       dealID,
		deals:        deals,
		session:      session,
		events:       events,
		nudge:        make(chan struct{}, 1),
		pollInterval: pollInterval,
		navigate:     navigate,
	}
}

// Nudge requests one out-of-band resolve, e.g. right after the viewer's own
// mutating action when staleness is likely.
func (c *Coordinator) Nudge() {
	select {
	case c.nudge <- struct{}{}:
	default:
	}
}

// Run drives the session until ctx is cancelled. The first resolve happens
// immediately from fresh server state, before any notification arrives.
func (c *Coordinator) Run(ctx context.Context) {
	c.resolve(ctx)

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	events := c.events
	for {
		select {
		case <-ctx.Done():
			return

		case _, ok := <-events:
			if !ok {
				// Stream gone; degrade to polling only.
				log.Printf("realtime: notification stream closed deal_id=%d, polling fallback", c.dealID)
				events = nil
				continue
			}
			if c.session.Locked() {
				continue
			}
			// A new notification re-arms the redirect guard so a deal that
			// flips stages repeatedly keeps following the truth.
			c.hasRedirected = false
			c.resolve(ctx)

		case <-c.nudge:
			if c.session.Locked() {
				continue
			}
			c.hasRedirected = false
			c.resolve(ctx)

		case <-ticker.C:
			if c.session.Locked() {
				continue
			}
			c.hasRedirected = false
			c.resolve(ctx)
		}
	}
}

// resolve re-reads the deal and pushes at most one navigation when the
// canonical route differs from the viewer's current one. The payload of
// whatever woke us up is never consulted — only persisted truth decides.
func (c *Coordinator) resolve(ctx context.Context) {
	deal, err := c.deals.GetByID(ctx, c.dealID)
	if err != nil {
		log.Printf("realtime: resolve failed deal_id=%d error=%v", c.dealID, err)
		return
	}
	if deal == nil {
		return
	}

	target := pipeline.ResolveRouteState(deal.CurrentStageSlug)
	current, known := c.session.Route()
	if known && current == target {
		return
	}
	if c.hasRedirected {
		return
	}

	c.hasRedirected = true
	c.session.SetRoute(target)
	c.navigate(target)
}
