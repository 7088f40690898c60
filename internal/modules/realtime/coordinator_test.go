package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studiopromise/internal/domain"
)

type fakeDealReader struct {
	mu    sync.Mutex
	stage domain.StageSlug
}

func (f *fakeDealReader) GetByID(_ context.Context, id int64) (*domain.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.Deal{ID: id, CurrentStageSlug: f.stage}, nil
}

func (f *fakeDealReader) setStage(s domain.StageSlug) {
	f.mu.Lock()
	f.stage = s
	f.mu.Unlock()
}

func waitNavigate(t *testing.T, ch <-chan domain.RouteState) domain.RouteState {
	t.Helper()
	select {
	case state := <-ch:
		return state
	case <-time.After(time.Second):
		t.Fatal("expected a navigation, got none")
		return ""
	}
}

func assertNoNavigate(t *testing.T, ch <-chan domain.RouteState) {
	t.Helper()
	select {
	case state := <-ch:
		t.Fatalf("unexpected navigation to %s", state)
	case <-time.After(100 * time.Millisecond):
	}
}

func startCoordinator(reader DealStageReader, session *Session, events <-chan domain.ChangeEvent, poll time.Duration) (*Coordinator, <-chan domain.RouteState, context.CancelFunc, <-chan struct{}) {
	navigated := make(chan domain.RouteState, 8)
	coord := NewCoordinator(1, reader, session, events, poll, func(state domain.RouteState) {
		navigated <- state
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		coord.Run(ctx)
		close(done)
	}()
	return coord, navigated, cancel, done
}

func TestCoordinator_InitialResolveNavigates(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StageClosing}
	session := &Session{}

	events := make(chan domain.ChangeEvent)
	_, navigated, cancel, done := startCoordinator(reader, session, events, time.Hour)
	defer func() { cancel(); <-done }()

	assert.Equal(t, domain.RouteClosing, waitNavigate(t, navigated))

	route, ok := session.Route()
	assert.True(t, ok)
	assert.Equal(t, domain.RouteClosing, route)
}

func TestCoordinator_NotificationTriggersRedirect(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StagePending}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent, 1)
	_, navigated, cancel, done := startCoordinator(reader, session, events, time.Hour)
	defer func() { cancel(); <-done }()

	// Already on the canonical route: the initial resolve stays put.
	assertNoNavigate(t, navigated)

	reader.setStage(domain.StageApproved)
	events <- domain.ChangeEvent{DealID: 1, ChangeType: domain.ChangeStage}

	assert.Equal(t, domain.RouteAuthorized, waitNavigate(t, navigated))
}

func TestCoordinator_EventPayloadIsIgnored(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StagePending}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent, 1)
	_, navigated, cancel, done := startCoordinator(reader, session, events, time.Hour)
	defer func() { cancel(); <-done }()

	// A notification arrives but persisted truth has not changed:
	// nothing should move.
	events <- domain.ChangeEvent{DealID: 1, ChangeType: domain.ChangeStage}
	assertNoNavigate(t, navigated)
}

func TestCoordinator_LockSuppressesRedirect(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StagePending}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent, 2)
	coord, navigated, cancel, done := startCoordinator(reader, session, events, time.Hour)
	defer func() { cancel(); <-done }()

	session.SetLocked(true)
	reader.setStage(domain.StageApproved)
	events <- domain.ChangeEvent{DealID: 1, ChangeType: domain.ChangeStage}

	assertNoNavigate(t, navigated)

	session.SetLocked(false)
	coord.Nudge()

	assert.Equal(t, domain.RouteAuthorized, waitNavigate(t, navigated))
}

func TestCoordinator_PollFallbackWhenStreamCloses(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StagePending}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent)
	close(events)

	_, navigated, cancel, done := startCoordinator(reader, session, events, 20*time.Millisecond)
	defer func() { cancel(); <-done }()

	reader.setStage(domain.StageClosing)

	assert.Equal(t, domain.RouteClosing, waitNavigate(t, navigated))
}

func TestCoordinator_NoDuplicateRedirectForSameState(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StageApproved}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent, 2)
	_, navigated, cancel, done := startCoordinator(reader, session, events, time.Hour)
	defer func() { cancel(); <-done }()

	assert.Equal(t, domain.RouteAuthorized, waitNavigate(t, navigated))

	// Duplicate notifications for a state the viewer is already on are no-ops.
	events <- domain.ChangeEvent{DealID: 1, ChangeType: domain.ChangeStage}
	events <- domain.ChangeEvent{DealID: 1, ChangeType: domain.ChangeStage}

	assertNoNavigate(t, navigated)
}

func TestCoordinator_StopsOnCancel(t *testing.T) {
	reader := &fakeDealReader{stage: domain.StagePending}
	session := &Session{}
	session.SetRoute(domain.RoutePending)

	events := make(chan domain.ChangeEvent)
	_, _, cancel, done := startCoordinator(reader, session, events, time.Hour)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("coordinator did not stop after cancel")
	}
}
