package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"studiopromise/internal/domain"
)

// Actor is whoever requests a transition: staff, admin, or the system.
type Actor struct {
	UserID int64
	Role   domain.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// Service applies guarded stage transitions. It is the single code path
// allowed to write a deal's stage: optimistic compare-and-swap on the stage
// column, plus an in-process lock keyed by (studio, event date) so the
// capacity check and the stage write of an approval cannot interleave with
// a competing approval for the same date.
type Service struct {
	deals    DealRepository
	quotes   QuotationCounter
	checker  ConflictChecker
	notifier Notifier

	dateLocks keyedMutex
}

func NewService(deals DealRepository, quotes QuotationCounter, checker ConflictChecker, notifier Notifier) *Service {
	return &Service{
		deals:    deals,
		quotes:   quotes,
		checker:  checker,
		notifier: notifier,
	}
}

// CreateDeal opens a new promise at the pending stage with a fresh public
// share token.
func (s *Service) CreateDeal(ctx context.Context, studioID, contactID int64, eventDate *time.Time) (*domain.Deal, error) {
	deal := &domain.Deal{
		StudioID:         studioID,
		ContactID:        contactID,
		PublicToken:      uuid.NewString(),
		CurrentStageSlug: domain.StagePending,
		EventDate:        eventDate,
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *Service) GetDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}
	return deal, nil
}

// Transition moves a deal to the target stage if the state machine allows it.
// Requesting the current stage again is an idempotent no-op success, so a
// retried approval cannot double-fire side effects.
func (s *Service) Transition(ctx context.Context, dealID int64, target domain.StageSlug, actor Actor) (*domain.Deal, error) {
	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.CurrentStageSlug == target {
		return deal, nil
	}

	if target == domain.StageArchived {
		if !IsTerminal(deal.CurrentStageSlug) {
			return nil, fmt.Errorf("%w: only terminal deals can be archived", ErrInvalidTransition)
		}
		if !actor.IsAdmin() {
			return nil, ErrAdminOnly
		}
		return s.swapStage(ctx, deal, target)
	}

	if IsTerminal(deal.CurrentStageSlug) {
		return nil, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, deal.CurrentStageSlug)
	}
	if !CanTransition(deal.CurrentStageSlug, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deal.CurrentStageSlug, target)
	}

	if target == domain.StageApproved {
		return s.approve(ctx, deal)
	}

	return s.swapStage(ctx, deal, target)
}

// AdminRollback moves a deal out of any stage, including terminal ones. It
// exists so a mis-approved or archived deal can be corrected explicitly; it
// is never reachable through the normal transition table.
func (s *Service) AdminRollback(ctx context.Context, dealID int64, target domain.StageSlug, actor Actor) (*domain.Deal, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !IsKnownStage(target) {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrInvalidTransition, target)
	}

	deal, err := s.GetDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if deal.CurrentStageSlug == target {
		return deal, nil
	}

	// Rolling back an approval frees the reserved event date.
	if deal.CurrentStageSlug == domain.StageApproved {
		if err := s.checker.Release(ctx, deal.ID); err != nil {
			return nil, err
		}
	}

	return s.swapStage(ctx, deal, target)
}

// approve runs the guarded closing -> approved transition: event date fixed,
// exactly one active quotation, date capacity claimed, then the stage CAS.
// The whole section is serialized per (studio, event date) so two approvals
// competing for the last slot of a day cannot both pass the check.
func (s *Service) approve(ctx context.Context, deal *domain.Deal) (*domain.Deal, error) {
	if deal.EventDate == nil {
		return nil, ErrEventDateRequired
	}

	unlock := s.dateLocks.lock(dateKey(deal.StudioID, *deal.EventDate))
	defer unlock()

	// Re-read under the lock: the stage may have moved while we waited.
	deal, err := s.GetDeal(ctx, deal.ID)
	if err != nil {
		return nil, err
	}
	if deal.CurrentStageSlug == domain.StageApproved {
		return deal, nil
	}
	if !CanTransition(deal.CurrentStageSlug, domain.StageApproved) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, deal.CurrentStageSlug, domain.StageApproved)
	}

	active, err := s.quotes.CountByDealAndStatus(ctx, deal.ID, domain.QuotationActive)
	if err != nil {
		return nil, err
	}
	if active != 1 {
		return nil, fmt.Errorf("%w: found %d active quotations", ErrActiveQuotationRequired, active)
	}

	if err := s.checker.Reserve(ctx, deal.StudioID, deal.ID, *deal.EventDate); err != nil {
		return nil, err
	}

	swapped, err := s.deals.CompareAndSwapStage(ctx, deal.ID, deal.CurrentStageSlug, domain.StageApproved)
	if err != nil {
		_ = s.checker.Release(ctx, deal.ID)
		return nil, err
	}
	if !swapped {
		_ = s.checker.Release(ctx, deal.ID)
		return nil, ErrConcurrentModification
	}

	deal.CurrentStageSlug = domain.StageApproved
	s.publishStageChange(deal)
	return deal, nil
}

func (s *Service) swapStage(ctx context.Context, deal *domain.Deal, target domain.StageSlug) (*domain.Deal, error) {
	swapped, err := s.deals.CompareAndSwapStage(ctx, deal.ID, deal.CurrentStageSlug, target)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, ErrConcurrentModification
	}

	deal.CurrentStageSlug = target
	s.publishStageChange(deal)
	return deal, nil
}

func (s *Service) publishStageChange(deal *domain.Deal) {
	if s.notifier == nil {
		return
	}
	s.notifier.Publish(domain.ChangeEvent{
		DealID:        deal.ID,
		ChangeType:    domain.ChangeStage,
		ChangedFields: []string{"current_stage_slug"},
	})
}

func dateKey(studioID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", studioID, date.Format("2006-01-02"))
}

// keyedMutex hands out one mutex per key, dropping entries once unused.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.entries == nil {
		k.entries = make(map[string]*lockEntry)
	}
	e, ok := k.entries[key]
	if !ok {
		e = &lockEntry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.entries, key)
		}
		k.mu.Unlock()
	}
}
