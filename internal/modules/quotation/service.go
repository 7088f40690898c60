package quotation

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"studiopromise/internal/domain"
	"studiopromise/internal/modules/pipeline"
	"studiopromise/internal/modules/pricing"
	"studiopromise/internal/pkg/validator"
)

// Service owns quotation editing. Every mutation checks that the parent deal
// is still editable, then publishes a change event on the deal topic so open
// viewer sessions re-resolve their route.
type Service struct {
	quotes   QuotationRepository
	items    ItemRepository
	deals    DealReader
	configs  PricingConfigProvider
	notifier Notifier
}

func NewService(quotes QuotationRepository, items ItemRepository, deals DealReader, configs PricingConfigProvider, notifier Notifier) *Service {
	return &Service{
		quotes:   quotes,
		items:    items,
		deals:    deals,
		configs:  configs,
		notifier: notifier,
	}
}

func (s *Service) CreateQuotation(ctx context.Context, dealID int64, req CreateQuotationRequest) (*domain.Quotation, error) {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return nil, err
	}

	q := &domain.Quotation{
		DealID:      dealID,
		Name:        req.Name,
		Status:      domain.QuotationDraft,
		BonusAmount: decimal.Zero,
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:      dealID,
		QuotationID: q.ID,
		ChangeType:  domain.ChangeInsert,
	})
	return q, nil
}

func (s *Service) GetQuotation(ctx context.Context, dealID, quotationID int64) (*domain.Quotation, error) {
	return s.quotationOfDeal(ctx, dealID, quotationID, true)
}

func (s *Service) AddItem(ctx context.Context, dealID, quotationID int64, req CreateItemRequest) (*domain.QuoteItem, error) {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return nil, err
	}
	if _, err := s.quotationOfDeal(ctx, dealID, quotationID, false); err != nil {
		return nil, err
	}

	item := &domain.QuoteItem{
		QuotationID: quotationID,
		Name:        req.Name,
		Category:    domain.ItemCategory(req.Category),
		UnitCost:    req.UnitCost,
		UnitExpense: req.UnitExpense,
		Quantity:    req.Quantity,
		IsCourtesy:  req.IsCourtesy,
	}
	if errs := validator.Validate(item); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create quote item: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:      dealID,
		QuotationID: quotationID,
		ChangeType:  domain.ChangeInsert,
	})
	return item, nil
}

func (s *Service) UpdateItem(ctx context.Context, dealID, quotationID, itemID int64, req UpdateItemRequest) (*domain.QuoteItem, error) {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return nil, err
	}
	if _, err := s.quotationOfDeal(ctx, dealID, quotationID, false); err != nil {
		return nil, err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get quote item: %w", err)
	}
	if item == nil || item.QuotationID != quotationID {
		return nil, ErrItemNotFound
	}

	var changed []string
	if req.Name != nil {
		item.Name = *req.Name
		changed = append(changed, "name")
	}
	if req.Category != nil {
		cat := domain.ItemCategory(*req.Category)
		if cat != domain.CategoryService && cat != domain.CategoryProduct {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
		}
		item.Category = cat
		changed = append(changed, "category")
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
		changed = append(changed, "unit_cost")
	}
	if req.UnitExpense != nil {
		item.UnitExpense = *req.UnitExpense
		changed = append(changed, "unit_expense")
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
		}
		item.Quantity = *req.Quantity
		changed = append(changed, "quantity")
	}
	if req.IsCourtesy != nil {
		item.IsCourtesy = *req.IsCourtesy
		changed = append(changed, "is_courtesy")
	}
	if len(changed) == 0 {
		return item, nil
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update quote item: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:        dealID,
		QuotationID:   quotationID,
		ChangeType:    domain.ChangeUpdate,
		ChangedFields: changed,
	})
	return item, nil
}

func (s *Service) RemoveItem(ctx context.Context, dealID, quotationID, itemID int64) error {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return err
	}
	if _, err := s.quotationOfDeal(ctx, dealID, quotationID, false); err != nil {
		return err
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get quote item: %w", err)
	}
	if item == nil || item.QuotationID != quotationID {
		return ErrItemNotFound
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("delete quote item: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:      dealID,
		QuotationID: quotationID,
		ChangeType:  domain.ChangeDelete,
	})
	return nil
}

func (s *Service) SetBonus(ctx context.Context, dealID, quotationID int64, bonus decimal.Decimal) (*domain.Quotation, error) {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return nil, err
	}
	if bonus.IsNegative() {
		return nil, fmt.Errorf("%w: bonus must not be negative", ErrValidation)
	}

	q, err := s.quotationOfDeal(ctx, dealID, quotationID, false)
	if err != nil {
		return nil, err
	}

	q.BonusAmount = bonus
	if err := s.quotes.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:        dealID,
		QuotationID:   quotationID,
		ChangeType:    domain.ChangeUpdate,
		ChangedFields: []string{"bonus_amount"},
	})
	return q, nil
}

// Activate promotes the quotation to the deal's single active one; siblings
// are demoted in the same transaction so the deal never has two.
func (s *Service) Activate(ctx context.Context, dealID, quotationID int64) error {
	if _, err := s.editableDeal(ctx, dealID); err != nil {
		return err
	}
	if _, err := s.quotationOfDeal(ctx, dealID, quotationID, false); err != nil {
		return err
	}

	if err := s.quotes.Activate(ctx, dealID, quotationID); err != nil {
		return fmt.Errorf("activate quotation: %w", err)
	}

	s.notifier.Publish(domain.ChangeEvent{
		DealID:        dealID,
		QuotationID:   quotationID,
		ChangeType:    domain.ChangeUpdate,
		ChangedFields: []string{"status"},
	})
	return nil
}

// Breakdown prices the quotation with the studio's current config. It is a
// pure read; nothing is persisted and no event is published.
func (s *Service) Breakdown(ctx context.Context, dealID, quotationID int64) (*pricing.Breakdown, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}

	q, err := s.quotationOfDeal(ctx, dealID, quotationID, false)
	if err != nil {
		return nil, err
	}

	items, err := s.items.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}

	cfg, err := s.configs.GetByStudio(ctx, deal.StudioID)
	if err != nil {
		return nil, fmt.Errorf("get pricing config: %w", err)
	}

	return pricing.Compute(items, cfg, q.BonusAmount)
}

// editableDeal loads the deal and rejects mutations once it reached a
// terminal stage. Approved and canceled promises are a record, not a draft.
func (s *Service) editableDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}
	if pipeline.IsTerminal(deal.CurrentStageSlug) {
		return nil, ErrQuotationLocked
	}
	return deal, nil
}

func (s *Service) quotationOfDeal(ctx context.Context, dealID, quotationID int64, withItems bool) (*domain.Quotation, error) {
	var (
		q   *domain.Quotation
		err error
	)
	if withItems {
		q, err = s.quotes.GetWithItems(ctx, quotationID)
	} else {
		q, err = s.quotes.GetByID(ctx, quotationID)
	}
	if err != nil {
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	if q == nil {
		return nil, ErrQuotationNotFound
	}
	if q.DealID != dealID {
		return nil, ErrWrongDeal
	}
	return q, nil
}
