package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/events"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/split"
)

type ClaimRepository interface {
	ClaimUnit(ctx context.Context, orderNumber, unitID, claimantID string) error
	ReleaseUnit(ctx context.Context, orderNumber, unitID, claimantID string) error
	ListClaims(ctx context.Context, orderNumber string) ([]domain.Claim, error)
}

type ShareProducer interface {
	PublishShareSettled(ctx context.Context, event events.ShareSettledEvent) error
}

// SplitService runs the bill-split flow against a placed order: expand
// the order into units, quote a selection, and settle it through the
// shared claim ledger.
type SplitService struct {
	orders   OrderRepository
	catalog  CatalogRepository
	claims   ClaimRepository
	producer ShareProducer
	logger   *zap.Logger
}

func NewSplitService(orders OrderRepository, catalog CatalogRepository, claims ClaimRepository, producer ShareProducer, logger *zap.Logger) *SplitService {
	return &SplitService{
		orders:   orders,
		catalog:  catalog,
		claims:   claims,
		producer: producer,
		logger:   logger,
	}
}

// Units expands an order into claimable units, annotated with who already
// claimed what.
func (s *SplitService) Units(ctx context.Context, orderNumber string) ([]split.Unit, []domain.Claim, error) {
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, nil, err
	}

	claims, err := s.claims.ListClaims(ctx, orderNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list claims: %w", err)
	}

	return split.BuildUnits(order.Items), claims, nil
}

// Quote prices a prospective selection without touching the ledger.
func (s *SplitService) Quote(ctx context.Context, orderNumber string, unitIDs []string) (pricing.Breakdown, error) {
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	selector, taxRate, err := s.selectorFor(ctx, order, unitIDs)
	if err != nil {
		return pricing.Breakdown{}, err
	}

	return selector.Share(taxRate), nil
}

// Settle claims every selected unit for the claimant and records the
// share. Claims are compare-and-set: the first conflict rolls back the
// units taken so far and fails the whole settle, leaving the participant
// free to adjust and retry.
func (s *SplitService) Settle(ctx context.Context, orderNumber, claimantID string, unitIDs []string) (*domain.Settlement, error) {
	order, err := s.orders.GetOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	selector, taxRate, err := s.selectorFor(ctx, order, unitIDs)
	if err != nil {
		return nil, err
	}
	if err := selector.BeginSubmit(); err != nil {
		return nil, err
	}

	var acquired []string
	for _, unit := range selector.Claimed() {
		if err := s.claims.ClaimUnit(ctx, orderNumber, unit.ID, claimantID); err != nil {
			s.rollback(ctx, orderNumber, claimantID, acquired)
			selector.Fail()
			if errors.Is(err, domain.ErrUnitAlreadyClaimed) {
				s.logger.Info("Settle lost claim race",
					zap.String("order_number", orderNumber),
					zap.String("unit_id", unit.ID),
					zap.String("claimant_id", claimantID))
				return nil, fmt.Errorf("unit %s: %w", unit.ID, domain.ErrUnitAlreadyClaimed)
			}
			return nil, fmt.Errorf("failed to claim unit %s: %w", unit.ID, err)
		}
		acquired = append(acquired, unit.ID)
	}

	share := selector.Share(taxRate)
	settledAt := time.Now().UTC()

	event := events.ShareSettledEvent{
		EventID:     uuid.NewString(),
		OrderNumber: orderNumber,
		ClaimantID:  claimantID,
		UnitIDs:     acquired,
		Subtotal:    share.Subtotal,
		Tax:         share.Tax,
		Total:       share.Total,
		Timestamp:   settledAt,
	}
	if err := s.producer.PublishShareSettled(ctx, event); err != nil {
		s.rollback(ctx, orderNumber, claimantID, acquired)
		selector.Fail()
		return nil, fmt.Errorf("failed to publish settlement: %w", err)
	}

	selector.Complete()

	s.logger.Info("Share settled",
		zap.String("order_number", orderNumber),
		zap.String("claimant_id", claimantID),
		zap.Int("units", len(acquired)),
		zap.String("total", share.Total.String()))

	return &domain.Settlement{
		OrderNumber: orderNumber,
		ClaimantID:  claimantID,
		UnitIDs:     acquired,
		Subtotal:    share.Subtotal,
		Tax:         share.Tax,
		Total:       share.Total,
		SettledAt:   settledAt,
	}, nil
}

// selectorFor builds a selector over the order's units with the given IDs
// toggled on, validating each ID belongs to the order.
func (s *SplitService) selectorFor(ctx context.Context, order *domain.Order, unitIDs []string) (*split.Selector, decimal.Decimal, error) {
	units := split.BuildUnits(order.Items)
	known := make(map[string]struct{}, len(units))
	for _, u := range units {
		known[u.ID] = struct{}{}
	}
	for _, id := range unitIDs {
		if _, ok := known[id]; !ok {
			return nil, decimal.Decimal{}, fmt.Errorf("unit %s: %w", id, domain.ErrUnknownUnit)
		}
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, order.RestaurantID)
	if err != nil {
		return nil, decimal.Decimal{}, fmt.Errorf("failed to resolve restaurant: %w", err)
	}

	selector := split.NewSelector(units)
	for _, id := range unitIDs {
		selector.Toggle(id)
	}
	return selector, restaurant.TaxRate, nil
}

func (s *SplitService) rollback(ctx context.Context, orderNumber, claimantID string, unitIDs []string) {
	for _, id := range unitIDs {
		if err := s.claims.ReleaseUnit(ctx, orderNumber, id, claimantID); err != nil {
			s.logger.Error("Failed to release claim during rollback",
				zap.String("order_number", orderNumber),
				zap.String("unit_id", id),
				zap.Error(err))
		}
	}
}
