package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
)

// fakeClaimRepo mimics the ledger's put-if-absent semantics in memory.
type fakeClaimRepo struct {
	claims map[string]string // unitID -> claimantID
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: make(map[string]string)}
}

func (f *fakeClaimRepo) ClaimUnit(_ context.Context, _, unitID, claimantID string) error {
	if _, taken := f.claims[unitID]; taken {
		return domain.ErrUnitAlreadyClaimed
	}
	f.claims[unitID] = claimantID
	return nil
}

func (f *fakeClaimRepo) ReleaseUnit(_ context.Context, _, unitID, claimantID string) error {
	if f.claims[unitID] == claimantID {
		delete(f.claims, unitID)
	}
	return nil
}

func (f *fakeClaimRepo) ListClaims(_ context.Context, orderNumber string) ([]domain.Claim, error) {
	var out []domain.Claim
	for unitID, claimantID := range f.claims {
		out = append(out, domain.Claim{OrderNumber: orderNumber, UnitID: unitID, ClaimantID: claimantID})
	}
	return out, nil
}

func placedOrder() *domain.Order {
	return &domain.Order{
		OrderNumber:  "ORD_20260831_001",
		RestaurantID: "demo-restaurant",
		OrderType:    domain.OrderTypeDineIn,
		Items: []domain.OrderItem{
			{LineID: "line-grill", MenuItemID: "mixed-grill", DisplayName: "Mixed Grill", UnitPrice: dec("100"), Quantity: 1, Subtotal: dec("100")},
			{LineID: "line-hummus", MenuItemID: "hummus", DisplayName: "Hummus", UnitPrice: dec("45"), Quantity: 2, Subtotal: dec("90")},
		},
		Subtotal:  dec("190"),
		Tax:       dec("26.6"),
		Tip:       decimal.Zero,
		Total:     dec("216.6"),
		ItemCount: 3,
		Status:    domain.OrderStatusReceived,
		CreatedAt: time.Now().UTC(),
	}
}

func splitFixture() (*service.SplitService, *fakeOrderRepo, *fakeClaimRepo, *fakeProducer) {
	orders := &fakeOrderRepo{orders: map[string]*domain.Order{
		"ORD_20260831_001": placedOrder(),
	}}
	claims := newFakeClaimRepo()
	producer := &fakeProducer{}
	svc := service.NewSplitService(orders, &fakeCatalog{taxRate: dec("0.14")}, claims, producer, zap.NewNop())
	return svc, orders, claims, producer
}

func TestUnits(t *testing.T) {
	ctx := context.Background()
	svc, _, claims, _ := splitFixture()

	require.NoError(t, claims.ClaimUnit(ctx, "ORD_20260831_001", "line-hummus/1", "guest-a"))

	units, taken, err := svc.Units(ctx, "ORD_20260831_001")
	require.NoError(t, err)

	require.Len(t, units, 3)
	assert.Equal(t, "line-grill/1", units[0].ID)
	assert.Equal(t, "1/2", units[1].Label)

	require.Len(t, taken, 1)
	assert.Equal(t, "guest-a", taken[0].ClaimantID)
}

func TestQuote(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := splitFixture()

	share, err := svc.Quote(ctx, "ORD_20260831_001", []string{"line-hummus/1", "line-hummus/2"})
	require.NoError(t, err)

	assert.True(t, share.Subtotal.Equal(dec("90")), "subtotal %s", share.Subtotal)
	assert.True(t, share.Total.Equal(dec("102.6")), "share %s", share.Total)

	_, err = svc.Quote(ctx, "ORD_20260831_001", []string{"bogus/9"})
	require.ErrorIs(t, err, domain.ErrUnknownUnit)
}

func TestSettleSuccess(t *testing.T) {
	ctx := context.Background()
	svc, _, claims, producer := splitFixture()

	settlement, err := svc.Settle(ctx, "ORD_20260831_001", "guest-a", []string{"line-hummus/1", "line-hummus/2"})
	require.NoError(t, err)

	assert.True(t, settlement.Subtotal.Equal(dec("90")))
	assert.True(t, settlement.Total.Equal(dec("102.6")))
	assert.ElementsMatch(t, []string{"line-hummus/1", "line-hummus/2"}, settlement.UnitIDs)

	assert.Equal(t, "guest-a", claims.claims["line-hummus/1"])
	assert.Equal(t, "guest-a", claims.claims["line-hummus/2"])

	require.Len(t, producer.settled, 1)
	assert.Equal(t, "guest-a", producer.settled[0].ClaimantID)
}

func TestSettleConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	svc, _, claims, producer := splitFixture()

	// another guest got the second hummus first
	require.NoError(t, claims.ClaimUnit(ctx, "ORD_20260831_001", "line-hummus/2", "guest-b"))

	_, err := svc.Settle(ctx, "ORD_20260831_001", "guest-a", []string{"line-hummus/1", "line-hummus/2"})
	require.ErrorIs(t, err, domain.ErrUnitAlreadyClaimed)

	// the unit taken before the conflict was released again
	_, stillHeld := claims.claims["line-hummus/1"]
	assert.False(t, stillHeld)
	assert.Equal(t, "guest-b", claims.claims["line-hummus/2"])
	assert.Empty(t, producer.settled)
}

func TestSettleRejectsEmptySelection(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := splitFixture()

	_, err := svc.Settle(ctx, "ORD_20260831_001", "guest-a", nil)
	require.ErrorIs(t, err, domain.ErrNoUnitsSelected)
}
