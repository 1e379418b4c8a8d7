package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/cart"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/events"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/service"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type memDraftRepo struct{}

func (memDraftRepo) Load(context.Context, string) (domain.CartDraft, error) {
	return domain.EmptyDraft(), nil
}
func (memDraftRepo) Save(context.Context, string, domain.CartDraft) error { return nil }
func (memDraftRepo) Purge(context.Context, string) error                  { return nil }

type fakeOrderRepo struct {
	seq       int
	created   []*domain.Order
	orders    map[string]*domain.Order
	createErr error
}

func (f *fakeOrderRepo) NextOrderNumber(context.Context) (string, error) {
	f.seq++
	return fmt.Sprintf("ORD_20260831_%03d", f.seq), nil
}

func (f *fakeOrderRepo) CreateOrder(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetOrder(_ context.Context, orderNumber string) (*domain.Order, error) {
	if o, ok := f.orders[orderNumber]; ok {
		return o, nil
	}
	return nil, errors.New("order not found")
}

type fakeCatalog struct {
	taxRate decimal.Decimal
}

func (f *fakeCatalog) GetRestaurant(_ context.Context, restaurantID string) (domain.Restaurant, error) {
	return domain.Restaurant{RestaurantID: restaurantID, TaxRate: f.taxRate}, nil
}

func (f *fakeCatalog) GetMenuItem(context.Context, string, string) (domain.MenuItem, error) {
	return domain.MenuItem{}, errors.New("not used")
}

type fakeProducer struct {
	submitted  []events.OrderSubmittedEvent
	settled    []events.ShareSettledEvent
	publishErr error
}

func (f *fakeProducer) PublishOrderSubmitted(_ context.Context, ev events.OrderSubmittedEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.submitted = append(f.submitted, ev)
	return nil
}

func (f *fakeProducer) PublishShareSettled(_ context.Context, ev events.ShareSettledEvent) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.settled = append(f.settled, ev)
	return nil
}

func populatedCarts(t *testing.T, sessionID string) *cart.Manager {
	t.Helper()
	ctx := context.Background()

	carts := cart.NewManager(memDraftRepo{}, zap.NewNop())
	store, err := carts.Get(ctx, sessionID)
	require.NoError(t, err)

	store.Initialize(ctx, "demo-restaurant", 5)
	_, err = store.AddItem(ctx, cart.AddItemInput{
		MenuItemID: "mixed-grill", DisplayName: "Mixed Grill", UnitPrice: dec("180"), Quantity: 1,
	})
	require.NoError(t, err)
	_, err = store.AddItem(ctx, cart.AddItemInput{
		MenuItemID: "hummus", DisplayName: "Hummus", UnitPrice: dec("45"), Quantity: 2,
	})
	require.NoError(t, err)

	return carts
}

func TestSubmitSuccess(t *testing.T) {
	ctx := context.Background()
	carts := populatedCarts(t, "session-1")
	orders := &fakeOrderRepo{}
	producer := &fakeProducer{}

	svc := service.NewOrderService(orders, &fakeCatalog{taxRate: dec("0.14")}, producer, carts, zap.NewNop())

	order, err := svc.Submit(ctx, "session-1", "req-1")
	require.NoError(t, err)

	assert.Equal(t, "ORD_20260831_001", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusReceived, order.Status)
	assert.True(t, order.Subtotal.Equal(dec("270")))
	assert.True(t, order.Tax.Equal(dec("37.8")))
	assert.True(t, order.Total.Equal(dec("307.8")))
	assert.Equal(t, 3, order.ItemCount)
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[1].Subtotal.Equal(dec("90")))

	require.Len(t, orders.created, 1)
	require.Len(t, producer.submitted, 1)
	assert.Equal(t, order.OrderNumber, producer.submitted[0].OrderNumber)
	assert.Equal(t, "req-1", producer.submitted[0].RequestID)

	// confirmed success clears the draft
	store, err := carts.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Empty(t, store.Draft().Items)
}

func TestSubmitRefusesEmptyOrUnboundCart(t *testing.T) {
	ctx := context.Background()
	carts := cart.NewManager(memDraftRepo{}, zap.NewNop())
	svc := service.NewOrderService(&fakeOrderRepo{}, &fakeCatalog{taxRate: dec("0.14")}, &fakeProducer{}, carts, zap.NewNop())

	_, err := svc.Submit(ctx, "session-unbound", "req")
	require.ErrorIs(t, err, domain.ErrCartUnbound)

	store, err := carts.Get(ctx, "session-empty")
	require.NoError(t, err)
	store.Initialize(ctx, "demo-restaurant", 3)

	_, err = svc.Submit(ctx, "session-empty", "req")
	require.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestSubmitFailurePreservesDraft(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		orders  *fakeOrderRepo
		produce *fakeProducer
	}{
		{
			name:    "save fails",
			orders:  &fakeOrderRepo{createErr: errors.New("dynamo down")},
			produce: &fakeProducer{},
		},
		{
			name:    "publish fails",
			orders:  &fakeOrderRepo{},
			produce: &fakeProducer{publishErr: errors.New("kafka down")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			carts := populatedCarts(t, "session-1")
			svc := service.NewOrderService(tt.orders, &fakeCatalog{taxRate: dec("0.14")}, tt.produce, carts, zap.NewNop())

			_, err := svc.Submit(ctx, "session-1", "req")
			require.Error(t, err)

			// the draft survives a failed submit unchanged
			store, err := carts.Get(ctx, "session-1")
			require.NoError(t, err)
			assert.Len(t, store.Draft().Items, 2)
		})
	}
}
