package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/cart"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/events"
)

type OrderRepository interface {
	NextOrderNumber(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error)
}

type CatalogRepository interface {
	GetRestaurant(ctx context.Context, restaurantID string) (domain.Restaurant, error)
	GetMenuItem(ctx context.Context, restaurantID, menuItemID string) (domain.MenuItem, error)
}

type OrderProducer interface {
	PublishOrderSubmitted(ctx context.Context, event events.OrderSubmittedEvent) error
}

// OrderService turns a session's cart snapshot into a stored order. The
// cart is cleared only after the order is persisted and announced; any
// failure before that leaves the draft intact for a retry.
type OrderService struct {
	orders   OrderRepository
	catalog  CatalogRepository
	producer OrderProducer
	carts    *cart.Manager
	logger   *zap.Logger
}

func NewOrderService(orders OrderRepository, catalog CatalogRepository, producer OrderProducer, carts *cart.Manager, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		producer: producer,
		carts:    carts,
		logger:   logger,
	}
}

func (s *OrderService) Submit(ctx context.Context, sessionID, requestID string) (*domain.Order, error) {
	store, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	draft := store.Draft()
	if draft.RestaurantID == "" {
		return nil, domain.ErrCartUnbound
	}
	if len(draft.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, draft.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve restaurant: %w", err)
	}

	snap := store.Snapshot(restaurant.TaxRate)

	orderNumber, err := s.orders.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	items := make([]domain.OrderItem, 0, len(snap.Items))
	for _, line := range snap.Items {
		items = append(items, domain.OrderItem{
			LineID:      line.CartLineID,
			MenuItemID:  line.MenuItemID,
			DisplayName: line.DisplayName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Notes:       line.Notes,
			Subtotal:    line.Subtotal,
		})
	}

	order := &domain.Order{
		OrderNumber:         orderNumber,
		RestaurantID:        snap.RestaurantID,
		TableNumber:         snap.TableNumber,
		OrderType:           snap.OrderType,
		Items:               items,
		Subtotal:            snap.Subtotal,
		Tax:                 snap.Tax,
		Tip:                 snap.Tip,
		Total:               snap.Total,
		ItemCount:           snap.ItemCount,
		SpecialInstructions: snap.SpecialInstructions,
		Status:              domain.OrderStatusReceived,
		CreatedAt:           time.Now().UTC(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	event := events.OrderSubmittedEvent{
		EventID:      uuid.NewString(),
		OrderNumber:  order.OrderNumber,
		RestaurantID: order.RestaurantID,
		TableNumber:  order.TableNumber,
		OrderType:    string(order.OrderType),
		Items:        order.Items,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		Tip:          order.Tip,
		Total:        order.Total,
		ItemCount:    order.ItemCount,
		Timestamp:    order.CreatedAt,
		RequestID:    requestID,
	}
	if err := s.producer.PublishOrderSubmitted(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to publish order: %w", err)
	}

	// confirmed success, the draft can go
	store.Clear(ctx)

	s.logger.Info("Order submitted",
		zap.String("order_number", order.OrderNumber),
		zap.String("restaurant_id", order.RestaurantID),
		zap.String("total", order.Total.String()),
		zap.Int("item_count", order.ItemCount))

	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, orderNumber)
}
