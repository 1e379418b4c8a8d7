package events

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

// OrderSubmittedEvent announces a finalized cart that became an order.
// The kitchen display and the operator dashboard both feed off it.
type OrderSubmittedEvent struct {
	EventID      string             `json:"event_id"`
	OrderNumber  string             `json:"order_number"`
	RestaurantID string             `json:"restaurant_id"`
	TableNumber  *int               `json:"table_number,omitempty"`
	OrderType    string             `json:"order_type"`
	Items        []domain.OrderItem `json:"items"`
	Subtotal     decimal.Decimal    `json:"subtotal"`
	Tax          decimal.Decimal    `json:"tax"`
	Tip          decimal.Decimal    `json:"tip"`
	Total        decimal.Decimal    `json:"total"`
	ItemCount    int                `json:"item_count"`
	Timestamp    time.Time          `json:"timestamp"`
	RequestID    string             `json:"request_id,omitempty"`
}

// ShareSettledEvent announces that one participant settled their part of
// a shared table's bill.
type ShareSettledEvent struct {
	EventID     string          `json:"event_id"`
	OrderNumber string          `json:"order_number"`
	ClaimantID  string          `json:"claimant_id"`
	UnitIDs     []string        `json:"unit_ids"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	Timestamp   time.Time       `json:"timestamp"`
}
