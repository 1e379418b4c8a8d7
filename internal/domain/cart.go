package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeDineIn   OrderType = "dine_in"
	OrderTypeTakeaway OrderType = "takeaway"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrInvalidPrice     = errors.New("unit price must not be negative")
	ErrInvalidTip       = errors.New("tip must not be negative")
	ErrInvalidOrderType = errors.New("order type must be dine_in or takeaway")
	ErrEmptyCart        = errors.New("cart has no items")
	ErrCartUnbound      = errors.New("cart is not bound to a restaurant")
)

// LineItem is one distinct selection in a draft cart. Lines are identified
// two ways: CartLineID addresses the line from the outside (update, remove),
// while the (MenuItemID, Notes) pair decides whether a new addition merges
// into an existing line or opens a new one.
type LineItem struct {
	CartLineID  string          `json:"cart_line_id"`
	MenuItemID  string          `json:"menu_item_id"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
}

// CartDraft is the aggregate the cart store owns for one dining session.
// The restaurant binding lives on the draft, not on each line.
type CartDraft struct {
	RestaurantID        string          `json:"restaurant_id"`
	TableNumber         *int            `json:"table_number,omitempty"`
	OrderType           OrderType       `json:"order_type"`
	Items               []LineItem      `json:"items"`
	Tip                 decimal.Decimal `json:"tip"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}

// EmptyDraft is the draft a session starts from and the value the draft
// repository falls back to when the stored record is missing or unreadable.
func EmptyDraft() CartDraft {
	return CartDraft{
		OrderType: OrderTypeDineIn,
		Tip:       decimal.Zero,
	}
}

// SnapshotLine is a cart line projected for checkout, with the line subtotal
// already computed.
type SnapshotLine struct {
	CartLineID  string          `json:"cart_line_id"`
	MenuItemID  string          `json:"menu_item_id"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CartSnapshot is the full read model handed to order submission. It is a
// pure projection of the draft plus the derived pricing breakdown.
type CartSnapshot struct {
	RestaurantID        string          `json:"restaurant_id"`
	TableNumber         *int            `json:"table_number,omitempty"`
	OrderType           OrderType       `json:"order_type"`
	Items               []SnapshotLine  `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Tax                 decimal.Decimal `json:"tax"`
	Tip                 decimal.Decimal `json:"tip"`
	Total               decimal.Decimal `json:"total"`
	ItemCount           int             `json:"item_count"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}
