package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusReceived OrderStatus = "received"
)

// Order is a submitted order as stored in the orders table. Prices were
// captured from the catalog when each line was added to the cart and are
// carried here unchanged.
type Order struct {
	OrderNumber         string          `json:"order_number"`
	RestaurantID        string          `json:"restaurant_id"`
	TableNumber         *int            `json:"table_number,omitempty"`
	OrderType           OrderType       `json:"order_type"`
	Items               []OrderItem     `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Tax                 decimal.Decimal `json:"tax"`
	Tip                 decimal.Decimal `json:"tip"`
	Total               decimal.Decimal `json:"total"`
	ItemCount           int             `json:"item_count"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	Status              OrderStatus     `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
}

type OrderItem struct {
	LineID      string          `json:"line_id"`
	MenuItemID  string          `json:"menu_item_id"`
	DisplayName string          `json:"display_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Notes       string          `json:"notes,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// MenuItem is the slice of the catalog record the cart cares about. The
// unit price is authoritative at the moment of addition only.
type MenuItem struct {
	MenuItemID    string          `json:"menu_item_id"`
	DisplayName   string          `json:"display_name"`
	NameLocalized string          `json:"name_localized,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ImageRef      string          `json:"image_ref,omitempty"`
	Available     bool            `json:"available"`
}

// Restaurant carries the per-venue settings the engine consumes, chiefly
// the tax rate applied to its orders.
type Restaurant struct {
	RestaurantID string          `json:"restaurant_id"`
	Name         string          `json:"name"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
}
