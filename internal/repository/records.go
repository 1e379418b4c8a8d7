package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

// Money travels as decimal strings in DynamoDB so it round-trips without
// float drift.

type orderRecord struct {
	OrderNumber         string            `dynamodbav:"order_number"`
	RestaurantID        string            `dynamodbav:"restaurant_id"`
	TableNumber         *int              `dynamodbav:"table_number,omitempty"`
	OrderType           string            `dynamodbav:"order_type"`
	Items               []orderItemRecord `dynamodbav:"items"`
	Subtotal            string            `dynamodbav:"subtotal"`
	Tax                 string            `dynamodbav:"tax"`
	Tip                 string            `dynamodbav:"tip"`
	Total               string            `dynamodbav:"total"`
	ItemCount           int               `dynamodbav:"item_count"`
	SpecialInstructions string            `dynamodbav:"special_instructions,omitempty"`
	Status              string            `dynamodbav:"status"`
	CreatedAt           time.Time         `dynamodbav:"created_at"`
}

type orderItemRecord struct {
	LineID      string `dynamodbav:"line_id"`
	MenuItemID  string `dynamodbav:"menu_item_id"`
	DisplayName string `dynamodbav:"display_name"`
	UnitPrice   string `dynamodbav:"unit_price"`
	Quantity    int    `dynamodbav:"quantity"`
	Notes       string `dynamodbav:"notes,omitempty"`
	Subtotal    string `dynamodbav:"subtotal"`
}

func orderToRecord(order *domain.Order) orderRecord {
	items := make([]orderItemRecord, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, orderItemRecord{
			LineID:      it.LineID,
			MenuItemID:  it.MenuItemID,
			DisplayName: it.DisplayName,
			UnitPrice:   it.UnitPrice.String(),
			Quantity:    it.Quantity,
			Notes:       it.Notes,
			Subtotal:    it.Subtotal.String(),
		})
	}

	return orderRecord{
		OrderNumber:         order.OrderNumber,
		RestaurantID:        order.RestaurantID,
		TableNumber:         order.TableNumber,
		OrderType:           string(order.OrderType),
		Items:               items,
		Subtotal:            order.Subtotal.String(),
		Tax:                 order.Tax.String(),
		Tip:                 order.Tip.String(),
		Total:               order.Total.String(),
		ItemCount:           order.ItemCount,
		SpecialInstructions: order.SpecialInstructions,
		Status:              string(order.Status),
		CreatedAt:           order.CreatedAt,
	}
}

func recordToOrder(rec orderRecord) (*domain.Order, error) {
	subtotal, err := decimal.NewFromString(rec.Subtotal)
	if err != nil {
		return nil, fmt.Errorf("subtotal %q is not a decimal: %w", rec.Subtotal, err)
	}
	tax, err := decimal.NewFromString(rec.Tax)
	if err != nil {
		return nil, fmt.Errorf("tax %q is not a decimal: %w", rec.Tax, err)
	}
	tip, err := decimal.NewFromString(rec.Tip)
	if err != nil {
		return nil, fmt.Errorf("tip %q is not a decimal: %w", rec.Tip, err)
	}
	total, err := decimal.NewFromString(rec.Total)
	if err != nil {
		return nil, fmt.Errorf("total %q is not a decimal: %w", rec.Total, err)
	}

	items := make([]domain.OrderItem, 0, len(rec.Items))
	for _, it := range rec.Items {
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("unit price %q is not a decimal: %w", it.UnitPrice, err)
		}
		lineSubtotal, err := decimal.NewFromString(it.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("line subtotal %q is not a decimal: %w", it.Subtotal, err)
		}
		items = append(items, domain.OrderItem{
			LineID:      it.LineID,
			MenuItemID:  it.MenuItemID,
			DisplayName: it.DisplayName,
			UnitPrice:   price,
			Quantity:    it.Quantity,
			Notes:       it.Notes,
			Subtotal:    lineSubtotal,
		})
	}

	return &domain.Order{
		OrderNumber:         rec.OrderNumber,
		RestaurantID:        rec.RestaurantID,
		TableNumber:         rec.TableNumber,
		OrderType:           domain.OrderType(rec.OrderType),
		Items:               items,
		Subtotal:            subtotal,
		Tax:                 tax,
		Tip:                 tip,
		Total:               total,
		ItemCount:           rec.ItemCount,
		SpecialInstructions: rec.SpecialInstructions,
		Status:              domain.OrderStatus(rec.Status),
		CreatedAt:           rec.CreatedAt,
	}, nil
}

type draftRecord struct {
	RestaurantID        string            `dynamodbav:"restaurant_id,omitempty"`
	TableNumber         *int              `dynamodbav:"table_number,omitempty"`
	OrderType           string            `dynamodbav:"order_type"`
	Items               []draftItemRecord `dynamodbav:"items"`
	Tip                 string            `dynamodbav:"tip"`
	SpecialInstructions string            `dynamodbav:"special_instructions,omitempty"`
	UpdatedAt           time.Time         `dynamodbav:"updated_at"`
}

type draftItemRecord struct {
	CartLineID  string `dynamodbav:"cart_line_id"`
	MenuItemID  string `dynamodbav:"menu_item_id"`
	DisplayName string `dynamodbav:"display_name"`
	UnitPrice   string `dynamodbav:"unit_price"`
	Quantity    int    `dynamodbav:"quantity"`
	Notes       string `dynamodbav:"notes,omitempty"`
}

func draftToRecord(draft domain.CartDraft, persistInstructions bool, now time.Time) draftRecord {
	items := make([]draftItemRecord, 0, len(draft.Items))
	for _, it := range draft.Items {
		items = append(items, draftItemRecord{
			CartLineID:  it.CartLineID,
			MenuItemID:  it.MenuItemID,
			DisplayName: it.DisplayName,
			UnitPrice:   it.UnitPrice.String(),
			Quantity:    it.Quantity,
			Notes:       it.Notes,
		})
	}

	rec := draftRecord{
		RestaurantID: draft.RestaurantID,
		TableNumber:  draft.TableNumber,
		OrderType:    string(draft.OrderType),
		Items:        items,
		Tip:          draft.Tip.String(),
		UpdatedAt:    now,
	}
	if persistInstructions {
		rec.SpecialInstructions = draft.SpecialInstructions
	}
	return rec
}

func recordToDraft(rec draftRecord) (domain.CartDraft, error) {
	tip, err := decimal.NewFromString(rec.Tip)
	if err != nil {
		return domain.CartDraft{}, fmt.Errorf("tip %q is not a decimal: %w", rec.Tip, err)
	}

	items := make([]domain.LineItem, 0, len(rec.Items))
	for _, it := range rec.Items {
		price, err := decimal.NewFromString(it.UnitPrice)
		if err != nil {
			return domain.CartDraft{}, fmt.Errorf("unit price %q is not a decimal: %w", it.UnitPrice, err)
		}
		items = append(items, domain.LineItem{
			CartLineID:  it.CartLineID,
			MenuItemID:  it.MenuItemID,
			DisplayName: it.DisplayName,
			UnitPrice:   price,
			Quantity:    it.Quantity,
			Notes:       it.Notes,
		})
	}

	return domain.CartDraft{
		RestaurantID:        rec.RestaurantID,
		TableNumber:         rec.TableNumber,
		OrderType:           domain.OrderType(rec.OrderType),
		Items:               items,
		Tip:                 tip,
		SpecialInstructions: rec.SpecialInstructions,
	}, nil
}
