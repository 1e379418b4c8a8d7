// Package pricing derives money figures from cart lines. It is pure: the
// same inputs always produce the same breakdown, which is what makes the
// rest of the engine testable without a cart in hand.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

// DefaultTaxRate is applied when a restaurant record carries no rate of
// its own.
var DefaultTaxRate = decimal.NewFromFloat(0.14)

// Breakdown is the derived, never-persisted pricing view of a set of
// lines. Total is exactly Subtotal + Tax + Tip.
type Breakdown struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Tax       decimal.Decimal `json:"tax"`
	Tip       decimal.Decimal `json:"tip"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Compute prices a set of cart lines. Callers own the preconditions
// (unitPrice >= 0, quantity >= 1, 0 <= taxRate <= 1); the engine just
// does the arithmetic over whatever it is given.
func Compute(items []domain.LineItem, tip, taxRate decimal.Decimal) Breakdown {
	subtotal := decimal.Zero
	count := 0
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		count += it.Quantity
	}
	return fromSubtotal(subtotal, tip, taxRate, count)
}

// ShareOf prices a plain list of unit prices, one unit each. The bill
// split path uses it over a participant's claimed units; no tip applies
// to a share.
func ShareOf(unitPrices []decimal.Decimal, taxRate decimal.Decimal) Breakdown {
	subtotal := decimal.Zero
	for _, p := range unitPrices {
		subtotal = subtotal.Add(p)
	}
	return fromSubtotal(subtotal, decimal.Zero, taxRate, len(unitPrices))
}

func fromSubtotal(subtotal, tip, taxRate decimal.Decimal, count int) Breakdown {
	tax := subtotal.Mul(taxRate)
	return Breakdown{
		Subtotal:  subtotal,
		Tax:       tax,
		Tip:       tip,
		Total:     subtotal.Add(tax).Add(tip),
		ItemCount: count,
	}
}
