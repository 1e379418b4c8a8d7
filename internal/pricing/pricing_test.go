package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name         string
		items        []domain.LineItem
		tip          string
		taxRate      string
		wantSubtotal string
		wantTax      string
		wantTotal    string
		wantCount    int
	}{
		{
			name: "mixed grill and two hummus at default rate",
			items: []domain.LineItem{
				{MenuItemID: "mixed-grill", UnitPrice: dec("180"), Quantity: 1},
				{MenuItemID: "hummus", UnitPrice: dec("45"), Quantity: 2},
			},
			tip:          "0",
			taxRate:      "0.14",
			wantSubtotal: "270",
			wantTax:      "37.8",
			wantTotal:    "307.8",
			wantCount:    3,
		},
		{
			name: "tip included in total but not taxed",
			items: []domain.LineItem{
				{MenuItemID: "mixed-grill", UnitPrice: dec("180"), Quantity: 1},
			},
			tip:          "20",
			taxRate:      "0.14",
			wantSubtotal: "180",
			wantTax:      "25.2",
			wantTotal:    "225.2",
			wantCount:    1,
		},
		{
			name:         "empty cart",
			items:        nil,
			tip:          "0",
			taxRate:      "0.14",
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
			wantCount:    0,
		},
		{
			name: "zero tax rate",
			items: []domain.LineItem{
				{MenuItemID: "tea", UnitPrice: dec("12.5"), Quantity: 4},
			},
			tip:          "5",
			taxRate:      "0",
			wantSubtotal: "50",
			wantTax:      "0",
			wantTotal:    "55",
			wantCount:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Compute(tt.items, dec(tt.tip), dec(tt.taxRate))

			assert.True(t, got.Subtotal.Equal(dec(tt.wantSubtotal)), "subtotal %s", got.Subtotal)
			assert.True(t, got.Tax.Equal(dec(tt.wantTax)), "tax %s", got.Tax)
			assert.True(t, got.Total.Equal(dec(tt.wantTotal)), "total %s", got.Total)
			assert.Equal(t, tt.wantCount, got.ItemCount)

			// total is exactly subtotal + tax + tip, never a rounded cousin
			sum := got.Subtotal.Add(got.Tax).Add(got.Tip)
			assert.True(t, got.Total.Equal(sum))
		})
	}
}

func TestComputeDeterministic(t *testing.T) {
	items := []domain.LineItem{
		{MenuItemID: "a", UnitPrice: dec("19.99"), Quantity: 3},
		{MenuItemID: "b", UnitPrice: dec("7.25"), Quantity: 1},
	}
	tip := dec("3.5")
	rate := pricing.DefaultTaxRate

	first := pricing.Compute(items, tip, rate)
	second := pricing.Compute(items, tip, rate)

	require.Equal(t, first, second)
}

func TestShareOf(t *testing.T) {
	got := pricing.ShareOf([]decimal.Decimal{dec("45"), dec("45")}, dec("0.14"))

	assert.True(t, got.Subtotal.Equal(dec("90")), "subtotal %s", got.Subtotal)
	assert.True(t, got.Total.Equal(dec("102.6")), "share %s", got.Total)
	assert.Equal(t, 2, got.ItemCount)
	assert.True(t, got.Tip.IsZero())
}
