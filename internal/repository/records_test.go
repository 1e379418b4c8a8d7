package repository

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool {
	return a.Equal(b)
})

func sampleDraft() domain.CartDraft {
	table := 5
	return domain.CartDraft{
		RestaurantID: "demo-restaurant",
		TableNumber:  &table,
		OrderType:    domain.OrderTypeDineIn,
		Tip:          decimal.RequireFromString("12.5"),
		Items: []domain.LineItem{
			{
				CartLineID:  gofakeit.UUID(),
				MenuItemID:  "mixed-grill",
				DisplayName: "Mixed Grill",
				UnitPrice:   decimal.RequireFromString("180"),
				Quantity:    1,
			},
			{
				CartLineID:  gofakeit.UUID(),
				MenuItemID:  "hummus",
				DisplayName: "Hummus",
				UnitPrice:   decimal.RequireFromString("45.00"),
				Quantity:    2,
				Notes:       "no onions",
			},
		},
	}
}

func TestDraftRecordRoundTrip(t *testing.T) {
	draft := sampleDraft()

	rec := draftToRecord(draft, false, time.Now().UTC())

	// the full marshal path the repository uses
	av, err := attributevalue.MarshalMap(rec)
	require.NoError(t, err)

	var back draftRecord
	require.NoError(t, attributevalue.UnmarshalMap(av, &back))

	got, err := recordToDraft(back)
	require.NoError(t, err)

	// instructions are session-only unless the flag is set
	want := draft
	want.SpecialInstructions = ""
	assert.Empty(t, cmp.Diff(want, got, decimalComparer))
}

func TestDraftRecordPersistInstructionsFlag(t *testing.T) {
	draft := sampleDraft()
	draft.SpecialInstructions = "birthday table"

	rec := draftToRecord(draft, true, time.Now().UTC())

	got, err := recordToDraft(rec)
	require.NoError(t, err)
	assert.Equal(t, "birthday table", got.SpecialInstructions)

	rec = draftToRecord(draft, false, time.Now().UTC())
	got, err = recordToDraft(rec)
	require.NoError(t, err)
	assert.Empty(t, got.SpecialInstructions)
}

func TestRecordToDraftCorruptAmount(t *testing.T) {
	rec := draftRecord{
		OrderType: string(domain.OrderTypeDineIn),
		Tip:       "not-a-number",
	}

	_, err := recordToDraft(rec)
	require.Error(t, err)

	rec.Tip = "0"
	rec.Items = []draftItemRecord{{CartLineID: "x", MenuItemID: "y", UnitPrice: "garbage", Quantity: 1}}
	_, err = recordToDraft(rec)
	require.Error(t, err)
}

func TestOrderRecordRoundTrip(t *testing.T) {
	table := 7
	order := &domain.Order{
		OrderNumber:  "ORD_20260831_004",
		RestaurantID: "demo-restaurant",
		TableNumber:  &table,
		OrderType:    domain.OrderTypeDineIn,
		Items: []domain.OrderItem{
			{
				LineID:      gofakeit.UUID(),
				MenuItemID:  "hummus",
				DisplayName: "Hummus",
				UnitPrice:   decimal.RequireFromString("45"),
				Quantity:    2,
				Subtotal:    decimal.RequireFromString("90"),
			},
		},
		Subtotal:  decimal.RequireFromString("90"),
		Tax:       decimal.RequireFromString("12.6"),
		Tip:       decimal.Zero,
		Total:     decimal.RequireFromString("102.6"),
		ItemCount: 2,
		Status:    domain.OrderStatusReceived,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	av, err := attributevalue.MarshalMap(orderToRecord(order))
	require.NoError(t, err)

	var back orderRecord
	require.NoError(t, attributevalue.UnmarshalMap(av, &back))

	got, err := recordToOrder(back)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(order, got, decimalComparer))
}
