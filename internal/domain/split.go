package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoUnitsSelected    = errors.New("no units selected")
	ErrUnknownUnit        = errors.New("unit does not belong to this order")
	ErrUnitAlreadyClaimed = errors.New("unit already claimed by another participant")
)

// Claim is one entry in the shared claim ledger: a single addressable unit
// of an order taken by one participant. Claims are created with a
// put-if-absent write, so the first claimant wins and everyone else gets
// ErrUnitAlreadyClaimed.
type Claim struct {
	OrderNumber string    `json:"order_number"`
	UnitID      string    `json:"unit_id"`
	ClaimantID  string    `json:"claimant_id"`
	ClaimedAt   time.Time `json:"claimed_at"`
}

// Settlement is the outcome of a participant settling their share of an
// order: the units they claimed and the money those units add up to.
type Settlement struct {
	OrderNumber string          `json:"order_number"`
	ClaimantID  string          `json:"claimant_id"`
	UnitIDs     []string        `json:"unit_ids"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	SettledAt   time.Time       `json:"settled_at"`
}
