// Package split lets one participant pick their part of an already-placed
// order. Lines are expanded into addressable units so that a guest can
// take two of the three hummus, not just the whole line.
package split

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
)

// Unit is one claimable piece of an order line. IDs are deterministic
// ("<lineID>/<index>") so every participant's device derives the same set
// and the claim ledger can key on them.
type Unit struct {
	ID           string          `json:"id"`
	SourceLineID string          `json:"source_line_id"`
	MenuItemID   string          `json:"menu_item_id"`
	DisplayName  string          `json:"display_name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Label        string          `json:"label,omitempty"`
}

// BuildUnits expands each order line of quantity N into N units. Multi-unit
// lines get an "i/N" label; single units carry no label.
func BuildUnits(items []domain.OrderItem) []Unit {
	var units []Unit
	for _, it := range items {
		for i := 1; i <= it.Quantity; i++ {
			u := Unit{
				ID:           fmt.Sprintf("%s/%d", it.LineID, i),
				SourceLineID: it.LineID,
				MenuItemID:   it.MenuItemID,
				DisplayName:  it.DisplayName,
				UnitPrice:    it.UnitPrice,
			}
			if it.Quantity > 1 {
				u.Label = fmt.Sprintf("%d/%d", i, it.Quantity)
			}
			units = append(units, u)
		}
	}
	return units
}

// State is the split flow's position. A failed settle goes back to
// selecting with the claimed set untouched, so the participant retries
// without re-picking.
type State string

const (
	StateSelecting  State = "selecting"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

// Selector holds one participant's local selection over an order's units.
type Selector struct {
	units   []Unit
	byID    map[string]Unit
	claimed map[string]struct{}
	state   State
}

func NewSelector(units []Unit) *Selector {
	byID := make(map[string]Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	return &Selector{
		units:   units,
		byID:    byID,
		claimed: make(map[string]struct{}),
		state:   StateSelecting,
	}
}

// Toggle flips membership of a unit in the claimed set. Unknown IDs are
// ignored; toggling is only allowed while selecting.
func (s *Selector) Toggle(unitID string) {
	if s.state != StateSelecting {
		return
	}
	if _, ok := s.byID[unitID]; !ok {
		return
	}
	if _, ok := s.claimed[unitID]; ok {
		delete(s.claimed, unitID)
	} else {
		s.claimed[unitID] = struct{}{}
	}
}

// Claimed returns the claimed units in order expansion order.
func (s *Selector) Claimed() []Unit {
	var out []Unit
	for _, u := range s.units {
		if _, ok := s.claimed[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Share prices the claimed units with the pricing engine.
func (s *Selector) Share(taxRate decimal.Decimal) pricing.Breakdown {
	var prices []decimal.Decimal
	for _, u := range s.Claimed() {
		prices = append(prices, u.UnitPrice)
	}
	return pricing.ShareOf(prices, taxRate)
}

// BeginSubmit moves selecting -> submitting. An empty selection refuses to
// proceed; that is the pay action's guard, not an engine failure state.
func (s *Selector) BeginSubmit() error {
	if s.state != StateSelecting {
		return fmt.Errorf("cannot submit from state %q", s.state)
	}
	if len(s.claimed) == 0 {
		return domain.ErrNoUnitsSelected
	}
	s.state = StateSubmitting
	return nil
}

// Fail moves submitting -> selecting, keeping the claimed set.
func (s *Selector) Fail() {
	if s.state == StateSubmitting {
		s.state = StateSelecting
	}
}

// Complete moves submitting -> completed.
func (s *Selector) Complete() {
	if s.state == StateSubmitting {
		s.state = StateCompleted
	}
}

func (s *Selector) State() State {
	return s.state
}
