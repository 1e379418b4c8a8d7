// Package cart owns draft orders: one Store per dining session, holding
// the draft in memory and writing it through to the draft repository on
// every mutation.
package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/domain"
	"github.com/AhmedMohamedAllam/qoot-website-sub000/internal/pricing"
)

// DraftRepository is the persistence port the store writes through to.
// Load never fails the session: a missing or unreadable record comes back
// as an empty default draft.
type DraftRepository interface {
	Load(ctx context.Context, sessionID string) (domain.CartDraft, error)
	Save(ctx context.Context, sessionID string, draft domain.CartDraft) error
	Purge(ctx context.Context, sessionID string) error
}

// AddItemInput is the narrow contract for adding to the cart. The price is
// captured here, at add time, and never re-read from the catalog.
type AddItemInput struct {
	MenuItemID  string
	DisplayName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Notes       string
}

// lineKey is the merge identity of a cart line. Same menu item with
// different notes stays a separate line.
type lineKey struct {
	menuItemID string
	notes      string
}

// Store holds the draft for one session. There is exactly one logical
// writer per session; the mutex only covers accidental concurrent requests
// for the same session ID.
type Store struct {
	mu        sync.Mutex
	sessionID string
	draft     domain.CartDraft
	index     map[lineKey]int
	repo      DraftRepository
	logger    *zap.Logger
}

func NewStore(sessionID string, draft domain.CartDraft, repo DraftRepository, logger *zap.Logger) *Store {
	s := &Store{
		sessionID: sessionID,
		draft:     draft,
		repo:      repo,
		logger:    logger,
	}
	s.reindex()
	return s
}

// Initialize binds the draft to a restaurant and table. Switching to a
// different restaurant discards all lines first; re-seating at the same
// restaurant keeps them and only moves the table.
func (s *Store) Initialize(ctx context.Context, restaurantID string, tableNumber int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.draft.RestaurantID != "" && s.draft.RestaurantID != restaurantID {
		s.logger.Info("venue switch, discarding cart",
			zap.String("session_id", s.sessionID),
			zap.String("from", s.draft.RestaurantID),
			zap.String("to", restaurantID),
			zap.Int("dropped_lines", len(s.draft.Items)))
		s.draft.Items = nil
		s.reindex()
	}
	s.draft.RestaurantID = restaurantID
	s.draft.TableNumber = &tableNumber

	s.persist(ctx)
}

// AddItem merges into the line with the same (menuItemID, notes) identity,
// or opens a new line with a fresh cart line ID.
func (s *Store) AddItem(ctx context.Context, input AddItemInput) (domain.LineItem, error) {
	if input.Quantity < 1 {
		return domain.LineItem{}, domain.ErrInvalidQuantity
	}
	if input.UnitPrice.IsNegative() {
		return domain.LineItem{}, domain.ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := lineKey{menuItemID: input.MenuItemID, notes: input.Notes}
	if i, ok := s.index[key]; ok {
		s.draft.Items[i].Quantity += input.Quantity
		s.persist(ctx)
		return s.draft.Items[i], nil
	}

	line := domain.LineItem{
		CartLineID:  uuid.NewString(),
		MenuItemID:  input.MenuItemID,
		DisplayName: input.DisplayName,
		UnitPrice:   input.UnitPrice,
		Quantity:    input.Quantity,
		Notes:       input.Notes,
	}
	s.draft.Items = append(s.draft.Items, line)
	s.index[key] = len(s.draft.Items) - 1

	s.persist(ctx)
	return line, nil
}

// UpdateQuantity sets the quantity of a line directly. Zero or below
// removes the line; an unknown line ID is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, cartLineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLine(cartLineID)
	if i < 0 {
		return
	}
	if quantity <= 0 {
		s.removeAt(i)
	} else {
		s.draft.Items[i].Quantity = quantity
	}
	s.persist(ctx)
}

// RemoveItem deletes the line with the given ID; no-op when absent.
func (s *Store) RemoveItem(ctx context.Context, cartLineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findLine(cartLineID)
	if i < 0 {
		return
	}
	s.removeAt(i)
	s.persist(ctx)
}

// Clear forgets the draft: lines gone, tip back to zero, instructions
// emptied, and the persisted record purged rather than overwritten.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Items = nil
	s.draft.Tip = decimal.Zero
	s.draft.SpecialInstructions = ""
	s.reindex()

	if err := s.repo.Purge(ctx, s.sessionID); err != nil {
		s.logger.Error("failed to purge draft",
			zap.String("session_id", s.sessionID), zap.Error(err))
	}
}

func (s *Store) SetTip(ctx context.Context, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.ErrInvalidTip
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.Tip = amount
	s.persist(ctx)
	return nil
}

func (s *Store) SetOrderType(ctx context.Context, orderType domain.OrderType) error {
	if orderType != domain.OrderTypeDineIn && orderType != domain.OrderTypeTakeaway {
		return domain.ErrInvalidOrderType
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.OrderType = orderType
	s.persist(ctx)
	return nil
}

func (s *Store) SetSpecialInstructions(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.SpecialInstructions = text
	s.persist(ctx)
}

// Snapshot projects the draft plus its pricing breakdown at the given tax
// rate. Reads never write.
func (s *Store) Snapshot(taxRate decimal.Decimal) domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	breakdown := pricing.Compute(s.draft.Items, s.draft.Tip, taxRate)

	lines := make([]domain.SnapshotLine, 0, len(s.draft.Items))
	for _, it := range s.draft.Items {
		lines = append(lines, domain.SnapshotLine{
			CartLineID:  it.CartLineID,
			MenuItemID:  it.MenuItemID,
			DisplayName: it.DisplayName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Notes:       it.Notes,
			Subtotal:    it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}

	return domain.CartSnapshot{
		RestaurantID:        s.draft.RestaurantID,
		TableNumber:         s.draft.TableNumber,
		OrderType:           s.draft.OrderType,
		Items:               lines,
		Subtotal:            breakdown.Subtotal,
		Tax:                 breakdown.Tax,
		Tip:                 breakdown.Tip,
		Total:               breakdown.Total,
		ItemCount:           breakdown.ItemCount,
		SpecialInstructions: s.draft.SpecialInstructions,
	}
}

// Draft returns a copy of the current draft.
func (s *Store) Draft() domain.CartDraft {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.draft
	draft.Items = append([]domain.LineItem(nil), s.draft.Items...)
	return draft
}

// persist writes the full draft through to the repository. A failed write
// never fails the mutation; the next mutation carries the full state again.
// Callers hold the mutex.
func (s *Store) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.sessionID, s.draft); err != nil {
		s.logger.Error("failed to save draft",
			zap.String("session_id", s.sessionID), zap.Error(err))
	}
}

func (s *Store) findLine(cartLineID string) int {
	for i, it := range s.draft.Items {
		if it.CartLineID == cartLineID {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(i int) {
	s.draft.Items = append(s.draft.Items[:i], s.draft.Items[i+1:]...)
	s.reindex()
}

func (s *Store) reindex() {
	s.index = make(map[lineKey]int, len(s.draft.Items))
	for i, it := range s.draft.Items {
		s.index[lineKey{menuItemID: it.MenuItemID, notes: it.Notes}] = i
	}
}
