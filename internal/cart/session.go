// Package cart implements the per-market cart session manager.
//
// A Session owns the ordered item list for one market scope, keeps it
// synchronized with persisted storage after every mutation, and exposes the
// derived count and total aggregates. Product ids are unique within the
// list: adding an already-present product merges quantities instead of
// appending a second line.
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cocoguard/cart-session-service/internal/audit"
	"github.com/cocoguard/cart-session-service/internal/model"
	"github.com/cocoguard/cart-session-service/internal/storage"
)

var (
	// ErrInvalidQuantity rejects Add calls with a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrStockExceeded rejects an Add whose merged quantity would pass the
	// product's stock ceiling. The cart is left unchanged.
	ErrStockExceeded = errors.New("stock ceiling exceeded")
)

// AddOutcome says whether Add appended a new line or merged into one.
type AddOutcome string

const (
	AddedNew       AddOutcome = "added"
	MergedExisting AddOutcome = "merged"
)

// Recorder receives successful cart mutations for audit purposes.
// Implementations must not block the mutation path.
type Recorder interface {
	Record(scope, eventType, productID string, quantity int)
}

// Session is the authoritative in-memory cart for one market scope.
// Mutations persist the full item list as a best-effort side effect; a
// storage fault never rolls back the in-memory change.
type Session struct {
	mu      sync.Mutex
	scopeID string
	items   []model.CartItem
	store   *storage.Adapter
	rec     Recorder
}

// NewSession loads any persisted items for the scope and returns a ready
// session. rec may be nil.
func NewSession(scopeID string, store *storage.Adapter, rec Recorder) *Session {
	return &Session{
		scopeID: scopeID,
		items:   store.Load(scopeID),
		store:   store,
		rec:     rec,
	}
}

// Scope returns the market scope id this session belongs to.
func (s *Session) Scope() string { return s.scopeID }

// Add appends a new item or merges the quantity into an existing line for
// the same product id. A merge that would exceed the product's stock
// ceiling is rejected whole: the cart keeps its previous quantity.
func (s *Session) Add(p model.ProductSnapshot, quantity int) (AddOutcome, error) {
	if quantity < 1 {
		return "", ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID != p.ID {
			continue
		}
		merged := s.items[i].Quantity + quantity
		if merged > p.StockCeiling {
			return "", ErrStockExceeded
		}
		s.items[i].Quantity = merged
		s.persistLocked()
		s.record(audit.EventItemMerged, p.ID, merged)
		return MergedExisting, nil
	}
	s.items = append(s.items, model.CartItem{Product: p, Quantity: quantity})
	s.persistLocked()
	s.record(audit.EventItemAdded, p.ID, quantity)
	return AddedNew, nil
}

// UpdateQuantity sets the matching item's quantity to the given value
// without clamping; clamping to the stock ceiling is the caller's job.
// Unknown product ids are a no-op. Returns whether state changed.
func (s *Session) UpdateQuantity(productID string, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID != productID {
			continue
		}
		s.items[i].Quantity = quantity
		s.persistLocked()
		s.record(audit.EventQuantityUpdated, productID, quantity)
		return true
	}
	return false
}

// Remove drops the matching item from the list. Unknown product ids are a
// no-op. Returns whether an item was removed.
func (s *Session) Remove(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Product.ID != productID {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.persistLocked()
		s.record(audit.EventItemRemoved, productID, 0)
		return true
	}
	return false
}

// Clear empties the cart and removes the persisted record.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.store.Delete(s.scopeID)
	s.record(audit.EventCartCleared, "", 0)
}

// Items returns a snapshot copy of the current item list.
func (s *Session) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.CartItem, len(s.items))
	copy(cp, s.items)
	return cp
}

// Count recomputes the total quantity across items.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Count(s.items)
}

// Total recomputes the monetary total across items.
func (s *Session) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

func (s *Session) persistLocked() {
	s.store.Save(s.scopeID, s.items)
}

func (s *Session) record(eventType, productID string, quantity int) {
	if s.rec != nil {
		s.rec.Record(s.scopeID, eventType, productID, quantity)
	}
}
