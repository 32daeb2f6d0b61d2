// Package prices stores recorded market price samples per market scope.
package prices

import (
	"sync"

	"github.com/cocoguard/cart-session-service/internal/model"
)

// Store keeps raw price samples in memory, keyed by market scope. Samples
// are kept in arrival order; the fill utility handles sorting and duplicate
// dates.
type Store struct {
	mu sync.RWMutex
	m  map[string][]model.PricePoint
}

// New creates an empty Store.
func New() *Store {
	return &Store{m: make(map[string][]model.PricePoint)}
}

// Add records a sample for a scope. Empty scopes are ignored.
func (s *Store) Add(scope string, p model.PricePoint) {
	if scope == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[scope] = append(s.m[scope], p)
}

// List returns a copy of the samples recorded for a scope.
func (s *Store) List(scope string) []model.PricePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.m[scope]
	cp := make([]model.PricePoint, len(src))
	copy(cp, src)
	return cp
}
