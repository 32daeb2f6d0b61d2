package cart

import (
	"sync"

	"github.com/cocoguard/cart-session-service/internal/storage"
)

// Registry hands out one Session per market scope. Sessions for different
// scopes never share items or storage keys.
type Registry struct {
	mu       sync.Mutex
	store    *storage.Adapter
	rec      Recorder
	sessions map[string]*Session
}

// NewRegistry constructs a Registry over the given persistence adapter.
// rec may be nil.
func NewRegistry(store *storage.Adapter, rec Recorder) *Registry {
	return &Registry{
		store:    store,
		rec:      rec,
		sessions: make(map[string]*Session),
	}
}

// Session returns the session for a scope, creating and loading it on first
// access.
func (r *Registry) Session(scopeID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[scopeID]; ok {
		return s
	}
	s := NewSession(scopeID, r.store, r.rec)
	r.sessions[scopeID] = s
	return s
}

// Drop discards the in-memory session for a scope, if any. Persisted state
// is untouched; the next access reloads it.
func (r *Registry) Drop(scopeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, scopeID)
}
