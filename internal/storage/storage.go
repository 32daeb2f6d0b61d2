// Package storage implements the cart persistence adapter and its backends.
//
// The adapter serializes a cart's item list under a market-scoped key of the
// form <namespace>_<scopeID>. Storage is best effort: a read failure or a
// corrupt record degrades to an empty cart, and a write failure never blocks
// the in-memory mutation that triggered it. Both are logged and swallowed.
package storage

import (
	"encoding/json"

	"github.com/cocoguard/cart-session-service/internal/model"
	"github.com/cocoguard/cart-session-service/internal/obs"
)

// Backend is a key-value blob store for serialized cart sessions.
type Backend interface {
	// Read returns the stored blob and whether the key exists.
	Read(key string) ([]byte, bool, error)
	Write(key string, data []byte) error
	Delete(key string) error
}

// Adapter persists cart item lists under market-scoped keys.
type Adapter struct {
	namespace string
	backend   Backend
}

// NewAdapter constructs an Adapter over the given backend.
func NewAdapter(namespace string, b Backend) *Adapter {
	return &Adapter{namespace: namespace, backend: b}
}

// Key returns the storage key for a market scope.
func (a *Adapter) Key(scopeID string) string {
	return a.namespace + "_" + scopeID
}

// Load returns the persisted item list for a scope. An absent key, a read
// failure, or a malformed record all yield an empty list.
func (a *Adapter) Load(scopeID string) []model.CartItem {
	key := a.Key(scopeID)
	data, ok, err := a.backend.Read(key)
	if err != nil {
		obs.Logger.Warnw("cart_storage_read_failed", "key", key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var items []model.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		obs.Logger.Warnw("cart_storage_corrupt", "key", key, "error", err)
		return nil
	}
	return items
}

// Save serializes and writes the item list for a scope. Failures are logged
// and swallowed.
func (a *Adapter) Save(scopeID string, items []model.CartItem) {
	if items == nil {
		items = []model.CartItem{}
	}
	key := a.Key(scopeID)
	data, err := json.Marshal(items)
	if err != nil {
		obs.Logger.Warnw("cart_storage_encode_failed", "key", key, "error", err)
		return
	}
	if err := a.backend.Write(key, data); err != nil {
		obs.Logger.Warnw("cart_storage_write_failed", "key", key, "error", err)
	}
}

// Delete removes the persisted record for a scope. Failures are logged and
// swallowed.
func (a *Adapter) Delete(scopeID string) {
	key := a.Key(scopeID)
	if err := a.backend.Delete(key); err != nil {
		obs.Logger.Warnw("cart_storage_delete_failed", "key", key, "error", err)
	}
}
