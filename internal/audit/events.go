// Package audit emits cart audit events to Kafka.
//
// Events are buffered in memory and shipped by a background dispatcher.
// Publishing is strictly fire-and-forget: a broker failure is logged and the
// event dropped, never surfaced to the cart mutation that produced it.
package audit

import "time"

// Event types produced by the cart session manager and the checkout flow.
const (
	EventItemAdded         = "cart.item_added"
	EventItemMerged        = "cart.item_merged"
	EventQuantityUpdated   = "cart.quantity_updated"
	EventItemRemoved       = "cart.item_removed"
	EventCartCleared       = "cart.cleared"
	EventCheckoutCompleted = "cart.checkout_completed"
)

// Event is the audit record for a single cart mutation.
type Event struct {
	EventID   string    `json:"event_id"`
	Sequence  uint64    `json:"sequence"`
	Scope     string    `json:"scope"`
	Type      string    `json:"type"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
