package cart

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cocoguard/cart-session-service/internal/model"
	"github.com/cocoguard/cart-session-service/internal/storage"
)

func snap(id string, price float64, ceiling int) model.ProductSnapshot {
	return model.ProductSnapshot{
		ID:           id,
		Name:         "product " + id,
		UnitPrice:    decimal.NewFromFloat(price),
		StockCeiling: ceiling,
	}
}

func newTestSession(t *testing.T) (*Session, *storage.MemoryBackend) {
	t.Helper()
	backend := storage.NewMemory()
	adapter := storage.NewAdapter("cocoguard_cart", backend)
	return NewSession("farm-1", adapter, nil), backend
}

func TestAddMergesQuantities(t *testing.T) {
	s, _ := newTestSession(t)
	p := snap("p1", 10, 5)

	out, err := s.Add(p, 2)
	require.NoError(t, err)
	require.Equal(t, AddedNew, out)

	out, err = s.Add(p, 3)
	require.NoError(t, err)
	require.Equal(t, MergedExisting, out)

	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 5, items[0].Quantity)
}

func TestAddRejectsMergeOverCeiling(t *testing.T) {
	s, _ := newTestSession(t)
	p := snap("p1", 10, 5)

	_, err := s.Add(p, 4)
	require.NoError(t, err)

	_, err = s.Add(p, 2)
	require.ErrorIs(t, err, ErrStockExceeded)

	// Rejected add leaves the previous quantity untouched.
	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 4, items[0].Quantity)
	require.Equal(t, 4, s.Count())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	s, _ := newTestSession(t)
	for _, q := range []int{0, -1} {
		_, err := s.Add(snap("p1", 10, 5), q)
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
	require.Empty(t, s.Items())
}

func TestAggregatesFollowEveryMutation(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)
	require.Equal(t, 2, s.Count())
	require.True(t, s.Total().Equal(decimal.NewFromInt(20)), "total = %s", s.Total())

	require.True(t, s.UpdateQuantity("p1", 3))
	require.Equal(t, 3, s.Count())
	require.True(t, s.Total().Equal(decimal.NewFromInt(30)), "total = %s", s.Total())

	require.True(t, s.Remove("p1"))
	require.Equal(t, 0, s.Count())
	require.True(t, s.Total().IsZero())
}

func TestUpdateQuantityUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)

	require.False(t, s.UpdateQuantity("missing", 7))
	require.Equal(t, 2, s.Count())
}

func TestUpdateQuantityDoesNotClamp(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)

	// Clamping to the ceiling is the caller's responsibility.
	require.True(t, s.UpdateQuantity("p1", 50))
	require.Equal(t, 50, s.Items()[0].Quantity)
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	s, _ := newTestSession(t)
	require.False(t, s.Remove("missing"))
}

func TestClearEmptiesCartAndStorage(t *testing.T) {
	s, backend := newTestSession(t)
	_, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)
	require.Contains(t, backend.Keys(), "cocoguard_cart_farm-1")

	s.Clear()
	require.Empty(t, s.Items())
	require.Equal(t, 0, s.Count())
	require.True(t, s.Total().IsZero())
	require.NotContains(t, backend.Keys(), "cocoguard_cart_farm-1")
}

func TestMutationsPersist(t *testing.T) {
	backend := storage.NewMemory()
	adapter := storage.NewAdapter("cocoguard_cart", backend)

	s := NewSession("farm-1", adapter, nil)
	_, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)

	// A fresh session over the same adapter sees the persisted items.
	reloaded := NewSession("farm-1", adapter, nil)
	require.Equal(t, 2, reloaded.Count())
}

func TestScopeIsolation(t *testing.T) {
	backend := storage.NewMemory()
	adapter := storage.NewAdapter("cocoguard_cart", backend)
	reg := NewRegistry(adapter, nil)

	a := reg.Session("farm-a")
	b := reg.Session("farm-b")
	require.NotSame(t, a, b)

	_, err := a.Add(snap("p1", 10, 9), 3)
	require.NoError(t, err)

	require.Equal(t, 0, b.Count())
	require.Contains(t, backend.Keys(), "cocoguard_cart_farm-a")
	require.NotContains(t, backend.Keys(), "cocoguard_cart_farm-b")

	b.Clear()
	require.Equal(t, 3, a.Count())
}

func TestRegistryReturnsSameSession(t *testing.T) {
	adapter := storage.NewAdapter("cocoguard_cart", storage.NewMemory())
	reg := NewRegistry(adapter, nil)
	require.Same(t, reg.Session("farm-a"), reg.Session("farm-a"))

	reg.Drop("farm-a")
	require.NotNil(t, reg.Session("farm-a"))
}

// faultBackend fails every storage operation.
type faultBackend struct{}

func (faultBackend) Read(string) ([]byte, bool, error) { return nil, false, errors.New("read broken") }
func (faultBackend) Write(string, []byte) error        { return errors.New("write broken") }
func (faultBackend) Delete(string) error               { return errors.New("delete broken") }

func TestStorageFaultsNeverPropagate(t *testing.T) {
	adapter := storage.NewAdapter("cocoguard_cart", faultBackend{})

	// Read failure degrades to an empty cart.
	s := NewSession("farm-1", adapter, nil)
	require.Empty(t, s.Items())

	// Write failure does not roll back the in-memory mutation.
	out, err := s.Add(snap("p1", 10, 5), 2)
	require.NoError(t, err)
	require.Equal(t, AddedNew, out)
	require.Equal(t, 2, s.Count())

	require.True(t, s.UpdateQuantity("p1", 3))
	s.Clear()
	require.Empty(t, s.Items())
}

type recorded struct {
	scope, eventType, productID string
	quantity                    int
}

type captureRecorder struct{ events []recorded }

func (c *captureRecorder) Record(scope, eventType, productID string, quantity int) {
	c.events = append(c.events, recorded{scope, eventType, productID, quantity})
}

func TestMutationsEmitAuditEvents(t *testing.T) {
	rec := &captureRecorder{}
	adapter := storage.NewAdapter("cocoguard_cart", storage.NewMemory())
	s := NewSession("farm-1", adapter, rec)

	_, err := s.Add(snap("p1", 10, 9), 2)
	require.NoError(t, err)
	_, err = s.Add(snap("p1", 10, 9), 1)
	require.NoError(t, err)
	s.UpdateQuantity("p1", 5)
	s.Remove("p1")
	s.Clear()

	var types []string
	for _, ev := range rec.events {
		types = append(types, ev.eventType)
	}
	require.Equal(t, []string{
		"cart.item_added",
		"cart.item_merged",
		"cart.quantity_updated",
		"cart.item_removed",
		"cart.cleared",
	}, types)
}

func TestRejectedAddEmitsNoEvent(t *testing.T) {
	rec := &captureRecorder{}
	adapter := storage.NewAdapter("cocoguard_cart", storage.NewMemory())
	s := NewSession("farm-1", adapter, rec)

	_, err := s.Add(snap("p1", 10, 2), 2)
	require.NoError(t, err)
	_, err = s.Add(snap("p1", 10, 2), 1)
	require.ErrorIs(t, err, ErrStockExceeded)
	require.Len(t, rec.events, 1)
}
