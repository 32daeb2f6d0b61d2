package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cocoguard/cart-session-service/internal/model"
)

func TestAggregatesEmpty(t *testing.T) {
	require.Equal(t, 0, Count(nil))
	require.True(t, Total(nil).IsZero())
	require.Equal(t, 0, Count([]model.CartItem{}))
	require.True(t, Total([]model.CartItem{}).IsZero())
}

func TestAggregatesSums(t *testing.T) {
	items := []model.CartItem{
		{Product: snap("p1", 10, 99), Quantity: 2},
		{Product: snap("p2", 3.5, 99), Quantity: 4},
	}
	require.Equal(t, 6, Count(items))
	require.True(t, Total(items).Equal(decimal.NewFromInt(34)), "total = %s", Total(items))
}

func TestTotalKeepsDecimalPrecision(t *testing.T) {
	// 0.1 * 3 must be exactly 0.3, not a float approximation.
	items := []model.CartItem{{Product: snap("p1", 0.1, 99), Quantity: 3}}
	require.True(t, Total(items).Equal(decimal.RequireFromString("0.3")))
}
