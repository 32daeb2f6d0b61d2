package cart

import (
	"github.com/shopspring/decimal"

	"github.com/cocoguard/cart-session-service/internal/model"
)

// Count returns the sum of quantities across items.
func Count(items []model.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Total returns the sum of unit price times quantity across items.
func Total(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		line := it.Product.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
	}
	return total
}
