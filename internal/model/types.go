// Package model defines domain types used by the service.
package model

import "github.com/shopspring/decimal"

// ProductSnapshot is the catalog product view captured when an item is
// added to a cart. It is an immutable value: the session never re-fetches
// or re-validates it against the live catalog.
type ProductSnapshot struct {
	ID           string          `json:"product_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	StockCeiling int             `json:"stock_ceiling"`
}

// CartItem pairs a product snapshot with a purchase quantity.
type CartItem struct {
	Product  ProductSnapshot `json:"product"`
	Quantity int             `json:"quantity"`
}

// PricePoint is one day in a market price series. A nil Price means no
// sample covers that day.
type PricePoint struct {
	Date  string   `json:"date"`
	Price *float64 `json:"price"`
}
