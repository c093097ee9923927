package entity

import "github.com/shopspring/decimal"

// StockFeedItem es una tupla (SKU, cantidad) del feed de stock.
// La cantidad ya viene calculada y acotada a >= 0.
type StockFeedItem struct {
	SKU      string
	Quantity int64
	IDMws    string // marketplace destino
}

// PriceFeedItem es una tupla (SKU, precio, moneda) del feed de precios.
type PriceFeedItem struct {
	SKU      string
	Price    decimal.Decimal
	Currency string
	IDMws    string
}
