package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingResponse salida de un listing de marketplace.
type ListingResponse struct {
	ID              string           `json:"id"`
	ProductID       string           `json:"product_id"`
	BackendID       string           `json:"backend_id"`
	MarketplaceID   string           `json:"marketplace_id"`
	SKU             string           `json:"sku"`
	Title           string           `json:"title,omitempty"`
	Status          string           `json:"status"`
	Price           decimal.Decimal  `json:"price"`
	ShipPrice       decimal.Decimal  `json:"ship_price"`
	Currency        string           `json:"currency"`
	MinAllowedPrice *decimal.Decimal `json:"min_allowed_price,omitempty"`
	MaxAllowedPrice *decimal.Decimal `json:"max_allowed_price,omitempty"`
	HasBuybox       bool             `json:"has_buybox"`
	HasLowestPrice  bool             `json:"has_lowest_price"`
	LowestPrice     decimal.Decimal  `json:"lowest_price"`
	Stock           int64            `json:"stock"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ListingListResponse lista de listings de un backend.
type ListingListResponse struct {
	Items []ListingResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PriceChangeResponse entrada del histórico de precios.
type PriceChangeResponse struct {
	ID              string          `json:"id"`
	ListingID       string          `json:"listing_id"`
	ChangedAt       time.Time       `json:"changed_at"`
	Direction       string          `json:"direction"`
	BeforePrice     decimal.Decimal `json:"before_price"`
	AfterPrice      decimal.Decimal `json:"after_price"`
	CompetitorPrice decimal.Decimal `json:"competitor_price"`
	BuyboxMine      bool            `json:"buybox_mine"`
}

// PriceHistoryResponse histórico de un listing.
type PriceHistoryResponse struct {
	ListingID string                `json:"listing_id"`
	Items     []PriceChangeResponse `json:"items"`
}
