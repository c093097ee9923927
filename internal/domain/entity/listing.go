package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de publicación de un listing en el marketplace.
const (
	ListingStatusActive      = "Active"
	ListingStatusInactive    = "Inactive"
	ListingStatusUnpublished = "Unpublished"
	ListingStatusSubmitted   = "Submitted"
)

// PriceRecord agrupa los campos de precio compartidos por cualquier oferta
// publicada (composición explícita en lugar de herencia de registros).
// BasePrice es el precio de referencia interno (derivado de costo/tarifa) sobre
// el que se ancla el piso de margen; no cambia durante la reconciliación.
type PriceRecord struct {
	Price     decimal.Decimal // precio de venta actual publicado (impuestos incluidos)
	BasePrice decimal.Decimal // precio de referencia para el piso de margen
	ShipPrice decimal.Decimal // precio de envío (impuestos incluidos)
	Currency  string          // ISO-4217, ej. "EUR"
}

// MarketplaceListing es la oferta de un producto en un marketplace concreto.
// El núcleo de sincronización opera sobre lecturas de esta entidad y devuelve
// decisiones; la persistencia es responsabilidad del repositorio.
type MarketplaceListing struct {
	ID            string
	ProductID     string
	BackendID     string
	MarketplaceID string
	SKU           string
	Title         string
	Status        string // Active | Inactive | Unpublished | Submitted

	PriceRecord

	// Límites absolutos de precio; nil cuando no están configurados.
	MinAllowedPrice *decimal.Decimal
	MaxAllowedPrice *decimal.Decimal

	// Márgenes propios del listing; si son nil se usan los del backend.
	ChangePrices bool
	MinMargin    *decimal.Decimal
	MaxMargin    *decimal.Decimal

	// Última foto de competencia conocida.
	HasBuybox           bool
	HasLowestPrice      bool
	LowestPrice         decimal.Decimal // precio total más bajo (producto + envío)
	LowestProductPrice  decimal.Decimal
	LowestShippingPrice decimal.Decimal

	Stock                 int64
	CategoryID            string
	MerchantShippingGroup string

	CreatedAt time.Time
	UpdatedAt time.Time
}
