package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Backend es una cuenta de vendedor en el marketplace: credenciales más la
// configuración global de sincronización. Los márgenes por defecto aplican a
// productos/listings que no definen los suyos.
type Backend struct {
	ID       string
	Name     string
	Region   string // ej. "ES", "DE"
	SellerID string
	Token    string

	SyncStock    bool // habilita la pasada de stock
	ChangePrices bool // habilita la pasada de precios
	MinMargin    *decimal.Decimal
	MaxMargin    *decimal.Decimal

	// UnderCutStep es el incremento mínimo con el que se rebaja al competidor
	// más barato; cero usa el valor por defecto de configuración.
	UnderCutStep decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricePassEnabled indica si la pasada de precios puede ejecutarse: requiere
// el flag activo y ambos márgenes globales configurados.
func (b *Backend) PricePassEnabled() bool {
	return b.ChangePrices && b.MinMargin != nil && b.MaxMargin != nil
}

// Marketplace es un mercado destino (España, Alemania, ...) con su
// identificador externo y moneda.
type Marketplace struct {
	ID       string
	Name     string
	Region   string
	IDMws    string // identificador del marketplace en la API externa
	Currency string
}
