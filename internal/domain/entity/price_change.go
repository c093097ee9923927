package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dirección del cambio de precio respecto al precio anterior.
const (
	PriceDirectionUp    = "UP"
	PriceDirectionDown  = "DOWN"
	PriceDirectionEqual = "EQUAL"
)

// PriceChangeRecord es una entrada inmutable del histórico de precios.
// Se crea exactamente una por decisión de reconciliación que cambia el precio;
// nunca se modifica ni se elimina.
type PriceChangeRecord struct {
	ID              string
	ListingID       string
	ChangedAt       time.Time
	Direction       string // UP | DOWN | EQUAL
	BeforePrice     decimal.Decimal
	AfterPrice      decimal.Decimal
	CompetitorPrice decimal.Decimal // precio de competencia observado al decidir
	BuyboxMine      bool            // si la buybox era nuestra al decidir
}
