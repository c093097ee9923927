// Package pricing implementa el motor de reconciliación de precios: a partir
// del listing, la foto de competencia y la política de márgenes decide el nuevo
// precio de venta y clasifica la dirección del cambio.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// CompetitorSnapshot es la foto de competencia devuelta por el marketplace
// para un listing en un momento dado.
type CompetitorSnapshot struct {
	LowestTotalPrice    decimal.Decimal // precio total más bajo (producto + envío)
	LowestProductPrice  decimal.Decimal
	LowestShippingPrice decimal.Decimal
	IsMineBuybox        bool
	IsMineLowest        bool
}

// HasCompetitorPrice indica si la foto trae un precio de competencia usable.
func (s CompetitorSnapshot) HasCompetitorPrice() bool {
	return s.LowestTotalPrice.IsPositive()
}

// MarginPolicy resuelve los márgenes efectivos de un listing: primero los del
// propio listing y, si no están definidos, los globales del backend.
type MarginPolicy struct {
	DefaultMinMargin *decimal.Decimal
	DefaultMaxMargin *decimal.Decimal
	UnderCutStep     decimal.Decimal // rebaja mínima sobre el competidor más barato
}

// ResolveMinMargin devuelve el margen mínimo efectivo (listing -> backend).
func (p MarginPolicy) ResolveMinMargin(l *entity.MarketplaceListing) *decimal.Decimal {
	if l.MinMargin != nil {
		return l.MinMargin
	}
	return p.DefaultMinMargin
}

// ResolveMaxMargin devuelve el margen máximo efectivo (listing -> backend).
func (p MarginPolicy) ResolveMaxMargin(l *entity.MarketplaceListing) *decimal.Decimal {
	if l.MaxMargin != nil {
		return l.MaxMargin
	}
	return p.DefaultMaxMargin
}

// Decision es el resultado de una reconciliación.
type Decision struct {
	NewPrice  decimal.Decimal
	Changed   bool
	Direction string // entity.PriceDirectionUp | Down | Equal
}

// Reconcile aplica las reglas de precio, en orden:
//
//  1. Si la buybox es nuestra: no se toca el precio (no competimos contra
//     nosotros mismos).
//  2. Si ya somos el más barato, o no hay señal de competencia: tampoco se
//     toca (solo se reacciona a ser superados).
//  3. En otro caso: candidato = competidor - UnderCutStep, pero nunca por
//     debajo del piso de margen BasePrice*(1+minMargin) ni de
//     MinAllowedPrice; si el candidato cae bajo el piso, el precio final es
//     el piso (el margen manda sobre la competitividad).
//  4. El candidato de la regla 3 se acota a [MinAllowedPrice,
//     MaxAllowedPrice] cuando ambos límites están configurados.
//
// Las reglas 1 y 2 son terminales: devuelven el precio vigente tal cual,
// incluso si quedó fuera del rango absoluto. El rango solo acota precios que
// esta función propone, no reajusta precios que no va a cambiar.
//
// La función es determinista e idempotente: reaplicada con la misma foto no
// produce un segundo cambio, porque el piso de margen se ancla en BasePrice
// (precio de referencia interno) y no en el precio ya reconciliado.
func Reconcile(listing *entity.MarketplaceListing, snapshot CompetitorSnapshot, policy MarginPolicy) Decision {
	oldPrice := listing.Price

	if snapshot.IsMineBuybox || snapshot.IsMineLowest || !snapshot.HasCompetitorPrice() {
		return Decision{
			NewPrice:  oldPrice,
			Changed:   false,
			Direction: entity.PriceDirectionEqual,
		}
	}

	newPrice := clampAllowed(listing, undercut(listing, snapshot, policy))

	return Decision{
		NewPrice:  newPrice,
		Changed:   !newPrice.Equal(oldPrice),
		Direction: direction(oldPrice, newPrice),
	}
}

// undercut calcula el candidato por debajo del competidor y aplica el piso de
// margen y el mínimo absoluto.
func undercut(listing *entity.MarketplaceListing, snapshot CompetitorSnapshot, policy MarginPolicy) decimal.Decimal {
	candidate := snapshot.LowestTotalPrice.Sub(policy.UnderCutStep)

	floor := decimal.Zero
	if min := policy.ResolveMinMargin(listing); min != nil {
		floor = listing.BasePrice.Mul(decimal.NewFromInt(1).Add(*min))
	}
	if listing.MinAllowedPrice != nil && listing.MinAllowedPrice.GreaterThan(floor) {
		floor = *listing.MinAllowedPrice
	}
	if candidate.LessThan(floor) {
		return floor
	}
	return candidate
}

// clampAllowed acota el precio al rango absoluto cuando ambos límites existen.
func clampAllowed(listing *entity.MarketplaceListing, price decimal.Decimal) decimal.Decimal {
	if listing.MinAllowedPrice == nil || listing.MaxAllowedPrice == nil {
		return price
	}
	if price.LessThan(*listing.MinAllowedPrice) {
		return *listing.MinAllowedPrice
	}
	if price.GreaterThan(*listing.MaxAllowedPrice) {
		return *listing.MaxAllowedPrice
	}
	return price
}

func direction(oldPrice, newPrice decimal.Decimal) string {
	switch newPrice.Cmp(oldPrice) {
	case 1:
		return entity.PriceDirectionUp
	case -1:
		return entity.PriceDirectionDown
	default:
		return entity.PriceDirectionEqual
	}
}

// NewRecord construye la entrada inmutable del histórico para una decisión que
// cambió el precio. El ID y la fecha del cambio los asigna quien la persiste.
func NewRecord(listing *entity.MarketplaceListing, snapshot CompetitorSnapshot, d Decision) *entity.PriceChangeRecord {
	return &entity.PriceChangeRecord{
		ListingID:       listing.ID,
		Direction:       d.Direction,
		BeforePrice:     listing.Price,
		AfterPrice:      d.NewPrice,
		CompetitorPrice: snapshot.LowestTotalPrice,
		BuyboxMine:      snapshot.IsMineBuybox,
	}
}
