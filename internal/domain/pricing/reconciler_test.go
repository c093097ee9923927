package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/pricing"
)

func dec(f float64) decimal.Decimal      { return decimal.NewFromFloat(f) }
func decPtr(f float64) *decimal.Decimal { d := decimal.NewFromFloat(f); return &d }

func listingBase(price float64) *entity.MarketplaceListing {
	return &entity.MarketplaceListing{
		ID:  "lst-1",
		SKU: "SKU-1",
		PriceRecord: entity.PriceRecord{
			Price:     dec(price),
			BasePrice: dec(price),
			Currency:  "EUR",
		},
		Status: entity.ListingStatusActive,
	}
}

func politica() pricing.MarginPolicy {
	return pricing.MarginPolicy{
		DefaultMinMargin: decPtr(0.05),
		DefaultMaxMargin: decPtr(0.50),
		UnderCutStep:     dec(0.01),
	}
}

// TestReconcile_BuyboxNuestra: tener la buybox es condición terminal, el
// precio no se toca y no hay cambio que registrar.
func TestReconcile_BuyboxNuestra(t *testing.T) {
	l := listingBase(100)
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(90),
		IsMineBuybox:     true,
		IsMineLowest:     false,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(100)), "con buybox el precio no cambia")
	assert.False(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionEqual, d.Direction)
}

// TestReconcile_BuyboxFueraDeRango: la buybox sigue siendo terminal aunque el
// precio vigente haya quedado fuera del rango absoluto; el rango solo acota
// precios propuestos, nunca reajusta un precio que no se va a cambiar.
func TestReconcile_BuyboxFueraDeRango(t *testing.T) {
	l := listingBase(110)
	l.MinAllowedPrice = decPtr(95)
	l.MaxAllowedPrice = decPtr(102)
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(90),
		IsMineBuybox:     true,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(110)), "con buybox el precio queda intacto, fue %s", d.NewPrice)
	assert.False(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionEqual, d.Direction)
}

// TestReconcile_MasBaratoFueraDeRango: lo mismo aplica a ser ya los más
// baratos: ninguna rama sin cambio pasa por el acotado al rango.
func TestReconcile_MasBaratoFueraDeRango(t *testing.T) {
	l := listingBase(80)
	l.MinAllowedPrice = decPtr(95)
	l.MaxAllowedPrice = decPtr(102)
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(85),
		IsMineLowest:     true,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(80)), "precio intacto esperado 80, fue %s", d.NewPrice)
	assert.False(t, d.Changed)
}

// TestReconcile_PisoDeMargen: escenario de calibración — precio=100,
// min_margin=0.05, competidor=90, sin buybox ni precio más bajo. La rebaja
// (89.99) cae bajo el piso (105): el precio final es el piso, dirección UP.
func TestReconcile_PisoDeMargen(t *testing.T) {
	l := listingBase(100)
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(90),
		IsMineBuybox:     false,
		IsMineLowest:     false,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(105)), "precio esperado 105, fue %s", d.NewPrice)
	assert.True(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionUp, d.Direction)
}

// TestReconcile_Rebaja: si la rebaja respeta el piso de margen, el precio baja
// exactamente UnderCutStep por debajo del competidor.
func TestReconcile_Rebaja(t *testing.T) {
	l := listingBase(120)
	l.BasePrice = dec(100) // piso = 105
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(110),
		IsMineLowest:     false,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(109.99)), "precio esperado 109.99, fue %s", d.NewPrice)
	assert.True(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionDown, d.Direction)
}

// TestReconcile_YaSomosElMasBarato: ya con el precio más bajo no se sigue
// bajando; solo se reacciona a ser superado.
func TestReconcile_YaSomosElMasBarato(t *testing.T) {
	l := listingBase(80)
	snap := pricing.CompetitorSnapshot{
		LowestTotalPrice: dec(85),
		IsMineLowest:     true,
	}

	d := pricing.Reconcile(l, snap, politica())

	assert.False(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionEqual, d.Direction)
}

// TestReconcile_Idempotente: reaplicar con la misma foto no produce un segundo
// cambio (el piso de margen se ancla en BasePrice, no en el precio nuevo).
func TestReconcile_Idempotente(t *testing.T) {
	l := listingBase(100)
	snap := pricing.CompetitorSnapshot{LowestTotalPrice: dec(90)}
	pol := politica()

	d1 := pricing.Reconcile(l, snap, pol)
	require.True(t, d1.Changed)

	l.Price = d1.NewPrice
	d2 := pricing.Reconcile(l, snap, pol)

	assert.False(t, d2.Changed, "la segunda aplicación no debe cambiar nada")
	assert.True(t, d2.NewPrice.Equal(d1.NewPrice))
}

// TestReconcile_MargenDelListingPrevalece: el margen propio del listing manda
// sobre el global del backend.
func TestReconcile_MargenDelListingPrevalece(t *testing.T) {
	l := listingBase(100)
	l.MinMargin = decPtr(0.20) // piso = 120, por encima del global (105)
	snap := pricing.CompetitorSnapshot{LowestTotalPrice: dec(90)}

	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(120)), "precio esperado 120, fue %s", d.NewPrice)
}

// TestReconcile_AcotadoALimitesAbsolutos: con MinAllowedPrice y
// MaxAllowedPrice configurados, el precio final siempre queda dentro del rango.
func TestReconcile_AcotadoALimitesAbsolutos(t *testing.T) {
	l := listingBase(100)
	l.MinAllowedPrice = decPtr(95)
	l.MaxAllowedPrice = decPtr(102)
	snap := pricing.CompetitorSnapshot{LowestTotalPrice: dec(90)}

	// El piso de margen (105) excede el máximo permitido: gana el límite.
	d := pricing.Reconcile(l, snap, politica())

	assert.True(t, d.NewPrice.Equal(dec(102)), "precio esperado 102, fue %s", d.NewPrice)
	assert.True(t, d.NewPrice.GreaterThanOrEqual(*l.MinAllowedPrice))
	assert.True(t, d.NewPrice.LessThanOrEqual(*l.MaxAllowedPrice))
}

// TestReconcile_MinimoAbsolutoComoPiso: sin margen mínimo el MinAllowedPrice
// actúa como piso de la rebaja.
func TestReconcile_MinimoAbsolutoComoPiso(t *testing.T) {
	l := listingBase(100)
	l.MinAllowedPrice = decPtr(92)
	pol := pricing.MarginPolicy{UnderCutStep: dec(0.01)} // sin márgenes por defecto
	snap := pricing.CompetitorSnapshot{LowestTotalPrice: dec(90)}

	d := pricing.Reconcile(l, snap, pol)

	assert.True(t, d.NewPrice.Equal(dec(92)), "precio esperado 92, fue %s", d.NewPrice)
	assert.Equal(t, entity.PriceDirectionDown, d.Direction)
}

// TestReconcile_SinSenalDeCompetencia: sin precio de competencia conocido no
// hay nada que reconciliar.
func TestReconcile_SinSenalDeCompetencia(t *testing.T) {
	l := listingBase(100)
	d := pricing.Reconcile(l, pricing.CompetitorSnapshot{}, politica())

	assert.False(t, d.Changed)
	assert.Equal(t, entity.PriceDirectionEqual, d.Direction)
}

// TestNewRecord: la entrada del histórico refleja precio antes/después, el
// precio de competencia observado y la propiedad de la buybox al decidir.
func TestNewRecord(t *testing.T) {
	l := listingBase(100)
	snap := pricing.CompetitorSnapshot{LowestTotalPrice: dec(90)}
	d := pricing.Reconcile(l, snap, politica())

	rec := pricing.NewRecord(l, snap, d)

	assert.Equal(t, l.ID, rec.ListingID)
	assert.True(t, rec.BeforePrice.Equal(dec(100)))
	assert.True(t, rec.AfterPrice.Equal(dec(105)))
	assert.True(t, rec.CompetitorPrice.Equal(dec(90)))
	assert.False(t, rec.BuyboxMine)
	assert.Equal(t, entity.PriceDirectionUp, rec.Direction)
}
