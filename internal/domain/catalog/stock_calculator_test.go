package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/catalog"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

func producto(virtual int64, boms ...entity.Bom) *entity.Product {
	return &entity.Product{
		SKU:              "SKU-TEST",
		VirtualAvailable: decimal.NewFromInt(virtual),
		Boms:             boms,
	}
}

func linea(componentVirtual, ratio float64) entity.BomLine {
	return entity.BomLine{
		ComponentSKU:              "CMP",
		ComponentVirtualAvailable: decimal.NewFromFloat(componentVirtual),
		QuantityPerUnit:           decimal.NewFromFloat(ratio),
	}
}

// TestComputeExportableQty_SinBom: sin BoM la cantidad exportable es el stock
// previsto del propio producto, acotado a >= 0.
func TestComputeExportableQty_SinBom(t *testing.T) {
	qty, err := catalog.ComputeExportableQty(producto(50))
	require.NoError(t, err)
	assert.Equal(t, int64(50), qty)

	qty, err = catalog.ComputeExportableQty(producto(-7))
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "el stock negativo nunca se exporta")
}

// TestComputeExportableQty_EscenarioCalibracion: virtual=50 más una línea
// (componente=200, ratio=3) debe dar 50 + floor(200/3) = 116.
func TestComputeExportableQty_EscenarioCalibracion(t *testing.T) {
	p := producto(50, entity.Bom{Lines: []entity.BomLine{linea(200, 3)}})

	qty, err := catalog.ComputeExportableQty(p)
	require.NoError(t, err)
	assert.Equal(t, int64(116), qty)
}

// TestComputeExportableQty_MinimoEntreLineas: con varias líneas manda el
// componente más escaso, nunca la suma ni el máximo.
func TestComputeExportableQty_MinimoEntreLineas(t *testing.T) {
	p := producto(10, entity.Bom{Lines: []entity.BomLine{
		linea(100, 1), // produce 100
		linea(30, 2),  // produce 15 <- el más escaso
		linea(500, 5), // produce 100
	}})

	qty, err := catalog.ComputeExportableQty(p)
	require.NoError(t, err)
	assert.Equal(t, int64(10+15), qty)
}

// TestComputeExportableQty_VariasBoms: el mínimo se toma sobre todas las
// líneas de todos los BoM del producto.
func TestComputeExportableQty_VariasBoms(t *testing.T) {
	p := producto(0,
		entity.Bom{Lines: []entity.BomLine{linea(40, 2)}}, // produce 20
		entity.Bom{Lines: []entity.BomLine{linea(9, 3)}},  // produce 3
	)

	qty, err := catalog.ComputeExportableQty(p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), qty)
}

// TestComputeExportableQty_BomSinLineas: un BoM vacío no aporta nada y no
// debe romper el cálculo.
func TestComputeExportableQty_BomSinLineas(t *testing.T) {
	p := producto(25, entity.Bom{})

	qty, err := catalog.ComputeExportableQty(p)
	require.NoError(t, err)
	assert.Equal(t, int64(25), qty)
}

// TestComputeExportableQty_RatioInvalido: ratio cero o negativo es un error de
// configuración, nunca stock ilimitado.
func TestComputeExportableQty_RatioInvalido(t *testing.T) {
	for _, ratio := range []float64{0, -1} {
		p := producto(50, entity.Bom{Lines: []entity.BomLine{linea(200, ratio)}})

		_, err := catalog.ComputeExportableQty(p)
		assert.ErrorIs(t, err, domain.ErrBomRatio)
	}
}

// TestComputeExportableQty_ComponenteNegativo: un componente con stock previsto
// negativo arrastra el mínimo hacia abajo, pero el resultado final queda en 0.
func TestComputeExportableQty_ComponenteNegativo(t *testing.T) {
	p := producto(5, entity.Bom{Lines: []entity.BomLine{linea(-100, 1)}})

	qty, err := catalog.ComputeExportableQty(p)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty, "el resultado nunca debe ser negativo")
}
