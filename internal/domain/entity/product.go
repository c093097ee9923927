package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de identificador de producto aceptados por el marketplace.
const (
	IDTypeGCID = "GCID"
	IDTypeUPC  = "UPC"
	IDTypeEAN  = "EAN"
	IDTypeISBN = "ISBN"
	IDTypeJAN  = "JAN"
)

// Product representa un producto del catálogo local vinculado al marketplace.
// VirtualAvailable es el stock previsto (reservas entrantes/salientes incluidas),
// distinto del stock físico; es la base del cálculo de cantidad exportable.
type Product struct {
	ID               string
	SKU              string // referencia del vendedor en el marketplace
	ASIN             string
	IDType           string // GCID | UPC | EAN | ISBN | JAN
	IDProduct        string
	Brand            string
	VirtualAvailable decimal.Decimal
	Boms             []Bom // recetas de fabricación (puede estar vacío)

	// Dimensiones para los feeds de logística del marketplace.
	Height decimal.Decimal
	Length decimal.Decimal
	Width  decimal.Decimal
	Weight decimal.Decimal

	// Márgenes propios del producto; si son nil se usan los del backend.
	ChangePrices bool
	MinMargin    *decimal.Decimal
	MaxMargin    *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Bom es una lista de materiales: cuántas unidades de cada componente se
// consumen para producir una unidad del producto padre.
type Bom struct {
	ID    string
	Lines []BomLine
}

// BomLine referencia un componente con su ratio de consumo.
// ComponentVirtualAvailable es la foto del stock previsto del componente al
// momento de cargar la receta; los sub-BoM no se expanden recursivamente,
// se evalúan con esta cifra almacenada.
type BomLine struct {
	ComponentID               string
	ComponentSKU              string
	ComponentVirtualAvailable decimal.Decimal
	QuantityPerUnit           decimal.Decimal // debe ser > 0
}
