package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BomLineResponse línea de BoM en respuestas de producto.
type BomLineResponse struct {
	ComponentSKU              string          `json:"component_sku"`
	ComponentVirtualAvailable decimal.Decimal `json:"component_virtual_available"`
	QuantityPerUnit           decimal.Decimal `json:"quantity_per_unit"`
}

// ProductResponse salida de un producto del catálogo.
type ProductResponse struct {
	ID               string            `json:"id"`
	SKU              string            `json:"sku"`
	ASIN             string            `json:"asin,omitempty"`
	IDType           string            `json:"id_type,omitempty"`
	Brand            string            `json:"brand,omitempty"`
	VirtualAvailable decimal.Decimal   `json:"virtual_available"`
	ExportableQty    int64             `json:"exportable_qty"`
	BomLines         []BomLineResponse `json:"bom_lines,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
