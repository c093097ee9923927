// Package catalog contiene los servicios de dominio del catálogo: cálculo de
// la cantidad exportable de un producto a partir de su stock previsto y sus
// listas de materiales (BoM).
package catalog

import (
	"fmt"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// ComputeExportableQty calcula la cantidad vendible a exportar al marketplace.
//
// Término base: el stock previsto del propio producto si es positivo, 0 si no.
// Término BoM: por cada línea de cada BoM, floor(stock_componente / ratio); la
// cantidad producible es el MÍNIMO de todas las líneas (el componente más
// escaso limita la producción). Los sub-BoM no se expanden: cada componente se
// evalúa con su cifra de stock previsto almacenada.
//
// El resultado nunca es negativo. Una línea con ratio <= 0 es un error de
// configuración del catálogo y devuelve domain.ErrBomRatio.
func ComputeExportableQty(product *entity.Product) (int64, error) {
	var total int64
	if product.VirtualAvailable.IsPositive() {
		total = product.VirtualAvailable.Floor().IntPart()
	}

	if len(product.Boms) > 0 {
		var produced int64
		first := true
		for _, bom := range product.Boms {
			for _, line := range bom.Lines {
				if !line.QuantityPerUnit.IsPositive() {
					return 0, fmt.Errorf("%w: producto %s componente %s",
						domain.ErrBomRatio, product.SKU, line.ComponentSKU)
				}
				aux := line.ComponentVirtualAvailable.Div(line.QuantityPerUnit).Floor().IntPart()
				if first || aux < produced {
					produced = aux
					first = false
				}
			}
		}
		if !first {
			total += produced
		}
	}

	if total < 0 {
		return 0, nil
	}
	return total, nil
}
