package usecase

import (
	"github.com/jhoicas/Marketsync-api/internal/application/dto"
	"github.com/jhoicas/Marketsync-api/internal/domain/catalog"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

// ProductUseCase consultas de catálogo para el panel: productos con su
// cantidad exportable calculada.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// GetByID obtiene un producto con su cantidad exportable.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product)
}

// List lista productos paginados.
func (uc *ProductUseCase) List(page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	products, err := uc.repo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, p := range products {
		resp, err := toProductResponse(p)
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, *resp)
	}
	return out, nil
}

func toProductResponse(p *entity.Product) (*dto.ProductResponse, error) {
	qty, err := catalog.ComputeExportableQty(p)
	if err != nil {
		// Un BoM mal configurado no debe ocultar el producto en el panel:
		// se muestra con cantidad 0 y el operador lo corrige.
		qty = 0
	}
	resp := &dto.ProductResponse{
		ID:               p.ID,
		SKU:              p.SKU,
		ASIN:             p.ASIN,
		IDType:           p.IDType,
		Brand:            p.Brand,
		VirtualAvailable: p.VirtualAvailable,
		ExportableQty:    qty,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, bom := range p.Boms {
		for _, line := range bom.Lines {
			resp.BomLines = append(resp.BomLines, dto.BomLineResponse{
				ComponentSKU:              line.ComponentSKU,
				ComponentVirtualAvailable: line.ComponentVirtualAvailable,
				QuantityPerUnit:           line.QuantityPerUnit,
			})
		}
	}
	return resp, nil
}
