package repository

import "github.com/jhoicas/Marketsync-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven el producto con sus BoM y la foto de stock previsto
// de cada componente ya cargadas.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
}
