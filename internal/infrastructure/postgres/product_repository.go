package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL
// (usable con pool o tx). Las lecturas cargan los BoM del producto con la foto
// de stock previsto de cada componente.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos.
// Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, sku, asin, id_type, id_product, brand, virtual_available,
	height, length, width, weight, change_prices, min_margin, max_margin, created_at, updated_at`

// Create persiste un nuevo producto (sin sus BoM, que se gestionan aparte).
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, asin, id_type, id_product, brand, virtual_available,
			height, length, width, weight, change_prices, min_margin, max_margin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.SKU, product.ASIN, product.IDType, product.IDProduct, product.Brand,
		product.VirtualAvailable, product.Height, product.Length, product.Width, product.Weight,
		product.ChangePrices, product.MinMargin, product.MaxMargin, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con sus BoM.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetBySKU obtiene un producto por SKU con sus BoM.
func (r *ProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(query string, arg any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&p.ID, &p.SKU, &p.ASIN, &p.IDType, &p.IDProduct, &p.Brand, &p.VirtualAvailable,
		&p.Height, &p.Length, &p.Width, &p.Weight, &p.ChangePrices, &p.MinMargin, &p.MaxMargin,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := r.loadBoms(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// loadBoms carga los BoM del producto. El componente se lee con un join a
// products para traer su virtual_available actual (los sub-BoM no se expanden).
func (r *ProductRepo) loadBoms(p *entity.Product) error {
	query := `
		SELECT l.bom_id, l.component_id, c.sku, c.virtual_available, l.quantity_per_unit
		FROM bom_lines l
		JOIN products c ON c.id = l.component_id
		WHERE l.product_id = $1
		ORDER BY l.bom_id, l.position`
	rows, err := r.q.Query(context.Background(), query, p.ID)
	if err != nil {
		return fmt.Errorf("load boms: %w", err)
	}
	defer rows.Close()

	byBom := map[string]*entity.Bom{}
	var order []string
	for rows.Next() {
		var bomID string
		var line entity.BomLine
		if err := rows.Scan(&bomID, &line.ComponentID, &line.ComponentSKU,
			&line.ComponentVirtualAvailable, &line.QuantityPerUnit); err != nil {
			return fmt.Errorf("scan bom line: %w", err)
		}
		bom, ok := byBom[bomID]
		if !ok {
			bom = &entity.Bom{ID: bomID}
			byBom[bomID] = bom
			order = append(order, bomID)
		}
		bom.Lines = append(bom.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range order {
		p.Boms = append(p.Boms, *byBom[id])
	}
	return nil
}

// List lista productos paginados (sin BoM, para el listado del panel los BoM
// se cargan producto a producto).
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.ASIN, &p.IDType, &p.IDProduct, &p.Brand,
			&p.VirtualAvailable, &p.Height, &p.Length, &p.Width, &p.Weight,
			&p.ChangePrices, &p.MinMargin, &p.MaxMargin, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza un producto existente. El stock previsto lo escribe el
// proceso de importación, no el panel.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET asin = $2, id_type = $3, id_product = $4, brand = $5,
			virtual_available = $6, height = $7, length = $8, width = $9, weight = $10,
			change_prices = $11, min_margin = $12, max_margin = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.ASIN, product.IDType, product.IDProduct, product.Brand,
		product.VirtualAvailable, product.Height, product.Length, product.Width, product.Weight,
		product.ChangePrices, product.MinMargin, product.MaxMargin, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}
