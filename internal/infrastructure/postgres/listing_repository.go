package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

var _ repository.ListingRepository = (*ListingRepo)(nil)

// ListingRepo implementación del puerto ListingRepository sobre PostgreSQL.
type ListingRepo struct {
	q Querier
}

// NewListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingRepository(q Querier) *ListingRepo {
	return &ListingRepo{q: q}
}

const listingColumns = `id, product_id, backend_id, marketplace_id, sku, title, status,
	price, base_price, ship_price, currency, min_allowed_price, max_allowed_price,
	change_prices, min_margin, max_margin,
	has_buybox, has_lowest_price, lowest_price, lowest_product_price, lowest_shipping_price,
	stock, category_id, merchant_shipping_group, created_at, updated_at`

// Create persiste un nuevo listing. El par (backend, sku, marketplace) tiene
// constraint único.
func (r *ListingRepo) Create(l *entity.MarketplaceListing) error {
	query := `
		INSERT INTO marketplace_listings (id, product_id, backend_id, marketplace_id, sku, title, status,
			price, base_price, ship_price, currency, min_allowed_price, max_allowed_price,
			change_prices, min_margin, max_margin,
			has_buybox, has_lowest_price, lowest_price, lowest_product_price, lowest_shipping_price,
			stock, category_id, merchant_shipping_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.ProductID, l.BackendID, l.MarketplaceID, l.SKU, l.Title, l.Status,
		l.Price, l.BasePrice, l.ShipPrice, l.Currency, l.MinAllowedPrice, l.MaxAllowedPrice,
		l.ChangePrices, l.MinMargin, l.MaxMargin,
		l.HasBuybox, l.HasLowestPrice, l.LowestPrice, l.LowestProductPrice, l.LowestShippingPrice,
		l.Stock, l.CategoryID, l.MerchantShippingGroup, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// GetByID obtiene un listing por ID. Retorna nil si no existe.
func (r *ListingRepo) GetByID(id string) (*entity.MarketplaceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM marketplace_listings WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetBySKUAndMarketplace obtiene un listing por su clave de negocio.
func (r *ListingRepo) GetBySKUAndMarketplace(backendID, sku, marketplaceID string) (*entity.MarketplaceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM marketplace_listings
		WHERE backend_id = $1 AND sku = $2 AND marketplace_id = $3`
	return r.scanOne(r.q.QueryRow(context.Background(), query, backendID, sku, marketplaceID))
}

func (r *ListingRepo) scanOne(row pgx.Row) (*entity.MarketplaceListing, error) {
	var l entity.MarketplaceListing
	err := row.Scan(
		&l.ID, &l.ProductID, &l.BackendID, &l.MarketplaceID, &l.SKU, &l.Title, &l.Status,
		&l.Price, &l.BasePrice, &l.ShipPrice, &l.Currency, &l.MinAllowedPrice, &l.MaxAllowedPrice,
		&l.ChangePrices, &l.MinMargin, &l.MaxMargin,
		&l.HasBuybox, &l.HasLowestPrice, &l.LowestPrice, &l.LowestProductPrice, &l.LowestShippingPrice,
		&l.Stock, &l.CategoryID, &l.MerchantShippingGroup, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get listing: %w", err)
	}
	return &l, nil
}

// ListByBackend lista los listings de un backend en orden de creación. El
// planificador de lotes recorre este orden tal cual.
func (r *ListingRepo) ListByBackend(backendID string) ([]*entity.MarketplaceListing, error) {
	query := `SELECT ` + listingColumns + ` FROM marketplace_listings
		WHERE backend_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, backendID)
	if err != nil {
		return nil, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()
	var list []*entity.MarketplaceListing
	for rows.Next() {
		var l entity.MarketplaceListing
		if err := rows.Scan(
			&l.ID, &l.ProductID, &l.BackendID, &l.MarketplaceID, &l.SKU, &l.Title, &l.Status,
			&l.Price, &l.BasePrice, &l.ShipPrice, &l.Currency, &l.MinAllowedPrice, &l.MaxAllowedPrice,
			&l.ChangePrices, &l.MinMargin, &l.MaxMargin,
			&l.HasBuybox, &l.HasLowestPrice, &l.LowestPrice, &l.LowestProductPrice, &l.LowestShippingPrice,
			&l.Stock, &l.CategoryID, &l.MerchantShippingGroup, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdatePrice escribe el precio decidido por el motor de reconciliación. Se
// invoca dentro de la transacción que además registra el histórico.
func (r *ListingRepo) UpdatePrice(listingID string, price decimal.Decimal) error {
	query := `UPDATE marketplace_listings SET price = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, listingID, price, time.Now())
	if err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateCompetitorData refresca la foto de competencia y el estado derivado
// del listing (stock publicado, categoría).
func (r *ListingRepo) UpdateCompetitorData(l *entity.MarketplaceListing) error {
	query := `
		UPDATE marketplace_listings SET
			has_buybox = $2, has_lowest_price = $3, lowest_price = $4,
			lowest_product_price = $5, lowest_shipping_price = $6,
			stock = $7, category_id = $8, status = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.HasBuybox, l.HasLowestPrice, l.LowestPrice,
		l.LowestProductPrice, l.LowestShippingPrice,
		l.Stock, l.CategoryID, l.Status, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("update competitor data: %w", err)
	}
	return nil
}
