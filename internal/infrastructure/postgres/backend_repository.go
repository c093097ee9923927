package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

var _ repository.BackendRepository = (*BackendRepo)(nil)
var _ repository.MarketplaceRepository = (*MarketplaceRepo)(nil)

// BackendRepo implementación del puerto BackendRepository sobre PostgreSQL.
type BackendRepo struct {
	q Querier
}

// NewBackendRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBackendRepository(q Querier) *BackendRepo {
	return &BackendRepo{q: q}
}

const backendColumns = `id, name, region, seller_id, token, sync_stock, change_prices,
	min_margin, max_margin, under_cut_step, created_at, updated_at`

// GetByID obtiene un backend por ID. Retorna nil si no existe.
func (r *BackendRepo) GetByID(id string) (*entity.Backend, error) {
	query := `SELECT ` + backendColumns + ` FROM backends WHERE id = $1`
	var b entity.Backend
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&b.ID, &b.Name, &b.Region, &b.SellerID, &b.Token, &b.SyncStock, &b.ChangePrices,
		&b.MinMargin, &b.MaxMargin, &b.UnderCutStep, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backend: %w", err)
	}
	return &b, nil
}

// List devuelve todos los backends configurados.
func (r *BackendRepo) List() ([]*entity.Backend, error) {
	query := `SELECT ` + backendColumns + ` FROM backends ORDER BY name`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list backends: %w", err)
	}
	defer rows.Close()
	var list []*entity.Backend
	for rows.Next() {
		var b entity.Backend
		if err := rows.Scan(&b.ID, &b.Name, &b.Region, &b.SellerID, &b.Token,
			&b.SyncStock, &b.ChangePrices, &b.MinMargin, &b.MaxMargin,
			&b.UnderCutStep, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan backend: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// MarketplaceRepo implementación del puerto de lectura de marketplaces.
type MarketplaceRepo struct {
	q Querier
}

// NewMarketplaceRepository construye el adaptador.
func NewMarketplaceRepository(q Querier) *MarketplaceRepo {
	return &MarketplaceRepo{q: q}
}

// GetByID obtiene un marketplace por ID. Retorna nil si no existe.
func (r *MarketplaceRepo) GetByID(id string) (*entity.Marketplace, error) {
	query := `SELECT id, name, region, id_mws, currency FROM marketplaces WHERE id = $1`
	var m entity.Marketplace
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.Name, &m.Region, &m.IDMws, &m.Currency,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marketplace: %w", err)
	}
	return &m, nil
}

// List devuelve todos los marketplaces conocidos.
func (r *MarketplaceRepo) List() ([]*entity.Marketplace, error) {
	query := `SELECT id, name, region, id_mws, currency FROM marketplaces ORDER BY region`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list marketplaces: %w", err)
	}
	defer rows.Close()
	var list []*entity.Marketplace
	for rows.Next() {
		var m entity.Marketplace
		if err := rows.Scan(&m.ID, &m.Name, &m.Region, &m.IDMws, &m.Currency); err != nil {
			return nil, fmt.Errorf("scan marketplace: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
