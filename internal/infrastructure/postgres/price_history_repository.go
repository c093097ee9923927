package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implementación del puerto PriceHistoryRepository sobre
// PostgreSQL. El histórico es solo-añadir: no hay UPDATE ni DELETE.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

const historyColumns = `id, listing_id, changed_at, direction, before_price, after_price,
	competitor_price, buybox_mine`

// Append registra una entrada inmutable del histórico de precios.
func (r *PriceHistoryRepo) Append(record *entity.PriceChangeRecord) error {
	query := `
		INSERT INTO price_change_records (id, listing_id, changed_at, direction,
			before_price, after_price, competitor_price, buybox_mine)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.ListingID, record.ChangedAt, record.Direction,
		record.BeforePrice, record.AfterPrice, record.CompetitorPrice, record.BuyboxMine,
	)
	if err != nil {
		return fmt.Errorf("append price record: %w", err)
	}
	return nil
}

// ListByListing devuelve las entradas de un listing, más recientes primero.
func (r *PriceHistoryRepo) ListByListing(listingID string, limit, offset int) ([]*entity.PriceChangeRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM price_change_records
		WHERE listing_id = $1 ORDER BY changed_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, listingID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list price records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// ListByListingAndRange devuelve las entradas dentro del rango [from, to], en
// orden cronológico para el informe.
func (r *PriceHistoryRepo) ListByListingAndRange(listingID string, from, to time.Time) ([]*entity.PriceChangeRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM price_change_records
		WHERE listing_id = $1 AND changed_at >= $2 AND changed_at <= $3
		ORDER BY changed_at`
	rows, err := r.q.Query(context.Background(), query, listingID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list price records by range: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

func scanRecords(rows pgx.Rows) ([]*entity.PriceChangeRecord, error) {
	var list []*entity.PriceChangeRecord
	for rows.Next() {
		var rec entity.PriceChangeRecord
		if err := rows.Scan(&rec.ID, &rec.ListingID, &rec.ChangedAt, &rec.Direction,
			&rec.BeforePrice, &rec.AfterPrice, &rec.CompetitorPrice, &rec.BuyboxMine); err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}
