package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

// Ensure TxRunner implements sync.TxRunner.
var _ appsync.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. El motor de
// reconciliación lo usa para que el precio nuevo y la entrada del histórico se
// persistan juntos o no se persistan.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	listingRepo repository.ListingRepository,
	historyRepo repository.PriceHistoryRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	listingRepo := NewListingRepository(tx)
	historyRepo := NewPriceHistoryRepository(tx)

	if err := fn(listingRepo, historyRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
