package repository

import (
	"time"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// PriceHistoryRepository define el puerto del histórico de precios.
// El histórico es solo-añadir: Append nunca modifica ni elimina entradas
// anteriores; las lecturas sirven al colaborador de reporting.
type PriceHistoryRepository interface {
	Append(record *entity.PriceChangeRecord) error
	ListByListing(listingID string, limit, offset int) ([]*entity.PriceChangeRecord, error)
	ListByListingAndRange(listingID string, from, to time.Time) ([]*entity.PriceChangeRecord, error)
}
