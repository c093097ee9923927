package repository

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// ListingRepository define el puerto de persistencia para MarketplaceListing.
type ListingRepository interface {
	Create(listing *entity.MarketplaceListing) error
	GetByID(id string) (*entity.MarketplaceListing, error)
	GetBySKUAndMarketplace(backendID, sku, marketplaceID string) (*entity.MarketplaceListing, error)
	// ListByBackend devuelve los listings de un backend en orden estable de
	// creación; el planificador de exportación depende de ese orden.
	ListByBackend(backendID string) ([]*entity.MarketplaceListing, error)
	// UpdatePrice actualiza solo el precio publicado (usado por el motor de
	// reconciliación dentro de la transacción que registra el histórico).
	UpdatePrice(listingID string, price decimal.Decimal) error
	// UpdateCompetitorData refresca la última foto de competencia conocida.
	UpdateCompetitorData(listing *entity.MarketplaceListing) error
}
