package sync

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/pricing"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
)

// AdapterParams son los parámetros mínimos de toda llamada por-listing al
// adaptador; el adaptador rechaza llamadas con parámetros vacíos.
type AdapterParams struct {
	SKU   string
	IDMws string // identificador del marketplace destino
}

// Empty indica si faltan parámetros obligatorios.
func (p AdapterParams) Empty() bool {
	return p.SKU == "" || p.IDMws == ""
}

// MarketplaceAdapter define el puerto de salida hacia el marketplace.
// Cada operación es una llamada remota acotada; los fallos se devuelven sin
// reintentos internos, el clasificador de reintentos decide después.
type MarketplaceAdapter interface {
	// GetLowestPriceAndBuybox devuelve la foto de competencia de un listing.
	GetLowestPriceAndBuybox(ctx context.Context, params AdapterParams) (pricing.CompetitorSnapshot, error)
	// GetMyPrice devuelve nuestro precio publicado tal como lo ve el marketplace.
	GetMyPrice(ctx context.Context, params AdapterParams) (decimal.Decimal, error)
	// GetCategory devuelve el identificador de categoría del producto.
	GetCategory(ctx context.Context, params AdapterParams) (string, error)
	// SubmitStockFeed envía un lote de cantidades; todo o nada por lote.
	SubmitStockFeed(ctx context.Context, items []entity.StockFeedItem) error
	// SubmitPriceFeed envía un lote de precios; todo o nada por lote.
	SubmitPriceFeed(ctx context.Context, items []entity.PriceFeedItem) error
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que la actualización del precio y la
// entrada del histórico se persisten juntas o no se persisten.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		listingRepo repository.ListingRepository,
		historyRepo repository.PriceHistoryRepository,
	) error) error
}
