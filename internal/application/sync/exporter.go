// Package sync implementa la pasada de sincronización con el marketplace:
// enumera listings, calcula cantidades exportables, reconcilia precios contra
// la competencia y entrega los resultados en lotes acotados al adaptador de
// transporte. Los fallos transitorios se clasifican para que el runner de
// trabajos reprograme la unidad completa.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/catalog"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/pricing"
	"github.com/jhoicas/Marketsync-api/internal/domain/repository"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

// Config parámetros de la pasada de exportación.
type Config struct {
	BatchSize    int             // listings por lote; 0 usa DefaultBatchSize
	UnderCutStep decimal.Decimal // rebaja por defecto si el backend no define la suya
}

// ExportUseCase orquesta una pasada de sincronización para un backend.
// No guarda estado entre pasadas más allá del lote en vuelo; la exclusión
// mutua entre pasadas del mismo backend la garantiza el runner de trabajos.
type ExportUseCase struct {
	backendRepo repository.BackendRepository
	productRepo repository.ProductRepository
	listingRepo repository.ListingRepository
	txRunner    TxRunner
	adapter     MarketplaceAdapter
	cfg         Config
	log         *logger.Logger
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(
	backendRepo repository.BackendRepository,
	productRepo repository.ProductRepository,
	listingRepo repository.ListingRepository,
	txRunner TxRunner,
	adapter MarketplaceAdapter,
	cfg Config,
	log *logger.Logger,
) *ExportUseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &ExportUseCase{
		backendRepo: backendRepo,
		productRepo: productRepo,
		listingRepo: listingRepo,
		txRunner:    txRunner,
		adapter:     adapter,
		cfg:         cfg,
		log:         log,
	}
}

// Export es el punto de entrada del runner de trabajos: ejecuta la pasada de
// stock (si el backend la habilita) y la de precios (si el backend la habilita
// y tiene márgenes globales). Es idempotente: repetirla con las mismas
// entradas no duplica entradas del histórico ni cantidades.
func (uc *ExportUseCase) Export(ctx context.Context, backendID string) error {
	backend, err := uc.backendRepo.GetByID(backendID)
	if err != nil {
		return fmt.Errorf("export: obtener backend: %w", err)
	}
	if backend == nil {
		return fmt.Errorf("export: backend %s: %w", backendID, domain.ErrNotFound)
	}

	if backend.SyncStock {
		if err := uc.RunStockExportPass(ctx, backend); err != nil {
			return err
		}
	}
	return uc.RunPriceExportPass(ctx, backend)
}

// RunStockExportPass calcula la cantidad exportable de cada listing y la envía
// al marketplace en lotes secuenciales y ordenados: el lote N+1 no se envía
// hasta resolver el N. Un lote que falla se trata como fallido completo; el
// reintento reenvía el lote entero (los valores son sobrescrituras
// idempotentes, el reenvío duplicado es inocuo).
func (uc *ExportUseCase) RunStockExportPass(ctx context.Context, backend *entity.Backend) error {
	listings, err := uc.listingRepo.ListByBackend(backend.ID)
	if err != nil {
		return fmt.Errorf("pasada de stock: listar listings: %w", err)
	}

	var items []entity.StockFeedItem
	for _, listing := range listings {
		product, err := uc.productRepo.GetByID(listing.ProductID)
		if err != nil {
			return fmt.Errorf("pasada de stock: obtener producto %s: %w", listing.ProductID, err)
		}
		if product == nil {
			uc.log.Warn().Str("sku", listing.SKU).Msg("listing sin producto local, se omite")
			continue
		}
		qty, err := catalog.ComputeExportableQty(product)
		if err != nil {
			return fmt.Errorf("pasada de stock: sku %s: %w", listing.SKU, err)
		}
		if qty < 0 {
			qty = 0
		}
		items = append(items, entity.StockFeedItem{
			SKU:      listing.SKU,
			Quantity: qty,
			IDMws:    listing.MarketplaceID,
		})
	}

	for _, batch := range Chunk(items, uc.cfg.BatchSize) {
		if err := uc.adapter.SubmitStockFeed(ctx, batch); err != nil {
			return fmt.Errorf("pasada de stock: enviar lote: %w", err)
		}
	}

	uc.log.Info().
		Str("backend", backend.ID).
		Int("listings", len(items)).
		Msg("pasada de stock completada")
	return nil
}

// priceChange es una decisión pendiente de envío: el precio local no se toca
// hasta que el marketplace acepte el lote que la contiene.
type priceChange struct {
	listing  *entity.MarketplaceListing
	snapshot pricing.CompetitorSnapshot
	decision pricing.Decision
}

// RunPriceExportPass reconcilia el precio de cada listing activo contra la
// foto de competencia y envía los cambios en lotes. Solo corre si el backend
// habilita el cambio de precios y define ambos márgenes globales.
//
// El orden importa: primero se envía el lote y solo después se persiste cada
// decisión (nuevo precio más una entrada del histórico, en una transacción).
// Así, si el envío falla, el precio local queda intacto y el reintento de la
// unidad completa vuelve a derivar y reenviar el mismo feed; si lo que falla
// es la persistencia tras un envío aceptado, el reintento reenvía el mismo
// valor (sobrescritura idempotente, inocua para el marketplace).
func (uc *ExportUseCase) RunPriceExportPass(ctx context.Context, backend *entity.Backend) error {
	if !backend.PricePassEnabled() {
		uc.log.Debug().Str("backend", backend.ID).Msg("pasada de precios deshabilitada")
		return nil
	}

	listings, err := uc.listingRepo.ListByBackend(backend.ID)
	if err != nil {
		return fmt.Errorf("pasada de precios: listar listings: %w", err)
	}

	policy := pricing.MarginPolicy{
		DefaultMinMargin: backend.MinMargin,
		DefaultMaxMargin: backend.MaxMargin,
		UnderCutStep:     uc.underCutStep(backend),
	}

	var changes []priceChange
	for _, listing := range listings {
		if listing.Status != entity.ListingStatusActive || !listing.ChangePrices {
			continue
		}
		params := AdapterParams{SKU: listing.SKU, IDMws: listing.MarketplaceID}
		if err := uc.validateParams("get_lowest_price_and_buybox", params); err != nil {
			return err
		}
		snapshot, err := uc.adapter.GetLowestPriceAndBuybox(ctx, params)
		if err != nil {
			return fmt.Errorf("pasada de precios: sku %s: %w", listing.SKU, err)
		}

		decision := pricing.Reconcile(listing, snapshot, policy)
		if !decision.Changed {
			if err := uc.persistSnapshot(listing, snapshot); err != nil {
				return err
			}
			continue
		}
		changes = append(changes, priceChange{listing: listing, snapshot: snapshot, decision: decision})
	}

	for _, batch := range Chunk(changes, uc.cfg.BatchSize) {
		items := make([]entity.PriceFeedItem, 0, len(batch))
		for _, change := range batch {
			items = append(items, entity.PriceFeedItem{
				SKU:      change.listing.SKU,
				Price:    change.decision.NewPrice,
				Currency: change.listing.Currency,
				IDMws:    change.listing.MarketplaceID,
			})
		}
		if err := uc.adapter.SubmitPriceFeed(ctx, items); err != nil {
			return fmt.Errorf("pasada de precios: enviar lote: %w", err)
		}
		for _, change := range batch {
			if err := uc.persistDecision(ctx, change.listing, change.snapshot, change.decision); err != nil {
				return err
			}
		}
	}

	uc.log.Info().
		Str("backend", backend.ID).
		Int("cambios", len(changes)).
		Msg("pasada de precios completada")
	return nil
}

// applySnapshot copia la foto de competencia al listing.
func applySnapshot(listing *entity.MarketplaceListing, snapshot pricing.CompetitorSnapshot) {
	listing.HasBuybox = snapshot.IsMineBuybox
	listing.HasLowestPrice = snapshot.IsMineLowest
	listing.LowestPrice = snapshot.LowestTotalPrice
	listing.LowestProductPrice = snapshot.LowestProductPrice
	listing.LowestShippingPrice = snapshot.LowestShippingPrice
}

// persistSnapshot guarda la última foto de competencia de una decisión sin
// cambio de precio; no genera entrada del histórico.
func (uc *ExportUseCase) persistSnapshot(listing *entity.MarketplaceListing, snapshot pricing.CompetitorSnapshot) error {
	applySnapshot(listing, snapshot)
	if err := uc.listingRepo.UpdateCompetitorData(listing); err != nil {
		return fmt.Errorf("persistir foto de competencia sku %s: %w", listing.SKU, err)
	}
	return nil
}

// persistDecision actualiza el precio del listing y añade la entrada del
// histórico en la misma transacción. Se llama solo con decisiones que
// cambiaron el precio, y solo después de que el marketplace aceptó el lote.
func (uc *ExportUseCase) persistDecision(
	ctx context.Context,
	listing *entity.MarketplaceListing,
	snapshot pricing.CompetitorSnapshot,
	decision pricing.Decision,
) error {
	applySnapshot(listing, snapshot)

	record := pricing.NewRecord(listing, snapshot, decision)
	record.ID = uuid.New().String()
	record.ChangedAt = time.Now()
	err := uc.txRunner.Run(ctx, func(
		listingRepo repository.ListingRepository,
		historyRepo repository.PriceHistoryRepository,
	) error {
		if err := listingRepo.UpdatePrice(listing.ID, decision.NewPrice); err != nil {
			return err
		}
		if err := listingRepo.UpdateCompetitorData(listing); err != nil {
			return err
		}
		return historyRepo.Append(record)
	})
	if err != nil {
		return fmt.Errorf("persistir decisión de precio sku %s: %w", listing.SKU, err)
	}

	listing.Price = decision.NewPrice
	uc.log.Info().
		Str("sku", listing.SKU).
		Str("direccion", decision.Direction).
		Str("antes", record.BeforePrice.String()).
		Str("despues", record.AfterPrice.String()).
		Msg("precio reconciliado")
	return nil
}

// RefreshListing reimporta los datos de mercado de un listing: precio propio,
// categoría y foto de competencia. Un resultado vacío se señala con
// domain.ErrEmptyResult para que el clasificador reprograme la importación.
func (uc *ExportUseCase) RefreshListing(ctx context.Context, listingID string) error {
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return fmt.Errorf("refrescar listing: %w", err)
	}
	if listing == nil {
		return fmt.Errorf("refrescar listing %s: %w", listingID, domain.ErrNotFound)
	}

	params := AdapterParams{SKU: listing.SKU, IDMws: listing.MarketplaceID}
	if err := uc.validateParams("get_my_price_product", params); err != nil {
		return err
	}

	myPrice, err := uc.adapter.GetMyPrice(ctx, params)
	if err != nil {
		return err
	}
	if myPrice.IsZero() {
		return fmt.Errorf("refrescar listing %s: %w", listing.SKU, domain.ErrEmptyResult)
	}

	category, err := uc.adapter.GetCategory(ctx, params)
	if err != nil {
		return err
	}
	snapshot, err := uc.adapter.GetLowestPriceAndBuybox(ctx, params)
	if err != nil {
		return err
	}

	listing.Price = myPrice
	listing.CategoryID = category
	listing.HasBuybox = snapshot.IsMineBuybox
	listing.HasLowestPrice = snapshot.IsMineLowest
	listing.LowestPrice = snapshot.LowestTotalPrice
	listing.LowestProductPrice = snapshot.LowestProductPrice
	listing.LowestShippingPrice = snapshot.LowestShippingPrice
	return uc.listingRepo.UpdateCompetitorData(listing)
}

// validateParams rechaza llamadas al adaptador con parámetros vacíos; se
// registra el método fallido y se propaga el error sin tragarlo.
func (uc *ExportUseCase) validateParams(method string, params AdapterParams) error {
	if params.Empty() {
		uc.log.Error().Str("method", method).Msg("llamada al adaptador sin parámetros")
		return fmt.Errorf("%w: %s", domain.ErrEmptyArguments, method)
	}
	return nil
}

func (uc *ExportUseCase) underCutStep(backend *entity.Backend) decimal.Decimal {
	if backend.UnderCutStep.IsPositive() {
		return backend.UnderCutStep
	}
	return uc.cfg.UnderCutStep
}
