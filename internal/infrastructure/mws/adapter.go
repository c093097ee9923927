package mws

import (
	"context"
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	appsync "github.com/jhoicas/Marketsync-api/internal/application/sync"
	"github.com/jhoicas/Marketsync-api/internal/domain"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
	"github.com/jhoicas/Marketsync-api/internal/domain/pricing"
	"github.com/jhoicas/Marketsync-api/pkg/logger"
)

var _ appsync.MarketplaceAdapter = (*Adapter)(nil)

// Adapter implementa el puerto MarketplaceAdapter sobre el cliente firmado.
// Cada método rechaza parámetros vacíos antes de tocar la red y registra el
// nombre del método para poder rastrear la llamada en los logs.
type Adapter struct {
	client     *Client
	merchantID string
	log        *logger.Logger
}

// NewAdapter construye el adaptador.
func NewAdapter(client *Client, merchantID string, log *logger.Logger) *Adapter {
	return &Adapter{client: client, merchantID: merchantID, log: log}
}

// GetLowestPriceAndBuybox consulta la foto de competencia de un listing.
func (a *Adapter) GetLowestPriceAndBuybox(ctx context.Context, params appsync.AdapterParams) (pricing.CompetitorSnapshot, error) {
	if err := a.require("get_lowest_price_and_buybox", params); err != nil {
		return pricing.CompetitorSnapshot{}, err
	}
	raw, err := a.client.call(ctx, "GetLowestPricedOffersForSKU", map[string]string{
		"MarketplaceId": params.IDMws,
		"SellerSKU":     params.SKU,
		"ItemCondition": "New",
	}, nil)
	if err != nil {
		return pricing.CompetitorSnapshot{}, err
	}
	return parseLowestOffers(raw)
}

// GetMyPrice devuelve nuestro precio publicado tal como lo ve el marketplace.
// Retorna cero si el marketplace no conoce el SKU.
func (a *Adapter) GetMyPrice(ctx context.Context, params appsync.AdapterParams) (decimal.Decimal, error) {
	if err := a.require("get_my_price_product", params); err != nil {
		return decimal.Zero, err
	}
	raw, err := a.client.call(ctx, "GetMyPriceForSKU", map[string]string{
		"MarketplaceId":             params.IDMws,
		"SellerSKUList.SellerSKU.1": params.SKU,
	}, nil)
	if err != nil {
		return decimal.Zero, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return decimal.Zero, fmt.Errorf("mws: parsear precio propio: %w", err)
	}
	text := findText(doc, "//Offer/BuyingPrice/ListingPrice/Amount")
	if text == "" {
		return decimal.Zero, nil
	}
	price, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mws: precio propio inválido %q: %w", text, err)
	}
	return price, nil
}

// GetCategory devuelve el identificador de la categoría principal del producto.
func (a *Adapter) GetCategory(ctx context.Context, params appsync.AdapterParams) (string, error) {
	if err := a.require("get_category_product", params); err != nil {
		return "", err
	}
	raw, err := a.client.call(ctx, "GetProductCategoriesForSKU", map[string]string{
		"MarketplaceId": params.IDMws,
		"SellerSKU":     params.SKU,
	}, nil)
	if err != nil {
		return "", err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", fmt.Errorf("mws: parsear categorías: %w", err)
	}
	return findText(doc, "//Self/ProductCategoryId"), nil
}

// SubmitStockFeed envía un lote de cantidades. El lote entero falla si el
// marketplace no devuelve ID de confirmación.
func (a *Adapter) SubmitStockFeed(ctx context.Context, items []entity.StockFeedItem) error {
	feed, err := buildStockFeed(a.merchantID, items)
	if err != nil {
		return fmt.Errorf("mws: construir feed de stock: %w", err)
	}
	return a.submit(ctx, feedTypeInventory, feed, len(items))
}

// SubmitPriceFeed envía un lote de precios.
func (a *Adapter) SubmitPriceFeed(ctx context.Context, items []entity.PriceFeedItem) error {
	feed, err := buildPriceFeed(a.merchantID, items)
	if err != nil {
		return fmt.Errorf("mws: construir feed de precios: %w", err)
	}
	return a.submit(ctx, feedTypePricing, feed, len(items))
}

func (a *Adapter) submit(ctx context.Context, feedType string, feed []byte, count int) error {
	raw, err := a.client.call(ctx, "SubmitFeed", map[string]string{
		"FeedType": feedType,
	}, feed)
	if err != nil {
		return err
	}
	submissionID, err := parseFeedSubmissionID(raw)
	if err != nil {
		return err
	}
	if submissionID == "" {
		return fmt.Errorf("%w: SubmitFeed %s sin ID de confirmación", domain.ErrEmptyResult, feedType)
	}
	a.log.Info().Str("feed_type", feedType).Str("submission_id", submissionID).
		Int("items", count).Msg("feed aceptado por el marketplace")
	return nil
}

// require valida los parámetros obligatorios de las llamadas por-listing.
func (a *Adapter) require(method string, params appsync.AdapterParams) error {
	if params.Empty() {
		a.log.Error().Str("method", method).Msg("llamada al adaptador con parámetros vacíos")
		return fmt.Errorf("%w: %s", domain.ErrEmptyArguments, method)
	}
	return nil
}

// parseLowestOffers interpreta la respuesta de ofertas más bajas. Nuestra
// oferta se identifica con el atributo MyOffer del resumen.
func parseLowestOffers(raw []byte) (pricing.CompetitorSnapshot, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return pricing.CompetitorSnapshot{}, fmt.Errorf("mws: parsear ofertas: %w", err)
	}

	var snap pricing.CompetitorSnapshot
	var err error
	if snap.LowestTotalPrice, err = parseAmount(doc, "//Summary/LowestPrices/LowestPrice/LandedPrice/Amount"); err != nil {
		return pricing.CompetitorSnapshot{}, err
	}
	if snap.LowestProductPrice, err = parseAmount(doc, "//Summary/LowestPrices/LowestPrice/ListingPrice/Amount"); err != nil {
		return pricing.CompetitorSnapshot{}, err
	}
	if snap.LowestShippingPrice, err = parseAmount(doc, "//Summary/LowestPrices/LowestPrice/Shipping/Amount"); err != nil {
		return pricing.CompetitorSnapshot{}, err
	}

	for _, offer := range doc.FindElements("//Offers/Offer") {
		mine := offer.FindElement("MyOffer")
		if mine == nil || mine.Text() != "true" {
			continue
		}
		if bb := offer.FindElement("IsBuyBoxWinner"); bb != nil && bb.Text() == "true" {
			snap.IsMineBuybox = true
		}
		// Somos el más barato si el total de nuestra oferta iguala al mínimo.
		if landed := offer.FindElement("LandedPrice/Amount"); landed != nil {
			if myTotal, perr := decimal.NewFromString(landed.Text()); perr == nil &&
				snap.LowestTotalPrice.IsPositive() && myTotal.Equal(snap.LowestTotalPrice) {
				snap.IsMineLowest = true
			}
		}
	}
	return snap, nil
}

func parseAmount(doc *etree.Document, path string) (decimal.Decimal, error) {
	text := findText(doc, path)
	if text == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("mws: importe inválido %q en %s: %w", text, path, err)
	}
	return d, nil
}
