package mws

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

func TestBuildStockFeed(t *testing.T) {
	items := []entity.StockFeedItem{
		{SKU: "SKU-A", Quantity: 10},
		{SKU: "SKU-B", Quantity: 0},
	}
	xml, err := buildStockFeed("MERCHANT-1", items)
	require.NoError(t, err)

	s := string(xml)
	assert.Contains(t, s, "<MerchantIdentifier>MERCHANT-1</MerchantIdentifier>")
	assert.Contains(t, s, "<MessageType>Inventory</MessageType>")
	assert.Contains(t, s, "<SKU>SKU-A</SKU>")
	assert.Contains(t, s, "<Quantity>0</Quantity>", "la cantidad cero debe enviarse, no omitirse")
	// Los MessageID siguen el orden del lote
	assert.Less(t, strings.Index(s, "<MessageID>1</MessageID>"), strings.Index(s, "<MessageID>2</MessageID>"))
}

func TestBuildPriceFeed(t *testing.T) {
	items := []entity.PriceFeedItem{
		{SKU: "SKU-A", Price: decimal.RequireFromString("109.99"), Currency: "EUR"},
	}
	xml, err := buildPriceFeed("MERCHANT-1", items)
	require.NoError(t, err)

	s := string(xml)
	assert.Contains(t, s, "<MessageType>Price</MessageType>")
	assert.Contains(t, s, `currency="EUR"`)
	assert.Contains(t, s, ">109.99</StandardPrice>", "el precio se envía con dos decimales")
}

func TestParseFeedSubmissionID(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
		<SubmitFeedResponse>
			<SubmitFeedResult>
				<FeedSubmissionInfo>
					<FeedSubmissionId>2291326430</FeedSubmissionId>
					<FeedType>_POST_INVENTORY_AVAILABILITY_DATA_</FeedType>
				</FeedSubmissionInfo>
			</SubmitFeedResult>
		</SubmitFeedResponse>`)

	id, err := parseFeedSubmissionID(raw)
	require.NoError(t, err)
	assert.Equal(t, "2291326430", id)
}

func TestParseFeedSubmissionID_SinConfirmacion(t *testing.T) {
	id, err := parseFeedSubmissionID([]byte(`<SubmitFeedResponse></SubmitFeedResponse>`))
	require.NoError(t, err)
	assert.Empty(t, id, "sin FeedSubmissionId el ID debe ser vacío")
}

func TestParseLowestOffers(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?>
		<GetLowestPricedOffersForSKUResponse>
			<Summary>
				<LowestPrices>
					<LowestPrice>
						<LandedPrice><Amount>95.50</Amount></LandedPrice>
						<ListingPrice><Amount>90.00</Amount></ListingPrice>
						<Shipping><Amount>5.50</Amount></Shipping>
					</LowestPrice>
				</LowestPrices>
			</Summary>
			<Offers>
				<Offer>
					<MyOffer>true</MyOffer>
					<IsBuyBoxWinner>false</IsBuyBoxWinner>
					<LandedPrice><Amount>99.99</Amount></LandedPrice>
				</Offer>
			</Offers>
		</GetLowestPricedOffersForSKUResponse>`)

	snap, err := parseLowestOffers(raw)
	require.NoError(t, err)
	assert.True(t, snap.LowestTotalPrice.Equal(decimal.RequireFromString("95.50")))
	assert.True(t, snap.LowestProductPrice.Equal(decimal.RequireFromString("90.00")))
	assert.True(t, snap.LowestShippingPrice.Equal(decimal.RequireFromString("5.50")))
	assert.False(t, snap.IsMineBuybox)
	assert.False(t, snap.IsMineLowest, "nuestra oferta de 99.99 no iguala el mínimo")
}

func TestParseLowestOffers_NuestraOfertaGana(t *testing.T) {
	raw := []byte(`<GetLowestPricedOffersForSKUResponse>
			<Summary>
				<LowestPrices>
					<LowestPrice>
						<LandedPrice><Amount>88.00</Amount></LandedPrice>
					</LowestPrice>
				</LowestPrices>
			</Summary>
			<Offers>
				<Offer>
					<MyOffer>true</MyOffer>
					<IsBuyBoxWinner>true</IsBuyBoxWinner>
					<LandedPrice><Amount>88.00</Amount></LandedPrice>
				</Offer>
			</Offers>
		</GetLowestPricedOffersForSKUResponse>`)

	snap, err := parseLowestOffers(raw)
	require.NoError(t, err)
	assert.True(t, snap.IsMineBuybox)
	assert.True(t, snap.IsMineLowest)
}
