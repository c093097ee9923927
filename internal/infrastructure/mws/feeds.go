package mws

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

// Tipos de feed soportados por el endpoint de envíos.
const (
	feedTypeInventory = "_POST_INVENTORY_AVAILABILITY_DATA_"
	feedTypePricing   = "_POST_PRODUCT_PRICING_DATA_"
)

// buildStockFeed genera el XML del feed de inventario. Un Message por item,
// numerados desde 1 en el orden del lote.
func buildStockFeed(merchantID string, items []entity.StockFeedItem) ([]byte, error) {
	doc, root := newEnvelope(merchantID, "Inventory")
	for i, item := range items {
		msg := root.CreateElement("Message")
		msg.CreateElement("MessageID").SetText(strconv.Itoa(i + 1))
		msg.CreateElement("OperationType").SetText("Update")
		inv := msg.CreateElement("Inventory")
		inv.CreateElement("SKU").SetText(item.SKU)
		inv.CreateElement("Quantity").SetText(strconv.FormatInt(item.Quantity, 10))
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// buildPriceFeed genera el XML del feed de precios.
func buildPriceFeed(merchantID string, items []entity.PriceFeedItem) ([]byte, error) {
	doc, root := newEnvelope(merchantID, "Price")
	for i, item := range items {
		msg := root.CreateElement("Message")
		msg.CreateElement("MessageID").SetText(strconv.Itoa(i + 1))
		price := msg.CreateElement("Price")
		price.CreateElement("SKU").SetText(item.SKU)
		std := price.CreateElement("StandardPrice")
		std.CreateAttr("currency", item.Currency)
		std.SetText(item.Price.StringFixed(2))
	}
	doc.Indent(2)
	return doc.WriteToBytes()
}

// newEnvelope crea el sobre común de todos los feeds.
func newEnvelope(merchantID, messageType string) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("AmazonEnvelope")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	root.CreateAttr("xsi:noNamespaceSchemaLocation", "amzn-envelope.xsd")
	header := root.CreateElement("Header")
	header.CreateElement("DocumentVersion").SetText("1.01")
	header.CreateElement("MerchantIdentifier").SetText(merchantID)
	root.CreateElement("MessageType").SetText(messageType)
	return doc, root
}

// parseFeedSubmissionID extrae el ID de confirmación de un SubmitFeed.
// Vacío significa que el marketplace no aceptó el feed.
func parseFeedSubmissionID(raw []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return "", fmt.Errorf("mws: parsear respuesta de feed: %w", err)
	}
	if el := doc.FindElement("//FeedSubmissionInfo/FeedSubmissionId"); el != nil {
		return el.Text(), nil
	}
	return "", nil
}

// findText lee el texto del nodo en la ruta dada; "" si no existe.
func findText(doc *etree.Document, path string) string {
	if el := doc.FindElement(path); el != nil {
		return el.Text()
	}
	return ""
}
