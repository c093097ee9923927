// Package pdf implementa la generación del informe gráfico del histórico de
// precios de un listing.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: SKU + Título  │  Rango de fechas                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: precio actual / cambios en rango / subidas-bajadas │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Dir | Antes | Después | Competencia | Buybox │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Marketsync-api/internal/application/reporting"
	"github.com/jhoicas/Marketsync-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorUp      = &props.Color{Red: 0, Green: 130, Blue: 60}
	colorDown    = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ reporting.PriceReportGenerator = (*MarotoPriceReport)(nil)

// MarotoPriceReport implementa reporting.PriceReportGenerator usando Maroto v2.
type MarotoPriceReport struct{}

// NewMarotoPriceReport construye el generador.
func NewMarotoPriceReport() *MarotoPriceReport { return &MarotoPriceReport{} }

// GeneratePriceHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPriceReport) GeneratePriceHistoryPDF(
	_ context.Context,
	listing *entity.MarketplaceListing,
	records []*entity.PriceChangeRecord,
	from, to time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Histórico de precios "+listing.SKU, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(listing, from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(listing, records))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(records) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin cambios de precio en el rango seleccionado.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	for _, r := range tableDetailRows(records) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: SKU + título (izq) y rango del informe (der).
func headerRow(listing *entity.MarketplaceListing, from, to time.Time) core.Row {
	rango := from.Format("02/01/2006") + " — " + to.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(listing.SKU, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(listing.Title, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HISTÓRICO DE PRECIOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{
				Size: 10, Align: align.Right, Top: 8,
			}),
		),
	)
}

// summaryRow: precio actual y recuento de cambios por dirección.
func summaryRow(listing *entity.MarketplaceListing, records []*entity.PriceChangeRecord) core.Row {
	var subidas, bajadas int
	for _, r := range records {
		switch r.Direction {
		case entity.PriceDirectionUp:
			subidas++
		case entity.PriceDirectionDown:
			bajadas++
		}
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RESUMEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Precio actual: %s %s   |   Cambios: %d   |   Subidas: %d   |   Bajadas: %d",
				listing.Price.StringFixed(2), listing.Currency,
				len(records), subidas, bajadas,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de cambios.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 3, align.Left),
		h("Dir.", 1, align.Center),
		h("Antes", 2, align.Right),
		h("Después", 2, align.Right),
		h("Competencia", 2, align.Right),
		h("Buybox", 2, align.Center),
	)
}

// tableDetailRows: una fila por cambio de precio, coloreada por dirección.
func tableDetailRows(records []*entity.PriceChangeRecord) []core.Row {
	result := make([]core.Row, 0, len(records))
	for _, r := range records {
		dirColor := colorGray
		switch r.Direction {
		case entity.PriceDirectionUp:
			dirColor = colorUp
		case entity.PriceDirectionDown:
			dirColor = colorDown
		}
		buybox := "—"
		if r.BuyboxMine {
			buybox = "nuestra"
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(
				r.ChangedAt.Format("02/01/2006 15:04"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				r.Direction,
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: dirColor, Style: fontstyle.Bold},
			)),
			col.New(2).Add(text.New(
				r.BeforePrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.AfterPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				r.CompetitorPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				buybox,
				props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray},
			)),
		))
	}
	return result
}
