// Package pdf implementa la exportación del reporte de utilidad por canal.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango de fechas                           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Canal | Ventas | Unidades | Ingresos | Costo | Util │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ingresos / Costo / UTILIDAD NETA                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/application/reports"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

var _ reports.PDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoPDFGenerator implementa reports.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// ProfitReportPDF genera el reporte de utilidad por canal y devuelve sus bytes.
func (g *MarotoPDFGenerator) ProfitReportPDF(rows []repository.ChannelProfitRow, from, to time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de utilidad por canal", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(from, to))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(channelRow(r))
	}
	if len(rows) == 0 {
		m.AddRows(row.New(8).Add(
			col.New(12).Add(text.New("Sin ventas en el período", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 2,
			})),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rows))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) y rango de fechas (der).
func headerRow(from, to time.Time) core.Row {
	rango := from.Format("02/01/2006") + " — " + to.Format("02/01/2006")
	return row.New(14).Add(
		col.New(7).Add(
			text.New("UTILIDAD POR CANAL", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Período", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(rango, props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	hr := h
	hr.Align = align.Right
	return row.New(7).Add(
		col.New(2).Add(text.New("Canal", h)),
		col.New(2).Add(text.New("Ventas", hr)),
		col.New(2).Add(text.New("Unidades", hr)),
		col.New(2).Add(text.New("Ingresos", hr)),
		col.New(2).Add(text.New("Costo", hr)),
		col.New(2).Add(text.New("Utilidad", hr)),
	)
}

func channelRow(r repository.ChannelProfitRow) core.Row {
	c := props.Text{Size: 8, Top: 1}
	cr := c
	cr.Align = align.Right
	return row.New(6).Add(
		col.New(2).Add(text.New(channelLabel(r.Channel), c)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", r.SaleCount), cr)),
		col.New(2).Add(text.New(fmt.Sprintf("%d", r.UnitsSold), cr)),
		col.New(2).Add(text.New(r.Revenue.StringFixed(2), cr)),
		col.New(2).Add(text.New(r.Cost.StringFixed(2), cr)),
		col.New(2).Add(text.New(r.Profit.StringFixed(2), cr)),
	)
}

func totalsRow(rows []repository.ChannelProfitRow) core.Row {
	revenue, cost, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range rows {
		revenue = revenue.Add(r.Revenue)
		cost = cost.Add(r.Cost)
		profit = profit.Add(r.Profit)
	}
	t := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}
	return row.New(8).Add(
		col.New(4).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1,
		})),
		col.New(2),
		col.New(2).Add(text.New(revenue.StringFixed(2), t)),
		col.New(2).Add(text.New(cost.StringFixed(2), t)),
		col.New(2).Add(text.New(profit.StringFixed(2), t)),
	)
}

func channelLabel(channel string) string {
	switch channel {
	case entity.ChannelRetail:
		return "Detal"
	case entity.ChannelWholesale:
		return "Mayorista"
	}
	return channel
}
