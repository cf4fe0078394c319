// Package pdf genera el reporte imprimible del historial de movimientos de
// stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la empresa  │  Fecha de generación       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | SKU | Producto | Motivo | Origen→Destino |  │
//	│         Cantidad | Usuario                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de movimientos listados                      │
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

	"github.com/tu-usuario/almacen-api/internal/application/movement"
)

var (
	colorDefault = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ movement.ReportGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa movement.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(
	_ context.Context,
	branding movement.ReportBranding,
	rows []movement.ReportRow,
) ([]byte, error) {
	primary := parseHexColor(branding.PrimaryColor)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Historial de Movimientos de Stock", true).
		WithAuthor(branding.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(branding.CompanyName, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(primary))
	for _, r := range rows {
		m.AddRows(detailRow(r))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(len(rows)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(companyName string, primary *props.Color) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1,
			}),
			text.New("Historial de Movimientos de Stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: primary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("SKU", 1, align.Left),
		h("Producto", 3, align.Left),
		h("Motivo", 2, align.Left),
		h("Origen → Destino", 2, align.Left),
		h("Cant.", 1, align.Right),
		h("Usuario", 1, align.Left),
	)
}

func detailRow(r movement.ReportRow) core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		cell(r.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
		cell(r.ProductSKU, 1, align.Left),
		cell(r.ProductName, 3, align.Left),
		cell(string(r.Reason), 2, align.Left),
		cell(routeLabel(r.FromCode, r.ToCode), 2, align.Left),
		cell(fmt.Sprintf("%d", r.Quantity), 1, align.Right),
		cell(r.CreatedBy, 1, align.Left),
	)
}

func footerRow(count int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Total de movimientos listados: %d", count), props.Text{
			Size: 8, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// routeLabel arma la ruta del movimiento; un guion marca el lado ausente.
func routeLabel(from, to string) string {
	if from == "" {
		from = "—"
	}
	if to == "" {
		to = "—"
	}
	return from + " → " + to
}

// parseHexColor convierte "#RRGGBB" al color de maroto; si el valor es
// inválido cae al color por defecto.
func parseHexColor(s string) *props.Color {
	var r, g, b int
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return colorDefault
	}
	return &props.Color{Red: r, Green: g, Blue: b}
}
