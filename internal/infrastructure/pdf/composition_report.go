// Package pdf genera la hoja de armado de una composición de pallet.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la composición + estado │ Pallet + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: eficiencia, capas, ítems por capa, total ítems    │
//	│  MÉTRICAS: Peso / Volumen / Altura (total, límite, uso %)   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cant. | Ítems | Capas | Peso total        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VIOLACIONES / ADVERTENCIAS / RECOMENDACIONES               │
//	│  FOOTER: QR con el ID de la composición                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Inventario-pallets/internal/application/composition"
	"github.com/jhoicas/Inventario-pallets/internal/application/dto"
	"github.com/jhoicas/Inventario-pallets/internal/domain/entity"
)

var _ composition.ReportRenderer = (*MarotoReportRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 176, Green: 0, Blue: 32}
	colorWarning = &props.Color{Red: 184, Green: 110, Blue: 0}
)

// ── Renderer ─────────────────────────────────────────────────────────────────

// MarotoReportRenderer implementa composition.ReportRenderer usando Maroto v2.
type MarotoReportRenderer struct {
	author string
}

// NewMarotoReportRenderer construye el renderer; author se escribe en los metadatos del PDF.
func NewMarotoReportRenderer(author string) *MarotoReportRenderer {
	return &MarotoReportRenderer{author: author}
}

// RenderCompositionReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportRenderer) RenderCompositionReport(_ context.Context, report *dto.CompositionReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Composición "+report.Name, true).
		WithAuthor(nonEmpty(g.author, "pallets"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(metricsRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(productRows(report.Products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(noteRows(report)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(r *dto.CompositionReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(r.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+statusLabel(r.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE ARMADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Pallet: "+r.PalletID, props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s dto.ReportSummary) core.Row {
	validity, color := "VÁLIDA", colorPrimary
	if !s.IsValid {
		validity, color = "NO VÁLIDA", colorDanger
	}
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 10, Top: 5}),
		)
	}
	return row.New(14).Add(
		col.New(3).Add(
			text.New("Eficiencia", props.Text{Size: 7, Color: colorGray, Top: 1}),
			text.New(fmt.Sprintf("%.1f%% (%s)", s.Efficiency*100, s.EfficiencyRating), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5, Color: color,
			}),
			text.New(validity, props.Text{Size: 7, Top: 10, Color: color}),
		),
		cell("Capas", fmt.Sprintf("%d", s.Layers)),
		cell("Ítems por capa", fmt.Sprintf("%d", s.ItemsPerLayer)),
		cell("Total ítems", fmt.Sprintf("%d", s.TotalItems)),
	)
}

func metricsRow(r *dto.CompositionReport) core.Row {
	cell := func(label, unit string, m entity.Metric) core.Col {
		limit := "sin límite"
		if m.Limit > 0 {
			limit = fmt.Sprintf("%.2f %s", m.Limit, unit)
		}
		color := colorGray
		if m.Utilization > 1 {
			color = colorDanger
		}
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%.2f %s de %s", m.Total, unit, limit), props.Text{Size: 8, Top: 6}),
			text.New(fmt.Sprintf("Uso: %.0f%%", m.Utilization*100), props.Text{Size: 8, Top: 11, Color: color}),
		)
	}
	return row.New(16).Add(
		cell("PESO", "kg", r.Weight),
		cell("VOLUMEN", "cm3", r.Volume),
		cell("ALTURA", "cm", r.Height),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Cantidad", 2, align.Right),
		h("Ítems", 1, align.Right),
		h("Por capa", 1, align.Right),
		h("Capas", 1, align.Right),
		h("Peso total", 3, align.Right),
	)
}

func productRows(products []entity.ProductBreakdown) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		cell := func(s string, size int) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
		}
		rows = append(rows, row.New(7).Add(
			col.New(4).Add(text.New(nonEmpty(p.ProductName, p.ProductID), props.Text{Size: 8, Top: 1, Left: 1})),
			cell(fmt.Sprintf("%.2f", p.Quantity), 2),
			cell(fmt.Sprintf("%d", p.Items), 1),
			cell(fmt.Sprintf("%d", p.ItemsPerLayer), 1),
			cell(fmt.Sprintf("%d", p.Layers), 1),
			cell(fmt.Sprintf("%.2f kg", p.TotalWeight), 3),
		))
	}
	return rows
}

// noteRows violaciones, advertencias y recomendaciones, una línea cada una.
func noteRows(r *dto.CompositionReport) []core.Row {
	var rows []core.Row
	section := func(title string, color *props.Color, lines []string) {
		if len(lines) == 0 {
			return
		}
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: color, Top: 1}),
		)))
		for _, l := range lines {
			rows = append(rows, row.New(5).Add(col.New(12).Add(
				text.New("- "+l, props.Text{Size: 8, Top: 0.5, Left: 2}),
			)))
		}
	}

	violations := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.Severity == entity.SeverityError {
			violations = append(violations, v.Message)
		}
	}
	section("VIOLACIONES", colorDanger, violations)
	section("ADVERTENCIAS", colorWarning, r.Warnings)
	section("RECOMENDACIONES", colorPrimary, r.Recommendations)
	return rows
}

func footerRow(r *dto.CompositionReport) core.Row {
	return row.New(35).Add(
		col.New(3).Add(code.NewQr(r.CompositionID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanea el código para abrir la composición en bodega.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(r.CompositionID, props.Text{Size: 7, Top: 10, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func statusLabel(status string) string {
	switch status {
	case entity.CompositionStatusDraft:
		return "Borrador"
	case entity.CompositionStatusApproved:
		return "Aprobada"
	case entity.CompositionStatusExecuted:
		return "Armada"
	default:
		return status
	}
}
