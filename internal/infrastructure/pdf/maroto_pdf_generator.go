// Package pdf genera el reporte de reconciliación de una sesión.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Site + Session X3       │  Sesión + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas, grupos, estrategia, écart total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Article | Inventaire | Lot | Théo | Réel | Écart     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  AVISOS: coerciones, residuos, stock encontrado sin ref.     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 60, Blue: 0}
)

// maxDetailRows límite de líneas de ajuste listadas; el resto se resume.
const maxDetailRows = 500

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator genera el reporte de reconciliación con Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateReport genera el PDF y devuelve sus bytes. Solo lista las líneas con écart distinto de cero.
func (g *MarotoReportGenerator) GenerateReport(
	_ context.Context,
	session *entity.Session,
	report entity.RunReport,
	adjustments []entity.Adjustment,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Rapport de réconciliation "+session.ID, true).
		WithAuthor(session.Site, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(session))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(session, report)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(adjustments)...)

	if warnings := warningRows(report); len(warnings) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(warnings...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s *entity.Session) core.Row {
	date := s.CreatedAt.Format("02/01/2006 15:04")
	if s.InventoryDate != nil {
		date = "Inventaire du " + s.InventoryDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Site "+nonEmpty(s.Site, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Session X3: "+nonEmpty(s.SessionNumber, "-"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RAPPORT DE RÉCONCILIATION", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.OriginalFilename, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 7,
			}),
			text.New(date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func summaryRows(s *entity.Session, r entity.RunReport) []core.Row {
	kv := func(k, v string) core.Row {
		return row.New(5).Add(
			col.New(4).Add(text.New(k, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(8).Add(text.New(v, props.Text{Size: 8, Top: 1})),
		)
	}
	rows := []core.Row{
		kv("Lignes S", fmt.Sprintf("%d", s.RecordCount)),
		kv("Groupes", fmt.Sprintf("%d", s.GroupCount)),
		kv("Inventaires", fmt.Sprintf("%d", len(s.Inventories))),
		kv("Stratégie", nonEmpty(s.Strategy, "-")),
		kv("Écart total", inventory.FormatQuantity(s.TotalDiscrepancy)),
		kv("Lignes ajustées", fmt.Sprintf("%d", s.AdjustedItems)),
		kv("Stock trouvé (LOTECART)", fmt.Sprintf("%d ajustements, %d nouvelles lignes, quantité %s",
			r.FoundStock.Adjustments, r.FoundStock.NewLines, inventory.FormatQuantity(r.FoundStock.TotalQuantity))),
	}
	if r.Validation != nil {
		status := "OK"
		if !r.Validation.Success {
			status = fmt.Sprintf("%d anomalies", len(r.Validation.Issues))
		}
		rows = append(rows, kv("Validation du fichier final", status))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Article", 2, align.Left),
		h("Inventaire", 2, align.Left),
		h("Lot", 3, align.Left),
		h("Théorique", 2, align.Right),
		h("Corrigée", 2, align.Right),
		h("Écart", 1, align.Right),
	)
}

func tableDetailRows(adjs []entity.Adjustment) []core.Row {
	result := make([]core.Row, 0, min(len(adjs), maxDetailRows)+1)
	skipped := 0
	for _, a := range adjs {
		if inventory.IsZero(a.Adjustment) {
			continue
		}
		if len(result) >= maxDetailRows {
			skipped++
			continue
		}
		lot := a.Lot
		if a.Kind == entity.AdjustmentFoundNew {
			lot += " (nouvelle)"
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(a.Article, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(a.Inventory, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(3).Add(text.New(lot, props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(2).Add(text.New(inventory.FormatQuantity(a.Original), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(inventory.FormatQuantity(a.Corrected), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(inventory.FormatQuantity(a.Adjustment), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	if skipped > 0 {
		result = append(result, row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("... %d lignes supplémentaires non affichées", skipped), props.Text{
				Size: 7, Top: 1, Color: colorGray,
			}),
		)))
	}
	return result
}

func warningRows(r entity.RunReport) []core.Row {
	var rows []core.Row
	add := func(s string) {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(s, props.Text{Size: 7, Top: 1, Color: colorWarn}),
		)))
	}
	if r.Coercions.Count > 0 {
		add(fmt.Sprintf("%d quantités invalides remplacées par 0", r.Coercions.Count))
		for _, s := range r.Coercions.Samples {
			add(fmt.Sprintf("  ligne %d, article %s: %q", s.Line, s.Article, s.Raw))
		}
	}
	for _, w := range r.Residuals {
		add(fmt.Sprintf("Écart non réparti pour %s / %s: %s sur %s",
			w.Key.Article, w.Key.Inventory, inventory.FormatQuantity(w.Residual), inventory.FormatQuantity(w.Delta)))
	}
	for _, u := range r.Unresolved {
		add(fmt.Sprintf("Stock trouvé sans ligne de référence: %s / %s (%s)",
			u.Article, u.Inventory, inventory.FormatQuantity(u.Counted)))
	}
	if r.Conflicts > 0 {
		add(fmt.Sprintf("%d lignes du modèle en double pour un même article/inventaire", r.Conflicts))
	}
	if r.Validation != nil {
		for _, issue := range r.Validation.Issues {
			add(issue)
		}
	}
	if len(rows) > 0 {
		rows = append([]core.Row{row.New(6).Add(col.New(12).Add(
			text.New("AVERTISSEMENTS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		))}, rows...)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
