package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// CountConflict dos filas de la plantilla con cantidades distintas para el mismo (artículo, inventario).
type CountConflict struct {
	Key      entity.CountKey `json:"key"`
	Row      int             `json:"row"`
	Previous decimal.Decimal `json:"previous"`
	Current  decimal.Decimal `json:"current"`
}

// CountsFromTemplate cantidad contada por (artículo, inventario). Si varias filas comparten la
// clave, gana la última y las diferencias se devuelven como conflictos.
func CountsFromTemplate(rows []entity.CompletedRow) (entity.ActualCounts, []CountConflict) {
	counts := make(entity.ActualCounts, len(rows))
	var conflicts []CountConflict
	for _, r := range rows {
		k := r.CountKey()
		if prev, ok := counts[k]; ok && !prev.Equal(r.Counted) {
			conflicts = append(conflicts, CountConflict{Key: k, Row: r.RowNo, Previous: prev, Current: r.Counted})
		}
		counts[k] = r.Counted
	}
	return counts, conflicts
}

// CalculateDiscrepancies una entrada por registro original, con el ajuste pendiente de distribución.
// Sin cantidad contada para el par se asume cero.
func CalculateDiscrepancies(records []entity.StockRecord, counts entity.ActualCounts) []entity.DiscrepancyRecord {
	out := make([]entity.DiscrepancyRecord, 0, len(records))
	for _, r := range records {
		out = append(out, entity.DiscrepancyRecord{
			Record:       r,
			Original:     r.Quantity,
			CountedTotal: counts.Get(r.CountKey()),
			Adjustment:   decimal.Zero,
			Corrected:    r.Quantity,
		})
	}
	return out
}

// TotalDelta suma de (contado - teórico) por grupo de distribución.
func TotalDelta(discrepancies []entity.DiscrepancyRecord) decimal.Decimal {
	type acc struct{ theo, counted decimal.Decimal }
	groups := make(map[entity.AggregationKey]*acc)
	order := make([]entity.AggregationKey, 0)
	for _, d := range discrepancies {
		k := d.Record.Key()
		g, ok := groups[k]
		if !ok {
			g = &acc{counted: d.CountedTotal}
			groups[k] = g
			order = append(order, k)
		}
		g.theo = g.theo.Add(d.Original)
	}
	total := decimal.Zero
	for _, k := range order {
		total = total.Add(groups[k].counted.Sub(groups[k].theo))
	}
	return total
}
