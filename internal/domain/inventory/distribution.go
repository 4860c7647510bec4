package inventory

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Strategy orden en que los lotes de un grupo absorben la diferencia.
type Strategy string

const (
	StrategyFIFO     Strategy = "FIFO"
	StrategyLIFO     Strategy = "LIFO"
	StrategyOriginal Strategy = "ORIGINAL"
)

// ParseStrategy acepta FIFO o LIFO sin distinguir mayúsculas; cualquier otro valor mantiene el orden original.
func ParseStrategy(s string) Strategy {
	switch Strategy(strings.ToUpper(strings.TrimSpace(s))) {
	case StrategyFIFO:
		return StrategyFIFO
	case StrategyLIFO:
		return StrategyLIFO
	default:
		return StrategyOriginal
	}
}

// DistributionResult ajustes por línea en orden de grupo y residuos fuera de tolerancia.
type DistributionResult struct {
	Adjustments []entity.Adjustment
	Residuals   []entity.ResidualWarning
}

type distGroup struct {
	key     entity.AggregationKey
	members []entity.DiscrepancyRecord
}

// Distribute reparte la diferencia (contado - teórico) de cada grupo entre sus líneas.
//
// Un excedente positivo va completo a la primera línea del orden; un faltante vacía las
// líneas de adelante hacia atrás hasta agotarse. Un residuo mayor que 0.01 se reporta
// y los valores ya calculados se conservan.
func Distribute(discrepancies []entity.DiscrepancyRecord, strategy Strategy) DistributionResult {
	index := make(map[entity.AggregationKey]int)
	groups := make([]distGroup, 0)
	for _, d := range discrepancies {
		k := d.Record.Key()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, distGroup{key: k})
		}
		groups[i].members = append(groups[i].members, d)
	}

	res := DistributionResult{Adjustments: make([]entity.Adjustment, 0, len(discrepancies))}
	for _, g := range groups {
		totalTheo := decimal.Zero
		for _, m := range g.members {
			totalTheo = totalTheo.Add(m.Original)
		}
		counted := g.members[0].CountedTotal
		delta := counted.Sub(totalTheo)

		ordered := orderForStrategy(g.members, strategy)
		remaining := delta
		for idx, line := range ordered {
			adj, corrected := decimal.Zero, line.Original
			switch {
			case remaining.IsZero():
			case remaining.IsPositive():
				if idx == 0 {
					adj = remaining
					corrected = line.Original.Add(remaining)
					remaining = decimal.Zero
				}
			default:
				if remaining.Abs().GreaterThanOrEqual(line.Original) {
					adj = line.Original.Neg()
					corrected = decimal.Zero
					remaining = remaining.Add(line.Original)
				} else {
					adj = remaining
					corrected = line.Original.Add(remaining)
					remaining = decimal.Zero
				}
			}
			res.Adjustments = append(res.Adjustments, allocation(line, counted, adj, corrected))
		}

		if remaining.Abs().GreaterThan(residualTolerance) {
			res.Residuals = append(res.Residuals, entity.ResidualWarning{Key: g.key, Delta: delta, Residual: remaining})
		}
	}
	return res
}

func allocation(d entity.DiscrepancyRecord, counted, adj, corrected decimal.Decimal) entity.Adjustment {
	r := d.Record
	return entity.Adjustment{
		Kind:       entity.AdjustmentAllocation,
		Article:    r.Article,
		Inventory:  r.Inventory,
		Status:     r.Status,
		Unit:       r.Unit,
		Zone:       r.Zone,
		Location:   r.Location,
		Lot:        r.Lot,
		LotType:    r.LotType,
		LotDate:    r.LotDate,
		Original:   d.Original,
		Counted:    counted,
		Adjustment: adj,
		Corrected:  corrected,
		Reference:  r.Raw,
	}
}

// orderForStrategy FIFO: (fecha, lote) ascendente, fechas nulas al final.
// LIFO: (fecha, lote) descendente, fechas nulas primero. Otro: orden de entrada.
func orderForStrategy(members []entity.DiscrepancyRecord, strategy Strategy) []entity.DiscrepancyRecord {
	out := make([]entity.DiscrepancyRecord, len(members))
	copy(out, members)

	switch strategy {
	case StrategyFIFO:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Record, out[j].Record
			switch {
			case a.LotDate == nil && b.LotDate == nil:
				return a.Lot < b.Lot
			case a.LotDate == nil:
				return false
			case b.LotDate == nil:
				return true
			case !a.LotDate.Equal(*b.LotDate):
				return a.LotDate.Before(*b.LotDate)
			default:
				return a.Lot < b.Lot
			}
		})
	case StrategyLIFO:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i].Record, out[j].Record
			switch {
			case a.LotDate == nil && b.LotDate == nil:
				return a.Lot > b.Lot
			case a.LotDate == nil:
				return true
			case b.LotDate == nil:
				return false
			case !a.LotDate.Equal(*b.LotDate):
				return a.LotDate.After(*b.LotDate)
			default:
				return a.Lot > b.Lot
			}
		})
	}
	return out
}

// SumAdjustments suma de los ajustes (estadística de sesión).
func SumAdjustments(adjs []entity.Adjustment) decimal.Decimal {
	total := decimal.Zero
	for _, a := range adjs {
		total = total.Add(a.Adjustment)
	}
	return total
}

// CountAdjusted cantidad de líneas con ajuste distinto de cero.
func CountAdjusted(adjs []entity.Adjustment) int {
	n := 0
	for _, a := range adjs {
		if !a.Adjustment.IsZero() {
			n++
		}
	}
	return n
}

// EffectiveAdjustments un ajuste por línea del archivo final: si varios ajustes apuntan a la misma
// (artículo, inventario, lote) gana el último, en la posición del primero. Las líneas nuevas se conservan todas.
func EffectiveAdjustments(adjs []entity.Adjustment) []entity.Adjustment {
	index := make(map[entity.LineKey]int, len(adjs))
	out := make([]entity.Adjustment, 0, len(adjs))
	for _, a := range adjs {
		if a.Kind == entity.AdjustmentFoundNew {
			out = append(out, a)
			continue
		}
		if i, ok := index[a.LineKey()]; ok {
			out[i] = a
			continue
		}
		index[a.LineKey()] = len(out)
		out = append(out, a)
	}
	return out
}
