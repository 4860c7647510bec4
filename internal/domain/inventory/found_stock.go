package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// RankStep incremento del rango de línea entre líneas nuevas de stock encontrado.
const RankStep = 1000

// DetectFoundStock filas con cantidad teórica exactamente cero y contada estrictamente positiva.
func DetectFoundStock(rows []entity.CompletedRow) []entity.CompletedRow {
	var out []entity.CompletedRow
	for _, r := range rows {
		if r.Theoretical.IsZero() && r.Counted.IsPositive() {
			out = append(out, r)
		}
	}
	return out
}

// FoundStockResult ajustes de stock encontrado y candidatos sin línea de referencia.
type FoundStockResult struct {
	Adjustments []entity.Adjustment
	Unresolved  []entity.UnresolvedFoundStock
}

// CreateFoundStockAdjustments por candidato: actualiza la primera línea original en cero del mismo
// (artículo, inventario); si no existe, crea una línea nueva copiando una línea de referencia del
// mismo artículo (y del mismo inventario si se conoce); si tampoco hay referencia queda sin resolver.
func CreateFoundStockAdjustments(candidates []entity.CompletedRow, records []entity.StockRecord) FoundStockResult {
	var res FoundStockResult
	for _, c := range candidates {
		if zero, ok := findZeroLine(records, c.Article, c.Inventory); ok {
			res.Adjustments = append(res.Adjustments, entity.Adjustment{
				Kind:       entity.AdjustmentFoundUpdate,
				Article:    c.Article,
				Inventory:  c.Inventory,
				Status:     zero.Status,
				Unit:       zero.Unit,
				Zone:       zero.Zone,
				Location:   zero.Location,
				Lot:        zero.Lot,
				LotType:    entity.LotTypeLotecart,
				LotDate:    zero.LotDate,
				Original:   decimal.Zero,
				Counted:    c.Counted,
				Adjustment: c.Counted,
				Corrected:  c.Counted,
				Reference:  zero.Raw,
			})
			continue
		}

		if ref, ok := findReference(records, c.Article, c.Inventory); ok {
			res.Adjustments = append(res.Adjustments, entity.Adjustment{
				Kind:       entity.AdjustmentFoundNew,
				Article:    c.Article,
				Inventory:  ref.Inventory,
				Status:     ref.Status,
				Unit:       ref.Unit,
				Zone:       ref.Zone,
				Location:   ref.Location,
				Lot:        entity.LotecartLot,
				LotType:    entity.LotTypeLotecart,
				Original:   decimal.Zero,
				Counted:    c.Counted,
				Adjustment: c.Counted,
				Corrected:  c.Counted,
				Reference:  ref.Raw,
			})
			continue
		}

		res.Unresolved = append(res.Unresolved, entity.UnresolvedFoundStock{
			Article:   c.Article,
			Inventory: c.Inventory,
			Counted:   c.Counted,
		})
	}
	return res
}

func findZeroLine(records []entity.StockRecord, article, inventory string) (entity.StockRecord, bool) {
	for _, r := range records {
		if r.Article == article && r.Inventory == inventory && r.Quantity.IsZero() {
			return r, true
		}
	}
	return entity.StockRecord{}, false
}

func findReference(records []entity.StockRecord, article, inventory string) (entity.StockRecord, bool) {
	for _, r := range records {
		if r.Article != article {
			continue
		}
		if inventory != "" && r.Inventory != inventory {
			continue
		}
		return r, true
	}
	return entity.StockRecord{}, false
}

// AssignFoundStockRanks rangos para n líneas nuevas: maxRank+1000, maxRank+2000, ...
func AssignFoundStockRanks(maxRank, n int) []int {
	ranks := make([]int, n)
	for i := range ranks {
		ranks[i] = maxRank + RankStep*(i+1)
	}
	return ranks
}

// NewLines ajustes que requieren una línea nueva, en orden.
func NewLines(adjs []entity.Adjustment) []entity.Adjustment {
	var out []entity.Adjustment
	for _, a := range adjs {
		if a.Kind == entity.AdjustmentFoundNew {
			out = append(out, a)
		}
	}
	return out
}

// SummarizeFoundStock resumen del tratamiento de stock encontrado.
func SummarizeFoundStock(candidates []entity.CompletedRow, adjs []entity.Adjustment) entity.FoundStockSummary {
	s := entity.FoundStockSummary{
		Candidates:          len(candidates),
		TotalQuantity:       decimal.Zero,
		ArticlesByInventory: make(map[string][]string),
	}
	for _, c := range candidates {
		s.TotalQuantity = s.TotalQuantity.Add(c.Counted)
		s.ArticlesByInventory[c.Inventory] = append(s.ArticlesByInventory[c.Inventory], c.Article)
	}
	s.InventoriesAffected = len(s.ArticlesByInventory)
	for _, a := range adjs {
		switch a.Kind {
		case entity.AdjustmentFoundUpdate:
			s.UpdatedLines++
			s.Adjustments++
		case entity.AdjustmentFoundNew:
			s.NewLines++
			s.Adjustments++
		}
	}
	return s
}
