package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// NewLineIndicator regla del indicador de compte para líneas nuevas de stock encontrado.
type NewLineIndicator string

const (
	// NewLineIndicatorLegacy siempre "2", como lo espera hoy el ERP.
	NewLineIndicatorLegacy NewLineIndicator = "legacy"
	// NewLineIndicatorComputed misma regla que el resto de líneas ("2" solo si la cantidad es ~0).
	NewLineIndicatorComputed NewLineIndicator = "computed"
)

// ParseNewLineIndicator valores desconocidos equivalen a legacy.
func ParseNewLineIndicator(s string) NewLineIndicator {
	if NewLineIndicator(strings.ToLower(strings.TrimSpace(s))) == NewLineIndicatorComputed {
		return NewLineIndicatorComputed
	}
	return NewLineIndicatorLegacy
}

// Regenerator reconstruye el extracto corregido a partir de las líneas originales.
type Regenerator struct {
	DecimalSeparator string
	NewLineIndicator NewLineIndicator
}

// RegenerateInput datos de una sesión necesarios para el archivo final.
type RegenerateInput struct {
	Headers           []string
	Records           []entity.StockRecord
	Adjustments       []entity.Adjustment
	LocationOverrides map[entity.CountKey]string
}

// RegenerateOutput líneas del archivo final y rangos asignados a las líneas nuevas.
type RegenerateOutput struct {
	Lines        []string
	NewLineRanks []int
	Replayed     int
	Adjusted     int
}

// Regenerate reproduce cada línea original en orden, aplica los ajustes por (artículo, inventario, lote)
// y agrega al final una línea por ajuste de stock encontrado que requiere línea nueva.
func (g Regenerator) Regenerate(in RegenerateInput) (RegenerateOutput, error) {
	sep := g.DecimalSeparator
	if sep == "" {
		sep = ","
	}

	byLine := make(map[entity.LineKey]entity.Adjustment, len(in.Adjustments))
	for _, a := range in.Adjustments {
		if a.Kind == entity.AdjustmentFoundNew {
			continue
		}
		byLine[a.LineKey()] = a
	}

	out := RegenerateOutput{Lines: make([]string, 0, len(in.Headers)+len(in.Records))}
	out.Lines = append(out.Lines, in.Headers...)

	for _, rec := range in.Records {
		parts := strings.Split(rec.Raw, Delimiter)
		if len(parts) < entity.SchemaColumns {
			return RegenerateOutput{}, fmt.Errorf("%w: línea %d con %d columnas en la tabla original", domain.ErrDataConsistency, rec.LineNo, len(parts))
		}

		key := entity.LineKey{Article: rec.Article, Inventory: rec.Inventory, Lot: rec.Lot}
		if adj, ok := byLine[key]; ok {
			parts[entity.ColCounted] = ToFileNumber(adj.Corrected, sep)
			parts[entity.ColIndicator] = Indicator(adj.Corrected)
			if adj.LotType == entity.LotTypeLotecart {
				parts[entity.ColLot] = entity.LotecartLot
			}
			out.Adjusted++
		} else {
			parts[entity.ColCounted] = parts[entity.ColQuantity]
			parts[entity.ColIndicator] = entity.IndicatorNormal
		}

		if loc, ok := in.LocationOverrides[rec.CountKey()]; ok {
			parts[entity.ColLocation] = loc
		}

		out.Lines = append(out.Lines, strings.Join(parts, Delimiter))
		out.Replayed++
	}

	newLines := NewLines(in.Adjustments)
	out.NewLineRanks = AssignFoundStockRanks(MaxRank(in.Records), len(newLines))
	for i, adj := range newLines {
		parts := strings.Split(adj.Reference, Delimiter)
		if len(parts) < entity.SchemaColumns {
			return RegenerateOutput{}, fmt.Errorf("%w: línea de referencia inválida para el artículo %s", domain.ErrDataConsistency, adj.Article)
		}
		parts[entity.ColRank] = strconv.Itoa(out.NewLineRanks[i])
		parts[entity.ColQuantity] = "0"
		parts[entity.ColCounted] = ToFileNumber(adj.Counted, sep)
		if g.NewLineIndicator == NewLineIndicatorComputed {
			parts[entity.ColIndicator] = Indicator(adj.Corrected)
		} else {
			parts[entity.ColIndicator] = entity.IndicatorZeroed
		}
		parts[entity.ColLot] = entity.LotecartLot
		out.Lines = append(out.Lines, strings.Join(parts, Delimiter))
	}
	return out, nil
}

// Encode une las líneas con LF, con salto final.
func Encode(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	return []byte(strings.Join(lines, "\n") + "\n")
}

// LocationOverrides emplacements editados en la plantilla por (artículo, inventario). Una fila cuenta
// como editada si su emplacement no está vacío y ningún registro original del par lo tiene.
func LocationOverrides(rows []entity.CompletedRow, records []entity.StockRecord) map[entity.CountKey]string {
	known := make(map[entity.CountKey]map[string]struct{})
	for _, r := range records {
		k := r.CountKey()
		if known[k] == nil {
			known[k] = make(map[string]struct{})
		}
		known[k][r.Location] = struct{}{}
	}

	out := make(map[entity.CountKey]string)
	for _, row := range rows {
		loc := strings.TrimSpace(row.Location)
		if loc == "" || row.Article == "" || row.Inventory == "" {
			continue
		}
		k := row.CountKey()
		locs, ok := known[k]
		if !ok {
			continue
		}
		if _, same := locs[loc]; same {
			continue
		}
		out[k] = loc
	}
	return out
}

// ValidateOutput cuenta las líneas LOTECART del archivo final y verifica sus indicadores.
// Las líneas nuevas bajo la regla legacy deben llevar "2"; las demás siguen la regla de cantidad ~0.
func ValidateOutput(lines []string, expected int, policy NewLineIndicator, newLineRanks []int) entity.OutputValidation {
	res := entity.OutputValidation{}
	isNew := make(map[string]struct{}, len(newLineRanks))
	for _, r := range newLineRanks {
		isNew[strconv.Itoa(r)] = struct{}{}
	}

	bad := 0
	for _, line := range lines {
		parts := strings.Split(line, Delimiter)
		if len(parts) < entity.SchemaColumns || parts[entity.ColLineType] != entity.LineTypeStock {
			continue
		}
		if parts[entity.ColLot] != entity.LotecartLot {
			continue
		}
		res.FoundStockLines++

		want := entity.IndicatorNormal
		if _, ok := isNew[parts[entity.ColRank]]; ok && policy != NewLineIndicatorComputed {
			want = entity.IndicatorZeroed
		} else if qty, err := ParseQuantity(parts[entity.ColCounted]); err == nil {
			want = Indicator(qty)
		}
		if parts[entity.ColIndicator] == want {
			res.CorrectIndicators++
		} else {
			bad++
		}
	}

	if res.FoundStockLines < expected {
		res.Issues = append(res.Issues, fmt.Sprintf("líneas LOTECART insuficientes: %d < %d", res.FoundStockLines, expected))
	}
	if bad > 0 {
		res.Issues = append(res.Issues, fmt.Sprintf("indicadores incorrectos en %d líneas LOTECART", bad))
	}
	res.Success = len(res.Issues) == 0
	return res
}
