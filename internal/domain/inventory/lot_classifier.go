package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Patrones por defecto de los identificadores de lote.
const (
	DefaultType1Pattern = `^([A-Z0-9]{5})(\d{6})([A-Z0-9]{4})$`
	DefaultType2Pattern = `^LOT(\d{6})$`
)

// LotClassifier reconoce los formatos de lote con fecha embebida.
//
// Tipo 1: código de sitio (5) + DDMMAA + sufijo (4). El código de sitio debe estar en la
// lista permitida; si no, el lote queda "unknown" aunque la forma coincida.
// Tipo 2: "LOT" + 6 dígitos. No se extrae fecha (regla histórica del negocio).
type LotClassifier struct {
	type1     *regexp.Regexp
	type2     *regexp.Regexp
	siteCodes map[string]struct{}
}

// NewLotClassifier compila los patrones. Patrones vacíos usan los valores por defecto.
func NewLotClassifier(type1Pattern, type2Pattern string, siteCodes []string) (*LotClassifier, error) {
	if type1Pattern == "" {
		type1Pattern = DefaultType1Pattern
	}
	if type2Pattern == "" {
		type2Pattern = DefaultType2Pattern
	}
	t1, err := regexp.Compile(type1Pattern)
	if err != nil {
		return nil, fmt.Errorf("patrón de lote tipo 1: %w", err)
	}
	if t1.NumSubexp() < 3 {
		return nil, fmt.Errorf("patrón de lote tipo 1: se esperan 3 grupos (sitio, fecha, sufijo)")
	}
	t2, err := regexp.Compile(type2Pattern)
	if err != nil {
		return nil, fmt.Errorf("patrón de lote tipo 2: %w", err)
	}
	codes := make(map[string]struct{}, len(siteCodes))
	for _, c := range siteCodes {
		codes[strings.TrimSpace(c)] = struct{}{}
	}
	return &LotClassifier{type1: t1, type2: t2, siteCodes: codes}, nil
}

// Classify devuelve la fecha (si aplica) y el tipo del lote.
func (c *LotClassifier) Classify(lot string) entity.LotClassification {
	lot = strings.TrimSpace(lot)
	if lot == "" {
		return entity.LotClassification{Type: entity.LotTypeUnknown}
	}
	if lot == entity.LotecartLot {
		return entity.LotClassification{Type: entity.LotTypeLotecart}
	}

	if m := c.type1.FindStringSubmatch(lot); m != nil {
		if _, ok := c.siteCodes[m[1]]; !ok {
			return entity.LotClassification{Type: entity.LotTypeUnknown}
		}
		return entity.LotClassification{Date: parseDDMMYY(m[2]), Type: entity.LotTypeType1}
	}

	if c.type2.MatchString(lot) {
		return entity.LotClassification{Type: entity.LotTypeType2}
	}

	return entity.LotClassification{Type: entity.LotTypeUnknown}
}

// parseDDMMYY devuelve nil si la fecha no existe en el calendario (31/02, mes 13...).
func parseDDMMYY(s string) *time.Time {
	if len(s) != 6 {
		return nil
	}
	day, err1 := strconv.Atoi(s[0:2])
	month, err2 := strconv.Atoi(s[2:4])
	yy, err3 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return nil
	}
	d := time.Date(2000+yy, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month {
		return nil
	}
	return &d
}

// PriorityLotType tipo de mayor prioridad presente en la lista.
func PriorityLotType(types []entity.LotType) entity.LotType {
	best := entity.LotTypeUnknown
	for _, t := range types {
		if t.Priority() < best.Priority() {
			best = t
		}
	}
	return best
}
