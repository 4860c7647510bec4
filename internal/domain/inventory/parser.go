package inventory

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Delimiter separador de campos del extracto Sage X3.
const Delimiter = ";"

// DefaultInventoryDatePattern día y mes embebidos en el número de inventario ("0101INV").
const DefaultInventoryDatePattern = `(\d{2})(\d{2})INV`

const maxLineBytes = 4 * 1024 * 1024

// ParserOptions parámetros del análisis del extracto.
type ParserOptions struct {
	MinFields            int  // columnas mínimas de una línea S;
	InvalidAsZero        bool // cantidad ilegible -> 0 con reporte; si es false aborta
	InventoryDatePattern string
	Classifier           *LotClassifier
}

// ParseResult encabezados en orden, registros S; en orden y reporte de coerciones.
type ParseResult struct {
	Headers       []string
	Records       []entity.StockRecord
	Coercions     entity.CoercionReport
	InventoryDate *time.Time
}

// MaxRank rango de línea más alto del extracto.
func (r *ParseResult) MaxRank() int {
	return MaxRank(r.Records)
}

// Parser convierte líneas del extracto en registros tipados.
type Parser struct {
	opts    ParserOptions
	invDate *regexp.Regexp
}

// NewParser valida las opciones y compila el patrón de fecha de inventario.
func NewParser(opts ParserOptions) (*Parser, error) {
	if opts.MinFields <= 0 {
		opts.MinFields = entity.SchemaColumns
	}
	if opts.MinFields < entity.SchemaColumns {
		return nil, fmt.Errorf("%w: se requieren al menos %d columnas, configurado %d", domain.ErrInvalidInput, entity.SchemaColumns, opts.MinFields)
	}
	if opts.Classifier == nil {
		c, err := NewLotClassifier("", "", nil)
		if err != nil {
			return nil, err
		}
		opts.Classifier = c
	}
	pattern := opts.InventoryDatePattern
	if pattern == "" {
		pattern = DefaultInventoryDatePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("patrón de fecha de inventario: %w", err)
	}
	return &Parser{opts: opts, invDate: re}, nil
}

// ParseLines lee un extracto de texto línea por línea. sessionTime fija el año de la fecha de inventario.
func (p *Parser) ParseLines(r io.Reader, sessionTime time.Time) (*ParseResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	res := &ParseResult{}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" {
			continue
		}
		parts := strings.Split(line, Delimiter)
		if err := p.consume(res, lineNo, parts, line); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: lectura después de la línea %d: %v", domain.ErrFormat, lineNo, err)
	}
	return p.finish(res, sessionTime)
}

// ParseRows analiza filas ya separadas en celdas (extracto en hoja de cálculo).
// Una fila con una sola celda que contiene el separador se divide como una línea de texto.
func (p *Parser) ParseRows(rows [][]string, sessionTime time.Time) (*ParseResult, error) {
	res := &ParseResult{}
	for i, row := range rows {
		parts := make([]string, 0, len(row))
		for _, c := range row {
			parts = append(parts, strings.TrimSpace(c))
		}
		if isBlank(parts) {
			continue
		}
		if n := nonEmpty(parts); n == 1 && strings.Contains(parts[0], Delimiter) {
			parts = strings.Split(parts[0], Delimiter)
		}
		raw := strings.Join(trimTrailing(parts, p.opts.MinFields), Delimiter)
		if err := p.consume(res, i+1, parts, raw); err != nil {
			return nil, err
		}
	}
	return p.finish(res, sessionTime)
}

func (p *Parser) consume(res *ParseResult, lineNo int, parts []string, raw string) error {
	switch strings.TrimSpace(parts[entity.ColLineType]) {
	case entity.LineTypeHeader, entity.LineTypeList:
		res.Headers = append(res.Headers, raw)
		return nil
	case entity.LineTypeStock:
	default:
		return nil
	}

	if len(parts) < p.opts.MinFields {
		return &domain.FormatError{Line: lineNo, Got: len(parts), Want: p.opts.MinFields}
	}

	field := func(i int) string {
		if i < len(parts) {
			return strings.TrimSpace(parts[i])
		}
		return ""
	}

	rec := entity.StockRecord{
		LineNo:     lineNo,
		Site:       field(entity.ColSite),
		Session:    field(entity.ColSession),
		Inventory:  field(entity.ColInventory),
		Article:    field(entity.ColArticle),
		CountedRaw: field(entity.ColCounted),
		Indicator:  field(entity.ColIndicator),
		Unit:       field(entity.ColUnit),
		Zone:       field(entity.ColZone),
		Status:     field(entity.ColStatus),
		Lot:        field(entity.ColLot),
		Location:   field(entity.ColLocation),
		Raw:        raw,
	}
	rank, err := strconv.Atoi(field(entity.ColRank))
	if err != nil {
		return &domain.FormatError{Line: lineNo, Reason: fmt.Sprintf("rango no numérico %q", field(entity.ColRank))}
	}
	rec.Rank = rank

	qty, err := ParseQuantity(field(entity.ColQuantity))
	if err != nil {
		if !p.opts.InvalidAsZero {
			return &domain.FormatError{Line: lineNo, Reason: fmt.Sprintf("cantidad inválida %q", field(entity.ColQuantity))}
		}
		res.Coercions.Add(entity.CoercionSample{
			Line:      lineNo,
			Inventory: rec.Inventory,
			Article:   rec.Article,
			Raw:       field(entity.ColQuantity),
		})
	} else {
		rec.Quantity = qty
	}

	cls := p.opts.Classifier.Classify(rec.Lot)
	rec.LotDate = cls.Date
	rec.LotType = cls.Type

	res.Records = append(res.Records, rec)
	return nil
}

func (p *Parser) finish(res *ParseResult, sessionTime time.Time) (*ParseResult, error) {
	if len(res.Records) == 0 {
		return nil, &domain.FormatError{Reason: "no se encontraron líneas S; en el extracto"}
	}
	res.InventoryDate = p.inventoryDate(res.Records[0].Inventory, sessionTime)
	return res, nil
}

// inventoryDate día/mes del número de inventario con el año de la sesión. nil si no coincide o no existe.
func (p *Parser) inventoryDate(inventory string, sessionTime time.Time) *time.Time {
	m := p.invDate.FindStringSubmatch(inventory)
	if len(m) < 3 {
		return nil
	}
	day, err1 := strconv.Atoi(m[1])
	month, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		return nil
	}
	d := time.Date(sessionTime.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day {
		return nil
	}
	return &d
}

// MaxRank rango más alto de los registros (0 si no hay).
func MaxRank(records []entity.StockRecord) int {
	top := 0
	for _, r := range records {
		if r.Rank > top {
			top = r.Rank
		}
	}
	return top
}

func isBlank(parts []string) bool {
	return nonEmpty(parts) == 0
}

func nonEmpty(parts []string) int {
	n := 0
	for _, p := range parts {
		if p != "" {
			n++
		}
	}
	return n
}

// trimTrailing quita celdas vacías al final sin bajar de minCols columnas.
func trimTrailing(parts []string, minCols int) []string {
	end := len(parts)
	for end > minCols && parts[end-1] == "" {
		end--
	}
	return parts[:end]
}
