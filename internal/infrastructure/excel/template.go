package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

// SheetName hoja de la plantilla de conteo.
const SheetName = "Inventaire"

// Columnas de la plantilla, en orden.
const (
	ColSession     = "Numéro Session"
	ColInventory   = "Numéro Inventaire"
	ColArticle     = "Code Article"
	ColStatus      = "Statut Article"
	ColTheoretical = "Quantité Théorique"
	ColCounted     = "Quantité Réelle"
	ColUnit        = "Unites"
	ColZone        = "Depots"
	ColLocation    = "Emplacements"
)

// TemplateColumns encabezados escritos en la fila 1.
var TemplateColumns = []string{
	ColSession, ColInventory, ColArticle, ColStatus, ColTheoretical, ColCounted, ColUnit, ColZone, ColLocation,
}

// RequiredColumns columnas sin las cuales la plantilla completada se rechaza.
var RequiredColumns = []string{ColArticle, ColInventory, ColTheoretical, ColCounted}

const maxColWidth = 50

// WriteTemplate escribe la plantilla de conteo (una fila por grupo, Quantité Réelle en 0).
func WriteTemplate(w io.Writer, rows []entity.CompletedRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("renombrar hoja: %w", err)
	}

	widths := make([]int, len(TemplateColumns))
	for i, h := range TemplateColumns {
		if err := setCell(f, i, 1, h); err != nil {
			return err
		}
		widths[i] = len([]rune(h))
	}

	for r, row := range rows {
		values := []any{
			row.Session, row.Inventory, row.Article, row.Status,
			row.Theoretical.InexactFloat64(), row.Counted.InexactFloat64(),
			row.Unit, row.Zone, row.Location,
		}
		for c, v := range values {
			if err := setCell(f, c, r+2, v); err != nil {
				return err
			}
			if n := len([]rune(fmt.Sprint(v))); n > widths[c] {
				widths[c] = n
			}
		}
	}

	for c, width := range widths {
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(SheetName, col, col, float64(min(width+2, maxColWidth))); err != nil {
			return fmt.Errorf("ancho de columna %s: %w", col, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("escribir plantilla: %w", err)
	}
	return nil
}

// ReadCompleted lee la plantilla completada. Valida columnas requeridas y que haya datos;
// si no, devuelve domain.ErrInvalidTemplate. Quantité Réelle vacía cuenta como cero.
func ReadCompleted(r io.Reader) ([]entity.CompletedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo abrir el archivo Excel: %v", domain.ErrInvalidTemplate, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if idx, err := f.GetSheetIndex(SheetName); err == nil && idx >= 0 {
		sheet = SheetName
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja %s: %v", domain.ErrInvalidTemplate, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: el archivo no contiene encabezados", domain.ErrInvalidTemplate)
	}

	index := headerIndex(rows[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[normalizeHeader(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: columnas faltantes: %s", domain.ErrInvalidTemplate, strings.Join(missing, ", "))
	}

	cell := func(row []string, col string) string {
		i, ok := index[normalizeHeader(col)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]entity.CompletedRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNo := i + 2
		if blank(row) {
			continue
		}
		theo, err := quantity(cell(row, ColTheoretical))
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d, %s: %v", domain.ErrInvalidTemplate, rowNo, ColTheoretical, err)
		}
		counted, err := quantity(cell(row, ColCounted))
		if err != nil {
			return nil, fmt.Errorf("%w: fila %d, %s: %v", domain.ErrInvalidTemplate, rowNo, ColCounted, err)
		}
		out = append(out, entity.CompletedRow{
			RowNo:       rowNo,
			Session:     cell(row, ColSession),
			Inventory:   cell(row, ColInventory),
			Article:     cell(row, ColArticle),
			Status:      cell(row, ColStatus),
			Theoretical: theo,
			Counted:     counted,
			Unit:        cell(row, ColUnit),
			Zone:        cell(row, ColZone),
			Location:    cell(row, ColLocation),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: el archivo no contiene datos", domain.ErrInvalidTemplate)
	}
	return out, nil
}

// ReadExtractRows lee un extracto en formato xlsx: celdas como texto, filas completadas
// hasta el ancho de la hoja.
func ReadExtractRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: no se pudo abrir el archivo Excel: %v", domain.ErrFormat, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: leer hoja: %v", domain.ErrFormat, err)
	}
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}
	return rows, nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, name, v); err != nil {
		return fmt.Errorf("celda %s: %w", name, err)
	}
	return nil
}

// normalizeHeader NFC + sin espacios + minúsculas: "Quantité" escrito con acento combinado
// coincide con el precompuesto.
func normalizeHeader(h string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(h)))
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, dup := index[key]; !dup && key != "" {
			index[key] = i
		}
	}
	return index
}

func quantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return inventory.ParseQuantity(s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Codec agrupa las operaciones de hoja de cálculo que usa el servicio de reconciliación.
type Codec struct{}

func (Codec) WriteTemplate(w io.Writer, rows []entity.CompletedRow) error { return WriteTemplate(w, rows) }

func (Codec) ReadCompleted(r io.Reader) ([]entity.CompletedRow, error) { return ReadCompleted(r) }

func (Codec) ReadExtractRows(r io.Reader) ([][]string, error) { return ReadExtractRows(r) }
