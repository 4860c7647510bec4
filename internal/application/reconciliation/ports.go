package reconciliation

import (
	"context"
	"io"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Spreadsheets lectura y escritura de hojas de cálculo (plantilla de conteo y extractos xlsx).
type Spreadsheets interface {
	WriteTemplate(w io.Writer, rows []entity.CompletedRow) error
	ReadCompleted(r io.Reader) ([]entity.CompletedRow, error)
	ReadExtractRows(r io.Reader) ([][]string, error)
}

// TextDecoder convierte el extracto de texto a UTF-8 sin BOM.
type TextDecoder interface {
	Decode(content []byte) ([]byte, error)
}

// ReportGenerator genera el reporte PDF de una sesión.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, session *entity.Session, report entity.RunReport, adjustments []entity.Adjustment) ([]byte, error)
}
