package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrFormat            = errors.New("formato de archivo inválido")
	ErrUnsupportedFormat = errors.New("formato de archivo no soportado")
	ErrInvalidTemplate   = errors.New("plantilla completada inválida")
	ErrDataConsistency   = errors.New("datos inconsistentes entre etapas")
	ErrSessionBusy       = errors.New("la sesión ya se está procesando")
)

// FormatError describe una línea del extracto que no respeta el esquema.
// Aborta el análisis completo: no se acepta un archivo parcial.
type FormatError struct {
	Line   int // número de línea (o fila) 1-based; 0 si aplica al archivo entero
	Got    int
	Want   int
	Reason string
}

func (e *FormatError) Error() string {
	switch {
	case e.Line > 0 && e.Want > 0:
		return fmt.Sprintf("línea %d: formato inválido, %d columnas requeridas, %d encontradas", e.Line, e.Want, e.Got)
	case e.Line > 0:
		return fmt.Sprintf("línea %d: %s", e.Line, e.Reason)
	default:
		return e.Reason
	}
}

// Unwrap permite errors.Is(err, ErrFormat).
func (e *FormatError) Unwrap() error { return ErrFormat }
