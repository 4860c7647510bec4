package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// Precisión interna y tolerancias de comparación.
const (
	DecimalPrecision  = 6
	ResidualTolerance = "0.01"
	zeroEpsilon       = "0.000000001"
)

var (
	residualTolerance = decimal.RequireFromString(ResidualTolerance)
	epsilon           = decimal.RequireFromString(zeroEpsilon)
)

// ParseQuantity convierte texto a cantidad aceptando coma o punto decimal,
// espacios y espacios no separables como separador de miles.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// FormatQuantity formatea con 6 decimales y elimina ceros y punto sobrantes ("12.500000" -> "12.5").
func FormatQuantity(d decimal.Decimal) string {
	s := d.StringFixed(DecimalPrecision)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}

// ToFileNumber representación para el archivo final con el separador decimal del negocio.
func ToFileNumber(d decimal.Decimal, sep string) string {
	s := FormatQuantity(d)
	if sep != "" && sep != "." {
		s = strings.Replace(s, ".", sep, 1)
	}
	return s
}

// IsZero cantidad dentro de 1e-9 de cero.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(epsilon)
}

// Indicator indicador de compte para una cantidad corregida.
func Indicator(corrected decimal.Decimal) string {
	if IsZero(corrected) {
		return entity.IndicatorZeroed
	}
	return entity.IndicatorNormal
}
