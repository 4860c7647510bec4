package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatQuantity(t *testing.T) {
	cases := map[string]string{
		"12.500000":  "12.5",
		"10":         "10",
		"0":          "0",
		"0.0000001":  "0",
		"-3.25":      "-3.25",
		"1.23456789": "1.234568",
		"100.000":    "100",
		"0.000001":   "0.000001",
	}
	for in, want := range cases {
		assert.Equal(t, want, inventory.FormatQuantity(dec(in)), in)
	}
}

func TestToFileNumber_SeparadorComa(t *testing.T) {
	assert.Equal(t, "12,5", inventory.ToFileNumber(dec("12.500000"), ","))
	assert.Equal(t, "12.5", inventory.ToFileNumber(dec("12.5"), "."))
	assert.Equal(t, "7", inventory.ToFileNumber(dec("7"), ","))
}

func TestParseQuantity_AceptaAmbosSeparadores(t *testing.T) {
	for in, want := range map[string]string{
		"12,5":       "12.5",
		" 12.5 ":     "12.5",
		"1 234,5":    "1234.5",
		"1\u00a0000": "1000",
	} {
		got, err := inventory.ParseQuantity(in)
		require.NoError(t, err, in)
		assert.True(t, dec(want).Equal(got), "%q -> %s", in, got)
	}

	_, err := inventory.ParseQuantity("abc")
	assert.Error(t, err)
	_, err = inventory.ParseQuantity("")
	assert.Error(t, err)
}

func TestIndicator_EpsilonCero(t *testing.T) {
	assert.Equal(t, "2", inventory.Indicator(dec("0")))
	assert.Equal(t, "2", inventory.Indicator(dec("0.0000000001")))
	assert.Equal(t, "1", inventory.Indicator(dec("0.001")))
	assert.Equal(t, "1", inventory.Indicator(dec("15")))
}
