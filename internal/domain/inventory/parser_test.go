package inventory_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

func TestParseLines_SeparaEncabezadosYRegistros(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "10", "CPKU1070725ABCD"),
		stockLine(2000, "ART001", "EMP01", "5,5", "LOT311224"),
	)

	require.Len(t, res.Headers, 2)
	assert.True(t, strings.HasPrefix(res.Headers[0], "E;"))
	assert.True(t, strings.HasPrefix(res.Headers[1], "L;"))

	require.Len(t, res.Records, 2)
	r := res.Records[0]
	assert.Equal(t, "SITE01", r.Site)
	assert.Equal(t, "SESSION01", r.Session)
	assert.Equal(t, testInventory, r.Inventory)
	assert.Equal(t, 1000, r.Rank)
	assert.Equal(t, "ART001", r.Article)
	assert.Equal(t, "EMP01", r.Location)
	assert.Equal(t, "A", r.Status)
	assert.Equal(t, "UN", r.Unit)
	assert.Equal(t, "ZONE1", r.Zone)
	assert.True(t, dec("10").Equal(r.Quantity))
	assert.Equal(t, entity.LotTypeType1, r.LotType)
	require.NotNil(t, r.LotDate)

	assert.True(t, dec("5.5").Equal(res.Records[1].Quantity))
	assert.Equal(t, entity.LotTypeType2, res.Records[1].LotType)
	assert.Equal(t, 2000, res.MaxRank())
}

func TestParseLines_ConservaTextoOriginalCompleto(t *testing.T) {
	line := stockLine(1000, "ART001", "EMP01", "10", "CPKU1070725ABCD") + ";EXTRA;;"

	res := parse(t, line)

	assert.Equal(t, line, res.Records[0].Raw)
}

func TestParseLines_FechaDeInventarioConAnioDeSesion(t *testing.T) {
	res := parse(t, stockLine(1000, "ART001", "EMP01", "10", "X"))

	require.NotNil(t, res.InventoryDate)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), *res.InventoryDate)
}

func TestParseLines_CantidadInvalidaSeReporta(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "abc", "L1"),
		stockLine(2000, "ART002", "EMP01", "", "L2"),
		stockLine(3000, "ART003", "EMP01", "3", "L3"),
	)

	require.Len(t, res.Records, 3)
	assert.True(t, res.Records[0].Quantity.IsZero())
	assert.Equal(t, 2, res.Coercions.Count)
	require.Len(t, res.Coercions.Samples, 2)
	assert.Equal(t, "abc", res.Coercions.Samples[0].Raw)
	assert.Equal(t, "ART002", res.Coercions.Samples[1].Article)
}

func TestParseLines_CantidadInvalidaAbortaSiNoSeTolera(t *testing.T) {
	p, err := inventory.NewParser(inventory.ParserOptions{InvalidAsZero: false})
	require.NoError(t, err)

	_, err = p.ParseLines(strings.NewReader(extract(stockLine(1000, "ART001", "EMP01", "abc", "L1"))), sessionTime)

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestParseLines_PocasColumnasAbortaTodo(t *testing.T) {
	short := "S;SESSION01;INV0101INV;1000;SITE01;10;0;1;ART001"

	_, err := newParser(t).ParseLines(strings.NewReader(extract(
		stockLine(1000, "ART001", "EMP01", "10", "L1"),
		short,
	)), sessionTime)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFormat))
	var fe *domain.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 4, fe.Line)
	assert.Equal(t, 9, fe.Got)
	assert.Equal(t, entity.SchemaColumns, fe.Want)
}

func TestParseLines_RangoNoNumericoAbortaTodo(t *testing.T) {
	bad := "S;SESSION01;INV0101INV;X10;SITE01;10;0;1;ART001;EMP01;A;UN;0;ZONE1;L1"

	_, err := newParser(t).ParseLines(strings.NewReader(extract(
		stockLine(1000, "ART001", "EMP01", "10", "L1"),
		bad,
	)), sessionTime)

	var fe *domain.FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 4, fe.Line)
	assert.Contains(t, fe.Reason, "X10")
}

func TestParseLines_SinLineasS(t *testing.T) {
	_, err := newParser(t).ParseLines(strings.NewReader("E;SITE01\nL;X\n\n"), sessionTime)

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestParseLines_IgnoraLineasVaciasYBOM(t *testing.T) {
	content := "\ufeffE;SITE01\n\n   \n" + stockLine(1000, "ART001", "EMP01", "1", "L1") + "\r\n"

	res, err := newParser(t).ParseLines(strings.NewReader(content), sessionTime)

	require.NoError(t, err)
	assert.Equal(t, []string{"E;SITE01"}, res.Headers)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "L1", res.Records[0].Lot)
}

func TestParseRows_CeldasYCeldaUnica(t *testing.T) {
	cells := strings.Split(stockLine(1000, "ART001", "EMP01", "10", "L1"), ";")
	cells = append(cells, "", "") // relleno de la hoja
	rows := [][]string{
		{"E", "SITE01", "", ""},
		{stockLine(2000, "ART002", "EMP02", "4", "L2")},
		cells,
		{"", "", ""},
	}

	res, err := newParser(t).ParseRows(rows, sessionTime)

	require.NoError(t, err)
	require.Len(t, res.Headers, 1)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "ART002", res.Records[0].Article)
	assert.Equal(t, 2, res.Records[0].LineNo)
	assert.Equal(t, stockLine(1000, "ART001", "EMP01", "10", "L1"), res.Records[1].Raw, "el relleno final no forma parte del texto")
}

func TestParseRows_FilaCortaEsErrorDeFormato(t *testing.T) {
	_, err := newParser(t).ParseRows([][]string{{"S", "SESSION01", "INV"}}, sessionTime)

	assert.ErrorIs(t, err, domain.ErrFormat)
}

func TestNewParser_MinimoDeColumnas(t *testing.T) {
	_, err := inventory.NewParser(inventory.ParserOptions{MinFields: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.NewParser(inventory.ParserOptions{InventoryDatePattern: "(["})
	assert.Error(t, err)
}
