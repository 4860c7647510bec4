package excel_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/excel"
)

// workbook arma un xlsx con las filas dadas en la primera hoja.
func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestTemplate_IdaYVuelta(t *testing.T) {
	rows := []entity.CompletedRow{
		{Session: "BKE022508SES00000003", Inventory: "INV0101INV", Article: "ART1", Status: "A",
			Theoretical: decimal.RequireFromString("12.5"), Counted: decimal.Zero, Unit: "UN", Zone: "BKE01", Location: "EMP1"},
		{Session: "BKE022508SES00000003", Inventory: "INV0101INV", Article: "ART2", Status: "A",
			Theoretical: decimal.RequireFromString("0"), Counted: decimal.Zero, Unit: "KG", Zone: "BKE01", Location: "EMP2"},
	}

	var buf bytes.Buffer
	require.NoError(t, excel.WriteTemplate(&buf, rows))

	got, err := excel.ReadCompleted(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].RowNo)
	assert.Equal(t, "ART1", got[0].Article)
	assert.Equal(t, "INV0101INV", got[0].Inventory)
	assert.True(t, decimal.RequireFromString("12.5").Equal(got[0].Theoretical))
	assert.True(t, got[0].Counted.IsZero())
	assert.Equal(t, "EMP2", got[1].Location)
	assert.Equal(t, "BKE01", got[1].Zone)
	assert.Equal(t, "KG", got[1].Unit)
}

func TestReadCompleted_CantidadesYEncabezadosNormalizados(t *testing.T) {
	// "Quantité" con e + acento combinado (NFD).
	buf := workbook(t,
		[]any{"Code Article", "Nume\u0301ro Inventaire", "Quantite\u0301 The\u0301orique", "Quantite\u0301 Re\u0301elle"},
		[]any{"ART1", "INV1", "10", "7,5"},
		[]any{"", "", "", ""},
		[]any{"ART2", "INV1", 3, ""},
	)

	got, err := excel.ReadCompleted(buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, decimal.RequireFromString("7.5").Equal(got[0].Counted))
	assert.Equal(t, 4, got[1].RowNo)
	assert.True(t, got[1].Counted.IsZero(), "celda vacía cuenta como cero")
}

func TestReadCompleted_Rechazos(t *testing.T) {
	t.Run("columna faltante", func(t *testing.T) {
		buf := workbook(t,
			[]any{"Code Article", "Numéro Inventaire", "Quantité Théorique"},
			[]any{"ART1", "INV1", 1},
		)
		_, err := excel.ReadCompleted(buf)
		require.ErrorIs(t, err, domain.ErrInvalidTemplate)
		assert.Contains(t, err.Error(), "Quantité Réelle")
	})

	t.Run("sin datos", func(t *testing.T) {
		buf := workbook(t, []any{"Code Article", "Numéro Inventaire", "Quantité Théorique", "Quantité Réelle"})
		_, err := excel.ReadCompleted(buf)
		require.ErrorIs(t, err, domain.ErrInvalidTemplate)
	})

	t.Run("cantidad no numérica", func(t *testing.T) {
		buf := workbook(t,
			[]any{"Code Article", "Numéro Inventaire", "Quantité Théorique", "Quantité Réelle"},
			[]any{"ART1", "INV1", 1, "diez"},
		)
		_, err := excel.ReadCompleted(buf)
		require.ErrorIs(t, err, domain.ErrInvalidTemplate)
		assert.Contains(t, err.Error(), "fila 2")
	})

	t.Run("no es xlsx", func(t *testing.T) {
		_, err := excel.ReadCompleted(bytes.NewBufferString("S;a;b"))
		require.ErrorIs(t, err, domain.ErrInvalidTemplate)
	})
}

func TestReadExtractRows_CompletaAnchoDeHoja(t *testing.T) {
	buf := workbook(t,
		[]any{"E", "BKE"},
		[]any{"S", "SES", "INV", 1000, "BKE", 10},
	)

	rows, err := excel.ReadExtractRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"E", "BKE", "", "", "", ""}, rows[0])
	assert.Equal(t, "1000", rows[1][3])
}
