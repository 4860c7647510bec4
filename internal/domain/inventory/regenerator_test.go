package inventory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

func fields(line string) []string { return strings.Split(line, ";") }

func TestRegenerate_SinAjustesReproduceCantidades(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "10", "L1"),
		stockLine(2000, "ART002", "EMP01", "2,5", "L2"),
	)

	out, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{
		Headers: res.Headers,
		Records: res.Records,
	})

	require.NoError(t, err)
	require.Len(t, out.Lines, 4)
	assert.Equal(t, res.Headers, out.Lines[:2])
	for i, line := range out.Lines[2:] {
		f := fields(line)
		orig := fields(res.Records[i].Raw)
		assert.Equal(t, orig[5], f[5])
		assert.Equal(t, orig[5], f[6])
		assert.Equal(t, "1", f[7])
		assert.Equal(t, orig[14], f[14])
	}
	assert.Equal(t, 0, out.Adjusted)
	assert.Empty(t, out.NewLineRanks)
}

func TestRegenerate_AplicaAjusteConComa(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "10", "L1"),
		stockLine(2000, "ART001", "EMP01", "5", "L2"),
	)
	adjs := []entity.Adjustment{
		{Kind: entity.AdjustmentAllocation, Article: "ART001", Inventory: testInventory, Lot: "L1", Original: dec("10"), Adjustment: dec("2.5"), Corrected: dec("12.500000")},
		{Kind: entity.AdjustmentAllocation, Article: "ART001", Inventory: testInventory, Lot: "L2", Original: dec("5"), Adjustment: dec("-5"), Corrected: dec("0.0000000001")},
	}

	out, err := inventory.Regenerator{DecimalSeparator: ","}.Regenerate(inventory.RegenerateInput{Records: res.Records, Adjustments: adjs})

	require.NoError(t, err)
	l1, l2 := fields(out.Lines[0]), fields(out.Lines[1])
	assert.Equal(t, "10", l1[5], "el campo original no cambia")
	assert.Equal(t, "12,5", l1[6])
	assert.Equal(t, "1", l1[7])
	assert.Equal(t, "0", l2[6])
	assert.Equal(t, "2", l2[7], "cantidad ~0 marca el indicador")
	assert.Equal(t, "L2", l2[14])
	assert.Equal(t, 2, out.Adjusted)
}

func TestRegenerate_StockEncontradoActualizadoSobrescribeLote(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "0", "CPKU1010125ABCD"),
		stockLine(2000, "ART001", "EMP01", "3", "L2"),
	)
	found := inventory.CreateFoundStockAdjustments([]entity.CompletedRow{completed("ART001", "0", "4")}, res.Records)

	out, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{Records: res.Records, Adjustments: found.Adjustments})

	require.NoError(t, err)
	require.Len(t, out.Lines, 2, "una actualización no agrega líneas")
	f := fields(out.Lines[0])
	assert.Equal(t, "0", f[5])
	assert.Equal(t, "4", f[6])
	assert.Equal(t, "1", f[7])
	assert.Equal(t, entity.LotecartLot, f[14])
	assert.Equal(t, "L2", fields(out.Lines[1])[14])
}

func TestRegenerate_UltimoAjustePorLineaGana(t *testing.T) {
	res := parse(t, stockLine(1000, "ART001", "EMP01", "0", "L0"))
	adjs := []entity.Adjustment{
		{Kind: entity.AdjustmentAllocation, Article: "ART001", Inventory: testInventory, Lot: "L0", Corrected: dec("4")},
		{Kind: entity.AdjustmentFoundUpdate, Article: "ART001", Inventory: testInventory, Lot: "L0", LotType: entity.LotTypeLotecart, Corrected: dec("4")},
	}

	out, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{Records: res.Records, Adjustments: adjs})

	require.NoError(t, err)
	assert.Equal(t, entity.LotecartLot, fields(out.Lines[0])[14])
}

func TestRegenerate_MismoLoteEnVariosEmplacementsRecibeElMismoAjuste(t *testing.T) {
	// artículo sin lote: las dos líneas comparten la clave (artículo, inventario, lote vacío)
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "4", ""),
		stockLine(2000, "ART001", "EMP02", "6", ""),
	)
	adjs := []entity.Adjustment{
		{Kind: entity.AdjustmentAllocation, Article: "ART001", Inventory: testInventory, Lot: "", Original: dec("4"), Adjustment: dec("-1"), Corrected: dec("3")},
	}

	out, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{Records: res.Records, Adjustments: adjs})

	require.NoError(t, err)
	l1, l2 := fields(out.Lines[0]), fields(out.Lines[1])
	assert.Equal(t, "EMP01", l1[9])
	assert.Equal(t, "3", l1[6])
	assert.Equal(t, "EMP02", l2[9])
	assert.Equal(t, "6", l2[5])
	assert.Equal(t, "3", l2[6], "la clave no distingue emplacement")
	assert.Equal(t, 2, out.Adjusted)
}

func TestRegenerate_LineasNuevasAlFinal(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "4", "L1"),
		stockLine(3000, "ART002", "EMP02", "6", "L2"),
	)
	found := inventory.CreateFoundStockAdjustments([]entity.CompletedRow{
		completed("ART001", "0", "2.25"),
		completed("ART002", "0", "1"),
	}, res.Records)
	require.Len(t, found.Adjustments, 2)

	for _, tc := range []struct {
		policy inventory.NewLineIndicator
		want   string
	}{
		{inventory.NewLineIndicatorLegacy, "2"},
		{inventory.NewLineIndicatorComputed, "1"},
	} {
		out, err := inventory.Regenerator{DecimalSeparator: ",", NewLineIndicator: tc.policy}.Regenerate(inventory.RegenerateInput{
			Headers:     res.Headers,
			Records:     res.Records,
			Adjustments: found.Adjustments,
		})
		require.NoError(t, err)
		require.Len(t, out.Lines, 6)
		assert.Equal(t, []int{4000, 5000}, out.NewLineRanks)

		n1, n2 := fields(out.Lines[4]), fields(out.Lines[5])
		assert.Equal(t, "4000", n1[3])
		assert.Equal(t, "0", n1[5])
		assert.Equal(t, "2,25", n1[6])
		assert.Equal(t, tc.want, n1[7], string(tc.policy))
		assert.Equal(t, entity.LotecartLot, n1[14])
		assert.Equal(t, "ART001", n1[8])
		assert.Equal(t, "EMP01", n1[9])
		assert.Equal(t, "5000", n2[3])
		assert.Equal(t, "EMP02", n2[9])

		// las líneas originales no se tocan
		assert.Equal(t, "L1", fields(out.Lines[2])[14])
		assert.Equal(t, "1", fields(out.Lines[2])[7])

		v := inventory.ValidateOutput(out.Lines, 2, tc.policy, out.NewLineRanks)
		assert.True(t, v.Success, "%v", v.Issues)
		assert.Equal(t, 2, v.FoundStockLines)
		assert.Equal(t, 2, v.CorrectIndicators)
	}
}

func TestRegenerate_EmplacementEditado(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "4", "L1"),
		stockLine(2000, "ART001", "EMP02", "6", "L2"),
		stockLine(3000, "ART002", "EMP01", "1", "L3"),
	)
	rows := []entity.CompletedRow{
		{Article: "ART001", Inventory: testInventory, Location: "EMP01"},
		{Article: "ART001", Inventory: testInventory, Location: "EMP02"},
		{Article: "ART002", Inventory: testInventory, Location: "NUEVO"},
		{Article: "ART404", Inventory: testInventory, Location: "OTRO"},
	}

	overrides := inventory.LocationOverrides(rows, res.Records)

	require.Len(t, overrides, 1, "solo cuentan emplacements que no existían en el par")
	assert.Equal(t, "NUEVO", overrides[entity.CountKey{Article: "ART002", Inventory: testInventory}])

	out, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{Records: res.Records, LocationOverrides: overrides})
	require.NoError(t, err)
	assert.Equal(t, "EMP01", fields(out.Lines[0])[9])
	assert.Equal(t, "EMP02", fields(out.Lines[1])[9])
	assert.Equal(t, "NUEVO", fields(out.Lines[2])[9])
	assert.Equal(t, "1", fields(out.Lines[2])[6], "el emplacement se aplica aunque no haya ajuste de cantidad")
}

func TestRegenerate_TextoOriginalInvalido(t *testing.T) {
	records := []entity.StockRecord{{LineNo: 3, Article: "A", Raw: "S;1;2"}}

	_, err := inventory.Regenerator{}.Regenerate(inventory.RegenerateInput{Records: records})

	assert.ErrorIs(t, err, domain.ErrDataConsistency)
}

func TestValidateOutput_DetectaIndicadoresYFaltantes(t *testing.T) {
	lines := []string{
		"E;SITE01",
		stockLine(1000, "ART001", "EMP01", "0", "LOTECART"),
	}
	// indicador "1" con cantidad 0 en la línea LOTECART existente
	f := fields(lines[1])
	f[6], f[7] = "0", "1"
	lines[1] = strings.Join(f, ";")

	v := inventory.ValidateOutput(lines, 2, inventory.NewLineIndicatorLegacy, nil)

	assert.False(t, v.Success)
	assert.Equal(t, 1, v.FoundStockLines)
	assert.Equal(t, 0, v.CorrectIndicators)
	assert.Len(t, v.Issues, 2)
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "a\nb\n", string(inventory.Encode([]string{"a", "b"})))
	assert.Nil(t, inventory.Encode(nil))
}

func TestPipeline_FIFOExtremoAExtremo(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "5", "CPKU1010325D002"),
		stockLine(2000, "ART001", "EMP01", "10", "CPKU1010125D001"),
		stockLine(3000, "ART002", "EMP01", "0", "LOT010125"),
		stockLine(4000, "ART003", "EMP01", "7", "X1"),
	)
	agg, err := inventory.NewAggregator(nil)
	require.NoError(t, err)
	groups, err := agg.Aggregate(res.Records)
	require.NoError(t, err)
	rows := inventory.BuildTemplateRows(groups)
	for i := range rows {
		switch rows[i].Article {
		case "ART001":
			rows[i].Counted = dec("8")
		case "ART002":
			rows[i].Counted = dec("3")
		case "ART003":
			rows[i].Counted = dec("7")
		}
	}

	counts, _ := inventory.CountsFromTemplate(rows)
	dist := inventory.Distribute(inventory.CalculateDiscrepancies(res.Records, counts), inventory.StrategyFIFO)
	found := inventory.CreateFoundStockAdjustments(inventory.DetectFoundStock(rows), res.Records)
	adjs := append(dist.Adjustments, found.Adjustments...)

	out, err := inventory.Regenerator{DecimalSeparator: ","}.Regenerate(inventory.RegenerateInput{
		Headers:           res.Headers,
		Records:           res.Records,
		Adjustments:       adjs,
		LocationOverrides: inventory.LocationOverrides(rows, res.Records),
	})
	require.NoError(t, err)
	require.Len(t, out.Lines, 6)

	byRank := map[string][]string{}
	for _, l := range out.Lines[2:] {
		f := fields(l)
		byRank[f[3]] = f
	}
	assert.Equal(t, "5", byRank["1000"][6], "d2 intacto")
	assert.Equal(t, "3", byRank["2000"][6], "d1 10 - 7")
	assert.Equal(t, "3", byRank["3000"][6])
	assert.Equal(t, "LOTECART", byRank["3000"][14])
	assert.Equal(t, "7", byRank["4000"][6])
	assert.Equal(t, "1", byRank["4000"][7])
}
