package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

func TestCountsFromTemplate_UltimaFilaGana(t *testing.T) {
	rows := []entity.CompletedRow{
		completed("ART001", "10", "7"),
		completed("ART002", "3", "3"),
		completed("ART001", "10", "9"),
		completed("ART002", "3", "3"),
	}
	rows[2].RowNo = 4

	counts, conflicts := inventory.CountsFromTemplate(rows)

	assertDec(t, "9", counts.Get(entity.CountKey{Article: "ART001", Inventory: testInventory}), "ART001")
	require.Len(t, conflicts, 1, "valores iguales repetidos no son conflicto")
	assert.Equal(t, 4, conflicts[0].Row)
	assertDec(t, "7", conflicts[0].Previous, "anterior")
}

func TestCalculateDiscrepancies_UnaPorRegistro(t *testing.T) {
	res := parse(t,
		stockLine(1000, "ART001", "EMP01", "10", "L1"),
		stockLine(2000, "ART001", "EMP01", "5", "L2"),
		stockLine(3000, "ART002", "EMP01", "2", "L3"),
	)
	counts := entity.ActualCounts{{Article: "ART001", Inventory: testInventory}: dec("12")}

	discs := inventory.CalculateDiscrepancies(res.Records, counts)

	require.Len(t, discs, 3)
	for i, d := range discs {
		assert.Equal(t, res.Records[i].Raw, d.Record.Raw)
		assert.True(t, d.Adjustment.IsZero())
		assert.True(t, d.Corrected.Equal(d.Original))
	}
	assertDec(t, "12", discs[0].CountedTotal, "mismo contado para todos los lotes")
	assertDec(t, "12", discs[1].CountedTotal, "mismo contado para todos los lotes")
	assertDec(t, "0", discs[2].CountedTotal, "sin entrada equivale a nada contado")
	assertDec(t, "-5", inventory.TotalDelta(discs), "delta total")
}
