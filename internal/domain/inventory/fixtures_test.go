package inventory_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

const testInventory = "INV0101INV"

var sessionTime = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

// stockLine línea S; con los campos que el pipeline inspecciona.
func stockLine(rank int, article, location, qty, lot string) string {
	return fmt.Sprintf("S;SESSION01;%s;%d;SITE01;%s;0;1;%s;%s;A;UN;0;ZONE1;%s", testInventory, rank, qty, article, location, lot)
}

func extract(lines ...string) string {
	head := []string{
		"E;SITE01;SESSION01;Inventaire test",
		"L;SESSION01;" + testInventory + ";1",
	}
	return strings.Join(append(head, lines...), "\n") + "\n"
}

func newParser(t *testing.T) *inventory.Parser {
	t.Helper()
	p, err := inventory.NewParser(inventory.ParserOptions{
		MinFields:     entity.SchemaColumns,
		InvalidAsZero: true,
		Classifier:    newClassifier(t),
	})
	require.NoError(t, err)
	return p
}

func parse(t *testing.T, lines ...string) *inventory.ParseResult {
	t.Helper()
	res, err := newParser(t).ParseLines(strings.NewReader(extract(lines...)), sessionTime)
	require.NoError(t, err)
	return res
}

// completed fila de plantilla completada para el inventario de prueba.
func completed(article string, theo, counted string) entity.CompletedRow {
	return entity.CompletedRow{
		Inventory:   testInventory,
		Article:     article,
		Theoretical: dec(theo),
		Counted:     dec(counted),
	}
}

func adjustmentFor(t *testing.T, adjs []entity.Adjustment, lot string) entity.Adjustment {
	t.Helper()
	for _, a := range adjs {
		if a.Lot == lot {
			return a
		}
	}
	require.Failf(t, "ajuste no encontrado", "lote %s", lot)
	return entity.Adjustment{}
}

func ptrDate(y, m, d int) *time.Time {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return &t
}
