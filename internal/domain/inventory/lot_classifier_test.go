package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/inventory"
)

func newClassifier(t *testing.T) *inventory.LotClassifier {
	t.Helper()
	c, err := inventory.NewLotClassifier("", "", []string{"CPKU1", "CB2TV"})
	require.NoError(t, err)
	return c
}

func TestClassify_Tipo1ConSitioValido(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("CPKU1070725ABCD")

	assert.Equal(t, entity.LotTypeType1, got.Type)
	require.NotNil(t, got.Date)
	assert.Equal(t, time.Date(2025, time.July, 7, 0, 0, 0, 0, time.UTC), *got.Date)
}

func TestClassify_Tipo1SitioNoPermitidoEsUnknown(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("ZZZZZ070725ABCD")

	assert.Equal(t, entity.LotTypeUnknown, got.Type, "la forma coincide pero el sitio no está en la lista")
	assert.Nil(t, got.Date)
}

func TestClassify_Tipo1FechaInvalidaSinFecha(t *testing.T) {
	c := newClassifier(t)

	for _, lot := range []string{"CPKU1321225ABCD", "CPKU1011325ABCD", "CPKU1310225ABCD"} {
		got := c.Classify(lot)
		assert.Equal(t, entity.LotTypeType1, got.Type, lot)
		assert.Nil(t, got.Date, lot)
	}
}

func TestClassify_Tipo2NoExtraeFecha(t *testing.T) {
	c := newClassifier(t)

	got := c.Classify("LOT311224")

	assert.Equal(t, entity.LotTypeType2, got.Type)
	assert.Nil(t, got.Date)
}

func TestClassify_LotecartYDesconocidos(t *testing.T) {
	c := newClassifier(t)

	assert.Equal(t, entity.LotTypeLotecart, c.Classify("LOTECART").Type)
	assert.Equal(t, entity.LotTypeUnknown, c.Classify("").Type)
	assert.Equal(t, entity.LotTypeUnknown, c.Classify("ABC").Type)
	assert.Equal(t, entity.LotTypeUnknown, c.Classify("LOT31122").Type)
}

func TestNewLotClassifier_PatronInvalido(t *testing.T) {
	_, err := inventory.NewLotClassifier("([", "", nil)
	assert.Error(t, err)

	_, err = inventory.NewLotClassifier(`^(\d+)$`, "", nil)
	assert.Error(t, err, "tipo 1 necesita tres grupos")
}

func TestPriorityLotType(t *testing.T) {
	assert.Equal(t, entity.LotTypeType1, inventory.PriorityLotType([]entity.LotType{entity.LotTypeUnknown, entity.LotTypeType2, entity.LotTypeType1}))
	assert.Equal(t, entity.LotTypeLotecart, inventory.PriorityLotType([]entity.LotType{entity.LotTypeUnknown, entity.LotTypeLotecart, entity.LotTypePotential}))
	assert.Equal(t, entity.LotTypeUnknown, inventory.PriorityLotType(nil))
}
