package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscrepancyRecord una por StockRecord; el reparto real lo decide el motor de distribución.
type DiscrepancyRecord struct {
	Record       StockRecord     `json:"record"`
	Original     decimal.Decimal `json:"original"`
	CountedTotal decimal.Decimal `json:"counted_total"`
	Adjustment   decimal.Decimal `json:"adjustment"`
	Corrected    decimal.Decimal `json:"corrected"`
}

// AdjustmentKind distingue las variantes de ajuste.
type AdjustmentKind string

const (
	AdjustmentAllocation  AdjustmentKind = "allocation"   // reparto FIFO/LIFO de un grupo
	AdjustmentFoundUpdate AdjustmentKind = "found_update" // stock encontrado sobre una línea existente en cero
	AdjustmentFoundNew    AdjustmentKind = "found_new"    // stock encontrado que requiere una línea nueva
)

// Adjustment resultado final por línea. Una sola estructura para las tres variantes.
type Adjustment struct {
	Kind       AdjustmentKind  `json:"kind"`
	Article    string          `json:"article"`
	Inventory  string          `json:"inventory"`
	Status     string          `json:"status"`
	Unit       string          `json:"unit"`
	Zone       string          `json:"zone"`
	Location   string          `json:"location"`
	Lot        string          `json:"lot"`
	LotType    LotType         `json:"lot_type"`
	LotDate    *time.Time      `json:"lot_date,omitempty"`
	Original   decimal.Decimal `json:"original"`
	Counted    decimal.Decimal `json:"counted"`
	Adjustment decimal.Decimal `json:"adjustment"`
	Corrected  decimal.Decimal `json:"corrected"`
	// Reference texto de la línea original (actualización) o de la línea modelo (línea nueva).
	Reference string `json:"reference,omitempty"`
}

// IsFoundStock indica si el ajuste proviene del tratamiento de stock encontrado.
func (a Adjustment) IsFoundStock() bool {
	return a.Kind == AdjustmentFoundUpdate || a.Kind == AdjustmentFoundNew
}

// LineKey clave (artículo, inventario, lote) con la que el regenerador busca ajustes.
type LineKey struct {
	Article   string
	Inventory string
	Lot       string
}

// LineKey de un ajuste.
func (a Adjustment) LineKey() LineKey {
	return LineKey{Article: a.Article, Inventory: a.Inventory, Lot: a.Lot}
}
