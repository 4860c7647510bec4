package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregationKey identifica un grupo de reconciliación.
type AggregationKey struct {
	Article   string `json:"article"`
	Status    string `json:"status"`
	Location  string `json:"location"`
	Zone      string `json:"zone"`
	Unit      string `json:"unit"`
	Inventory string `json:"inventory"`
}

// AggregatedGroup resumen de un grupo; solo se usa para la plantilla y el orden de presentación.
type AggregatedGroup struct {
	Key              AggregationKey  `json:"key"`
	Site             string          `json:"site"`
	Session          string          `json:"session"`
	TheoreticalTotal decimal.Decimal `json:"theoretical_total"`
	PriorityLotType  LotType         `json:"priority_lot_type"`
	MinLotDate       *time.Time      `json:"min_lot_date,omitempty"`
	Members          int             `json:"members"`
}
