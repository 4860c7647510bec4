package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una sesión de reconciliación.
const (
	SessionStatusUploaded    = "uploaded"
	SessionStatusCounted     = "counted"
	SessionStatusDistributed = "distributed"
	SessionStatusCompleted   = "completed"
)

// Session metadatos de una reconciliación. Las tablas intermedias se guardan aparte (TableStore).
type Session struct {
	ID               string          `json:"id"`
	OriginalFilename string          `json:"original_filename"`
	Headers          []string        `json:"headers"`
	Status           string          `json:"status"`
	Strategy         string          `json:"strategy,omitempty"`
	InventoryDate    *time.Time      `json:"inventory_date,omitempty"`
	Site             string          `json:"site"`
	SessionNumber    string          `json:"session_number"`
	Inventories      []string        `json:"inventories"`
	RecordCount      int             `json:"record_count"`
	GroupCount       int             `json:"group_count"`
	CoercedCount     int             `json:"coerced_count"`
	TotalDiscrepancy decimal.Decimal `json:"total_discrepancy"`
	AdjustedItems    int             `json:"adjusted_items"`
	FinalFilename    string          `json:"final_filename,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
