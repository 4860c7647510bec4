package repository

import "context"

// Nombres de las tablas intermedias de una sesión.
const (
	TableOriginal        = "original"
	TableAggregated      = "aggregated"
	TableCompleted       = "completed"
	TableDiscrepancies   = "discrepancies"
	TableFoundCandidates = "found_candidates"
	TableDistributed     = "distributed"
	TableReport          = "report"
)

// TableStore guarda tablas serializadas por (sesión, nombre). Cada tabla se escribe una vez por
// etapa y se lee muchas veces. Load devuelve (nil, nil) si la tabla no existe.
// DeleteTable de una tabla inexistente no es error.
type TableStore interface {
	Save(ctx context.Context, sessionID, table string, payload []byte) error
	Load(ctx context.Context, sessionID, table string) ([]byte, error)
	DeleteTable(ctx context.Context, sessionID, table string) error
	DeleteAll(ctx context.Context, sessionID string) error
}

// SessionLocker garantiza como máximo un procesamiento concurrente por sesión.
// Si la sesión ya está tomada devuelve domain.ErrSessionBusy.
type SessionLocker interface {
	Lock(ctx context.Context, sessionID string) (unlock func(context.Context) error, err error)
}
