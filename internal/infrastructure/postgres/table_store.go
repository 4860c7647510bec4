package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var _ repository.TableStore = (*TableStore)(nil)

// TableStore tablas intermedias de la sesión como BYTEA (JSON).
type TableStore struct {
	q Querier
}

// NewTableStore construye el adaptador. Pasar pool o tx (Querier).
func NewTableStore(q Querier) *TableStore {
	return &TableStore{q: q}
}

// Save inserta o reemplaza la tabla.
func (s *TableStore) Save(ctx context.Context, sessionID, table string, payload []byte) error {
	query := `
		INSERT INTO recon_tables (session_id, name, payload, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (session_id, name)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := s.q.Exec(ctx, query, sessionID, table, payload); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sesión %s", domain.ErrNotFound, sessionID)
		}
		return fmt.Errorf("save table %s: %w", table, err)
	}
	return nil
}

// Load devuelve (nil, nil) si la tabla no existe.
func (s *TableStore) Load(ctx context.Context, sessionID, table string) ([]byte, error) {
	var payload []byte
	err := s.q.QueryRow(ctx, `SELECT payload FROM recon_tables WHERE session_id = $1 AND name = $2`, sessionID, table).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load table %s: %w", table, err)
	}
	return payload, nil
}

// DeleteTable borra una tabla de la sesión.
func (s *TableStore) DeleteTable(ctx context.Context, sessionID, table string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM recon_tables WHERE session_id = $1 AND name = $2`, sessionID, table); err != nil {
		return fmt.Errorf("delete table %s: %w", table, err)
	}
	return nil
}

// DeleteAll borra todas las tablas de la sesión.
func (s *TableStore) DeleteAll(ctx context.Context, sessionID string) error {
	if _, err := s.q.Exec(ctx, `DELETE FROM recon_tables WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	return nil
}
