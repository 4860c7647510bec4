package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

const sessionColumns = `id, original_filename, headers, status, strategy, inventory_date, site, session_number,
	inventories, record_count, group_count, coerced_count, total_discrepancy, adjusted_items,
	final_filename, created_at, updated_at`

// SessionRepo implementación de SessionRepository sobre PostgreSQL (usable con pool o tx).
type SessionRepo struct {
	q Querier
}

// NewSessionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q}
}

// Create persiste una nueva sesión.
func (r *SessionRepo) Create(ctx context.Context, s *entity.Session) error {
	query := `INSERT INTO recon_sessions (` + sessionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.OriginalFilename, nonNil(s.Headers), s.Status, s.Strategy, s.InventoryDate, s.Site, s.SessionNumber,
		nonNil(s.Inventories), s.RecordCount, s.GroupCount, s.CoercedCount, s.TotalDiscrepancy, s.AdjustedItems,
		s.FinalFilename, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sesión %s ya existe", domain.ErrInvalidInput, s.ID)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión; (nil, nil) si no existe.
func (r *SessionRepo) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM recon_sessions WHERE id = $1`
	s, err := scanSession(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// Update reescribe los campos mutables de la sesión.
func (r *SessionRepo) Update(ctx context.Context, s *entity.Session) error {
	query := `
		UPDATE recon_sessions SET status = $2, strategy = $3, inventory_date = $4, record_count = $5,
			group_count = $6, coerced_count = $7, total_discrepancy = $8, adjusted_items = $9,
			final_filename = $10, headers = $11, inventories = $12, updated_at = $13
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Status, s.Strategy, s.InventoryDate, s.RecordCount,
		s.GroupCount, s.CoercedCount, s.TotalDiscrepancy, s.AdjustedItems,
		s.FinalFilename, nonNil(s.Headers), nonNil(s.Inventories), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// List sesiones más recientes primero con paginación.
func (r *SessionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM recon_sessions ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Delete elimina la sesión; sus tablas se borran en cascada.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM recon_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanSession(row pgx.Row) (*entity.Session, error) {
	var s entity.Session
	err := row.Scan(
		&s.ID, &s.OriginalFilename, &s.Headers, &s.Status, &s.Strategy, &s.InventoryDate, &s.Site, &s.SessionNumber,
		&s.Inventories, &s.RecordCount, &s.GroupCount, &s.CoercedCount, &s.TotalDiscrepancy, &s.AdjustedItems,
		&s.FinalFilename, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
