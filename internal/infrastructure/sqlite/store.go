package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var (
	_ repository.SessionRepository = (*Store)(nil)
	_ repository.TableStore        = (*Store)(nil)
	_ repository.TxRunner          = (*DB)(nil)
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recon_sessions (
	id                TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	headers           TEXT NOT NULL DEFAULT '[]',
	status            TEXT NOT NULL,
	strategy          TEXT NOT NULL DEFAULT '',
	inventory_date    TEXT,
	site              TEXT NOT NULL DEFAULT '',
	session_number    TEXT NOT NULL DEFAULT '',
	inventories       TEXT NOT NULL DEFAULT '[]',
	record_count      INTEGER NOT NULL DEFAULT 0,
	group_count       INTEGER NOT NULL DEFAULT 0,
	coerced_count     INTEGER NOT NULL DEFAULT 0,
	total_discrepancy TEXT NOT NULL DEFAULT '0',
	adjusted_items    INTEGER NOT NULL DEFAULT 0,
	final_filename    TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recon_sessions_created ON recon_sessions(created_at);

CREATE TABLE IF NOT EXISTS recon_tables (
	session_id TEXT NOT NULL REFERENCES recon_sessions(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	payload    BLOB NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (session_id, name)
);`

// querier operaciones comunes a *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB archivo SQLite local con las sesiones de la CLI.
type DB struct {
	db *sql.DB
	*Store
}

// Store repositorio de sesiones y tablas sobre una conexión o transacción.
type Store struct {
	q querier
}

// Open abre (o crea) la base en path y aplica el esquema.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("crear directorio: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("crear esquema: %w", err)
	}
	return &DB{db: db, Store: &Store{q: db}}, nil
}

// Close cierra la base.
func (d *DB) Close() error {
	return d.db.Close()
}

// Run ejecuta fn dentro de una transacción.
func (d *DB) Run(ctx context.Context, fn func(repository.SessionRepository, repository.TableStore) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	s := &Store{q: tx}
	if err := fn(s, s); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const sessionColumns = `id, original_filename, headers, status, strategy, inventory_date, site, session_number,
	inventories, record_count, group_count, coerced_count, total_discrepancy, adjusted_items,
	final_filename, created_at, updated_at`

// Create persiste una nueva sesión.
func (s *Store) Create(ctx context.Context, sess *entity.Session) error {
	args, err := sessionArgs(sess)
	if err != nil {
		return err
	}
	query := `INSERT INTO recon_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := s.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetByID obtiene una sesión; (nil, nil) si no existe.
func (s *Store) GetByID(ctx context.Context, id string) (*entity.Session, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM recon_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Update reescribe la sesión completa.
func (s *Store) Update(ctx context.Context, sess *entity.Session) error {
	args, err := sessionArgs(sess)
	if err != nil {
		return err
	}
	query := `UPDATE recon_sessions SET original_filename = ?, headers = ?, status = ?, strategy = ?, inventory_date = ?,
		site = ?, session_number = ?, inventories = ?, record_count = ?, group_count = ?, coerced_count = ?,
		total_discrepancy = ?, adjusted_items = ?, final_filename = ?, created_at = ?, updated_at = ?
		WHERE id = ?`
	if _, err := s.q.ExecContext(ctx, query, append(args[1:], args[0])...); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// List sesiones más recientes primero.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*entity.Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.q.QueryContext(ctx, `SELECT `+sessionColumns+` FROM recon_sessions ORDER BY created_at DESC, id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var list []*entity.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, sess)
	}
	return list, rows.Err()
}

// Delete elimina la sesión y sus tablas.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.DeleteAll(ctx, id); err != nil {
		return err
	}
	if _, err := s.q.ExecContext(ctx, `DELETE FROM recon_sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Save inserta o reemplaza la tabla.
func (s *Store) Save(ctx context.Context, sessionID, table string, payload []byte) error {
	query := `INSERT INTO recon_tables (session_id, name, payload, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`
	if _, err := s.q.ExecContext(ctx, query, sessionID, table, payload, formatTime(time.Now())); err != nil {
		return fmt.Errorf("save table %s: %w", table, err)
	}
	return nil
}

// Load devuelve (nil, nil) si la tabla no existe.
func (s *Store) Load(ctx context.Context, sessionID, table string) ([]byte, error) {
	var payload []byte
	err := s.q.QueryRowContext(ctx, `SELECT payload FROM recon_tables WHERE session_id = ? AND name = ?`, sessionID, table).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load table %s: %w", table, err)
	}
	return payload, nil
}

// DeleteTable borra una tabla de la sesión.
func (s *Store) DeleteTable(ctx context.Context, sessionID, table string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM recon_tables WHERE session_id = ? AND name = ?`, sessionID, table); err != nil {
		return fmt.Errorf("delete table %s: %w", table, err)
	}
	return nil
}

// DeleteAll borra las tablas de la sesión.
func (s *Store) DeleteAll(ctx context.Context, sessionID string) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM recon_tables WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete tables: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*entity.Session, error) {
	var (
		sess                 entity.Session
		headers, inventories string
		invDate              sql.NullString
		total                string
		createdAt, updatedAt string
	)
	err := row.Scan(
		&sess.ID, &sess.OriginalFilename, &headers, &sess.Status, &sess.Strategy, &invDate, &sess.Site, &sess.SessionNumber,
		&inventories, &sess.RecordCount, &sess.GroupCount, &sess.CoercedCount, &total, &sess.AdjustedItems,
		&sess.FinalFilename, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(headers), &sess.Headers); err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	if err := json.Unmarshal([]byte(inventories), &sess.Inventories); err != nil {
		return nil, fmt.Errorf("inventories: %w", err)
	}
	if sess.TotalDiscrepancy, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("total_discrepancy: %w", err)
	}
	if invDate.Valid && invDate.String != "" {
		d, err := time.Parse(time.DateOnly, invDate.String)
		if err != nil {
			return nil, fmt.Errorf("inventory_date: %w", err)
		}
		sess.InventoryDate = &d
	}
	if sess.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if sess.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &sess, nil
}

func sessionArgs(s *entity.Session) ([]any, error) {
	headers, err := json.Marshal(nonNil(s.Headers))
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}
	inventories, err := json.Marshal(nonNil(s.Inventories))
	if err != nil {
		return nil, fmt.Errorf("inventories: %w", err)
	}
	var invDate sql.NullString
	if s.InventoryDate != nil {
		invDate = sql.NullString{String: s.InventoryDate.Format(time.DateOnly), Valid: true}
	}
	return []any{
		s.ID, s.OriginalFilename, string(headers), s.Status, s.Strategy, invDate, s.Site, s.SessionNumber,
		string(inventories), s.RecordCount, s.GroupCount, s.CoercedCount, s.TotalDiscrepancy.String(), s.AdjustedItems,
		s.FinalFilename, formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, err)
	}
	return t, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
