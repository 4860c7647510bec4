package postgres

import (
	"context"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS recon_sessions (
	id                TEXT PRIMARY KEY,
	original_filename TEXT NOT NULL,
	headers           TEXT[] NOT NULL DEFAULT '{}',
	status            TEXT NOT NULL,
	strategy          TEXT NOT NULL DEFAULT '',
	inventory_date    DATE,
	site              TEXT NOT NULL DEFAULT '',
	session_number    TEXT NOT NULL DEFAULT '',
	inventories       TEXT[] NOT NULL DEFAULT '{}',
	record_count      INTEGER NOT NULL DEFAULT 0,
	group_count       INTEGER NOT NULL DEFAULT 0,
	coerced_count     INTEGER NOT NULL DEFAULT 0,
	total_discrepancy NUMERIC(20,6) NOT NULL DEFAULT 0,
	adjusted_items    INTEGER NOT NULL DEFAULT 0,
	final_filename    TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recon_sessions_created ON recon_sessions (created_at DESC);

CREATE TABLE IF NOT EXISTS recon_tables (
	session_id TEXT NOT NULL REFERENCES recon_sessions(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	payload    BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (session_id, name)
);`

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("crear esquema: %w", err)
	}
	return nil
}
