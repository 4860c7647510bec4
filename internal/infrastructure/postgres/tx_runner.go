package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner guarda la sesión y sus tablas en una sola transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
}

// NewTxRunner construye el runner con el pool. READ COMMITTED alcanza: la exclusión
// entre pasadas de una misma sesión la da el SessionLocker.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool, opts: pgx.TxOptions{IsoLevel: pgx.ReadCommitted}}
}

// Run ejecuta fn con repositorios atados a la tx; Commit si fn no falla, Rollback si no.
func (r *TxRunner) Run(ctx context.Context, fn func(repository.SessionRepository, repository.TableStore) error) error {
	err := pgx.BeginTxFunc(ctx, r.pool, r.opts, func(tx pgx.Tx) error {
		return fn(NewSessionRepository(tx), NewTableStore(tx))
	})
	if err != nil {
		return fmt.Errorf("transacción de sesión: %w", err)
	}
	return nil
}
