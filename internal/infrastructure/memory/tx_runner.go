package memory

import (
	"context"

	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta fn directamente sobre el Store; sin rollback.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run llama fn con el mismo Store como repositorio de sesiones y de tablas.
func (r *TxRunner) Run(_ context.Context, fn func(repository.SessionRepository, repository.TableStore) error) error {
	return fn(r.store, r.store)
}
