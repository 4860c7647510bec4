package repository

import "context"

// TxRunner ejecuta fn con repositorios atados a una misma transacción: la sesión y sus tablas
// se confirman juntas o no se confirman.
type TxRunner interface {
	Run(ctx context.Context, fn func(sessions SessionRepository, tables TableStore) error) error
}
