package repository

import (
	"context"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
)

// SessionRepository define el puerto de persistencia para las sesiones de reconciliación (DIP).
// GetByID devuelve (nil, nil) si la sesión no existe.
type SessionRepository interface {
	Create(ctx context.Context, s *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, s *entity.Session) error
	List(ctx context.Context, limit, offset int) ([]*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
