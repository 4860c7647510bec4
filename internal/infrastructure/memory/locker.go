package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var _ repository.SessionLocker = (*Locker)(nil)

// Locker bloqueo por sesión dentro del proceso. No espera: si la sesión está tomada falla de inmediato.
type Locker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocker construye el bloqueador.
func NewLocker() *Locker {
	return &Locker{held: make(map[string]struct{})}
}

// Lock toma la sesión o devuelve domain.ErrSessionBusy.
func (l *Locker) Lock(_ context.Context, sessionID string) (func(context.Context) error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[sessionID]; busy {
		return nil, domain.ErrSessionBusy
	}
	l.held[sessionID] = struct{}{}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, sessionID)
			l.mu.Unlock()
		})
		return nil
	}, nil
}
