package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

var (
	_ repository.SessionRepository = (*Store)(nil)
	_ repository.TableStore        = (*Store)(nil)
)

// Store sesiones y tablas en memoria del proceso (CLI, tests, despliegues de una instancia).
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
	tables   map[string]map[string][]byte
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]entity.Session),
		tables:   make(map[string]map[string][]byte),
	}
}

// Create guarda una copia de la sesión.
func (s *Store) Create(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = cloneSession(*sess)
	return nil
}

// GetByID devuelve una copia; (nil, nil) si no existe.
func (s *Store) GetByID(_ context.Context, id string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	out := cloneSession(sess)
	return &out, nil
}

// Update reemplaza la sesión existente. Una sesión inexistente se ignora.
func (s *Store) Update(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return nil
	}
	s.sessions[sess.ID] = cloneSession(*sess)
	return nil
}

// List sesiones más recientes primero.
func (s *Store) List(_ context.Context, limit, offset int) ([]*entity.Session, error) {
	s.mu.RLock()
	all := make([]entity.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, cloneSession(sess))
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]*entity.Session, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

// Delete elimina la sesión y sus tablas.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.tables, id)
	return nil
}

// Save guarda una copia del contenido de la tabla.
func (s *Store) Save(_ context.Context, sessionID, table string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[sessionID] == nil {
		s.tables[sessionID] = make(map[string][]byte)
	}
	s.tables[sessionID][table] = append([]byte(nil), payload...)
	return nil
}

// Load devuelve (nil, nil) si la tabla no existe.
func (s *Store) Load(_ context.Context, sessionID, table string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.tables[sessionID][table]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

// DeleteTable elimina una tabla de la sesión.
func (s *Store) DeleteTable(_ context.Context, sessionID, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[sessionID], table)
	return nil
}

// DeleteAll elimina todas las tablas de la sesión.
func (s *Store) DeleteAll(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, sessionID)
	return nil
}

func cloneSession(s entity.Session) entity.Session {
	s.Headers = append([]string(nil), s.Headers...)
	s.Inventories = append([]string(nil), s.Inventories...)
	if s.InventoryDate != nil {
		d := *s.InventoryDate
		s.InventoryDate = &d
	}
	return s
}
