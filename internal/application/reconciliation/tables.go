package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
)

// Las tablas intermedias se guardan como JSON: los decimales viajan como texto y no pierden precisión.

func saveJSON(ctx context.Context, tables repository.TableStore, sessionID, table string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializar tabla %s: %w", table, err)
	}
	return tables.Save(ctx, sessionID, table, payload)
}

// load devuelve false si la tabla no existe todavía.
func (s *Service) load(ctx context.Context, sessionID, table string, v any) (bool, error) {
	payload, err := s.tables.Load(ctx, sessionID, table)
	if err != nil {
		return false, err
	}
	if payload == nil {
		return false, nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return false, fmt.Errorf("%w: tabla %s ilegible: %v", domain.ErrDataConsistency, table, err)
	}
	return true, nil
}

// mustLoad como load pero una tabla ausente es un error de consistencia.
func (s *Service) mustLoad(ctx context.Context, sessionID, table string, v any) error {
	ok, err := s.load(ctx, sessionID, table, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: tabla %s ausente para la sesión %s", domain.ErrDataConsistency, table, sessionID)
	}
	return nil
}
