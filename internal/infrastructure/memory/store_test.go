package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/entity"
	"github.com/jhoicas/Inventario-x3/internal/infrastructure/memory"
)

func TestStore_SesionesCRUD(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Create(ctx, &entity.Session{ID: id, Status: entity.SessionStatusUploaded, CreatedAt: base.Add(time.Duration(i) * time.Hour)}))
	}

	got, err := s.GetByID(ctx, "b")
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Status = entity.SessionStatusCompleted
	again, _ := s.GetByID(ctx, "b")
	assert.Equal(t, entity.SessionStatusUploaded, again.Status, "GetByID devuelve copias")

	require.NoError(t, s.Update(ctx, got))
	again, _ = s.GetByID(ctx, "b")
	assert.Equal(t, entity.SessionStatusCompleted, again.Status)

	list, err := s.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)

	list, err = s.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, list)

	missing, err := s.GetByID(ctx, "zz")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_TablasSeBorranConLaSesion(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Create(ctx, &entity.Session{ID: "a"}))

	payload := []byte(`[1,2]`)
	require.NoError(t, s.Save(ctx, "a", "original", payload))
	payload[0] = 'X'

	got, err := s.Load(ctx, "a", "original")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	absent, err := s.Load(ctx, "a", "distributed")
	require.NoError(t, err)
	assert.Nil(t, absent)

	require.NoError(t, s.Save(ctx, "a", "distributed", []byte(`[]`)))
	require.NoError(t, s.DeleteTable(ctx, "a", "distributed"))
	require.NoError(t, s.DeleteTable(ctx, "a", "distributed"), "borrar una tabla ausente no es error")
	absent, err = s.Load(ctx, "a", "distributed")
	require.NoError(t, err)
	assert.Nil(t, absent)
	got, err = s.Load(ctx, "a", "original")
	require.NoError(t, err)
	assert.NotNil(t, got)

	require.NoError(t, s.Delete(ctx, "a"))
	got, err = s.Load(ctx, "a", "original")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLocker_UnaSolaPasadaPorSesion(t *testing.T) {
	ctx := context.Background()
	l := memory.NewLocker()

	unlock, err := l.Lock(ctx, "s1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionBusy)

	other, err := l.Lock(ctx, "s2")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, unlock(ctx))
	require.NoError(t, unlock(ctx), "liberar dos veces no falla")

	again, err := l.Lock(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}
