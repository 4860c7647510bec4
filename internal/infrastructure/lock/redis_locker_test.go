package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-x3/internal/infrastructure/lock"
	"github.com/jhoicas/Inventario-x3/pkg/config"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "x3recon:lock:abc", lock.Key("abc"))
}

func TestNewRedisClient_FallaSinServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := lock.NewRedisClient(ctx, config.RedisConfig{Address: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "ping redis")
}
