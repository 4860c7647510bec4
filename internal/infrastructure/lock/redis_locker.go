package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-x3/internal/domain"
	"github.com/jhoicas/Inventario-x3/internal/domain/repository"
	"github.com/jhoicas/Inventario-x3/pkg/config"
)

var _ repository.SessionLocker = (*RedisLocker)(nil)

const keyPrefix = "x3recon:lock:"

// RedisLocker bloqueo por sesión compartido entre réplicas del API.
type RedisLocker struct {
	client *redis.Client
	locker *redislock.Client
	ttl    time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Address,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el bloqueador sobre un cliente ya conectado.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisLocker{client: client, locker: redislock.New(client), ttl: ttl}
}

// Lock toma la sesión sin reintentos. Si otra réplica la tiene devuelve domain.ErrSessionBusy.
func (l *RedisLocker) Lock(ctx context.Context, sessionID string) (func(context.Context) error, error) {
	lk, err := l.locker.Obtain(ctx, Key(sessionID), l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionBusy, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock de sesión %s: %w", sessionID, err)
	}
	return func(ctx context.Context) error {
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			return fmt.Errorf("liberar lock de sesión %s: %w", sessionID, err)
		}
		return nil
	}, nil
}

// Close cierra el cliente Redis.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}

// Key clave Redis del bloqueo de una sesión.
func Key(sessionID string) string {
	return keyPrefix + sessionID
}
