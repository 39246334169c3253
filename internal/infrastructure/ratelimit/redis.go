// Package ratelimit limita intentos por clave con una ventana fija en Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis crea y valida una conexión de go-redis.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// Limiter cuenta intentos por clave; la ventana arranca con el primer intento.
type Limiter struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
}

// NewLimiter construye el limitador. prefix separa los contadores de distintos usos (ej. "signin").
func NewLimiter(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, prefix: prefix, limit: limit, window: window}
}

// Allow registra un intento. Devuelve false y el tiempo restante de la ventana si se superó el límite.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		ttl = pipe.TTL(ctx, k)
		return nil
	})
	if err != nil {
		return true, 0, fmt.Errorf("redis: contar intento: %w", err)
	}
	if incr.Val() > int64(l.limit) {
		return false, ttl.Val(), nil
	}
	return true, 0, nil
}
