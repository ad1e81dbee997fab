package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "biashara:login:"

// RedisThrottle ventana fija compartida entre instancias.
type RedisThrottle struct {
	client   *redis.Client
	attempts int64
	window   time.Duration
}

// NewRedisThrottle crea el throttle sobre un cliente ya conectado.
func NewRedisThrottle(client *redis.Client, attempts int, window time.Duration) *RedisThrottle {
	return &RedisThrottle{client: client, attempts: int64(attempts), window: window}
}

// Connect abre el cliente y verifica la conexión con PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Allow incrementa el contador de la ventana. SET NX EX e INCR viajan en un
// mismo MULTI/EXEC: la clave nunca queda sin expiración.
func (t *RedisThrottle) Allow(ctx context.Context, key string) (bool, error) {
	k := keyPrefix + key
	var incr *redis.IntCmd
	_, err := t.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SetNX(ctx, k, 0, t.window)
		incr = p.Incr(ctx, k)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis throttle: %w", err)
	}
	return incr.Val() <= t.attempts, nil
}

// Reset borra el contador de la clave.
func (t *RedisThrottle) Reset(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis throttle reset: %w", err)
	}
	return nil
}

var _ ports.LoginThrottle = (*RedisThrottle)(nil)
