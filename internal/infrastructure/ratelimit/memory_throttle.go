package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"golang.org/x/time/rate"
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryThrottle token bucket por clave (x/time/rate). Se usa cuando no hay Redis;
// los contadores son por proceso.
type MemoryThrottle struct {
	mu      sync.Mutex
	entries map[string]*entry
	limit   rate.Limit
	burst   int
	window  time.Duration
	now     func() time.Time
}

// NewMemoryThrottle permite attempts intentos en ráfaga y recarga uno cada window/attempts.
func NewMemoryThrottle(attempts int, window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		entries: make(map[string]*entry),
		limit:   rate.Every(window / time.Duration(attempts)),
		burst:   attempts,
		window:  window,
		now:     time.Now,
	}
}

// Allow consume un token de la clave.
func (t *MemoryThrottle) Allow(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.prune(now)
	e, ok := t.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1), nil
}

// Reset descarta el bucket de la clave.
func (t *MemoryThrottle) Reset(ctx context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
	return nil
}

// prune elimina claves sin actividad durante una ventana completa (su bucket ya está lleno).
func (t *MemoryThrottle) prune(now time.Time) {
	for k, e := range t.entries {
		if now.Sub(e.lastSeen) > t.window {
			delete(t.entries, k)
		}
	}
}

var _ ports.LoginThrottle = (*MemoryThrottle)(nil)
