// Package cache contiene el control de intentos de login fallidos (redis o memoria).
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

var (
	_ ports.LoginGuard = (*RedisLoginGuard)(nil)
	_ ports.LoginGuard = (*MemoryLoginGuard)(nil)
)

// GuardConfig límites del bloqueo por intentos.
type GuardConfig struct {
	MaxAttempts int
	Lockout     time.Duration
}

func (c GuardConfig) normalized() GuardConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Lockout <= 0 {
		c.Lockout = 15 * time.Minute
	}
	return c
}

// RedisLoginGuard cuenta fallos con INCR y bloquea con una clave con TTL.
// Compartido entre réplicas de la API.
type RedisLoginGuard struct {
	client *redis.Client
	cfg    GuardConfig
}

// NewRedisLoginGuard construye el guard sobre un cliente ya conectado.
func NewRedisLoginGuard(client *redis.Client, cfg GuardConfig) *RedisLoginGuard {
	return &RedisLoginGuard{client: client, cfg: cfg.normalized()}
}

func attemptsKey(key string) string { return "login_attempts:" + key }
func lockoutKey(key string) string  { return "login_lockout:" + key }

func (g *RedisLoginGuard) Locked(ctx context.Context, key string) (bool, error) {
	n, err := g.client.Exists(ctx, lockoutKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// RegisterFailure el contador vive lo mismo que el bloqueo: fallos espaciados no se acumulan.
func (g *RedisLoginGuard) RegisterFailure(ctx context.Context, key string) (bool, error) {
	attempts, err := g.client.Incr(ctx, attemptsKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("redis incr: %w", err)
	}
	if attempts == 1 {
		if err := g.client.Expire(ctx, attemptsKey(key), g.cfg.Lockout).Err(); err != nil {
			return false, fmt.Errorf("redis expire: %w", err)
		}
	}
	if attempts < int64(g.cfg.MaxAttempts) {
		return false, nil
	}
	if err := g.client.Set(ctx, lockoutKey(key), "locked", g.cfg.Lockout).Err(); err != nil {
		return false, fmt.Errorf("redis set: %w", err)
	}
	if err := g.client.Del(ctx, attemptsKey(key)).Err(); err != nil {
		return true, fmt.Errorf("redis del: %w", err)
	}
	return true, nil
}

func (g *RedisLoginGuard) Reset(ctx context.Context, key string) error {
	if err := g.client.Del(ctx, attemptsKey(key), lockoutKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// MemoryLoginGuard alternativa sin redis. Solo vale para una instancia.
type MemoryLoginGuard struct {
	cfg GuardConfig
	now func() time.Time

	mu      sync.Mutex
	entries map[string]*guardEntry
}

type guardEntry struct {
	attempts    int
	firstFail   time.Time
	lockedUntil time.Time
}

func NewMemoryLoginGuard(cfg GuardConfig) *MemoryLoginGuard {
	return &MemoryLoginGuard{cfg: cfg.normalized(), now: time.Now, entries: map[string]*guardEntry{}}
}

func (g *MemoryLoginGuard) Locked(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[key]
	return ok && g.now().Before(e.lockedUntil), nil
}

func (g *MemoryLoginGuard) RegisterFailure(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	e, ok := g.entries[key]
	if !ok || now.Sub(e.firstFail) >= g.cfg.Lockout {
		e = &guardEntry{firstFail: now, lockedUntil: e.lockedUntilOrZero()}
		g.entries[key] = e
	}
	e.attempts++
	if e.attempts < g.cfg.MaxAttempts {
		return false, nil
	}
	e.attempts = 0
	e.firstFail = now
	e.lockedUntil = now.Add(g.cfg.Lockout)
	return true, nil
}

func (g *MemoryLoginGuard) Reset(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.entries, key)
	return nil
}

func (e *guardEntry) lockedUntilOrZero() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.lockedUntil
}
