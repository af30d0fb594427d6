package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Redis
// ─────────────────────────────────────────────────────────────────────────────

func newRedisGuard(t *testing.T, max int) (*RedisLoginGuard, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisLoginGuard(client, GuardConfig{MaxAttempts: max, Lockout: 10 * time.Minute}), mr
}

func TestRedisGuard_BloqueaTrasMaxIntentos(t *testing.T) {
	g, mr := newRedisGuard(t, 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		locked, err := g.RegisterFailure(ctx, "ana@tesa.edu")
		require.NoError(t, err)
		assert.False(t, locked)
	}
	locked, err := g.RegisterFailure(ctx, "ana@tesa.edu")
	require.NoError(t, err)
	assert.True(t, locked)

	locked, err = g.Locked(ctx, "ana@tesa.edu")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.False(t, mr.Exists(attemptsKey("ana@tesa.edu")))

	mr.FastForward(11 * time.Minute)
	locked, err = g.Locked(ctx, "ana@tesa.edu")
	require.NoError(t, err)
	assert.False(t, locked, "el bloqueo expira")
}

func TestRedisGuard_ContadorExpira(t *testing.T) {
	g, mr := newRedisGuard(t, 2)
	ctx := context.Background()

	_, err := g.RegisterFailure(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL(attemptsKey("k")))

	mr.FastForward(11 * time.Minute)
	locked, err := g.RegisterFailure(ctx, "k")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisGuard_Reset(t *testing.T) {
	g, _ := newRedisGuard(t, 1)
	ctx := context.Background()

	locked, err := g.RegisterFailure(ctx, "k")
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, g.Reset(ctx, "k"))
	locked, err = g.Locked(ctx, "k")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestRedisGuard_ServidorCaido(t *testing.T) {
	g, mr := newRedisGuard(t, 3)
	mr.Close()
	_, err := g.Locked(context.Background(), "k")
	assert.Error(t, err)
}

// ─────────────────────────────────────────────────────────────────────────────
// Memoria
// ─────────────────────────────────────────────────────────────────────────────

func TestMemoryGuard_BloqueoYExpiracion(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewMemoryLoginGuard(GuardConfig{MaxAttempts: 2, Lockout: 5 * time.Minute})
	g.now = func() time.Time { return now }
	ctx := context.Background()

	locked, _ := g.RegisterFailure(ctx, "k")
	assert.False(t, locked)
	locked, _ = g.RegisterFailure(ctx, "k")
	assert.True(t, locked)

	locked, _ = g.Locked(ctx, "k")
	assert.True(t, locked)

	now = now.Add(6 * time.Minute)
	locked, _ = g.Locked(ctx, "k")
	assert.False(t, locked)
}

func TestMemoryGuard_FallosEspaciadosNoAcumulan(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	g := NewMemoryLoginGuard(GuardConfig{MaxAttempts: 2, Lockout: 5 * time.Minute})
	g.now = func() time.Time { return now }
	ctx := context.Background()

	g.RegisterFailure(ctx, "k")
	now = now.Add(6 * time.Minute)
	locked, _ := g.RegisterFailure(ctx, "k")
	assert.False(t, locked)
}

func TestMemoryGuard_Reset(t *testing.T) {
	g := NewMemoryLoginGuard(GuardConfig{MaxAttempts: 1})
	ctx := context.Background()
	g.RegisterFailure(ctx, "k")
	require.NoError(t, g.Reset(ctx, "k"))
	locked, _ := g.Locked(ctx, "k")
	assert.False(t, locked)
}

func TestGuardConfig_Defaults(t *testing.T) {
	c := GuardConfig{}.normalized()
	assert.Equal(t, 5, c.MaxAttempts)
	assert.Equal(t, 15*time.Minute, c.Lockout)
}
