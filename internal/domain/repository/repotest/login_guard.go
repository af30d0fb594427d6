package repotest

import (
	"context"
	"sync"

	"github.com/jhoicas/tesa-inventario/internal/application/ports"
)

var _ ports.LoginGuard = (*LoginGuard)(nil)

// LoginGuard bloquea tras Max fallos, sin expiración.
type LoginGuard struct {
	Max      int
	mu       sync.Mutex
	failures map[string]int
}

func NewLoginGuard(max int) *LoginGuard {
	return &LoginGuard{Max: max, failures: map[string]int{}}
}

func (g *LoginGuard) Locked(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures[key] >= g.Max, nil
}

func (g *LoginGuard) RegisterFailure(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[key]++
	return g.failures[key] >= g.Max, nil
}

func (g *LoginGuard) Reset(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.failures, key)
	return nil
}
