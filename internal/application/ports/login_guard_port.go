package ports

import "context"

// LoginGuard cuenta intentos de login fallidos y bloquea temporalmente la cuenta.
type LoginGuard interface {
	// Locked indica si la cuenta identificada por key está bloqueada.
	Locked(ctx context.Context, key string) (bool, error)
	// RegisterFailure suma un intento fallido; devuelve true si con él la cuenta queda bloqueada.
	RegisterFailure(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
