package ports

import "context"

// LoginThrottle limita los intentos de login por clave (email normalizado).
type LoginThrottle interface {
	// Allow registra un intento y devuelve false si la clave superó el límite de la ventana.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset limpia el contador tras un login exitoso.
	Reset(ctx context.Context, key string) error
}
