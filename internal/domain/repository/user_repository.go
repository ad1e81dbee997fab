package repository

import (
	"context"

	"github.com/jhoicas/biashara-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) cuando no existe el registro.
type UserRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya está tomado.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// SetVerified devuelve domain.ErrNotFound si el usuario no existe.
	SetVerified(ctx context.Context, id string, verified bool) error
}
