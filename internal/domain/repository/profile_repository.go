package repository

import (
	"context"

	"github.com/jhoicas/biashara-api/internal/domain/entity"
)

// BuyerProfileRepository define el puerto de persistencia para BuyerProfile.
type BuyerProfileRepository interface {
	Create(ctx context.Context, profile *entity.BuyerProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.BuyerProfile, error)
}

// SellerProfileRepository define el puerto de persistencia para SellerProfile.
type SellerProfileRepository interface {
	Create(ctx context.Context, profile *entity.SellerProfile) error
	GetByUserID(ctx context.Context, userID string) (*entity.SellerProfile, error)
	// SetVerified devuelve domain.ErrNotFound si el usuario no tiene perfil de vendedor.
	SetVerified(ctx context.Context, userID string, verified bool) error
}
