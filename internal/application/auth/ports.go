package auth

import (
	"context"

	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios de cuentas
// atados a esa tx. Garantiza que User y su perfil se crean juntos o no se crean.
type TxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		buyerRepo repository.BuyerProfileRepository,
		sellerRepo repository.SellerProfileRepository,
	) error) error
}
