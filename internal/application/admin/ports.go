package admin

import (
	"context"

	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de cuentas.
type TxRunner interface {
	RunAccounts(ctx context.Context, fn func(
		userRepo repository.UserRepository,
		buyerRepo repository.BuyerProfileRepository,
		sellerRepo repository.SellerProfileRepository,
	) error) error
}
