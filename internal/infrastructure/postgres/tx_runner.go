package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/biashara-api/internal/application/admin"
	"github.com/jhoicas/biashara-api/internal/application/auth"
	"github.com/jhoicas/biashara-api/internal/application/listing"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

// Ensure TxRunner implements auth.TxRunner, admin.TxRunner and listing.TxRunner.
var (
	_ auth.TxRunner    = (*TxRunner)(nil)
	_ admin.TxRunner   = (*TxRunner)(nil)
	_ listing.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunAccounts transacción con repos de usuarios y perfiles (registro, verificación de vendedores).
func (r *TxRunner) RunAccounts(ctx context.Context, fn func(
	userRepo repository.UserRepository,
	buyerRepo repository.BuyerProfileRepository,
	sellerRepo repository.SellerProfileRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewUserRepository(tx), NewBuyerProfileRepository(tx), NewSellerProfileRepository(tx))
	})
}

// RunListing transacción con repos de publicaciones e imágenes (alta, cambios de estado).
func (r *TxRunner) RunListing(ctx context.Context, fn func(
	listingRepo repository.ListingRepository,
	imageRepo repository.ListingImageRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewListingRepository(tx), NewListingImageRepository(tx))
	})
}

// run inicia la transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
