package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
	"github.com/jhoicas/biashara-api/internal/infrastructure/postgres"
	"github.com/jhoicas/biashara-api/pkg/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere una base desechable: TEST_DATABASE_URL=postgres://.../biashara_test
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool, nil)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE users, buyer_profiles, seller_profiles, listings, listing_images, saved_listings CASCADE`)
	require.NoError(t, err)
	return pool
}

func newUser(email string, role entity.Role) *entity.User {
	return &entity.User{
		ID: uuid.NewString(), Email: email, PasswordHash: "x", FirstName: "F", LastName: "L",
		Role: role, IsActive: true, DateJoined: time.Now().UTC(),
	}
}

func TestMigrate_Idempotente(t *testing.T) {
	pool := testPool(t)
	applied, err := postgres.Migrate(context.Background(), pool, nil)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestTxRunner_RollbackDeCuenta(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	runner := postgres.NewTxRunner(pool)
	users := postgres.NewUserRepository(pool)

	u := newUser("a@x.com", entity.RoleBuyer)
	err := runner.RunAccounts(ctx, func(ur repository.UserRepository, br repository.BuyerProfileRepository, _ repository.SellerProfileRepository) error {
		require.NoError(t, ur.Create(ctx, u))
		return br.Create(ctx, &entity.BuyerProfile{ID: uuid.NewString(), UserID: uuid.NewString(), Location: "X"})
	})
	require.Error(t, err, "FK inválida")

	got, err := users.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, got, "el usuario no debe quedar sin perfil")
}

func TestUserRepo_EmailUnico(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(pool)

	require.NoError(t, users.Create(ctx, newUser("dup@x.com", entity.RoleBuyer)))
	err := users.Create(ctx, newUser("dup@x.com", entity.RoleSeller))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	ok, err := users.ExistsByEmail(ctx, "dup@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListingRepo_FlujoCompleto(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	su := newUser("s@x.com", entity.RoleSeller)
	bu := newUser("b@x.com", entity.RoleBuyer)
	seller := &entity.SellerProfile{ID: uuid.NewString(), UserID: su.ID, BusinessName: "Shop",
		BusinessType: entity.BusinessCompany, BusinessCategory: entity.BusinessHome, BusinessLocation: "Nairobi",
		CreatedAt: time.Now().UTC()}
	buyer := &entity.BuyerProfile{ID: uuid.NewString(), UserID: bu.ID, Location: "Kisumu"}
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, su))
	require.NoError(t, postgres.NewUserRepository(pool).Create(ctx, bu))
	require.NoError(t, postgres.NewSellerProfileRepository(pool).Create(ctx, seller))
	require.NoError(t, postgres.NewBuyerProfileRepository(pool).Create(ctx, buyer))

	now := time.Now().UTC()
	l := &entity.Listing{ID: uuid.NewString(), SellerID: seller.ID, Title: "Sofa", Description: "3 seats",
		Price: decimal.NewNullDecimal(decimal.RequireFromString("250.75")), Category: entity.CategoryHome,
		Condition: entity.ConditionUsed, Location: "Nairobi", Area: "Kilimani", Status: entity.ListingActive,
		CreatedAt: now, UpdatedAt: now}
	listings := postgres.NewListingRepository(pool)
	images := postgres.NewListingImageRepository(pool)
	require.NoError(t, listings.Create(ctx, l))
	require.NoError(t, images.Create(ctx, &entity.ListingImage{ID: uuid.NewString(), ListingID: l.ID, ImageURL: "https://x/1.jpg", IsPrimary: true}))
	err := images.Create(ctx, &entity.ListingImage{ID: uuid.NewString(), ListingID: l.ID, ImageURL: "https://x/2.jpg", IsPrimary: true, Position: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "una sola primaria")

	d, err := listings.GetActiveDetail(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, d.Price.Decimal.Equal(decimal.RequireFromString("250.75")))
	require.Len(t, d.Images, 1)
	assert.Equal(t, "Shop", d.Seller.BusinessName)

	saved := postgres.NewSavedListingRepository(pool)
	require.NoError(t, saved.Create(ctx, &entity.SavedListing{ID: uuid.NewString(), BuyerID: buyer.ID, ListingID: l.ID, SavedAt: now}))
	err = saved.Create(ctx, &entity.SavedListing{ID: uuid.NewString(), BuyerID: buyer.ID, ListingID: l.ID, SavedAt: now})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := listings.ListSavedByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, listings.UpdateStatus(ctx, l.ID, entity.ListingDeleted, time.Now().UTC()))
	active, err := listings.ListActive(ctx, repository.ListingFilter{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, active)
	mine, err := listings.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	removed, err := saved.Delete(ctx, buyer.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, removed)
}
