package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

var (
	_ repository.BuyerProfileRepository  = (*BuyerProfileRepo)(nil)
	_ repository.SellerProfileRepository = (*SellerProfileRepo)(nil)
)

// BuyerProfileRepo implementación de BuyerProfileRepository sobre PostgreSQL.
type BuyerProfileRepo struct {
	q Querier
}

// NewBuyerProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBuyerProfileRepository(q Querier) *BuyerProfileRepo {
	return &BuyerProfileRepo{q: q}
}

// Create persiste el perfil; un segundo perfil para el mismo usuario es ErrDuplicate.
func (r *BuyerProfileRepo) Create(ctx context.Context, p *entity.BuyerProfile) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO buyer_profiles (id, user_id, location) VALUES ($1, $2, $3)`,
		p.ID, p.UserID, p.Location,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert buyer profile: %w", err)
	}
	return nil
}

// GetByUserID obtiene el perfil del usuario.
func (r *BuyerProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.BuyerProfile, error) {
	var p entity.BuyerProfile
	err := r.q.QueryRow(ctx,
		`SELECT id, user_id, location FROM buyer_profiles WHERE user_id = $1`, userID,
	).Scan(&p.ID, &p.UserID, &p.Location)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get buyer profile: %w", err)
	}
	return &p, nil
}

// SellerProfileRepo implementación de SellerProfileRepository sobre PostgreSQL.
type SellerProfileRepo struct {
	q Querier
}

// NewSellerProfileRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSellerProfileRepository(q Querier) *SellerProfileRepo {
	return &SellerProfileRepo{q: q}
}

// Create persiste el perfil de vendedor.
func (r *SellerProfileRepo) Create(ctx context.Context, p *entity.SellerProfile) error {
	query := `
		INSERT INTO seller_profiles (id, user_id, business_name, business_type, business_category,
			business_location, bio, profile_image_url, is_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.UserID, p.BusinessName, string(p.BusinessType), string(p.BusinessCategory),
		p.BusinessLocation, p.Bio, p.ProfileImageURL, p.IsVerified, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert seller profile: %w", err)
	}
	return nil
}

// GetByUserID obtiene el perfil de vendedor del usuario.
func (r *SellerProfileRepo) GetByUserID(ctx context.Context, userID string) (*entity.SellerProfile, error) {
	query := `
		SELECT id, user_id, business_name, business_type, business_category, business_location,
			bio, profile_image_url, is_verified, created_at
		FROM seller_profiles WHERE user_id = $1`
	var p entity.SellerProfile
	var bt, bc string
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.BusinessName, &bt, &bc, &p.BusinessLocation,
		&p.Bio, &p.ProfileImageURL, &p.IsVerified, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller profile: %w", err)
	}
	p.BusinessType = entity.BusinessType(bt)
	p.BusinessCategory = entity.BusinessCategory(bc)
	return &p, nil
}

// SetVerified cambia is_verified del perfil del usuario indicado.
func (r *SellerProfileRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	cmd, err := r.q.Exec(ctx, `UPDATE seller_profiles SET is_verified = $2 WHERE user_id = $1`, userID, verified)
	if err != nil {
		return fmt.Errorf("update seller verified: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
