package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

var _ repository.SavedListingRepository = (*SavedListingRepo)(nil)

// SavedListingRepo pares (comprador, publicación) guardados; únicos por saved_listings_buyer_listing_key.
type SavedListingRepo struct {
	q Querier
}

// NewSavedListingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSavedListingRepository(q Querier) *SavedListingRepo {
	return &SavedListingRepo{q: q}
}

// Create guarda la publicación para el comprador.
func (r *SavedListingRepo) Create(ctx context.Context, s *entity.SavedListing) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO saved_listings (id, buyer_id, listing_id, saved_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.BuyerID, s.ListingID, s.SavedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert saved listing: %w", err)
	}
	return nil
}

// Delete elimina el par; devuelve true si existía.
func (r *SavedListingRepo) Delete(ctx context.Context, buyerID, listingID string) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`DELETE FROM saved_listings WHERE buyer_id = $1 AND listing_id = $2`, buyerID, listingID)
	if err != nil {
		return false, fmt.Errorf("delete saved listing: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
