package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/biashara-api/internal/domain"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

var _ repository.ListingImageRepository = (*ListingImageRepo)(nil)

// ListingImageRepo imágenes de publicaciones. El índice parcial listing_images_one_primary
// garantiza a lo sumo una primaria por publicación.
type ListingImageRepo struct {
	q Querier
}

// NewListingImageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewListingImageRepository(q Querier) *ListingImageRepo {
	return &ListingImageRepo{q: q}
}

// Create persiste la referencia a la imagen.
func (r *ListingImageRepo) Create(ctx context.Context, img *entity.ListingImage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO listing_images (id, listing_id, image_url, is_primary, position)
		VALUES ($1, $2, $3, $4, $5)`,
		img.ID, img.ListingID, img.ImageURL, img.IsPrimary, img.Position,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert listing image: %w", err)
	}
	return nil
}
