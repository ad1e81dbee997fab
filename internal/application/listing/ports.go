package listing

import (
	"context"

	"github.com/jhoicas/biashara-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con los repos de publicaciones.
// Listing + imágenes se confirman juntos o se revierten juntos.
type TxRunner interface {
	RunListing(ctx context.Context, fn func(
		listingRepo repository.ListingRepository,
		imageRepo repository.ListingImageRepository,
	) error) error
}
