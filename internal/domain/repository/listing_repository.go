package repository

import (
	"context"
	"time"

	"github.com/jhoicas/biashara-api/internal/domain/entity"
)

// SellerSummary campos de presentación del vendedor embebidos en cada publicación.
type SellerSummary struct {
	UserID          string
	BusinessName    string
	IsVerified      bool
	ProfileImageURL *string
}

// ListingDetail publicación con sus imágenes (primaria primero) y datos del vendedor.
type ListingDetail struct {
	entity.Listing
	Images []entity.ListingImage
	Seller SellerSummary
}

// ListingFilter filtros del listado público. Category vacío = todas.
type ListingFilter struct {
	Category entity.ListingCategory
	Limit    int
	Offset   int
}

// ListingRepository define el puerto de persistencia para Listing.
type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// GetForUpdate obtiene la publicación bloqueando la fila (solo dentro de una tx).
	GetForUpdate(ctx context.Context, id string) (*entity.Listing, error)
	UpdateStatus(ctx context.Context, id string, status entity.ListingStatus, updatedAt time.Time) error

	// ListActive publicaciones con status active, más recientes primero.
	ListActive(ctx context.Context, filter ListingFilter) ([]*ListingDetail, error)
	GetActiveDetail(ctx context.Context, id string) (*ListingDetail, error)
	// ListBySeller publicaciones no eliminadas del vendedor.
	ListBySeller(ctx context.Context, sellerID string) ([]*ListingDetail, error)
	// ListSavedByBuyer publicaciones activas guardadas por el comprador, último guardado primero.
	ListSavedByBuyer(ctx context.Context, buyerID string) ([]*ListingDetail, error)
}

// ListingImageRepository define el puerto de persistencia para ListingImage.
type ListingImageRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe una imagen primaria para la publicación.
	Create(ctx context.Context, image *entity.ListingImage) error
}

// SavedListingRepository define el puerto de persistencia para SavedListing.
type SavedListingRepository interface {
	// Create devuelve domain.ErrDuplicate si el par (buyer, listing) ya existe.
	Create(ctx context.Context, saved *entity.SavedListing) error
	// Delete devuelve true si existía y fue eliminado.
	Delete(ctx context.Context, buyerID, listingID string) (bool, error)
}
