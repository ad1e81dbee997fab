package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateListingRequest entrada para crear una publicación.
// ImageURLs referencia imágenes ya subidas; los archivos multipart se agregan después de ellas.
type CreateListingRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
	Condition   string           `json:"condition"`
	Location    string           `json:"location"`
	Area        string           `json:"area"`
	ImageURLs   []string         `json:"image_urls"`
}

// ListingImageResponse imagen de una publicación.
type ListingImageResponse struct {
	ID        string `json:"id"`
	ImageURL  string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// SellerDisplayResponse datos del vendedor mostrados junto a la publicación.
type SellerDisplayResponse struct {
	ID              string  `json:"id"`
	BusinessName    string  `json:"business_name"`
	IsVerified      bool    `json:"is_verified"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// ListingResponse salida de una publicación.
type ListingResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Price       decimal.NullDecimal    `json:"price"`
	Category    string                 `json:"category"`
	Condition   string                 `json:"condition"`
	Location    string                 `json:"location"`
	Area        string                 `json:"area"`
	Status      string                 `json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Images      []ListingImageResponse `json:"images"`
	Seller      SellerDisplayResponse  `json:"seller"`
}

// ListingStatusResponse salida de activate/deactivate/delete.
type ListingStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ToggleSaveResponse salida del toggle de guardado.
type ToggleSaveResponse struct {
	Message string `json:"message"`
	Saved   bool   `json:"saved"`
}
