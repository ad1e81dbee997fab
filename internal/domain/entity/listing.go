package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus estado de publicación. Nunca se borra físicamente.
type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
	ListingDeleted  ListingStatus = "deleted"
)

// ListingCategory categoría de la publicación.
type ListingCategory string

const (
	CategoryElectronics ListingCategory = "electronics"
	CategoryFashion     ListingCategory = "fashion"
	CategoryHome        ListingCategory = "home"
	CategoryVehicles    ListingCategory = "vehicles"
	CategoryServices    ListingCategory = "services"
	CategoryAgriculture ListingCategory = "agriculture"
)

func (c ListingCategory) Valid() bool {
	switch c {
	case CategoryElectronics, CategoryFashion, CategoryHome, CategoryVehicles, CategoryServices, CategoryAgriculture:
		return true
	}
	return false
}

// Condition estado del artículo ofrecido.
type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionUsed    Condition = "used"
	ConditionService Condition = "service"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionService:
		return true
	}
	return false
}

// Listing publicación de un vendedor. Orden por defecto: más reciente primero.
type Listing struct {
	ID          string
	SellerID    string // SellerProfile.ID
	Title       string
	Description string
	Price       decimal.NullDecimal
	Category    ListingCategory
	Condition   Condition
	Location    string
	Area        string
	Status      ListingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activate pasa a active. Idempotente sobre active; una publicación eliminada no se reactiva.
func (l *Listing) Activate(now time.Time) error {
	switch l.Status {
	case ListingActive:
		return nil
	case ListingInactive:
		l.Status = ListingActive
		l.UpdatedAt = now
		return nil
	}
	return ErrListingDeleted
}

// Deactivate pasa a inactive. Idempotente sobre inactive.
func (l *Listing) Deactivate(now time.Time) error {
	switch l.Status {
	case ListingInactive:
		return nil
	case ListingActive:
		l.Status = ListingInactive
		l.UpdatedAt = now
		return nil
	}
	return ErrListingDeleted
}

// SoftDelete oculta la publicación desde cualquier estado.
func (l *Listing) SoftDelete(now time.Time) {
	if l.Status == ListingDeleted {
		return
	}
	l.Status = ListingDeleted
	l.UpdatedAt = now
}

// ListingImage imagen de una publicación. A lo sumo una con IsPrimary por Listing.
type ListingImage struct {
	ID        string
	ListingID string
	ImageURL  string
	IsPrimary bool
	Position  int
}

// SavedListing marcador de un comprador sobre una publicación; par (buyer, listing) único.
type SavedListing struct {
	ID        string
	BuyerID   string // BuyerProfile.ID
	ListingID string
	SavedAt   time.Time
}
