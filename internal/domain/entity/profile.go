package entity

import "time"

// BuyerProfile extensión 1:1 de un User con rol buyer.
type BuyerProfile struct {
	ID       string
	UserID   string
	Location string
}

// BusinessType tipo de negocio del vendedor.
type BusinessType string

const (
	BusinessIndividual  BusinessType = "individual"
	BusinessCompany     BusinessType = "company"
	BusinessCooperative BusinessType = "cooperative"
	BusinessPartnership BusinessType = "partnership"
)

// Valid indica si el tipo pertenece al catálogo.
func (t BusinessType) Valid() bool {
	switch t {
	case BusinessIndividual, BusinessCompany, BusinessCooperative, BusinessPartnership:
		return true
	}
	return false
}

// BusinessCategory rubro del vendedor (catálogo distinto al de Listing).
type BusinessCategory string

const (
	BusinessElectronics BusinessCategory = "electronics"
	BusinessFashion     BusinessCategory = "fashion"
	BusinessHome        BusinessCategory = "home"
	BusinessFood        BusinessCategory = "food"
	BusinessAutomotive  BusinessCategory = "automotive"
	BusinessOther       BusinessCategory = "other"
)

func (c BusinessCategory) Valid() bool {
	switch c {
	case BusinessElectronics, BusinessFashion, BusinessHome, BusinessFood, BusinessAutomotive, BusinessOther:
		return true
	}
	return false
}

// SellerProfile extensión 1:1 de un User con rol seller.
// IsVerified solo lo cambia un admin; nace en false.
type SellerProfile struct {
	ID               string
	UserID           string
	BusinessName     string
	BusinessType     BusinessType
	BusinessCategory BusinessCategory
	BusinessLocation string
	Bio              *string
	ProfileImageURL  *string // referencia al object storage, nunca bytes
	IsVerified       bool
	CreatedAt        time.Time
}
