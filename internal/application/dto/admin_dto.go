package dto

// SellerVerificationResponse salida de la verificación de vendedor.
type SellerVerificationResponse struct {
	UserID     string `json:"user_id"`
	IsVerified bool   `json:"is_verified"`
}

// CreateAdminRequest entrada para crear un administrador (solo CLI).
type CreateAdminRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}
