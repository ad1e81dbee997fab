package dto

// RegisterBuyerRequest entrada para registro de comprador. Todos los campos son obligatorios.
type RegisterBuyerRequest struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone" form:"phone"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	Location        string `json:"location" form:"location"`
}

// RegisterSellerRequest entrada para registro de vendedor.
// ProfileImageURL permite referenciar una imagen ya subida; el archivo multipart tiene prioridad.
type RegisterSellerRequest struct {
	FirstName        string `json:"first_name" form:"first_name"`
	LastName         string `json:"last_name" form:"last_name"`
	Email            string `json:"email" form:"email"`
	Phone            string `json:"phone" form:"phone"`
	Password         string `json:"password" form:"password"`
	ConfirmPassword  string `json:"confirm_password" form:"confirm_password"`
	BusinessName     string `json:"business_name" form:"business_name"`
	BusinessType     string `json:"business_type" form:"business_type"`
	BusinessCategory string `json:"business_category" form:"business_category"`
	BusinessLocation string `json:"business_location" form:"business_location"`
	Bio              string `json:"bio" form:"bio"`
	ProfileImageURL  string `json:"profile_image_url" form:"profile_image_url"`
}

// UserSummary salida del registro.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// RegisterResponse salida del registro (201).
type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// PublicUser resumen público del usuario autenticado.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginResponse salida con tokens JWT.
type LoginResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
	User    PublicUser `json:"user"`
}

// RefreshRequest entrada para renovar el access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" form:"refresh"`
}

// RefreshResponse salida con el nuevo access token.
type RefreshResponse struct {
	Access string `json:"access"`
}
