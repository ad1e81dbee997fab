package auth

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/jhoicas/biashara-api/internal/domain"
)

// Mensajes de validación expuestos al cliente (formato campo -> mensaje).
const (
	msgRequired        = "This field is required."
	msgInvalidEmail    = "Enter a valid email address."
	msgInvalidURL      = "Enter a valid URL."
	msgEmailTaken      = "Email already registered."
	msgPasswordsDiffer = "Passwords do not match."
	msgInvalidImage    = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// NormalizeEmail forma canónica usada para unicidad y login.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func required(v *domain.ValidationError, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, msgRequired)
		return false
	}
	return true
}

func maxLen(v *domain.ValidationError, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.Add(field, "Ensure this field has no more than "+strconv.Itoa(max)+" characters.")
	}
}

func validEmail(v *domain.ValidationError, email string) {
	if !required(v, "email", email) {
		return
	}
	if !govalidator.IsEmail(NormalizeEmail(email)) {
		v.Add("email", msgInvalidEmail)
	}
}

func choice(v *domain.ValidationError, field, value string, ok bool) {
	if !required(v, field, value) {
		return
	}
	if !ok {
		v.Add(field, "\""+value+"\" is not a valid choice.")
	}
}

// personal valida los campos comunes a comprador y vendedor.
func personal(v *domain.ValidationError, firstName, lastName, email, phone, pw, confirm string) {
	if required(v, "first_name", firstName) {
		maxLen(v, "first_name", firstName, 100)
	}
	if required(v, "last_name", lastName) {
		maxLen(v, "last_name", lastName, 100)
	}
	validEmail(v, email)
	if required(v, "phone", phone) {
		maxLen(v, "phone", phone, 20)
	}
	required(v, "password", pw)
	required(v, "confirm_password", confirm)
}
