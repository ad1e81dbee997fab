package entity

import (
	"fmt"
	"strings"
)

// Role rol de una cuenta. Conjunto cerrado: admin, buyer, seller.
type Role string

// Roles válidos para User.
const (
	RoleAdmin  Role = "admin"
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// ParseRole convierte un string (claim JWT, columna) al rol tipado.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	}
	return "", fmt.Errorf("rol desconocido: %q", s)
}

// Valid indica si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }

// Actor identidad explícita de quien invoca un caso de uso (extraída del token).
type Actor struct {
	UserID string
	Role   Role
}

// Is indica si el actor tiene exactamente el rol dado.
func (a Actor) Is(role Role) bool {
	return a.UserID != "" && a.Role == role
}
