package entity

import "time"

// User representa una cuenta del marketplace. El rol no cambia después de creada.
type User struct {
	ID           string
	Email        string // siempre en minúsculas
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
	IsActive     bool
	IsVerified   bool
	IsStaff      bool
	DateJoined   time.Time
}
