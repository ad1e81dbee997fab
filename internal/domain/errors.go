package domain

import (
	"errors"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrPasswordMismatch   = errors.New("las contraseñas no coinciden")
	ErrWeakPassword       = errors.New("contraseña débil")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrMissingCredentials = errors.New("credenciales incompletas")
	ErrTooManyAttempts    = errors.New("demasiados intentos")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrIntegrityConflict  = errors.New("conflicto de integridad, reintentar")
)

// ValidationError agrupa errores por campo (respuesta 400 con mapa campo -> mensaje).
// Kind identifica la causa (ErrInvalidInput, ErrEmailAlreadyExists, ...) para errors.Is.
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

// NewValidationError crea un error de validación vacío con la causa indicada.
func NewValidationError(kind error) *ValidationError {
	if kind == nil {
		kind = ErrInvalidInput
	}
	return &ValidationError{Kind: kind, Fields: map[string]string{}}
}

// FieldError atajo para un único campo.
func FieldError(kind error, field, msg string) *ValidationError {
	v := NewValidationError(kind)
	v.Add(field, msg)
	return v
}

// Add registra el mensaje del campo; si ya había uno se concatena.
func (e *ValidationError) Add(field, msg string) {
	if prev, ok := e.Fields[field]; ok && prev != "" {
		e.Fields[field] = prev + " " + msg
		return
	}
	e.Fields[field] = msg
}

// HasErrors indica si hay al menos un campo con error.
func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Kind.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *ValidationError) Unwrap() error { return e.Kind }

// AsValidation extrae el ValidationError de una cadena de errores.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
