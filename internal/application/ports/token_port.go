package ports

import "github.com/jhoicas/biashara-api/internal/domain/entity"

// TokenPair par de tokens emitido en el login.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenIssuer define el puerto hacia el servicio de firma de tokens.
// La aplicación no conoce el formato ni las claves.
type TokenIssuer interface {
	Issue(userID string, role entity.Role) (TokenPair, error)
	IssueAccess(userID string, role entity.Role) (string, error)
	// ParseRefresh valida un refresh token y devuelve el userID al que está ligado.
	ParseRefresh(token string) (string, error)
}
