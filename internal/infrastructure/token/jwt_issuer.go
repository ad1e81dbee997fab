package token

import (
	"time"

	"github.com/jhoicas/biashara-api/internal/application/ports"
	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/pkg/jwt"
)

// JWTIssuer implementa ports.TokenIssuer con pkg/jwt (HS256).
type JWTIssuer struct {
	secret     string
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTIssuer crea el emisor de tokens.
func NewJWTIssuer(secret, issuer string, accessTTL, refreshTTL time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: secret, issuer: issuer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue genera el par access + refresh.
func (i *JWTIssuer) Issue(userID string, role entity.Role) (ports.TokenPair, error) {
	access, err := i.IssueAccess(userID, role)
	if err != nil {
		return ports.TokenPair{}, err
	}
	refresh, err := jwt.Generate(i.secret, userID, string(role), jwt.TypeRefresh, i.issuer, i.refreshTTL)
	if err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: access, Refresh: refresh}, nil
}

// IssueAccess genera solo el access token.
func (i *JWTIssuer) IssueAccess(userID string, role entity.Role) (string, error) {
	return jwt.Generate(i.secret, userID, string(role), jwt.TypeAccess, i.issuer, i.accessTTL)
}

// ParseRefresh valida un refresh token y devuelve el userID.
func (i *JWTIssuer) ParseRefresh(token string) (string, error) {
	claims, err := jwt.Parse(i.secret, token, jwt.TypeRefresh)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

var _ ports.TokenIssuer = (*JWTIssuer)(nil)
