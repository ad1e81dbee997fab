package token

import (
	"testing"
	"time"

	"github.com/jhoicas/biashara-api/internal/domain/entity"
	"github.com/jhoicas/biashara-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer(t *testing.T) {
	iss := NewJWTIssuer("s3cret", "biashara-api", time.Minute, time.Hour)

	pair, err := iss.Issue("u1", entity.RoleBuyer)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := iss.ParseRefresh(pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = iss.ParseRefresh(pair.Access)
	assert.ErrorIs(t, err, jwt.ErrWrongTokenType)

	claims, err := jwt.Parse("s3cret", pair.Access, jwt.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "buyer", claims.Role)
}
