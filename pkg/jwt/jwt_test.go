package jwt

import (
	"testing"
	"time"

	"medical-appointments/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService("secret")

	token, tokenID, err := svc.GenerateAccessToken(42, "ana@clinica.pe", 3)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "ana@clinica.pe", claims.Email)
	assert.Equal(t, 3, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)

	refresh, refreshID, err := svc.GenerateRefreshToken(42, "ana@clinica.pe", 3)
	require.NoError(t, err)
	assert.NotEqual(t, tokenID, refreshID)

	claims, err = svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	token, _, err := newService("one").GenerateAccessToken(1, "a@b.pe", 1)
	require.NoError(t, err)

	_, err = newService("two").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: -time.Minute})
	token, _, err := svc.GenerateAccessToken(1, "a@b.pe", 1)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
