package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("secret", 30, 7)

	access, err := m.GenerateToken("u-1", "admin", "SUPERADMIN")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "SUPERADMIN", claims.Role)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	refresh, err := m.GenerateRefreshToken("u-1", "admin", "SUPERADMIN")
	require.NoError(t, err)
	_, err = m.VerifyRefreshToken(refresh)
	assert.NoError(t, err)
	_, err = m.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	token, err := NewJWTManager("one", 30, 7).GenerateToken("u-1", "admin", "READER")
	require.NoError(t, err)

	_, err = NewJWTManager("two", 30, 7).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", 30, 7)
	claims := CustomClaims{
		UserID:    "u-1",
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.VerifyToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	m := NewJWTManager("secret", 30, 7)
	claims := CustomClaims{UserID: "u-1", TokenType: TypeAccess}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyToken(signed)
	assert.Error(t, err)
}
