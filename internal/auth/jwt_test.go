package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret-key-for-testing-purposes", 15*time.Minute)
}

var cashier = Identity{UserID: "s2", Name: "Front-end Cashier", Email: "cashier@nova.example", Role: "cashier"}

func TestJWTService_GenerateAccessToken_Success(t *testing.T) {
	service := newTestJWTService()

	token, expiresAt, err := service.GenerateAccessToken(cashier)

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
	assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	assert.Equal(t, 15*time.Minute, service.Expiry())
}

func TestJWTService_ValidateAccessToken_Valid(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.GenerateAccessToken(cashier)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)

	require.NoError(t, err)
	assert.Equal(t, cashier, claims.Identity)
	assert.Equal(t, "s2", claims.Subject)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestJWTService_ValidateAccessToken_Expired(t *testing.T) {
	service := NewJWTService("test-secret", -time.Minute)

	token, _, err := service.GenerateAccessToken(cashier)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_Invalid(t *testing.T) {
	service := newTestJWTService()

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"random string", "not-a-valid-token"},
		{"malformed JWT", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateAccessToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_ValidateAccessToken_WrongSignature(t *testing.T) {
	service1 := NewJWTService("secret-key-1", 15*time.Minute)
	service2 := NewJWTService("secret-key-2", 15*time.Minute)

	token, _, err := service1.GenerateAccessToken(cashier)
	require.NoError(t, err)

	claims, err := service2.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_WrongAlgorithm(t *testing.T) {
	service := newTestJWTService()

	token := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		Identity: cashier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := service.ValidateAccessToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateAccessToken_WrongIssuer(t *testing.T) {
	service := newTestJWTService()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Identity: cashier,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tokenString, err := token.SignedString(service.secretKey)
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(tokenString)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateAccessToken_MissingUserID(t *testing.T) {
	service := newTestJWTService()

	token, _, err := service.GenerateAccessToken(Identity{Role: "manager"})
	require.NoError(t, err)

	_, err = service.ValidateAccessToken(token)

	assert.ErrorIs(t, err, ErrInvalidToken)
}
