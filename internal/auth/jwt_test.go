package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitJWTSecretMissing(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Error(t, InitJWTSecret())
}

func TestInitJWTSecretRejectsBadTTL(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "not-a-number")
	assert.Error(t, InitJWTSecret())

	t.Setenv("JWT_TTL_HOURS", "-3")
	assert.Error(t, InitJWTSecret())
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "")
	require.NoError(t, InitJWTSecret())

	tokenString, err := GenerateJWT(42, "user@example.com")
	require.NoError(t, err)

	claims, err := VerifyJWT(tokenString)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(defaultTokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenTTLOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "2")
	require.NoError(t, InitJWTSecret())

	tokenString, err := GenerateJWT(42, "user@example.com")
	require.NoError(t, err)

	claims, err := VerifyJWT(tokenString)
	require.NoError(t, err)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyJWTRejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL_HOURS", "")
	require.NoError(t, InitJWTSecret())

	tokenString, err := GenerateJWT(42, "user@example.com")
	require.NoError(t, err)

	tampered := tokenString[:len(tokenString)-2] + "xx"

	_, err = VerifyJWT(tampered)
	assert.Error(t, err)
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	t.Setenv("JWT_TTL_HOURS", "")
	require.NoError(t, InitJWTSecret())

	tokenString, err := GenerateJWT(42, "user@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	require.NoError(t, InitJWTSecret())

	_, err = VerifyJWT(tokenString)
	assert.Error(t, err)
}
