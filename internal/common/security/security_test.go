package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateTokenRoundTrip(t *testing.T) {
	auth := NewTokenAuth([]byte("test-secret"))

	tokenString, err := GenerateToken(auth, 42, "USER", time.Hour)
	require.NoError(t, err)

	token, err := auth.Decode(tokenString)
	require.NoError(t, err)
	claims, err := token.AsMap(t.Context())
	require.NoError(t, err)

	id, err := GetUserIDFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	role, err := GetUserRoleFromClaims(claims)
	require.NoError(t, err)
	require.Equal(t, "USER", role)

	require.False(t, TokenExpired(tokenString, time.Now()))
	require.True(t, TokenExpired(tokenString, time.Now().Add(2*time.Hour)))
}

func TestTokenExpired(t *testing.T) {
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
		require.NoError(t, err)
		return s
	}
	now := time.Now()

	require.True(t, TokenExpired(sign(jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now))
	require.False(t, TokenExpired(sign(jwt.MapClaims{"exp": now.Add(time.Minute).Unix()}), now))
	require.False(t, TokenExpired(sign(jwt.MapClaims{"sub": "1"}), now), "no exp claim")
	require.False(t, TokenExpired("opaque-session-token", now), "opaque credentials are kept")
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)
	require.True(t, CheckPasswordHash("hunter2", hash))
	require.False(t, CheckPasswordHash("hunter3", hash))
}
