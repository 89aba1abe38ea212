package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	at, err := NewAccessToken("test-secret", 42, "ORGANIZER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, at.Token)
	require.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, 5*time.Second)

	tok, err := jwt.Parse(at.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, float64(42), claims["sub"])
	require.Equal(t, "ORGANIZER", claims["role"])
}

func TestHashRefreshRaw(t *testing.T) {
	t.Parallel()

	h1 := HashRefreshRaw("abc")
	h2 := HashRefreshRaw("abc")
	require.Equal(t, h1, h2)
	require.Len(t, h1, 64) // sha256 hex
	require.NotEqual(t, h1, HashRefreshRaw("abd"))
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
	t.Parallel()

	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)
	require.Len(t, a.Raw, 96)
	require.NotEqual(t, a.Raw, b.Raw)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret", 4) // minimal cost keeps the test fast
	require.NoError(t, err)
	require.True(t, VerifyPassword(hash, "s3cret"))
	require.False(t, VerifyPassword(hash, "wrong"))
}
