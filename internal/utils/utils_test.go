package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/venue-booking/internal/model"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 42, model.RoleEventManager, 15*time.Minute, time.Now())
	require.NoError(t, err)

	id, role, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)
	assert.Equal(t, model.RoleEventManager, role)

	_, _, err = ParseAccessToken("other", tok.Token)
	assert.Error(t, err)
}

func TestAccessToken_Expired(t *testing.T) {
	tok, err := NewAccessToken("s3cret", 1, model.RoleCustomer, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, _, err = ParseAccessToken("s3cret", tok.Token)
	assert.Error(t, err)
}

func TestAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{Role: model.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, _, err = ParseAccessToken("s3cret", raw)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)
	b, err := NewRefreshToken(24*time.Hour, now)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.Equal(t, now.Add(24*time.Hour), a.Exp)
	assert.Len(t, HashRefreshRaw(a.Raw), 64)
	assert.Equal(t, HashRefreshRaw(a.Raw), HashRefreshRaw(a.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "hunter2"))
	assert.False(t, VerifyPassword(hash, "hunter3"))

	// out of range cost falls back to the default instead of failing
	_, err = HashPassword("x", 99)
	assert.NoError(t, err)
}
