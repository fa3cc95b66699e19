package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestTokenSlot_SetGetClear(t *testing.T) {
	slot := NewTokenSlot()

	_, ok := slot.Get()
	assert.False(t, ok)

	slot.Set("opaque-session")
	token, ok := slot.Get()
	assert.True(t, ok)
	assert.Equal(t, "opaque-session", token)

	slot.Clear()
	_, ok = slot.Get()
	assert.False(t, ok)
}

func TestTokenSlot_ExpiredJWTIsCleared(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	slot := NewTokenSlot()
	slot.now = func() time.Time { return now }

	slot.Set(signedToken(t, jwt.MapClaims{"sub": "ana@acme.com", "exp": now.Add(-time.Minute).Unix()}))
	_, ok := slot.Get()
	assert.False(t, ok)

	slot.now = func() time.Time { return now.Add(-time.Hour) }
	_, ok = slot.Get()
	assert.False(t, ok, "an expired token must stay cleared")
}

func TestTokenSlot_ValidJWT(t *testing.T) {
	now := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	slot := NewTokenSlot()
	slot.now = func() time.Time { return now }

	token := signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})
	slot.Set(token)

	got, ok := slot.Get()
	assert.True(t, ok)
	assert.Equal(t, token, got)
}

func TestTokenSlot_JWTWithoutExp(t *testing.T) {
	slot := NewTokenSlot()
	slot.Set(signedToken(t, jwt.MapClaims{"sub": "ana@acme.com"}))

	_, ok := slot.Get()
	assert.True(t, ok)
}
