package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	assert.Nil(t, New(""))
	assert.Nil(t, New("   "))
	c := New(" abc ")
	require.NotNil(t, c)
	assert.Equal(t, "abc", c.Token)
	assert.Equal(t, "Bearer abc", c.Header())
}

func TestCheck_Missing(t *testing.T) {
	var c *Credential
	assert.ErrorIs(t, c.Check(now), ErrUnauthenticated)
	assert.ErrorIs(t, (&Credential{}).Check(now), ErrUnauthenticated)
}

func TestCheck_OpaqueToken(t *testing.T) {
	assert.NoError(t, New("opaque-session-token").Check(now))
}

func TestCheck_JWT(t *testing.T) {
	assert.NoError(t, New(signed(t, now.Add(time.Hour))).Check(now))

	err := New(signed(t, now.Add(-time.Minute))).Check(now)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Contains(t, err.Error(), "token expired")
}

func TestCheck_JWTWithoutExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "owner"})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	assert.NoError(t, New(s).Check(now))
}
