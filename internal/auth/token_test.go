package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token, exp, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.NotEmpty(t, claims.ID, "jti assigned")
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestTokenUniqueIDs(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	first, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)
	second, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	a, err := tm.ParseToken(first)
	require.NoError(t, err)
	b, err := tm.ParseToken(second)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	other := NewTokenManager("different", time.Hour)

	token, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := &TokenManager{secret: []byte("secret"), ttl: -time.Minute}

	token, _, err := tm.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	_, err := tm.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	tm := NewTokenManager("secret", 0)
	assert.Equal(t, time.Hour, tm.TTL())
}
