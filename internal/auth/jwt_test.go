package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("test-secret", "HS256", 30*time.Minute, 24*time.Hour)
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", "alice", RoleMember)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, RoleMember, claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	other := NewTokenManager("other-secret", "HS256", 30*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "alice", RoleMember)
	require.NoError(t, err)

	// Чужой секрет: одна и та же ошибка без деталей
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	// TTL в прошлом
	m := NewTokenManager("test-secret", "HS256", -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", "alice", RoleMember)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	m := newTestManager()
	_, err := m.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestManager()

	token, err := m.GenerateRefreshToken("alice")
	require.NoError(t, err)

	subject, err := m.ParseRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}
