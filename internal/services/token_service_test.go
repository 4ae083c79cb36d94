package services

import (
	"testing"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(config.AuthConfig{
		JWTSecret:       "token-test-secret-0123456789abcdef0123",
		Issuer:          "movie-catalog-test",
		AccessTokenTTL:  5 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func TestTokenManagerIssuesPair(t *testing.T) {
	m := newTestTokenManager()

	pair, err := m.IssuePair(&models.User{ID: 7})
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	access, err := m.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), access.UserID)
	assert.Equal(t, "7", access.Subject)

	refresh, err := m.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), refresh.ExpiresAt.Time, time.Minute)
}

func TestTokenManagerRejectsWrongType(t *testing.T) {
	m := newTestTokenManager()

	pair, err := m.IssuePair(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = m.Parse(pair.Access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(pair.Refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsExpired(t *testing.T) {
	m := newTestTokenManager()
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	access, err := m.IssueAccess(3)
	require.NoError(t, err)

	_, err = m.Parse(access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	m := newTestTokenManager()
	other := NewTokenManager(config.AuthConfig{
		JWTSecret:       "another-secret-0123456789abcdef012345",
		Issuer:          "movie-catalog-test",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Minute,
	})

	access, err := other.IssueAccess(1)
	require.NoError(t, err)

	_, err = m.Parse(access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-jwt", TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"username": "taken", "email": "taken"}}
	assert.Equal(t, "validation failed: email: taken; username: taken", err.Error())
}
