package auth

import (
	"testing"
	"time"

	"github.com/nutrimercado/go-backend/internal/cfg"
	"github.com/nutrimercado/go-backend/internal/domain"
	"github.com/nutrimercado/go-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(secret string) *JWTManager {
	return NewJWTManager(&cfg.AuthCfg{
		JWTSecret:  secret,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
}

func TestJWTManager_Roundtrip(t *testing.T) {
	m := newTestManager("test-secret")
	user := &domain.User{
		ID:       42,
		Username: "maria",
		Email:    "maria@example.com",
		IsAdmin:  true,
	}

	pair, err := m.GeneratePair(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	ident, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), ident.UserID)
	assert.Equal(t, "maria", ident.Username)
	assert.True(t, ident.IsAdmin)

	userID, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	issuer := newTestManager("issuer-secret")
	verifier := newTestManager("other-secret")

	pair, err := issuer.GeneratePair(&domain.User{ID: 1, Username: "maria"})
	require.NoError(t, err)

	_, err = verifier.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, e.ErrInvalidToken)

	_, err = verifier.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager(&cfg.AuthCfg{
		JWTSecret:  "test-secret",
		AccessTTL:  -time.Minute,
		RefreshTTL: -time.Minute,
	})

	pair, err := m.GeneratePair(&domain.User{ID: 1, Username: "maria"})
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, e.ErrInvalidToken)

	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.ErrorIs(t, err, e.ErrInvalidToken)
}

func TestJWTManager_Garbage(t *testing.T) {
	m := newTestManager("test-secret")

	_, err := m.ParseAccess("not.a.token")
	assert.ErrorIs(t, err, e.ErrInvalidToken)

	_, err = m.ParseRefresh("")
	assert.ErrorIs(t, err, e.ErrInvalidToken)
}
