package jwt_test

import (
	"testing"
	"time"

	"github.com/premierlux/premierlux-backend/internal/auth/jwt"
	"github.com/premierlux/premierlux-backend/pkg/config"
	"github.com/premierlux/premierlux-backend/pkg/errors"
	"github.com/premierlux/premierlux-backend/pkg/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: time.Hour,
		Issuer:       "premierlux-test",
	}
}

func testScope() scope.Scope {
	return scope.Scope{
		UserID: "user-1",
		Email:  "admin@test",
		Name:   "Test Admin",
		Role:   scope.RoleAdmin,
		Branch: "Downtown",
	}
}

func TestGenerateAndValidate(t *testing.T) {
	m := jwt.NewManager(testConfig())

	token, err := m.Generate(testScope())
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, 5*time.Second)

	claims, err := m.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin@test", claims.Email)
	assert.Equal(t, scope.RoleAdmin, claims.Role)
	assert.Equal(t, "Downtown", claims.Branch)
	assert.Equal(t, "premierlux-test", claims.Issuer)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestClaimsScopeRoundTrip(t *testing.T) {
	m := jwt.NewManager(testConfig())
	sc := testScope()

	token, err := m.Generate(sc)
	require.NoError(t, err)

	claims, err := m.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sc, claims.Scope())
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := jwt.NewManager(testConfig())
	token, err := issuer.Generate(testScope())
	require.NoError(t, err)

	other := jwt.NewManager(&config.JWTConfig{Secret: "different", AccessExpiry: time.Hour})
	_, err = other.Validate(token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}

func TestValidate_Expired(t *testing.T) {
	m := jwt.NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: -time.Minute,
		Issuer:       "premierlux-test",
	})

	token, err := m.Generate(testScope())
	require.NoError(t, err)

	_, err = m.Validate(token.AccessToken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestValidate_Garbage(t *testing.T) {
	m := jwt.NewManager(testConfig())

	_, err := m.Validate("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}
