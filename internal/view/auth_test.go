package view

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/nav"
	"github.com/alienx5499/Shopifyr/internal/session"
)

func newAuthView(t *testing.T, h *harness) (*Auth, *session.Store) {
	t.Helper()
	sessions := session.NewStore(session.NewMemoryStorage(), h.nav, zerolog.Nop())
	sessions.Initialize()
	return NewAuth(h.backend, sessions, h.syncer, h.nav), sessions
}

func TestLoginValidation(t *testing.T) {
	h := newHarness(t)
	v, _ := newAuthView(t, h)

	require.ErrorIs(t, v.Login(context.Background(), "", "secret"), ErrMissingCredentials)
	require.ErrorIs(t, v.Login(context.Background(), "demo", ""), ErrMissingCredentials)
}

func TestLoginEstablishesSessionAndLandsOnCatalog(t *testing.T) {
	h := newHarness(t)
	h.backend.setCart(&domain.Cart{Items: []domain.CartItem{{ID: 1, ProductID: 101, Quantity: 2}}})
	h.backend.meFn = func(ctx context.Context) (*domain.User, error) {
		return &domain.User{Username: "demo", Email: "demo@example.com"}, nil
	}
	v, sessions := newAuthView(t, h)

	require.NoError(t, v.Login(context.Background(), "demo", "secret123"))

	assert.True(t, sessions.LoggedIn())
	assert.Equal(t, "tok", sessions.Token())
	require.NotNil(t, sessions.User())
	assert.Equal(t, "demo", sessions.User().Username)
	assert.Equal(t, nav.RouteCatalog, h.nav.Current())
	assert.Equal(t, 2, h.syncer.Count(), "cart counter primed right after login")
}

func TestLoginIdentityFetchIsBestEffort(t *testing.T) {
	h := newHarness(t)
	h.backend.meFn = func(ctx context.Context) (*domain.User, error) {
		return nil, errors.New("boom")
	}
	v, sessions := newAuthView(t, h)

	require.NoError(t, v.Login(context.Background(), "demo", "secret123"))
	assert.True(t, sessions.LoggedIn())
	assert.Nil(t, sessions.User(), "a session without an identity is still a session")
}

func TestLoginBadCredentialsSurfaceError(t *testing.T) {
	h := newHarness(t)
	h.backend.loginFn = func(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
		return nil, &api.Error{Status: 401, Code: "bad_credentials", Message: "invalid credentials"}
	}
	v, sessions := newAuthView(t, h)

	err := v.Login(context.Background(), "demo", "wrong")
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.False(t, sessions.LoggedIn())
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)
	v, _ := newAuthView(t, h)

	err := v.Register(context.Background(), api.RegisterRequest{Username: "x", Password: "secret123"})
	require.ErrorIs(t, err, ErrMissingFields)

	err = v.Register(context.Background(), api.RegisterRequest{
		Username: "x", Email: "x@example.com", Password: "abc",
	})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterWithTokenAutoLogsIn(t *testing.T) {
	h := newHarness(t)
	v, sessions := newAuthView(t, h)

	require.NoError(t, v.Register(context.Background(), api.RegisterRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "secret123",
	}))
	assert.True(t, sessions.LoggedIn())
	assert.Equal(t, nav.RouteCatalog, h.nav.Current())
}

func TestRegisterWithoutTokenLandsOnLogin(t *testing.T) {
	h := newHarness(t)
	h.backend.registerFn = func(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
		return &api.AuthResponse{}, nil
	}
	v, sessions := newAuthView(t, h)

	require.NoError(t, v.Register(context.Background(), api.RegisterRequest{
		Username: "newbie", Email: "newbie@example.com", Password: "secret123",
	}))
	assert.False(t, sessions.LoggedIn())
	assert.Equal(t, nav.RouteLogin, h.nav.Current())
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	v, sessions := newAuthView(t, h)
	require.NoError(t, v.Login(context.Background(), "demo", "secret123"))

	v.Logout()

	assert.False(t, sessions.LoggedIn())
	assert.Equal(t, nav.RouteLogin, h.nav.Current())
}
