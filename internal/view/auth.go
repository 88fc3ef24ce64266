package view

import (
	"context"
	"errors"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/nav"
	"github.com/alienx5499/Shopifyr/internal/session"
)

// Client-side validation failures: prevented before any request is
// issued, rendered inline by the form, never toasted.
var (
	ErrMissingCredentials = errors.New("username or email and password are required")
	ErrMissingFields      = errors.New("email, username and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
)

type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
}

// Auth is the login/register view.
type Auth struct {
	api     AuthAPI
	session *session.Store
	syncer  *cart.Syncer
	nav     nav.Navigator
}

func NewAuth(backend AuthAPI, sessions *session.Store, syncer *cart.Syncer, navigator nav.Navigator) *Auth {
	return &Auth{api: backend, session: sessions, syncer: syncer, nav: navigator}
}

// Login exchanges credentials for a token, establishes the session,
// and lands on the catalog. The identity fetch is best effort: a
// session without an identity is still a valid session.
func (v *Auth) Login(ctx context.Context, usernameOrEmail, password string) error {
	if usernameOrEmail == "" || password == "" {
		return ErrMissingCredentials
	}

	resp, err := v.api.Login(ctx, api.LoginRequest{
		UsernameOrEmail: usernameOrEmail,
		Password:        password,
	})
	if err != nil {
		return err
	}

	v.session.Login(resp.AccessToken, nil)
	if me, errMe := v.api.Me(ctx); errMe == nil {
		v.session.SetIdentity(me)
	}

	v.nav.To(nav.RouteCatalog)
	_ = v.syncer.Resync(ctx)
	return nil
}

// Register creates an account. When the backend returns a token the
// new user is logged in directly; otherwise they land on the login
// view.
func (v *Auth) Register(ctx context.Context, req api.RegisterRequest) error {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return ErrMissingFields
	}
	if len(req.Password) < 6 {
		return ErrPasswordTooShort
	}

	resp, err := v.api.Register(ctx, req)
	if err != nil {
		return err
	}

	if resp.AccessToken != "" {
		v.session.Login(resp.AccessToken, nil)
		v.nav.To(nav.RouteCatalog)
		_ = v.syncer.Resync(ctx)
		return nil
	}

	v.nav.To(nav.RouteLogin)
	return nil
}

// Logout ends the session; the store clears storage and navigates to
// the login view.
func (v *Auth) Logout() {
	v.session.Logout()
}
