package view

import (
	"context"
	"sync/atomic"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/notify"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
	"github.com/alienx5499/Shopifyr/internal/session"
)

type ProfileAPI interface {
	Me(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error)
	Wishlist(ctx context.Context) ([]domain.WishlistEntry, error)
	RemoveFromWishlist(ctx context.Context, productID int64) error
}

// Profile is the account view: identity, shipping details, wishlist.
type Profile struct {
	api       ProfileAPI
	session   *session.Store
	mutations *optimistic.Coordinator
	notifier  notify.Notifier
	closed    atomic.Bool
}

func NewProfile(backend ProfileAPI, sessions *session.Store, mutations *optimistic.Coordinator, notifier notify.Notifier) *Profile {
	return &Profile{api: backend, session: sessions, mutations: mutations, notifier: notifier}
}

// Load fetches the profile and refreshes the cached session identity
// with the authoritative one.
func (v *Profile) Load(ctx context.Context) (*domain.User, error) {
	user, err := v.api.Me(ctx)
	if err != nil {
		return nil, err
	}
	if !v.closed.Load() {
		v.session.SetIdentity(user)
	}
	return user, nil
}

// Update saves profile changes. Not optimistic: the form already holds
// the edited values, so there is no local delta to apply early.
func (v *Profile) Update(ctx context.Context, req api.UpdateProfileRequest) <-chan error {
	return v.mutations.Run(ctx, optimistic.Mutation{
		Name: "update-profile",
		Call: func(ctx context.Context) error {
			updated, err := v.api.UpdateProfile(ctx, req)
			if err != nil {
				return err
			}
			if !v.closed.Load() {
				v.session.SetIdentity(updated)
			}
			return nil
		},
		Success: "Profile updated",
		Failure: "Failed to update profile",
	})
}

func (v *Profile) Wishlist(ctx context.Context) ([]domain.WishlistEntry, error) {
	return v.api.Wishlist(ctx)
}

// RemoveFromWishlist drops a saved product.
func (v *Profile) RemoveFromWishlist(ctx context.Context, productID int64) error {
	err := v.api.RemoveFromWishlist(ctx, productID)
	switch {
	case err == nil:
		v.notifier.Success("Removed from wishlist")
	case api.IsUnauthorized(err):
		// Handled globally.
	default:
		v.notifier.Error("Failed to remove from wishlist")
	}
	return err
}

func (v *Profile) Close() {
	v.closed.Store(true)
}
