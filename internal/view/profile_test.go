package view

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/session"
)

func newProfileView(t *testing.T, h *harness) (*Profile, *session.Store) {
	t.Helper()
	sessions := session.NewStore(session.NewMemoryStorage(), h.nav, zerolog.Nop())
	sessions.Initialize()
	sessions.Login("tok", nil)
	return NewProfile(h.backend, sessions, h.mutations, h.notifier), sessions
}

func TestProfileLoadRefreshesSessionIdentity(t *testing.T) {
	h := newHarness(t)
	h.backend.meFn = func(ctx context.Context) (*domain.User, error) {
		return &domain.User{Username: "ana", City: "Lisbon"}, nil
	}
	v, sessions := newProfileView(t, h)

	user, err := v.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ana", user.Username)
	require.NotNil(t, sessions.User())
	assert.Equal(t, "Lisbon", sessions.User().City)
}

func TestProfileUpdatePersistsNewIdentity(t *testing.T) {
	h := newHarness(t)
	h.backend.updateProfileFn = func(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error) {
		return &domain.User{Username: "ana", City: req.City}, nil
	}
	v, sessions := newProfileView(t, h)

	err := <-v.Update(context.Background(), api.UpdateProfileRequest{City: "Porto"})
	require.NoError(t, err)
	require.NotNil(t, sessions.User())
	assert.Equal(t, "Porto", sessions.User().City)
	assert.Equal(t, []string{"success: Profile updated"}, h.notifier.all())
}

func TestProfileWishlist(t *testing.T) {
	h := newHarness(t)
	h.backend.wishlistFn = func(ctx context.Context) ([]domain.WishlistEntry, error) {
		return []domain.WishlistEntry{
			{ID: 1, Product: domain.Product{ID: 101, Name: "Air Zoom"}, CreatedAt: time.Now()},
		}, nil
	}
	v, _ := newProfileView(t, h)

	entries, err := v.Wishlist(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Air Zoom", entries[0].Product.Name)
}

func TestProfileRemoveFromWishlist(t *testing.T) {
	h := newHarness(t)
	v, _ := newProfileView(t, h)

	require.NoError(t, v.RemoveFromWishlist(context.Background(), 101))
	assert.Equal(t, []string{"success: Removed from wishlist"}, h.notifier.all())
}

func TestProfileRemoveFromWishlistFailureToast(t *testing.T) {
	h := newHarness(t)
	h.backend.removeWishFn = func(ctx context.Context, productID int64) error {
		return &api.Error{Status: 500, Message: "internal"}
	}
	v, _ := newProfileView(t, h)

	require.Error(t, v.RemoveFromWishlist(context.Background(), 101))
	assert.Equal(t, []string{"error: Failed to remove from wishlist"}, h.notifier.all())
}
