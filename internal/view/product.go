package view

import (
	"context"
	"sync/atomic"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/nav"
	"github.com/alienx5499/Shopifyr/internal/notify"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
)

type ProductAPI interface {
	Product(ctx context.Context, id int64) (*domain.Product, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	AddToWishlist(ctx context.Context, productID int64) (*domain.WishlistEntry, error)
}

// ProductDetail is the single-product view: load, add to cart, save to
// wishlist.
type ProductDetail struct {
	api       ProductAPI
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator
	notifier  notify.Notifier
	nav       nav.Navigator
	closed    atomic.Bool
}

func NewProductDetail(backend ProductAPI, syncer *cart.Syncer, mutations *optimistic.Coordinator, notifier notify.Notifier, navigator nav.Navigator) *ProductDetail {
	return &ProductDetail{
		api:       backend,
		syncer:    syncer,
		mutations: mutations,
		notifier:  notifier,
		nav:       navigator,
	}
}

// Load fetches the product. A product that cannot be loaded sends the
// user back to the catalog.
func (v *ProductDetail) Load(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := v.api.Product(ctx, id)
	if err != nil {
		if !v.closed.Load() {
			v.nav.To(nav.RouteCatalog)
		}
		return nil, err
	}
	return product, nil
}

func (v *ProductDetail) AddToCart(ctx context.Context, productID int64) <-chan error {
	return addToCartMutation(ctx, v.mutations, v.syncer, v.api.AddCartItem, productID)
}

// AddToWishlist saves the product. A duplicate add reports "already in
// wishlist" rather than a generic failure; a rejected credential is
// handled globally by the remote client.
func (v *ProductDetail) AddToWishlist(ctx context.Context, productID int64) error {
	_, err := v.api.AddToWishlist(ctx, productID)
	switch {
	case err == nil:
		v.notifier.Success("Saved to wishlist")
	case api.IsConflict(err):
		v.notifier.Error("Item already in wishlist")
	case api.IsUnauthorized(err):
		// Session already cleared and redirected.
	default:
		v.notifier.Error("Failed to save to wishlist")
	}
	return err
}

func (v *ProductDetail) Close() {
	v.closed.Store(true)
}
