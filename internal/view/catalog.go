// Package view holds the page controllers. Each controller consumes
// the session store and cart syncer, issues mutations through the
// optimistic coordinator, and stays headless so rendering can live
// anywhere.
package view

import (
	"context"
	"sync/atomic"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
)

type CatalogAPI interface {
	Products(ctx context.Context, filter api.ProductFilter) (*api.ProductPage, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Brands(ctx context.Context) ([]domain.Brand, error)
	AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
}

// Catalog is the product listing view: browse, filter, add to cart.
type Catalog struct {
	api       CatalogAPI
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator
	closed    atomic.Bool
}

func NewCatalog(backend CatalogAPI, syncer *cart.Syncer, mutations *optimistic.Coordinator) *Catalog {
	return &Catalog{api: backend, syncer: syncer, mutations: mutations}
}

func (v *Catalog) Load(ctx context.Context, filter api.ProductFilter) (*api.ProductPage, error) {
	return v.api.Products(ctx, filter)
}

// Filters loads the category and brand facets for the sidebar.
func (v *Catalog) Filters(ctx context.Context) ([]domain.Category, []domain.Brand, error) {
	categories, err := v.api.Categories(ctx)
	if err != nil {
		return nil, nil, err
	}
	brands, err := v.api.Brands(ctx)
	if err != nil {
		return nil, nil, err
	}
	return categories, brands, nil
}

// AddToCart bumps the shared counter and confirms immediately, then
// settles against the server in the background.
func (v *Catalog) AddToCart(ctx context.Context, productID int64) <-chan error {
	return addToCartMutation(ctx, v.mutations, v.syncer, v.api.AddCartItem, productID)
}

func (v *Catalog) Close() {
	v.closed.Store(true)
}

// addToCartMutation is the one add-to-cart contract shared by the
// catalog and product detail views. The counter resync in rollback and
// reconcile runs even after the initiating view closed: the counter is
// shared cross-view state, not view-local.
func addToCartMutation(
	ctx context.Context,
	mutations *optimistic.Coordinator,
	syncer *cart.Syncer,
	add func(ctx context.Context, productID int64, quantity int) (*domain.Cart, error),
	productID int64,
) <-chan error {
	return mutations.Run(ctx, optimistic.Mutation{
		Name:    "add-to-cart",
		Apply:   syncer.IncrementLocal,
		Applied: "Added to cart",
		Call: func(ctx context.Context) error {
			_, err := add(ctx, productID, 1)
			return err
		},
		Reconcile: func(ctx context.Context) {
			_ = syncer.Resync(ctx)
		},
		Rollback: func(ctx context.Context) {
			_ = syncer.Resync(ctx)
		},
		Failure: "Failed to add to cart",
	})
}
