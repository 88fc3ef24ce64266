package view

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
)

type CartAPI interface {
	Cart(ctx context.Context) (*domain.Cart, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error)
	RemoveCartItem(ctx context.Context, itemID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context) error
}

// CartView renders the cart page. It holds a local copy of the cart
// that optimistic edits mutate immediately; every settled mutation
// reloads the authoritative cart so the view never stays on a value
// the server rejected.
type CartView struct {
	api       CartAPI
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator

	mu     sync.RWMutex
	cart   *domain.Cart
	closed atomic.Bool
}

func NewCartView(backend CartAPI, syncer *cart.Syncer, mutations *optimistic.Coordinator) *CartView {
	return &CartView{api: backend, syncer: syncer, mutations: mutations}
}

// Load fetches the authoritative cart and refreshes the shared
// counter.
func (v *CartView) Load(ctx context.Context) (*domain.Cart, error) {
	fetched, err := v.api.Cart(ctx)
	if err != nil {
		return nil, err
	}
	if !v.closed.Load() {
		v.mu.Lock()
		v.cart = fetched
		v.mu.Unlock()
	}
	_ = v.syncer.Resync(ctx)
	return fetched, nil
}

// Cart returns the currently rendered cart, which may be ahead of the
// server between an optimistic edit and its reconciliation.
func (v *CartView) Cart() *domain.Cart {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cart
}

// UpdateQuantity sets a line item's quantity. The rendered cart
// changes immediately; on failure the reload reverts it. Quantities
// below 1 are ignored, remove is the way to drop a line.
func (v *CartView) UpdateQuantity(ctx context.Context, itemID int64, quantity int) <-chan error {
	if quantity < 1 {
		done := make(chan error, 1)
		done <- nil
		return done
	}
	return v.mutations.Run(ctx, optimistic.Mutation{
		Name: "update-quantity",
		Apply: func() {
			v.mutateLocal(func(c *domain.Cart) {
				for i := range c.Items {
					if c.Items[i].ID == itemID {
						c.Items[i].Quantity = quantity
						return
					}
				}
			})
		},
		Call: func(ctx context.Context) error {
			_, err := v.api.UpdateCartItem(ctx, itemID, quantity)
			return err
		},
		Reconcile: v.reload,
		Rollback:  v.reload,
		Failure:   "Failed to update quantity",
	})
}

// RemoveItem drops a line item, disappearing it locally first.
func (v *CartView) RemoveItem(ctx context.Context, itemID int64) <-chan error {
	return v.mutations.Run(ctx, optimistic.Mutation{
		Name: "remove-item",
		Apply: func() {
			v.mutateLocal(func(c *domain.Cart) {
				for i, item := range c.Items {
					if item.ID == itemID {
						c.Items = append(c.Items[:i], c.Items[i+1:]...)
						return
					}
				}
			})
		},
		Call: func(ctx context.Context) error {
			_, err := v.api.RemoveCartItem(ctx, itemID)
			return err
		},
		Reconcile: v.reload,
		Rollback:  v.reload,
		Success:   "Item removed",
		Failure:   "Failed to remove item",
	})
}

// Clear empties the cart.
func (v *CartView) Clear(ctx context.Context) <-chan error {
	return v.mutations.Run(ctx, optimistic.Mutation{
		Name: "clear-cart",
		Apply: func() {
			v.mutateLocal(func(c *domain.Cart) {
				c.Items = nil
			})
		},
		Call:      v.api.ClearCart,
		Reconcile: v.reload,
		Rollback:  v.reload,
		Success:   "Cart cleared",
		Failure:   "Failed to clear cart",
	})
}

func (v *CartView) Close() {
	v.closed.Store(true)
}

// mutateLocal applies an optimistic edit to the rendered cart and
// recomputes totals. The server recomputes the truth on reload.
func (v *CartView) mutateLocal(edit func(c *domain.Cart)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cart == nil {
		return
	}
	edit(v.cart)
	v.cart.Recalculate()
}

// reload re-fetches the authoritative cart after a mutation settles.
// A closed view skips its local state but still corrects the shared
// counter.
func (v *CartView) reload(ctx context.Context) {
	fetched, err := v.api.Cart(ctx)
	if err == nil && !v.closed.Load() {
		v.mu.Lock()
		v.cart = fetched
		v.mu.Unlock()
	}
	_ = v.syncer.Resync(ctx)
}
