package view

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/nav"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
)

// ErrEmptyCart means there is nothing to check out; the user is sent
// back to the cart view.
var ErrEmptyCart = errors.New("cart is empty, nothing to check out")

type CheckoutAPI interface {
	Cart(ctx context.Context) (*domain.Cart, error)
	Me(ctx context.Context) (*domain.User, error)
	PlaceOrder(ctx context.Context) (*domain.Order, error)
}

// Checkout loads the order summary and places the order.
type Checkout struct {
	api       CheckoutAPI
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator
	nav       nav.Navigator
	closed    atomic.Bool
}

func NewCheckout(backend CheckoutAPI, syncer *cart.Syncer, mutations *optimistic.Coordinator, navigator nav.Navigator) *Checkout {
	return &Checkout{api: backend, syncer: syncer, mutations: mutations, nav: navigator}
}

// Load fetches the cart and the shipping profile. An empty cart sends
// the user back to the cart view. The profile is best effort; a
// missing profile only means empty form fields.
func (v *Checkout) Load(ctx context.Context) (*domain.Cart, *domain.User, error) {
	fetched, err := v.api.Cart(ctx)
	if err != nil {
		return nil, nil, err
	}
	if fetched.IsEmpty() {
		if !v.closed.Load() {
			v.nav.To(nav.RouteCart)
		}
		return nil, nil, ErrEmptyCart
	}

	user, errMe := v.api.Me(ctx)
	if errMe != nil {
		user = nil
	}
	return fetched, user, nil
}

// PlaceOrder submits the order and, on success, navigates to the new
// order's detail view and resyncs the counter (the backend empties the
// cart as part of the operation).
func (v *Checkout) PlaceOrder(ctx context.Context) <-chan error {
	var placed *domain.Order
	return v.mutations.Run(ctx, optimistic.Mutation{
		Name: "place-order",
		Call: func(ctx context.Context) error {
			order, err := v.api.PlaceOrder(ctx)
			if err != nil {
				return err
			}
			placed = order
			return nil
		},
		Reconcile: func(ctx context.Context) {
			_ = v.syncer.Resync(ctx)
			if placed != nil && !v.closed.Load() {
				v.nav.To(nav.RouteOrder(placed.ID))
			}
		},
		Success: "Order placed",
		Failure: "Order failed",
	})
}

func (v *Checkout) Close() {
	v.closed.Store(true)
}
