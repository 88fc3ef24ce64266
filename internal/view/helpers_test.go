package view

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/domain"
	"github.com/alienx5499/Shopifyr/internal/notify"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
)

// fakeBackend implements every view API interface through overridable
// funcs; nil funcs behave as benign defaults.
type fakeBackend struct {
	mu        sync.Mutex
	cart      *domain.Cart
	cartCalls int

	productFn       func(ctx context.Context, id int64) (*domain.Product, error)
	productsFn      func(ctx context.Context, filter api.ProductFilter) (*api.ProductPage, error)
	addCartItemFn   func(ctx context.Context, productID int64, quantity int) (*domain.Cart, error)
	updateItemFn    func(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error)
	removeItemFn    func(ctx context.Context, itemID int64) (*domain.Cart, error)
	clearCartFn     func(ctx context.Context) error
	addWishlistFn   func(ctx context.Context, productID int64) (*domain.WishlistEntry, error)
	placeOrderFn    func(ctx context.Context) (*domain.Order, error)
	meFn            func(ctx context.Context) (*domain.User, error)
	loginFn         func(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	registerFn      func(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	ordersFn        func(ctx context.Context) ([]domain.Order, error)
	orderFn         func(ctx context.Context, id int64) (*domain.Order, error)
	updateProfileFn func(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error)
	wishlistFn      func(ctx context.Context) ([]domain.WishlistEntry, error)
	removeWishFn    func(ctx context.Context, productID int64) error
}

func (f *fakeBackend) setCart(c *domain.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cart = c
}

func (f *fakeBackend) Cart(ctx context.Context) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cartCalls++
	if f.cart == nil {
		return &domain.Cart{}, nil
	}
	clone := *f.cart
	clone.Items = append([]domain.CartItem(nil), f.cart.Items...)
	return &clone, nil
}

func (f *fakeBackend) Products(ctx context.Context, filter api.ProductFilter) (*api.ProductPage, error) {
	if f.productsFn != nil {
		return f.productsFn(ctx, filter)
	}
	return &api.ProductPage{}, nil
}

func (f *fakeBackend) Product(ctx context.Context, id int64) (*domain.Product, error) {
	if f.productFn != nil {
		return f.productFn(ctx, id)
	}
	return &domain.Product{ID: id}, nil
}

func (f *fakeBackend) Categories(ctx context.Context) ([]domain.Category, error) { return nil, nil }
func (f *fakeBackend) Brands(ctx context.Context) ([]domain.Brand, error)        { return nil, nil }

func (f *fakeBackend) AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	if f.addCartItemFn != nil {
		return f.addCartItemFn(ctx, productID, quantity)
	}
	return f.Cart(ctx)
}

func (f *fakeBackend) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	if f.updateItemFn != nil {
		return f.updateItemFn(ctx, itemID, quantity)
	}
	return f.Cart(ctx)
}

func (f *fakeBackend) RemoveCartItem(ctx context.Context, itemID int64) (*domain.Cart, error) {
	if f.removeItemFn != nil {
		return f.removeItemFn(ctx, itemID)
	}
	return f.Cart(ctx)
}

func (f *fakeBackend) ClearCart(ctx context.Context) error {
	if f.clearCartFn != nil {
		return f.clearCartFn(ctx)
	}
	return nil
}

func (f *fakeBackend) AddToWishlist(ctx context.Context, productID int64) (*domain.WishlistEntry, error) {
	if f.addWishlistFn != nil {
		return f.addWishlistFn(ctx, productID)
	}
	return &domain.WishlistEntry{Product: domain.Product{ID: productID}}, nil
}

func (f *fakeBackend) RemoveFromWishlist(ctx context.Context, productID int64) error {
	if f.removeWishFn != nil {
		return f.removeWishFn(ctx, productID)
	}
	return nil
}

func (f *fakeBackend) Wishlist(ctx context.Context) ([]domain.WishlistEntry, error) {
	if f.wishlistFn != nil {
		return f.wishlistFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) PlaceOrder(ctx context.Context) (*domain.Order, error) {
	if f.placeOrderFn != nil {
		return f.placeOrderFn(ctx)
	}
	return &domain.Order{ID: 1}, nil
}

func (f *fakeBackend) Orders(ctx context.Context) ([]domain.Order, error) {
	if f.ordersFn != nil {
		return f.ordersFn(ctx)
	}
	return nil, nil
}

func (f *fakeBackend) Order(ctx context.Context, id int64) (*domain.Order, error) {
	if f.orderFn != nil {
		return f.orderFn(ctx, id)
	}
	return &domain.Order{ID: id}, nil
}

func (f *fakeBackend) Me(ctx context.Context) (*domain.User, error) {
	if f.meFn != nil {
		return f.meFn(ctx)
	}
	return &domain.User{Username: "demo"}, nil
}

func (f *fakeBackend) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*domain.User, error) {
	if f.updateProfileFn != nil {
		return f.updateProfileFn(ctx, req)
	}
	return &domain.User{Username: "demo"}, nil
}

func (f *fakeBackend) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, req)
	}
	return &api.AuthResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
}

func (f *fakeBackend) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return &api.AuthResponse{AccessToken: "tok", TokenType: "Bearer"}, nil
}

type spyNav struct {
	mu      sync.Mutex
	current string
	visits  []string
}

func (n *spyNav) To(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = route
	n.visits = append(n.visits, route)
}

func (n *spyNav) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *spyNav) allVisits() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.visits...)
}

type toastRecorder struct {
	mu       sync.Mutex
	messages []string
}

func (n *toastRecorder) Success(msg string) { n.record("success: " + msg) }
func (n *toastRecorder) Error(msg string)   { n.record("error: " + msg) }
func (n *toastRecorder) Degraded(bool)      {}

func (n *toastRecorder) record(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, msg)
}

func (n *toastRecorder) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixedToken struct{ token string }

func (s *fixedToken) Token() string { return s.token }

// harness wires a real syncer and coordinator over the fake backend.
type harness struct {
	backend   *fakeBackend
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator
	notifier  *toastRecorder
	nav       *spyNav
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := &fakeBackend{}
	notifier := &toastRecorder{}
	return &harness{
		backend:   backend,
		syncer:    cart.NewSyncer(backend, &fixedToken{token: "tok"}, notify.Noop{}, zerolog.Nop()),
		mutations: optimistic.NewCoordinator(notifier, zerolog.Nop()),
		notifier:  notifier,
		nav:       &spyNav{},
	}
}
