package stubserver

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrUsernameTaken     = errors.New("username or email already registered")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrAlreadyWishlisted = errors.New("product already in wishlist")
)

type userRecord struct {
	domain.User
	password string
}

// Store is the in-memory state behind the stub backend. Tokens are
// opaque UUIDs issued at login and never expire; good enough for a
// development stand-in.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]*userRecord
	byUsername map[string]int64
	byEmail    map[string]int64
	tokens     map[string]int64 // token -> userID
	products   []domain.Product
	categories []domain.Category
	brands     []domain.Brand
	carts      map[int64]*domain.Cart
	orders     map[int64][]domain.Order
	wishlists  map[int64]map[int64]domain.WishlistEntry
	nextID     int64
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*userRecord),
		byUsername: make(map[string]int64),
		byEmail:    make(map[string]int64),
		tokens:     make(map[string]int64),
		carts:      make(map[int64]*domain.Cart),
		orders:     make(map[int64][]domain.Order),
		wishlists:  make(map[int64]map[int64]domain.WishlistEntry),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Register creates a user and returns a fresh token.
func (s *Store) Register(u domain.User, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[u.Username]; taken {
		return "", ErrUsernameTaken
	}
	if _, taken := s.byEmail[u.Email]; taken {
		return "", ErrUsernameTaken
	}

	u.ID = s.id()
	s.users[u.ID] = &userRecord{User: u, password: password}
	s.byUsername[u.Username] = u.ID
	s.byEmail[u.Email] = u.ID

	token := uuid.NewString()
	s.tokens[token] = u.ID
	return token, nil
}

// Authenticate matches the login identifier against username or email.
func (s *Store) Authenticate(usernameOrEmail, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUsername[usernameOrEmail]
	if !ok {
		id, ok = s.byEmail[usernameOrEmail]
	}
	if !ok {
		return "", ErrBadCredentials
	}
	if s.users[id].password != password {
		return "", ErrBadCredentials
	}

	token := uuid.NewString()
	s.tokens[token] = id
	return token, nil
}

// UserByToken resolves a bearer token to its user.
func (s *Store) UserByToken(token string) (*domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u := s.users[id].User
	return &u, true
}

// RevokeToken drops a token; subsequent requests with it get a 401.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

func (s *Store) UpdateUser(userID int64, apply func(*domain.User)) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	apply(&rec.User)
	u := rec.User
	return &u, nil
}

// SeedCatalog replaces the product, category and brand listings.
func (s *Store) SeedCatalog(products []domain.Product, categories []domain.Category, brands []domain.Brand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.categories = categories
	s.brands = brands
}

type productQuery struct {
	categoryID int64
	brandID    int64
	minPrice   float64
	maxPrice   float64
	search     string
}

func (s *Store) Products(q productQuery) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		if q.categoryID > 0 && p.CategoryID != q.categoryID {
			continue
		}
		if q.brandID > 0 && p.BrandID != q.brandID {
			continue
		}
		if q.minPrice > 0 && p.Price < q.minPrice {
			continue
		}
		if q.maxPrice > 0 && p.Price > q.maxPrice {
			continue
		}
		if q.search != "" {
			needle := strings.ToLower(q.search)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		matched = append(matched, p)
	}
	return matched
}

func (s *Store) Product(id int64) (*domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return &p, true
		}
	}
	return nil, false
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

func (s *Store) Brands() []domain.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Brand(nil), s.brands...)
}

// Cart returns the user's cart, creating an empty one on first read.
func (s *Store) Cart(userID int64) *domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartLocked(userID).clone()
}

func (s *Store) cartLocked(userID int64) *cartState {
	c, ok := s.carts[userID]
	if !ok {
		c = &domain.Cart{ID: s.id(), UserID: userID}
		s.carts[userID] = c
	}
	return (*cartState)(c)
}

// cartState adds store-internal helpers to a cart without polluting
// the shared domain type.
type cartState domain.Cart

func (c *cartState) clone() *domain.Cart {
	out := domain.Cart(*c)
	out.Items = append([]domain.CartItem(nil), c.Items...)
	(&out).Recalculate()
	return &out
}

func (s *Store) AddCartItem(userID, productID int64, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var product *domain.Product
	for _, p := range s.products {
		if p.ID == productID {
			product = &p
			break
		}
	}
	if product == nil {
		return nil, ErrNotFound
	}

	c := s.cartLocked(userID)
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return c.clone(), nil
		}
	}
	c.Items = append(c.Items, domain.CartItem{
		ID:          s.id(),
		ProductID:   productID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
	})
	return c.clone(), nil
}

func (s *Store) UpdateCartItem(userID, itemID int64, quantity int) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return c.clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) RemoveCartItem(userID, itemID int64) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	for i, item := range c.Items {
		if item.ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return c.clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) ClearCart(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartLocked(userID).Items = nil
}

// PlaceOrder converts the user's cart into an order and empties the
// cart, mirroring the real backend's checkout semantics.
func (s *Store) PlaceOrder(userID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartLocked(userID)
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now()
	order := domain.Order{
		ID:                    s.id(),
		UserID:                userID,
		Status:                domain.OrderStatusConfirmed,
		CreatedAt:             now,
		EstimatedDeliveryDate: now.AddDate(0, 0, 5),
	}
	for _, item := range c.Items {
		subtotal := float64(item.Quantity) * item.UnitPrice
		order.Items = append(order.Items, domain.OrderItem{
			ID:          s.id(),
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    subtotal,
		})
		order.TotalAmount += subtotal
	}

	c.Items = nil
	s.orders[userID] = append(s.orders[userID], order)
	return &order, nil
}

func (s *Store) Orders(userID int64) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.orders[userID]...)
}

func (s *Store) Order(userID, orderID int64) (*domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders[userID] {
		if o.ID == orderID {
			return &o, true
		}
	}
	return nil, false
}

// AddToWishlist saves a product for the user. A second add of the same
// product is a conflict, not an idempotent success: the client renders
// "already done" differently from "done".
func (s *Store) AddToWishlist(userID, productID int64) (*domain.WishlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := func() (*domain.Product, bool) {
		for _, p := range s.products {
			if p.ID == productID {
				return &p, true
			}
		}
		return nil, false
	}()
	if !ok {
		return nil, ErrNotFound
	}

	wl, exists := s.wishlists[userID]
	if !exists {
		wl = make(map[int64]domain.WishlistEntry)
		s.wishlists[userID] = wl
	}
	if _, dup := wl[productID]; dup {
		return nil, ErrAlreadyWishlisted
	}

	entry := domain.WishlistEntry{
		ID:        s.id(),
		Product:   *product,
		CreatedAt: time.Now(),
	}
	wl[productID] = entry
	return &entry, nil
}

func (s *Store) RemoveFromWishlist(userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wl := s.wishlists[userID]
	if _, ok := wl[productID]; !ok {
		return ErrNotFound
	}
	delete(wl, productID)
	return nil
}

func (s *Store) Wishlist(userID int64) []domain.WishlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.WishlistEntry, 0, len(s.wishlists[userID]))
	for _, e := range s.wishlists[userID] {
		entries = append(entries, e)
	}
	return entries
}
