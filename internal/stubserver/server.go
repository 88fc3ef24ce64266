// Package stubserver is a self-contained, in-memory stand-in for the
// Shopifyr backend. It serves the exact API surface the client
// consumes, so the client can be developed and tested without the real
// backend running.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

type Server struct {
	store  *Store
	log    zerolog.Logger
	router chi.Router
}

func New(store *Store, log zerolog.Logger) *Server {
	s := &Server{
		store: store,
		log:   log.With().Str("component", "stubserver").Logger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		// Public catalog endpoints, safe for anonymous requests.
		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.Get("/categories", s.handleListCategories)
		r.Get("/brands", s.handleListBrands)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", s.handleGetCart)
				r.Delete("/", s.handleClearCart)
				r.Post("/items", s.handleAddCartItem)
				r.Put("/items/{id}", s.handleUpdateCartItem)
				r.Delete("/items/{id}", s.handleRemoveCartItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", s.handlePlaceOrder)
				r.Get("/", s.handleListOrders)
				r.Get("/{id}", s.handleGetOrder)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/me", s.handleMe)
				r.Put("/me", s.handleUpdateProfile)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", s.handleListWishlist)
				r.Post("/{productId}", s.handleAddWishlist)
				r.Delete("/{productId}", s.handleRemoveWishlist)
			})
		})
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// requireAuth resolves the bearer token; missing or unknown tokens get
// a 401 before any handler runs.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.respondError(w, http.StatusUnauthorized, "unauthenticated", "missing user authentication")
			return
		}
		user, found := s.store.UserByToken(token)
		if !found {
			s.respondError(w, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
			return
		}
		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

type loginRequestDTO struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type authResponseDTO struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "usernameOrEmail and password are required")
		return
	}

	token, err := s.store.Authenticate(req.UsernameOrEmail, req.Password)
	if err != nil {
		s.respondError(w, http.StatusUnauthorized, "bad_credentials", "invalid username or password")
		return
	}
	s.respondJSON(w, http.StatusOK, authResponseDTO{AccessToken: token, TokenType: "Bearer"})
}

type registerRequestDTO struct {
	domain.User
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Username == "" || len(req.Password) < 6 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "email, username and a password of at least 6 characters are required")
		return
	}

	token, err := s.store.Register(req.User, req.Password)
	if errors.Is(err, ErrUsernameTaken) {
		s.respondError(w, http.StatusConflict, "already_exists", "username or email already registered")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "registration failed")
		return
	}
	s.respondJSON(w, http.StatusCreated, authResponseDTO{AccessToken: token, TokenType: "Bearer"})
}

type productPageDTO struct {
	Content       []domain.Product `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Number        int              `json:"number"`
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := productQuery{search: q.Get("search")}
	query.categoryID, _ = strconv.ParseInt(q.Get("categoryId"), 10, 64)
	query.brandID, _ = strconv.ParseInt(q.Get("brandId"), 10, 64)
	query.minPrice, _ = strconv.ParseFloat(q.Get("minPrice"), 64)
	query.maxPrice, _ = strconv.ParseFloat(q.Get("maxPrice"), 64)

	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))
	if size <= 0 {
		size = 20
	}

	matched := s.store.Products(query)
	totalPages := (len(matched) + size - 1) / size

	start := page * size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + size
	if end > len(matched) {
		end = len(matched)
	}

	s.respondJSON(w, http.StatusOK, productPageDTO{
		Content:       matched[start:end],
		TotalElements: int64(len(matched)),
		TotalPages:    totalPages,
		Number:        page,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "product id must be a positive integer")
		return
	}
	product, ok := s.store.Product(id)
	if !ok {
		s.respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	s.respondJSON(w, http.StatusOK, product)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.Categories())
}

func (s *Server) handleListBrands(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.Brands())
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	s.respondJSON(w, http.StatusOK, s.store.Cart(user.ID))
}

type addItemRequestDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req addItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		s.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	cart, err := s.store.AddCartItem(user.ID, req.ProductID, req.Quantity)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}
	s.respondJSON(w, http.StatusCreated, cart)
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || itemID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "item id must be a positive integer")
		return
	}
	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil || quantity <= 0 || quantity > 99 {
		s.respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	cart, err := s.store.UpdateCartItem(user.ID, itemID, quantity)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "cart item not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to update item")
		return
	}
	s.respondJSON(w, http.StatusOK, cart)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || itemID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "item id must be a positive integer")
		return
	}

	cart, err := s.store.RemoveCartItem(user.ID, itemID)
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "cart item not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}
	s.respondJSON(w, http.StatusOK, cart)
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	s.store.ClearCart(user.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	order, err := s.store.PlaceOrder(user.ID)
	if errors.Is(err, ErrEmptyCart) {
		s.respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty, nothing to order")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to place order")
		return
	}
	s.respondJSON(w, http.StatusCreated, order)
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	s.respondJSON(w, http.StatusOK, s.store.Orders(user.ID))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || orderID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "order id must be a positive integer")
		return
	}
	order, ok := s.store.Order(user.ID, orderID)
	if !ok {
		s.respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	s.respondJSON(w, http.StatusOK, order)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, userFromContext(r.Context()))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req domain.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	updated, err := s.store.UpdateUser(user.ID, func(u *domain.User) {
		u.FirstName = req.FirstName
		u.LastName = req.LastName
		u.PhoneNumber = req.PhoneNumber
		u.AddressLine1 = req.AddressLine1
		u.AddressLine2 = req.AddressLine2
		u.City = req.City
		u.State = req.State
		u.ZipCode = req.ZipCode
		u.Country = req.Country
	})
	if err != nil {
		s.respondError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	s.respondJSON(w, http.StatusOK, s.store.Wishlist(user.ID))
}

func (s *Server) handleAddWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "product id must be a positive integer")
		return
	}

	entry, err := s.store.AddToWishlist(user.ID, productID)
	if errors.Is(err, ErrAlreadyWishlisted) {
		s.respondError(w, http.StatusConflict, "already_exists", "product already in wishlist")
		return
	}
	if errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "internal_error", "failed to add to wishlist")
		return
	}
	s.respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleRemoveWishlist(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || productID <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid_request", "product id must be a positive integer")
		return
	}
	if err := s.store.RemoveFromWishlist(user.ID, productID); errors.Is(err, ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "not_found", "product not in wishlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errorResponseDTO struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponseDTO{Error: message, Code: code})
}
