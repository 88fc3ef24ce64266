package stubserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := NewStore()
	SeedDemo(store)
	srv := httptest.NewServer(New(store, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, raw
}

func loginDemo(t *testing.T, baseURL string) string {
	t.Helper()
	resp, raw := doJSON(t, http.MethodPost, baseURL+"/api/auth/login", "", map[string]string{
		"usernameOrEmail": "demo",
		"password":        "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var auth struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	require.NoError(t, json.Unmarshal(raw, &auth))
	require.NotEmpty(t, auth.AccessToken)
	require.Equal(t, "Bearer", auth.TokenType)
	return auth.AccessToken
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", map[string]string{
		"usernameOrEmail": "demo",
		"password":        "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "bad_credentials")
}

func TestRegisterAndDuplicate(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]string{
		"username": "newbie",
		"email":    "newbie@example.com",
		"password": "secret123",
	}
	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "accessToken")

	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "already_exists")
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/cart", "/api/orders", "/api/users/me", "/api/wishlist"} {
		resp, raw := doJSON(t, http.MethodGet, srv.URL+path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Contains(t, string(raw), "unauthenticated", path)
	}

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/cart", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCatalogIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/products", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Content       []domain.Product `json:"content"`
		TotalElements int64            `json:"totalElements"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.NotEmpty(t, page.Content)
	assert.Equal(t, int64(len(page.Content)), page.TotalElements)
}

func TestProductFiltering(t *testing.T) {
	srv := newTestServer(t)

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/products?categoryId=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page struct {
		Content []domain.Product `json:"content"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	require.NotEmpty(t, page.Content)
	for _, p := range page.Content {
		assert.Equal(t, int64(1), p.CategoryID)
	}
}

func TestCartLifecycle(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	// Empty to start.
	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Empty(t, cart.Items)

	// Add twice: same product merges into one line.
	add := map[string]any{"productId": 101, "quantity": 2}
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", token, add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp, raw = doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", token, add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assert.Equal(t, cart.Items[0].Subtotal, cart.TotalAmount)

	// Update quantity via query param.
	itemID := cart.Items[0].ID
	resp, raw = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/cart/items/%d?quantity=1", srv.URL, itemID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Equal(t, 1, cart.Items[0].Quantity)

	// Remove the line.
	resp, raw = doJSON(t, http.MethodDelete, fmt.Sprintf("%s/api/cart/items/%d", srv.URL, itemID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Empty(t, cart.Items)
}

func TestCartQuantityValidation(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	for _, quantity := range []int{0, -1, 100} {
		resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", token, map[string]any{
			"productId": 101,
			"quantity":  quantity,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(raw), "invalid_quantity")
	}
}

func TestPlaceOrderEmptiesCart(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/cart/items", token, map[string]any{
		"productId": 102, "quantity": 3,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order domain.Order
	require.NoError(t, json.Unmarshal(raw, &order))
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(raw, &cart))
	assert.Empty(t, cart.Items)

	// The order shows up in history.
	resp, raw = doJSON(t, http.MethodGet, fmt.Sprintf("%s/api/orders/%d", srv.URL, order.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/orders", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "empty_cart")
}

func TestWishlistDuplicateConflicts(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/wishlist/101", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/api/wishlist/101", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "already_exists")

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/wishlist/101", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	srv := newTestServer(t)
	token := loginDemo(t, srv.URL)

	resp, raw := doJSON(t, http.MethodPut, srv.URL+"/api/users/me", token, map[string]string{
		"firstName": "Demo",
		"city":      "Lisbon",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user domain.User
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "Lisbon", user.City)

	resp, raw = doJSON(t, http.MethodGet, srv.URL+"/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(raw, &user))
	assert.Equal(t, "Lisbon", user.City)
}
