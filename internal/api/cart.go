package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

type addItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// Cart fetches the authoritative cart. Requires authentication.
func (c *Client) Cart(ctx context.Context) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, productID int64, quantity int) (*domain.Cart, error) {
	var cart domain.Cart
	req := addItemRequest{ProductID: productID, Quantity: quantity}
	if err := c.do(ctx, http.MethodPost, "/cart/items", nil, req, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// UpdateCartItem sets the quantity of an existing line item. The
// backend takes the quantity as a query parameter, not a body.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*domain.Cart, error) {
	var cart domain.Cart
	q := url.Values{"quantity": []string{strconv.Itoa(quantity)}}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cart/items/%d", itemID), q, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) RemoveCartItem(ctx context.Context, itemID int64) (*domain.Cart, error) {
	var cart domain.Cart
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/cart/items/%d", itemID), nil, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/cart", nil, nil, nil)
}
