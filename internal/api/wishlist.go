package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

func (c *Client) Wishlist(ctx context.Context) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	if err := c.do(ctx, http.MethodGet, "/wishlist", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AddToWishlist saves a product. Adding a product that is already on
// the wishlist yields a 409 conflict, see IsConflict.
func (c *Client) AddToWishlist(ctx context.Context, productID int64) (*domain.WishlistEntry, error) {
	var entry domain.WishlistEntry
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/wishlist/%d", productID), nil, nil, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (c *Client) RemoveFromWishlist(ctx context.Context, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/wishlist/%d", productID), nil, nil, nil)
}
