package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/alienx5499/Shopifyr/internal/domain"
)

// ProductFilter narrows the catalog listing. Zero values mean "no
// filter" for that dimension.
type ProductFilter struct {
	Page       int
	Size       int
	CategoryID int64
	BrandID    int64
	MinPrice   float64
	MaxPrice   float64
	Search     string
}

func (f ProductFilter) query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Size > 0 {
		q.Set("size", strconv.Itoa(f.Size))
	}
	if f.CategoryID > 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}
	if f.BrandID > 0 {
		q.Set("brandId", strconv.FormatInt(f.BrandID, 10))
	}
	if f.MinPrice > 0 {
		q.Set("minPrice", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		q.Set("maxPrice", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Content       []domain.Product `json:"content"`
	TotalElements int64            `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
	Number        int              `json:"number"`
}

func (c *Client) Products(ctx context.Context, filter ProductFilter) (*ProductPage, error) {
	var page ProductPage
	if err := c.do(ctx, http.MethodGet, "/products", filter.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := c.do(ctx, http.MethodGet, "/brands", nil, nil, &brands); err != nil {
		return nil, err
	}
	return brands, nil
}
