package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func (q ProductQuery) encode() string {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.CategoryID != "" {
		v.Set("category", q.CategoryID)
	}
	if q.SellerID != "" {
		v.Set("seller", q.SellerID)
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, "products.list", http.MethodGet, "/products"+q.encode(), "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.do(ctx, "products.get", http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, token string, in ProductInput) (*Product, error) {
	var p Product
	if err := c.do(ctx, "products.create", http.MethodPost, "/products", token, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token, id string, in ProductInput) (*Product, error) {
	var p Product
	if err := c.do(ctx, "products.update", http.MethodPut, "/products/"+url.PathEscape(id), token, in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	return c.do(ctx, "products.delete", http.MethodDelete, "/products/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, "categories.list", http.MethodGet, "/categories", "", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}
