package backend

import (
	"context"
	"net/http"
	"net/url"
)

type addCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (c *Client) GetCart(ctx context.Context, token string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, "cart.get", http.MethodGet, "/cart", token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (c *Client) AddCartItem(ctx context.Context, token, productID string, quantity int) error {
	return c.do(ctx, "cart.add", http.MethodPost, "/cart", token,
		addCartItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) UpdateCartItem(ctx context.Context, token, lineID string, quantity int) error {
	return c.do(ctx, "cart.update", http.MethodPut, "/cart/"+url.PathEscape(lineID), token,
		updateCartItemRequest{Quantity: quantity}, nil)
}

func (c *Client) RemoveCartItem(ctx context.Context, token, lineID string) error {
	return c.do(ctx, "cart.remove", http.MethodDelete, "/cart/"+url.PathEscape(lineID), token, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, "cart.clear", http.MethodDelete, "/cart", token, nil, nil)
}
