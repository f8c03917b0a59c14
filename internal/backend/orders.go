package backend

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) CreateOrder(ctx context.Context, token string, in CreateOrderRequest) (*Order, error) {
	var o Order
	if err := c.do(ctx, "orders.create", http.MethodPost, "/orders", token, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// ListOrders returns the orders visible to the token's role: own orders for
// customers, shop orders for sellers, assigned orders for deliverers.
func (c *Client) ListOrders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "orders.list", http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, token, orderID, status string) (*Order, error) {
	var o Order
	if err := c.do(ctx, "orders.update", http.MethodPut, "/orders/"+url.PathEscape(orderID), token,
		OrderStatusUpdate{Status: status}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}
