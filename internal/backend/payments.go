package backend

import (
	"context"
	"net/http"
)

func (c *Client) CreatePaymentIntent(ctx context.Context, token string, in PaymentIntentRequest) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := c.do(ctx, "payments.create", http.MethodPost, "/payments", token, in, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
