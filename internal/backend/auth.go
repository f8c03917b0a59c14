package backend

import (
	"context"
	"net/http"
)

func (c *Client) Login(ctx context.Context, in Credentials) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", "", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, in Registration) (*AuthResponse, error) {
	var res AuthResponse
	if err := c.do(ctx, "auth.register", http.MethodPost, "/auth/register", "", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var u User
	if err := c.do(ctx, "auth.me", http.MethodGet, "/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "auth.logout", http.MethodPost, "/auth/logout", token, nil, nil)
}
