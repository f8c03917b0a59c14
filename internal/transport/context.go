package transport

import (
	"context"

	"klickjet-storefront/internal/auth"
)

type ctxKey string

const shopperKey ctxKey = "shopper"

// Shopper identifies who a request acts for. DeviceID scopes the anonymous
// cart (browser local storage), TabID scopes the checkout relay (browser
// session storage). Identity is nil for anonymous sessions.
type Shopper struct {
	DeviceID string
	TabID    string
	Token    string
	Identity *auth.Identity
}

func (s Shopper) Authenticated() bool {
	return s.Identity != nil && s.Token != ""
}

func WithShopper(ctx context.Context, s Shopper) context.Context {
	return context.WithValue(ctx, shopperKey, s)
}

func ShopperFrom(ctx context.Context) (Shopper, bool) {
	s, ok := ctx.Value(shopperKey).(Shopper)
	return s, ok
}
