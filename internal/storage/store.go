// Package storage persists the browser-storage shaped state the storefront
// keeps on behalf of shoppers: the anonymous cart ("local storage", per
// device) and the checkout relay ("session storage", per tab).
package storage

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a JSON key-value store. Values are encoded as JSON on Set and
// decoded into dst on Get.
type Store interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
}
