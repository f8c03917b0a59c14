package cart

import (
	"context"
	"errors"
	"time"

	"klickjet-storefront/internal/storage"
)

// Repository persists the anonymous cart, one per device.
type Repository interface {
	Load(ctx context.Context, deviceID string) ([]Line, error)
	Save(ctx context.Context, deviceID string, lines []Line) error
	Delete(ctx context.Context, deviceID string) error
}

type repository struct {
	store storage.Store
	ttl   time.Duration
}

func NewRepository(store storage.Store, ttl time.Duration) Repository {
	return &repository{store: store, ttl: ttl}
}

// Load returns an empty cart when nothing is stored for the device.
func (r *repository) Load(ctx context.Context, deviceID string) ([]Line, error) {
	var lines []Line
	err := r.store.Get(ctx, storage.LocalCartKey(deviceID), &lines)
	if errors.Is(err, storage.ErrNotFound) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []Line{}
	}
	return lines, nil
}

func (r *repository) Save(ctx context.Context, deviceID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	return r.store.Set(ctx, storage.LocalCartKey(deviceID), lines, r.ttl)
}

func (r *repository) Delete(ctx context.Context, deviceID string) error {
	return r.store.Delete(ctx, storage.LocalCartKey(deviceID))
}
