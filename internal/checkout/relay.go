package checkout

import (
	"context"
	"errors"
	"time"

	"klickjet-storefront/internal/storage"
)

// Relay is the per-tab session store the checkout pages hand data through.
// Every key expires after ttl, like browser session storage.
type Relay struct {
	store storage.Store
	ttl   time.Duration
}

func NewRelay(store storage.Store, ttl time.Duration) *Relay {
	return &Relay{store: store, ttl: ttl}
}

// load decodes slot into dst and reports whether it was present.
func (r *Relay) load(ctx context.Context, tabID, slot string, dst any) (bool, error) {
	err := r.store.Get(ctx, storage.SessionKey(tabID, slot), dst)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *Relay) save(ctx context.Context, tabID, slot string, v any) error {
	return r.store.Set(ctx, storage.SessionKey(tabID, slot), v, r.ttl)
}

func (r *Relay) drop(ctx context.Context, tabID, slot string) error {
	return r.store.Delete(ctx, storage.SessionKey(tabID, slot))
}

func (r *Relay) Shipping(ctx context.Context, tabID string) (*ShippingDraft, error) {
	var d ShippingDraft
	ok, err := r.load(ctx, tabID, storage.SlotShipping, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (r *Relay) SetShipping(ctx context.Context, tabID string, d ShippingDraft) error {
	return r.save(ctx, tabID, storage.SlotShipping, d)
}

func (r *Relay) DeleteShipping(ctx context.Context, tabID string) error {
	return r.drop(ctx, tabID, storage.SlotShipping)
}

func (r *Relay) Backup(ctx context.Context, tabID string) (*ShippingDraft, error) {
	var d ShippingDraft
	ok, err := r.load(ctx, tabID, storage.SlotShippingDeleted, &d)
	if err != nil || !ok {
		return nil, err
	}
	return &d, nil
}

func (r *Relay) HasBackup(ctx context.Context, tabID string) (bool, error) {
	return r.store.Exists(ctx, storage.SessionKey(tabID, storage.SlotShippingDeleted))
}

func (r *Relay) SetBackup(ctx context.Context, tabID string, d ShippingDraft) error {
	return r.save(ctx, tabID, storage.SlotShippingDeleted, d)
}

func (r *Relay) DeleteBackup(ctx context.Context, tabID string) error {
	return r.drop(ctx, tabID, storage.SlotShippingDeleted)
}

func (r *Relay) Completed(ctx context.Context, tabID string) (bool, error) {
	var done bool
	ok, err := r.load(ctx, tabID, storage.SlotOrderCompleted, &done)
	if err != nil || !ok {
		return false, err
	}
	return done, nil
}

func (r *Relay) SetCompleted(ctx context.Context, tabID string) error {
	return r.save(ctx, tabID, storage.SlotOrderCompleted, true)
}

func (r *Relay) DeleteCompleted(ctx context.Context, tabID string) error {
	return r.drop(ctx, tabID, storage.SlotOrderCompleted)
}

func (r *Relay) OrderDraft(ctx context.Context, tabID string) (*OrderDraft, error) {
	var o OrderDraft
	ok, err := r.load(ctx, tabID, storage.SlotOrderDraft, &o)
	if err != nil || !ok {
		return nil, err
	}
	return &o, nil
}

func (r *Relay) SetOrderDraft(ctx context.Context, tabID string, o OrderDraft) error {
	return r.save(ctx, tabID, storage.SlotOrderDraft, o)
}

// State returns StateNoCart when nothing, or something unknown, is stored.
func (r *Relay) State(ctx context.Context, tabID string) (State, error) {
	var s State
	ok, err := r.load(ctx, tabID, storage.SlotCheckoutState, &s)
	if err != nil {
		return StateNoCart, err
	}
	if !ok || !s.Valid() {
		return StateNoCart, nil
	}
	return s, nil
}

func (r *Relay) SetState(ctx context.Context, tabID string, s State) error {
	return r.save(ctx, tabID, storage.SlotCheckoutState, s)
}

func (r *Relay) pendingOrder(ctx context.Context, tabID string) (*pendingOrder, error) {
	var p pendingOrder
	ok, err := r.load(ctx, tabID, storage.SlotPendingOrder, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

func (r *Relay) setPendingOrder(ctx context.Context, tabID string, p pendingOrder) error {
	return r.save(ctx, tabID, storage.SlotPendingOrder, p)
}

func (r *Relay) deletePendingOrder(ctx context.Context, tabID string) error {
	return r.drop(ctx, tabID, storage.SlotPendingOrder)
}
