package cart

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/storage"
	"klickjet-storefront/internal/transport"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func setupStore(t *testing.T) (storage.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStore(client), mr
}

func anonCtx(deviceID string) context.Context {
	return transport.WithShopper(context.Background(), transport.Shopper{DeviceID: deviceID, TabID: "tab-1"})
}

func authCtx(deviceID, userID, token string) context.Context {
	return transport.WithShopper(context.Background(), transport.Shopper{
		DeviceID: deviceID,
		TabID:    "tab-1",
		Token:    token,
		Identity: &auth.Identity{UserID: userID, Role: auth.RoleCustomer},
	})
}

func candidate(id, seller string, price int64) Candidate {
	return Candidate{
		ProductID: id,
		Title:     "Product " + id,
		Price:     decimal.NewFromInt(price),
		SellerID:  seller,
	}
}

// MockBackend is a mock implementation of the Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetCart(ctx context.Context, token string) (*backend.Cart, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Cart), args.Error(1)
}

func (m *MockBackend) AddCartItem(ctx context.Context, token, productID string, quantity int) error {
	args := m.Called(ctx, token, productID, quantity)
	return args.Error(0)
}

func (m *MockBackend) UpdateCartItem(ctx context.Context, token, lineID string, quantity int) error {
	args := m.Called(ctx, token, lineID, quantity)
	return args.Error(0)
}

func (m *MockBackend) RemoveCartItem(ctx context.Context, token, lineID string) error {
	args := m.Called(ctx, token, lineID)
	return args.Error(0)
}

func (m *MockBackend) ClearCart(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// fakeServerCart is an in-memory server cart that can fail adds per product.
type fakeServerCart struct {
	mu       sync.Mutex
	items    []backend.CartItem
	nextID   int
	failAdd  map[string]bool
	addCalls []string
}

func newFakeServerCart(failing ...string) *fakeServerCart {
	f := &fakeServerCart{failAdd: map[string]bool{}}
	for _, p := range failing {
		f.failAdd[p] = true
	}
	return f
}

func (f *fakeServerCart) GetCart(ctx context.Context, token string) (*backend.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]backend.CartItem, len(f.items))
	copy(items, f.items)
	return &backend.Cart{Items: items}, nil
}

func (f *fakeServerCart) AddCartItem(ctx context.Context, token, productID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls = append(f.addCalls, productID)
	if f.failAdd[productID] {
		return &backend.APIError{StatusCode: http.StatusBadRequest, Message: "Product out of stock"}
	}
	f.nextID++
	f.items = append(f.items, backend.CartItem{
		ID:        fmt.Sprintf("line-%d", f.nextID),
		ProductID: productID,
		Title:     "Product " + productID,
		Price:     decimal.NewFromInt(100),
		Quantity:  quantity,
		SellerID:  "s1",
	})
	return nil
}

func (f *fakeServerCart) UpdateCartItem(ctx context.Context, token, lineID string, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == lineID {
			f.items[i].Quantity = quantity
		}
	}
	return nil
}

func (f *fakeServerCart) RemoveCartItem(ctx context.Context, token, lineID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, it := range f.items {
		if it.ID != lineID {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeServerCart) ClearCart(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = nil
	return nil
}
