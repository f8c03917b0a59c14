package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/checkout"
	"klickjet-storefront/internal/middleware"
	"klickjet-storefront/internal/payment"
	"klickjet-storefront/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testDevice = "dev-1"
	testTab    = "tab-1"

	tokenCustomer  = "tok-customer"
	tokenSeller    = "tok-seller"
	tokenAdmin     = "tok-admin"
	tokenDeliverer = "tok-deliverer"
	// known to /auth/me, refused everywhere else
	tokenStale     = "tok-stale"
)

// fakeBackend is an in-memory marketplace API.
type fakeBackend struct {
	mu sync.Mutex

	users    map[string]backend.User
	products map[string]backend.Product
	carts    map[string][]backend.CartItem
	orders   []backend.CreateOrderRequest
	calls    []string

	// product ids the cart endpoint refuses
	rejectAdd map[string]bool
	nextLine  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]backend.User{
			tokenCustomer:  {ID: "u-cust", Name: "Ana", Email: "ana@example.com", Role: "customer"},
			tokenSeller:    {ID: "u-sell", Name: "Sam", Email: "sam@example.com", Role: "seller"},
			tokenAdmin:     {ID: "u-admin", Name: "Root", Email: "root@example.com", Role: "admin"},
			tokenDeliverer: {ID: "u-del", Name: "Dan", Email: "dan@example.com", Role: "deliverer"},
			tokenStale:     {ID: "u-stale", Name: "Old", Email: "old@example.com", Role: "customer"},
		},
		products: map[string]backend.Product{
			"p1":    {ID: "p1", Title: "Rice 5kg", Price: decimal.NewFromInt(125), SellerID: "s1", Stock: 10},
			"p2":    {ID: "p2", Title: "Dhal 1kg", Price: decimal.NewFromInt(50), SellerID: "s1", Stock: 10},
			"p3":    {ID: "p3", Title: "Milk", Price: decimal.NewFromInt(80), SellerID: "s2", Stock: 10},
			"p-oos": {ID: "p-oos", Title: "Sold out", Price: decimal.NewFromInt(10), SellerID: "s1"},
		},
		carts:     map[string][]backend.CartItem{},
		rejectAdd: map[string]bool{"p-oos": true},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (f *fakeBackend) token(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) {
		return ""
	}
	return h[len(prefix):]
}

func (f *fakeBackend) record(r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
}

func (f *fakeBackend) callsSnapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) cartOf(token string) []backend.CartItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]backend.CartItem(nil), f.carts[token]...)
}

func (f *fakeBackend) seedCart(token, productID string, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addLocked(token, productID, qty)
}

func (f *fakeBackend) addLocked(token, productID string, qty int) {
	p := f.products[productID]
	f.nextLine++
	f.carts[token] = append(f.carts[token], backend.CartItem{
		ID:        fmt.Sprintf("line-%d", f.nextLine),
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Quantity:  qty,
		SellerID:  p.SellerID,
	})
}

func (f *fakeBackend) server(t *testing.T) *httptest.Server {
	r := chi.NewRouter()

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.record(r)
			next.ServeHTTP(w, r)
		})
	})

	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			_, ok := f.users[f.token(r)]
			if !ok || (f.token(r) == tokenStale && r.URL.Path != "/auth/me") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid token"})
				return
			}
			next(w, r)
		}
	}

	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in backend.Credentials
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != "ana@example.com" || in.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, backend.AuthResponse{Token: tokenCustomer, User: f.users[tokenCustomer]})
	})
	r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in backend.Registration
		_ = json.NewDecoder(r.Body).Decode(&in)
		u := backend.User{ID: "u-new", Name: in.Name, Email: in.Email, Role: in.Role}
		f.users["tok-new"] = u
		writeJSON(w, http.StatusCreated, backend.AuthResponse{Token: "tok-new", User: u})
	})
	r.Get("/auth/me", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.users[f.token(r)])
	}))
	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
		seller := r.URL.Query().Get("seller")
		out := []backend.Product{}
		for _, id := range []string{"p1", "p2", "p3"} {
			if seller == "" || f.products[id].SellerID == seller {
				out = append(out, f.products[id])
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "boom" {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "catalog offline"})
			return
		}
		p, ok := f.products[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "product not found"})
			return
		}
		writeJSON(w, http.StatusOK, p)
	})
	r.Post("/products", authed(func(w http.ResponseWriter, r *http.Request) {
		var in backend.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusCreated, backend.Product{ID: "p-new", Title: in.Title, Price: in.Price, SellerID: "u-sell"})
	}))
	r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []backend.Category{{ID: "c1", Name: "Grains"}})
	})

	r.Get("/cart", authed(func(w http.ResponseWriter, r *http.Request) {
		items := f.carts[f.token(r)]
		if items == nil {
			items = []backend.CartItem{}
		}
		writeJSON(w, http.StatusOK, backend.Cart{Items: items})
	}))
	r.Post("/cart", authed(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if f.rejectAdd[in.ProductID] {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "out of stock"})
			return
		}
		f.addLocked(f.token(r), in.ProductID, in.Quantity)
		w.WriteHeader(http.StatusCreated)
	}))
	r.Delete("/cart", authed(func(w http.ResponseWriter, r *http.Request) {
		delete(f.carts, f.token(r))
		w.WriteHeader(http.StatusNoContent)
	}))

	r.Get("/orders", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []backend.Order{{ID: "ord-1", Status: "pending"}})
	}))
	r.Post("/orders", authed(func(w http.ResponseWriter, r *http.Request) {
		var in backend.CreateOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.orders = append(f.orders, in)
		writeJSON(w, http.StatusCreated, backend.Order{
			ID:            fmt.Sprintf("ord-%d", len(f.orders)),
			Status:        "pending",
			PaymentMethod: in.PaymentMethod,
			Total:         in.Total,
		})
	}))
	r.Put("/orders/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		var in backend.OrderStatusUpdate
		_ = json.NewDecoder(r.Body).Decode(&in)
		writeJSON(w, http.StatusOK, backend.Order{ID: chi.URLParam(r, "id"), Status: in.Status})
	}))
	r.Post("/payments", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, backend.PaymentIntent{PaymentIntentID: "pi_1", ClientSecret: "pi_1_secret"})
	}))

	r.Get("/admin/sellers", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []backend.Applicant{{ID: "s9", Name: "Fresh Mart", Status: "pending"}})
	}))
	r.Put("/admin/sellers/{id}/reject", authed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r.Post("/upload", authed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, backend.UploadResult{ID: "img-1", URL: "https://img.example.com/img-1.png"})
	}))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type fixture struct {
	api    *fakeBackend
	mr     *miniredis.Miniredis
	router http.Handler
}

type fixtureOption func(*RouterConfig)

func withLimiter(rl *middleware.RateLimiter) fixtureOption {
	return func(rc *RouterConfig) { rc.Limiter = rl }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	api := newFakeBackend()
	srv := api.server(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := storage.NewRedisStore(rdb)

	client := backend.NewClient(srv.URL, 5*time.Second)
	resolver := auth.NewResolver(IdentityFetcher(client.Me), 64, 0)

	cartSvc := cart.NewService(cart.NewRepository(store, time.Hour), client, 64, 0)
	flow := checkout.NewFlow(
		checkout.NewRelay(store, time.Hour),
		cartSvc,
		client,
		payment.NewGateway(client),
		"pk_test_123",
	)

	h := New(cartSvc, flow, client, resolver, Options{
		Public: PublicConfig{
			PaymentPublishableKey: "pk_test_123",
			ImageCloudName:        "klickjet",
			ImageUploadPreset:     "products",
		},
		Timeout: 5 * time.Second,
	})

	rc := RouterConfig{CORSOrigin: "http://localhost:3000"}
	for _, opt := range opts {
		opt(&rc)
	}

	return &fixture{api: api, mr: mr, router: NewRouter(h, rc)}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.DeviceIDHeader, testDevice)
	req.Header.Set(middleware.TabIDHeader, testTab)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func validShipping() checkout.ShippingDraft {
	return checkout.ShippingDraft{
		FirstName:  "Nimal",
		LastName:   "Perera",
		Address:    "12 Galle Road",
		District:   "Colombo",
		PostalCode: "00300",
		Phone:      "0771234567",
	}
}
