package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/transport"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestCors(t *testing.T) {
	handler := CORS("http://localhost:3000")(http.HandlerFunc(okHandler))

	t.Run("OPTIONS request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), TabIDHeader)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Normal request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSession(t *testing.T) {
	var got transport.Shopper
	handler := Session(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = transport.ShopperFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("Generates ids when missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.NotEmpty(t, got.DeviceID)
		assert.NotEmpty(t, got.TabID)
		assert.NotEqual(t, got.DeviceID, got.TabID)
		assert.Equal(t, got.DeviceID, w.Header().Get(DeviceIDHeader))

		cookies := map[string]*http.Cookie{}
		for _, c := range w.Result().Cookies() {
			cookies[c.Name] = c
		}
		require.Contains(t, cookies, deviceCookie)
		require.Contains(t, cookies, tabCookie)
		assert.Greater(t, cookies[deviceCookie].MaxAge, 0)
		assert.Zero(t, cookies[tabCookie].MaxAge)
	})

	t.Run("Headers win", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(DeviceIDHeader, "dev-1")
		req.Header.Set(TabIDHeader, "tab-1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "dev-1", got.DeviceID)
		assert.Equal(t, "tab-1", got.TabID)
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("Cookies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: deviceCookie, Value: "dev-2"})
		req.AddCookie(&http.Cookie{Name: tabCookie, Value: "tab-2"})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, "dev-2", got.DeviceID)
		assert.Equal(t, "tab-2", got.TabID)
	})
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestIdentity(t *testing.T) {
	resolver := auth.NewResolver(func(ctx context.Context, token string) (*auth.Identity, error) {
		if token == "rejected" {
			return nil, errors.New("401")
		}
		return &auth.Identity{UserID: "user-1", Role: auth.RoleCustomer}, nil
	}, 16, 0)

	var got transport.Shopper
	handler := Session(false)(Identity(resolver, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = transport.ShopperFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("Missing Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, got.Authenticated())
		assert.NotEmpty(t, got.DeviceID)
	})

	t.Run("Valid Token", func(t *testing.T) {
		token := signedToken(t, time.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set(DeviceIDHeader, "dev-1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		require.True(t, got.Authenticated())
		assert.Equal(t, "user-1", got.Identity.UserID)
		assert.Equal(t, token, got.Token)
		assert.Equal(t, "dev-1", got.DeviceID)
	})

	t.Run("Rejected Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("Authorization", "Bearer rejected")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, got.Authenticated())
	})

	t.Run("Expired Token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: signedToken(t, time.Now().Add(-time.Hour))})
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.False(t, got.Authenticated())

		var cleared bool
		for _, c := range w.Result().Cookies() {
			if c.Name == auth.AccessTokenCookie && c.MaxAge < 0 {
				cleared = true
			}
		}
		assert.True(t, cleared)
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(auth.RoleSeller, auth.RoleAdmin)(http.HandlerFunc(okHandler))

	withShopper := func(sh transport.Shopper) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/seller/orders", nil)
		return req.WithContext(transport.WithShopper(req.Context(), sh))
	}

	t.Run("Anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withShopper(transport.Shopper{DeviceID: "dev-1"}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
	})

	t.Run("WrongRole", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withShopper(transport.Shopper{Token: "tok", Identity: &auth.Identity{UserID: "u1", Role: auth.RoleCustomer}}))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, withShopper(transport.Shopper{Token: "tok", Identity: &auth.Identity{UserID: "u1", Role: auth.RoleSeller}}))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AnyUser", func(t *testing.T) {
		w := httptest.NewRecorder()
		RequireRole()(http.HandlerFunc(okHandler)).ServeHTTP(w,
			withShopper(transport.Shopper{Token: "tok", Identity: &auth.Identity{UserID: "u1", Role: auth.RoleDeliverer}}))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("StrictTierForAuth", func(t *testing.T) {
		rl := NewRateLimiter()
		handler := rl.Middleware(http.HandlerFunc(okHandler))

		codes := make([]int, 0, burstStrict+1)
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.Header.Set(DeviceIDHeader, "dev-1")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, http.StatusOK, codes[0])
		assert.Equal(t, http.StatusTooManyRequests, codes[burstStrict])
	})

	t.Run("SeparateBucketsPerIdentity", func(t *testing.T) {
		rl := NewRateLimiter()
		handler := rl.Middleware(http.HandlerFunc(okHandler))

		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.Header.Set(DeviceIDHeader, "dev-1")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set(DeviceIDHeader, "dev-2")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("SweepRemovesIdleVisitors", func(t *testing.T) {
		rl := NewRateLimiter()
		now := time.Now()
		rl.now = func() time.Time { return now }

		rl.getVisitor("device:dev-1:general", limitGeneral, burstGeneral)
		now = now.Add(visitorIdleTimeout + time.Second)
		rl.getVisitor("device:dev-2:general", limitGeneral, burstGeneral)

		rl.sweep()

		assert.NotContains(t, rl.visitors, "device:dev-1:general")
		assert.Contains(t, rl.visitors, "device:dev-2:general")
	})

	t.Run("CleanupStopsWithContext", func(t *testing.T) {
		rl := NewRateLimiter()
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})

		go func() {
			rl.Cleanup(ctx, time.Millisecond)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("cleanup did not stop")
		}
	})
}

func TestResolveRateTier(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/checkout/payment/cod", nil)
	_, _, tier := resolveRateTier(req)
	assert.Equal(t, "strict", tier)

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-Client-Type", "frontend-heavy")
	_, _, tier = resolveRateTier(req)
	assert.Equal(t, "frontend", tier)

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	_, _, tier = resolveRateTier(req)
	assert.Equal(t, "general", tier)
}
