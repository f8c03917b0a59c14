package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleSeller    Role = "seller"
	RoleDeliverer Role = "deliverer"
	RoleAdmin     Role = "admin"
)

var ErrTokenExpired = errors.New("access token expired")

// Identity is the authenticated user as reported by the backend.
type Identity struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// FetchFunc asks the backend who owns token.
type FetchFunc func(ctx context.Context, token string) (*Identity, error)

type cachedIdentity struct {
	identity  Identity
	expiresAt time.Time
}

// Resolver maps access tokens to identities. Lookups are cached for ttl, and
// never beyond the token's own exp claim.
type Resolver struct {
	fetch FetchFunc
	cache *expirable.LRU[string, cachedIdentity]
	ttl   time.Duration
	now   func() time.Time
}

func NewResolver(fetch FetchFunc, size int, ttl time.Duration) *Resolver {
	return &Resolver{
		fetch: fetch,
		cache: expirable.NewLRU[string, cachedIdentity](size, nil, ttl),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, token string) (*Identity, error) {
	now := r.now()

	exp, hasExp := TokenExpiry(token)
	if hasExp && !now.Before(exp) {
		r.cache.Remove(token)
		return nil, ErrTokenExpired
	}

	if c, ok := r.cache.Get(token); ok && now.Before(c.expiresAt) {
		id := c.identity
		return &id, nil
	}

	id, err := r.fetch(ctx, token)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(r.ttl)
	if hasExp && exp.Before(expiresAt) {
		expiresAt = exp
	}
	r.cache.Add(token, cachedIdentity{identity: *id, expiresAt: expiresAt})

	return id, nil
}

func (r *Resolver) Forget(token string) {
	r.cache.Remove(token)
}

// TokenExpiry reads the exp claim without verifying the signature. The
// backend verifies tokens; this only avoids calling it for tokens that are
// already expired. Opaque (non-JWT) tokens report no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
