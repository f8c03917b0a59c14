package middleware

import (
	"errors"
	"net/http"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/transport"
	"klickjet-storefront/internal/utils"

	"go.uber.org/zap"
)

// Identity resolves the access token (cookie or bearer header) to a user.
// Requests with no token, or a token the backend rejects, continue
// anonymously; routes that need a user are guarded by RequireRole.
func Identity(resolver *auth.Resolver, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractAccessToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				logger.FromCtx(r.Context()).Debug("access token not accepted", zap.Error(err))
				if errors.Is(err, auth.ErrTokenExpired) {
					auth.ClearAccessToken(w, secureCookie)
				}
				next.ServeHTTP(w, r)
				return
			}

			sh, _ := transport.ShopperFrom(r.Context())
			sh.Token = token
			sh.Identity = id

			next.ServeHTTP(w, r.WithContext(transport.WithShopper(r.Context(), sh)))
		})
	}
}

// RequireRole rejects anonymous requests with 401 and users outside roles
// with 403. No roles means any signed-in user.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sh, ok := transport.ShopperFrom(r.Context())
			if !ok || !sh.Authenticated() {
				utils.WriteJSONError(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if len(roles) > 0 && !sh.Identity.HasRole(roles...) {
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
