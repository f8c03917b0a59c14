package handler

import (
	"net/http"
	"strings"
	"time"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/transport"

	"go.uber.org/zap"
)

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// AuthResponse is returned by login and register. Reconcile reports the
// anonymous cart merge; Notice is set when that merge partly failed.
type AuthResponse struct {
	Token     string                `json:"token"`
	ExpiresAt *time.Time            `json:"expires_at,omitempty"`
	User      *auth.Identity        `json:"user"`
	Reconcile *cart.ReconcileReport `json:"reconcile,omitempty"`
	Notice    string                `json:"notice,omitempty"`
}

var registrableRoles = map[auth.Role]bool{
	auth.RoleCustomer:  true,
	auth.RoleSeller:    true,
	auth.RoleDeliverer: true,
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	res, err := h.api.Login(ctx, backend.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		logger.FromCtx(ctx).Warn("login failed", zap.String("email", req.Email), zap.Error(err))
		h.renderError(w, r, err)
		return
	}

	h.signIn(w, r.WithContext(ctx), res, http.StatusOK)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req RegisterRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "name, email and password are required")
		return
	}

	role := auth.Role(req.Role)
	if role == "" {
		role = auth.RoleCustomer
	}
	if !registrableRoles[role] {
		respondError(w, http.StatusBadRequest, "invalid_role", "role must be customer, seller or deliverer")
		return
	}

	res, err := h.api.Register(ctx, backend.Registration{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     string(role),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("register failed", zap.String("email", req.Email), zap.Error(err))
		h.renderError(w, r, err)
		return
	}

	logger.FromCtx(ctx).Info("user registered",
		zap.String("user_id", res.User.ID),
		zap.String("role", res.User.Role),
	)
	h.signIn(w, r.WithContext(ctx), res, http.StatusCreated)
}

// signIn stores the token cookie and merges the device's anonymous cart into
// the new user's server cart. A failed merge does not fail the sign-in.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, res *backend.AuthResponse, status int) {
	ctx := r.Context()
	id := identityFromUser(res.User)

	out := AuthResponse{Token: res.Token, User: id}

	expires, ok := auth.TokenExpiry(res.Token)
	if ok {
		out.ExpiresAt = &expires
	}
	auth.SetAccessToken(w, res.Token, expires, h.opts.CookieSecure)

	sh, _ := transport.ShopperFrom(ctx)
	sh.Token = res.Token
	sh.Identity = id
	ctx = transport.WithShopper(ctx, sh)

	report, err := h.cart.ReconcileOnLogin(ctx)
	out.Reconcile = report
	switch {
	case err != nil:
		logger.FromCtx(ctx).Warn("cart reconciliation failed",
			zap.String("user_id", id.UserID),
			zap.Error(err),
		)
		out.Notice = "your saved cart could not be loaded"
	case len(report.Failed) > 0:
		out.Notice = "some items could not be moved to your cart"
	}

	respondJSON(w, status, out)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sh, _ := transport.ShopperFrom(r.Context())
	respondJSON(w, http.StatusOK, sh.Identity)
}

// Logout always clears the local session, even if the backend call fails.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	sh, _ := transport.ShopperFrom(ctx)
	if sh.Token != "" {
		if err := h.api.Logout(ctx, sh.Token); err != nil {
			logger.FromCtx(ctx).Warn("backend logout failed", zap.Error(err))
		}
		h.resolver.Forget(sh.Token)
	}

	auth.ClearAccessToken(w, h.opts.CookieSecure)
	w.WriteHeader(http.StatusNoContent)
}
