package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/checkout"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/payment"
	"klickjet-storefront/internal/transport"

	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response. Redirect is set for
// checkout precondition failures, Fields for form validation, and Cart holds
// the last known-good cart next to a failed cart action.
type ErrorResponse struct {
	Error    string            `json:"error"`
	Code     string            `json:"code,omitempty"`
	Details  string            `json:"details,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Cart     *cart.View        `json:"cart,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L().Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// errorBody maps err to a status and response. Unknown errors are internal
// and never echo their text.
func errorBody(err error) (int, ErrorResponse) {
	var redirect *checkout.RedirectError
	if errors.As(err, &redirect) {
		return http.StatusConflict, ErrorResponse{
			Error:    redirect.Err.Error(),
			Code:     "redirect",
			Redirect: redirect.To,
		}
	}

	var invalid *checkout.ValidationError
	if errors.As(err, &invalid) {
		return http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "invalid shipping details",
			Code:   "validation_failed",
			Fields: invalid.Fields,
		}
	}

	switch {
	case errors.Is(err, cart.ErrSellerMismatch):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "seller_mismatch"}
	case errors.Is(err, cart.ErrAlreadyInCart):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "already_in_cart"}
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, cart.ErrInvalidProduct):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"}
	case errors.Is(err, cart.ErrUserNotAuthenticated):
		return http.StatusUnauthorized, ErrorResponse{Error: "authentication required", Code: "unauthorized"}
	case errors.Is(err, checkout.ErrInvalidTransition):
		return http.StatusConflict, ErrorResponse{Error: "checkout step not available", Code: "invalid_transition"}
	case errors.Is(err, checkout.ErrNoBackup),
		errors.Is(err, checkout.ErrNoPendingPayment),
		errors.Is(err, checkout.ErrPaymentMismatch):
		return http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "checkout_conflict"}
	case errors.Is(err, payment.ErrUnsupportedMethod):
		return http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_request"}
	case errors.Is(err, payment.ErrMissingSecret):
		return http.StatusBadGateway, ErrorResponse{Error: "payment could not be started", Code: "backend_error"}
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorResponse{Error: "service temporarily unavailable", Code: "backend_unavailable"}
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, ErrorResponse{Error: apiErr.Message, Code: "backend_error"}
	}

	return http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	h.renderCartError(w, r, err, nil)
}

// renderCartError renders err as a transient notice, with view as the cart to
// keep showing.
func (h *Handler) renderCartError(w http.ResponseWriter, r *http.Request, err error, view *cart.View) {
	status, body := errorBody(err)
	body.Cart = view

	// a token the backend no longer accepts ends the local session too
	if backend.IsUnauthorized(err) {
		if sh, ok := transport.ShopperFrom(r.Context()); ok && sh.Token != "" {
			h.resolver.Forget(sh.Token)
			auth.ClearAccessToken(w, h.opts.CookieSecure)
		}
	}

	log := logger.FromCtx(r.Context()).With(
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
	)
	switch {
	case status >= 500:
		log.Error("request failed", zap.Error(err))
	case body.Code == "redirect":
		log.Debug("checkout precondition not met", zap.String("redirect", body.Redirect))
	default:
		log.Info("request rejected", zap.Error(err))
	}

	respondJSON(w, status, body)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
