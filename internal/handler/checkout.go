package handler

import (
	"net/http"
	"strings"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/checkout"
	"klickjet-storefront/internal/transport"
)

type CompletePaymentRequestDTO struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// customerOnly sends signed-in non-customers to their own dashboard.
// Anonymous shoppers pass through; the checkout flow redirects them to login.
func customerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sh, _ := transport.ShopperFrom(r.Context())
		if sh.Authenticated() && !sh.Identity.HasRole(auth.RoleCustomer) {
			status, body := errorBody(&checkout.RedirectError{
				To:  "/" + string(sh.Identity.Role) + "/dashboard",
				Err: checkout.ErrWrongRole,
			})
			respondJSON(w, status, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ShippingStep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	step, err := h.checkout.Shipping(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (h *Handler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var draft checkout.ShippingDraft
	if err := decodeJSON(r, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	saved, err := h.checkout.SubmitShipping(ctx, draft)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"shipping": saved,
		"next":     checkout.RoutePayment,
	})
}

func (h *Handler) RestoreShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	restored, err := h.checkout.RestoreShipping(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"shipping": restored})
}

func (h *Handler) DeleteShipping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	if err := h.checkout.DeleteAddress(ctx); err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"next": checkout.RouteShipping})
}

func (h *Handler) PaymentStep(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	step, err := h.checkout.Payment(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, step)
}

func (h *Handler) PlaceCashOnDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	order, err := h.checkout.PlaceCashOnDelivery(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"order": order,
		"next":  checkout.RouteConfirmation,
	})
}

func (h *Handler) BeginOnlinePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	p, err := h.checkout.BeginOnlinePayment(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) CompleteOnlinePayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req CompletePaymentRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.PaymentIntentID = strings.TrimSpace(req.PaymentIntentID)
	if req.PaymentIntentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "payment_intent_id is required")
		return
	}

	order, err := h.checkout.CompleteOnlinePayment(ctx, req.PaymentIntentID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"order": order,
		"next":  checkout.RouteConfirmation,
	})
}

func (h *Handler) Confirmation(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	order, err := h.checkout.Confirm(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

func (h *Handler) Tracking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	t, err := h.checkout.Track(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}
