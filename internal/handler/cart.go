package handler

import (
	"net/http"
	"strings"

	"klickjet-storefront/internal/cart"
	"klickjet-storefront/internal/logger"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AddLineRequestDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type SetQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	view, err := h.cart.View(ctx)
	if err != nil {
		h.renderCartError(w, r, err, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req AddLineRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.ProductID = strings.TrimSpace(req.ProductID)
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// price and seller come from the catalog, never from the browser
	product, err := h.api.GetProduct(ctx, req.ProductID)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	view, err := h.cart.AddLine(ctx, cart.CandidateFromProduct(product), req.Quantity)
	if err != nil {
		h.renderCartError(w, r, err, view)
		return
	}

	logger.FromCtx(ctx).Debug("cart line added",
		zap.String("product_id", req.ProductID),
		zap.Int("count", view.Count),
	)
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req SetQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	view, err := h.cart.SetQuantity(ctx, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.renderCartError(w, r, err, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	view, err := h.cart.RemoveLine(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		h.renderCartError(w, r, err, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	view, err := h.cart.Clear(ctx)
	if err != nil {
		h.renderCartError(w, r, err, view)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// Reconcile re-runs the login merge for an already signed-in shopper, e.g.
// after items were added in another tab before the cookie was seen.
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	report, err := h.cart.ReconcileOnLogin(ctx)
	if err != nil {
		var view *cart.View
		if report != nil {
			view = report.Cart
		}
		h.renderCartError(w, r, err, view)
		return
	}
	respondJSON(w, http.StatusOK, report)
}
