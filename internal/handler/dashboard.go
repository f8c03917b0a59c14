package handler

import (
	"net/http"
	"strings"

	"klickjet-storefront/internal/auth"
	"klickjet-storefront/internal/backend"
	"klickjet-storefront/internal/logger"
	"klickjet-storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductRequestDTO struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"category_id"`
	Image       string          `json:"image"`
}

func (d ProductRequestDTO) input() (backend.ProductInput, string) {
	title := strings.TrimSpace(d.Title)
	switch {
	case title == "":
		return backend.ProductInput{}, "title is required"
	case !d.Price.IsPositive():
		return backend.ProductInput{}, "price must be greater than zero"
	case d.Stock < 0:
		return backend.ProductInput{}, "stock cannot be negative"
	}
	return backend.ProductInput{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		Price:       d.Price.Round(2),
		Stock:       d.Stock,
		CategoryID:  d.CategoryID,
		Image:       d.Image,
	}, ""
}

type OrderStatusRequestDTO struct {
	Status string `json:"status"`
}

type RejectRequestDTO struct {
	Reason string `json:"reason"`
}

// Order statuses each role may set. The backend enforces the real workflow;
// this only keeps obviously wrong requests off the wire.
var statusesByRole = map[auth.Role]map[string]bool{
	auth.RoleSeller: {
		"preparing": true,
		"ready":     true,
		"cancelled": true,
	},
	auth.RoleDeliverer: {
		"out_for_delivery": true,
		"delivered":        true,
	},
}

func shopperToken(r *http.Request) (transport.Shopper, string) {
	sh, _ := transport.ShopperFrom(r.Context())
	return sh, sh.Token
}

// -- orders (customer, seller, deliverer) --

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	orders, err := h.api.ListOrders(ctx, token)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if orders == nil {
		orders = []backend.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req OrderStatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	sh, token := shopperToken(r)
	if !statusesByRole[sh.Identity.Role][req.Status] {
		respondError(w, http.StatusBadRequest, "invalid_status", "status not allowed for "+string(sh.Identity.Role))
		return
	}

	orderID := chi.URLParam(r, "id")
	o, err := h.api.UpdateOrderStatus(ctx, token, orderID, req.Status)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", req.Status),
		zap.String("user_id", sh.Identity.UserID),
	)
	respondJSON(w, http.StatusOK, o)
}

// -- seller products --

func (h *Handler) ListSellerProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	sh, _ := shopperToken(r)
	q := productQuery(r)
	q.SellerID = sh.Identity.UserID

	products, err := h.api.ListProducts(ctx, q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if products == nil {
		products = []backend.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req ProductRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	in, problem := req.input()
	if problem != "" {
		respondError(w, http.StatusBadRequest, "invalid_product", problem)
		return
	}

	_, token := shopperToken(r)
	p, err := h.api.CreateProduct(ctx, token, in)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req ProductRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	in, problem := req.input()
	if problem != "" {
		respondError(w, http.StatusBadRequest, "invalid_product", problem)
		return
	}

	_, token := shopperToken(r)
	p, err := h.api.UpdateProduct(ctx, token, chi.URLParam(r, "id"), in)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	if err := h.api.DeleteProduct(ctx, token, chi.URLParam(r, "id")); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- admin --

func applicantKind(r *http.Request) backend.ApplicantKind {
	if strings.HasPrefix(r.URL.Path, "/admin/deliverers") {
		return backend.ApplicantDeliverers
	}
	return backend.ApplicantSellers
}

func (h *Handler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	list, err := h.api.ListApplicants(ctx, token, applicantKind(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if list == nil {
		list = []backend.Applicant{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) ApproveApplicant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	kind, id := applicantKind(r), chi.URLParam(r, "id")
	if err := h.api.ApproveApplicant(ctx, token, kind, id); err != nil {
		h.renderError(w, r, err)
		return
	}

	logger.FromCtx(ctx).Info("applicant approved", zap.String("kind", string(kind)), zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RejectApplicant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	var req RejectRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Reason = strings.TrimSpace(req.Reason)
	if req.Reason == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "reason is required")
		return
	}

	_, token := shopperToken(r)
	kind, id := applicantKind(r), chi.URLParam(r, "id")
	if err := h.api.RejectApplicant(ctx, token, kind, id, req.Reason); err != nil {
		h.renderError(w, r, err)
		return
	}

	logger.FromCtx(ctx).Info("applicant rejected", zap.String("kind", string(kind)), zap.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteApplicant(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	if err := h.api.DeleteApplicant(ctx, token, applicantKind(r), chi.URLParam(r, "id")); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	users, err := h.api.ListUsers(ctx, token)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if users == nil {
		users = []backend.User{}
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	sh, token := shopperToken(r)
	id := chi.URLParam(r, "id")
	if id == sh.Identity.UserID {
		respondError(w, http.StatusBadRequest, "invalid_request", "cannot delete your own account")
		return
	}

	if err := h.api.DeleteUser(ctx, token, id); err != nil {
		h.renderError(w, r, err)
		return
	}

	logger.FromCtx(ctx).Info("user deleted", zap.String("id", id), zap.String("by", sh.Identity.UserID))
	w.WriteHeader(http.StatusNoContent)
}
