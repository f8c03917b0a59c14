package handler

import (
	"net/http"
	"strconv"

	"klickjet-storefront/internal/backend"

	"github.com/go-chi/chi/v5"
)

const maxPageSize = 100

func productQuery(r *http.Request) backend.ProductQuery {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return backend.ProductQuery{
		Search:     q.Get("search"),
		CategoryID: q.Get("category"),
		SellerID:   q.Get("seller"),
		Page:       page,
		Limit:      limit,
	}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	products, err := h.api.ListProducts(ctx, productQuery(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if products == nil {
		products = []backend.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	p, err := h.api.GetProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	categories, err := h.api.ListCategories(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if categories == nil {
		categories = []backend.Category{}
	}
	respondJSON(w, http.StatusOK, categories)
}
