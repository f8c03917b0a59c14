package handler

import (
	"net/http"
	"strings"

	"klickjet-storefront/internal/backend"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds the JSON body, which carries the image as base64.
const maxUploadBytes = 8 << 20

type UploadRequestDTO struct {
	Image  string `json:"image"`
	Folder string `json:"folder"`
}

// UploadImage relays a base64 data URL to the backend upload endpoint with
// the shopper's bearer token and returns the hosted URL.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req UploadRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if !strings.HasPrefix(req.Image, "data:image/") {
		respondError(w, http.StatusBadRequest, "invalid_image", "image must be a base64 data URL")
		return
	}

	_, token := shopperToken(r)
	res, err := h.api.UploadImage(ctx, token, backend.UploadRequest{
		Image:        req.Image,
		Folder:       req.Folder,
		CloudName:    h.opts.Public.ImageCloudName,
		UploadPreset: h.opts.Public.ImageUploadPreset,
	})
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	_, token := shopperToken(r)
	if err := h.api.DeleteImage(ctx, token, chi.URLParam(r, "id")); err != nil {
		h.renderError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
