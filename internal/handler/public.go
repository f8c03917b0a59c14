package handler

import "net/http"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *Handler) PublicConfig(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.opts.Public)
}
