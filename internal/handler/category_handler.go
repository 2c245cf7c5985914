package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out := make([]map[string]any, 0, len(cats))
	for i := range cats {
		out = append(out, categoryJSON(&cats[i]))
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}

	cat, err := h.catalog.CreateCategory(r.Context(), in.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, categoryJSON(cat))
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalog.Category(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categoryJSON(cat))
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}

	cat, err := h.catalog.UpdateCategory(r.Context(), chi.URLParam(r, "id"), in.Name)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, categoryJSON(cat))
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted successfully"})
}
