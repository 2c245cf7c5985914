package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"freelance-booking-api/internal/catalog"
	"freelance-booking-api/internal/middleware"
	"freelance-booking-api/internal/model"
)

func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.Services(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, servicesJSON(services))
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in struct {
		CategoryID  string  `json:"category_id"`
		Title       string  `json:"title"`
		Price       float64 `json:"price"`
		Duration    int     `json:"duration"`
		Description string  `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}

	svc, err := h.catalog.CreateService(r.Context(), user.ID, catalog.CreateServiceInput{
		CategoryID:      in.CategoryID,
		Title:           in.Title,
		Price:           in.Price,
		DurationMinutes: in.Duration,
		Description:     in.Description,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, serviceJSON(svc))
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Service(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, serviceJSON(svc))
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in struct {
		CategoryID  *string  `json:"category_id"`
		Title       *string  `json:"title"`
		Price       *float64 `json:"price"`
		Duration    *int     `json:"duration"`
		Description *string  `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}

	svc, err := h.catalog.UpdateService(r.Context(), chi.URLParam(r, "id"), user.ID, catalog.UpdateServiceInput{
		CategoryID:      in.CategoryID,
		Title:           in.Title,
		Price:           in.Price,
		DurationMinutes: in.Duration,
		Description:     in.Description,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, serviceJSON(svc))
}

func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	if err := h.catalog.DeleteService(r.Context(), chi.URLParam(r, "id"), user.ID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "service deleted successfully"})
}

func (h *Handler) ServicesByFreelancer(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ServicesByFreelancer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, servicesJSON(services))
}

func (h *Handler) ServicesByCategory(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ServicesByCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, servicesJSON(services))
}

func servicesJSON(services []model.Service) []map[string]any {
	out := make([]map[string]any, 0, len(services))
	for i := range services {
		out = append(out, serviceJSON(&services[i]))
	}
	return out
}
