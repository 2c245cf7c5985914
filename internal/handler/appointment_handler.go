package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/booking"
	"freelance-booking-api/internal/middleware"
	"freelance-booking-api/internal/model"
)

func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.bookings.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointmentsJSON(appts))
}

func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in struct {
		ClientID    string `json:"client_id"`
		ServiceID   string `json:"service_id"`
		ScheduledAt string `json:"scheduled_at"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.ClientID != user.ID {
		h.respondError(w, r, apperr.E(apperr.KindForbidden, "you can only create appointments for yourself"))
		return
	}

	appt, created, err := h.bookings.Create(r.Context(), booking.CreateInput{
		ClientID:    in.ClientID,
		ServiceID:   in.ServiceID,
		ScheduledAt: in.ScheduledAt,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	msg := "appointment already exists"
	if created {
		status = http.StatusCreated
		msg = "appointment created successfully"
	}
	h.respondJSON(w, status, map[string]any{
		"message":     msg,
		"appointment": appointmentJSON(appt),
	})
}

func (h *Handler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appt, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointmentJSON(appt))
}

func (h *Handler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ClientID    *string `json:"client_id"`
		ServiceID   *string `json:"service_id"`
		ScheduledAt *string `json:"scheduled_at"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}

	appt, err := h.bookings.Update(r.Context(), chi.URLParam(r, "id"), booking.UpdateInput{
		ClientID:    in.ClientID,
		ServiceID:   in.ServiceID,
		ScheduledAt: in.ScheduledAt,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":     "appointment updated successfully",
		"appointment": appointmentJSON(appt),
	})
}

func (h *Handler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	appt, err := h.bookings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if appt.ClientID != user.ID {
		h.respondError(w, r, apperr.E(apperr.KindForbidden, "you can only delete your own appointments"))
		return
	}

	if err := h.bookings.Delete(r.Context(), appt.ID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "appointment deleted successfully"})
}

func (h *Handler) AppointmentsByFreelancer(w http.ResponseWriter, r *http.Request) {
	appts, err := h.bookings.ListByFreelancer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointmentsJSON(appts))
}

func (h *Handler) AppointmentsByClient(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	clientID := chi.URLParam(r, "id")
	if clientID != user.ID {
		h.respondError(w, r, apperr.E(apperr.KindForbidden, "you can only view your own appointments"))
		return
	}

	appts, err := h.bookings.ListByClient(r.Context(), clientID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, appointmentsJSON(appts))
}

func appointmentsJSON(appts []model.Appointment) []map[string]any {
	out := make([]map[string]any, 0, len(appts))
	for i := range appts {
		out = append(out, appointmentJSON(&appts[i]))
	}
	return out
}
