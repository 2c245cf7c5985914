package handler

import (
	"math"
	"net/http"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/booking"
	"freelance-booking-api/internal/middleware"
	"freelance-booking-api/internal/payments"
)

// metadata keys carried on the checkout session for reconciliation
const (
	metaClientID    = "client_id"
	metaServiceID   = "service_id"
	metaScheduledAt = "scheduled_at"
)

// StartCheckout opens a payment session for a booking-to-be. The booking
// itself happens only after the processor reports the session as paid.
func (h *Handler) StartCheckout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var in struct {
		ServiceID   string `json:"service_id"`
		ScheduledAt string `json:"scheduled_at"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondError(w, r, err)
		return
	}
	if in.ServiceID == "" || in.ScheduledAt == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "service_id and scheduled_at are required"))
		return
	}
	// reject junk before the client pays for it
	if _, err := booking.ParseSchedule(in.ScheduledAt); err != nil {
		h.respondError(w, r, err)
		return
	}

	svc, err := h.catalog.Service(r.Context(), in.ServiceID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	sess, err := h.payments.CreateSession(r.Context(), payments.SessionRequest{
		Title:       svc.Title,
		AmountCents: int64(math.Round(svc.Price * 100)),
		Metadata: map[string]string{
			metaClientID:    user.ID,
			metaServiceID:   in.ServiceID,
			metaScheduledAt: in.ScheduledAt,
		},
	})
	if err != nil {
		h.respondError(w, r, apperr.Wrap(apperr.KindValidation, "could not start checkout", err))
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"sessionId":      sess.ID,
		"publishableKey": h.publishableKey,
	})
}

// ConfirmCheckout lands the processor redirect and materializes the
// appointment from the session metadata. The booking result is returned
// verbatim, conflicts included: a paid session does not override the
// no-overlap invariant.
func (h *Handler) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "session_id is required"))
		return
	}

	sess, err := h.payments.Session(r.Context(), sessionID)
	if err != nil {
		h.respondError(w, r, apperr.Wrap(apperr.KindValidation, "checkout session not found", err))
		return
	}
	if !sess.Paid {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "payment not completed"))
		return
	}

	clientID := sess.Metadata[metaClientID]
	serviceID := sess.Metadata[metaServiceID]
	scheduledAt := sess.Metadata[metaScheduledAt]
	if clientID == "" || serviceID == "" || scheduledAt == "" {
		h.respondError(w, r, apperr.E(apperr.KindValidation, "checkout session missing booking metadata"))
		return
	}

	appt, created, err := h.bookings.Create(r.Context(), booking.CreateInput{
		ClientID:    clientID,
		ServiceID:   serviceID,
		ScheduledAt: scheduledAt,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	msg := "booking already confirmed"
	if created {
		msg = "booking confirmed"
	}
	h.respondJSON(w, http.StatusOK, map[string]any{
		"message":     msg,
		"appointment": appointmentJSON(appt),
	})
}
