// Package booking decides whether an appointment request may claim a slot on
// a freelancer's calendar and persists it when it may.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/model"
)

// ScheduleLayout is the only accepted form for scheduled_at. Values are naive
// wall-clock times: no offset is parsed, applied, or stored.
const ScheduleLayout = "2006-01-02T15:04:05"

// conflictWindow bounds the candidate scan around a requested start. It must
// stay wider than the longest realistic service duration; widening it is
// safe, narrowing it is not.
const conflictWindow = 24 * time.Hour

// Store is the persistence surface the engine works against.
type Store interface {
	ServiceByID(ctx context.Context, id string) (*model.Service, error)
	AppointmentByID(ctx context.Context, id string) (*model.Appointment, error)
	AppointmentByFields(ctx context.Context, clientID, serviceID string, at time.Time) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
	ListAppointments(ctx context.Context) ([]model.Appointment, error)
	ListAppointmentsByFreelancer(ctx context.Context, freelancerID string) ([]model.Appointment, error)
	ListAppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error)

	// Book runs fn inside a unit of work that holds a per-freelancer lock,
	// so conflict check and insert cannot interleave with a concurrent
	// booking for the same owner. An error from fn rolls the work back.
	Book(ctx context.Context, ownerID string, fn func(Tx) error) error
}

// Tx is the slice of the unit of work visible to the engine while booking.
type Tx interface {
	SlotsBetween(ctx context.Context, ownerID string, from, to time.Time) ([]model.Slot, error)
	InsertAppointment(ctx context.Context, a *model.Appointment) error
}

type Engine struct {
	store Store
	log   *slog.Logger
}

func New(store Store, log *slog.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// ParseSchedule parses a scheduled_at literal.
func ParseSchedule(s string) (time.Time, error) {
	t, err := time.Parse(ScheduleLayout, s)
	if err != nil {
		return time.Time{}, apperr.E(apperr.KindValidation,
			"invalid datetime format for scheduled_at, expected YYYY-MM-DDTHH:mm:ss")
	}
	return t, nil
}

type CreateInput struct {
	ClientID    string
	ServiceID   string
	ScheduledAt string
}

// Create books an appointment. The returned bool is true when a new row was
// persisted and false when an identical appointment already existed and was
// returned as-is.
func (e *Engine) Create(ctx context.Context, in CreateInput) (*model.Appointment, bool, error) {
	if in.ClientID == "" || in.ServiceID == "" || in.ScheduledAt == "" {
		return nil, false, apperr.E(apperr.KindValidation, "missing required fields")
	}
	at, err := ParseSchedule(in.ScheduledAt)
	if err != nil {
		return nil, false, err
	}

	// identical request already booked: hand it back instead of duplicating
	existing, err := e.store.AppointmentByFields(ctx, in.ClientID, in.ServiceID, at)
	if err == nil {
		return existing, false, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, false, apperr.Wrap(apperr.KindInternal, "error creating appointment", err)
	}

	svc, err := e.store.ServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, false, err
	}
	end := at.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	var created *model.Appointment
	err = e.store.Book(ctx, svc.OwnerID, func(tx Tx) error {
		slots, err := tx.SlotsBetween(ctx, svc.OwnerID, at.Add(-conflictWindow), at.Add(conflictWindow))
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "error creating appointment", err)
		}
		for _, s := range slots {
			// half-open intervals: touching at the boundary is not a conflict
			slotEnd := s.ScheduledAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
			if at.Before(slotEnd) && s.ScheduledAt.Before(end) {
				return apperr.Errorf(apperr.KindConflict,
					"time slot conflicts with an existing appointment starting at %s",
					s.ScheduledAt.Format(ScheduleLayout))
			}
		}
		a := &model.Appointment{
			ID:          uuid.New().String(),
			ClientID:    in.ClientID,
			ServiceID:   in.ServiceID,
			ScheduledAt: at,
			CreatedAt:   time.Now(),
		}
		if err := tx.InsertAppointment(ctx, a); err != nil {
			return apperr.Wrap(apperr.KindInternal, "error creating appointment", err)
		}
		created = a
		return nil
	})
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			err = apperr.Wrap(apperr.KindInternal, "error creating appointment", err)
		}
		return nil, false, err
	}

	e.log.Info("appointment booked",
		"appointment_id", created.ID,
		"service_id", created.ServiceID,
		"scheduled_at", created.ScheduledAt.Format(ScheduleLayout),
	)
	return created, true, nil
}

type UpdateInput struct {
	ClientID    *string
	ServiceID   *string
	ScheduledAt *string
}

// Update applies the supplied fields directly. It deliberately does not
// re-run the conflict scan, so moving an appointment can produce an overlap;
// TestUpdateSkipsConflictCheck pins this.
func (e *Engine) Update(ctx context.Context, id string, in UpdateInput) (*model.Appointment, error) {
	a, err := e.store.AppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ClientID != nil {
		a.ClientID = *in.ClientID
	}
	if in.ServiceID != nil {
		a.ServiceID = *in.ServiceID
	}
	if in.ScheduledAt != nil {
		at, err := ParseSchedule(*in.ScheduledAt)
		if err != nil {
			return nil, err
		}
		a.ScheduledAt = at
	}
	if err := e.store.UpdateAppointment(ctx, a); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error updating appointment", err)
	}
	return a, nil
}

func (e *Engine) Get(ctx context.Context, id string) (*model.Appointment, error) {
	return e.store.AppointmentByID(ctx, id)
}

func (e *Engine) Delete(ctx context.Context, id string) error {
	return e.store.DeleteAppointment(ctx, id)
}

func (e *Engine) List(ctx context.Context) ([]model.Appointment, error) {
	return e.store.ListAppointments(ctx)
}

func (e *Engine) ListByFreelancer(ctx context.Context, freelancerID string) ([]model.Appointment, error) {
	return e.store.ListAppointmentsByFreelancer(ctx, freelancerID)
}

func (e *Engine) ListByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	return e.store.ListAppointmentsByClient(ctx, clientID)
}
