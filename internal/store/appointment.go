package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/booking"
	"freelance-booking-api/internal/model"
)

const appointmentColumns = `
	a.id, a.client_id, a.service_id, a.scheduled_at, a.created_at,
	s.id, s.user_id, s.category_id, s.title, s.price, s.duration_minutes, s.description`

const appointmentJoins = `
	FROM appointments a
	JOIN services s ON s.id = a.service_id`

// Book opens the unit of work for one booking. The advisory lock keyed on the
// freelancer serializes conflict-check + insert against concurrent bookings
// for the same owner; it is released with the transaction.
func (s *Store) Book(ctx context.Context, ownerID string, fn func(booking.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, ownerID); err != nil {
		return err
	}
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type bookingTx struct {
	tx pgx.Tx
}

// SlotsBetween returns every appointment on the owner's services starting in
// [from, to], each paired with its service's current duration.
func (b *bookingTx) SlotsBetween(ctx context.Context, ownerID string, from, to time.Time) ([]model.Slot, error) {
	rows, err := b.tx.Query(ctx,
		`SELECT a.id, a.scheduled_at, s.duration_minutes
		 FROM appointments a
		 JOIN services s ON s.id = a.service_id
		 WHERE s.user_id = $1
		   AND a.scheduled_at BETWEEN $2 AND $3`,
		ownerID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(&sl.ID, &sl.ScheduledAt, &sl.DurationMinutes); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

func (b *bookingTx) InsertAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := b.tx.Exec(ctx,
		`INSERT INTO appointments (id, client_id, service_id, scheduled_at)
		 VALUES ($1,$2,$3,$4)`,
		a.ID, a.ClientID, a.ServiceID, a.ScheduledAt,
	)
	return err
}

func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+appointmentColumns+appointmentJoins+` WHERE a.id = $1`, id)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) AppointmentByFields(ctx context.Context, clientID, serviceID string, at time.Time) (*model.Appointment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT`+appointmentColumns+appointmentJoins+`
		 WHERE a.client_id = $1 AND a.service_id = $2 AND a.scheduled_at = $3`,
		clientID, serviceID, at,
	)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "appointment not found")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET client_id=$1, service_id=$2, scheduled_at=$3 WHERE id=$4`,
		a.ClientID, a.ServiceID, a.ScheduledAt, a.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E(apperr.KindNotFound, "appointment not found")
	}
	return nil
}

// DeleteAppointment hard-deletes; there is no cancelled state to restore.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E(apperr.KindNotFound, "appointment not found")
	}
	return nil
}

func (s *Store) ListAppointments(ctx context.Context) ([]model.Appointment, error) {
	return s.listAppointments(ctx, ``)
}

func (s *Store) ListAppointmentsByFreelancer(ctx context.Context, freelancerID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx, ` WHERE s.user_id = $1`, freelancerID)
}

func (s *Store) ListAppointmentsByClient(ctx context.Context, clientID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx, ` WHERE a.client_id = $1`, clientID)
}

func (s *Store) listAppointments(ctx context.Context, where string, args ...any) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+appointmentColumns+appointmentJoins+where+` ORDER BY a.scheduled_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	a := &model.Appointment{Service: &model.Service{}}
	err := row.Scan(
		&a.ID, &a.ClientID, &a.ServiceID, &a.ScheduledAt, &a.CreatedAt,
		&a.Service.ID, &a.Service.OwnerID, &a.Service.CategoryID, &a.Service.Title,
		&a.Service.Price, &a.Service.DurationMinutes, &a.Service.Description,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
