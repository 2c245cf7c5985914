package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/model"
)

const serviceColumns = `
	s.id, s.user_id, s.category_id, s.title, s.price, s.duration_minutes,
	s.description, s.created_at, s.updated_at,
	u.email, u.is_freelancer, c.name`

const serviceJoins = `
	FROM services s
	JOIN users u ON u.id = s.user_id
	JOIN categories c ON c.id = s.category_id`

func (s *Store) CreateService(ctx context.Context, svc *model.Service) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO services (id, user_id, category_id, title, price, duration_minutes, description)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		svc.ID, svc.OwnerID, svc.CategoryID, svc.Title, svc.Price, svc.DurationMinutes, svc.Description,
	)
	return err
}

func (s *Store) ServiceByID(ctx context.Context, id string) (*model.Service, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+serviceColumns+serviceJoins+` WHERE s.id = $1`, id)
	svc, err := scanService(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "service not found")
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Store) UpdateService(ctx context.Context, svc *model.Service) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE services
		 SET category_id=$1, title=$2, price=$3, duration_minutes=$4, description=$5, updated_at=NOW()
		 WHERE id=$6`,
		svc.CategoryID, svc.Title, svc.Price, svc.DurationMinutes, svc.Description, svc.ID,
	)
	return err
}

// DeleteService removes the service; appointments referencing it go with it
// via the FK cascade.
func (s *Store) DeleteService(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E(apperr.KindNotFound, "service not found")
	}
	return nil
}

func (s *Store) ListServices(ctx context.Context) ([]model.Service, error) {
	return s.listServices(ctx, ``)
}

func (s *Store) ListServicesByFreelancer(ctx context.Context, ownerID string) ([]model.Service, error) {
	return s.listServices(ctx, ` WHERE s.user_id = $1`, ownerID)
}

func (s *Store) ListServicesByCategory(ctx context.Context, categoryID string) ([]model.Service, error) {
	return s.listServices(ctx, ` WHERE s.category_id = $1`, categoryID)
}

func (s *Store) listServices(ctx context.Context, where string, args ...any) ([]model.Service, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT`+serviceColumns+serviceJoins+where+` ORDER BY s.created_at`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *svc)
	}
	return out, rows.Err()
}

func scanService(row pgx.Row) (*model.Service, error) {
	svc := &model.Service{Owner: &model.UserSummary{}, Category: &model.Category{}}
	err := row.Scan(
		&svc.ID, &svc.OwnerID, &svc.CategoryID, &svc.Title, &svc.Price, &svc.DurationMinutes,
		&svc.Description, &svc.CreatedAt, &svc.UpdatedAt,
		&svc.Owner.Email, &svc.Owner.IsFreelancer, &svc.Category.Name,
	)
	if err != nil {
		return nil, err
	}
	svc.Owner.ID = svc.OwnerID
	svc.Category.ID = svc.CategoryID
	return svc, nil
}
