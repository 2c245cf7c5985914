package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/model"
)

func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO categories (id, name) VALUES ($1,$2)`, c.ID, c.Name)
	if isUniqueViolation(err) {
		return apperr.E(apperr.KindConflict, "category already exists")
	}
	return err
}

func (s *Store) CategoryByID(ctx context.Context, id string) (*model.Category, error) {
	c := &model.Category{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "category not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c *model.Category) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if isUniqueViolation(err) {
		return apperr.E(apperr.KindConflict, "category name already exists")
	}
	return err
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.E(apperr.KindNotFound, "category not found")
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CountServicesInCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM services WHERE category_id = $1`, categoryID,
	).Scan(&n)
	return n, err
}
