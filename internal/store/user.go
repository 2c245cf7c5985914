package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/model"
)

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, provider, provider_id, is_freelancer)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		u.ID, u.Email, u.PasswordHash, u.Provider, u.ProviderID, u.IsFreelancer,
	)
	if isUniqueViolation(err) {
		return apperr.E(apperr.KindConflict, "user already exists")
	}
	return err
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(ctx, `WHERE id = $1`, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(ctx, `WHERE email = $1`, email)
}

func (s *Store) UserByProvider(ctx context.Context, provider, providerID string) (*model.User, error) {
	return s.scanUser(ctx, `WHERE provider = $1 AND provider_id = $2`, provider, providerID)
}

func (s *Store) scanUser(ctx context.Context, where string, args ...any) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, provider, provider_id, is_freelancer, created_at
		 FROM users `+where, args...,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Provider, &u.ProviderID, &u.IsFreelancer, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.E(apperr.KindNotFound, "user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
