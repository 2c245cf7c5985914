// Package catalog manages freelancer services and their categories.
package catalog

import (
	"context"

	"github.com/google/uuid"

	"freelance-booking-api/internal/apperr"
	"freelance-booking-api/internal/model"
)

type Store interface {
	UserByID(ctx context.Context, id string) (*model.User, error)

	CreateService(ctx context.Context, s *model.Service) error
	ServiceByID(ctx context.Context, id string) (*model.Service, error)
	UpdateService(ctx context.Context, s *model.Service) error
	DeleteService(ctx context.Context, id string) error
	ListServices(ctx context.Context) ([]model.Service, error)
	ListServicesByFreelancer(ctx context.Context, ownerID string) ([]model.Service, error)
	ListServicesByCategory(ctx context.Context, categoryID string) ([]model.Service, error)

	CreateCategory(ctx context.Context, c *model.Category) error
	CategoryByID(ctx context.Context, id string) (*model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CountServicesInCategory(ctx context.Context, categoryID string) (int, error)
}

type Catalog struct {
	store Store
}

func New(store Store) *Catalog {
	return &Catalog{store: store}
}

type CreateServiceInput struct {
	CategoryID      string
	Title           string
	Price           float64
	DurationMinutes int
	Description     string
}

func (c *Catalog) CreateService(ctx context.Context, ownerID string, in CreateServiceInput) (*model.Service, error) {
	owner, err := c.store.UserByID(ctx, ownerID)
	if err != nil || !owner.IsFreelancer {
		return nil, apperr.E(apperr.KindForbidden, "only freelancers can create services")
	}
	if in.Title == "" {
		return nil, apperr.E(apperr.KindValidation, "title is required")
	}
	if in.Price <= 0 {
		return nil, apperr.E(apperr.KindValidation, "price must be greater than 0")
	}
	if in.DurationMinutes <= 0 {
		return nil, apperr.E(apperr.KindValidation, "duration must be greater than 0")
	}
	if _, err := c.store.CategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	s := &model.Service{
		ID:              uuid.New().String(),
		OwnerID:         ownerID,
		CategoryID:      in.CategoryID,
		Title:           in.Title,
		Price:           in.Price,
		DurationMinutes: in.DurationMinutes,
		Description:     in.Description,
	}
	if err := c.store.CreateService(ctx, s); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error creating service", err)
	}
	return c.store.ServiceByID(ctx, s.ID)
}

type UpdateServiceInput struct {
	CategoryID      *string
	Title           *string
	Price           *float64
	DurationMinutes *int
	Description     *string
}

// UpdateService changes only the supplied fields.
func (c *Catalog) UpdateService(ctx context.Context, id, requesterID string, in UpdateServiceInput) (*model.Service, error) {
	s, err := c.store.ServiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != requesterID {
		return nil, apperr.E(apperr.KindForbidden, "you can only update your own services")
	}
	if in.Price != nil && *in.Price <= 0 {
		return nil, apperr.E(apperr.KindValidation, "price must be greater than 0")
	}
	if in.DurationMinutes != nil && *in.DurationMinutes <= 0 {
		return nil, apperr.E(apperr.KindValidation, "duration must be greater than 0")
	}
	if in.CategoryID != nil {
		if _, err := c.store.CategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		s.CategoryID = *in.CategoryID
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.E(apperr.KindValidation, "title is required")
		}
		s.Title = *in.Title
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.DurationMinutes != nil {
		s.DurationMinutes = *in.DurationMinutes
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if err := c.store.UpdateService(ctx, s); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error updating service", err)
	}
	return c.store.ServiceByID(ctx, id)
}

func (c *Catalog) DeleteService(ctx context.Context, id, requesterID string) error {
	s, err := c.store.ServiceByID(ctx, id)
	if err != nil {
		return err
	}
	if s.OwnerID != requesterID {
		return apperr.E(apperr.KindForbidden, "you can only delete your own services")
	}
	return c.store.DeleteService(ctx, id)
}

func (c *Catalog) Service(ctx context.Context, id string) (*model.Service, error) {
	return c.store.ServiceByID(ctx, id)
}

func (c *Catalog) Services(ctx context.Context) ([]model.Service, error) {
	return c.store.ListServices(ctx)
}

func (c *Catalog) ServicesByFreelancer(ctx context.Context, ownerID string) ([]model.Service, error) {
	return c.store.ListServicesByFreelancer(ctx, ownerID)
}

func (c *Catalog) ServicesByCategory(ctx context.Context, categoryID string) ([]model.Service, error) {
	return c.store.ListServicesByCategory(ctx, categoryID)
}

func (c *Catalog) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperr.E(apperr.KindValidation, "category name is required")
	}
	cat := &model.Category{ID: uuid.New().String(), Name: name}
	if err := c.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) UpdateCategory(ctx context.Context, id, name string) (*model.Category, error) {
	if name == "" {
		return nil, apperr.E(apperr.KindValidation, "category name is required")
	}
	cat, err := c.store.CategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = name
	if err := c.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// DeleteCategory blocks while any service references the category. The policy
// is "block", not "cascade", so it is checked here rather than left to the
// foreign key.
func (c *Catalog) DeleteCategory(ctx context.Context, id string) error {
	if _, err := c.store.CategoryByID(ctx, id); err != nil {
		return err
	}
	n, err := c.store.CountServicesInCategory(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "error deleting category", err)
	}
	if n > 0 {
		return apperr.E(apperr.KindValidation, "cannot delete category with associated services")
	}
	return c.store.DeleteCategory(ctx, id)
}

func (c *Catalog) Category(ctx context.Context, id string) (*model.Category, error) {
	return c.store.CategoryByID(ctx, id)
}

func (c *Catalog) Categories(ctx context.Context) ([]model.Category, error) {
	return c.store.ListCategories(ctx)
}
