package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/google/uuid"
)

// CategoryInput carries the user-editable fields of a category.
type CategoryInput struct {
	Name  string
	Type  models.CategoryType
	Icon  string
	Color string
}

type CategoryService interface {
	// Create stores a new category. When an active category with the same
	// name and type exists, that category is updated and returned instead.
	Create(ctx context.Context, in CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)
}

type categoryService struct {
	store    CategoryStore
	redirect Redirector
	sched    Scheduler
	opts     Options
}

func NewCategoryService(store CategoryStore, redirect Redirector, sched Scheduler, opts Options) CategoryService {
	return &categoryService{store: store, redirect: redirect, sched: sched, opts: opts.withDefaults()}
}

func (s *categoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	now := models.Stamp(s.opts.Clock.Now())
	c := &models.Category{
		SyncMeta: models.SyncMeta{ID: uuid.NewString(), OwnerID: s.opts.OwnerID, CreatedAt: now, UpdatedAt: now},
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Icon:     in.Icon,
		Color:    in.Color,
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	target, redirected, err := s.redirect.RedirectCreate(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("error checking duplicates: %w", err)
	}
	if redirected && target.IsProtected {
		return target, nil
	}

	if err := s.store.SaveCategory(ctx, target); err != nil {
		return nil, fmt.Errorf("error saving category: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return target, nil
}

func (s *categoryService) editable(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.IsProtected {
		return nil, fmt.Errorf("category %q: %w", c.Name, common.ErrProtected)
	}
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	c, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Name = strings.TrimSpace(in.Name)
	c.Type = in.Type
	c.Icon = in.Icon
	c.Color = in.Color
	if err := c.Validate(); err != nil {
		return nil, err
	}

	other, err := s.store.FindActiveByNaturalKey(ctx, c.NaturalKey())
	switch {
	case err == nil && other.ID != c.ID:
		return nil, fmt.Errorf("category %q: %w", c.Name, common.ErrAlreadyExists)
	case err != nil && !errors.Is(err, common.ErrNotFound):
		return nil, fmt.Errorf("error checking duplicates: %w", err)
	}

	c.Touch(s.opts.Clock.Now())
	if err := s.store.SaveCategory(ctx, c); err != nil {
		return nil, fmt.Errorf("error saving category: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.editable(ctx, id); err != nil {
		return err
	}
	if err := s.store.SoftDelete(ctx, id, s.opts.Clock.Now()); err != nil {
		return fmt.Errorf("error deleting category: %w", err)
	}
	s.sched.ScheduleSync(s.opts.OwnerID, s.opts.SyncDelay)
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	out, err := s.store.ListActive(ctx, s.opts.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return out, nil
}

// Get returns common.ErrNotFound for tombstones and other owners' records.
func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving category: %w", err)
	}
	if c.OwnerID != s.opts.OwnerID || c.IsTombstone() {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	return c, nil
}
