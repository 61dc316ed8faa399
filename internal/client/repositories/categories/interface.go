package categories

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// Repository describes storage operations for categories.
type Repository interface {
	// Upsert writes the full row, sync state included.
	Upsert(ctx context.Context, c *models.Category) error

	// GetByID returns a category, tombstones included, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Category, error)

	// ListActive returns the non-tombstoned categories of an owner, oldest first.
	ListActive(ctx context.Context, ownerID string) ([]*models.Category, error)

	// ListUnsynced returns active categories with local changes not yet pushed.
	ListUnsynced(ctx context.Context, ownerID string) ([]*models.Category, error)

	// ListPendingDeletes returns tombstones whose delete has not been pushed.
	ListPendingDeletes(ctx context.Context, ownerID string) ([]*models.Category, error)

	// FindActiveByNaturalKey returns the oldest active category with the key,
	// or common.ErrNotFound.
	FindActiveByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.Category, error)

	// MarkSynced flips is_synced to true.
	MarkSynced(ctx context.Context, id string) error

	// SoftDelete tombstones an active category at the given time.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
