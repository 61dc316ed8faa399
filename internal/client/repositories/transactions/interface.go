package transactions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
)

type Repository interface {
	Upsert(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id string) (*models.Transaction, error)
	ListActive(ctx context.Context, ownerID string) ([]*models.Transaction, error)
	ListUnsynced(ctx context.Context, ownerID string) ([]*models.Transaction, error)
	ListPendingDeletes(ctx context.Context, ownerID string) ([]*models.Transaction, error)
	MarkSynced(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string, at time.Time) error

	// RepointCategory moves the active transactions of one category to another
	// and marks them dirty. It returns the number of rows moved.
	RepointCategory(ctx context.Context, fromID, toID string, at time.Time) (int64, error)
}
