package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/timex"
)

// DefaultSyncDelay is how long a mutation waits before its sync pass runs.
// Edits arriving within the window collapse into one pass.
const DefaultSyncDelay = 2 * time.Second

// Scheduler is the part of the sync engine services talk to.
type Scheduler interface {
	ScheduleSync(ownerID string, delay time.Duration)
}

// Redirector checks a new category against existing natural keys.
type Redirector interface {
	RedirectCreate(ctx context.Context, c *models.Category) (*models.Category, bool, error)
}

// CategoryStore is the local category storage used by CategoryService.
type CategoryStore interface {
	GetCategory(ctx context.Context, id string) (*models.Category, error)
	ListActive(ctx context.Context, ownerID string) ([]*models.Category, error)
	FindActiveByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// TransactionStore is the local transaction storage used by
// TransactionService.
type TransactionStore interface {
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListActive(ctx context.Context, ownerID string) ([]*models.Transaction, error)
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// Options configure both services.
type Options struct {
	OwnerID   string
	SyncDelay time.Duration
	Clock     timex.Clock
}

func (o Options) withDefaults() Options {
	if o.SyncDelay <= 0 {
		o.SyncDelay = DefaultSyncDelay
	}
	if o.Clock == nil {
		o.Clock = timex.System{}
	}
	return o
}
