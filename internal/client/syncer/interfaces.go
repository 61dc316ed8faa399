package syncer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// LocalCollection is the local store of one entity kind.
type LocalCollection interface {
	Kind() models.Kind
	// ListUnsynced returns active records not yet pushed.
	ListUnsynced(ctx context.Context, ownerID string) ([]models.Syncable, error)
	// ListPendingDeletes returns tombstones not yet pushed.
	ListPendingDeletes(ctx context.Context, ownerID string) ([]models.Syncable, error)
	// Get returns common.ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (models.Syncable, error)
	// Save writes the whole record, sync state included.
	Save(ctx context.Context, rec models.Syncable) error
	MarkSynced(ctx context.Context, id string) error
}

// RemoteStore is the per-owner remote collection. It performs no conflict
// detection of its own.
type RemoteStore interface {
	Ping(ctx context.Context) error
	List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error)
	// Add fails with common.ErrAlreadyExists when the id is taken.
	Add(ctx context.Context, doc models.Document) error
	// Update fails with common.ErrNotFound when the id is unknown.
	Update(ctx context.Context, doc models.Document) error
	SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error
}

// Probe reports whether a network path to the remote store exists.
type Probe interface {
	Online(ctx context.Context) bool
}

// Settings persists the engine's bookkeeping across restarts.
type Settings interface {
	GetTime(ctx context.Context, key string) (time.Time, error)
	SetTime(ctx context.Context, key string, t time.Time) error
}

// CategoryStore is what DuplicateGuard needs from the local store.
type CategoryStore interface {
	FindActiveByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.Category, error)
	ListActive(ctx context.Context, ownerID string) ([]*models.Category, error)
	MergeDuplicates(ctx context.Context, groups []models.DuplicateGroup, at time.Time) (int, error)
	AdoptRemote(ctx context.Context, loser, canonical *models.Category, at time.Time) error
}
