// Package documents stores the server copy of every synced record. Backends
// share one contract: no conflict detection, owner-scoped keys, and tombstones
// that are never cleared once set.
package documents

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// Repository is the per-owner document collection behind the remote store.
type Repository interface {
	// List returns every document of kind for ownerID, tombstones included.
	List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error)
	// Get returns common.ErrNotFound for unknown ids.
	Get(ctx context.Context, ownerID string, kind models.Kind, id string) (models.Document, error)
	// Insert fails with common.ErrAlreadyExists when the id is taken.
	Insert(ctx context.Context, doc models.Document) error
	// Update replaces payload and update time. The stored creation time and
	// an existing tombstone are kept. Fails with common.ErrNotFound.
	Update(ctx context.Context, doc models.Document) error
	// SoftDelete tombstones the document at the given time unless it already
	// is one. Fails with common.ErrNotFound.
	SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error
}

// merge applies an update to the stored copy under the Update rules.
func merge(stored, doc models.Document) models.Document {
	out := stored
	out.Payload = append([]byte(nil), doc.Payload...)
	out.UpdatedAt = doc.UpdatedAt
	if out.DeletedAt == nil && doc.DeletedAt != nil {
		at := *doc.DeletedAt
		out.DeletedAt = &at
	}
	return out
}

// tombstone applies a soft delete to the stored copy.
func tombstone(stored models.Document, at time.Time) models.Document {
	if stored.DeletedAt != nil {
		return stored
	}
	out := stored
	out.DeletedAt = &at
	out.UpdatedAt = at
	return out
}
