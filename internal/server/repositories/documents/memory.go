package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

type memoryKey struct {
	owner string
	kind  models.Kind
	id    string
}

// MemoryRepository keeps documents in process memory. Useful for development
// servers and tests; nothing survives a restart.
type MemoryRepository struct {
	mu   sync.RWMutex
	docs map[memoryKey]models.Document
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[memoryKey]models.Document)}
}

func (r *MemoryRepository) List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Document
	for k, d := range r.docs {
		if k.owner == ownerID && k.kind == kind {
			result = append(result, clone(d))
		}
	}
	sortDocuments(result)
	return result, nil
}

func (r *MemoryRepository) Get(ctx context.Context, ownerID string, kind models.Kind, id string) (models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.docs[memoryKey{ownerID, kind, id}]
	if !ok {
		return models.Document{}, common.ErrNotFound
	}
	return clone(d), nil
}

func (r *MemoryRepository) Insert(ctx context.Context, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{doc.OwnerID, doc.Kind, doc.ID}
	if _, ok := r.docs[k]; ok {
		return common.ErrAlreadyExists
	}
	r.docs[k] = clone(doc)
	return nil
}

func (r *MemoryRepository) Update(ctx context.Context, doc models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{doc.OwnerID, doc.Kind, doc.ID}
	stored, ok := r.docs[k]
	if !ok {
		return common.ErrNotFound
	}
	r.docs[k] = merge(stored, doc)
	return nil
}

func (r *MemoryRepository) SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := memoryKey{ownerID, kind, id}
	stored, ok := r.docs[k]
	if !ok {
		return common.ErrNotFound
	}
	r.docs[k] = tombstone(stored, at)
	return nil
}

func clone(d models.Document) models.Document {
	d.Payload = append([]byte(nil), d.Payload...)
	if d.DeletedAt != nil {
		at := *d.DeletedAt
		d.DeletedAt = &at
	}
	return d
}

// sortDocuments orders by creation time, then id, so every backend lists the
// same way.
func sortDocuments(docs []models.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID < docs[j].ID
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
}
