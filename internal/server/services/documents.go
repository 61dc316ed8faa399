package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
)

// DocumentService applies owner scoping and validation on top of a
// documents.Repository. It never compares timestamps: conflict resolution
// is the client's job.
type DocumentService struct {
	repo documents.Repository
}

func NewDocumentService(repo documents.Repository) *DocumentService {
	return &DocumentService{repo: repo}
}

func checkOwner(caller, ownerID string) error {
	if caller == "" || caller != ownerID {
		return common.ErrOwnerMismatch
	}
	return nil
}

func parseKind(kind string) (models.Kind, error) {
	k, err := models.ParseKind(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrValidation, err)
	}
	return k, nil
}

// prepare validates doc for caller and normalizes its timestamps.
func prepare(caller string, doc models.Document) (models.Document, error) {
	if err := checkOwner(caller, doc.OwnerID); err != nil {
		return doc, err
	}
	if doc.CreatedAt.IsZero() {
		return doc, fmt.Errorf("%w: created_at is required", common.ErrValidation)
	}
	if _, err := models.FromDocument(doc); err != nil {
		return doc, err
	}

	doc.CreatedAt = models.Stamp(doc.CreatedAt)
	doc.UpdatedAt = models.Stamp(doc.UpdatedAt)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	if doc.DeletedAt != nil {
		at := models.Stamp(*doc.DeletedAt)
		doc.DeletedAt = &at
	}
	return doc, nil
}

// List returns every document of kind owned by ownerID, tombstones included.
func (s *DocumentService) List(ctx context.Context, caller, ownerID, kind string) ([]models.Document, error) {
	if err := checkOwner(caller, ownerID); err != nil {
		return nil, err
	}
	k, err := parseKind(kind)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID, k)
}

// Add stores a new document. Fails with common.ErrAlreadyExists when the id
// is taken for this owner and kind.
func (s *DocumentService) Add(ctx context.Context, caller string, doc models.Document) error {
	doc, err := prepare(caller, doc)
	if err != nil {
		return err
	}
	return s.repo.Insert(ctx, doc)
}

// Update overwrites an existing document. Fails with common.ErrNotFound.
func (s *DocumentService) Update(ctx context.Context, caller string, doc models.Document) error {
	doc, err := prepare(caller, doc)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, doc)
}

// SoftDelete tombstones a document at the given time.
func (s *DocumentService) SoftDelete(ctx context.Context, caller, ownerID, kind, id string, at time.Time) error {
	if err := checkOwner(caller, ownerID); err != nil {
		return err
	}
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	if at.IsZero() {
		return fmt.Errorf("%w: deleted_at is required", common.ErrValidation)
	}
	return s.repo.SoftDelete(ctx, ownerID, k, id, models.Stamp(at))
}
