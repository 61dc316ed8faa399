package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/categories"
	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// CategoryCollection is the category side of the store.
type CategoryCollection struct {
	s *Store
}

func (s *Store) Categories() *CategoryCollection {
	return &CategoryCollection{s: s}
}

func (c *CategoryCollection) Kind() models.Kind { return models.KindCategory }

func (c *CategoryCollection) list(ctx context.Context, op string,
	fn func(ctx context.Context, r categories.Repository) ([]*models.Category, error)) ([]*models.Category, error) {
	var out []*models.Category
	err := c.s.do(ctx, op, func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = fn(ctx, categories.NewSQLiteRepository(db))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toSyncables(in []*models.Category) []models.Syncable {
	out := make([]models.Syncable, 0, len(in))
	for _, c := range in {
		out = append(out, c)
	}
	return out
}

func (c *CategoryCollection) ListUnsynced(ctx context.Context, ownerID string) ([]models.Syncable, error) {
	rows, err := c.list(ctx, "list unsynced categories", func(ctx context.Context, r categories.Repository) ([]*models.Category, error) {
		return r.ListUnsynced(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return toSyncables(rows), nil
}

func (c *CategoryCollection) ListPendingDeletes(ctx context.Context, ownerID string) ([]models.Syncable, error) {
	rows, err := c.list(ctx, "list deleted categories", func(ctx context.Context, r categories.Repository) ([]*models.Category, error) {
		return r.ListPendingDeletes(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return toSyncables(rows), nil
}

// ListActive returns the owner's non-tombstoned categories, oldest first.
func (c *CategoryCollection) ListActive(ctx context.Context, ownerID string) ([]*models.Category, error) {
	return c.list(ctx, "list categories", func(ctx context.Context, r categories.Repository) ([]*models.Category, error) {
		return r.ListActive(ctx, ownerID)
	})
}

func (c *CategoryCollection) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var out *models.Category
	err := c.s.do(ctx, "get category", func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = categories.NewSQLiteRepository(db).GetByID(ctx, id)
		return err
	})
	return out, err
}

func (c *CategoryCollection) Get(ctx context.Context, id string) (models.Syncable, error) {
	cat, err := c.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *CategoryCollection) FindActiveByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.Category, error) {
	var out *models.Category
	err := c.s.do(ctx, "find category", func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = categories.NewSQLiteRepository(db).FindActiveByNaturalKey(ctx, key)
		return err
	})
	return out, err
}

func (c *CategoryCollection) SaveCategory(ctx context.Context, cat *models.Category) error {
	if err := cat.Validate(); err != nil {
		return err
	}
	return c.s.do(ctx, "save category", func(ctx context.Context, db *sql.DB) error {
		return categories.NewSQLiteRepository(db).Upsert(ctx, cat)
	})
}

func (c *CategoryCollection) Save(ctx context.Context, rec models.Syncable) error {
	cat, ok := rec.(*models.Category)
	if !ok {
		return fmt.Errorf("category collection cannot store %T", rec)
	}
	return c.SaveCategory(ctx, cat)
}

func (c *CategoryCollection) MarkSynced(ctx context.Context, id string) error {
	return c.s.do(ctx, "mark category synced", func(ctx context.Context, db *sql.DB) error {
		return categories.NewSQLiteRepository(db).MarkSynced(ctx, id)
	})
}

func (c *CategoryCollection) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return c.s.do(ctx, "delete category", func(ctx context.Context, db *sql.DB) error {
		return categories.NewSQLiteRepository(db).SoftDelete(ctx, id, at)
	})
}

// MergeDuplicates tombstones every loser and moves its transactions to the
// kept category, all in one transaction. It returns the number of tombstones.
func (c *CategoryCollection) MergeDuplicates(ctx context.Context, groups []models.DuplicateGroup, at time.Time) (int, error) {
	n := 0
	err := c.s.WithTx(ctx, "merge duplicate categories", func(ctx context.Context, tx dbx.DBTX) error {
		n = 0
		cats := categories.NewSQLiteRepository(tx)
		txs := transactions.NewSQLiteRepository(tx)
		for _, g := range groups {
			for _, loser := range g.Losers {
				if err := cats.SoftDelete(ctx, loser.ID, at); err != nil {
					return fmt.Errorf("tombstone %s: %w", loser.ID, err)
				}
				if _, err := txs.RepointCategory(ctx, loser.ID, g.Keep.ID, at); err != nil {
					return err
				}
				n++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// AdoptRemote makes canonical, a remote category sharing loser's natural key,
// the local survivor. canonical is stored as synced, loser's transactions move
// to it, and loser becomes a synced tombstone: its content never reaches the
// remote store. A local copy of canonical holding a newer edit is kept as is
// and left for the next push.
func (c *CategoryCollection) AdoptRemote(ctx context.Context, loser, canonical *models.Category, at time.Time) error {
	if err := canonical.Validate(); err != nil {
		return err
	}
	return c.s.WithTx(ctx, "adopt remote category", func(ctx context.Context, tx dbx.DBTX) error {
		cats := categories.NewSQLiteRepository(tx)
		current, err := cats.GetByID(ctx, canonical.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
		case err != nil:
			return err
		}
		if current == nil || !current.ComparisonTime().After(canonical.ComparisonTime()) {
			kept := *canonical
			kept.IsSynced = true
			if err := cats.Upsert(ctx, &kept); err != nil {
				return err
			}
		}
		if _, err := transactions.NewSQLiteRepository(tx).RepointCategory(ctx, loser.ID, canonical.ID, at); err != nil {
			return err
		}
		if err := cats.SoftDelete(ctx, loser.ID, at); err != nil {
			return err
		}
		return cats.MarkSynced(ctx, loser.ID)
	})
}

// EnsureDefaults seeds the protected categories an owner does not have yet.
// Existing rows are left alone, tombstones included.
func (c *CategoryCollection) EnsureDefaults(ctx context.Context, ownerID string, now time.Time) (int, error) {
	n := 0
	err := c.s.WithTx(ctx, "seed default categories", func(ctx context.Context, tx dbx.DBTX) error {
		n = 0
		r := categories.NewSQLiteRepository(tx)
		for _, d := range models.DefaultCategories(ownerID, now) {
			_, err := r.GetByID(ctx, d.ID)
			if err == nil {
				continue
			}
			if !isDomainError(err) {
				return err
			}
			if err := r.Upsert(ctx, d); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}
