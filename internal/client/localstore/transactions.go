package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/transactions"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

// TransactionCollection is the transaction side of the store.
type TransactionCollection struct {
	s *Store
}

func (s *Store) Transactions() *TransactionCollection {
	return &TransactionCollection{s: s}
}

func (c *TransactionCollection) Kind() models.Kind { return models.KindTransaction }

func (c *TransactionCollection) list(ctx context.Context, op string,
	fn func(ctx context.Context, r transactions.Repository) ([]*models.Transaction, error)) ([]*models.Transaction, error) {
	var out []*models.Transaction
	err := c.s.do(ctx, op, func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = fn(ctx, transactions.NewSQLiteRepository(db))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func txSyncables(in []*models.Transaction) []models.Syncable {
	out := make([]models.Syncable, 0, len(in))
	for _, t := range in {
		out = append(out, t)
	}
	return out
}

func (c *TransactionCollection) ListUnsynced(ctx context.Context, ownerID string) ([]models.Syncable, error) {
	rows, err := c.list(ctx, "list unsynced transactions", func(ctx context.Context, r transactions.Repository) ([]*models.Transaction, error) {
		return r.ListUnsynced(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return txSyncables(rows), nil
}

func (c *TransactionCollection) ListPendingDeletes(ctx context.Context, ownerID string) ([]models.Syncable, error) {
	rows, err := c.list(ctx, "list deleted transactions", func(ctx context.Context, r transactions.Repository) ([]*models.Transaction, error) {
		return r.ListPendingDeletes(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return txSyncables(rows), nil
}

func (c *TransactionCollection) ListActive(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return c.list(ctx, "list transactions", func(ctx context.Context, r transactions.Repository) ([]*models.Transaction, error) {
		return r.ListActive(ctx, ownerID)
	})
}

func (c *TransactionCollection) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	var out *models.Transaction
	err := c.s.do(ctx, "get transaction", func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = transactions.NewSQLiteRepository(db).GetByID(ctx, id)
		return err
	})
	return out, err
}

func (c *TransactionCollection) Get(ctx context.Context, id string) (models.Syncable, error) {
	tx, err := c.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *TransactionCollection) SaveTransaction(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	return c.s.do(ctx, "save transaction", func(ctx context.Context, db *sql.DB) error {
		return transactions.NewSQLiteRepository(db).Upsert(ctx, tx)
	})
}

func (c *TransactionCollection) Save(ctx context.Context, rec models.Syncable) error {
	tx, ok := rec.(*models.Transaction)
	if !ok {
		return fmt.Errorf("transaction collection cannot store %T", rec)
	}
	return c.SaveTransaction(ctx, tx)
}

func (c *TransactionCollection) MarkSynced(ctx context.Context, id string) error {
	return c.s.do(ctx, "mark transaction synced", func(ctx context.Context, db *sql.DB) error {
		return transactions.NewSQLiteRepository(db).MarkSynced(ctx, id)
	})
}

func (c *TransactionCollection) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return c.s.do(ctx, "delete transaction", func(ctx context.Context, db *sql.DB) error {
		return transactions.NewSQLiteRepository(db).SoftDelete(ctx, id, at)
	})
}
