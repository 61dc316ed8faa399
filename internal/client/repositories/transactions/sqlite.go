package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/shopspring/decimal"
)

const columns = `id, owner_id, category_id, amount, currency, description, occurred_at, created_at, updated_at, deleted_at, is_synced`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*models.Transaction, error) {
	var (
		tx                               models.Transaction
		amount                           string
		occurredAt, createdAt, updatedAt int64
		deletedAt                        sql.NullInt64
		synced                           sql.NullBool
	)
	if err := row.Scan(&tx.ID, &tx.OwnerID, &tx.CategoryID, &amount, &tx.Currency, &tx.Description,
		&occurredAt, &createdAt, &updatedAt, &deletedAt, &synced); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("bad amount %q for transaction %s: %w", amount, tx.ID, err)
	}
	tx.Amount = d
	tx.OccurredAt = models.UnixMilli(occurredAt)
	tx.CreatedAt = models.UnixMilli(createdAt)
	tx.UpdatedAt = models.UnixMilli(updatedAt)
	if deletedAt.Valid {
		at := models.UnixMilli(deletedAt.Int64)
		tx.DeletedAt = &at
	}
	tx.IsSynced = synced.Valid && synced.Bool
	return &tx, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select transactions: %w", err)
	}
	defer rows.Close()

	var result []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, tx *models.Transaction) error {
	var deletedAt any
	if tx.DeletedAt != nil {
		deletedAt = models.ToUnixMilli(*tx.DeletedAt)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO transactions (`+columns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			amount = excluded.amount,
			currency = excluded.currency,
			description = excluded.description,
			occurred_at = excluded.occurred_at,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			is_synced = excluded.is_synced
	`,
		tx.ID, tx.OwnerID, tx.CategoryID, tx.Amount.String(), tx.Currency, tx.Description,
		models.ToUnixMilli(tx.OccurredAt), models.ToUnixMilli(tx.CreatedAt), models.ToUnixMilli(tx.UpdatedAt),
		deletedAt, tx.IsSynced)
	if err != nil {
		return fmt.Errorf("failed to upsert transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	tx, err := scanTransaction(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM transactions WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY occurred_at DESC, id`, ownerID)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions
		WHERE owner_id = ? AND COALESCE(is_synced, 0) = 0 AND deleted_at IS NULL
		ORDER BY created_at, id`, ownerID)
}

func (r *SQLiteRepository) ListPendingDeletes(ctx context.Context, ownerID string) ([]*models.Transaction, error) {
	return r.list(ctx, `SELECT `+columns+` FROM transactions
		WHERE owner_id = ? AND COALESCE(is_synced, 0) = 0 AND deleted_at IS NOT NULL
		ORDER BY created_at, id`, ownerID)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions SET is_synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark transaction synced: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ms := models.ToUnixMilli(models.Stamp(at))
	res, err := r.db.ExecContext(ctx, `UPDATE transactions
		SET deleted_at = ?, updated_at = ?, is_synced = 0
		WHERE id = ? AND deleted_at IS NULL`, ms, ms, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) RepointCategory(ctx context.Context, fromID, toID string, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE transactions
		SET category_id = ?, updated_at = ?, is_synced = 0
		WHERE category_id = ? AND deleted_at IS NULL`, toID, models.ToUnixMilli(models.Stamp(at)), fromID)
	if err != nil {
		return 0, fmt.Errorf("failed to repoint transactions: %w", err)
	}
	return res.RowsAffected()
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
