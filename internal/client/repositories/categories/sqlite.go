package categories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/models"
)

const columns = `id, owner_id, name, type, icon, color, is_protected, created_at, updated_at, deleted_at, is_synced`

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (*models.Category, error) {
	var (
		c                    models.Category
		typ                  string
		protected            int
		createdAt, updatedAt int64
		deletedAt            sql.NullInt64
		synced               sql.NullBool
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &typ, &c.Icon, &c.Color, &protected,
		&createdAt, &updatedAt, &deletedAt, &synced); err != nil {
		return nil, err
	}
	c.Type = models.CategoryType(typ)
	c.IsProtected = protected != 0
	c.CreatedAt = models.UnixMilli(createdAt)
	c.UpdatedAt = models.UnixMilli(updatedAt)
	if deletedAt.Valid {
		at := models.UnixMilli(deletedAt.Int64)
		c.DeletedAt = &at
	}
	c.IsSynced = synced.Valid && synced.Bool
	return &c, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullableMilli(t *time.Time) any {
	if t == nil {
		return nil
	}
	return models.ToUnixMilli(*t)
}

// Upsert inserts a category or replaces every column of an existing one.
func (r *SQLiteRepository) Upsert(ctx context.Context, c *models.Category) error {
	query := `INSERT INTO categories (` + columns + `, name_key)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			icon = excluded.icon,
			color = excluded.color,
			is_protected = excluded.is_protected,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at,
			is_synced = excluded.is_synced,
			name_key = excluded.name_key
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OwnerID, c.Name, string(c.Type), c.Icon, c.Color, c.IsProtected,
		models.ToUnixMilli(c.CreatedAt), models.ToUnixMilli(c.UpdatedAt), nullableMilli(c.DeletedAt), c.IsSynced,
		models.NormalizeName(c.Name))
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context, ownerID string) ([]*models.Category, error) {
	return r.list(ctx, `SELECT `+columns+` FROM categories
		WHERE owner_id = ? AND deleted_at IS NULL
		ORDER BY created_at, id`, ownerID)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context, ownerID string) ([]*models.Category, error) {
	return r.list(ctx, `SELECT `+columns+` FROM categories
		WHERE owner_id = ? AND COALESCE(is_synced, 0) = 0 AND deleted_at IS NULL
		ORDER BY created_at, id`, ownerID)
}

func (r *SQLiteRepository) ListPendingDeletes(ctx context.Context, ownerID string) ([]*models.Category, error) {
	return r.list(ctx, `SELECT `+columns+` FROM categories
		WHERE owner_id = ? AND COALESCE(is_synced, 0) = 0 AND deleted_at IS NOT NULL
		ORDER BY created_at, id`, ownerID)
}

func (r *SQLiteRepository) FindActiveByNaturalKey(ctx context.Context, key models.NaturalKey) (*models.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM categories
		WHERE owner_id = ? AND type = ? AND name_key = ? AND deleted_at IS NULL
		ORDER BY created_at, id
		LIMIT 1`, key.OwnerID, string(key.Type), key.Name)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return c, nil
}

// MarkSynced leaves updated_at alone. A local edit landing between the push
// read and this call is flagged synced without having been pushed.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE categories SET is_synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark category synced: %w", err)
	}
	return expectOne(res)
}

func (r *SQLiteRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	ms := models.ToUnixMilli(models.Stamp(at))
	res, err := r.db.ExecContext(ctx, `UPDATE categories
		SET deleted_at = ?, updated_at = ?, is_synced = 0
		WHERE id = ? AND deleted_at IS NULL`, ms, ms, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("wrong rows affected count: %d", n)
	}
}
