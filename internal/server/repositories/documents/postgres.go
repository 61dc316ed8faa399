package documents

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

// PostgresRepository implements document storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectDocument = `SELECT id, payload, created_at, updated_at, deleted_at FROM documents`

// List returns all documents of kind for ownerID ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context, ownerID string, kind models.Kind) ([]models.Document, error) {
	query := selectDocument + ` WHERE owner_id=$1 AND kind=$2 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select documents: %w", err)
	}
	defer rows.Close()

	var result []models.Document
	for rows.Next() {
		d := models.Document{OwnerID: ownerID, Kind: kind}
		if err := scanDocument(rows, &d); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Get loads a single document; sql.ErrNoRows becomes common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, ownerID string, kind models.Kind, id string) (models.Document, error) {
	query := selectDocument + ` WHERE owner_id=$1 AND kind=$2 AND id=$3`
	d := models.Document{OwnerID: ownerID, Kind: kind}
	err := scanDocument(r.db.QueryRowContext(ctx, query, ownerID, string(kind), id), &d)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, common.ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("db error: %w", err)
	}
	return d, nil
}

// Insert adds a new document. A row with the same key is left alone and
// common.ErrAlreadyExists is returned.
func (r *PostgresRepository) Insert(ctx context.Context, doc models.Document) error {
	query := `
		INSERT INTO documents (owner_id, kind, id, payload, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, kind, id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		doc.OwnerID, string(doc.Kind), doc.ID, string(doc.Payload), doc.CreatedAt, doc.UpdatedAt, nullTime(doc.DeletedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrAlreadyExists)
}

// Update overwrites payload and updated_at. A stored deleted_at wins over the
// incoming one so tombstones stay terminal.
func (r *PostgresRepository) Update(ctx context.Context, doc models.Document) error {
	query := `
		UPDATE documents
		SET payload = $4, updated_at = $5, deleted_at = COALESCE(deleted_at, $6)
		WHERE owner_id = $1 AND kind = $2 AND id = $3
	`
	res, err := r.db.ExecContext(ctx, query,
		doc.OwnerID, string(doc.Kind), doc.ID, string(doc.Payload), doc.UpdatedAt, nullTime(doc.DeletedAt))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrNotFound)
}

// SoftDelete sets deleted_at and updated_at to at when the row is not yet a
// tombstone. A repeated delete matches the row but changes nothing.
func (r *PostgresRepository) SoftDelete(ctx context.Context, ownerID string, kind models.Kind, id string, at time.Time) error {
	query := `
		UPDATE documents
		SET updated_at = CASE WHEN deleted_at IS NULL THEN $4 ELSE updated_at END,
			deleted_at = COALESCE(deleted_at, $4)
		WHERE owner_id = $1 AND kind = $2 AND id = $3
	`
	res, err := r.db.ExecContext(ctx, query, ownerID, string(kind), id, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, common.ErrNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner, d *models.Document) error {
	var (
		payload []byte
		deleted sql.NullTime
	)
	if err := s.Scan(&d.ID, &payload, &d.CreatedAt, &d.UpdatedAt, &deleted); err != nil {
		return err
	}
	d.Payload = payload
	d.CreatedAt = models.Stamp(d.CreatedAt)
	d.UpdatedAt = models.Stamp(d.UpdatedAt)
	if deleted.Valid {
		at := models.Stamp(deleted.Time)
		d.DeletedAt = &at
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func expectOne(res sql.Result, zero error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return zero
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
