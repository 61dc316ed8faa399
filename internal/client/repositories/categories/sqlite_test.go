package categories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(context.Background(), db))
	return db
}

func cat(id, name string, created time.Time) *models.Category {
	return &models.Category{
		SyncMeta: models.SyncMeta{ID: id, OwnerID: "u1", CreatedAt: created, UpdatedAt: created},
		Name:     name,
		Type:     models.CategoryExpense,
	}
}

func TestUpsert_InsertThenReplace(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	c := cat("c1", "Food", t0)
	c.Icon, c.Color = "fork", "#ff0000"
	require.NoError(t, r.Upsert(ctx, c))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	c.Name = "Groceries"
	c.UpdatedAt = t0.Add(time.Minute)
	c.IsSynced = true
	require.NoError(t, r.Upsert(ctx, c))

	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.True(t, got.IsSynced)
	assert.Equal(t, t0.Add(time.Minute), got.UpdatedAt)
}

func TestGetByID_NotFound(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestNullSyncStateCountsAsUnsynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO categories (id, owner_id, name, name_key, type, created_at, updated_at)
		VALUES ('legacy', 'u1', 'Old', 'old', 'expense', 1, 1)`)
	require.NoError(t, err)

	unsynced, err := r.ListUnsynced(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "legacy", unsynced[0].ID)
	assert.False(t, unsynced[0].IsSynced)
}

func TestListUnsyncedAndPendingDeletes_AreDisjoint(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	dirty := cat("dirty", "A", t0)
	clean := cat("clean", "B", t0)
	clean.IsSynced = true
	gone := cat("gone", "C", t0)
	gone.Tombstone(t0.Add(time.Second))
	goneSynced := cat("gone-synced", "D", t0)
	goneSynced.Tombstone(t0.Add(time.Second))
	goneSynced.IsSynced = true
	other := cat("other", "E", t0)
	other.OwnerID = "u2"

	for _, c := range []*models.Category{dirty, clean, gone, goneSynced, other} {
		require.NoError(t, r.Upsert(ctx, c))
	}

	unsynced, err := r.ListUnsynced(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, "dirty", unsynced[0].ID)

	deletes, err := r.ListPendingDeletes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, deletes, 1)
	assert.Equal(t, "gone", deletes[0].ID)
	assert.Equal(t, t0.Add(time.Second), *deletes[0].DeletedAt)

	active, err := r.ListActive(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestFindActiveByNaturalKey_ReturnsEarliest(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, cat("late", "food", t0.Add(time.Hour))))
	require.NoError(t, r.Upsert(ctx, cat("early", "  FOOD ", t0)))
	deleted := cat("deleted", "Food", t0.Add(-time.Hour))
	deleted.Tombstone(t0)
	require.NoError(t, r.Upsert(ctx, deleted))

	got, err := r.FindActiveByNaturalKey(ctx, models.NewNaturalKey("u1", "Food", models.CategoryExpense))
	require.NoError(t, err)
	assert.Equal(t, "early", got.ID)

	_, err = r.FindActiveByNaturalKey(ctx, models.NewNaturalKey("u1", "Food", models.CategoryIncome))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkSynced(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Upsert(ctx, cat("c1", "Food", t0)))

	require.NoError(t, r.MarkSynced(ctx, "c1"))
	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Equal(t, t0, got.UpdatedAt, "marking synced keeps the update time")

	require.ErrorIs(t, r.MarkSynced(ctx, "missing"), common.ErrNotFound)
}

func TestSoftDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	c := cat("c1", "Food", t0)
	c.IsSynced = true
	require.NoError(t, r.Upsert(ctx, c))

	at := t0.Add(time.Minute)
	require.NoError(t, r.SoftDelete(ctx, "c1", at))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	require.True(t, got.IsTombstone())
	assert.Equal(t, at, *got.DeletedAt)
	assert.Equal(t, at, got.UpdatedAt)
	assert.False(t, got.IsSynced)

	require.ErrorIs(t, r.SoftDelete(ctx, "c1", at), common.ErrNotFound, "tombstones are terminal")
}
