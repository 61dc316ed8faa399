// Package categories provides the client-side persistence layer for
// categories.
//
// Every row carries its sync state: is_synced (NULL counts as unsynced),
// deleted_at (tombstone, never purged) and updated_at (the conflict-resolution
// timestamp). name_key holds the normalized name used for duplicate detection.
//
// Typical Usage
//
//	repo := categories.NewSQLiteRepository(db) // or a *sql.Tx
//	_ = repo.Upsert(ctx, c)
//	dirty, _ := repo.ListUnsynced(ctx, ownerID)
//	_ = repo.MarkSynced(ctx, c.ID)
package categories
