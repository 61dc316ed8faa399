package documents

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func doc(owner, id string, created time.Time, payload string) models.Document {
	return models.Document{
		Kind: models.KindCategory, ID: id, OwnerID: owner,
		Payload:   json.RawMessage(payload),
		CreatedAt: created, UpdatedAt: created,
	}
}

func backends() map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
		"s3": func(t *testing.T) Repository {
			r := NewS3Repository(newFakeS3(), "budget")
			require.NoError(t, r.EnsureBucket(context.Background()))
			return r
		},
	}
}

func TestRepositoryContract(t *testing.T) {
	for name, build := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Run("InsertGetList", func(t *testing.T) {
				r := build(t)
				ctx := context.Background()
				require.NoError(t, r.Insert(ctx, doc("u1", "b", t0.Add(time.Second), `{"name":"B"}`)))
				require.NoError(t, r.Insert(ctx, doc("u1", "a", t0.Add(time.Second), `{"name":"A"}`)))
				require.NoError(t, r.Insert(ctx, doc("u1", "c", t0, `{"name":"C"}`)))
				require.NoError(t, r.Insert(ctx, doc("u2", "x", t0, `{"name":"X"}`)))

				got, err := r.Get(ctx, "u1", models.KindCategory, "a")
				require.NoError(t, err)
				assert.JSONEq(t, `{"name":"A"}`, string(got.Payload))

				list, err := r.List(ctx, "u1", models.KindCategory)
				require.NoError(t, err)
				require.Len(t, list, 3)
				assert.Equal(t, []string{"c", "a", "b"}, []string{list[0].ID, list[1].ID, list[2].ID})

				none, err := r.List(ctx, "u1", models.KindTransaction)
				require.NoError(t, err)
				assert.Empty(t, none)
			})

			t.Run("InsertDuplicate", func(t *testing.T) {
				r := build(t)
				ctx := context.Background()
				require.NoError(t, r.Insert(ctx, doc("u1", "a", t0, `{"name":"A"}`)))
				require.ErrorIs(t, r.Insert(ctx, doc("u1", "a", t0, `{"name":"other"}`)), common.ErrAlreadyExists)

				got, err := r.Get(ctx, "u1", models.KindCategory, "a")
				require.NoError(t, err)
				assert.JSONEq(t, `{"name":"A"}`, string(got.Payload))
			})

			t.Run("GetMissing", func(t *testing.T) {
				_, err := build(t).Get(context.Background(), "u1", models.KindCategory, "nope")
				require.ErrorIs(t, err, common.ErrNotFound)
			})

			t.Run("UpdateKeepsCreatedAt", func(t *testing.T) {
				r := build(t)
				ctx := context.Background()
				require.NoError(t, r.Insert(ctx, doc("u1", "a", t0, `{"name":"A"}`)))

				upd := doc("u1", "a", t0.Add(time.Hour), `{"name":"A2"}`)
				upd.UpdatedAt = t0.Add(2 * time.Hour)
				require.NoError(t, r.Update(ctx, upd))

				got, err := r.Get(ctx, "u1", models.KindCategory, "a")
				require.NoError(t, err)
				assert.JSONEq(t, `{"name":"A2"}`, string(got.Payload))
				assert.True(t, t0.Equal(got.CreatedAt))
				assert.True(t, t0.Add(2*time.Hour).Equal(got.UpdatedAt))

				require.ErrorIs(t, r.Update(ctx, doc("u1", "missing", t0, `{}`)), common.ErrNotFound)
			})

			t.Run("TombstoneIsTerminal", func(t *testing.T) {
				r := build(t)
				ctx := context.Background()
				require.NoError(t, r.Insert(ctx, doc("u1", "a", t0, `{"name":"A"}`)))

				del := t0.Add(time.Minute)
				require.NoError(t, r.SoftDelete(ctx, "u1", models.KindCategory, "a", del))
				require.NoError(t, r.SoftDelete(ctx, "u1", models.KindCategory, "a", del.Add(time.Hour)))

				upd := doc("u1", "a", t0, `{"name":"revived"}`)
				upd.UpdatedAt = t0.Add(time.Hour)
				require.NoError(t, r.Update(ctx, upd))

				got, err := r.Get(ctx, "u1", models.KindCategory, "a")
				require.NoError(t, err)
				require.True(t, got.IsTombstone())
				assert.True(t, del.Equal(*got.DeletedAt), "first delete time is kept")

				require.ErrorIs(t, r.SoftDelete(ctx, "u1", models.KindCategory, "zzz", del), common.ErrNotFound)
			})
		})
	}
}
