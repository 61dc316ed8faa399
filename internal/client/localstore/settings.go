package localstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/client/repositories/settings"
)

// SettingsStore is the durable key/value store, retried like every other call.
type SettingsStore struct {
	s *Store
}

func (s *Store) Settings() *SettingsStore {
	return &SettingsStore{s: s}
}

func (st *SettingsStore) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := st.s.do(ctx, "get setting", func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = settings.NewSQLiteRepository(db).Get(ctx, key)
		return err
	})
	return out, err
}

func (st *SettingsStore) Set(ctx context.Context, key string, value []byte) error {
	return st.s.do(ctx, "set setting", func(ctx context.Context, db *sql.DB) error {
		return settings.NewSQLiteRepository(db).Set(ctx, key, value)
	})
}

func (st *SettingsStore) GetTime(ctx context.Context, key string) (time.Time, error) {
	var out time.Time
	err := st.s.do(ctx, "get setting", func(ctx context.Context, db *sql.DB) error {
		var err error
		out, err = settings.NewSQLiteRepository(db).GetTime(ctx, key)
		return err
	})
	return out, err
}

func (st *SettingsStore) SetTime(ctx context.Context, key string, t time.Time) error {
	return st.s.do(ctx, "set setting", func(ctx context.Context, db *sql.DB) error {
		return settings.NewSQLiteRepository(db).SetTime(ctx, key, t)
	})
}
