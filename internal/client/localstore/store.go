package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophbudget/internal/client/migrations"
	"github.com/dmitrijs2005/gophbudget/internal/common"
	"github.com/dmitrijs2005/gophbudget/internal/dbx"
	"github.com/dmitrijs2005/gophbudget/internal/logging"

	_ "modernc.org/sqlite"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("sqlite", dsn)
}

type Store struct {
	dsn    string
	policy dbx.RetryPolicy
	log    logging.Logger

	mu sync.RWMutex
	db *sql.DB
}

// Open connects to the SQLite database at dsn and migrates it.
func Open(ctx context.Context, dsn string, policy dbx.RetryPolicy, log logging.Logger) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{dsn: dsn, policy: policy, log: log.With("component", "localstore"), db: db}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// DB exposes the current handle. It may change after a reopen.
func (s *Store) DB() *sql.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

func (s *Store) reopen(ctx context.Context, attempt int, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Warn(ctx, "local store call failed, reopening", "attempt", attempt, "error", cause)
	_ = s.db.Close()

	db, err := openDB(s.dsn)
	if err != nil {
		s.log.Error(ctx, "failed to reopen local store", "error", err)
		return
	}
	// A fresh handle may point at a recreated file.
	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		s.log.Error(ctx, "failed to migrate reopened local store", "error", err)
		return
	}
	s.db = db
}

// isDomainError reports errors that describe the data rather than the store.
func isDomainError(err error) bool {
	return errors.Is(err, common.ErrNotFound) ||
		errors.Is(err, common.ErrValidation) ||
		errors.Is(err, common.ErrProtected)
}

// do runs fn under the retry policy.
func (s *Store) do(ctx context.Context, op string, fn func(ctx context.Context, db *sql.DB) error) error {
	err := dbx.Retry(ctx, s.policy, func(ctx context.Context) error {
		err := fn(ctx, s.DB())
		if isDomainError(err) {
			return dbx.Permanent(err)
		}
		return err
	}, s.reopen)

	switch {
	case err == nil:
		return nil
	case isDomainError(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.log.Error(ctx, "local store unavailable", "op", op, "error", err)
		return fmt.Errorf("%s: %w: %w", op, common.ErrLocalDataNotAvailable, err)
	}
}

// WithTx runs fn inside one local transaction, retried as a whole.
func (s *Store) WithTx(ctx context.Context, op string, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	return s.do(ctx, op, func(ctx context.Context, db *sql.DB) error {
		return dbx.WithTx(ctx, db, nil, fn)
	})
}
