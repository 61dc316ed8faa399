// Package repomanager selects and owns the document store backend: it opens
// connections, runs migrations or bucket setup, and vends the repository.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophbudget/internal/server/config"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
)

type RepositoryManager interface {
	// RunMigrations prepares the backend schema or bucket. Safe to repeat.
	RunMigrations(ctx context.Context) error
	Documents() documents.Repository
	Close() error
}

// New builds the manager for cfg.Storage and prepares its backend.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	switch cfg.Storage {
	case config.StoragePostgres:
		m, err = NewPostgresRepositoryManager(cfg.DatabaseDSN)
	case config.StorageS3:
		m, err = NewS3RepositoryManager(ctx, S3Options{
			Region:       cfg.S3Region,
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
	case config.StorageMemory:
		m = NewMemoryRepositoryManager()
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
	if err != nil {
		return nil, err
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}
