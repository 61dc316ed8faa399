package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/documents"
)

// MemoryRepositoryManager keeps everything in process memory.
type MemoryRepositoryManager struct {
	documents *documents.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{documents: documents.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Documents() documents.Repository { return m.documents }

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close() error { return nil }
