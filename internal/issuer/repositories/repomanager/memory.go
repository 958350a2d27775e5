package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tokenbridge/internal/dbx"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/repositories/users"
)

// MemoryRepositoryManager hands out one process-local user map regardless
// of the DBTX passed in. Nothing survives a restart.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{users: users.NewMemoryRepository()}
}

func (m *MemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}
