package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/histories"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/memory"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/users"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/vaccines"
)

// InMemoryRepositoryManager vends repositories over one memory.Store. The
// DBTX arguments are ignored; pair it with dbx.NopConn.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.store.Users() }

func (m *InMemoryRepositoryManager) Vaccines(dbx.DBTX) vaccines.Repository {
	return m.store.Vaccines()
}

func (m *InMemoryRepositoryManager) Histories(dbx.DBTX) histories.Repository {
	return m.store.Histories()
}
