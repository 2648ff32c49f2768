// Package repomanager vends repositories bound to a DBTX so that services
// can run several of them inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/imunetrack/internal/dbx"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/histories"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/users"
	"github.com/dmitrijs2005/imunetrack/internal/server/repositories/vaccines"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Vaccines(db dbx.DBTX) vaccines.Repository
	Histories(db dbx.DBTX) histories.Repository
}
