// Package repomanager vends repository implementations for one storage
// backend and runs that backend's schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tokenbridge/internal/dbx"
	"github.com/dmitrijs2005/tokenbridge/internal/issuer/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
