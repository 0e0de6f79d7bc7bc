package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/antirev/internal/dbx"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/antirev/internal/server/repositories/posts"
)

// RepositoryManager vends repositories bound to a DBTX so that services can
// run them either on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Posts(db dbx.DBTX) posts.Repository
}
