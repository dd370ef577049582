package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpavlenko/cashcard/internal/dbx"
	"github.com/dpavlenko/cashcard/internal/server/repositories/cards"
	"github.com/dpavlenko/cashcard/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same factory for plain connections and for transactions.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Cards(db dbx.DBTX) cards.Repository
}
