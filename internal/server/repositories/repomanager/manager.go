package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skillswap/internal/dbx"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/skillswap/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs on *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
