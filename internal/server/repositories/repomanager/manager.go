package repomanager

import (
	"context"
	"database/sql"

	"github.com/mpetrovs/trove/internal/dbx"
	"github.com/mpetrovs/trove/internal/server/repositories/tokens"
	"github.com/mpetrovs/trove/internal/server/repositories/troves"
	"github.com/mpetrovs/trove/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Troves(db dbx.DBTX) troves.Repository
}
