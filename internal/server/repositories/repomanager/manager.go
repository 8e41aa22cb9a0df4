// Package repomanager hands out repositories bound to a DB handle or an open
// transaction, so services can compose multi-write operations atomically.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dsmirnov/authd/internal/dbx"
	"github.com/dsmirnov/authd/internal/server/repositories/resettokens"
	"github.com/dsmirnov/authd/internal/server/repositories/sessions"
	"github.com/dsmirnov/authd/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
