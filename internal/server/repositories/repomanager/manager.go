// Package repomanager vends repository implementations bound to a database
// handle, and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/aleksvarts/classroom-auth/internal/dbx"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/otps"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/revokedtokens"
	"github.com/aleksvarts/classroom-auth/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to the given DBTX, which lets
// services run several repository calls inside one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
	OTPs(db dbx.DBTX) otps.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
