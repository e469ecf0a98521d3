// Package repomanager wires concrete repository implementations to a shared
// database handle and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/golfcoachpro/backend/internal/dbx"
	"github.com/golfcoachpro/backend/internal/server/repositories/swings"
	"github.com/golfcoachpro/backend/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a db or tx handle, so
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Swings(db dbx.DBTX) swings.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
