package repomanager

import (
	"context"
	"database/sql"

	"github.com/smirnovds/townsquare/internal/dbx"
	"github.com/smirnovds/townsquare/internal/server/repositories/events"
	"github.com/smirnovds/townsquare/internal/server/repositories/identities"
	"github.com/smirnovds/townsquare/internal/server/repositories/news"
	"github.com/smirnovds/townsquare/internal/server/repositories/refreshtokens"
	"github.com/smirnovds/townsquare/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run several repositories inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Identities(db dbx.DBTX) identities.Repository
	News(db dbx.DBTX) news.Repository
	Events(db dbx.DBTX) events.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
