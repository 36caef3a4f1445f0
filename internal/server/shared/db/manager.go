package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/admingate/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Close() error
	Users() users.Repository
}
