// Package db implements the opening of database connections.
package db

import (
	"fmt"

	"github.com/tarancss/bridgebot/lib/store"
	"github.com/tarancss/bridgebot/lib/store/file"
	"github.com/tarancss/bridgebot/lib/store/mongo"
	"github.com/tarancss/bridgebot/lib/store/postgres"
)

const (
	FILE     string = "file"
	MONGODB  string = "mongodb"
	POSTGRES string = "postgresql"
)

// New returns a new database connection according to the options (database type).
func New(options, connection string) (store.DB, error) {
	switch options {
	case FILE, "":
		return file.New(connection)
	case MONGODB:
		return mongo.New(connection)
	case POSTGRES:
		return postgres.New(connection)
	}

	return nil, fmt.Errorf("database type %q not supported", options)
}
