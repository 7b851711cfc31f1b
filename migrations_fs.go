package crmconnect

import (
	"embed"
	"io/fs"
)

// migrationsFS holds the SQL migration tree for the connector's ephemeral
// store, with dialect alternatives under data/sql/migrations/sqlite.
//
//go:embed data/sql/migrations/*.sql data/sql/migrations/sqlite/*.sql
var migrationsFS embed.FS

// GetMigrationsFS returns the full embedded migration tree.
func GetMigrationsFS() fs.FS {
	return migrationsFS
}

// GetCoreMigrationsFS returns the connector schema migration tree.
func GetCoreMigrationsFS() fs.FS {
	return migrationsFS
}
