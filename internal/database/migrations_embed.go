package database

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the schema migration files compiled into the binary,
// rooted at the migrations directory.
func MigrationsFS() fs.FS {
	return migrationsFS
}

// MigrationsPath is the directory inside MigrationsFS holding *.up.sql files.
const MigrationsPath = "migrations"
