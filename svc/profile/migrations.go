package profile

import (
	"embed"

	"github.com/dmitrymomot/tournament-auth/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded goose migrations for the profiles table.
func Migrations() pg.Migrations {
	return pg.Migrations{FS: migrationsFS, Dir: "migrations"}
}
