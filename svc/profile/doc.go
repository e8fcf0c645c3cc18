// Package profile persists the local profile record attached to every
// provider identity. The row shares its primary key with the identity id
// and is never hard-deleted here.
//
// Store works against any pgx query surface (pool, conn or transaction).
// Migrations returns the embedded goose migrations creating the table:
//
//	if err := pg.Migrate(ctx, pool, cfg, profile.Migrations(), log); err != nil { ... }
//	store := profile.NewStore(pool)
package profile
