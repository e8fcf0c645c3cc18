// Package pg bootstraps the PostgreSQL connection used by the profile store.
//
// Connect opens a pgx/v5 pool from Config (PG_* environment variables) and
// retries until the database answers a ping. Migrate, Rollback and Status run
// goose migrations from an fs.FS, so each store can embed its own schema.
// Healthcheck adapts the pool to the health endpoint, and IsNotFoundError /
// IsDuplicateKeyError classify driver errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, profile.Migrations(), log); err != nil {
//	    return err
//	}
package pg
