package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// logger is the subset of *slog.Logger used to route goose output.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Migrations locates SQL migration files, usually inside an embed.FS.
type Migrations struct {
	FS  fs.FS
	Dir string
}

// Migrate applies every pending migration.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, src Migrations, log logger) error {
	return run(ctx, pool, cfg, src, log, goose.UpContext)
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, cfg Config, src Migrations, log logger) error {
	return run(ctx, pool, cfg, src, log, goose.DownContext)
}

// Status logs the state of every migration.
func Status(ctx context.Context, pool *pgxpool.Pool, cfg Config, src Migrations, log logger) error {
	return run(ctx, pool, cfg, src, log, goose.StatusContext)
}

func run(
	ctx context.Context,
	pool *pgxpool.Pool,
	cfg Config,
	src Migrations,
	log logger,
	op func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error,
) error {
	if src.FS == nil || src.Dir == "" {
		return errors.Join(ErrFailedToApplyMigrations, ErrMigrationsNotProvided)
	}

	// goose works on database/sql, so the pool is bridged through pgx stdlib.
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}()

	goose.SetBaseFS(src.FS)
	goose.SetLogger(&slogAdapter{log: log})
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}

	if err := op(ctx, db, src.Dir); err != nil {
		return errors.Join(ErrFailedToApplyMigrations, err)
	}
	return nil
}

// slogAdapter routes goose's printf logging to the application logger.
type slogAdapter struct {
	log logger
}

func (a *slogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a *slogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
