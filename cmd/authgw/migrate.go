package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tournament-auth/pkg/config"
	"github.com/dmitrymomot/tournament-auth/pkg/pg"
	"github.com/dmitrymomot/tournament-auth/svc/profile"
)

type migrateFunc func(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, src pg.Migrations, log *slog.Logger) error

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the profile store schema",
	}

	steps := []struct {
		use, short string
		run        migrateFunc
	}{
		{"up", "Apply every pending migration", func(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, src pg.Migrations, log *slog.Logger) error {
			return pg.Migrate(ctx, pool, cfg, src, log)
		}},
		{"down", "Revert the latest migration", func(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, src pg.Migrations, log *slog.Logger) error {
			return pg.Rollback(ctx, pool, cfg, src, log)
		}},
		{"status", "Print the state of every migration", func(ctx context.Context, pool *pgxpool.Pool, cfg pg.Config, src pg.Migrations, log *slog.Logger) error {
			return pg.Status(ctx, pool, cfg, src, log)
		}},
	}
	for _, s := range steps {
		run := s.run
		cmd.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigration(cmd.Context(), run)
			},
		})
	}
	return cmd
}

func runMigration(ctx context.Context, run migrateFunc) error {
	app, env, log, err := loadApp()
	if err != nil {
		return err
	}

	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return fmt.Errorf("load database config: %w", err)
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	log.InfoContext(ctx, "running migrations", slog.String("app", app.Name), slog.String("env", env.String()))
	return run(ctx, pool, pgCfg, profile.Migrations(), log)
}
