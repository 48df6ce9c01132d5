// Command bloodctl runs operator tasks against the bloodlink database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bloodlink/internal/auth/store/revocation"
	donationstore "bloodlink/internal/donation/store"
	donorservice "bloodlink/internal/donor/service"
	donorstore "bloodlink/internal/donor/store"
	"bloodlink/internal/platform/config"
	"bloodlink/internal/platform/logger"
	"bloodlink/internal/platform/postgres"
	"bloodlink/pkg/platform/tx"
)

const appName = "bloodctl"

// Version is overridden at link time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Operator tasks for the bloodlink backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to BLOODLINK_LOG_LEVEL")

	env := func() (config.Server, *slog.Logger, error) {
		cfg, err := config.FromEnv()
		if err != nil {
			return config.Server{}, nil, err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return cfg, logger.New(cfg.LogLevel), nil
	}

	cmd.AddCommand(
		migrateCmd(env),
		recomputeCmd(env),
		purgeRevocationsCmd(env),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

type envFunc func() (config.Server, *slog.Logger, error)

func migrateCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), env, func(ctx context.Context, db *sql.DB, log *slog.Logger) error {
				applied, err := postgres.Migrate(ctx, db, log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", len(applied))
				return nil
			})
		},
	}
}

func recomputeCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "recompute-availability",
		Short: "Refresh the stored availability flag of every donor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), env, func(ctx context.Context, db *sql.DB, log *slog.Logger) error {
				// Recompute never creates accounts.
				svc := donorservice.New(donorstore.NewPostgres(db), donationstore.NewPostgres(db), nil, tx.NewSQLRunner(db),
					donorservice.WithLogger(log),
				)
				summary, err := svc.RecomputeAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "recomputed %d donor(s), %d failed\n", summary.Donors, summary.Failed)
				if summary.Failed > 0 {
					return fmt.Errorf("%d donor(s) could not be recomputed", summary.Failed)
				}
				return nil
			})
		},
	}
}

func purgeRevocationsCmd(env envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-revocations",
		Short: "Delete revoked-token entries that have expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), env, func(ctx context.Context, db *sql.DB, _ *slog.Logger) error {
				n, err := revocation.NewPostgresTRL(db).PurgeExpired(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d revocation(s)\n", n)
				return nil
			})
		},
	}
}

func withDB(ctx context.Context, env envFunc, fn func(context.Context, *sql.DB, *slog.Logger) error) error {
	cfg, log, err := env()
	if err != nil {
		return err
	}
	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(ctx, db, log)
}
