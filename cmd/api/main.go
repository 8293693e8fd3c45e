package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/synchrony/student-management/internal/api/http"
	"github.com/synchrony/student-management/internal/config"
	"github.com/synchrony/student-management/internal/observability"
	"github.com/synchrony/student-management/internal/persistence"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "student-management",
		Short:         "Role based admin and student records service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(_ *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
				return persistence.RunMigrations(pg.PoolHandle(), logger)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive, got %d", steps)
			}
			return withDatabase(cmd.Context(), func(_ *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
				return persistence.RollbackMigrations(pg.PoolHandle(), steps, logger)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default admin and student when no admin exists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), func(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
				cfg.Seed.Enabled = true
				deps, err := buildDependencies(cmd.Context(), cfg, pg, logger)
				if err != nil {
					return err
				}
				defer deps.Close()

				result, err := deps.seeder.Seed(cmd.Context())
				if err != nil {
					return err
				}
				if result == nil {
					logger.Info("admins already present, nothing seeded")
					return nil
				}
				fmt.Printf("admin: %s\nstudent: %s\n", result.AdminUserName, result.StudentUserName)
				return nil
			})
		},
	}
}

// withDatabase loads configuration and a logger, connects postgres and hands them to fn.
func withDatabase(ctx context.Context, fn func(*config.Config, *persistence.Postgres, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer pg.Close()

	return fn(cfg, pg, logger)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withDatabase(ctx, func(cfg *config.Config, pg *persistence.Postgres, logger *zap.Logger) error {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(pg.PoolHandle(), logger); err != nil {
				return err
			}
		}

		deps, err := buildDependencies(ctx, cfg, pg, logger)
		if err != nil {
			return err
		}
		defer deps.Close()

		if _, err := deps.seeder.Seed(ctx); err != nil {
			return err
		}

		app := httptransport.NewServer(httptransport.ServerConfig{
			AppName:        cfg.App.Name,
			BodyLimit:      cfg.App.BodyLimitBytes,
			RequestTimeout: cfg.App.RequestTimeout(),
		}, deps.routes, logger)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", zap.String("addr", cfg.App.Addr()), zap.String("base_path", cfg.App.BasePath))
			errCh <- app.Listen(cfg.App.Addr())
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("fiber listen: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
		}
		return nil
	})
}
