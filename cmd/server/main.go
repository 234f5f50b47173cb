package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/taskflow/internal/config"
	"github.com/yukikurage/taskflow/internal/database"
	"github.com/yukikurage/taskflow/internal/logger"
	"github.com/yukikurage/taskflow/internal/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var cfg config.Config

	serve := func(cmd *cobra.Command, _ []string) error {
		return withDB(cmd.Context(), &cfg, func(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
			if err := database.Migrate(db, log); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			gin.SetMode(cfg.GinMode)
			router := server.NewRouter(server.Deps{
				Config:   &cfg,
				DB:       db,
				Logger:   log,
				Registry: prometheus.NewRegistry(),
			})
			return server.Run(ctx, ":"+cfg.Port, router, log)
		})
	}

	root := &cobra.Command{
		Use:           "taskflow",
		Short:         "Multi-tenant project and task management API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	config.BindOptions(config.NewViper(), root, cfg.Options())

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run database migrations and start the HTTP server",
			RunE:  serve,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), &cfg, func(_ context.Context, db *gorm.DB, log *zap.Logger) error {
					return database.Migrate(db, log)
				})
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Load demo users, organizations, projects and tasks",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withDB(cmd.Context(), &cfg, func(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
					if err := database.Migrate(db, log); err != nil {
						return err
					}
					return database.Seed(ctx, db, log)
				})
			},
		},
	)

	return root
}

// withDB validates cfg, builds the logger and database, and runs fn until an
// interrupt or termination signal arrives.
func withDB(parent context.Context, cfg *config.Config, fn func(context.Context, *gorm.DB, *zap.Logger) error) error {
	if parent == nil {
		parent = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return err
	}

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := fn(ctx, db, log); err != nil {
		log.Error("command failed", zap.Error(err))
		return err
	}
	return nil
}
