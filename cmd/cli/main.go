package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calvertross/rosterd/cmd/cli/commands"
	"github.com/calvertross/rosterd/internal/config"
	"github.com/calvertross/rosterd/pkg/core/services"
	"github.com/calvertross/rosterd/pkg/postgres"
	"github.com/calvertross/rosterd/pkg/utils/logging"
)

var (
	env string

	// app is allocated up front so commands can capture it; initApp fills
	// in the dependencies before any RunE executes
	app = &commands.AppContext{}

	pg *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rosterd",
		Short: "rosterd - workforce shift scheduling",
		Long:  `A CLI for materializing weekly schedules from staffing templates, auto-assigning staff to role slots, and publishing the result.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
			if pg != nil {
				pg.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.InstantiateWeekCmd(app))
	rootCmd.AddCommand(commands.AutoAssignCmd(app))
	rootCmd.AddCommand(commands.PublishScheduleCmd(app))
	rootCmd.AddCommand(commands.ViewScheduleCmd(app))
	rootCmd.AddCommand(commands.DetectConflictsCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and the lock registry
func initApp() error {
	ctx := context.Background()

	logger, err := logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))

	logger.Info("Loading configuration")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded successfully")

	logger.Info("Connecting to database")
	pg, err = postgres.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Info("Running migrations")
	if err := pg.RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database initialized successfully")

	app.Cfg = cfg
	app.Database = pg
	app.Locks = services.NewScheduleLocks()
	app.Logger = logger
	app.Ctx = ctx

	return nil
}
