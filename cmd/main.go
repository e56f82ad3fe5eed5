package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"medilink/cmd/bootstrap"
	"medilink/internal/infrastructure/database"
	"medilink/internal/infrastructure/migration"
	"medilink/internal/infrastructure/seed"
	"medilink/internal/scheduler"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "medilink",
		Short:         "MediLink clinic backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(sweepCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the notification scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New(version)
			if err != nil {
				return err
			}

			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	withMigrator := func(fn func(m *migration.Migrator) error) error {
		cfg, log, _, err := bootstrap.Load()
		if err != nil {
			return err
		}

		m, err := migration.New(database.MigrationURL(cfg.DB), log)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(m)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error {
				return m.Up()
			})
		},
	})

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(func(m *migration.Migrator) error {
				return m.Down(steps)
			})
		},
	}
	downCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(downCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	})

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with the demo clinic",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, location, err := bootstrap.Load()
			if err != nil {
				return err
			}

			db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			return seed.Run(cmd.Context(), db, log, time.Now().In(location))
		},
	}
}

func sweepCmd() *cobra.Command {
	names := []string{
		scheduler.SweepUpcomingSupplies,
		scheduler.SweepDailyReminders,
		scheduler.SweepLowStock,
		scheduler.SweepExpiringSupplies,
		"all",
	}

	cmd := &cobra.Command{
		Use:       "sweep <name>",
		Short:     "Run a notification sweep once",
		Long:      "Run a notification sweep once. Names: " + strings.Join(names, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			app, err := bootstrap.New(version)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return app.RunSweep(ctx, args[0], force)
		},
	}
	cmd.Flags().Bool("force", false, "Run even if the sweep already ran today")

	return cmd
}
