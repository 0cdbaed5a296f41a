package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tasktrack/internal/tasks/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(cmd.Context(), app.LoadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		return application.Run()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := app.LoadConfig()
		db, err := app.OpenStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		version, dirty, err := db.SchemaVersion()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		app.NewLogger(cfg).Info("database migrations applied", "file", cfg.DatabaseFile, "version", version, "dirty", dirty)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd)
}
