package main

import (
	"fmt"
	"os"

	"github.com/hacklingo-backend/internal/config"
	"github.com/hacklingo-backend/internal/database"
	"github.com/hacklingo-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg *config.Config
	log zerolog.Logger

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Hacklingo forum backend",
		Long: `Serves the Hacklingo REST and GraphQL APIs and carries the
maintenance commands for its database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cfg = loaded
			log = logger.New(cfg.Log, cfg.Env)
			return nil
		},
		RunE: runServe,
	}
)

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, sweepCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB connects to the database, fatally on failure
func openDB() *database.DB {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	return db
}
