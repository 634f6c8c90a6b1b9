package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateUpCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			defer db.Close()
			return db.RunMigrations(cfg.Database.MigrationsPath)
		},
	}
	migrateDownCmd = &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := openDB()
			defer db.Close()
			return db.MigrateDown(cfg.Database.MigrationsPath)
		},
	}
	migrateToCmd = &cobra.Command{
		Use:   "to [version]",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			db := openDB()
			defer db.Close()
			return db.MigrateToVersion(cfg.Database.MigrationsPath, uint(version))
		},
	}
)

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateToCmd)
}
