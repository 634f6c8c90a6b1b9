package main

import (
	"github.com/spf13/cobra"
)

var sweepRepair bool

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one back-reference consistency sweep and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepRepair {
			cfg.Sweep.Repair = true
		}

		db := openDB()
		defer db.Close()

		services, release, err := buildServices(cmd.Context(), db, nil)
		if err != nil {
			return err
		}
		defer release()

		report, err := services.Sweeper.Sweep(cmd.Context())
		if err != nil {
			return err
		}
		for _, ref := range report.Dangling {
			log.Warn().
				Str("parent_kind", ref.ParentKind).
				Str("parent_id", ref.ParentID).
				Str("child_kind", ref.ChildKind).
				Str("child_id", ref.ChildID).
				Msg("Dangling reference")
		}
		return nil
	},
}

func init() {
	sweepCmd.Flags().BoolVar(&sweepRepair, "repair", false, "prune dangling references")
}
