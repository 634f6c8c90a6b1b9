package main

import (
	"fmt"
	"os"

	"github.com/hacklingo-backend/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data",
	}
	seedForumsCmd = &cobra.Command{
		Use:   "forums [file.yaml]",
		Short: "Insert the forums listed in a YAML file as one batch",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSeedForums,
	}
)

func init() {
	seedCmd.AddCommand(seedForumsCmd)
}

// loadForumSeed reads a YAML list of {name: ...} records
func loadForumSeed(path string) ([]models.ForumInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var inputs []models.ForumInput
	if err := yaml.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return inputs, nil
}

func runSeedForums(cmd *cobra.Command, args []string) error {
	path := "seed/forums.yaml"
	if len(args) == 1 {
		path = args[0]
	}
	inputs, err := loadForumSeed(path)
	if err != nil {
		return err
	}

	db := openDB()
	defer db.Close()

	services, release, err := buildServices(cmd.Context(), db, nil)
	if err != nil {
		return err
	}
	defer release()

	forums, err := services.Forums.InsertMany(cmd.Context(), inputs)
	if err != nil {
		return err
	}
	for _, f := range forums {
		log.Info().Str("id", f.ID).Str("name", f.Name).Msg("Forum inserted")
	}
	log.Info().Int("count", len(forums)).Msg("Forum seed complete")
	return nil
}
