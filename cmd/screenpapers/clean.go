package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenpapers/pkg/config"
	"screenpapers/pkg/metadata"
	"screenpapers/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove credit files whose photo was deleted",
	Long: `Remove <id>.jpg.json credit files from the output directory when the
photo they describe no longer exists.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return err
	}

	removed, err := metadata.CleanOrphaned(cfg.Download.Directory)
	if err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Removed %d orphaned credit files from %s", removed, cfg.Download.Directory))
	return nil
}
