package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"screenpapers/pkg/ui"
	"screenpapers/pkg/ui/tui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	logFile    string
	accessKey  string
	outputDir  string
	profile    string
	noColor    bool
	quiet      bool
)

// rootCmd runs the interactive browser when called without a subcommand
var rootCmd = &cobra.Command{
	Use:   "screenpapers",
	Short: "Search Unsplash and save wallpapers from your terminal",
	Long: `ScreenPapers searches Unsplash for photos and saves the ones you pick
as <id>.jpg in a local directory.

Features:
  - Interactive gallery browser with paging
  - One-shot search command for scripts
  - Concurrent downloads with retry and skip-if-present
  - Photographer credit saved next to every photo
  - Access key stored in the system keychain or an encrypted file
  - Desktop notifications for finished downloads

Run without a subcommand to open the browser.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			ui.NoColor = true
		}
		if ui.NoColor {
			tui.DisableColor()
		}

		// The browser draws its own header
		switch cmd.Name() {
		case "screenpapers", "browse", "version", "help", "completion":
		default:
			if !quiet {
				ui.PrintLogo()
			}
		}
	},
	Args:          cobra.NoArgs,
	RunE:          runBrowse,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.screenpapers.yaml or ~/.config/screenpapers/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, disabled)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&accessKey, "access-key", "", "Unsplash access key (overrides env, config and stored key)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "directory downloads are saved to")
	rootCmd.PersistentFlags().StringVar(&profile, "profile", "", "stored credential profile to use")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress the logo and informational output")

	rootCmd.SetVersionTemplate(`ScreenPapers {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
