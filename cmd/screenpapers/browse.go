package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"screenpapers/pkg/ui/tui"
)

var (
	browseConcurrent    int
	browseOverwrite     bool
	browseNotifications bool
	browseResume        bool
)

// browseCmd opens the interactive gallery browser
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive gallery browser",
	Long: `Open the interactive gallery browser.

Type a search term and press enter. Use [ and ] (or the arrow keys) to page,
d or enter to save the selected photo and a to save every photo shown.
Logs are written to a file while the browser is open (see --log-file).
With --resume the last search is reopened at the page it was left on.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, browseCmd} {
		c.Flags().IntVar(&browseConcurrent, "concurrent", 3, "number of concurrent downloads for download-all")
		c.Flags().BoolVar(&browseOverwrite, "overwrite", false, "download all also replaces files that were already saved")
		c.Flags().BoolVar(&browseNotifications, "notifications", false, "send desktop notifications for finished downloads")
		c.Flags().BoolVar(&browseResume, "resume", false, "reopen the last search")
	}
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}

	if !a.cfg.HasAccessKey() {
		a.log.Warn("no access key configured")
	}

	if browseResume {
		a.resumeSession(ctx)
	}

	err = tui.NewTUI(ctx, a.ctrl, a.notifier, a.log).Run()
	a.recordSession()
	if err != nil {
		a.log.WithError(err).Error("browser exited with error")
		return err
	}

	a.log.InfoWithFields("browser closed", map[string]interface{}{
		"downloaded": a.store.GetDownloadedCount(),
	})
	return nil
}
