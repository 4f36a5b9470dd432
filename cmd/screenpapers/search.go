package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/gallery"
	"screenpapers/pkg/ui"
)

var (
	searchPages         int
	searchDownload      []string
	searchAll           bool
	searchConcurrent    int
	searchOverwrite     bool
	searchNotifications bool
)

// searchCmd runs a search without the browser
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search Unsplash and print the results",
	Long: `Search Unsplash and print the results as a table.

Each page holds 20 photos. Pages after the first are appended, the same way
the browser does it. Photos can be saved by id or all at once.`,
	Example: `  # First page of results
  screenpapers search mountains

  # Three pages, then save two of them
  screenpapers search "night sky" --pages 3 --download abc123 --download def456

  # Save everything on the first page into ./walls
  screenpapers search ocean --all --output ./walls`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to fetch")
	searchCmd.Flags().StringSliceVarP(&searchDownload, "download", "d", nil, "save the photo with this id (repeatable)")
	searchCmd.Flags().BoolVarP(&searchAll, "all", "a", false, "save every photo in the results")
	searchCmd.Flags().IntVar(&searchConcurrent, "concurrent", 3, "number of concurrent downloads")
	searchCmd.Flags().BoolVar(&searchOverwrite, "overwrite", false, "download all also replaces files that were already saved")
	searchCmd.Flags().BoolVar(&searchNotifications, "notifications", false, "send desktop notifications for finished downloads")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	if !quiet {
		ui.PrintInfo("Search", query)
	}

	a.ctrl.Search(ctx, query)
	for page := 2; page <= searchPages; page++ {
		if a.ctrl.State().Error != "" {
			break
		}
		a.ctrl.Next(ctx)
	}

	st := a.ctrl.State()
	if st.Error != "" {
		if len(st.Images) == 0 {
			return fmt.Errorf("%s", st.Error)
		}
		ui.PrintWarning(st.Error)
	}

	a.recordSession()
	fmt.Println(resultsTable(st.Images))
	if !quiet {
		ui.PrintInfo("Showing", fmt.Sprintf("%s of %s (page %d of %s)",
			humanize.Comma(int64(len(st.Images))), humanize.Comma(int64(st.Total)),
			st.Page, humanize.Comma(int64(st.TotalPages))))
		if q := a.client.Quota(); q.Known() {
			ui.PrintInfo("Quota", fmt.Sprintf("%d of %d requests left this hour", q.Remaining, q.Limit))
		}
	}

	var results []downloader.Result
	switch {
	case searchAll:
		results = a.ctrl.DownloadAll(ctx, func(r downloader.Result) {
			printDownload(r)
			a.notifier.NotifyResult(r)
		})
	case len(searchDownload) > 0:
		for _, id := range searchDownload {
			r, ok := a.ctrl.DownloadImage(ctx, id)
			if !ok {
				ui.PrintWarning("Not in the results, skipped", id)
				continue
			}
			printDownload(r)
			a.notifier.NotifyResult(r)
			results = append(results, r)
		}
	default:
		return nil
	}

	s := downloader.Summarize(results)
	a.notifier.NotifySummary(s)
	ui.PrintHighlight(fmt.Sprintf("%d saved, %d skipped, %d failed (%s) in %s",
		s.Saved, s.Skipped, s.Failed, humanize.Bytes(uint64(s.Bytes)), a.store.GetOutputDir()))

	if s.Failed > 0 {
		return fmt.Errorf("%d downloads failed", s.Failed)
	}
	return nil
}

func resultsTable(images []gallery.Image) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("#", "ID", "DESCRIPTION", "BY", "PREVIEW")
	for i, img := range images {
		alt := img.AltText
		if alt == "" {
			alt = "untitled"
		}
		by := ""
		if img.Username != "" {
			by = "@" + img.Username
		}
		table.AddRow(i+1, img.ID, alt, by, img.PreviewURL)
	}
	return table
}

func printDownload(r downloader.Result) {
	switch {
	case r.Err != nil:
		ui.PrintError("Failed "+r.Job.ImageID, r.Err)
	case r.Skipped:
		fmt.Println(ui.Dim("skipped " + r.Job.ImageID + " (already saved)"))
	default:
		ui.PrintSuccess(fmt.Sprintf("saved %s (%s)", r.Path, humanize.Bytes(uint64(r.Bytes))))
	}
}
