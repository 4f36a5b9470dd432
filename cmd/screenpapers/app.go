package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/auth"
	"screenpapers/pkg/checkpoint"
	"screenpapers/pkg/config"
	"screenpapers/pkg/gallery"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/storage"
	"screenpapers/pkg/ui"
	"screenpapers/pkg/unsplash"
)

// app is everything a command needs, wired from one config
type app struct {
	cfg       *config.Config
	log       logger.Logger
	client    *unsplash.Client
	store     *storage.Manager
	pool      *downloader.Pool
	ctrl      *gallery.Controller
	notifier  *ui.Notifier
	session   *checkpoint.Manager
	keySource string
}

// commandFlags collects the flags that override config values. Only flags
// the user actually set are included.
func commandFlags(cmd *cobra.Command) map[string]interface{} {
	flags := map[string]interface{}{
		"access-key": accessKey,
		"output":     outputDir,
		"log-level":  logLevel,
		"log-file":   logFile,
	}

	if f := cmd.Flags().Lookup("concurrent"); f != nil && f.Changed {
		if n, err := cmd.Flags().GetInt("concurrent"); err == nil {
			flags["concurrent"] = n
		}
	}
	if f := cmd.Flags().Lookup("overwrite"); f != nil && f.Changed {
		if b, err := cmd.Flags().GetBool("overwrite"); err == nil {
			flags["overwrite"] = b
		}
	}
	if f := cmd.Flags().Lookup("notifications"); f != nil && f.Changed {
		if b, err := cmd.Flags().GetBool("notifications"); err == nil {
			flags["notifications"] = b
		}
	}
	return flags
}

// newApp loads config, resolves the access key once and builds the
// client, storage, pool and controller around it
func newApp(cmd *cobra.Command, interactive bool) (*app, error) {
	cfg, err := config.Load(configFile, commandFlags(cmd))
	if err != nil {
		return nil, err
	}

	// The browser owns the terminal, so logs go to a file
	if interactive && cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile()
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	keySource := "config"
	if !cfg.HasAccessKey() {
		key, source := storedAccessKey(log)
		cfg.Unsplash.AccessKey = key
		keySource = source
	}

	client := unsplash.NewClient(&cfg.Unsplash, log)

	store, err := storage.NewManager(cfg.Download.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	pool := downloader.NewPool(client, store, downloader.Options{
		Workers:       cfg.Download.Concurrent,
		RetryAttempts: cfg.Download.RetryAttempts,
		Overwrite:     cfg.Download.Overwrite,
		Metadata:      cfg.Download.Metadata,
		Timeout:       cfg.Download.Timeout,
	}, log)

	session, err := checkpoint.NewManager("", log)
	if err != nil {
		log.WithError(err).Warn("session will not be saved")
		session = nil
	}

	log.InfoWithFields("screenpapers starting", map[string]interface{}{
		"version":    version,
		"output":     store.GetOutputDir(),
		"workers":    pool.Workers(),
		"key_source": keySource,
	})

	return &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		store:     store,
		pool:      pool,
		ctrl:      gallery.New(cfg.Unsplash.AccessKey, client, pool, log),
		notifier:  ui.NewNotifier(cfg.Notifications),
		session:   session,
		keySource: keySource,
	}, nil
}

// recordSession remembers the current search for --resume
func (a *app) recordSession() {
	st := a.ctrl.State()
	if a.session == nil || !st.Searched || len(st.Images) == 0 {
		return
	}
	if err := a.session.Record(st.Query, st.Page, st.Total); err != nil {
		a.log.WithError(err).Warn("failed to save session")
	}
}

// resumeSession replays the saved search up to the saved page. It stops at
// the first page that fails; the controller shows why.
func (a *app) resumeSession(ctx context.Context) {
	if a.session == nil {
		return
	}
	s, err := a.session.Load()
	if err != nil {
		a.log.WithError(err).Warn("failed to load session")
		return
	}
	if s == nil {
		return
	}

	a.ctrl.Search(ctx, s.Query)
	for a.ctrl.State().Page < s.Page && a.ctrl.State().Error == "" {
		if !a.ctrl.Next(ctx) {
			break
		}
	}
	a.log.InfoWithFields("session resumed", map[string]interface{}{
		"query": s.Query,
		"page":  a.ctrl.State().Page,
	})
}

// storedAccessKey falls back to the credential manager. A missing key is
// not an error here; the controller reports it on the first search.
func storedAccessKey(log logger.Logger) (string, string) {
	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Debug("credential manager unavailable")
		return "", "none"
	}

	cred, backend, err := manager.Retrieve(profile)
	if err != nil {
		log.WithError(err).Debug("no stored access key")
		return "", "none"
	}
	return cred.AccessKey, backend
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "screenpapers", "screenpapers.log")
}
