package downloader

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"screenpapers/pkg/errors"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/metadata"
	"screenpapers/pkg/retry"
)

// Job is one image to fetch and store
type Job struct {
	ID      string
	ImageID string
	URL     string
	// Meta, when set, is written next to the saved photo
	Meta *metadata.PhotoMetadata
}

// NewJob creates a job with a fresh correlation id
func NewJob(imageID, url string) Job {
	return Job{
		ID:      uuid.NewString(),
		ImageID: imageID,
		URL:     url,
	}
}

// Result reports how a job ended. Skipped results have no error and no bytes.
type Result struct {
	Job      Job
	Path     string
	Bytes    int64
	Skipped  bool
	Err      error
	Duration time.Duration
}

// ImageFetcher opens the remote image behind a download URL
type ImageFetcher interface {
	Download(ctx context.Context, url string) (io.ReadCloser, int64, error)
}

// ImageStore persists images by id
type ImageStore interface {
	IsDownloaded(id string) bool
	Save(id string, r io.Reader) (string, int64, error)
}

// Pool downloads images with bounded concurrency and per-job retries
type Pool struct {
	workers   int
	overwrite bool
	metadata  bool
	timeout   time.Duration
	fetcher   ImageFetcher
	store     ImageStore
	retry     *retry.Config
	logger    logger.Logger
}

// Options configures a Pool
type Options struct {
	Workers       int
	RetryAttempts int
	Overwrite     bool
	// Metadata writes a sidecar for jobs that carry Meta
	Metadata bool
	// Timeout bounds one job including its retries; zero means none
	Timeout time.Duration
	Backoff retry.BackoffStrategy
}

// NewPool creates a download pool
func NewPool(fetcher ImageFetcher, store ImageStore, opts Options, log logger.Logger) *Pool {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	backoff := opts.Backoff
	if backoff == nil {
		backoff = retry.DefaultExponentialBackoff()
	}
	log = log.WithField("component", "downloader")

	return &Pool{
		workers:   opts.Workers,
		overwrite: opts.Overwrite,
		metadata:  opts.Metadata,
		timeout:   opts.Timeout,
		fetcher:   fetcher,
		store:     store,
		retry: &retry.Config{
			// RetryAttempts counts retries, MaxAttempts counts tries
			MaxAttempts: opts.RetryAttempts + 1,
			Backoff:     backoff,
			RetryIf:     retry.DefaultRetryIf,
			Logger:      log,
		},
		logger: log,
	}
}

// Workers returns the concurrency limit
func (p *Pool) Workers() int {
	return p.workers
}

// Download runs a single job to completion, retrying transient failures.
// An explicit single download always fetches and replaces any existing
// file; only Run skips images that are already saved.
func (p *Pool) Download(ctx context.Context, job Job) Result {
	return p.download(ctx, job, false)
}

func (p *Pool) download(ctx context.Context, job Job, skipExisting bool) Result {
	start := time.Now()
	result := Result{Job: job}

	if skipExisting && p.store.IsDownloaded(job.ImageID) {
		result.Skipped = true
		result.Duration = time.Since(start)
		logger.LogDownload(p.logger, job.ImageID, "", 0, true, nil)
		return result
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	err := retry.Do(ctx, p.retry, func(ctx context.Context) error {
		path, n, err := p.fetchAndSave(ctx, job)
		if err != nil {
			return err
		}
		result.Path, result.Bytes = path, n
		return nil
	})

	result.Err = err
	result.Duration = time.Since(start)

	if err == nil {
		p.writeMetadata(job, result)
	}

	p.logger.WithField("job_id", job.ID).DebugWithFields("job finished", map[string]interface{}{
		"image_id": job.ImageID,
		"duration": result.Duration,
	})
	logger.LogDownload(p.logger, job.ImageID, result.Path, result.Bytes, false, err)

	return result
}

// writeMetadata saves the job's sidecar. A failure is logged and does not
// fail the download.
func (p *Pool) writeMetadata(job Job, result Result) {
	if !p.metadata || job.Meta == nil {
		return
	}

	meta := *job.Meta
	meta.FileSize = result.Bytes
	meta.DownloadedAt = time.Now().UTC()
	if err := meta.Save(result.Path); err != nil {
		p.logger.WithError(err).WarnWithFields("failed to write metadata", map[string]interface{}{
			"image_id": job.ImageID,
			"path":     result.Path,
		})
	}
}

func (p *Pool) fetchAndSave(ctx context.Context, job Job) (string, int64, error) {
	body, _, err := p.fetcher.Download(ctx, job.URL)
	if err != nil {
		return "", 0, err
	}
	defer body.Close()

	src := &trackingReader{r: body}
	path, n, err := p.store.Save(job.ImageID, src)
	if err != nil && src.err != nil {
		// The stream broke, not the disk
		return "", n, errors.Wrap(errors.ErrorTypeNetwork, src.err, "image stream interrupted")
	}
	return path, n, err
}

// Run downloads every job with at most Workers in flight, skipping images
// already saved unless Overwrite is set. onResult, if
// set, is called once per job as it finishes; calls are serialized. The
// returned slice is in job order.
func (p *Pool) Run(ctx context.Context, jobs []Job, onResult func(Result)) []Result {
	results := make([]Result, len(jobs))

	p.logger.InfoWithFields("starting batch download", map[string]interface{}{
		"jobs":    len(jobs),
		"workers": p.workers,
	})

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			var res Result
			if err := gctx.Err(); err != nil {
				res = Result{Job: job, Err: err}
			} else {
				res = p.download(gctx, job, !p.overwrite)
			}

			results[i] = res
			if onResult != nil {
				mu.Lock()
				onResult(res)
				mu.Unlock()
			}
			// A failed image never cancels its siblings
			return nil
		})
	}

	_ = g.Wait()

	p.logger.InfoWithFields("batch download finished", map[string]interface{}{
		"jobs": len(jobs),
	})

	return results
}

// Summary counts the outcomes of a batch
type Summary struct {
	Saved   int
	Skipped int
	Failed  int
	Bytes   int64
}

// Summarize tallies results
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Skipped:
			s.Skipped++
		default:
			s.Saved++
			s.Bytes += r.Bytes
		}
	}
	return s
}

// trackingReader remembers the first read error so it can be told apart
// from a write failure
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}
	return n, err
}
