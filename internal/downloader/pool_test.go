package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "screenpapers/pkg/errors"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/metadata"
	"screenpapers/pkg/retry"
	"screenpapers/pkg/storage"
)

type mockFetcher struct {
	delay    time.Duration
	failures map[string]int // remaining failures per URL
	errFor   func(url string) error
	calls    int32
	inFlight int32
	peak     int32
	mu       sync.Mutex
}

func (m *mockFetcher) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	atomic.AddInt32(&m.calls, 1)
	cur := atomic.AddInt32(&m.inFlight, 1)
	defer atomic.AddInt32(&m.inFlight, -1)
	for {
		peak := atomic.LoadInt32(&m.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&m.peak, peak, cur) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	if m.failures[url] > 0 {
		m.failures[url]--
		m.mu.Unlock()
		return nil, 0, apperrors.New(apperrors.ErrorTypeNetwork, "connection reset")
	}
	m.mu.Unlock()

	if m.errFor != nil {
		if err := m.errFor(url); err != nil {
			return nil, 0, err
		}
	}

	body := "image:" + url
	return io.NopCloser(strings.NewReader(body)), int64(len(body)), nil
}

func fastOptions(workers int) Options {
	return Options{
		Workers:       workers,
		RetryAttempts: 2,
		Backoff:       &retry.ConstantBackoff{Delay: time.Millisecond},
	}
}

func newStore(t *testing.T) *storage.Manager {
	t.Helper()
	store, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewJob(t *testing.T) {
	a := NewJob("img1", "https://example.com/1")
	b := NewJob("img1", "https://example.com/1")

	assert.Equal(t, "img1", a.ImageID)
	assert.Len(t, a.ID, 36)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestDownloadSavesImage(t *testing.T) {
	store := newStore(t)
	pool := NewPool(&mockFetcher{}, store, fastOptions(1), logger.NewTestLogger())

	res := pool.Download(context.Background(), NewJob("abc", "u/abc"))
	require.NoError(t, res.Err)
	assert.False(t, res.Skipped)
	assert.Equal(t, store.PathFor("abc"), res.Path)
	assert.Equal(t, int64(len("image:u/abc")), res.Bytes)
	assert.True(t, store.IsDownloaded("abc"))
}

func TestDownloadWritesMetadata(t *testing.T) {
	store := newStore(t)
	opts := fastOptions(1)
	opts.Metadata = true
	pool := NewPool(&mockFetcher{}, store, opts, logger.NewTestLogger())

	job := NewJob("abc", "u/abc")
	job.Meta = &metadata.PhotoMetadata{
		ID:           "abc",
		Photographer: metadata.Photographer{Name: "Jane Doe", Username: "janed"},
		SourceURL:    "u/abc",
	}

	res := pool.Download(context.Background(), job)
	require.NoError(t, res.Err)

	meta, err := metadata.Load(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", meta.Photographer.Name)
	assert.Equal(t, res.Bytes, meta.FileSize)
	assert.False(t, meta.DownloadedAt.IsZero())
	assert.Zero(t, job.Meta.FileSize, "the job's metadata is not mutated")

	// A job without metadata gets no sidecar
	res = pool.Download(context.Background(), NewJob("plain", "u/plain"))
	require.NoError(t, res.Err)
	assert.False(t, metadata.Exists(res.Path))
}

func TestRunSkipsExisting(t *testing.T) {
	store := newStore(t)
	_, _, err := store.Save("abc", strings.NewReader("old"))
	require.NoError(t, err)

	fetcher := &mockFetcher{}
	pool := NewPool(fetcher, store, fastOptions(1), logger.NewTestLogger())

	results := pool.Run(context.Background(), []Job{NewJob("abc", "u/abc")}, nil)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fetcher.calls))
}

func TestRunOverwrite(t *testing.T) {
	store := newStore(t)
	_, _, err := store.Save("abc", strings.NewReader("old"))
	require.NoError(t, err)

	opts := fastOptions(1)
	opts.Overwrite = true
	fetcher := &mockFetcher{}
	pool := NewPool(fetcher, store, opts, logger.NewTestLogger())

	results := pool.Run(context.Background(), []Job{NewJob("abc", "u/abc")}, nil)
	require.NoError(t, results[0].Err)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
}

func TestDownloadAlwaysFetchesExisting(t *testing.T) {
	store := newStore(t)
	_, _, err := store.Save("abc", strings.NewReader("old"))
	require.NoError(t, err)

	fetcher := &mockFetcher{}
	pool := NewPool(fetcher, store, fastOptions(1), logger.NewTestLogger())

	res := pool.Download(context.Background(), NewJob("abc", "u/abc"))
	require.NoError(t, res.Err)
	assert.False(t, res.Skipped)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "image:u/abc", string(data))
}

func TestDownloadRetriesTransientFailures(t *testing.T) {
	fetcher := &mockFetcher{failures: map[string]int{"u/flaky": 2}}
	pool := NewPool(fetcher, newStore(t), fastOptions(1), logger.NewTestLogger())

	res := pool.Download(context.Background(), NewJob("flaky", "u/flaky"))
	require.NoError(t, res.Err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&fetcher.calls))
}

func TestDownloadGivesUpAfterRetries(t *testing.T) {
	fetcher := &mockFetcher{failures: map[string]int{"u/down": 10}}
	log := logger.NewTestLogger()
	pool := NewPool(fetcher, newStore(t), fastOptions(1), log)

	res := pool.Download(context.Background(), NewJob("down", "u/down"))
	require.Error(t, res.Err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&fetcher.calls))
	assert.True(t, log.HasMessage("Download failed"))
}

func TestDownloadDoesNotRetryNotFound(t *testing.T) {
	fetcher := &mockFetcher{errFor: func(url string) error {
		return apperrors.Remote(404, "Not Found")
	}}
	pool := NewPool(fetcher, newStore(t), fastOptions(1), logger.NewTestLogger())

	res := pool.Download(context.Background(), NewJob("gone", "u/gone"))
	require.Error(t, res.Err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetcher.calls))
}

type brokenStreamFetcher struct{ calls int32 }

type brokenReader struct{ sent bool }

func (b *brokenReader) Read(p []byte) (int, error) {
	if !b.sent {
		b.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("unexpected EOF from peer")
}

func (f *brokenStreamFetcher) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	atomic.AddInt32(&f.calls, 1)
	return io.NopCloser(&brokenReader{}), -1, nil
}

func TestInterruptedStreamIsRetriedAsNetworkError(t *testing.T) {
	fetcher := &brokenStreamFetcher{}
	store := newStore(t)
	pool := NewPool(fetcher, store, fastOptions(1), logger.NewTestLogger())

	res := pool.Download(context.Background(), NewJob("cut", "u/cut"))
	require.Error(t, res.Err)
	assert.Equal(t, apperrors.ErrorTypeNetwork, apperrors.TypeOf(res.Err))
	assert.Equal(t, int32(3), atomic.LoadInt32(&fetcher.calls))
	assert.False(t, store.IsDownloaded("cut"))
}

func TestRunRespectsWorkerLimit(t *testing.T) {
	fetcher := &mockFetcher{delay: 20 * time.Millisecond}
	pool := NewPool(fetcher, newStore(t), fastOptions(3), logger.NewTestLogger())

	var jobs []Job
	for i := 0; i < 12; i++ {
		jobs = append(jobs, NewJob(fmt.Sprintf("img%d", i), fmt.Sprintf("u/%d", i)))
	}

	var seen []string
	results := pool.Run(context.Background(), jobs, func(r Result) {
		seen = append(seen, r.Job.ImageID)
	})

	require.Len(t, results, 12)
	assert.Len(t, seen, 12)
	for i, r := range results {
		assert.Equal(t, jobs[i].ID, r.Job.ID, "results keep job order")
		assert.NoError(t, r.Err)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&fetcher.peak), int32(3))
	assert.Equal(t, 3, pool.Workers())
}

func TestRunIsolatesFailures(t *testing.T) {
	fetcher := &mockFetcher{errFor: func(url string) error {
		if url == "u/bad" {
			return apperrors.Remote(403, "Forbidden")
		}
		return nil
	}}
	store := newStore(t)
	_, _, err := store.Save("old", strings.NewReader("x"))
	require.NoError(t, err)

	pool := NewPool(fetcher, store, fastOptions(2), logger.NewTestLogger())
	results := pool.Run(context.Background(), []Job{
		NewJob("good", "u/good"),
		NewJob("bad", "u/bad"),
		NewJob("old", "u/old"),
	}, nil)

	summary := Summarize(results)
	assert.Equal(t, 1, summary.Saved)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, int64(len("image:u/good")), summary.Bytes)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := NewPool(&mockFetcher{}, newStore(t), fastOptions(2), logger.NewTestLogger())
	results := pool.Run(ctx, []Job{NewJob("a", "u/a"), NewJob("b", "u/b")}, nil)

	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

// blockingFetcher never answers until the context is done
type blockingFetcher struct{}

func (blockingFetcher) Download(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	<-ctx.Done()
	return nil, 0, apperrors.Wrap(apperrors.ErrorTypeNetwork, ctx.Err(), "request aborted")
}

func TestDownloadTimeout(t *testing.T) {
	opts := fastOptions(1)
	opts.Timeout = 20 * time.Millisecond
	pool := NewPool(blockingFetcher{}, newStore(t), opts, logger.NewTestLogger())

	start := time.Now()
	res := pool.Download(context.Background(), NewJob("slow", "u/slow"))

	require.Error(t, res.Err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
