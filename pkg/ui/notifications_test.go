package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/config"
)

type recordingSender struct {
	titles   []string
	messages []string
}

func (r *recordingSender) Send(title, message string) error {
	r.titles = append(r.titles, title)
	r.messages = append(r.messages, message)
	return nil
}

func TestNotifierDisabled(t *testing.T) {
	n := NewNotifier(config.NotificationConfig{Enabled: false, OnDownload: true, OnError: true})
	assert.Nil(t, n.sender)

	// Must not panic without a sender
	n.NotifyResult(downloader.Result{Path: "x.jpg"})
	n.NotifySummary(downloader.Summary{Saved: 1})

	var nilNotifier *Notifier
	nilNotifier.NotifyResult(downloader.Result{})
}

func TestNotifyResult(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifierWithSender(rec, true, true)

	n.NotifyResult(downloader.Result{Job: downloader.Job{ImageID: "abc"}, Path: "out/abc.jpg", Bytes: 2048})
	n.NotifyResult(downloader.Result{Job: downloader.Job{ImageID: "abc"}, Skipped: true})
	n.NotifyResult(downloader.Result{Job: downloader.Job{ImageID: "bad"}, Err: errors.New("boom")})

	assert.Equal(t, []string{"Wallpaper saved", "Download failed"}, rec.titles)
	assert.Contains(t, rec.messages[0], "out/abc.jpg")
	assert.Contains(t, rec.messages[0], "2.0 kB")
	assert.Contains(t, rec.messages[1], "bad: boom")
}

func TestNotifyRespectsToggles(t *testing.T) {
	rec := &recordingSender{}
	n := NewNotifierWithSender(rec, false, true)

	n.NotifyResult(downloader.Result{Path: "a.jpg"})
	n.NotifySummary(downloader.Summary{Saved: 3})
	assert.Empty(t, rec.titles)

	n.NotifySummary(downloader.Summary{Saved: 2, Failed: 1})
	assert.Equal(t, []string{"Downloads finished with errors"}, rec.titles)
	assert.Equal(t, "2 saved, 1 failed", rec.messages[0])
}

func TestColorizeHonorsNoColor(t *testing.T) {
	old := NoColor
	defer func() { NoColor = old }()

	NoColor = true
	assert.Equal(t, "plain", Red("plain"))

	NoColor = false
	assert.Equal(t, "\033[31mplain\033[0m", Red("plain"))
}

func TestNotifierActive(t *testing.T) {
	var nilNotifier *Notifier
	assert.False(t, nilNotifier.Active())
	assert.False(t, NewNotifier(config.NotificationConfig{Enabled: false}).Active())
	assert.False(t, NewNotifierWithSender(&recordingSender{}, false, false).Active())
	assert.True(t, NewNotifierWithSender(&recordingSender{}, true, false).Active())
}
