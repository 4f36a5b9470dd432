package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/gallery"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/ui"
)

// focusArea is the pane that receives key presses
type focusArea int

const (
	focusInput focusArea = iota
	focusResults
)

// downloadState marks a card once a download for it has finished
type downloadState int

const (
	notDownloaded downloadState = iota
	downloadSaved
	downloadFailed
)

const (
	cardWidth  = 34
	cardHeight = 6 // content lines plus border
)

// Model is the bubbletea model of the gallery browser. All controller
// state changes happen inside Update; commands only run Fetch and the
// download helpers, which leave the controller alone.
type Model struct {
	ctx      context.Context
	ctrl     *gallery.Controller
	notifier *ui.Notifier
	logger   logger.Logger

	input   textinput.Model
	spinner spinner.Model
	focus   focusArea
	cursor  int

	// Download bookkeeping for the status line
	marks       map[string]downloadState
	inFlight    int
	savedCount  int
	savedBytes  int64
	failedCount int
	status      string

	width    int
	height   int
	showHelp bool
}

// NewModel builds the browser around a controller. notifier may be nil.
func NewModel(ctx context.Context, ctrl *gallery.Controller, notifier *ui.Notifier, log logger.Logger) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	ti := textinput.New()
	ti.Placeholder = "Search for wallpapers..."
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	ti.Width = 40
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(neonCyan)

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		notifier: notifier,
		logger:   log.WithField("component", "tui"),
		input:    ti,
		spinner:  s,
		focus:    focusInput,
		marks:    make(map[string]downloadState),
	}

	// A controller that already searched (resumed session) opens on its results
	if st := ctrl.State(); st.Searched {
		m.input.SetValue(st.Query)
		if len(st.Images) > 0 {
			m.setFocus(focusResults)
		}
	}
	return m
}

// columns is how many cards fit side by side
func (m Model) columns() int {
	if m.width <= 0 {
		return 1
	}
	cols := (m.width - 2) / (cardWidth + 2)
	if cols < 1 {
		return 1
	}
	return cols
}

// selected returns the image under the cursor
func (m Model) selected() (gallery.Image, bool) {
	images := m.ctrl.State().Images
	if m.cursor < 0 || m.cursor >= len(images) {
		return gallery.Image{}, false
	}
	return images[m.cursor], true
}

// clampCursor keeps the cursor inside the result set
func (m *Model) clampCursor() {
	n := len(m.ctrl.State().Images)
	switch {
	case n == 0:
		m.cursor = 0
	case m.cursor >= n:
		m.cursor = n - 1
	case m.cursor < 0:
		m.cursor = 0
	}
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// recordDownload folds a finished download into the status line
func (m *Model) recordDownload(res downloader.Result) {
	switch {
	case res.Err != nil:
		m.marks[res.Job.ImageID] = downloadFailed
		m.failedCount++
	case res.Skipped:
		m.marks[res.Job.ImageID] = downloadSaved
	default:
		m.marks[res.Job.ImageID] = downloadSaved
		m.savedCount++
		m.savedBytes += res.Bytes
	}
}
