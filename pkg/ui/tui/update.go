package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/gallery"
)

// fetchResultMsg carries a finished search fetch back to the UI loop
type fetchResultMsg struct {
	result gallery.Result
}

// downloadResultMsg is one finished single-image download
type downloadResultMsg struct {
	result downloader.Result
}

// downloadBatchMsg is a finished download-all run
type downloadBatchMsg struct {
	results []downloader.Result
}

// Init starts the cursor blink and the spinner
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = clamp(msg.Width-12, 10, 80)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fetchResultMsg:
		m.ctrl.Apply(msg.result)
		if msg.result.Request.Page <= 1 && msg.result.Err == nil {
			m.cursor = 0
		}
		m.clampCursor()
		return m, nil

	case downloadResultMsg:
		m.inFlight--
		m.recordDownload(msg.result)
		m.status = describeDownload(msg.result)
		return m, m.notifyCmd(msg.result)

	case downloadBatchMsg:
		m.inFlight--
		for _, res := range msg.results {
			m.recordDownload(res)
		}
		s := downloader.Summarize(msg.results)
		m.status = fmt.Sprintf("Download all: %d saved, %d skipped, %d failed (%s)",
			s.Saved, s.Skipped, s.Failed, humanize.Bytes(uint64(s.Bytes)))
		return m, m.notifyBatchCmd(msg.results, s)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab", "shift+tab":
		if m.focus == focusInput {
			m.setFocus(focusResults)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}
	return m.handleResultsKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		req, ok := m.ctrl.Submit(m.input.Value())
		if !ok {
			return m, nil
		}
		m.setFocus(focusResults)
		return m, tea.Batch(m.fetchCmd(req), m.spinner.Tick)
	case tea.KeyEsc:
		if len(m.ctrl.State().Images) > 0 {
			m.setFocus(focusResults)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	cols := m.columns()

	switch msg.String() {
	case "q", "Q":
		return m, tea.Quit

	case "/", "s":
		m.setFocus(focusInput)
		return m, nil

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "up", "k":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
		return m, nil
	case "down", "j":
		if m.cursor+cols < len(st.Images) {
			m.cursor += cols
		}
		return m, nil
	case "h":
		m.cursor--
		m.clampCursor()
		return m, nil
	case "l":
		m.cursor++
		m.clampCursor()
		return m, nil
	case "home", "g":
		m.cursor = 0
		return m, nil
	case "end", "G":
		m.cursor = len(st.Images) - 1
		m.clampCursor()
		return m, nil

	case "]", "right", "n":
		// The pagination bar is hidden until the first search
		if !st.ShowPagination() {
			return m, nil
		}
		req, ok := m.ctrl.NextPage()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(req), m.spinner.Tick)

	case "[", "left", "p":
		if !st.ShowPagination() {
			return m, nil
		}
		req, ok := m.ctrl.PreviousPage()
		if !ok {
			return m, nil
		}
		return m, tea.Batch(m.fetchCmd(req), m.spinner.Tick)

	case "enter", "d":
		img, ok := m.selected()
		if !ok {
			return m, nil
		}
		job, ok := m.ctrl.DownloadJob(img.ID)
		if !ok {
			return m, nil
		}
		m.inFlight++
		m.status = "Downloading " + img.ID + "..."
		return m, m.downloadCmd(job)

	case "a":
		jobs := m.ctrl.DownloadAllJobs()
		if len(jobs) == 0 {
			return m, nil
		}
		m.inFlight++
		m.status = fmt.Sprintf("Downloading %d images...", len(jobs))
		return m, m.downloadAllCmd(jobs)
	}

	return m, nil
}

// Commands

func (m Model) fetchCmd(req gallery.Request) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return fetchResultMsg{result: ctrl.Fetch(ctx, req)}
	}
}

func (m Model) downloadCmd(job downloader.Job) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return downloadResultMsg{result: ctrl.SaveJob(ctx, job)}
	}
}

func (m Model) downloadAllCmd(jobs []downloader.Job) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return downloadBatchMsg{results: ctrl.SaveJobs(ctx, jobs, nil)}
	}
}

// notifyCmd sends the desktop notification for one download. Senders
// shell out, so they never run on the UI loop.
func (m Model) notifyCmd(res downloader.Result) tea.Cmd {
	if !m.notifier.Active() {
		return nil
	}
	notifier := m.notifier
	return func() tea.Msg {
		notifier.NotifyResult(res)
		return nil
	}
}

func (m Model) notifyBatchCmd(results []downloader.Result, s downloader.Summary) tea.Cmd {
	if !m.notifier.Active() {
		return nil
	}
	notifier := m.notifier
	return func() tea.Msg {
		for _, res := range results {
			notifier.NotifyResult(res)
		}
		notifier.NotifySummary(s)
		return nil
	}
}

func describeDownload(res downloader.Result) string {
	switch {
	case res.Err != nil:
		return fmt.Sprintf("Download failed: %s", res.Job.ImageID)
	case res.Skipped:
		return "Already saved: " + res.Path
	default:
		return fmt.Sprintf("Saved %s (%s)", res.Path, humanize.Bytes(uint64(res.Bytes)))
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
