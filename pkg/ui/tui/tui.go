package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"screenpapers/pkg/gallery"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/ui"
)

// TUI wraps the bubbletea program running the gallery browser
type TUI struct {
	program *tea.Program
}

// NewTUI creates the browser. Cancelling ctx stops the program and
// aborts any in-flight fetch or download.
func NewTUI(ctx context.Context, ctrl *gallery.Controller, notifier *ui.Notifier, log logger.Logger) *TUI {
	model := NewModel(ctx, ctrl, notifier, log)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	return &TUI{program: program}
}

// DisableColor renders every style without ANSI colour or attributes
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Run blocks until the user quits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// Stop stops the TUI gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}
