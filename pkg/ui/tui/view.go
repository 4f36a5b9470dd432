package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"screenpapers/pkg/gallery"
)

const logo = `░█▀▀░█▀▀░█▀▄░█▀▀░█▀▀░█▀█░█▀█░█▀█░█▀█░█▀▀░█▀▄░█▀▀
░▀▀█░█░░░█▀▄░█▀▀░█▀▀░█░█░█▀▀░█▀█░█▀▀░█▀▀░█▀▄░▀▀█
░▀▀▀░▀▀▀░▀░▀░▀▀▀░▀▀▀░▀░▀░▀░░░▀░▀░▀░░░▀▀▀░▀░▀░▀▀▀`

// View renders the entire TUI
func (m Model) View() string {
	st := m.ctrl.State()

	sections := []string{
		logoStyle.Render(logo),
		m.renderSearchBox(),
	}

	// Only one message is ever shown
	if st.Error != "" {
		sections = append(sections, errorStyle.Render("✗ "+st.Error))
	}

	sections = append(sections, m.renderResults(st))

	if st.ShowPagination() {
		sections = append(sections, renderPagination(st))
	}

	sections = append(sections, m.renderStatus(st))

	if m.showHelp {
		sections = append(sections, renderHelp())
	} else {
		sections = append(sections, helpStyle.Render("tab: switch pane • enter: search/download • [ ]: page • a: download all • ?: help • ctrl+c: quit"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderSearchBox() string {
	style := inputStyle
	if m.focus == focusInput {
		style = inputFocusedStyle
	}
	return style.Render(m.input.View())
}

// renderResults lays the result set out as a grid and scrolls so the
// cursor row stays visible
func (m Model) renderResults(st gallery.State) string {
	if len(st.Images) == 0 {
		switch {
		case st.Phase == gallery.PhaseSearching:
			return emptyStyle.Render(m.spinner.View() + " Searching...")
		case st.Searched:
			return emptyStyle.Render("Nothing to show yet.")
		default:
			return emptyStyle.Render("Type a search term and press enter.")
		}
	}

	cols := m.columns()
	rows := (len(st.Images) + cols - 1) / cols

	visible := rows
	if m.height > 0 {
		// logo, search box, error, pager, status and help take ~14 lines
		visible = clamp((m.height-14)/cardHeight, 1, rows)
	}

	cursorRow := m.cursor / cols
	first := 0
	if cursorRow >= visible {
		first = cursorRow - visible + 1
	}

	var lines []string
	for r := first; r < first+visible && r < rows; r++ {
		var cards []string
		for c := 0; c < cols; c++ {
			i := r*cols + c
			if i >= len(st.Images) {
				break
			}
			cards = append(cards, m.renderCard(i, st.Images[i]))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	if first > 0 || first+visible < rows {
		lines = append(lines, cardMetaStyle.Render(fmt.Sprintf("  row %d-%d of %d", first+1, min(first+visible, rows), rows)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderCard(i int, img gallery.Image) string {
	inner := cardWidth - 4

	title := img.AltText
	if strings.TrimSpace(title) == "" {
		title = "untitled"
	}

	badge := ""
	switch m.marks[img.ID] {
	case downloadSaved:
		badge = savedBadgeStyle.Render(" ✓")
	case downloadFailed:
		badge = failedBadgeStyle.Render(" !")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		cardTitleStyle.Render(truncate(fmt.Sprintf("%d. %s", i+1, title), inner-2))+badge,
		cardMetaStyle.Render(truncate(cardMeta(img), inner)),
		cardURLStyle.Render(truncate(img.PreviewURL, inner)),
		cardMetaStyle.Render("[d] download"),
	)

	style := cardStyle
	if m.focus == focusResults && i == m.cursor {
		style = cardSelectedStyle
	}
	return style.Width(cardWidth - 2).Render(content)
}

func cardMeta(img gallery.Image) string {
	if img.Username == "" {
		return "id: " + img.ID
	}
	return "id: " + img.ID + " by @" + img.Username
}

// Pager labels. The disabled form differs in text as well as style so it
// still reads as disabled without colour.
const (
	prevLabel         = "◀ Previous"
	prevDisabledLabel = "(Previous)"
	nextLabel         = "Next ▶"
)

// renderPagination draws Previous/Next around the page number. Previous is
// disabled on page 1; Next has no upper bound.
func renderPagination(st gallery.State) string {
	prev := pagerButtonStyle.Render(prevLabel)
	if !st.CanGoPrevious() {
		prev = pagerDisabledStyle.Render(prevDisabledLabel)
	}
	next := pagerButtonStyle.Render(nextLabel)
	page := pagerPageStyle.Render(fmt.Sprintf("Page %d", st.Page))

	return lipgloss.JoinHorizontal(lipgloss.Center, prev, page, next)
}

func (m Model) renderStatus(st gallery.State) string {
	var parts []string

	if st.Phase == gallery.PhaseSearching {
		parts = append(parts, m.spinner.View()+" searching")
	}

	if st.Searched {
		parts = append(parts, fmt.Sprintf("%s %s",
			statsLabelStyle.Render("Showing:"),
			statsValueStyle.Render(fmt.Sprintf("%s of %s", humanize.Comma(int64(len(st.Images))), humanize.Comma(int64(st.Total))))))
		if st.TotalPages > 0 {
			parts = append(parts, fmt.Sprintf("%s %s",
				statsLabelStyle.Render("Pages:"),
				statsValueStyle.Render(humanize.Comma(int64(st.TotalPages)))))
		}
	}

	if m.savedCount > 0 {
		parts = append(parts, successStyle.Render(fmt.Sprintf("saved %d (%s)", m.savedCount, humanize.Bytes(uint64(m.savedBytes)))))
	}
	if m.failedCount > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d failed", m.failedCount)))
	}
	if m.inFlight > 0 {
		parts = append(parts, m.spinner.View())
	}
	if m.status != "" {
		parts = append(parts, cardMetaStyle.Render(m.status))
	}

	return strings.Join(parts, "  •  ")
}

func renderHelp() string {
	help := `
  Search pane:
    enter      - Search
    tab/esc    - Go to results

  Results pane:
    ←/→ [ ] p n - Previous / next page
    ↑/↓ k j h l - Move selection
    enter, d   - Download selected image
    a          - Download every image shown
    / s        - Back to the search box
    ?          - Toggle this help
    q, ctrl+c  - Quit
`
	return helpStyle.Render(help)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
