package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/parse"
)

// linesPerItem is the number of terminal lines each item occupies.
const linesPerItem = 2

// renderList renders the left panel: participants or hits with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.items) == 0 {
		msg := "No results"
		if m.mode == modeDashboard {
			msg = "No participants"
		}
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render(msg)
	}

	var lines []string
	for i, it := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItemLines(it, width, i == m.cursor)...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatItemLines formats a single item as two lines:
//
//	line 1: [>] title
//	line 2:    detail (dimmed)
func formatItemLines(it item, width int, selected bool) []string {
	title := strings.ReplaceAll(it.title, "\n", " ")
	titleMax := width - 2
	if titleMax < 0 {
		titleMax = 0
	}
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "")
	}

	switch {
	case it.participant == analytics.Overall:
		title = styleOverall.Render(title)
	case it.participant == parse.SentinelAuthor || (it.hit != nil && it.hit.Author == parse.SentinelAuthor):
		title = styleNotice.Render(title)
	case it.participant != "":
		title = styleAuthor.Render(title)
	}

	line1 := "  " + title
	if selected {
		line1 = styleListSelected.Render("> ") + title
	}

	detail := strings.ReplaceAll(it.detail, "\n", " ")
	detail = strings.ReplaceAll(detail, "\t", " ")
	detail = strings.ReplaceAll(detail, ">>>", "")
	detail = strings.ReplaceAll(detail, "<<<", "")
	detailMax := width - 4 // indent
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
