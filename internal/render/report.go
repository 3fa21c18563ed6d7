package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
)

var (
	styleHeading = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	styleSection = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			MarginTop(1)

	styleBar = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	styleMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleStatValue = lipgloss.NewStyle().
			Bold(true)
)

const (
	barRune    = "█"
	maxLabelW  = 24
	defaultW   = 80
	topDays    = 5
	emojiLimit = 10
)

// shades maps heatmap intensity, lowest first.
var shades = []string{"·", "░", "▒", "▓", "█"}

// sparks draws the daily timeline, lowest first.
var sparks = []rune("▁▂▃▄▅▆▇█")

// RenderReport lays out every table of r for a terminal width columns wide.
func RenderReport(r *analytics.Report, width int) string {
	if width <= 0 {
		width = defaultW
	}

	var b strings.Builder
	section := func(title string) {
		b.WriteString(styleSection.Render(title))
		b.WriteString("\n")
	}

	b.WriteString(styleHeading.Render(r.Participant))
	b.WriteString("\n")
	writeStats(&b, r.Stats)

	if r.Ranking != nil && len(r.Ranking.Top) > 0 {
		section("Most active")
		writeBars(&b, r.Ranking.Top, width)

		section("Share of messages")
		lw := labelWidth(shareLabels(r.Ranking.Shares))
		for _, s := range r.Ranking.Shares {
			fmt.Fprintf(&b, "%s %6.2f%%  %s\n", pad(s.Author, lw), s.Percent,
				styleMuted.Render(fmt.Sprintf("(%d)", s.Count)))
		}
		if r.Ranking.Notifications > 0 {
			b.WriteString(styleMuted.Render(fmt.Sprintf("%d group notifications", r.Ranking.Notifications)))
			b.WriteString("\n")
		}
	}

	if len(r.Monthly) > 0 {
		section("Monthly timeline")
		counts := make([]analytics.Count, len(r.Monthly))
		for i, p := range r.Monthly {
			counts[i] = analytics.Count{Key: p.Label, Count: p.Count}
		}
		writeBars(&b, counts, width)
	}

	if len(r.Daily) > 0 {
		section("Daily timeline")
		writeDaily(&b, r.Daily, width)
	}

	if len(r.Weekdays) > 0 {
		section("Busiest days")
		writeBars(&b, r.Weekdays, width)
	}

	if len(r.Months) > 0 {
		section("Busiest months")
		writeBars(&b, r.Months, width)
	}

	if len(r.Heatmap.Rows) > 0 {
		section("Weekly activity")
		writeHeatmap(&b, r.Heatmap)
	}

	if len(r.Words) > 0 {
		section("Most common words")
		writeBars(&b, r.Words, width)
	}

	if len(r.Emoji) > 0 {
		section("Emoji")
		writeEmoji(&b, r.Emoji)
	}

	return b.String()
}

func writeStats(b *strings.Builder, s analytics.Stats) {
	rows := []struct {
		label string
		value int
	}{
		{"Messages", s.Messages},
		{"Words", s.Words},
		{"Media shared", s.Media},
		{"Links shared", s.Links},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "%s %s\n", pad(row.label, 13), styleStatValue.Render(fmt.Sprint(row.value)))
	}
}

// writeBars draws one horizontal bar per count, scaled to the largest.
func writeBars(b *strings.Builder, counts []analytics.Count, width int) {
	labels := make([]string, len(counts))
	peak := 0
	for i, c := range counts {
		labels[i] = c.Key
		if c.Count > peak {
			peak = c.Count
		}
	}
	lw := labelWidth(labels)
	nw := len(fmt.Sprint(peak))
	barW := width - lw - nw - 3
	if barW < 1 {
		barW = 1
	}

	for _, c := range counts {
		n := 0
		if peak > 0 {
			n = c.Count * barW / peak
		}
		if n == 0 && c.Count > 0 {
			n = 1
		}
		fmt.Fprintf(b, "%s %*d %s\n", pad(c.Key, lw), nw, c.Count, styleBar.Render(strings.Repeat(barRune, n)))
	}
}

func writeDaily(b *strings.Builder, days []analytics.DailyPoint, width int) {
	peak := 0
	for _, d := range days {
		if d.Count > peak {
			peak = d.Count
		}
	}
	if peak == 0 {
		peak = 1
	}

	// the sparkline keeps the most recent days that fit
	shown := days
	if len(shown) > width {
		shown = shown[len(shown)-width:]
	}
	var line strings.Builder
	for _, d := range shown {
		line.WriteRune(sparks[d.Count*(len(sparks)-1)/peak])
	}
	b.WriteString(styleBar.Render(line.String()))
	b.WriteString("\n")
	fmt.Fprintf(b, "%s\n", styleMuted.Render(fmt.Sprintf("%s to %s, %d active days",
		days[0].Label, days[len(days)-1].Label, len(days))))

	busiest := make([]analytics.Count, 0, len(days))
	for _, d := range days {
		busiest = append(busiest, analytics.Count{Key: d.Label, Count: d.Count})
	}
	busiest = topCounts(busiest, topDays)
	for _, c := range busiest {
		fmt.Fprintf(b, "%s %d\n", c.Key, c.Count)
	}
}

// topCounts returns the n largest counts, earlier entries first on ties.
func topCounts(counts []analytics.Count, n int) []analytics.Count {
	out := make([]analytics.Count, 0, n)
	for _, c := range counts {
		i := len(out)
		for i > 0 && out[i-1].Count < c.Count {
			i--
		}
		if i >= n {
			continue
		}
		out = append(out, analytics.Count{})
		copy(out[i+1:], out[i:])
		out[i] = c
		if len(out) > n {
			out = out[:n]
		}
	}
	return out
}

func writeHeatmap(b *strings.Builder, h analytics.Heatmap) {
	lw := labelWidth(h.Rows)
	cw := labelWidth(h.Cols)
	peak := h.Max()

	b.WriteString(pad("", lw))
	for _, c := range h.Cols {
		b.WriteString(" ")
		b.WriteString(styleMuted.Render(runewidth.FillLeft(c, cw)))
	}
	b.WriteString("\n")

	for i, row := range h.Rows {
		b.WriteString(pad(row, lw))
		for _, n := range h.Cells[i] {
			b.WriteString(" ")
			b.WriteString(runewidth.FillLeft(shade(n, peak), cw))
		}
		b.WriteString("\n")
	}
	b.WriteString(styleMuted.Render(fmt.Sprintf("%d messages, busiest cell %d", h.Total(), peak)))
	b.WriteString("\n")
}

func shade(n, peak int) string {
	if n == 0 || peak == 0 {
		return shades[0]
	}
	i := 1 + (n-1)*(len(shades)-1)/peak
	if i >= len(shades) {
		i = len(shades) - 1
	}
	return shades[i]
}

func writeEmoji(b *strings.Builder, counts []analytics.Count) {
	if len(counts) > emojiLimit {
		counts = counts[:emojiLimit]
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s %d", c.Key, c.Count)
	}
	b.WriteString(strings.Join(parts, "   "))
	b.WriteString("\n")
}

func shareLabels(shares []analytics.Share) []string {
	out := make([]string, len(shares))
	for i, s := range shares {
		out[i] = s.Author
	}
	return out
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		if lw := runewidth.StringWidth(l); lw > w {
			w = lw
		}
	}
	if w > maxLabelW {
		w = maxLabelW
	}
	return w
}

// pad truncates or fills s to exactly w columns.
func pad(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}
