package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/render"
	"github.com/Zuo-Peng/chatlens/internal/search"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	key     string
	content string
	hitLine int
	err     error
}

// loadConversationCmd renders the messages around a search hit.
func loadConversationCmd(db *index.DB, key string, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		content, hitLine, err := render.RenderConversation(db, render.Options{
			HitSeq:  r.Seq,
			Context: 50,
			Width:   width,
			Query:   query,
		})
		return previewRenderedMsg{key: key, content: content, hitLine: hitLine, err: err}
	}
}

// loadReportCmd computes and renders the report for one participant.
func loadReportCmd(engine *analytics.Engine, key string, records []parse.Record, participant string, opts analytics.ReportOptions, width int) tea.Cmd {
	return func() tea.Msg {
		report, err := engine.Report(context.Background(), records, participant, opts)
		if err != nil {
			return previewRenderedMsg{key: key, err: err}
		}
		return previewRenderedMsg{key: key, content: render.RenderReport(report, width), hitLine: -1}
	}
}

// newViewport creates a new viewport model with the given dimensions.
func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
