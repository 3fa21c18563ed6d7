package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/chatlens/internal/analytics"
	"github.com/Zuo-Peng/chatlens/internal/index"
	"github.com/Zuo-Peng/chatlens/internal/parse"
	"github.com/Zuo-Peng/chatlens/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeDashboard
)

// item is one row of the left panel: a participant in the dashboard or a
// hit in search mode.
type item struct {
	title       string
	detail      string
	participant string
	hit         *search.Result
}

func (it item) previewKey() string {
	if it.hit != nil {
		return fmt.Sprintf("hit:%d", it.hit.Seq)
	}
	return "who:" + it.participant
}

// message types

type itemsMsg struct {
	query string
	items []item
	err   error
}

type debounceTickMsg struct {
	query string
}

// model

type model struct {
	mode tuiMode

	// search mode
	db         *index.DB
	searchOpts search.Options

	// dashboard mode
	engine     *analytics.Engine
	records    []parse.Record
	reportOpts analytics.ReportOptions
	counts     map[string]int

	query       string
	items       []item
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // item key plus width, to avoid duplicate renders
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *item
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	ti.SetValue(value)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256
	return ti
}

func searchModel(db *index.DB, query string, opts search.Options) model {
	return model{
		mode:        modeSearch,
		db:          db,
		searchOpts:  opts,
		query:       query,
		filterInput: newInput("Search messages...", query),
		preview:     viewport.New(0, 0),
	}
}

func dashboardModel(engine *analytics.Engine, records []parse.Record, opts analytics.ReportOptions) model {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Author]++
	}
	counts[analytics.Overall] = len(records)

	return model{
		mode:        modeDashboard,
		engine:      engine,
		records:     records,
		reportOpts:  opts,
		counts:      counts,
		filterInput: newInput("Filter participants...", ""),
		preview:     viewport.New(0, 0),
	}
}

// RunSearch starts the TUI on search hits and blocks until it exits. It
// returns the hit the user picked with Enter, or nil.
func RunSearch(db *index.DB, query string, opts search.Options) (*search.Result, error) {
	fm, err := run(searchModel(db, query, opts))
	if err != nil {
		return nil, err
	}
	if fm.chosen != nil {
		return fm.chosen.hit, nil
	}
	return nil, nil
}

// RunDashboard starts the TUI on the participant list. Picking a
// participant copies their one-line summary to the clipboard.
func RunDashboard(ctx context.Context, engine *analytics.Engine, records []parse.Record, opts analytics.ReportOptions) error {
	fm, err := run(dashboardModel(engine, records, opts))
	if err != nil {
		return err
	}
	if fm.chosen == nil {
		return nil
	}

	report, err := engine.Report(ctx, records, fm.chosen.participant, opts)
	if err != nil {
		return err
	}
	return copySummary(report.Summary())
}

func run(m model) (model, error) {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return model{}, fmt.Errorf("tui: %w", err)
	}
	return finalModel.(model), nil
}

// copySummary puts the summary on the clipboard, falling back to stdout
// where no clipboard is available.
func copySummary(summary string) error {
	if err := clipboard.WriteAll(summary); err != nil {
		fmt.Printf("%s\n", summary)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", summary)
	return nil
}

// Init triggers the initial search/participant load.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.mode == modeDashboard {
		cmds = append(cmds, m.doParticipants(""))
	} else if m.query != "" {
		cmds = append(cmds, m.doSearch(m.query))
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.items) > 0 && m.cursor < len(m.items) {
				it := m.items[m.cursor]
				m.chosen = &it
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		// Pass remaining keys to text input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newQuery := m.filterInput.Value()
		if newQuery != m.query {
			m.query = newQuery
			cmds = append(cmds, m.scheduleDebouncedSearch(newQuery))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.items) == 0 {
			return m, nil
		}

		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			visibleItems := m.panelHeight() / linesPerItem
			maxOffset := len(m.items) - visibleItems
			if maxOffset < 0 {
				maxOffset = 0
			}
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.items) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			if vpCmd != nil {
				cmds = append(cmds, vpCmd)
			}
			return m, tea.Batch(cmds...)
		}

		return m, nil

	case debounceTickMsg:
		// Only fire if the query hasn't changed since the tick was scheduled
		if msg.query == m.query {
			if m.mode == modeDashboard {
				cmds = append(cmds, m.doParticipants(msg.query))
			} else {
				cmds = append(cmds, m.doSearch(msg.query))
			}
		}
		return m, tea.Batch(cmds...)

	case itemsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.items = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.items = msg.items
		if len(m.items) > 0 {
			cmds = append(cmds, m.loadCurrentPreview())
		} else {
			m.preview.SetContent("")
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			return m, nil
		}
		// drop previews for an item that is no longer selected
		if m.currentPreviewKey() != msg.key {
			return m, nil
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			if msg.hitLine > 0 {
				m.preview.SetYOffset(msg.hitLine)
			} else {
				m.preview.GotoTop()
			}
		}
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	pH := m.panelHeight()
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + pH - 1

	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	var parts []string
	if m.mode == modeDashboard {
		parts = append(parts, fmt.Sprintf("%d participants", len(m.items)))
	} else {
		parts = append(parts, fmt.Sprintf("%d results", len(m.items)))
	}
	parts = append(parts, "click/up/dn navigate")
	parts = append(parts, "scroll/C-u/C-d preview")
	if m.mode == modeDashboard {
		parts = append(parts, "Enter copy summary")
	} else {
		parts = append(parts, "Enter open in editor")
	}
	parts = append(parts, "Esc quit")
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doSearch(query string) tea.Cmd {
	db := m.db
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		if strings.TrimSpace(query) == "" {
			return itemsMsg{query: query}
		}
		results, err := search.Search(db, opts)
		if err != nil {
			return itemsMsg{query: query, err: err}
		}
		return itemsMsg{query: query, items: hitItems(results)}
	}
}

func (m model) doParticipants(filter string) tea.Cmd {
	names := analytics.Participants(m.records)
	counts := m.counts
	return func() tea.Msg {
		return itemsMsg{query: filter, items: participantItems(names, counts, filter)}
	}
}

func hitItems(results []search.Result) []item {
	items := make([]item, len(results))
	for i := range results {
		r := results[i]
		date := r.Timestamp
		if len(date) >= 16 {
			date = strings.Replace(date[:16], "T", " ", 1)
		}
		items[i] = item{
			title:  fmt.Sprintf("%s  %s", date, r.Author),
			detail: r.Snippet,
			hit:    &r,
		}
	}
	return items
}

// participantItems keeps Overall first and the names containing filter,
// ignoring case.
func participantItems(names []string, counts map[string]int, filter string) []item {
	filter = strings.ToLower(strings.TrimSpace(filter))
	var items []item
	for _, name := range names {
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		items = append(items, item{
			title:       name,
			detail:      fmt.Sprintf("%d messages", counts[name]),
			participant: name,
		})
	}
	return items
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) currentPreviewKey() string {
	if len(m.items) == 0 || m.cursor >= len(m.items) {
		return ""
	}
	return fmt.Sprintf("%s@%d", m.items[m.cursor].previewKey(), m.previewWidth())
}

func (m model) loadCurrentPreview() tea.Cmd {
	key := m.currentPreviewKey()
	if key == "" || key == m.previewKey {
		return nil // nothing selected, or already showing this preview
	}
	it := m.items[m.cursor]
	if it.hit != nil {
		return loadConversationCmd(m.db, key, *it.hit, m.query, m.previewWidth())
	}
	return loadReportCmd(m.engine, key, m.records, it.participant, m.reportOpts, m.previewWidth())
}
