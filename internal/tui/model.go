// Package tui is the terminal front end of the company directory: a search
// box, location and industry selectors, a sort control and a paginated
// table over the dataset held by a browser.Session.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"company-directory/internal/browser"
	"company-directory/internal/core"
	"company-directory/internal/debounce"
	"company-directory/internal/loader"
)

const (
	title           = "Companies Directory"
	emptyTableText  = "No companies to display."
	noMatchesText   = "No companies match your filters."
	loadingText     = "Loading companies..."
	searchLabel     = "Search name / location / industry"
	minContentWidth = 40
)

type focus int

const (
	focusSearch focus = iota
	focusLocation
	focusIndustry
	focusSort
	focusTable
	focusCount
)

// loadedMsg carries the sequencer's terminal state.
type loadedMsg struct {
	state core.LoadState
}

// snapshotMsg signals that the session changed off the UI goroutine (the
// debounced search text).
type snapshotMsg struct{}

// Options configures the model.
type Options struct {
	Debounce time.Duration
	PageSize int
	Logger   *zap.Logger
	Styles   *Styles
	KeyMap   *KeyMap
}

// Model is the bubbletea model for the directory browser.
type Model struct {
	ctx    context.Context
	seq    *loader.Sequencer
	opts   Options
	styles *Styles
	keys   *KeyMap
	logger *zap.Logger

	spinner  spinner.Model
	search   textinput.Model
	location *Selector
	industry *Selector
	table    table.Model
	help     help.Model

	focus   focus
	state   core.LoadState
	session *browser.Session
	snap    browser.Snapshot
	updates chan struct{}

	width  int
	height int
}

// NewModel creates the model. Loading starts when the program calls Init.
func NewModel(ctx context.Context, seq *loader.Sequencer, opts Options) *Model {
	if opts.Debounce <= 0 {
		opts.Debounce = debounce.DefaultDelay
	}
	opts.PageSize = core.NormalizePageSize(opts.PageSize)
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Styles == nil {
		opts.Styles = NewStyles(nil)
	}
	if opts.KeyMap == nil {
		opts.KeyMap = DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = searchLabel
	ti.Prompt = ""
	ti.CharLimit = 128
	ti.Width = 28

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithHeight(opts.PageSize),
		table.WithStyles(opts.Styles.Table),
		table.WithKeyMap(opts.KeyMap.TableKeyMap()),
	)

	return &Model{
		ctx:      ctx,
		seq:      seq,
		opts:     opts,
		styles:   opts.Styles,
		keys:     opts.KeyMap,
		logger:   opts.Logger,
		spinner:  sp,
		search:   ti,
		location: NewSelector("Location", nil),
		industry: NewSelector("Industry", nil),
		table:    tbl,
		help:     help.New(),
		state:    core.LoadState{Phase: core.PhaseLoading},
		updates:  make(chan struct{}, 1),
		width:    80,
	}
}

// Init starts the spinner and the dataset load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *Model) load() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{state: m.seq.Load(m.ctx)}
	}
}

func (m *Model) waitForUpdate() tea.Cmd {
	ch := m.updates
	ctx := m.ctx
	return func() tea.Msg {
		select {
		case <-ch:
			return snapshotMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case loadedMsg:
		m.state = msg.state
		if m.state.Phase != core.PhaseReady {
			return m, nil
		}
		m.startSession(m.state.Records)
		return m, tea.Batch(m.search.Focus(), m.waitForUpdate())

	case snapshotMsg:
		if m.session != nil {
			m.refresh()
		}
		return m, m.waitForUpdate()

	case spinner.TickMsg:
		if m.state.Phase != core.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) startSession(records []core.Company) {
	m.session = browser.NewSession(records,
		browser.WithDebounce(m.opts.Debounce),
		browser.WithPageSize(m.opts.PageSize),
		browser.WithLogger(m.logger),
	)
	m.session.Subscribe(func(browser.Snapshot) {
		select {
		case m.updates <- struct{}{}:
		default:
		}
	})
	m.logger.Debug("Browser session started",
		zap.String("session", m.session.ID().String()),
		zap.Int("records", len(records)))
	m.setFocus(focusSearch)
	m.refresh()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}
	if m.session == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.NextControl):
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.PrevControl):
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case key.Matches(msg, m.keys.CycleSort):
		m.session.SetSortKey(m.snap.Sort.Key.Next())
	case key.Matches(msg, m.keys.ToggleOrder):
		m.session.ToggleSortDirection()
	case key.Matches(msg, m.keys.NextPage):
		m.session.NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		m.session.PrevPage()
	case key.Matches(msg, m.keys.PageSize):
		m.session.SetPageSize(core.NextPageSize(m.snap.Page.Size))
	default:
		return m.handleFocusedKey(msg)
	}

	m.refresh()
	return m, nil
}

func (m *Model) handleFocusedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if after := m.search.Value(); after != before {
			m.session.SetQueryText(after)
		}

	case focusLocation, focusIndustry:
		sel := m.location
		apply := m.session.SetLocation
		if m.focus == focusIndustry {
			sel = m.industry
			apply = m.session.SetIndustry
		}
		switch {
		case key.Matches(msg, m.keys.OptionRight):
			sel.Next()
		case key.Matches(msg, m.keys.OptionLeft):
			sel.Prev()
		default:
			return m, nil
		}
		apply(sel.Value())

	case focusSort:
		switch {
		case key.Matches(msg, m.keys.OptionRight):
			m.session.SetSortKey(m.snap.Sort.Key.Next())
		case key.Matches(msg, m.keys.OptionLeft):
			m.session.SetSortKey(prevSortKey(m.snap.Sort.Key))
		default:
			return m, nil
		}

	case focusTable:
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	m.refresh()
	return m, cmd
}

func prevSortKey(k core.SortKey) core.SortKey {
	for i, sk := range core.SortKeys {
		if sk == k {
			return core.SortKeys[(i+len(core.SortKeys)-1)%len(core.SortKeys)]
		}
	}
	return core.SortByName
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	if f == focusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
	if f == focusTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

// refresh pulls the latest snapshot from the session into the widgets.
func (m *Model) refresh() {
	m.snap = m.session.Snapshot()
	view := m.snap.View

	m.location.SetOptions(view.Locations)
	m.industry.SetOptions(view.Industries)

	rows := make([]table.Row, 0, len(view.Rows))
	for _, c := range view.Rows {
		rows = append(rows, table.Row{c.Name, c.LocationValue(), c.IndustryValue()})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
	m.resize()
}

func (m *Model) resize() {
	m.table.SetColumns(columns(m.width))

	height := m.opts.PageSize
	if m.session != nil {
		height = m.snap.Page.Size
	}
	if m.height > 0 && height > m.height-14 {
		height = max(3, m.height-14)
	}
	m.table.SetHeight(height + 2) // header and its border
	m.help.Width = m.width
}

func columns(width int) []table.Column {
	avail := max(width-8, minContentWidth)
	name := avail * 2 / 5
	loc := (avail - name) / 2
	return []table.Column{
		{Title: core.SortByName.Label(), Width: name},
		{Title: core.SortByLocation.Label(), Width: loc},
		{Title: core.SortByIndustry.Label(), Width: avail - name - loc},
	}
}

// View renders the current state.
func (m *Model) View() string {
	switch m.state.Phase {
	case core.PhaseLoading:
		return m.styles.Document.Render(m.spinner.View() + " " + loadingText)
	case core.PhaseError:
		return m.styles.Document.Render(m.styles.Error.Render(m.state.Message))
	}
	if m.session == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.controlsView())
	b.WriteString("\n")

	if len(m.snap.View.Rows) == 0 {
		b.WriteString(m.styles.Muted.Render(emptyTableText))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render(m.footerView()))

	if m.snap.View.Empty() {
		b.WriteString("\n")
		b.WriteString(m.styles.Info.Render(noMatchesText))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.Document.Render(b.String())
}

func (m *Model) controlsView() string {
	order := "↑"
	if m.snap.Sort.Direction == core.Descending {
		order = "↓"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.control(focusSearch, "Search", m.search.View()),
		m.control(focusLocation, m.location.Label(), "◀ "+m.location.Display()+" ▶"),
		m.control(focusIndustry, m.industry.Label(), "◀ "+m.industry.Display()+" ▶"),
		m.control(focusSort, "Sort", m.snap.Sort.Key.Label()+" "+order),
	)
}

func (m *Model) control(f focus, label, body string) string {
	style := m.styles.Control
	if m.focus == f {
		style = m.styles.Focused
	}
	return style.Render(m.styles.Label.Render(label) + "\n" + body)
}

func (m *Model) footerView() string {
	return fmt.Sprintf("Rows per page: %d   %s   Page %d of %d   Order: %s",
		m.snap.Page.Size,
		rangeLabel(m.snap),
		m.snap.Page.Index+1,
		max(m.snap.View.Page.PageCount, 1),
		m.snap.Sort.Direction.Label(),
	)
}

func rangeLabel(s browser.Snapshot) string {
	p := s.View.Page
	if p.Start >= p.End {
		return fmt.Sprintf("0–0 of %d", s.View.Total)
	}
	return fmt.Sprintf("%d–%d of %d", p.Start+1, p.End, s.View.Total)
}

// Snapshot exposes the session state last rendered.
func (m *Model) Snapshot() browser.Snapshot {
	return m.snap
}

// Close releases the session and detaches the sequencer.
func (m *Model) Close() {
	if m.session != nil {
		m.session.Close()
	}
	if m.seq != nil {
		m.seq.Close()
	}
}

// Run starts the terminal browser and blocks until the user quits.
func Run(ctx context.Context, seq *loader.Sequencer, opts Options) error {
	m := NewModel(ctx, seq, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
