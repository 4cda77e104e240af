package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-parkour/internal/storage"
)

const (
	maxResults   = 100 // races loaded per tab
	boardChrome  = 11  // rows used by title, tabs, summary, borders and help
	compactWidth = 60  // below this the date column is dropped
)

var (
	boardTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD700"))
	tabIdle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	tabActive  = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#4ECDC4"))
	boardFrame = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).Padding(0, 1)
	dimText = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ResultsKeyMap defines the key bindings for the results board.
type ResultsKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp implements help.KeyMap.
func (k ResultsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevTab, k.NextTab, k.Back, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k ResultsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.PrevTab, k.NextTab}, {k.Back, k.Quit}}
}

// DefaultResultsKeyMap returns default key bindings.
func DefaultResultsKeyMap() ResultsKeyMap {
	return ResultsKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "older")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "newer")),
		NextTab: key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next level")),
		PrevTab: key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev level")),
		Back:    key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("b", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ResultsModel is the race history screen. The first tab lists the latest
// races on every level; each following tab is a level with progress,
// showing its best races and a summary line.
type ResultsModel struct {
	store     *storage.Store
	tabs      []storage.LevelProgress // tabs[0] is the zero value: all levels
	tab       int
	races     []storage.RaceRecord
	table     table.Model
	help      help.Model
	keys      ResultsKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewResultsModel creates a results board.
func NewResultsModel(store *storage.Store, width, height int) ResultsModel {
	m := ResultsModel{
		store:  store,
		tabs:   []storage.LevelProgress{{}},
		keys:   DefaultResultsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if all, err := store.AllLevelProgress(ctx); err == nil {
			m.tabs = append(m.tabs, all...)
		}
	}
	m.table = m.newTable()
	m.load()
	return m
}

func (m *ResultsModel) columns() []table.Column {
	cols := []table.Column{
		{Title: "Lvl", Width: 4},
		{Title: "Pos", Width: 5},
		{Title: "Time", Width: 9},
		{Title: "Coins", Width: 6},
		{Title: "Outfit", Width: 8},
	}
	if m.width >= compactWidth {
		cols = append(cols, table.Column{Title: "When", Width: 12})
	}
	return cols
}

func (m *ResultsModel) newTable() table.Model {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#4ECDC4")).
		BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Bold(false).
		Foreground(lipgloss.Color("#000000")).Background(lipgloss.Color("#FFD700"))

	t := table.New(
		table.WithColumns(m.columns()),
		table.WithHeight(max(m.height-boardChrome, 3)),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	return t
}

// load fetches the races of the current tab.
func (m *ResultsModel) load() {
	m.races = nil
	if m.store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if res, err := m.store.TopResults(ctx, m.tabs[m.tab].LevelNumber, maxResults); err == nil {
			m.races = res
		}
	}
	m.fillRows()
}

func (m *ResultsModel) fillRows() {
	withDate := m.width >= compactWidth
	rows := make([]table.Row, 0, len(m.races))
	for _, r := range m.races {
		row := table.Row{
			strconv.Itoa(r.LevelNumber),
			ordinal(r.Position),
			fmt.Sprintf("%.2fs", r.Time),
			strconv.Itoa(r.Coins),
			r.Outfit,
		}
		if withDate {
			row = append(row, r.CreatedAt.Local().Format("Jan 02 15:04"))
		}
		rows = append(rows, row)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init implements tea.Model.
func (m ResultsModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m ResultsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % len(m.tabs)
			m.load()
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.tab = (m.tab + len(m.tabs) - 1) % len(m.tabs)
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.fillRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ResultsModel) tabLabel(i int) string {
	if n := m.tabs[i].LevelNumber; n > 0 {
		return strconv.Itoa(n)
	}
	return "Recent"
}

// tabStrip renders the tab labels on one line, scrolled so the active tab
// stays visible on narrow terminals.
func (m ResultsModel) tabStrip() string {
	parts := make([]string, len(m.tabs))
	for i := range m.tabs {
		style := tabIdle
		if i == m.tab {
			style = tabActive
		}
		parts[i] = style.Render(m.tabLabel(i))
	}

	first := 0
	for first < m.tab && lipgloss.Width(lipgloss.JoinHorizontal(lipgloss.Top, parts[first:m.tab+1]...)) > m.width-4 {
		first++
	}
	strip := lipgloss.JoinHorizontal(lipgloss.Top, parts[first:]...)
	if first > 0 {
		strip = dimText.Render("‹ ") + strip
	}
	return strip
}

// summary describes the selected level's progress.
func (m ResultsModel) summary() string {
	p := m.tabs[m.tab]
	if p.LevelNumber == 0 {
		return dimText.Render(fmt.Sprintf("%d levels with progress", len(m.tabs)-1))
	}
	best, pos := "-", "-"
	if p.BestTime != nil {
		best = fmt.Sprintf("%.2fs", *p.BestTime)
	}
	if p.BestPosition != nil {
		pos = ordinal(*p.BestPosition)
	}
	return fmt.Sprintf("Level %d  %s  best %s  top finish %s  attempts %d",
		p.LevelNumber, stars(p.Stars), best, pos, p.Attempts)
}

// View implements tea.Model.
func (m ResultsModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	body := m.table.View()
	if len(m.races) == 0 {
		body = dimText.Italic(true).Padding(1, 2).Render("No races recorded yet.\nFinish a race to see it here!")
	}

	board := lipgloss.JoinVertical(lipgloss.Left,
		boardTitle.Render("RACE RESULTS"),
		"",
		m.tabStrip(),
		m.summary(),
		boardFrame.Render(body),
	)

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, board))
	b.WriteString("\n")
	b.WriteString(dimText.Render(m.help.View(m.keys)))
	return b.String()
}

// IsGoingBack reports whether the user asked to return to the picker.
func (m ResultsModel) IsGoingBack() bool { return m.goingBack }

// IsQuitting reports whether the user asked to quit.
func (m ResultsModel) IsQuitting() bool { return m.quitting }

// RunResults runs the results board on its own and reports whether the
// user asked to go back.
func RunResults(store *storage.Store, width, height int) (goBack bool, err error) {
	final, err := tea.NewProgram(NewResultsModel(store, width, height), tea.WithAltScreen()).Run()
	if err != nil {
		return false, err
	}
	m, ok := final.(ResultsModel)
	return ok && m.IsGoingBack(), nil
}
