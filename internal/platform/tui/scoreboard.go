package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/storage"
)

// Scoreboard layout constants
const (
	maxFlights = 100 // Max flights to load
)

// ScoreboardTab selects what the scoreboard lists.
type ScoreboardTab int

const (
	TabHallOfFame ScoreboardTab = iota
	TabFlightLog
)

func (t ScoreboardTab) String() string {
	if t == TabFlightLog {
		return "Flight log"
	}
	return "Hall of fame"
}

var scoreboardTabs = []ScoreboardTab{TabHallOfFame, TabFlightLog}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.PrevTab, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the scoreboard screen.
type ScoreboardModel struct {
	board    *persist.Board
	flights  *storage.Store // May be nil
	pilot    string         // Flight log filter, empty for everyone
	tab      ScoreboardTab
	scores   []persist.ScoreEntry
	log      []storage.Flight
	stats    *storage.Stats
	table    table.Model
	help     help.Model
	keys     ScoreboardKeyMap
	width    int
	height   int
	quitting bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(board *persist.Board, flights *storage.Store, pilot string, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		board:   board,
		flights: flights,
		pilot:   pilot,
		keys:    DefaultScoreboardKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.load()
	m.table = m.createTable()
	m.updateTableRows()
	return m
}

// load reads both lists.
func (m *ScoreboardModel) load() {
	if m.board != nil {
		m.scores = m.board.Top(-1)
	}
	if m.flights == nil {
		return
	}
	if flights, err := m.flights.RecentFlights(m.pilot, maxFlights); err == nil {
		m.log = flights
	}
	if stats, err := m.flights.Stats(m.pilot); err == nil {
		m.stats = stats
	}
}

// createTable creates a new table with columns for the current tab.
func (m *ScoreboardModel) createTable() table.Model {
	var columns []table.Column
	if m.tab == TabFlightLog {
		columns = []table.Column{
			{Title: "Date", Width: 13},
			{Title: "Pilot", Width: 15},
			{Title: "Result", Width: 18},
			{Title: "Score", Width: 6},
			{Title: "Fuel", Width: 6},
		}
	} else {
		columns = []table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Pilot", Width: 15},
			{Title: "Score", Width: 6},
			{Title: "Fuel", Width: 5},
			{Title: "Time", Width: 5},
			{Title: "Date", Width: 13},
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for title, tabs, stats and help
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updateTableRows fills the table for the current tab.
func (m *ScoreboardModel) updateTableRows() {
	var rows []table.Row
	if m.tab == TabFlightLog {
		rows = make([]table.Row, len(m.log))
		for i, f := range m.log {
			result := f.Outcome
			if f.Reason != "" {
				result += " (" + f.Reason + ")"
			}
			rows[i] = table.Row{
				f.CreatedAt.Format("Jan 02 15:04"),
				f.Pilot,
				result,
				fmt.Sprintf("%d", f.Score),
				fmt.Sprintf("%.0f", f.Fuel),
			}
		}
	} else {
		rows = make([]table.Row, len(m.scores))
		for i, s := range m.scores {
			fuel, tm := "-", "-"
			if s.Breakdown != nil {
				fuel = fmt.Sprintf("%d", s.Breakdown.Fuel)
				tm = fmt.Sprintf("%d", s.Breakdown.Time)
			}
			rows[i] = table.Row{
				fmt.Sprintf("#%d", i+1),
				s.Name,
				fmt.Sprintf("%d", s.Score),
				fuel,
				tm,
				s.Time.Local().Format("Jan 02 15:04"),
			}
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func (m *ScoreboardModel) switchTab(delta int) {
	n := len(scoreboardTabs)
	m.tab = scoreboardTabs[(int(m.tab)+delta+n)%n]
	m.table = m.createTable()
	m.updateTableRows()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.switchTab(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevTab):
			m.switchTab(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	b.WriteString(titleStyle.Render(centerText("LUNAR LANDER", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(centerText(tableStyle.Render(m.renderTableContent()), m.width))

	if m.tab == TabFlightLog && m.stats != nil {
		b.WriteString("\n")
		b.WriteString(centerText(m.renderStats(), m.width))
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(scoreboardTabs))
	for i, t := range scoreboardTabs {
		if t == m.tab {
			tabs[i] = activeTabStyle.Render(t.String())
		} else {
			tabs[i] = tabStyle.Render(" " + t.String() + " ")
		}
	}
	return strings.Join(tabs, " ")
}

// renderStats summarizes the flight log below the table.
func (m ScoreboardModel) renderStats() string {
	s := m.stats
	line := fmt.Sprintf("%d flights · %d landed · %d crashed · best %d · average %.0f",
		s.Flights, s.Landings, s.Crashes, s.BestScore, s.AvgScore)
	if len(s.Reasons) > 0 {
		parts := make([]string, 0, len(s.Reasons))
		for _, r := range []string{"off-pad", "too-fast", "too-tilted"} {
			if n := s.Reasons[r]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", r, n))
			}
		}
		if len(parts) > 0 {
			line += "\n" + strings.Join(parts, " · ")
		}
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render(line)
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	empty := (m.tab == TabHallOfFame && len(m.scores) == 0) ||
		(m.tab == TabFlightLog && len(m.log) == 0)
	if empty {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		if m.tab == TabFlightLog {
			return emptyStyle.Render("No flights logged yet.\nEvery attempt will show up here.")
		}
		return emptyStyle.Render("No landings recorded yet.\nLand softly to set a high score!")
	}

	return m.table.View()
}

// centerText centers each line of text within width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}

// RunScoreboard runs the scoreboard screen.
func RunScoreboard(board *persist.Board, flights *storage.Store, pilot string, width, height int) error {
	model := NewScoreboardModel(board, flights, pilot, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
