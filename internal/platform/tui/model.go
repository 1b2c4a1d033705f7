package tui

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/lunar-lander/internal/audio"
	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
	"github.com/vovakirdan/lunar-lander/internal/lander"
	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/replay"
	"github.com/vovakirdan/lunar-lander/internal/storage"
)

// messageTTL is how long status messages stay on screen.
const messageTTL = 4 * time.Second

// Options configure a flight session. Every dependency is optional: a nil
// Board saves nothing, a nil Flights skips the flight log, a nil Audio
// plays nothing and an empty DataDir disables replays and screenshots.
type Options struct {
	Runtime core.RuntimeConfig
	Tuning  config.LanderConfig
	Board   *persist.Board
	Flights *storage.Store
	Audio   *audio.Bridge
	Logger  *log.Logger
	DataDir string
	// Pilot fixes the pilot name, e.g. to the SSH user. When set, the
	// name cannot be edited and is never written to the settings.
	Pilot string
}

// Model is the Bubble Tea model for one flight session.
type Model struct {
	opts   Options
	logger *log.Logger

	game     *lander.Game
	snap     lander.Snapshot
	recorder *replay.Recorder
	screen   *core.Screen

	mapper  *input.Mapper
	hold    *holdTracker
	pending []input.KeyEvent
	keys    GameKeyMap
	help    help.Model

	settings persist.Settings
	pilot    string
	naming   bool
	name     textinput.Model

	rank         int // Table position of the last landing, 0 if none
	message      string
	messageUntil time.Time
	quitting     bool
	now          func() time.Time
}

// NewModel creates a session model.
func NewModel(opts Options) Model {
	// Use time-based seed if not specified
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	settings := persist.DefaultSettings()
	if opts.Board != nil {
		settings = opts.Board.Settings()
	}
	pilot := settings.PlayerName
	if opts.Pilot != "" {
		pilot = persist.SanitizeName(opts.Pilot)
	}

	bindings := settings.Bindings()
	name := textinput.New()
	name.CharLimit = persist.MaxNameLength
	name.Width = persist.MaxNameLength + 1
	name.Prompt = "Pilot name: "

	game := lander.New(opts.Tuning, opts.Runtime.Seed)
	snap := game.Snapshot()

	m := Model{
		opts:     opts,
		logger:   logger,
		game:     game,
		snap:     snap,
		screen:   core.NewScreen(opts.Runtime.ScreenW, core.Max(opts.Runtime.ScreenH-1, 0)),
		mapper:   input.NewMapper(bindings),
		hold:     newHoldTracker(),
		keys:     NewGameKeyMap(bindings),
		help:     help.New(),
		settings: settings,
		pilot:    pilot,
		name:     name,
		now:      time.Now,
	}
	m.help.Width = opts.Runtime.ScreenW
	m.recorder = replay.NewRecorder(snap, opts.Tuning, opts.Runtime.TickRate, pilot)
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	if m.naming {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.naming {
		return m.handleNameKey(msg)
	}
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	m.pending = append(m.pending, m.hold.Press(keyName(msg), m.now())...)
	return m, nil
}

// handleResize keeps one row below the playfield for help.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.opts.Runtime.ScreenW = msg.Width
	m.opts.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, core.Max(msg.Height-1, 0))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick runs one simulation step.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	next := tickCmd(m.opts.Runtime.TickRate)
	if !m.messageUntil.IsZero() && now.After(m.messageUntil) {
		m.message = ""
		m.messageUntil = time.Time{}
	}
	if m.naming {
		return m, next
	}

	events := append(m.pending, m.hold.Expire(now)...)
	m.pending = nil
	in := m.mapper.Update(events)

	if in.Quit {
		m.quitting = true
		return m, tea.Quit
	}
	if in.NameEntry && m.opts.Pilot == "" {
		cmd := m.startNaming()
		return m, tea.Batch(cmd, next)
	}

	dt := math.Min(m.opts.Runtime.TickDuration(), maxFrameDt)
	prev := m.snap
	out := m.game.Step(in, dt)
	cur := m.game.Snapshot()

	switch {
	case cur.Attempt != prev.Attempt:
		m.recorder = replay.NewRecorder(cur, m.opts.Tuning, m.opts.Runtime.TickRate, m.pilot)
		m.rank = 0
	case !prev.Outcome.Terminal():
		m.recorder.Record(in)
		if out.Terminal() {
			m.finish(cur)
		}
	}

	m.opts.Audio.Observe(prev, cur)
	m.snap = cur
	return m, next
}

// finish records a finished attempt: replay file, flight log and, for a
// landing, the high-score table. Failures are logged and shown; the
// session carries on.
func (m *Model) finish(snap lander.Snapshot) {
	now := m.now()
	out := snap.Outcome
	m.logger.Info("attempt finished",
		"pilot", m.pilot,
		"outcome", out.String(),
		"score", out.Score,
		"ticks", snap.Tick,
		"fixes", snap.Fixes,
	)

	if m.opts.DataDir != "" {
		path := filepath.Join(m.opts.DataDir, "replays", "last.replay")
		if err := replay.Save(path, m.recorder.Finish(out, now)); err != nil {
			m.logger.Warn("cannot save replay", "path", path, "err", err)
		}
	}

	if !m.settings.RecordScores {
		return
	}

	if m.opts.Flights != nil {
		_, err := m.opts.Flights.RecordFlight(storage.Flight{
			Pilot:   m.pilot,
			Outcome: out.Status.String(),
			Reason:  string(out.Reason),
			Score:   out.Score,
			Fuel:    snap.State.Fuel,
			Speed:   snap.Contact.Speed,
			Ticks:   int64(snap.Tick),
			Seed:    snap.TerrainSeed,
		})
		if err != nil {
			m.logger.Warn("cannot log flight", "err", err)
		}
	}

	if out.Status != lander.StatusLanded || m.opts.Board == nil {
		return
	}
	breakdown := out.Breakdown
	entry := persist.ScoreEntry{Name: m.pilot, Score: out.Score, Time: now, Breakdown: &breakdown}
	made, err := m.opts.Board.Record(entry)
	if err != nil {
		m.flash(fmt.Sprintf("Score not saved: %v", err))
	}
	if made {
		m.rank = rankOf(m.opts.Board.Top(-1), entry)
	}
}

func rankOf(entries []persist.ScoreEntry, e persist.ScoreEntry) int {
	for i, got := range entries {
		if got.Score == e.Score && got.Time.Equal(e.Time) && got.Name == persist.SanitizeName(e.Name) {
			return i + 1
		}
	}
	return 0
}

// startNaming opens the pilot name prompt. The simulation waits meanwhile.
func (m *Model) startNaming() tea.Cmd {
	m.naming = true
	m.hold.ReleaseAll()
	m.mapper.Release()
	m.name.SetValue("")
	m.name.Placeholder = m.pilot
	return m.name.Focus()
}

func (m Model) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.naming = false
		m.name.Blur()
		return m, nil
	case "enter":
		m.naming = false
		m.name.Blur()
		if value := m.name.Value(); value != "" {
			m.rename(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// rename changes the pilot. The name is saved in the settings unless the
// pilot asked not to be remembered.
func (m *Model) rename(value string) {
	m.pilot = persist.SanitizeName(value)
	if m.opts.Board == nil || !m.settings.RememberPilot {
		m.flash("Flying as " + m.pilot)
		return
	}
	settings, err := m.opts.Board.UpdateSettings(func(s *persist.Settings) {
		s.PlayerName = m.pilot
	})
	m.settings = settings
	m.opts.Audio.SetVolumes(settings.MusicVolume, settings.EffectsVolume)
	if err != nil {
		m.logger.Warn("cannot save pilot name", "err", err)
		m.flash("Name not saved")
		return
	}
	m.flash("Welcome aboard, " + m.pilot)
}

func (m *Model) flash(msg string) {
	m.message = msg
	m.messageUntil = m.now().Add(messageTTL)
}

// saveScreenshot saves the current screen as plain text under DataDir.
func (m *Model) saveScreenshot() {
	if m.opts.DataDir == "" {
		return
	}
	m.render()

	dir := filepath.Join(m.opts.DataDir, "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "dir", dir, "err", err)
		return
	}

	// Generate filename with timestamp
	timestamp := m.now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("lander_%s.txt", timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "path", path, "err", err)
		return
	}
	m.flash("Screenshot saved to " + path)
}

func (m Model) frame() Frame {
	f := Frame{
		Snapshot: m.snap,
		Pilot:    m.pilot,
		Rank:     m.rank,
		Message:  m.message,
	}
	if m.opts.Board != nil {
		f.Scores = m.opts.Board.Top(hallOfFameRows)
	}
	return f
}

func (m Model) render() {
	RenderFrame(m.frame(), m.screen)
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.render()
	footer := helpStyle.Render(m.help.View(m.keys))
	if m.naming {
		footer = m.name.View() + helpStyle.Render("  enter save · esc cancel")
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// Snapshot returns the latest simulation snapshot.
func (m Model) Snapshot() lander.Snapshot {
	return m.snap
}

// Pilot returns the current pilot name.
func (m Model) Pilot() string {
	return m.pilot
}

// Run starts the Bubble Tea program for a local session.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
