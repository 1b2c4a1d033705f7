package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
	"github.com/vovakirdan/lunar-lander/internal/lander"
	"github.com/vovakirdan/lunar-lander/internal/replay"
)

// ReplayModel plays a recorded attempt back at its recorded tick rate.
// Space pauses, q quits.
type ReplayModel struct {
	file     replay.File
	game     *lander.Game
	snap     lander.Snapshot
	next     int // Index of the next recorded input
	dt       float64
	screen   *core.Screen
	paused   bool
	quitting bool
}

// NewReplayModel prepares playback of f on a width x height terminal.
func NewReplayModel(f replay.File, width, height int) (ReplayModel, error) {
	g, err := replay.NewGame(f)
	if err != nil {
		return ReplayModel{}, err
	}
	return ReplayModel{
		file:   f,
		game:   g,
		snap:   g.Snapshot(),
		dt:     core.RuntimeConfig{TickRate: f.TickRate}.TickDuration(),
		screen: core.NewScreen(width, height),
	}, nil
}

// Init starts playback.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.file.TickRate)
}

// Update advances playback one recorded tick per TickMsg.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.file.TickRate)
	}
	return m, nil
}

func (m *ReplayModel) step() {
	if m.next >= len(m.file.Inputs) || m.snap.Outcome.Terminal() {
		return
	}
	in := input.FromBits(m.file.Inputs[m.next])
	in.Reset = false
	m.next++
	m.game.Step(in, m.dt)
	m.snap = m.game.Snapshot()
}

// Done reports whether every recorded tick was played.
func (m ReplayModel) Done() bool {
	return m.next >= len(m.file.Inputs) || m.snap.Outcome.Terminal()
}

// View renders the replay.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}

	status := fmt.Sprintf("REPLAY  %s  %s", m.file.Pilot, m.file.RecordedAt.Local().Format(time.DateTime))
	if m.paused {
		status += "  [paused]"
	}
	RenderFrame(Frame{
		Snapshot: m.snap,
		Pilot:    m.file.Pilot,
		Message:  status,
		Help:     "SPACE pause   Q quit",
	}, m.screen)
	return RenderScreen(m.screen)
}

// RunReplay shows a recorded attempt full screen.
func RunReplay(f replay.File, width, height int) error {
	model, err := NewReplayModel(f, width, height)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
