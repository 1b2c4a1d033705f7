// Package tui hosts the lander in a terminal with Bubble Tea. It turns key
// presses into control input, steps the simulation on a fixed tick, draws
// snapshots and hands terminal transitions to persistence and audio.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// maxFrameDt caps the simulated time per tick.
const maxFrameDt = 1.0 / 30

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
