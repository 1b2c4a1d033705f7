package tui

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lunar-lander/internal/input"
)

// Terminals report key presses but never releases. A held key shows up as
// one press, a pause of roughly the keyboard's repeat delay, then a steady
// stream of repeats. holdTracker turns that into down/up transitions: a
// key is released when no press arrives within the expected gap.
const (
	firstRepeatGap = 550 * time.Millisecond
	repeatGap      = 120 * time.Millisecond
)

// holdTracker synthesizes key-up events for terminal input.
type holdTracker struct {
	first  time.Duration
	repeat time.Duration
	keys   map[string]time.Time // release deadline per held key
}

func newHoldTracker() *holdTracker {
	return &holdTracker{
		first:  firstRepeatGap,
		repeat: repeatGap,
		keys:   make(map[string]time.Time),
	}
}

// Press records a key press at now. It returns a key-down event for a new
// press and nothing for an auto-repeat of a key already held.
func (h *holdTracker) Press(k string, now time.Time) []input.KeyEvent {
	k = input.NormalizeKey(k)
	if h.Held(k) {
		h.keys[k] = now.Add(h.repeat)
		return nil
	}
	h.keys[k] = now.Add(h.first)
	return []input.KeyEvent{{Key: k, Down: true}}
}

// Expire returns key-up events for keys whose repeats stopped before now.
func (h *holdTracker) Expire(now time.Time) []input.KeyEvent {
	var events []input.KeyEvent
	for k, deadline := range h.keys {
		if now.Before(deadline) {
			continue
		}
		delete(h.keys, k)
		events = append(events, input.KeyEvent{Key: k})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Key < events[j].Key })
	return events
}

// ReleaseAll forgets every held key and returns their key-up events.
func (h *holdTracker) ReleaseAll() []input.KeyEvent {
	events := make([]input.KeyEvent, 0, len(h.keys))
	for k := range h.keys {
		events = append(events, input.KeyEvent{Key: k})
	}
	clear(h.keys)
	sort.Slice(events, func(i, j int) bool { return events[i].Key < events[j].Key })
	return events
}

// Held reports whether k is currently considered down.
func (h *holdTracker) Held(k string) bool {
	_, ok := h.keys[input.NormalizeKey(k)]
	return ok
}

// keyName converts a Bubble Tea key message to a binding identifier.
func keyName(msg tea.KeyMsg) string {
	return input.NormalizeKey(msg.String())
}

// GameKeyMap describes the flight controls for the help line. It is built
// from the pilot's bindings so the help always shows the real keys.
type GameKeyMap struct {
	Thrust      key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Reset       key.Binding
	Name        key.Binding
	Screenshot  key.Binding
	Quit        key.Binding
}

// NewGameKeyMap creates the help key map for b.
func NewGameKeyMap(b input.Bindings) GameKeyMap {
	bind := func(a input.Action, desc string) key.Binding {
		return key.NewBinding(
			key.WithKeys(b.Keys(a)...),
			key.WithHelp(b.Label(a), desc),
		)
	}
	return GameKeyMap{
		Thrust:      bind(input.ActionThrust, "thrust"),
		RotateLeft:  bind(input.ActionRotateLeft, "rotate left"),
		RotateRight: bind(input.ActionRotateRight, "rotate right"),
		Reset:       bind(input.ActionReset, "new attempt"),
		Name:        bind(input.ActionNameEntry, "pilot name"),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: bind(input.ActionQuit, "quit"),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Thrust, k.RotateLeft, k.RotateRight, k.Reset, k.Name, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Thrust, k.RotateLeft, k.RotateRight},
		{k.Reset, k.Name, k.Screenshot, k.Quit},
	}
}
