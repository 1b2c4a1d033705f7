// Package input turns raw key events into the per-tick control set of the lander.
// It knows nothing about terminals: hosts feed it normalized KeyEvents.
package input

import "strings"

// Action represents a logical control, abstracted from physical key presses.
type Action int

const (
	ActionNone        Action = iota
	ActionRotateLeft         // Held: turn the nose counterclockwise
	ActionRotateRight        // Held: turn the nose clockwise
	ActionThrust             // Held: fire the main engine
	ActionReset              // Edge: start a new attempt
	ActionNameEntry          // Edge: open the pilot name editor
	ActionQuit               // Edge: leave the game
)

// actionNames are the identifiers used in settings files.
var actionNames = map[Action]string{
	ActionRotateLeft:  "rotate-left",
	ActionRotateRight: "rotate-right",
	ActionThrust:      "thrust",
	ActionReset:       "reset",
	ActionNameEntry:   "name-entry",
	ActionQuit:        "quit",
}

// String returns the settings identifier of the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	if a == ActionNone {
		return "none"
	}
	return "unknown"
}

// Held reports whether the action stays active while its key is down.
// All other actions fire once per key-down transition.
func (a Action) Held() bool {
	return a == ActionRotateLeft || a == ActionRotateRight || a == ActionThrust
}

// Actions returns every bindable action in display order.
func Actions() []Action {
	return []Action{
		ActionRotateLeft,
		ActionRotateRight,
		ActionThrust,
		ActionReset,
		ActionNameEntry,
		ActionQuit,
	}
}

// ParseAction converts a settings identifier to an Action.
// Matching ignores case and treats '_' like '-'.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	for a, n := range actionNames {
		if n == name {
			return a, true
		}
	}
	return ActionNone, false
}

// ControlInput is the control set for a single simulation tick.
type ControlInput struct {
	RotateLeft  bool
	RotateRight bool
	Thrust      bool
	Reset       bool
	NameEntry   bool
	Quit        bool
}

// Set marks an action as active for this tick.
func (c *ControlInput) Set(a Action) {
	switch a {
	case ActionRotateLeft:
		c.RotateLeft = true
	case ActionRotateRight:
		c.RotateRight = true
	case ActionThrust:
		c.Thrust = true
	case ActionReset:
		c.Reset = true
	case ActionNameEntry:
		c.NameEntry = true
	case ActionQuit:
		c.Quit = true
	}
}

// Has returns true if the action is active this tick.
func (c ControlInput) Has(a Action) bool {
	switch a {
	case ActionRotateLeft:
		return c.RotateLeft
	case ActionRotateRight:
		return c.RotateRight
	case ActionThrust:
		return c.Thrust
	case ActionReset:
		return c.Reset
	case ActionNameEntry:
		return c.NameEntry
	case ActionQuit:
		return c.Quit
	default:
		return false
	}
}

// Bits packs the control set into one byte, one bit per action.
// Replays store inputs in this form.
func (c ControlInput) Bits() uint8 {
	var b uint8
	for i, a := range Actions() {
		if c.Has(a) {
			b |= 1 << i
		}
	}
	return b
}

// FromBits is the inverse of ControlInput.Bits.
func FromBits(b uint8) ControlInput {
	var c ControlInput
	for i, a := range Actions() {
		if b&(1<<i) != 0 {
			c.Set(a)
		}
	}
	return c
}
