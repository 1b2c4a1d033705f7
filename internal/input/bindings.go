package input

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Bindings maps each action to the keys that trigger it.
type Bindings map[Action][]string

// DefaultBindings returns the built-in key layout.
func DefaultBindings() Bindings {
	return Bindings{
		ActionRotateLeft:  {"left", "a"},
		ActionRotateRight: {"right", "d"},
		ActionThrust:      {"up", "w", "space"},
		ActionReset:       {"r"},
		ActionNameEntry:   {"n"},
		ActionQuit:        {"esc", "q", "ctrl+c"},
	}
}

// NormalizeKey converts a key identifier to its canonical form.
// Identifiers are lowercase and the space bar is "space".
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "spacebar" {
		return "space"
	}
	return key
}

// ParseBindings validates raw bindings as stored in settings.
// It always returns usable bindings: unknown action names are dropped and
// actions without keys fall back to their defaults. The error lists every
// entry that was dropped, joined with errors.Join.
func ParseBindings(raw map[string][]string) (Bindings, error) {
	defaults := DefaultBindings()
	out := make(Bindings, len(defaults))
	var errs []error

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a, ok := ParseAction(name)
		if !ok {
			errs = append(errs, fmt.Errorf("input: unknown action %q", name))
			continue
		}
		keys := normalizeKeys(raw[name])
		if len(keys) == 0 {
			continue
		}
		out[a] = append(out[a], keys...)
	}

	for a, keys := range defaults {
		if len(out[a]) == 0 {
			out[a] = keys
		}
	}
	return out, errors.Join(errs...)
}

// Raw converts bindings back to the settings form.
func (b Bindings) Raw() map[string][]string {
	raw := make(map[string][]string, len(b))
	for a, keys := range b {
		if a == ActionNone {
			continue
		}
		raw[a.String()] = append([]string(nil), keys...)
	}
	return raw
}

// Keys returns the keys bound to an action.
func (b Bindings) Keys(a Action) []string {
	return b[a]
}

// Label returns a short human label for the keys of an action, e.g. "up/w".
func (b Bindings) Label(a Action) string {
	keys := b[a]
	if len(keys) > 2 {
		keys = keys[:2]
	}
	return strings.Join(keys, "/")
}

func normalizeKeys(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = NormalizeKey(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
