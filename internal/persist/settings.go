// Package persist stores the pilot's settings and the high-score table in a
// single YAML file. Loading never fails hard: a missing or damaged file
// yields defaults so the game can always start.
package persist

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/lunar-lander/internal/input"
)

const (
	// DefaultPlayerName is used when no name was entered.
	DefaultPlayerName = "Player"
	// MaxNameLength is the longest pilot name, in characters.
	MaxNameLength = 15
)

// Settings are the user preferences that survive restarts.
type Settings struct {
	MusicVolume   float64             `yaml:"music_volume"`
	EffectsVolume float64             `yaml:"effects_volume"`
	PlayerName    string              `yaml:"player_name"`
	RememberPilot bool                `yaml:"remember_pilot"` // Save name changes made in game
	RecordScores  bool                `yaml:"record_scores"`
	KeyBindings   map[string][]string `yaml:"key_bindings"`
}

// DefaultSettings returns the built-in preferences.
func DefaultSettings() Settings {
	return Settings{
		MusicVolume:   0.5,
		EffectsVolume: 0.8,
		PlayerName:    DefaultPlayerName,
		RememberPilot: true,
		RecordScores:  true,
		KeyBindings:   input.DefaultBindings().Raw(),
	}
}

// Normalize clamps volumes, cleans the pilot name and validates the key
// bindings. The returned error lists dropped bindings; the settings are
// usable either way.
func (s Settings) Normalize() (Settings, error) {
	s.MusicVolume = clampVolume(s.MusicVolume, 0.5)
	s.EffectsVolume = clampVolume(s.EffectsVolume, 0.8)
	s.PlayerName = SanitizeName(s.PlayerName)

	b, err := input.ParseBindings(s.KeyBindings)
	s.KeyBindings = b.Raw()
	return s, err
}

// Bindings returns the validated key layout.
func (s Settings) Bindings() input.Bindings {
	b, _ := input.ParseBindings(s.KeyBindings)
	return b
}

func clampVolume(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Max(0, math.Min(1, v))
}

// SanitizeName trims a pilot name, drops control characters and limits it
// to MaxNameLength characters. Empty names become DefaultPlayerName.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || r == utf8.RuneError {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	if name == "" {
		return DefaultPlayerName
	}
	return name
}
