package config

import "strings"

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// presetScale holds the multipliers a preset applies to the tuning.
type presetScale struct {
	thresholds float64 // Safe speeds and angle
	fuel       float64
	gravity    float64
}

var presetScales = map[DifficultyPreset]presetScale{
	DifficultyEasy:   {thresholds: 1.5, fuel: 1.5, gravity: 0.8},
	DifficultyNormal: {thresholds: 1, fuel: 1, gravity: 1},
	DifficultyHard:   {thresholds: 0.6, fuel: 0.7, gravity: 1.2},
}

// ParsePreset converts a user string to a preset.
// Unknown or empty strings return ok=false.
func ParsePreset(s string) (DifficultyPreset, bool) {
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	_, ok := presetScales[p]
	return p, ok
}

// ApplyPreset scales the landing thresholds, fuel and gravity of cfg.
// Normal leaves the tuning unchanged.
func ApplyPreset(cfg *LanderConfig, preset DifficultyPreset) {
	scale, ok := presetScales[preset]
	if !ok {
		return
	}
	cfg.Difficulty.Preset = string(preset)
	cfg.Landing.SafeVerticalSpeed *= scale.thresholds
	cfg.Landing.SafeHorizontalSpeed *= scale.thresholds
	cfg.Landing.SafeAngle *= scale.thresholds
	cfg.Lander.MaxFuel *= scale.fuel
	cfg.Physics.Gravity *= scale.gravity
}
