package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// isolate points HOME at an empty directory so a developer's own
// ~/.lander/configs does not leak into the tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func TestLoadEmbeddedMatchesHardcoded(t *testing.T) {
	isolate(t)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultLanderConfig()) {
		t.Errorf("embedded defaults drifted from DefaultLanderConfig():\n got %+v\nwant %+v", cfg, DefaultLanderConfig())
	}
}

func TestLoadCustomFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "moon.yaml")
	data := "physics:\n  gravity: 16.2\nlanding:\n  safe_angle: 10\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Physics.Gravity != 16.2 {
		t.Errorf("gravity = %g, expected 16.2", cfg.Physics.Gravity)
	}
	if cfg.Landing.SafeAngle != 10 {
		t.Errorf("safe angle = %g, expected 10", cfg.Landing.SafeAngle)
	}
	// Untouched keys keep their defaults
	if cfg.Physics.Thrust != 160 {
		t.Errorf("thrust = %g, expected default 160", cfg.Physics.Thrust)
	}
}

func TestLoadCustomFileErrors(t *testing.T) {
	isolate(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), ""); err == nil {
		t.Error("missing custom file should be an error")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("physics: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, ""); err == nil {
		t.Error("unparsable custom file should be an error")
	}

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("terrain:\n  segments: 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid, ""); err == nil || !strings.Contains(err.Error(), "segments") {
		t.Errorf("invalid tuning should fail validation, got %v", err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("LANDER_PHYSICS_GRAVITY", "12.5")
	t.Setenv("LANDER_TERRAIN_REGENERATE_ON_RESET", "false")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Physics.Gravity != 12.5 {
		t.Errorf("gravity = %g, expected env override 12.5", cfg.Physics.Gravity)
	}
	if cfg.Terrain.RegenerateOnReset {
		t.Error("regenerate_on_reset should be overridden to false")
	}
}

func TestLoadPresetOverride(t *testing.T) {
	isolate(t)

	hard, err := Load("", "hard")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	base := DefaultLanderConfig()

	if hard.Landing.SafeVerticalSpeed >= base.Landing.SafeVerticalSpeed {
		t.Errorf("hard preset should tighten safe speed, got %g", hard.Landing.SafeVerticalSpeed)
	}
	if hard.Lander.MaxFuel >= base.Lander.MaxFuel {
		t.Errorf("hard preset should reduce fuel, got %g", hard.Lander.MaxFuel)
	}
	if hard.Difficulty.Preset != "hard" {
		t.Errorf("preset = %q, expected hard", hard.Difficulty.Preset)
	}

	// Unknown override falls back to the file's preset (normal)
	cfg, err := Load("", "nightmare")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, base) {
		t.Error("unknown preset should leave the normal tuning untouched")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		ok   bool
	}{
		{"easy", DifficultyEasy, true},
		{" HARD ", DifficultyHard, true},
		{"normal", DifficultyNormal, true},
		{"", "", false},
		{"fixed", "", false},
	}

	for _, tc := range tests {
		got, ok := ParsePreset(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("ParsePreset(%q) = (%q, %v), expected (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyPresetEasy(t *testing.T) {
	cfg := DefaultLanderConfig()
	ApplyPreset(&cfg, DifficultyEasy)

	if cfg.Landing.SafeAngle != 22.5 {
		t.Errorf("easy safe angle = %g, expected 22.5", cfg.Landing.SafeAngle)
	}
	if cfg.Lander.MaxFuel != 150 {
		t.Errorf("easy fuel = %g, expected 150", cfg.Lander.MaxFuel)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*LanderConfig)
	}{
		{"zero world", func(c *LanderConfig) { c.World.Width = 0 }},
		{"negative gravity", func(c *LanderConfig) { c.Physics.Gravity = -1 }},
		{"flat hull", func(c *LanderConfig) { c.Lander.HalfHeight = 0 }},
		{"zero safe speed", func(c *LanderConfig) { c.Landing.SafeVerticalSpeed = 0 }},
		{"inverted heights", func(c *LanderConfig) { c.Terrain.MinHeight = 200; c.Terrain.MaxHeight = 100 }},
		{"terrain above start", func(c *LanderConfig) { c.Terrain.MaxHeight = 550 }},
		{"pad too wide", func(c *LanderConfig) { c.Terrain.PadWidth = 700 }},
		{"negative pad margin", func(c *LanderConfig) { c.Terrain.PadMargin = -10 }},
	}

	if err := DefaultLanderConfig().Validate(); err != nil {
		t.Fatalf("default tuning should be valid: %v", err)
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultLanderConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestDump(t *testing.T) {
	out, err := Dump(DefaultLanderConfig())
	if err != nil {
		t.Fatalf("Dump() failed: %v", err)
	}
	for _, key := range []string{"gravity: 40", "safe_angle: 15", "regenerate_on_reset: true"} {
		if !strings.Contains(string(out), key) {
			t.Errorf("dump is missing %q:\n%s", key, out)
		}
	}
}
