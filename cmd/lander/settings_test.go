package main

import (
	"slices"
	"testing"

	"github.com/vovakirdan/lunar-lander/internal/persist"
)

func TestApplySetting(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(persist.Settings) bool
	}{
		{"music_volume", "0.25", false, func(s persist.Settings) bool { return s.MusicVolume == 0.25 }},
		{"EFFECTS_VOLUME", "1", false, func(s persist.Settings) bool { return s.EffectsVolume == 1 }},
		{"music_volume", "1.5", true, nil},
		{"music_volume", "loud", true, nil},
		{"player_name", "Neil", false, func(s persist.Settings) bool { return s.PlayerName == "Neil" }},
		{"record_scores", "false", false, func(s persist.Settings) bool { return !s.RecordScores }},
		{"record_scores", "maybe", true, nil},
		{"remember_pilot", "false", false, func(s persist.Settings) bool { return !s.RememberPilot }},
		{"binding.thrust", "Up, k ,SPACE", false, func(s persist.Settings) bool {
			return slices.Equal(s.KeyBindings["thrust"], []string{"up", "k", "space"})
		}},
		{"binding.rotate_left", "j", false, func(s persist.Settings) bool {
			return slices.Equal(s.KeyBindings["rotate-left"], []string{"j"})
		}},
		{"binding.warp", "x", true, nil},
		{"binding.reset", " , ", true, nil},
		{"gravity", "1", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			s := persist.DefaultSettings()
			err := applySetting(&s, tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(s) {
				t.Errorf("settings after %s=%s: %+v", tt.key, tt.value, s)
			}
		})
	}
}

func TestClampFPS(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, minFPS},
		{10, minFPS},
		{60, 60},
		{1000, maxFPS},
	}
	for _, tt := range tests {
		if got := clampFPS(tt.in); got != tt.want {
			t.Errorf("clampFPS(%d) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/tmp/pilot")
	got, err := expandHome("~/.lander")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/pilot/.lander" {
		t.Errorf("expandHome = %q", got)
	}
	if got, _ := expandHome("/srv/lander"); got != "/srv/lander" {
		t.Errorf("absolute path changed to %q", got)
	}
}
