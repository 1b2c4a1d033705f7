package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lunar-lander/internal/input"
	"github.com/vovakirdan/lunar-lander/internal/persist"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change saved settings",
	Long: `Inspect or change the settings stored in <data>/lander.yaml.

Keys:
  music_volume      - 0.0 to 1.0
  effects_volume    - 0.0 to 1.0
  player_name       - Up to 15 characters
  remember_pilot    - true or false, save name changes made in game
  record_scores     - true or false
  binding.<action>  - Comma separated keys, e.g. binding.thrust=up,k
                      Actions: rotate-left, rotate-right, thrust, reset,
                      name-entry, quit

Examples:
  lander settings show
  lander settings set music_volume 0.2
  lander settings set binding.thrust up,k,space`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	Args:  cobra.NoArgs,
	Run:   runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	Run:   runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func loadBoard() *persist.Board {
	dir, err := dataDir()
	if err != nil {
		fail("%v", err)
	}
	board, err := openBoard(dir, newLogger(os.Stderr, "lander"))
	if errors.Is(err, persist.ErrRecovered) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else if err != nil {
		fail("%v", err)
	}
	return board
}

func runSettingsShow(_ *cobra.Command, _ []string) {
	printSettings(loadBoard().Settings())
}

func printSettings(s persist.Settings) {
	fmt.Printf("music_volume    %.2f\n", s.MusicVolume)
	fmt.Printf("effects_volume  %.2f\n", s.EffectsVolume)
	fmt.Printf("player_name     %s\n", s.PlayerName)
	fmt.Printf("remember_pilot  %t\n", s.RememberPilot)
	fmt.Printf("record_scores   %t\n", s.RecordScores)
	fmt.Println()
	fmt.Println("Key bindings:")
	bindings := s.Bindings()
	for _, a := range input.Actions() {
		fmt.Printf("  %-14s %s\n", a, strings.Join(bindings.Keys(a), ", "))
	}
}

func runSettingsSet(_ *cobra.Command, args []string) {
	board := loadBoard()

	var applyErr error
	settings, err := board.UpdateSettings(func(s *persist.Settings) {
		applyErr = applySetting(s, args[0], args[1])
	})
	if applyErr != nil {
		fail("%v", applyErr)
	}
	if err != nil {
		fail("saving settings: %v", err)
	}
	printSettings(settings)
}

// applySetting sets one key of s from its command line form.
func applySetting(s *persist.Settings, key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))

	if name, ok := strings.CutPrefix(key, "binding."); ok {
		action, found := input.ParseAction(name)
		if !found {
			return fmt.Errorf("unknown action %q", name)
		}
		var keys []string
		for _, k := range strings.Split(value, ",") {
			if k = input.NormalizeKey(k); k != "" {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return fmt.Errorf("no keys given for %s", action)
		}
		if s.KeyBindings == nil {
			s.KeyBindings = map[string][]string{}
		}
		s.KeyBindings[action.String()] = keys
		return nil
	}

	switch key {
	case "music_volume", "effects_volume":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0 and 1", key)
		}
		if key == "music_volume" {
			s.MusicVolume = v
		} else {
			s.EffectsVolume = v
		}
	case "player_name":
		s.PlayerName = value
	case "record_scores", "remember_pilot":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "record_scores" {
			s.RecordScores = v
		} else {
			s.RememberPilot = v
		}
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}
