// lander is a Lunar Lander game for the terminal.
//
// Usage:
//
//	lander                     - Fly (same as lander play)
//	lander play                - Fly
//	lander scores              - Browse the hall of fame and flight log
//	lander history             - Print the flight log
//	lander settings show|set   - Inspect or change saved settings
//	lander replay <file>       - Re-simulate a recorded attempt
//	lander serve               - Start SSH server for remote play
//	lander config              - Print the effective flight tuning
//
// Global flags:
//
//	--fps <rate>      - Set tick rate (default: 60, range 30-240)
//	--seed <value>    - Set terrain seed for reproducible flights
//	--data <dir>      - Set data directory (default: ~/.lander)
//	--config <path>   - Use a custom tuning YAML
//	--mute            - Disable audio
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/storage"
)

// Tick rate bounds. The host caps a frame at 1/30 s, so slower rates would
// no longer match their replays.
const (
	minFPS = 30
	maxFPS = 240
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDataDir    string
	flagConfig     string
	flagDifficulty string
	flagMute       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lander",
	Short: "Lunar Lander - touch down softly in your terminal",
	Long: `Lunar Lander puts you at the controls of a descent module above a
jagged moonscape. Burn fuel to fight gravity, keep the nose up and set
down gently on the flat landing pad.

Available commands:
  play      - Fly (default)
  scores    - Hall of fame and flight log
  history   - Print the flight log
  settings  - Show or change saved settings
  replay    - Re-simulate a recorded attempt
  serve     - Start SSH server for remote play
  config    - Print the effective flight tuning

Examples:
  lander
  lander play --difficulty hard
  lander --seed 42
  lander replay ~/.lander/replays/last.replay
  lander serve --ssh :2222`,
	Run: runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second, 30-240)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Terrain seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "~/.lander", "Directory for settings, scores, flight log and replays")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom tuning YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().BoolVar(&flagMute, "mute", false, "Disable audio")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

// clampFPS keeps the tick rate in the supported range.
func clampFPS(fps int) int {
	return max(minFPS, min(fps, maxFPS))
}

// expandHome replaces a leading ~ with the home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// dataDir resolves --data and makes sure the directory exists.
func dataDir() (string, error) {
	dir, err := expandHome(flagDataDir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create data directory: %w", err)
	}
	return dir, nil
}

// openBoard opens the settings and score file in dir. A damaged file is
// reported but the returned board is always usable.
func openBoard(dir string, logger *log.Logger) (*persist.Board, error) {
	fs, err := persist.NewFileStore(filepath.Join(dir, "lander.yaml"), logger)
	if err != nil {
		return nil, err
	}
	return persist.NewBoard(fs)
}

// openFlights opens the flight log. Failure is a warning: the game still works.
func openFlights(dir string) *storage.Store {
	store, err := storage.Open(filepath.Join(dir, "flights.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open flight log: %v\n", err)
		return nil
	}
	return store
}

// newLogger creates a logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
