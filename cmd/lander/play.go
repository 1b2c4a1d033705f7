package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lunar-lander/internal/audio"
	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fly the lander",
	Long: `Start a flight.

Controls (default bindings, change them with 'lander settings set'):
  Up/W/Space   - Fire the main engine (hold)
  Left/A       - Rotate counterclockwise (hold)
  Right/D      - Rotate clockwise (hold)
  R            - New attempt
  N            - Edit pilot name
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Land on the flat pad slowly and upright. The score rewards a soft,
centered touchdown with fuel to spare.

Difficulty options:
  easy    - Generous thresholds, more fuel
  normal  - The default tuning
  hard    - Tight thresholds, less fuel

Examples:
  lander play
  lander play --difficulty easy
  lander play --seed 1969 --mute
  lander play --config ./my-lander.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, _ []string) {
	tuning, err := config.Load(flagConfig, flagDifficulty)
	if err != nil {
		fail("%v", err)
	}

	dir, err := dataDir()
	if err != nil {
		fail("%v", err)
	}

	// Log to a file: the game owns the terminal
	logFile, err := os.OpenFile(filepath.Join(dir, "lander.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fail("cannot open log file: %v", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, "lander")

	board, err := openBoard(dir, logger)
	if errors.Is(err, persist.ErrRecovered) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else if err != nil {
		fail("%v", err)
	}

	flights := openFlights(dir)
	if flights != nil {
		defer flights.Close()
	}

	var bridge *audio.Bridge
	if !flagMute {
		settings := board.Settings()
		bridge = audio.New(logger, settings.MusicVolume, settings.EffectsVolume)
		if startErr := bridge.Start(); startErr != nil {
			// Keep playing silently
			bridge = nil
		}
		defer bridge.Close()
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	opts := tui.Options{
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: clampFPS(flagFPS),
			Seed:     flagSeed,
		},
		Tuning:  tuning,
		Board:   board,
		Flights: flights,
		Audio:   bridge,
		Logger:  logger,
		DataDir: dir,
	}

	logger.Info("session started",
		"fps", opts.Runtime.TickRate,
		"seed", flagSeed,
		"preset", tuning.Difficulty.Preset,
		"audio", bridge.Enabled(),
	)
	if err := tui.Run(opts); err != nil {
		fail("running game: %v", err)
	}
}
