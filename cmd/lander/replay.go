package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lunar-lander/internal/platform/tui"
	"github.com/vovakirdan/lunar-lander/internal/replay"
)

var flagWatch bool

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate a recorded attempt",
	Long: `Re-run the inputs of a recorded attempt through the simulation and
check that it ends the same way. The last attempt of every session is
saved to <data>/replays/last.replay.

Examples:
  lander replay ~/.lander/replays/last.replay
  lander replay --watch ./moonshot.replay`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagWatch, "watch", false, "Play the attempt back on screen")
}

func runReplay(_ *cobra.Command, args []string) {
	path, err := expandHome(args[0])
	if err != nil {
		fail("%v", err)
	}
	f, err := replay.Load(path)
	if err != nil {
		fail("%v", err)
	}

	if flagWatch {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunReplay(f, width, height); err != nil {
			fail("running replay: %v", err)
		}
		return
	}

	fmt.Printf("Pilot:     %s\n", f.Pilot)
	fmt.Printf("Recorded:  %s\n", f.RecordedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Seed:      %d\n", f.Seed)
	fmt.Printf("Ticks:     %d at %d fps (%s)\n", f.Ticks(), f.TickRate, f.Duration())
	fmt.Printf("Outcome:   %s, score %d\n", f.Outcome, f.Score)

	snap, err := replay.Play(f, nil)
	fmt.Printf("Replayed:  %s, score %d\n", snap.Outcome, snap.Outcome.Score)
	if errors.Is(err, replay.ErrMismatch) {
		fail("replay diverged, the tuning or simulation changed since it was recorded: %v", err)
	} else if err != nil {
		fail("%v", err)
	}
	fmt.Println("Replay matches the recording.")
}
