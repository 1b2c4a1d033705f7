package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/platform/tui"
	"github.com/vovakirdan/lunar-lander/internal/storage"
)

var (
	flagClear   bool
	flagPilot   string
	flagLimit   int
	flagNoTable bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse the hall of fame and flight log",
	Long: `Open the scoreboard: the high-score table and the log of every
recorded flight. Use tab to switch between them.

Examples:
  lander scores
  lander scores --pilot neil   # Only neil's flights in the log
  lander scores --print        # Print the table instead of opening the screen
  lander scores --clear        # Wipe the high-score table`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the flight log",
	Long: `Print the most recent flights and a summary.

Examples:
  lander history
  lander history --pilot neil --limit 50
  lander history --clear --pilot neil`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Wipe the high-score table")
	scoresCmd.Flags().StringVar(&flagPilot, "pilot", "", "Only show flights of this pilot")
	scoresCmd.Flags().BoolVar(&flagNoTable, "print", false, "Print the table instead of opening the scoreboard")

	historyCmd.Flags().StringVar(&flagPilot, "pilot", "", "Only show flights of this pilot")
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of flights to show")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the flight log (of --pilot, or everyone)")
}

func runScores(_ *cobra.Command, _ []string) {
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

	if flagClear {
		if err := board.Clear(); err != nil {
			fail("clearing scores: %v", err)
		}
		fmt.Println("High-score table cleared.")
		return
	}

	if flagNoTable || !term.IsTerminal(int(os.Stdout.Fd())) {
		printScores(board)
		return
	}

	flights := openFlights(dir)
	if flights != nil {
		defer flights.Close()
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}
	if err := tui.RunScoreboard(board, flights, flagPilot, width, height); err != nil {
		fail("running scoreboard: %v", err)
	}
}

func printScores(board *persist.Board) {
	scores := board.Top(-1)
	fmt.Println("Hall of Fame - Lunar Lander")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No landings recorded yet.")
		fmt.Println()
		fmt.Println("Play 'lander' and touch down softly to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-15s  %-6s  %s\n", "Rank", "Pilot", "Score", "Date")
	fmt.Printf("  %-4s  %-15s  %-6s  %s\n", "----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.Time.Local().Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-15s  %-6d  %s\n", i+1, entry.Name, entry.Score, dateStr)
	}

	if best, ok := board.Best(); ok {
		fmt.Println()
		fmt.Printf("Best: %d by %s\n", best.Score, best.Name)
	}
}

func runHistory(_ *cobra.Command, _ []string) {
	dir, err := dataDir()
	if err != nil {
		fail("%v", err)
	}

	store, err := storage.Open(filepath.Join(dir, "flights.db"))
	if err != nil {
		fail("opening flight log: %v", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearFlights(flagPilot); err != nil {
			fail("clearing flight log: %v", err)
		}
		fmt.Println("Flight log cleared.")
		return
	}

	flights, err := store.RecentFlights(flagPilot, flagLimit)
	if err != nil {
		fail("reading flight log: %v", err)
	}
	stats, err := store.Stats(flagPilot)
	if err != nil {
		fail("reading flight log: %v", err)
	}

	printHistory(flights, stats)
}

func printHistory(flights []storage.Flight, stats *storage.Stats) {
	if len(flights) == 0 {
		fmt.Println("No flights logged yet.")
		return
	}

	fmt.Printf("  %-16s  %-15s  %-20s  %-6s  %-6s  %s\n", "Date", "Pilot", "Result", "Score", "Fuel", "Speed")
	fmt.Printf("  %-16s  %-15s  %-20s  %-6s  %-6s  %s\n", "----", "-----", "------", "-----", "----", "-----")
	for _, f := range flights {
		result := f.Outcome
		if f.Reason != "" {
			result += " (" + f.Reason + ")"
		}
		fmt.Printf("  %-16s  %-15s  %-20s  %-6d  %-6.0f  %.2f\n",
			f.CreatedAt.Local().Format("2006-01-02 15:04"), f.Pilot, result, f.Score, f.Fuel, f.Speed)
	}

	fmt.Println()
	fmt.Printf("%d flights, %d landed, %d crashed\n", stats.Flights, stats.Landings, stats.Crashes)
	if stats.Landings > 0 {
		fmt.Printf("Best: %d, average landing: %.0f\n", stats.BestScore, stats.AvgScore)
	}
	for _, reason := range []string{"off-pad", "too-fast", "too-tilted"} {
		if n := stats.Reasons[reason]; n > 0 {
			fmt.Printf("  %-10s %d\n", reason, n)
		}
	}
}
