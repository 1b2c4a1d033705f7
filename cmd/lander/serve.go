package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/persist"
	"github.com/vovakirdan/lunar-lander/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lander SSH server",
	Long: `Start an SSH server that lets users connect and fly.

Each SSH connection gets its own flight; the SSH user name is the pilot.
All pilots share the hall of fame and the flight log in --data.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.lander/host_key

Examples:
  lander serve                           # Listen on :23234 with auto-generated key
  lander serve --ssh :2222               # Listen on port 2222
  lander serve --host-key ./my_host_key  # Use specific host key
  lander serve --data /srv/lander        # Keep scores in /srv/lander

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr, "lander-ssh")

	tuning, err := config.Load(flagConfig, flagDifficulty)
	if err != nil {
		fail("%v", err)
	}

	dir, err := dataDir()
	if err != nil {
		fail("%v", err)
	}

	board, err := openBoard(dir, logger)
	if errors.Is(err, persist.ErrRecovered) {
		logger.Warn("settings file recovered", "err", err)
	} else if err != nil {
		fail("%v", err)
	}

	flights := openFlights(dir)
	if flights != nil {
		defer flights.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = clampFPS(flagFPS)
	cfg.Tuning = tuning

	server, err := tui.NewSSHServer(cfg, board, flights, logger)
	if err != nil {
		fail("creating server: %v", err)
	}

	fmt.Printf("Starting lander SSH server on %s\n", server.Addr())
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fail("server: %v", err)
	}
}
