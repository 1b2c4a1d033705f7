package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/lunar-lander/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective flight tuning",
	Long: `Print the tuning a flight would use, after the embedded defaults,
the tuning file, LANDER_* environment overrides and the difficulty preset
are applied. The output is valid tuning YAML: save it to
~/.lander/configs/lander.yaml and edit it to make your own moon.

Examples:
  lander config
  lander config --difficulty hard
  lander config --defaults > ~/.lander/configs/lander.yaml
  LANDER_PHYSICS_GRAVITY=30 lander config`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

var flagDefaults bool

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in tuning file with its comments")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		fmt.Print(string(config.DefaultYAML()))
		return
	}

	cfg, err := config.Load(flagConfig, flagDifficulty)
	if err != nil {
		fail("%v", err)
	}
	// The values already carry the preset scaling; reloading must not scale again.
	cfg.Difficulty.Preset = string(config.DifficultyNormal)
	data, err := config.Dump(cfg)
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}
