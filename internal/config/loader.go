package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides (LANDER_PHYSICS_GRAVITY).
const EnvPrefix = "LANDER"

// Load loads the flight tuning.
// Layers, lowest first: embedded default -> one tuning file -> LANDER_* env.
// The file is customPath if set, else ~/.lander/configs/lander.yaml,
// else ./configs/lander.yaml. A broken custom file is an error, the
// implicit locations are skipped silently.
// presetOverride replaces the preset named in the file when it is valid.
func Load(customPath, presetOverride string) (LanderConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewReader(defaultLanderYAML)); err != nil {
		// Fallback to hardcoded if embed fails
		cfg := DefaultLanderConfig()
		return cfg, nil
	}

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultLanderConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
			return DefaultLanderConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
	} else {
		for _, path := range []string{userConfigPath("lander.yaml"), filepath.Join("configs", "lander.yaml")} {
			if path == "" {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if err := v.MergeConfig(bytes.NewReader(data)); err == nil {
				break
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg LanderConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultLanderConfig(), fmt.Errorf("config: failed to decode tuning: %w", err)
	}

	preset, ok := ParsePreset(presetOverride)
	if !ok {
		preset, ok = ParsePreset(cfg.Difficulty.Preset)
	}
	if !ok {
		preset = DifficultyNormal
	}
	ApplyPreset(&cfg, preset)

	if err := cfg.Validate(); err != nil {
		return DefaultLanderConfig(), err
	}
	return cfg, nil
}

// Dump renders cfg as YAML, as the tuning file would contain it.
func Dump(cfg LanderConfig) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".lander", "configs", filename)
}
