// Package config provides flight tuning loading and difficulty presets
// for the lander.
package config

import "fmt"

// LanderConfig contains every tunable parameter of a flight.
type LanderConfig struct {
	World      WorldConfig      `mapstructure:"world" yaml:"world"`
	Physics    PhysicsConfig    `mapstructure:"physics" yaml:"physics"`
	Lander     HullConfig       `mapstructure:"lander" yaml:"lander"`
	Landing    LandingConfig    `mapstructure:"landing" yaml:"landing"`
	Terrain    TerrainConfig    `mapstructure:"terrain" yaml:"terrain"`
	Scoring    ScoringConfig    `mapstructure:"scoring" yaml:"scoring"`
	Difficulty DifficultyConfig `mapstructure:"difficulty" yaml:"difficulty"`
}

// WorldConfig defines the size of the simulated world.
type WorldConfig struct {
	Width  float64 `mapstructure:"width" yaml:"width"`
	Height float64 `mapstructure:"height" yaml:"height"`
}

// PhysicsConfig defines the integrator constants.
type PhysicsConfig struct {
	Gravity          float64 `mapstructure:"gravity" yaml:"gravity"`
	Thrust           float64 `mapstructure:"thrust" yaml:"thrust"`
	RotationSpeed    float64 `mapstructure:"rotation_speed" yaml:"rotation_speed"`
	ThrustFuelRate   float64 `mapstructure:"thrust_fuel_rate" yaml:"thrust_fuel_rate"`
	RotationFuelRate float64 `mapstructure:"rotation_fuel_rate" yaml:"rotation_fuel_rate"`
}

// HullConfig defines the lander's starting state and size.
type HullConfig struct {
	StartX        float64 `mapstructure:"start_x" yaml:"start_x"` // Fraction of world width
	StartAltitude float64 `mapstructure:"start_altitude" yaml:"start_altitude"`
	HalfWidth     float64 `mapstructure:"half_width" yaml:"half_width"`
	HalfHeight    float64 `mapstructure:"half_height" yaml:"half_height"`
	MaxFuel       float64 `mapstructure:"max_fuel" yaml:"max_fuel"`
}

// LandingConfig defines the safe touchdown thresholds.
type LandingConfig struct {
	SafeVerticalSpeed   float64 `mapstructure:"safe_vertical_speed" yaml:"safe_vertical_speed"`
	SafeHorizontalSpeed float64 `mapstructure:"safe_horizontal_speed" yaml:"safe_horizontal_speed"`
	SafeAngle           float64 `mapstructure:"safe_angle" yaml:"safe_angle"` // Degrees from upright
}

// TerrainConfig defines procedural ground generation.
type TerrainConfig struct {
	Segments          int     `mapstructure:"segments" yaml:"segments"`
	MinHeight         float64 `mapstructure:"min_height" yaml:"min_height"`
	MaxHeight         float64 `mapstructure:"max_height" yaml:"max_height"`
	PadWidth          float64 `mapstructure:"pad_width" yaml:"pad_width"`
	PadMargin         float64 `mapstructure:"pad_margin" yaml:"pad_margin"`
	RegenerateOnReset bool    `mapstructure:"regenerate_on_reset" yaml:"regenerate_on_reset"`
}

// ScoringConfig defines the weights of the landing score.
type ScoringConfig struct {
	Base          int     `mapstructure:"base" yaml:"base"`
	SpeedBonus    int     `mapstructure:"speed_bonus" yaml:"speed_bonus"`
	PositionBonus int     `mapstructure:"position_bonus" yaml:"position_bonus"`
	FuelPoints    float64 `mapstructure:"fuel_points" yaml:"fuel_points"`
	TimeBonus     int     `mapstructure:"time_bonus" yaml:"time_bonus"`
	ParSeconds    float64 `mapstructure:"par_seconds" yaml:"par_seconds"`
}

// DifficultyConfig selects the preset applied on top of the tuning.
type DifficultyConfig struct {
	Preset string `mapstructure:"preset" yaml:"preset"`
}

// Validate reports the first parameter that would break the simulation.
func (c LanderConfig) Validate() error {
	switch {
	case c.World.Width <= 0 || c.World.Height <= 0:
		return fmt.Errorf("config: world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	case c.Physics.Gravity < 0:
		return fmt.Errorf("config: gravity must not be negative, got %g", c.Physics.Gravity)
	case c.Physics.Thrust < 0 || c.Physics.RotationSpeed < 0:
		return fmt.Errorf("config: thrust and rotation speed must not be negative")
	case c.Physics.ThrustFuelRate < 0 || c.Physics.RotationFuelRate < 0:
		return fmt.Errorf("config: fuel rates must not be negative")
	case c.Lander.HalfWidth <= 0 || c.Lander.HalfHeight <= 0:
		return fmt.Errorf("config: lander size must be positive")
	case c.Lander.MaxFuel < 0:
		return fmt.Errorf("config: max fuel must not be negative, got %g", c.Lander.MaxFuel)
	case c.Landing.SafeVerticalSpeed <= 0 || c.Landing.SafeHorizontalSpeed <= 0 || c.Landing.SafeAngle < 0:
		return fmt.Errorf("config: landing thresholds must be positive")
	case c.Terrain.Segments < 2:
		return fmt.Errorf("config: terrain needs at least 2 segments, got %d", c.Terrain.Segments)
	case c.Terrain.MinHeight < 0 || c.Terrain.MaxHeight < c.Terrain.MinHeight:
		return fmt.Errorf("config: terrain height range [%g, %g] is invalid", c.Terrain.MinHeight, c.Terrain.MaxHeight)
	case c.Terrain.MaxHeight >= c.Lander.StartAltitude:
		return fmt.Errorf("config: terrain must stay below the start altitude %g", c.Lander.StartAltitude)
	case c.Terrain.PadMargin < 0:
		return fmt.Errorf("config: pad margin must not be negative, got %g", c.Terrain.PadMargin)
	case c.Terrain.PadWidth <= 0 || c.Terrain.PadWidth+2*c.Terrain.PadMargin > c.World.Width:
		return fmt.Errorf("config: pad width %g with margin %g does not fit the world", c.Terrain.PadWidth, c.Terrain.PadMargin)
	}
	return nil
}
