package config

import (
	_ "embed"
)

//go:embed defaults/lander.yaml
var defaultLanderYAML []byte

// DefaultLanderConfig returns the built-in tuning.
// It mirrors defaults/lander.yaml and is used if the embedded file is unreadable.
func DefaultLanderConfig() LanderConfig {
	return LanderConfig{
		World: WorldConfig{
			Width:  800,
			Height: 600,
		},
		Physics: PhysicsConfig{
			Gravity:          40,
			Thrust:           160,
			RotationSpeed:    120,
			ThrustFuelRate:   10,
			RotationFuelRate: 1.2,
		},
		Lander: HullConfig{
			StartX:        0.5,
			StartAltitude: 500,
			HalfWidth:     9,
			HalfHeight:    9,
			MaxFuel:       100,
		},
		Landing: LandingConfig{
			SafeVerticalSpeed:   60,
			SafeHorizontalSpeed: 60,
			SafeAngle:           15,
		},
		Terrain: TerrainConfig{
			Segments:          20,
			MinHeight:         20,
			MaxHeight:         160,
			PadWidth:          120,
			PadMargin:         80,
			RegenerateOnReset: true,
		},
		Scoring: ScoringConfig{
			Base:          1000,
			SpeedBonus:    500,
			PositionBonus: 300,
			FuelPoints:    2,
			TimeBonus:     1000,
			ParSeconds:    30,
		},
		Difficulty: DifficultyConfig{
			Preset: string(DifficultyNormal),
		},
	}
}

// DefaultYAML returns the embedded default tuning file.
func DefaultYAML() []byte {
	return defaultLanderYAML
}
