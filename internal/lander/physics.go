// Package lander implements the lunar lander simulation: the fixed-tick
// integrator, the terrain and its contact model, and the landing state
// machine. It has no knowledge of terminals, sound or files; hosts drive it
// with Game.Step and read it through Game.Snapshot.
package lander

import (
	"math"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
)

// LanderState is the kinematic state of the craft.
// Y is altitude (up is positive); Angle is in degrees, 0 is upright,
// clockwise positive, always in [0, 360).
type LanderState struct {
	Pos       core.Vec2
	Vel       core.Vec2
	Angle     float64
	Fuel      float64
	Thrusting bool
}

// Params are the integrator constants.
type Params struct {
	Gravity          float64
	Thrust           float64
	RotationSpeed    float64 // Degrees per second
	ThrustFuelRate   float64 // Fuel per second of thrust
	RotationFuelRate float64 // Fuel per second per rotation direction
	MaxFuel          float64
	WorldWidth       float64
}

// ParamsFromConfig extracts integrator constants from the tuning.
func ParamsFromConfig(cfg config.LanderConfig) Params {
	return Params{
		Gravity:          cfg.Physics.Gravity,
		Thrust:           cfg.Physics.Thrust,
		RotationSpeed:    cfg.Physics.RotationSpeed,
		ThrustFuelRate:   cfg.Physics.ThrustFuelRate,
		RotationFuelRate: cfg.Physics.RotationFuelRate,
		MaxFuel:          cfg.Lander.MaxFuel,
		WorldWidth:       cfg.World.Width,
	}
}

// Step advances the lander by dt seconds. It is a pure function: the same
// inputs always yield the same state, which keeps replays reproducible.
func Step(s LanderState, in input.ControlInput, p Params, dt float64) LanderState {
	next, _ := Sanitize(integrate(s, in, p, dt), s, p.MaxFuel)
	return next
}

// integrate applies controls, gravity and the semi-implicit Euler update.
func integrate(s LanderState, in input.ControlInput, p Params, dt float64) LanderState {
	next := s
	next.Thrusting = false

	// Rotation thrusters
	if in.RotateLeft && next.Fuel > 0 {
		next.Angle -= p.RotationSpeed * dt
		next.Fuel = burn(next.Fuel, p.RotationFuelRate*dt)
	}
	if in.RotateRight && next.Fuel > 0 {
		next.Angle += p.RotationSpeed * dt
		next.Fuel = burn(next.Fuel, p.RotationFuelRate*dt)
	}
	next.Angle = WrapAngle(next.Angle)

	// Main engine pushes along the nose
	var accel core.Vec2
	if in.Thrust && next.Fuel > 0 {
		rad := next.Angle * math.Pi / 180
		accel = core.Vec2{X: math.Sin(rad) * p.Thrust, Y: math.Cos(rad) * p.Thrust}
		next.Fuel = burn(next.Fuel, p.ThrustFuelRate*dt)
		next.Thrusting = true
	}
	accel.Y -= p.Gravity

	next.Vel = next.Vel.Add(accel.Scale(dt))
	next.Pos = next.Pos.Add(next.Vel.Scale(dt))

	// Side walls
	if next.Pos.X < 0 {
		next.Pos.X = 0
		next.Vel.X = 0
	} else if p.WorldWidth > 0 && next.Pos.X > p.WorldWidth {
		next.Pos.X = p.WorldWidth
		next.Vel.X = 0
	}

	return next
}

func burn(fuel, amount float64) float64 {
	fuel -= amount
	if fuel < 0 {
		return 0
	}
	return fuel
}

// Sanitize replaces non-finite components of next with the matching value
// of prev (or zero) and clamps fuel to [0, maxFuel]. It returns the number
// of components it had to fix.
func Sanitize(next, prev LanderState, maxFuel float64) (LanderState, int) {
	fixes := 0
	fix := func(v *float64, fallback float64) {
		if core.IsFinite(*v) {
			return
		}
		fixes++
		if core.IsFinite(fallback) {
			*v = fallback
		} else {
			*v = 0
		}
	}

	if !next.Pos.Finite() {
		fix(&next.Pos.X, prev.Pos.X)
		fix(&next.Pos.Y, prev.Pos.Y)
	}
	if !next.Vel.Finite() {
		fix(&next.Vel.X, prev.Vel.X)
		fix(&next.Vel.Y, prev.Vel.Y)
	}
	fix(&next.Angle, prev.Angle)
	fix(&next.Fuel, prev.Fuel)

	next.Angle = WrapAngle(next.Angle)
	if next.Fuel < 0 || (maxFuel >= 0 && next.Fuel > maxFuel) {
		fixes++
		next.Fuel = core.ClampF(next.Fuel, 0, math.Max(maxFuel, 0))
	}
	return next, fixes
}

// WrapAngle maps any finite angle into [0, 360).
func WrapAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	// -tiny + 360 rounds to 360
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// Tilt returns the deviation from upright in degrees, in [0, 180].
func Tilt(angle float64) float64 {
	angle = WrapAngle(angle)
	if angle > 180 {
		return 360 - angle
	}
	return angle
}
