package lander

import (
	"math"
	"math/rand"
	"testing"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
)

const dt = 1.0 / 60.0

func testParams() Params {
	return ParamsFromConfig(config.DefaultLanderConfig())
}

func TestEmptyTankThrustIsFreeFall(t *testing.T) {
	p := testParams()
	s := LanderState{
		Pos:   core.Vec2{X: 300, Y: 400},
		Vel:   core.Vec2{X: 3, Y: -2},
		Angle: 30,
		Fuel:  0,
	}

	for i := 0; i < 100; i++ {
		next := Step(s, input.ControlInput{Thrust: true, RotateLeft: true}, p, dt)

		if next.Vel.X != s.Vel.X {
			t.Fatalf("tick %d: vx changed from %g to %g with an empty tank", i, s.Vel.X, next.Vel.X)
		}
		if want := s.Vel.Y + (-p.Gravity)*dt; next.Vel.Y != want {
			t.Fatalf("tick %d: vy = %g, expected gravity only %g", i, next.Vel.Y, want)
		}
		if next.Thrusting {
			t.Fatalf("tick %d: engine should not fire with an empty tank", i)
		}
		if next.Angle != s.Angle {
			t.Fatalf("tick %d: rotation should need fuel", i)
		}
		s = next
	}
}

func TestAngleAlwaysWrapped(t *testing.T) {
	p := testParams()
	p.RotationFuelRate = 0
	rng := rand.New(rand.NewSource(7))

	s := LanderState{Pos: core.Vec2{X: 400, Y: 500}, Fuel: 100}
	for i := 0; i < 20000; i++ {
		in := input.ControlInput{
			RotateLeft:  rng.Intn(2) == 0,
			RotateRight: rng.Intn(3) == 0,
		}
		step := dt * float64(1+rng.Intn(50))
		s = Step(s, in, p, step)
		if s.Angle < 0 || s.Angle >= 360 {
			t.Fatalf("tick %d: angle %g out of [0, 360)", i, s.Angle)
		}
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{-10, 350},
		{720.5, 0.5},
		{-720, 0},
		{-1e-15, 0},
	}

	for _, tc := range tests {
		if got := WrapAngle(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("WrapAngle(%g) = %g, expected %g", tc.in, got, tc.want)
		}
	}
}

func TestTilt(t *testing.T) {
	tests := []struct {
		angle, want float64
	}{
		{0, 0},
		{15, 15},
		{345, 15},
		{180, 180},
		{190, 170},
	}

	for _, tc := range tests {
		if got := Tilt(tc.angle); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Tilt(%g) = %g, expected %g", tc.angle, got, tc.want)
		}
	}
}

func TestThrustFollowsNose(t *testing.T) {
	p := testParams()
	p.Gravity = 0

	right := Step(LanderState{Angle: 90, Fuel: 100, Pos: core.Vec2{X: 400}}, input.ControlInput{Thrust: true}, p, dt)
	if right.Vel.X <= 0 || math.Abs(right.Vel.Y) > 1e-9 {
		t.Errorf("nose at 90 should push right, got vel %+v", right.Vel)
	}
	if !right.Thrusting {
		t.Error("Thrusting should be set when the engine fires")
	}

	upright := Step(LanderState{Fuel: 100, Pos: core.Vec2{X: 400}}, input.ControlInput{Thrust: true}, p, dt)
	if want := p.Thrust * dt; math.Abs(upright.Vel.Y-want) > 1e-9 || upright.Vel.X != 0 {
		t.Errorf("upright thrust vel = %+v, expected (0, %g)", upright.Vel, want)
	}
}

func TestRotationDirection(t *testing.T) {
	p := testParams()
	s := LanderState{Fuel: 100, Pos: core.Vec2{X: 400, Y: 300}}

	if got := Step(s, input.ControlInput{RotateRight: true}, p, dt).Angle; got <= 0 || got > 180 {
		t.Errorf("rotate right should turn clockwise, got angle %g", got)
	}
	if got := Step(s, input.ControlInput{RotateLeft: true}, p, dt).Angle; got < 180 {
		t.Errorf("rotate left should wrap below 360, got angle %g", got)
	}
}

func TestFuelConsumption(t *testing.T) {
	p := testParams()
	s := LanderState{Fuel: 100, Pos: core.Vec2{X: 400, Y: 500}}

	for i := 0; i < 60; i++ {
		s = Step(s, input.ControlInput{Thrust: true}, p, dt)
	}
	if want := 100 - p.ThrustFuelRate; math.Abs(s.Fuel-want) > 1e-6 {
		t.Errorf("fuel after 1s of thrust = %g, expected %g", s.Fuel, want)
	}

	// Last drop is used and fuel clamps at zero
	s.Fuel = 0.01
	s = Step(s, input.ControlInput{Thrust: true}, p, dt)
	if s.Fuel != 0 {
		t.Errorf("fuel = %g, expected clamp to 0", s.Fuel)
	}
	if !s.Thrusting {
		t.Error("engine should fire on the last drop")
	}
}

func TestSideWalls(t *testing.T) {
	p := testParams()

	left := Step(LanderState{Pos: core.Vec2{X: 1, Y: 300}, Vel: core.Vec2{X: -600}}, input.ControlInput{}, p, dt)
	if left.Pos.X != 0 || left.Vel.X != 0 {
		t.Errorf("left wall: pos %g vel %g, expected 0 and 0", left.Pos.X, left.Vel.X)
	}

	right := Step(LanderState{Pos: core.Vec2{X: p.WorldWidth - 1, Y: 300}, Vel: core.Vec2{X: 600}}, input.ControlInput{}, p, dt)
	if right.Pos.X != p.WorldWidth || right.Vel.X != 0 {
		t.Errorf("right wall: pos %g vel %g, expected %g and 0", right.Pos.X, right.Vel.X, p.WorldWidth)
	}
}

func TestSanitize(t *testing.T) {
	prev := LanderState{Pos: core.Vec2{X: 10, Y: 20}, Vel: core.Vec2{X: 1, Y: 2}, Angle: 5, Fuel: 50}
	bad := prev
	bad.Pos.X = math.NaN()
	bad.Vel.Y = math.Inf(-1)
	bad.Fuel = 150

	got, fixes := Sanitize(bad, prev, 100)
	if fixes != 3 {
		t.Errorf("fixes = %d, expected 3", fixes)
	}
	if got.Pos.X != 10 || got.Vel.Y != 2 {
		t.Errorf("non-finite values should fall back to previous, got %+v", got)
	}
	if got.Fuel != 100 {
		t.Errorf("fuel = %g, expected clamp to 100", got.Fuel)
	}

	// Previous value unusable too
	prev.Angle = math.NaN()
	bad = prev
	got, _ = Sanitize(bad, prev, 100)
	if got.Angle != 0 {
		t.Errorf("angle = %g, expected 0 when no finite fallback exists", got.Angle)
	}

	if _, fixes := Sanitize(LanderState{Fuel: 10}, LanderState{}, 100); fixes != 0 {
		t.Errorf("valid state reported %d fixes", fixes)
	}
}
