package lander

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
)

// padTerrain is a valley with a flat pad over x in [380, 420] at height 100.
func padTerrain(t *testing.T) Terrain {
	t.Helper()
	tr, err := NewTerrain([]Point{
		{X: 0, Height: 50},
		{X: 380, Height: 100},
		{X: 420, Height: 100},
		{X: 800, Height: 50},
	}, 1)
	if err != nil {
		t.Fatalf("NewTerrain() failed: %v", err)
	}
	return tr
}

func TestGenerateTerrainDeterministic(t *testing.T) {
	p := TerrainParamsFromConfig(config.DefaultLanderConfig())

	a := GenerateTerrain(42, p)
	b := GenerateTerrain(42, p)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed should produce the same terrain")
	}

	c := GenerateTerrain(43, p)
	if reflect.DeepEqual(a, c) {
		t.Error("different seeds should produce different terrain")
	}
}

func TestGenerateTerrainShape(t *testing.T) {
	tests := []struct {
		name   string
		params TerrainParams
	}{
		{"default", TerrainParamsFromConfig(config.DefaultLanderConfig())},
		{"no margin", TerrainParams{Width: 800, Segments: 20, MinHeight: 20, MaxHeight: 160, PadWidth: 120}},
		{"coarse", TerrainParams{Width: 800, Segments: 3, MinHeight: 0, MaxHeight: 300, PadWidth: 200, PadMargin: 10}},
		{"pad fills world", TerrainParams{Width: 400, Segments: 8, MinHeight: 10, MaxHeight: 50, PadWidth: 400}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := tc.params
			for seed := int64(0); seed < 200; seed++ {
				tr := GenerateTerrain(seed, p)

				if _, err := NewTerrain(tr.Points, tr.Pad); err != nil {
					t.Fatalf("seed %d: generated terrain is invalid: %v", seed, err)
				}
				if first := tr.Points[0].X; first != 0 {
					t.Fatalf("seed %d: terrain starts at %g, expected 0", seed, first)
				}
				if last := tr.Points[len(tr.Points)-1].X; last != p.Width {
					t.Fatalf("seed %d: terrain ends at %g, expected %g", seed, last, p.Width)
				}
				for i, pt := range tr.Points {
					if pt.Height < p.MinHeight || pt.Height > p.MaxHeight {
						t.Fatalf("seed %d: point %d height %g out of range", seed, i, pt.Height)
					}
				}

				x0, x1, _ := tr.PadBounds()
				if math.Abs(x1-x0-p.PadWidth) > 1e-9 {
					t.Fatalf("seed %d: pad width %g, expected %g", seed, x1-x0, p.PadWidth)
				}
				if x0 < p.PadMargin-1e-9 || x1 > p.Width-p.PadMargin+1e-9 {
					t.Fatalf("seed %d: pad [%g, %g] violates margin %g", seed, x0, x1, p.PadMargin)
				}
			}
		})
	}
}

func TestNewTerrainErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		pad    int
	}{
		{"too few points", []Point{{X: 0, Height: 1}}, 0},
		{"x not increasing", []Point{{X: 0, Height: 1}, {X: 0, Height: 1}}, 0},
		{"not finite", []Point{{X: 0, Height: math.NaN()}, {X: 1, Height: 1}}, 0},
		{"pad out of range", []Point{{X: 0, Height: 1}, {X: 1, Height: 1}}, 1},
		{"pad not flat", []Point{{X: 0, Height: 1}, {X: 1, Height: 2}}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTerrain(tc.points, tc.pad)
			if !errors.Is(err, ErrInvalidTerrain) {
				t.Errorf("expected ErrInvalidTerrain, got %v", err)
			}
		})
	}
}

func TestHeightAtAndSegmentAt(t *testing.T) {
	tr := padTerrain(t)

	tests := []struct {
		x       float64
		height  float64
		segment int
	}{
		{-50, 50, 0},
		{0, 50, 0},
		{190, 75, 0},
		{380, 100, 1},
		{400, 100, 1},
		{420, 100, 2},
		{610, 75, 2},
		{800, 50, 2},
		{900, 50, 2},
	}

	for _, tc := range tests {
		if got := tr.HeightAt(tc.x); math.Abs(got-tc.height) > 1e-9 {
			t.Errorf("HeightAt(%g) = %g, expected %g", tc.x, got, tc.height)
		}
		if got := tr.SegmentAt(tc.x); got != tc.segment {
			t.Errorf("SegmentAt(%g) = %d, expected %d", tc.x, got, tc.segment)
		}
	}

	if c := tr.PadCenter(); c != 400 {
		t.Errorf("PadCenter() = %g, expected 400", c)
	}
}

func TestCheckContact(t *testing.T) {
	tr := padTerrain(t)
	hull := Hull{HalfWidth: 9, HalfHeight: 9}

	// Hovering above the pad
	if _, ok := CheckContact(LanderState{Pos: core.Vec2{X: 400, Y: 110}}, hull, tr); ok {
		t.Error("lander above ground should not touch")
	}

	// Bottom exactly on the pad surface counts as contact
	c, ok := CheckContact(LanderState{Pos: core.Vec2{X: 400, Y: 109}, Vel: core.Vec2{X: 3, Y: -4}, Angle: 350}, hull, tr)
	if !ok {
		t.Fatal("bottom on the surface should touch")
	}
	if !c.OnPad || c.Segment != 1 {
		t.Errorf("contact = %+v, expected pad segment 1", c)
	}
	if c.VerticalSpeed != 4 || c.HorizontalSpeed != 3 || c.Speed != 5 {
		t.Errorf("contact speeds = v%g h%g s%g, expected 4, 3, 5", c.VerticalSpeed, c.HorizontalSpeed, c.Speed)
	}
	if math.Abs(c.Tilt-10) > 1e-9 {
		t.Errorf("tilt = %g, expected 10", c.Tilt)
	}
}

func TestCheckContactCenterDecidesSegment(t *testing.T) {
	tr := padTerrain(t)
	hull := Hull{HalfWidth: 9, HalfHeight: 9}

	// Hull spans the slope and the pad; the center is over the pad
	c, ok := CheckContact(LanderState{Pos: core.Vec2{X: 381, Y: 109}}, hull, tr)
	if !ok {
		t.Fatal("expected contact")
	}
	if c.Segment != 1 || !c.OnPad {
		t.Errorf("center over pad: segment %d, on pad %v", c.Segment, c.OnPad)
	}

	// Center just left of the pad
	c, ok = CheckContact(LanderState{Pos: core.Vec2{X: 379, Y: 109}}, hull, tr)
	if !ok {
		t.Fatal("expected contact")
	}
	if c.Segment != 0 || c.OnPad {
		t.Errorf("center off pad: segment %d, on pad %v", c.Segment, c.OnPad)
	}
}

func TestCheckContactRotatedHull(t *testing.T) {
	tr, err := NewTerrain([]Point{{X: 0, Height: 100}, {X: 800, Height: 100}}, 0)
	if err != nil {
		t.Fatal(err)
	}
	hull := Hull{HalfWidth: 9, HalfHeight: 3}
	s := LanderState{Pos: core.Vec2{X: 400, Y: 105}}

	if _, ok := CheckContact(s, hull, tr); ok {
		t.Error("upright flat hull should clear the ground")
	}

	s.Angle = 90
	if _, ok := CheckContact(s, hull, tr); !ok {
		t.Error("hull on its side should reach the ground")
	}
}
