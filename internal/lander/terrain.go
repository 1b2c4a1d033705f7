package lander

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
)

// ErrInvalidTerrain is returned by NewTerrain for malformed profiles.
var ErrInvalidTerrain = errors.New("lander: invalid terrain")

// Point is a vertex of the ground silhouette.
type Point struct {
	X      float64 `msgpack:"x"`
	Height float64 `msgpack:"h"`
}

// Terrain is the ground profile. Consecutive points form segments;
// segment Pad is the flat landing pad. A Terrain is immutable once built.
type Terrain struct {
	Points []Point
	Pad    int
}

// TerrainParams control procedural generation.
type TerrainParams struct {
	Width     float64
	Segments  int
	MinHeight float64
	MaxHeight float64
	PadWidth  float64
	PadMargin float64 // Minimum distance between the pad and either edge
}

// TerrainParamsFromConfig extracts generation parameters from the tuning.
func TerrainParamsFromConfig(cfg config.LanderConfig) TerrainParams {
	return TerrainParams{
		Width:     cfg.World.Width,
		Segments:  cfg.Terrain.Segments,
		MinHeight: cfg.Terrain.MinHeight,
		MaxHeight: cfg.Terrain.MaxHeight,
		PadWidth:  cfg.Terrain.PadWidth,
		PadMargin: cfg.Terrain.PadMargin,
	}
}

// GenerateTerrain builds a random profile. The same seed and params always
// produce the same terrain.
//
// The ground is a clamped random walk sampled at Segments equal columns.
// One flat pad of PadWidth is cut in at a random position; grid points that
// fall on or right next to the pad are dropped.
func GenerateTerrain(seed int64, p TerrainParams) Terrain {
	rng := rand.New(rand.NewSource(seed))

	if p.Segments < 1 {
		p.Segments = 1
	}
	span := p.MaxHeight - p.MinHeight
	step := p.Width / float64(p.Segments)

	padX0 := p.PadMargin + rng.Float64()*math.Max(0, p.Width-2*p.PadMargin-p.PadWidth)
	padX1 := padX0 + p.PadWidth
	padH := p.MinHeight + rng.Float64()*span/2
	gap := math.Min(step/4, p.PadMargin/2)

	h := p.MinHeight + rng.Float64()*span
	points := make([]Point, 0, p.Segments+3)
	pad := -1

	for i := 0; i <= p.Segments; i++ {
		x := float64(i) * step
		if i == p.Segments {
			x = p.Width
		}

		if pad < 0 && x >= padX0-gap {
			points = append(points, Point{X: padX0, Height: padH}, Point{X: padX1, Height: padH})
			pad = len(points) - 2
			h = padH
		}
		if x >= padX0-gap && x <= padX1+gap {
			continue
		}

		h = core.ClampF(h+(rng.Float64()*2-1)*span/3, p.MinHeight, p.MaxHeight)
		points = append(points, Point{X: x, Height: h})
	}

	return Terrain{Points: points, Pad: pad}
}

// NewTerrain validates a hand-built profile.
// Points must be finite with strictly increasing X, and the pad segment must
// be flat.
func NewTerrain(points []Point, pad int) (Terrain, error) {
	if len(points) < 2 {
		return Terrain{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidTerrain, len(points))
	}
	for i, pt := range points {
		if !core.IsFinite(pt.X) || !core.IsFinite(pt.Height) {
			return Terrain{}, fmt.Errorf("%w: point %d is not finite", ErrInvalidTerrain, i)
		}
		if i > 0 && pt.X <= points[i-1].X {
			return Terrain{}, fmt.Errorf("%w: x must increase at point %d", ErrInvalidTerrain, i)
		}
	}
	if pad < 0 || pad >= len(points)-1 {
		return Terrain{}, fmt.Errorf("%w: pad segment %d out of range", ErrInvalidTerrain, pad)
	}
	if points[pad].Height != points[pad+1].Height {
		return Terrain{}, fmt.Errorf("%w: pad segment %d is not flat", ErrInvalidTerrain, pad)
	}

	return Terrain{Points: append([]Point(nil), points...), Pad: pad}, nil
}

// Segments returns the number of segments.
func (t Terrain) Segments() int {
	if len(t.Points) < 2 {
		return 0
	}
	return len(t.Points) - 1
}

// SegmentAt returns the index of the segment covering x.
// Segments are left-closed; the last one is closed on both ends. X outside
// the profile maps to the nearest end segment.
func (t Terrain) SegmentAt(x float64) int {
	n := len(t.Points)
	if n < 2 {
		return -1
	}
	i := sort.Search(n, func(i int) bool { return t.Points[i].X > x }) - 1
	return core.Clamp(i, 0, n-2)
}

// HeightAt returns the ground height under x by linear interpolation.
func (t Terrain) HeightAt(x float64) float64 {
	switch len(t.Points) {
	case 0:
		return 0
	case 1:
		return t.Points[0].Height
	}

	i := t.SegmentAt(x)
	a, b := t.Points[i], t.Points[i+1]
	x = core.ClampF(x, a.X, b.X)
	f := (x - a.X) / (b.X - a.X)
	return a.Height + f*(b.Height-a.Height)
}

// PadBounds returns the pad's left and right x and its height.
func (t Terrain) PadBounds() (x0, x1, height float64) {
	if t.Pad < 0 || t.Pad >= len(t.Points)-1 {
		return 0, 0, 0
	}
	a, b := t.Points[t.Pad], t.Points[t.Pad+1]
	return a.X, b.X, a.Height
}

// PadCenter returns the x of the middle of the pad.
func (t Terrain) PadCenter() float64 {
	x0, x1, _ := t.PadBounds()
	return (x0 + x1) / 2
}

// Hull is the lander's collision box, centered on its position.
type Hull struct {
	HalfWidth  float64
	HalfHeight float64
}

// HullFromConfig extracts the collision box from the tuning.
func HullFromConfig(cfg config.LanderConfig) Hull {
	return Hull{HalfWidth: cfg.Lander.HalfWidth, HalfHeight: cfg.Lander.HalfHeight}
}

// Corners returns the hull corners in world space, rotated by the lander's
// angle (clockwise positive).
func (h Hull) Corners(s LanderState) [4]core.Vec2 {
	rad := s.Angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	local := [4]core.Vec2{
		{X: -h.HalfWidth, Y: -h.HalfHeight},
		{X: h.HalfWidth, Y: -h.HalfHeight},
		{X: h.HalfWidth, Y: h.HalfHeight},
		{X: -h.HalfWidth, Y: h.HalfHeight},
	}

	var out [4]core.Vec2
	for i, c := range local {
		out[i] = core.Vec2{
			X: s.Pos.X + c.X*cos + c.Y*sin,
			Y: s.Pos.Y - c.X*sin + c.Y*cos,
		}
	}
	return out
}

// Contact describes the moment the hull touches the ground.
type Contact struct {
	X               float64
	Segment         int // Segment under the hull center
	OnPad           bool
	Velocity        core.Vec2
	Speed           float64
	VerticalSpeed   float64 // Descent rate, positive downward
	HorizontalSpeed float64 // Absolute
	Angle           float64
	Tilt            float64
}

// CheckContact reports whether any hull corner is at or below the ground
// under it. When the hull spans several segments, the segment under its
// center decides where it touched down.
func CheckContact(s LanderState, hull Hull, t Terrain) (Contact, bool) {
	if t.Segments() == 0 {
		return Contact{}, false
	}

	touching := false
	for _, c := range hull.Corners(s) {
		if c.Y <= t.HeightAt(c.X) {
			touching = true
			break
		}
	}
	if !touching {
		return Contact{}, false
	}

	seg := t.SegmentAt(s.Pos.X)
	return Contact{
		X:               s.Pos.X,
		Segment:         seg,
		OnPad:           seg == t.Pad,
		Velocity:        s.Vel,
		Speed:           s.Vel.Len(),
		VerticalSpeed:   -s.Vel.Y,
		HorizontalSpeed: math.Abs(s.Vel.X),
		Angle:           s.Angle,
		Tilt:            Tilt(s.Angle),
	}, true
}
