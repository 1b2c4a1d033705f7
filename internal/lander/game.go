package lander

import (
	"math/rand"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
)

// Game owns one play session: the lander, the terrain and the outcome of
// the current attempt. States go Flying -> Landed|Crashed, and back to
// Flying only through Reset.
type Game struct {
	cfg           config.LanderConfig
	params        Params
	hull          Hull
	thresholds    Thresholds
	terrainParams TerrainParams

	seed         int64
	rng          *rand.Rand // Draws one terrain seed per generated terrain
	fixedTerrain bool
	terrain      Terrain
	terrainSeed  int64

	state   LanderState
	outcome Outcome
	contact Contact
	touched bool
	tick    uint64
	elapsed float64
	attempt int
	fixes   int // Non-finite or out-of-range values repaired so far
}

// New creates a session with procedurally generated terrain.
func New(cfg config.LanderConfig, seed int64) *Game {
	g := newGame(cfg, seed)
	g.generateTerrain()
	g.restart()
	return g
}

// NewWithTerrain creates a session on a fixed terrain that is reused on
// every reset, regardless of the regenerate setting.
func NewWithTerrain(cfg config.LanderConfig, seed int64, t Terrain) *Game {
	g := newGame(cfg, seed)
	g.fixedTerrain = true
	g.terrain = t
	g.restart()
	return g
}

func newGame(cfg config.LanderConfig, seed int64) *Game {
	return &Game{
		cfg:           cfg,
		params:        ParamsFromConfig(cfg),
		hull:          HullFromConfig(cfg),
		thresholds:    ThresholdsFromConfig(cfg),
		terrainParams: TerrainParamsFromConfig(cfg),
		seed:          seed,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

func (g *Game) generateTerrain() {
	g.terrainSeed = g.rng.Int63()
	g.terrain = GenerateTerrain(g.terrainSeed, g.terrainParams)
}

// restart puts a fresh lander at the start position.
func (g *Game) restart() {
	g.state = g.startState()
	g.outcome = Outcome{Status: StatusFlying}
	g.contact = Contact{}
	g.touched = false
	g.tick = 0
	g.elapsed = 0
	g.attempt++
}

func (g *Game) startState() LanderState {
	return LanderState{
		Pos:  core.Vec2{X: g.cfg.Lander.StartX * g.cfg.World.Width, Y: g.cfg.Lander.StartAltitude},
		Fuel: g.cfg.Lander.MaxFuel,
	}
}

// Reset starts a new attempt. It is accepted in any state.
// The terrain is regenerated when the tuning asks for it.
func (g *Game) Reset() {
	if g.cfg.Terrain.RegenerateOnReset && !g.fixedTerrain {
		g.generateTerrain()
	}
	g.restart()
}

// Step advances the attempt by one tick of dt seconds and returns the
// outcome. A reset request restarts the attempt instead of simulating.
// Once the attempt is over, Step leaves the state untouched.
func (g *Game) Step(in input.ControlInput, dt float64) Outcome {
	if in.Reset {
		g.Reset()
		return g.outcome
	}
	if g.outcome.Terminal() || !core.IsFinite(dt) || dt <= 0 {
		return g.outcome
	}

	prev := g.state
	next, fixes := Sanitize(integrate(prev, in, g.params, dt), prev, g.params.MaxFuel)
	g.fixes += fixes
	g.state = next
	g.tick++
	g.elapsed += dt

	if c, ok := CheckContact(g.state, g.hull, g.terrain); ok {
		g.touchdown(c)
	}
	return g.outcome
}

// touchdown settles the attempt on first ground contact.
func (g *Game) touchdown(c Contact) {
	g.contact = c
	g.touched = true
	g.outcome = Evaluate(c, g.thresholds)

	g.state.Vel = core.Vec2{}
	g.state.Thrusting = false

	if g.outcome.Status != StatusLanded {
		return
	}

	x0, x1, padH := g.terrain.PadBounds()
	g.outcome.Breakdown = Score(ScoreInput{
		Contact:    c,
		Fuel:       g.state.Fuel,
		Elapsed:    g.elapsed,
		PadCenter:  (x0 + x1) / 2,
		PadWidth:   x1 - x0,
		Thresholds: g.thresholds,
	}, g.cfg.Scoring)
	g.outcome.Score = g.outcome.Breakdown.Total()

	// Rest upright on the pad surface
	g.state.Pos.Y = padH + g.hull.HalfHeight
	g.state.Angle = 0
}

// State returns the current lander state.
func (g *Game) State() LanderState {
	return g.state
}

// Outcome returns the outcome of the current attempt.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Terrain returns the current ground profile.
func (g *Game) Terrain() Terrain {
	return g.terrain
}

// Config returns the tuning the session runs with.
func (g *Game) Config() config.LanderConfig {
	return g.cfg
}

// Seed returns the session seed.
func (g *Game) Seed() int64 {
	return g.seed
}

// Attempt returns the 1-based number of the current attempt.
func (g *Game) Attempt() int {
	return g.attempt
}
