package lander

// Snapshot is a read-only view of a session for renderers, audio and
// recorders. Terrain points are shared with the game; do not modify them.
type Snapshot struct {
	Tick        uint64
	Elapsed     float64 // Mission time in seconds
	Attempt     int
	Seed        int64
	TerrainSeed int64 // Zero for fixed terrain

	State   LanderState
	Terrain Terrain
	Outcome Outcome
	Contact Contact // Valid when Touched
	Touched bool

	Thresholds  Thresholds
	Hull        Hull
	MaxFuel     float64
	WorldWidth  float64
	WorldHeight float64

	Fixes int
}

// Snapshot returns the current session state.
func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Tick:        g.tick,
		Elapsed:     g.elapsed,
		Attempt:     g.attempt,
		Seed:        g.seed,
		TerrainSeed: g.terrainSeed,
		State:       g.state,
		Terrain:     g.terrain,
		Outcome:     g.outcome,
		Contact:     g.contact,
		Touched:     g.touched,
		Thresholds:  g.thresholds,
		Hull:        g.hull,
		MaxFuel:     g.params.MaxFuel,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Fixes:       g.fixes,
	}
}

// Altitude returns the clearance between the hull bottom and the ground
// directly below the lander.
func (s Snapshot) Altitude() float64 {
	return s.State.Pos.Y - s.Hull.HalfHeight - s.Terrain.HeightAt(s.State.Pos.X)
}

// FuelFraction returns remaining fuel as a fraction of the tank.
func (s Snapshot) FuelFraction() float64 {
	if s.MaxFuel <= 0 {
		return 0
	}
	return s.State.Fuel / s.MaxFuel
}

// Thrust reports whether the engine fired on the last tick.
func (s Snapshot) Thrust() bool {
	return s.State.Thrusting
}
