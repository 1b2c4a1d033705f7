// Package replay records the inputs of an attempt and plays them back
// through the simulation. Files are msgpack encoded; because the simulation
// is deterministic, the inputs plus the starting conditions are enough to
// reproduce the whole flight.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/lunar-lander/internal/config"
	"github.com/vovakirdan/lunar-lander/internal/core"
	"github.com/vovakirdan/lunar-lander/internal/input"
	"github.com/vovakirdan/lunar-lander/internal/lander"
)

// FormatVersion is the version written to new files.
const FormatVersion = 1

var (
	// ErrVersion is returned for files written by a newer build.
	ErrVersion = errors.New("replay: unsupported format version")
	// ErrMismatch is returned when playback ends differently than recorded.
	ErrMismatch = errors.New("replay: playback diverged from recording")
)

// File is a recorded attempt.
type File struct {
	Version    int                 `msgpack:"version"`
	Pilot      string              `msgpack:"pilot"`
	Seed       int64               `msgpack:"seed"`
	TickRate   int                 `msgpack:"tick_rate"`
	Config     config.LanderConfig `msgpack:"config"`
	Terrain    []lander.Point      `msgpack:"terrain"`
	Pad        int                 `msgpack:"pad"`
	Inputs     []byte              `msgpack:"inputs"` // ControlInput.Bits, one per tick
	Outcome    string              `msgpack:"outcome"`
	Score      int                 `msgpack:"score"`
	RecordedAt time.Time           `msgpack:"recorded_at"`
}

// Ticks returns the number of recorded ticks.
func (f File) Ticks() int {
	return len(f.Inputs)
}

// Duration returns the recorded flight time.
func (f File) Duration() time.Duration {
	if f.TickRate <= 0 {
		return 0
	}
	return time.Duration(len(f.Inputs)) * time.Second / time.Duration(f.TickRate)
}

// Recorder collects the inputs of one attempt.
type Recorder struct {
	file File
}

// NewRecorder starts recording the attempt shown in snap.
func NewRecorder(snap lander.Snapshot, cfg config.LanderConfig, tickRate int, pilot string) *Recorder {
	if tickRate <= 0 {
		tickRate = 60
	}
	return &Recorder{file: File{
		Version:  FormatVersion,
		Pilot:    pilot,
		Seed:     snap.Seed,
		TickRate: tickRate,
		Config:   cfg,
		Terrain:  append([]lander.Point(nil), snap.Terrain.Points...),
		Pad:      snap.Terrain.Pad,
		Inputs:   make([]byte, 0, 64*tickRate),
	}}
}

// Record appends the input of one simulated tick.
func (r *Recorder) Record(in input.ControlInput) {
	in.Reset = false
	r.file.Inputs = append(r.file.Inputs, in.Bits())
}

// Len returns the number of recorded ticks.
func (r *Recorder) Len() int {
	return len(r.file.Inputs)
}

// Finish seals the recording with the attempt's outcome.
func (r *Recorder) Finish(out lander.Outcome, at time.Time) File {
	f := r.file
	f.Outcome = out.String()
	f.Score = out.Score
	f.RecordedAt = at
	f.Inputs = append([]byte(nil), r.file.Inputs...)
	return f
}

// Encode writes f to w.
func Encode(w io.Writer, f File) error {
	enc := msgpack.NewEncoder(w)
	enc.SetCustomStructTag("yaml")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("replay: cannot encode: %w", err)
	}
	return nil
}

// Decode reads a file from r.
func Decode(r io.Reader) (File, error) {
	dec := msgpack.NewDecoder(r)
	dec.SetCustomStructTag("yaml")

	var f File
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("replay: cannot decode: %w", err)
	}
	if f.Version > FormatVersion || f.Version <= 0 {
		return File{}, fmt.Errorf("%w: %d", ErrVersion, f.Version)
	}
	return f, nil
}

// Save writes f to path, replacing any previous file atomically.
func Save(path string, f File) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("replay: cannot create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".replay-*.tmp")
	if err != nil {
		return fmt.Errorf("replay: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := Encode(w, f); err != nil {
		tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("replay: cannot write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("replay: cannot close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replay: cannot replace %s: %w", path, err)
	}
	return nil
}

// Load reads a file from path.
func Load(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("replay: cannot open %s: %w", path, err)
	}
	defer fh.Close()
	return Decode(bufio.NewReader(fh))
}

// NewGame rebuilds the session the recording started from.
func NewGame(f File) (*lander.Game, error) {
	t, err := lander.NewTerrain(f.Terrain, f.Pad)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return lander.NewWithTerrain(f.Config, f.Seed, t), nil
}

// Play re-simulates f headless. observe, if not nil, sees the snapshot after
// every tick. The final snapshot is returned; if its outcome differs from
// the recorded one the error wraps ErrMismatch.
func Play(f File, observe func(lander.Snapshot)) (lander.Snapshot, error) {
	g, err := NewGame(f)
	if err != nil {
		return lander.Snapshot{}, err
	}
	dt := core.RuntimeConfig{TickRate: f.TickRate}.TickDuration()

	for _, b := range f.Inputs {
		in := input.FromBits(b)
		in.Reset = false
		out := g.Step(in, dt)
		if observe != nil {
			observe(g.Snapshot())
		}
		if out.Terminal() {
			break
		}
	}

	snap := g.Snapshot()
	if f.Outcome != "" && snap.Outcome.String() != f.Outcome {
		return snap, fmt.Errorf("%w: recorded %s, got %s", ErrMismatch, f.Outcome, snap.Outcome)
	}
	if f.Outcome != "" && snap.Outcome.Score != f.Score {
		return snap, fmt.Errorf("%w: recorded score %d, got %d", ErrMismatch, f.Score, snap.Outcome.Score)
	}
	return snap, nil
}
