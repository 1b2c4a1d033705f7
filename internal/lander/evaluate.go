package lander

import (
	"math"

	"github.com/vovakirdan/lunar-lander/internal/config"
)

// Status is the phase of an attempt.
type Status int

const (
	StatusFlying Status = iota
	StatusLanded
	StatusCrashed
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusFlying:
		return "flying"
	case StatusLanded:
		return "landed"
	case StatusCrashed:
		return "crashed"
	default:
		return "unknown"
	}
}

// CrashReason tags why an attempt ended in a crash.
type CrashReason string

const (
	ReasonNone      CrashReason = ""
	ReasonOffPad    CrashReason = "off-pad"
	ReasonTooFast   CrashReason = "too-fast"
	ReasonTooTilted CrashReason = "too-tilted"
)

// Thresholds are the limits of a safe touchdown. All are inclusive.
type Thresholds struct {
	SafeVerticalSpeed   float64
	SafeHorizontalSpeed float64
	SafeAngle           float64 // Degrees from upright
}

// ThresholdsFromConfig extracts landing limits from the tuning.
func ThresholdsFromConfig(cfg config.LanderConfig) Thresholds {
	return Thresholds{
		SafeVerticalSpeed:   cfg.Landing.SafeVerticalSpeed,
		SafeHorizontalSpeed: cfg.Landing.SafeHorizontalSpeed,
		SafeAngle:           cfg.Landing.SafeAngle,
	}
}

// ScoreBreakdown itemizes a landing score.
type ScoreBreakdown struct {
	Base     int `yaml:"base" msgpack:"base"`
	Speed    int `yaml:"speed" msgpack:"speed"`
	Position int `yaml:"position" msgpack:"position"`
	Fuel     int `yaml:"fuel" msgpack:"fuel"`
	Time     int `yaml:"time" msgpack:"time"`
}

// Total returns the sum of all components.
func (b ScoreBreakdown) Total() int {
	return b.Base + b.Speed + b.Position + b.Fuel + b.Time
}

// Outcome is the result of an attempt so far.
type Outcome struct {
	Status    Status
	Reason    CrashReason // Set when Status is StatusCrashed
	Score     int         // Set when Status is StatusLanded
	Breakdown ScoreBreakdown
}

// Terminal reports whether the attempt is over.
func (o Outcome) Terminal() bool {
	return o.Status != StatusFlying
}

// String returns "landed", "flying" or "crashed (reason)".
func (o Outcome) String() string {
	if o.Status == StatusCrashed && o.Reason != ReasonNone {
		return o.Status.String() + " (" + string(o.Reason) + ")"
	}
	return o.Status.String()
}

// Evaluate classifies a touchdown. The reasons are checked in priority
// order: off-pad, then too-fast, then too-tilted. Score is left for Score.
func Evaluate(c Contact, th Thresholds) Outcome {
	switch {
	case !c.OnPad:
		return Outcome{Status: StatusCrashed, Reason: ReasonOffPad}
	case c.VerticalSpeed > th.SafeVerticalSpeed || c.HorizontalSpeed > th.SafeHorizontalSpeed:
		return Outcome{Status: StatusCrashed, Reason: ReasonTooFast}
	case c.Tilt > th.SafeAngle:
		return Outcome{Status: StatusCrashed, Reason: ReasonTooTilted}
	}
	return Outcome{Status: StatusLanded}
}

// ScoreInput gathers what the landing score depends on.
type ScoreInput struct {
	Contact    Contact
	Fuel       float64
	Elapsed    float64 // Mission time in seconds
	PadCenter  float64
	PadWidth   float64
	Thresholds Thresholds
}

// Score computes the landing score. Every component grows with remaining
// fuel, touchdown precision and gentleness, and shrinks with mission time:
//
//	base
//	+ speed    * (1 - min(1, speed / safe vertical speed))
//	+ position * (1 - min(1, |x - pad center| / (pad width / 2)))
//	+ fuel points * fuel
//	+ time     * min(1, par / max(1, elapsed))
func Score(in ScoreInput, w config.ScoringConfig) ScoreBreakdown {
	b := ScoreBreakdown{Base: w.Base}

	if in.Thresholds.SafeVerticalSpeed > 0 {
		ratio := math.Min(1, in.Contact.Speed/in.Thresholds.SafeVerticalSpeed)
		b.Speed = int(math.Round(float64(w.SpeedBonus) * (1 - ratio)))
	}

	if half := in.PadWidth / 2; half > 0 {
		ratio := math.Min(1, math.Abs(in.Contact.X-in.PadCenter)/half)
		b.Position = int(math.Round(float64(w.PositionBonus) * (1 - ratio)))
	}

	b.Fuel = int(math.Round(w.FuelPoints * math.Max(0, in.Fuel)))

	if w.ParSeconds > 0 {
		ratio := math.Min(1, w.ParSeconds/math.Max(1, in.Elapsed))
		b.Time = int(math.Round(float64(w.TimeBonus) * ratio))
	}

	return b
}
