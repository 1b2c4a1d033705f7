package lander

import (
	"testing"

	"github.com/vovakirdan/lunar-lander/internal/config"
)

func TestEvaluateBoundariesInclusive(t *testing.T) {
	th := Thresholds{SafeVerticalSpeed: 3, SafeHorizontalSpeed: 2, SafeAngle: 15}
	const eps = 1e-9

	tests := []struct {
		name    string
		contact Contact
		status  Status
		reason  CrashReason
	}{
		{"all exactly at limits", Contact{OnPad: true, VerticalSpeed: 3, HorizontalSpeed: 2, Tilt: 15}, StatusLanded, ReasonNone},
		{"gentle", Contact{OnPad: true, VerticalSpeed: 1, Tilt: 2}, StatusLanded, ReasonNone},
		{"climbing", Contact{OnPad: true, VerticalSpeed: -1}, StatusLanded, ReasonNone},
		{"vertical over by epsilon", Contact{OnPad: true, VerticalSpeed: 3 + eps}, StatusCrashed, ReasonTooFast},
		{"horizontal over by epsilon", Contact{OnPad: true, HorizontalSpeed: 2 + eps}, StatusCrashed, ReasonTooFast},
		{"tilt over by epsilon", Contact{OnPad: true, Tilt: 15 + eps}, StatusCrashed, ReasonTooTilted},
		{"off pad", Contact{OnPad: false}, StatusCrashed, ReasonOffPad},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.contact, th)
			if got.Status != tc.status || got.Reason != tc.reason {
				t.Errorf("Evaluate() = %v/%q, expected %v/%q", got.Status, got.Reason, tc.status, tc.reason)
			}
		})
	}
}

func TestEvaluateReasonPriority(t *testing.T) {
	th := Thresholds{SafeVerticalSpeed: 3, SafeHorizontalSpeed: 3, SafeAngle: 15}

	all := Contact{OnPad: false, VerticalSpeed: 50, Tilt: 90}
	if got := Evaluate(all, th).Reason; got != ReasonOffPad {
		t.Errorf("off-pad should win, got %q", got)
	}

	fastAndTilted := Contact{OnPad: true, VerticalSpeed: 50, Tilt: 90}
	if got := Evaluate(fastAndTilted, th).Reason; got != ReasonTooFast {
		t.Errorf("too-fast should beat too-tilted, got %q", got)
	}
}

func TestScoreMonotonic(t *testing.T) {
	w := config.DefaultLanderConfig().Scoring
	base := ScoreInput{
		Contact:    Contact{X: 410, Speed: 2},
		Fuel:       40,
		Elapsed:    45,
		PadCenter:  400,
		PadWidth:   40,
		Thresholds: Thresholds{SafeVerticalSpeed: 6},
	}
	ref := Score(base, w).Total()

	tests := []struct {
		name   string
		mutate func(*ScoreInput)
	}{
		{"more fuel", func(in *ScoreInput) { in.Fuel = 80 }},
		{"closer to center", func(in *ScoreInput) { in.Contact.X = 401 }},
		{"slower touchdown", func(in *ScoreInput) { in.Contact.Speed = 0.5 }},
		{"faster mission", func(in *ScoreInput) { in.Elapsed = 35 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := base
			tc.mutate(&in)
			if got := Score(in, w).Total(); got <= ref {
				t.Errorf("score %d should beat reference %d", got, ref)
			}
		})
	}
}

func TestScoreBreakdown(t *testing.T) {
	w := config.ScoringConfig{Base: 1000, SpeedBonus: 500, PositionBonus: 300, FuelPoints: 2, TimeBonus: 1000, ParSeconds: 30}

	b := Score(ScoreInput{
		Contact:    Contact{X: 400, Speed: 0},
		Fuel:       50,
		Elapsed:    20,
		PadCenter:  400,
		PadWidth:   40,
		Thresholds: Thresholds{SafeVerticalSpeed: 3},
	}, w)

	want := ScoreBreakdown{Base: 1000, Speed: 500, Position: 300, Fuel: 100, Time: 1000}
	if b != want {
		t.Errorf("breakdown = %+v, expected %+v", b, want)
	}
	if b.Total() != 2900 {
		t.Errorf("total = %d, expected 2900", b.Total())
	}

	// Worst case keeps only base and fuel
	b = Score(ScoreInput{
		Contact:    Contact{X: 500, Speed: 10},
		Fuel:       0,
		Elapsed:    60,
		PadCenter:  400,
		PadWidth:   40,
		Thresholds: Thresholds{SafeVerticalSpeed: 3},
	}, w)
	if b.Speed != 0 || b.Position != 0 || b.Fuel != 0 || b.Time != 500 {
		t.Errorf("worst-case breakdown = %+v", b)
	}
}

func TestOutcomeString(t *testing.T) {
	if got := (Outcome{Status: StatusCrashed, Reason: ReasonTooFast}).String(); got != "crashed (too-fast)" {
		t.Errorf("String() = %q", got)
	}
	if got := (Outcome{Status: StatusLanded}).String(); got != "landed" {
		t.Errorf("String() = %q", got)
	}
}
