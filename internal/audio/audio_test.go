package audio

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/lunar-lander/internal/lander"
)

func drain(t *testing.T, s beep.Streamer, limit int) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			for c := 0; c < 2; c++ {
				v := buf[i][c]
				if math.IsNaN(v) || math.IsInf(v, 0) || v < -1.5 || v > 1.5 {
					t.Fatalf("sample %d out of range: %v", total+i, v)
				}
			}
		}
		total += n
		if !ok {
			break
		}
	}
	return total
}

func TestOscillatorWaves(t *testing.T) {
	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveNoise} {
		osc := NewOscillator(440, 100*time.Millisecond, wave, sampleRate)
		if got, want := drain(t, osc, 1<<20), sampleRate.N(100*time.Millisecond); got != want {
			t.Errorf("wave %d: streamed %d samples, expected %d", wave, got, want)
		}
	}
}

func TestEnvelopeShapesStream(t *testing.T) {
	d := 50 * time.Millisecond
	env := NewEnvelope(NewOscillator(0, d, WaveSquare, sampleRate), d, 10*time.Millisecond, 10*time.Millisecond, sampleRate)

	buf := make([][2]float64, sampleRate.N(d))
	n, _ := env.Stream(buf)
	if n != len(buf) {
		t.Fatalf("streamed %d samples, expected %d", n, len(buf))
	}
	if buf[0][0] != 0 {
		t.Errorf("attack should start silent, got %v", buf[0][0])
	}
	mid := buf[n/2][0]
	if math.Abs(mid) != 1 {
		t.Errorf("sustain should be full level, got %v", mid)
	}
	if last := math.Abs(buf[n-1][0]); last >= 0.01 {
		t.Errorf("release should end near silence, got %v", last)
	}
}

func TestOneShotsEnd(t *testing.T) {
	tests := []struct {
		name string
		s    beep.Streamer
	}{
		{"crash", crashSound(sampleRate)},
		{"chime", landingChime(sampleRate)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit := sampleRate.N(5 * time.Second)
			if got := drain(t, tt.s, limit); got >= limit {
				t.Errorf("%s never ended", tt.name)
			}
		})
	}
}

func TestLoopsNeverEnd(t *testing.T) {
	limit := sampleRate.N(3 * time.Second)
	if got := drain(t, thrustRumble(sampleRate), limit); got < limit {
		t.Errorf("thrust rumble ended after %d samples", got)
	}
	if got := drain(t, NewMusicGenerator(sampleRate), limit); got < limit {
		t.Errorf("music ended after %d samples", got)
	}
}

func TestDiff(t *testing.T) {
	flying := lander.Snapshot{Attempt: 1}
	thrusting := flying
	thrusting.State.Thrusting = true
	landed := flying
	landed.Outcome = lander.Outcome{Status: lander.StatusLanded, Score: 1200}
	crashed := thrusting
	crashed.State.Thrusting = false
	crashed.Outcome = lander.Outcome{Status: lander.StatusCrashed, Reason: lander.ReasonTooFast}
	next := lander.Snapshot{Attempt: 2}

	tests := []struct {
		name      string
		prev, cur lander.Snapshot
		want      []Event
	}{
		{"idle", flying, flying, nil},
		{"thrust on", flying, thrusting, []Event{EventThrustOn}},
		{"thrust held", thrusting, thrusting, nil},
		{"thrust off", thrusting, flying, []Event{EventThrustOff}},
		{"landed", flying, landed, []Event{EventLanded}},
		{"crash while thrusting", thrusting, crashed, []Event{EventThrustOff, EventCrashed}},
		{"terminal stays quiet", crashed, crashed, nil},
		{"reset after crash", crashed, next, []Event{EventReset}},
		{"reset mid-burn", thrusting, next, []Event{EventReset, EventThrustOff}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Diff(tt.prev, tt.cur); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Diff() = %v, expected %v", got, tt.want)
			}
		})
	}
}

// testBridge is a bridge that reacts to events without an audio device.
func testBridge(music, fx float64) *Bridge {
	b := New(nil, music, fx)
	b.enabled = true
	return b
}

func TestBridgeThrustLoop(t *testing.T) {
	b := testBridge(0.5, 0.8)
	idle := lander.Snapshot{Attempt: 1}
	burn := idle
	burn.State.Thrusting = true

	if !b.thrust.Paused {
		t.Fatal("thrust should start paused")
	}
	b.Observe(idle, burn)
	if b.thrust.Paused {
		t.Error("thrust should play while thrusting")
	}
	b.Observe(burn, idle)
	if !b.thrust.Paused {
		t.Error("thrust should stop with the engine")
	}
}

func TestBridgeCrashDucksMusic(t *testing.T) {
	b := testBridge(0.5, 0.8)
	flying := lander.Snapshot{Attempt: 1}
	crashed := flying
	crashed.Outcome = lander.Outcome{Status: lander.StatusCrashed, Reason: lander.ReasonOffPad}

	before := b.mixer.Len()
	full := b.musicVol.Volume
	b.Observe(flying, crashed)

	if b.mixer.Len() != before+1 {
		t.Errorf("crash should add a sound, mixer has %d streamers (was %d)", b.mixer.Len(), before)
	}
	if b.musicVol.Volume >= full {
		t.Errorf("music should be ducked: %v >= %v", b.musicVol.Volume, full)
	}

	b.Observe(crashed, lander.Snapshot{Attempt: 2})
	if b.musicVol.Volume != full {
		t.Errorf("music should be restored on reset: %v, expected %v", b.musicVol.Volume, full)
	}
}

func TestBridgeLandingChime(t *testing.T) {
	b := testBridge(0.5, 0.8)
	flying := lander.Snapshot{Attempt: 1}
	landed := flying
	landed.Outcome = lander.Outcome{Status: lander.StatusLanded}

	before := b.mixer.Len()
	b.Observe(flying, landed)
	if b.mixer.Len() != before+1 {
		t.Errorf("landing should add the chime")
	}
}

func TestBridgeVolumes(t *testing.T) {
	b := testBridge(0.5, 0.8)

	b.SetVolumes(-1, 2)
	music, fx := b.Volumes()
	if music != 0 || fx != 1 {
		t.Errorf("Volumes() = %v, %v, expected clamped 0, 1", music, fx)
	}
	if !b.music.Paused || !b.musicVol.Silent {
		t.Error("zero music volume should pause and silence the loop")
	}

	b.SetVolumes(0.25, 0)
	if b.music.Paused || b.musicVol.Volume != -2 {
		t.Errorf("music at 0.25 should play at 2^-2, got %v", b.musicVol.Volume)
	}

	before := b.mixer.Len()
	flying := lander.Snapshot{Attempt: 1}
	landed := flying
	landed.Outcome = lander.Outcome{Status: lander.StatusLanded}
	b.Observe(flying, landed)
	if b.mixer.Len() != before {
		t.Error("muted effects should not queue sounds")
	}
}

func TestDisabledBridgeIsSilent(t *testing.T) {
	b := New(nil, 0.5, 0.5)
	flying := lander.Snapshot{Attempt: 1}
	burn := flying
	burn.State.Thrusting = true

	b.Observe(flying, burn)
	if !b.thrust.Paused || b.Enabled() {
		t.Error("a bridge without a device should ignore events")
	}

	var nilBridge *Bridge
	nilBridge.Observe(flying, burn)
	nilBridge.SetVolumes(1, 1)
	nilBridge.Close()
}
