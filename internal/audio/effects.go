package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves
type oscillator struct {
	freq     float64
	sweep    float64 // Frequency change per second
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates an oscillator of fixed frequency. A non-positive
// duration streams forever.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return NewSweep(freq, 0, duration, wave, rate)
}

// NewSweep creates an oscillator whose frequency changes linearly by sweep Hz per second.
func NewSweep(freq, sweep float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		sweep:    sweep,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		freq := o.freq + o.sweep*float64(o.position)/float64(o.rate)
		o.phase += math.Max(freq, 0) / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope creates an attack/sustain/release envelope over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// gain returns the exponent of an effects.Volume with base 2 for a linear gain.
func gain(vol float64) (float64, bool) {
	if vol <= 0 {
		return 0, true
	}
	return math.Log2(vol), false
}

// newVolume wraps s in a linear volume; math.Log2(0) is -Inf, so zero is silent
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v, silent := gain(vol)
	return &effects.Volume{Streamer: s, Base: 2, Volume: v, Silent: silent}
}

// Sound builders

// thrustRumble is the endless engine noise: low filtered noise over a
// 55 Hz drone.
func thrustRumble(rate beep.SampleRate) beep.Streamer {
	noise := NewOscillator(0, 0, WaveNoise, rate)
	drone := NewOscillator(55, 0, WaveSaw, rate)
	return beep.Mix(
		newVolume(&lowPass{Streamer: noise, alpha: 0.05}, 0.6),
		newVolume(drone, 0.25),
	)
}

// crashSound is a short noise burst with a falling tone under it.
func crashSound(rate beep.SampleRate) beep.Streamer {
	const d = 900 * time.Millisecond
	noise := NewEnvelope(NewOscillator(0, d, WaveNoise, rate), d, 5*time.Millisecond, 800*time.Millisecond, rate)
	fall := NewEnvelope(NewSweep(180, -150, d, WaveSquare, rate), d, 5*time.Millisecond, 700*time.Millisecond, rate)
	return beep.Take(rate.N(d), beep.Mix(newVolume(noise, 0.7), newVolume(fall, 0.25)))
}

// landingChime is a rising major arpeggio.
func landingChime(rate beep.SampleRate) beep.Streamer {
	notes := []float64{523.25, 659.25, 783.99, 1046.50} // C5 E5 G5 C6
	parts := make([]beep.Streamer, 0, len(notes))
	for i, f := range notes {
		d := 140 * time.Millisecond
		if i == len(notes)-1 {
			d = 500 * time.Millisecond
		}
		parts = append(parts, NewEnvelope(NewOscillator(f, d, WaveSine, rate), d, 10*time.Millisecond, d/2, rate))
	}
	return newVolume(beep.Seq(parts...), 0.5)
}

// MusicGenerator plays a slow four-note bass line with a soft fifth above
// it. The pattern repeats forever.
type MusicGenerator struct {
	sr   beep.SampleRate
	pos  int
	note int // samples per note
}

var musicNotes = [...]float64{55, 65.41, 49, 61.74} // A1 C2 G1 B1

// NewMusicGenerator creates the music loop.
func NewMusicGenerator(sr beep.SampleRate) *MusicGenerator {
	return &MusicGenerator{sr: sr, note: sr.N(1200 * time.Millisecond)}
}

func (g *MusicGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		idx := (g.pos / g.note) % len(musicNotes)
		notePos := g.pos % g.note
		t := float64(notePos) / float64(g.sr)
		freq := musicNotes[idx]

		// Swell in over the first sixth, fade over the last third
		env := 1.0
		if rise := g.note / 6; notePos < rise {
			env = float64(notePos) / float64(rise)
		} else if fall := g.note / 3; notePos > g.note-fall {
			env = float64(g.note-notePos) / float64(fall)
		}

		sample := env * (0.2*math.Sin(2*math.Pi*freq*t) + 0.05*math.Sin(2*math.Pi*freq*1.5*t))

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *MusicGenerator) Err() error {
	return nil
}

// lowPass is a one-pole low-pass filter.
type lowPass struct {
	Streamer beep.Streamer
	alpha    float64
	prev     [2]float64
}

func (f *lowPass) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		for c := 0; c < 2; c++ {
			f.prev[c] += f.alpha * (samples[i][c] - f.prev[c])
			samples[i][c] = f.prev[c]
		}
	}
	return n, ok
}

func (f *lowPass) Err() error { return f.Streamer.Err() }
