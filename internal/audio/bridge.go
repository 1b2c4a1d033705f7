// Package audio turns simulation transitions into sound: an engine rumble
// while thrusting, a noise burst on crashes, a chime on landings and a
// music loop underneath.
package audio

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/lunar-lander/internal/lander"
)

const (
	sampleRate = beep.SampleRate(44100)
	// duckLevel is the music level, relative to its setting, after a crash.
	duckLevel = 0.3
)

// Event is a sound-worthy change between two snapshots.
type Event int

const (
	EventThrustOn Event = iota
	EventThrustOff
	EventLanded
	EventCrashed
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventThrustOn:
		return "thrust-on"
	case EventThrustOff:
		return "thrust-off"
	case EventLanded:
		return "landed"
	case EventCrashed:
		return "crashed"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// Diff lists the events between prev and cur in the order they should play.
func Diff(prev, cur lander.Snapshot) []Event {
	var events []Event

	if cur.Attempt != prev.Attempt {
		events = append(events, EventReset)
		if prev.Thrust() && !cur.Thrust() {
			events = append(events, EventThrustOff)
		}
		if cur.Thrust() {
			events = append(events, EventThrustOn)
		}
		return events
	}

	switch {
	case !prev.Thrust() && cur.Thrust():
		events = append(events, EventThrustOn)
	case prev.Thrust() && !cur.Thrust():
		events = append(events, EventThrustOff)
	}

	if prev.Outcome.Status == lander.StatusFlying {
		switch cur.Outcome.Status {
		case lander.StatusLanded:
			events = append(events, EventLanded)
		case lander.StatusCrashed:
			events = append(events, EventCrashed)
		}
	}
	return events
}

// Bridge plays sounds for snapshot transitions. The zero-config Bridge from
// New is silent until Start succeeds; all methods are safe on a nil Bridge.
type Bridge struct {
	mu      sync.Mutex
	logger  *log.Logger
	mixer   *beep.Mixer
	device  bool // speaker initialized
	enabled bool

	musicLevel   float64
	effectsLevel float64
	ducked       bool

	music     *beep.Ctrl
	musicVol  *effects.Volume
	thrust    *beep.Ctrl
	thrustVol *effects.Volume
}

// New creates a bridge with the given volumes in [0, 1].
func New(logger *log.Logger, music, effectsLevel float64) *Bridge {
	if logger == nil {
		logger = log.Default()
	}
	b := &Bridge{
		logger:       logger,
		mixer:        &beep.Mixer{},
		musicLevel:   clamp01(music),
		effectsLevel: clamp01(effectsLevel),
	}

	b.musicVol = newVolume(NewMusicGenerator(sampleRate), b.musicLevel)
	b.music = &beep.Ctrl{Streamer: b.musicVol, Paused: b.musicLevel <= 0}
	b.thrustVol = newVolume(thrustRumble(sampleRate), b.effectsLevel)
	b.thrust = &beep.Ctrl{Streamer: b.thrustVol, Paused: true}
	b.mixer.Add(b.music, b.thrust)
	return b
}

// Start opens the audio device. On failure the bridge stays silent and the
// error is logged and returned; the game carries on without sound.
func (b *Bridge) Start() error {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.device {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		b.logger.Warn("audio disabled", "err", err)
		return err
	}
	b.device = true
	b.enabled = true
	speaker.Play(b.mixer)
	b.logger.Debug("audio started", "rate", int(sampleRate))
	return nil
}

// Enabled reports whether sounds are being produced.
func (b *Bridge) Enabled() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}

// SetVolumes changes both levels; values are clamped to [0, 1].
func (b *Bridge) SetVolumes(music, effectsLevel float64) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.musicLevel = clamp01(music)
	b.effectsLevel = clamp01(effectsLevel)
	b.locked(func() {
		b.applyMusic()
		setGain(b.thrustVol, b.effectsLevel)
	})
}

// Volumes returns the current levels.
func (b *Bridge) Volumes() (music, effectsLevel float64) {
	if b == nil {
		return 0, 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.musicLevel, b.effectsLevel
}

// Observe plays whatever changed between prev and cur.
func (b *Bridge) Observe(prev, cur lander.Snapshot) {
	if b == nil {
		return
	}
	events := Diff(prev, cur)
	if len(events) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.enabled {
		return
	}
	b.locked(func() {
		for _, e := range events {
			b.play(e)
		}
	})
}

// Close stops all sound and releases the device.
func (b *Bridge) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.device {
		return
	}
	speaker.Clear()
	speaker.Close()
	b.device = false
	b.enabled = false
}

// play must run with the speaker locked.
func (b *Bridge) play(e Event) {
	switch e {
	case EventThrustOn:
		b.thrust.Paused = false
	case EventThrustOff:
		b.thrust.Paused = true
	case EventLanded:
		b.oneShot(landingChime(sampleRate), 1100*time.Millisecond)
	case EventCrashed:
		b.thrust.Paused = true
		b.oneShot(crashSound(sampleRate), 900*time.Millisecond)
		b.ducked = true
		b.applyMusic()
	case EventReset:
		b.ducked = false
		b.applyMusic()
	}
}

func (b *Bridge) oneShot(s beep.Streamer, d time.Duration) {
	if b.effectsLevel <= 0 {
		return
	}
	b.mixer.Add(newVolume(beep.Take(sampleRate.N(d), s), b.effectsLevel))
}

func (b *Bridge) applyMusic() {
	level := b.musicLevel
	if b.ducked {
		level *= duckLevel
	}
	setGain(b.musicVol, level)
	b.music.Paused = b.musicLevel <= 0
}

// locked runs fn while holding the speaker lock if the device is open.
func (b *Bridge) locked(fn func()) {
	if b.device {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

func setGain(v *effects.Volume, level float64) {
	v.Volume, v.Silent = gain(level)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
