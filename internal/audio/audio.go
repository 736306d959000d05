// Package audio plays the simulation's sound triggers through the local
// speaker. Every effect is synthesised, so the binary ships no sound files.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/tomz197/vectordrift/internal/sim"
)

const sampleRate = beep.SampleRate(44100)

// Player consumes sound triggers. Implementations must not block the game loop.
type Player interface {
	Play(s sim.Sound)
	Pause()
	Resume()
	// ToggleMute flips muting and returns true when now muted.
	ToggleMute() bool
	Close()
}

// Nop discards every trigger. Used for remote sessions and when audio is off.
type Nop struct{}

func (Nop) Play(sim.Sound) {}
func (Nop) Pause()         {}
func (Nop) Resume()        {}
func (Nop) Close()         {}

// ToggleMute always reports muted.
func (Nop) ToggleMute() bool { return true }

// BeepPlayer mixes effects onto the default audio device.
type BeepPlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	initialized bool
	muted       bool
}

var _ Player = (*BeepPlayer)(nil)

// NewBeepPlayer creates a player at the given master volume (0..1).
// Init must be called before anything is heard.
func NewBeepPlayer(master float64) *BeepPlayer {
	mixer := &beep.Mixer{}
	ctrl := &beep.Ctrl{Streamer: mixer}
	return &BeepPlayer{
		mixer:  mixer,
		ctrl:   ctrl,
		volume: newVolume(ctrl, master),
	}
}

// Init opens the audio device.
func (p *BeepPlayer) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.volume)
	p.initialized = true
	return nil
}

// Play starts the effect for s on top of whatever is already playing.
func (p *BeepPlayer) Play(s sim.Sound) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	st := Synth(s, sampleRate)
	if st == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(st)
	speaker.Unlock()
}

// Pause silences output without dropping queued effects.
func (p *BeepPlayer) Pause() { p.setPaused(true) }

// Resume continues after Pause.
func (p *BeepPlayer) Resume() { p.setPaused(false) }

func (p *BeepPlayer) setPaused(paused bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
}

// ToggleMute flips muting and returns the new state. Muting drops new
// triggers; effects already playing finish.
func (p *BeepPlayer) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	return p.muted
}

// Close stops all sound and releases the device.
func (p *BeepPlayer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
