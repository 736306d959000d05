package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/tomz197/vectordrift/internal/sim"
)

// wave is an oscillator shape.
type wave int

const (
	waveSine wave = iota
	waveSquare
	waveSaw
	waveNoise
)

// recipe describes one synthesised effect: a frequency sweep shaped by a
// linear attack/release envelope.
type recipe struct {
	wave     wave
	from, to float64 // Hz
	duration time.Duration
	attack   time.Duration
	release  time.Duration
	gain     float64
	harmonic float64 // optional second partial, Hz; 0 for none
}

var recipes = map[sim.Sound]recipe{
	sim.SoundShoot:   {wave: waveSquare, from: 880, to: 440, duration: 70 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.25},
	sim.SoundExplode: {wave: waveNoise, duration: 280 * time.Millisecond, attack: 2 * time.Millisecond, release: 240 * time.Millisecond, gain: 0.5},
	sim.SoundHit:     {wave: waveSaw, from: 160, to: 70, duration: 180 * time.Millisecond, attack: 2 * time.Millisecond, release: 120 * time.Millisecond, gain: 0.45},
	sim.SoundShield:  {wave: waveSine, from: 1200, to: 1500, duration: 120 * time.Millisecond, attack: 5 * time.Millisecond, release: 80 * time.Millisecond, gain: 0.3, harmonic: 2400},
	sim.SoundSlam:    {wave: waveSine, from: 120, to: 40, duration: 250 * time.Millisecond, attack: 2 * time.Millisecond, release: 200 * time.Millisecond, gain: 0.7},
	sim.SoundPickup:  {wave: waveSine, from: 1320, to: 1760, duration: 60 * time.Millisecond, attack: 2 * time.Millisecond, release: 40 * time.Millisecond, gain: 0.2},
	sim.SoundPowerUp: {wave: waveSquare, from: 440, to: 1320, duration: 300 * time.Millisecond, attack: 10 * time.Millisecond, release: 120 * time.Millisecond, gain: 0.25},
	sim.SoundZone:    {wave: waveSine, from: 660, to: 660, duration: 400 * time.Millisecond, attack: 20 * time.Millisecond, release: 250 * time.Millisecond, gain: 0.3, harmonic: 990},
	sim.SoundDeath:   {wave: waveSaw, from: 440, to: 55, duration: 900 * time.Millisecond, attack: 5 * time.Millisecond, release: 600 * time.Millisecond, gain: 0.5},
}

// Synth returns a finite streamer for s, or nil for an unknown trigger.
func Synth(s sim.Sound, rate beep.SampleRate) beep.Streamer {
	r, ok := recipes[s]
	if !ok {
		return nil
	}
	n := rate.N(r.duration)
	env := envelope{total: n, attack: rate.N(r.attack), release: rate.N(r.release)}
	main := &tone{wave: r.wave, from: r.from, to: r.to, total: n, rate: float64(rate), env: env}
	if r.harmonic == 0 {
		return newVolume(main, r.gain)
	}
	over := &tone{wave: waveSine, from: r.harmonic, to: r.harmonic, total: n, rate: float64(rate), env: env}
	return newVolume(beep.Mix(newVolume(main, 0.7), newVolume(over, 0.3)), r.gain)
}

// envelope is a linear attack/release gain curve over total samples.
type envelope struct {
	total, attack, release int
}

func (e envelope) at(pos int) float64 {
	switch {
	case pos < e.attack:
		return float64(pos) / float64(e.attack)
	case pos >= e.total-e.release && e.release > 0:
		return math.Max(float64(e.total-pos)/float64(e.release), 0)
	default:
		return 1
	}
}

// tone is an oscillator sweeping linearly from one frequency to another.
type tone struct {
	wave     wave
	from, to float64
	phase    float64
	pos      int
	total    int
	rate     float64
	env      envelope
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}

		var v float64
		switch t.wave {
		case waveSine:
			v = math.Sin(2 * math.Pi * t.phase)
		case waveSquare:
			v = 1
			if t.phase >= 0.5 {
				v = -1
			}
		case waveSaw:
			v = 2 * (t.phase - 0.5)
		case waveNoise:
			v = rand.Float64()*2 - 1
		}
		v *= t.env.at(t.pos)

		samples[i][0] = v
		samples[i][1] = v

		freq := t.from + (t.to-t.from)*float64(t.pos)/float64(t.total)
		t.phase += freq / t.rate
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// newVolume scales s linearly. effects.Volume works in powers of Base, so a
// zero gain becomes silence rather than log2(0).
func newVolume(s beep.Streamer, gain float64) *effects.Volume {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}
