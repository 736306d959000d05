package render

import (
	"math"
	"math/rand"
	"slices"
	"sync"

	"github.com/tomz197/vectordrift/internal/collision"
	"github.com/tomz197/vectordrift/internal/player"
	"github.com/tomz197/vectordrift/internal/sim"
)

// maxParticles bounds the debris alive at once.
const maxParticles = 512

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived speck of debris in world coordinates.
type Particle struct {
	X, Y        float64
	VX, VY      float64
	Lifetime    float64 // seconds remaining
	MaxLifetime float64
	Drag        float64 // velocity kept per 1/60 s (1.0 = no drag)
}

// Effects holds the debris spawned from simulation events. It only feeds
// the renderer; the simulation never reads it.
type Effects struct {
	rng       *rand.Rand
	particles []*Particle
}

// NewEffects creates an empty effect set drawing randomness from rng.
func NewEffects(rng *rand.Rand) *Effects {
	return &Effects{rng: rng}
}

// Len reports the live particle count.
func (fx *Effects) Len() int { return len(fx.particles) }

func (fx *Effects) spawn(x, y, vx, vy, lifetime, drag float64) {
	if len(fx.particles) >= maxParticles {
		return
	}
	p := particlePool.Get().(*Particle)
	*p = Particle{X: x, Y: y, VX: vx, VY: vy, Lifetime: lifetime, MaxLifetime: lifetime, Drag: drag}
	fx.particles = append(fx.particles, p)
}

// Explode throws count particles out of (x, y) in a circular burst.
func (fx *Effects) Explode(x, y float64, count int, speed, lifetime float64) {
	for range count {
		angle := fx.rng.Float64() * 2 * math.Pi
		// 50% to 150% speed, 50% to 100% lifetime
		spd := speed * (0.5 + fx.rng.Float64())
		life := lifetime * (0.5 + fx.rng.Float64()*0.5)
		fx.spawn(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life, 0.95)
	}
}

// Dust kicks debris sideways and up from a landing at (x, y).
func (fx *Effects) Dust(x, y, radius float64) {
	n := 6 + int(radius/8)
	for i := range n {
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		vx := dir * radius * (1.5 + fx.rng.Float64()*1.5)
		vy := -radius * fx.rng.Float64() * 0.8
		fx.spawn(x, y, vx, vy, 0.25+fx.rng.Float64()*0.2, 0.85)
	}
}

// Apply spawns the debris for one simulation step.
func (fx *Effects) Apply(t *sim.Tick) {
	for i := range t.Collisions {
		ev := &t.Collisions[i]
		switch ev.Kind {
		case collision.EventEnemyKilled:
			fx.Explode(ev.Entity.X, ev.Entity.Y, 10, 90, 0.5)
		case collision.EventShieldBlocked:
			if ev.Burst != nil {
				fx.Explode(ev.Burst.X, ev.Burst.Y, 3, 60, 0.2)
			}
		case collision.EventEnemyHit:
			if ev.Burst != nil {
				fx.Explode(ev.Burst.X, ev.Burst.Y, 2, 40, 0.15)
			}
		}
	}
	for _, ev := range t.Player {
		if ev.Kind == player.EventSlam {
			fx.Dust(ev.X, ev.Y, ev.Radius)
		}
	}
}

// Update ages and moves every particle, dropping the expired ones.
func (fx *Effects) Update(dt float64) {
	if dt <= 0 {
		return
	}
	fx.particles = slices.DeleteFunc(fx.particles, func(p *Particle) bool {
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			particlePool.Put(p)
			return true
		}
		drag := math.Pow(p.Drag, dt*60)
		p.VX *= drag
		p.VY *= drag
		p.X += p.VX * dt
		p.Y += p.VY * dt
		return false
	})
}

// Reset drops every particle.
func (fx *Effects) Reset() {
	for _, p := range fx.particles {
		particlePool.Put(p)
	}
	clear(fx.particles)
	fx.particles = fx.particles[:0]
}

// drawEffects plots every particle that has not faded out.
func (r *Renderer) drawEffects(fx *Effects) {
	if fx == nil {
		return
	}
	for _, p := range fx.particles {
		// faded below a quarter of its life
		if p.Lifetime/p.MaxLifetime < 0.25 {
			continue
		}
		r.canvas.SetFloat(p.X, p.Y)
	}
}
