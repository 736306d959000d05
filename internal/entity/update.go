package entity

import (
	"math"
	"math/rand"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/physics"
)

const (
	droneErraticInterval = 0.5 // seconds between roaming direction changes
	flarePulseRate       = 3.0
	powerUpBobRate       = 3.0
	powerUpBobAmplitude  = 0.3
)

// Target is the part of the player that entity motion reacts to.
type Target struct {
	X, Y     float64
	Grounded bool
}

// UpdateContext carries everything entity motion needs for one tick.
type UpdateContext struct {
	Delta  float64 // seconds
	Target Target
	Config *config.Config
	Rand   *rand.Rand
}

// Update advances one entity by a tick. Dead entities are left untouched.
func Update(e *Entity, ctx UpdateContext) {
	if !e.Alive {
		return
	}
	e.PrevX, e.PrevY = e.X, e.Y
	if e.HitFlash > 0 {
		e.HitFlash = math.Max(0, e.HitFlash-ctx.Delta*1000)
	}

	switch e.Kind {
	case KindBurst:
		updateBurst(e, ctx)
	case KindBlocker:
		updateBlocker(e, ctx)
	case KindChaser:
		updateChaser(e, ctx)
	case KindFlare:
		updateFlare(e, ctx)
	case KindShieldDrone:
		updateDrone(e, ctx)
	case KindLaserAnchor:
		e.Y += e.VY * ctx.Delta
		killBelowGround(e, ctx.Config)
	case KindXPOrb:
		updateOrb(e, ctx)
	case KindPowerUp:
		updatePowerUp(e, ctx)
	}
}

func killBelowGround(e *Entity, cfg *config.Config) {
	if e.Y > cfg.GroundY+cfg.OffscreenMargin {
		e.Kill()
	}
}

func age(e *Entity, dt float64) bool {
	e.Life.Age += dt * 1000
	if e.Life.Expired() {
		e.Kill()
		return false
	}
	return true
}

func updateBurst(e *Entity, ctx UpdateContext) {
	if !age(e, ctx.Delta) {
		return
	}
	e.X += e.VX * ctx.Delta
	e.Y += e.VY * ctx.Delta
	killBelowGround(e, ctx.Config)
}

func updateBlocker(e *Entity, ctx UpdateContext) {
	cfg := ctx.Config
	e.X += e.Drift.Dir * e.Drift.Speed * ctx.Delta
	if e.X <= cfg.ArenaLeft {
		e.X = cfg.ArenaLeft
		e.Drift.Dir = 1
	} else if e.X >= cfg.ArenaRight {
		e.X = cfg.ArenaRight
		e.Drift.Dir = -1
	}
	e.Y += e.VY * ctx.Delta
	killBelowGround(e, cfg)
}

func updateChaser(e *Entity, ctx UpdateContext) {
	e.Y = ctx.Config.GroundY
	if !ctx.Target.Grounded {
		return
	}
	dx := ctx.Target.X - e.X
	step := e.ChaseSpeed * ctx.Delta
	if math.Abs(dx) <= step {
		e.X = ctx.Target.X
		return
	}
	if dx > 0 {
		e.X += step
	} else {
		e.X -= step
	}
}

func updateFlare(e *Entity, ctx UpdateContext) {
	e.Pull.Phase += ctx.Delta * flarePulseRate
	e.Y += e.VY * ctx.Delta
	killBelowGround(e, ctx.Config)
}

func updateDrone(e *Entity, ctx UpdateContext) {
	o := &e.Orbit
	if !o.Roaming && o.Host != nil && o.Host.Alive {
		o.Angle += o.Speed * ctx.Delta
		e.X = o.Host.X + math.Cos(o.Angle)*o.Radius
		e.Y = o.Host.Y + math.Sin(o.Angle)*o.Radius
		return
	}
	if !o.Roaming {
		o.Roaming = true
		o.Host = nil
		o.erraticTimer = droneErraticInterval
	}

	o.erraticTimer += ctx.Delta
	if o.erraticTimer >= droneErraticInterval {
		o.erraticTimer = 0
		o.ErraticX = physics.RandomBetween(ctx.Rand, -1, 1)
		o.ErraticY = physics.RandomBetween(ctx.Rand, -1, 1)
	}
	speed := ctx.Config.ShieldDroneSpeed
	e.X += o.ErraticX * speed * ctx.Delta
	e.Y += o.ErraticY * speed * ctx.Delta

	cfg := ctx.Config
	m := cfg.OffscreenMargin
	if e.X < -m || e.X > cfg.Width+m || e.Y < -m || e.Y > cfg.Height+m {
		e.Kill()
	}
}

func updateOrb(e *Entity, ctx UpdateContext) {
	if !age(e, ctx.Delta) {
		return
	}
	cfg := ctx.Config
	t := ctx.Target
	r := cfg.ImpactXPMagnetRadius
	if !t.Grounded || !physics.PointInCircle(e.X, e.Y, t.X, t.Y, r) {
		e.Magnetized = false
		return
	}
	e.Magnetized = true
	d := physics.Distance(e.X, e.Y, t.X, t.Y)
	if d <= 1 {
		return
	}
	step := math.Min(cfg.XPOrbMagnetSpeed*ctx.Delta, d)
	e.X += (t.X - e.X) / d * step
	e.Y += (t.Y - e.Y) / d * step
}

func updatePowerUp(e *Entity, ctx UpdateContext) {
	if !age(e, ctx.Delta) {
		return
	}
	e.BobPhase += ctx.Delta * powerUpBobRate
	e.Y += e.VY*ctx.Delta + math.Sin(e.BobPhase)*powerUpBobAmplitude
	killBelowGround(e, ctx.Config)
}

// PullOffset returns how far flare f drags a point at (x, y) downward this
// tick. The pull fades linearly to zero at the edge of its radius and is zero
// at the flare's exact centre.
func PullOffset(f *Entity, x, y, dt float64) float64 {
	if f.Kind != KindFlare || !f.Alive {
		return 0
	}
	d2 := physics.DistanceSquared(f.X, f.Y, x, y)
	r := f.Pull.Radius
	if d2 == 0 || d2 >= r*r {
		return 0
	}
	return f.Pull.Strength * (1 - math.Sqrt(d2)/r) * dt
}
