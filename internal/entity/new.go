package entity

import (
	"math"
	"math/rand"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/physics"
)

func newEntity(kind Kind, x, y, radius float64) *Entity {
	return &Entity{
		Kind:   kind,
		X:      x,
		Y:      y,
		PrevX:  x,
		PrevY:  y,
		Radius: radius,
		Alive:  true,
	}
}

func (e *Entity) setHP(hp, score int) {
	e.HP = hp
	e.MaxHP = hp
	e.ScoreValue = score
}

// NewBurst creates a player projectile travelling straight down.
func NewBurst(cfg *config.Config, x, y float64) *Entity {
	e := newEntity(KindBurst, x, y, cfg.BurstRadius)
	e.VY = cfg.FlightFireSpeed
	e.Damage = cfg.BurstDamage
	e.Life = Life{Lifetime: cfg.BurstLifetimeMs}
	return e
}

// NewBlocker creates a data blocker drifting in a random horizontal direction.
// speed scales the horizontal drift, scroll the sink rate.
func NewBlocker(cfg *config.Config, rng *rand.Rand, x, y, speed, scroll float64) *Entity {
	e := newEntity(KindBlocker, x, y, cfg.BlockerRadius)
	e.setHP(cfg.BlockerHP, cfg.BlockerScore)
	e.Drift = Drift{Dir: physics.RandomSign(rng), Speed: cfg.BlockerSpeed * speed}
	e.VY = (cfg.BlockerDriftVY + physics.RandomBetween(rng, -5, 5)) * scroll
	return e
}

// NewChaser creates a ground-bound chaser bot at x.
func NewChaser(cfg *config.Config, x, speed float64) *Entity {
	e := newEntity(KindChaser, x, cfg.GroundY, cfg.ChaserRadius)
	e.setHP(cfg.ChaserHP, cfg.ChaserScore)
	e.ChaseSpeed = cfg.ChaserSpeed * speed
	return e
}

// NewFlare creates a gravity flare sinking slowly through the flight band.
func NewFlare(cfg *config.Config, rng *rand.Rand, x, y, scroll float64) *Entity {
	e := newEntity(KindFlare, x, y, cfg.FlareRadius)
	e.setHP(cfg.FlareHP, cfg.FlareScore)
	e.Pull = Pull{
		Radius:   cfg.FlarePullRadius,
		Strength: cfg.FlarePullStrength,
		Phase:    rng.Float64() * 2 * math.Pi,
	}
	e.VY = (cfg.FlareDriftVY + physics.RandomBetween(rng, -4, 4)) * scroll
	return e
}

// NewShieldDrone creates a drone orbiting host at the given starting angle.
func NewShieldDrone(cfg *config.Config, host *Entity, angle, speed float64) *Entity {
	e := newEntity(KindShieldDrone, host.X, host.Y, cfg.ShieldDroneRadius)
	e.setHP(cfg.ShieldDroneHP, cfg.ShieldDroneScore)
	e.Orbit = Orbit{
		Host:   host,
		Angle:  angle,
		Radius: cfg.ShieldDroneOrbitRadius,
		Speed:  cfg.ShieldDroneOrbitSpeed * speed,
	}
	e.X = host.X + math.Cos(angle)*e.Orbit.Radius
	e.Y = host.Y + math.Sin(angle)*e.Orbit.Radius
	e.PrevX, e.PrevY = e.X, e.Y
	return e
}

func newLaserAnchor(cfg *config.Config, x, y, scroll float64) *Entity {
	e := newEntity(KindLaserAnchor, x, y, cfg.LaserAnchorRadius)
	e.setHP(cfg.LaserAnchorHP, cfg.LaserAnchorScore)
	e.VY = cfg.LaserDriftVY * scroll
	return e
}

// NewXPOrb creates an experience orb dropped at a kill site.
func NewXPOrb(cfg *config.Config, x, y float64) *Entity {
	e := newEntity(KindXPOrb, x, y, cfg.XPOrbRadius)
	e.Value = cfg.XPOrbValue
	e.Life = Life{Lifetime: cfg.XPOrbLifetimeMs}
	return e
}

// NewPowerUp creates a power-up of the given type.
func NewPowerUp(cfg *config.Config, x, y float64, power PowerUpType) *Entity {
	e := newEntity(KindPowerUp, x, y, cfg.PowerUpRadius)
	e.Power = power
	e.VY = cfg.PowerUpFallVY
	e.Life = Life{Lifetime: cfg.PowerUpLifetimeMs}
	return e
}

// RandomPowerUp picks one of the power-up types uniformly.
func RandomPowerUp(rng *rand.Rand) PowerUpType {
	return PowerUpType(rng.Intn(int(powerUpTypeCount)))
}
