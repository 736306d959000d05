// Package player implements the flight/falling/impact state machine that
// drives the player avatar.
package player

import (
	"math"
	"math/rand"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/physics"
)

// Mode is the player's movement state.
type Mode int

const (
	ModeImpact Mode = iota
	ModeFlight
	ModeFalling
)

func (m Mode) String() string {
	switch m {
	case ModeImpact:
		return "impact"
	case ModeFlight:
		return "flight"
	case ModeFalling:
		return "falling"
	default:
		return "unknown"
	}
}

// Input is the per-tick control snapshot.
type Input struct {
	Holding      bool
	Horizontal   int // -1, 0 or 1
	JustPressed  bool
	JustReleased bool
}

// EventKind identifies a player event.
type EventKind int

const (
	EventModeChanged EventKind = iota
	EventSlam
)

// Event is something that happened to the player during one Update. Events
// are only valid for the tick that produced them.
type Event struct {
	Kind EventKind

	From, To Mode // EventModeChanged

	X, Y         float64 // EventSlam
	Radius       float64
	FallDistance float64
}

// Player is the avatar. Exactly one exists per run.
type Player struct {
	cfg *config.Config
	rng *rand.Rand

	X, Y         float64
	PrevX, PrevY float64
	Radius       float64
	Health       float64
	Mode         Mode
	FlightMeter  float64
	VX, VY       float64
	SlideVX      float64
	FallStartY   float64

	InvulnTimer   float64 // ms
	FireCooldown  float64 // ms
	SlamPlusTimer float64 // ms
	HitFlash      float64 // ms
	ShieldActive  bool

	events []Event
}

// New places a player at the centre of the arena, on the ground, in impact
// mode with full health and a full flight meter.
func New(cfg *config.Config, rng *rand.Rand) *Player {
	p := &Player{cfg: cfg, rng: rng}
	p.Reset()
	return p
}

// Reset restores the starting state.
func (p *Player) Reset() {
	*p = Player{
		cfg:         p.cfg,
		rng:         p.rng,
		X:           p.cfg.CenterX,
		Y:           p.cfg.GroundY,
		Radius:      p.cfg.PlayerRadius,
		Health:      p.cfg.PlayerMaxHealth,
		Mode:        ModeImpact,
		FlightMeter: p.cfg.FlightMeterMax,
		FallStartY:  p.cfg.GroundY,
		events:      p.events[:0],
	}
	p.PrevX, p.PrevY = p.X, p.Y
}

// SlamPlusActive reports whether the slam-plus power-up is running.
func (p *Player) SlamPlusActive() bool {
	return p.SlamPlusTimer > 0
}

// IsIntangible reports whether enemies and hazards pass through the player.
func (p *Player) IsIntangible() bool {
	return p.Mode == ModeFlight
}

// IsGrounded reports whether the player is on the ground in impact mode.
func (p *Player) IsGrounded() bool {
	return p.Mode == ModeImpact
}

// Update advances the state machine by dt seconds and returns the events
// of this tick. The returned slice is reused by the next call.
func (p *Player) Update(dt float64, in Input) []Event {
	cfg := p.cfg
	p.events = p.events[:0]
	p.PrevX, p.PrevY = p.X, p.Y

	ms := dt * 1000
	p.InvulnTimer = countdown(p.InvulnTimer, ms)
	p.FireCooldown = countdown(p.FireCooldown, ms)
	p.SlamPlusTimer = countdown(p.SlamPlusTimer, ms)
	p.HitFlash = countdown(p.HitFlash, ms)

	p.VX = float64(clampDir(in.Horizontal)) * cfg.PlayerHorizontalSpeed
	p.X = physics.Clamp(p.X+p.VX*dt, cfg.ArenaLeft, cfg.ArenaRight)

	switch p.Mode {
	case ModeFlight:
		p.Y = math.Max(p.Y-cfg.FlightRiseSpeed*dt, cfg.MinFlightY)
		p.FlightMeter -= cfg.FlightMeterDrain * dt
		if !in.Holding || p.FlightMeter <= 0 {
			p.FlightMeter = math.Max(p.FlightMeter, 0)
			p.FallStartY = p.Y
			p.VY = 0
			p.setMode(ModeFalling)
		}

	case ModeFalling:
		p.VY = math.Min(p.VY+cfg.ImpactFallAccel*dt, cfg.ImpactMaxFallSpeed)
		p.Y += p.VY * dt
		if p.Y >= cfg.GroundY {
			p.Y = cfg.GroundY
			p.slam(in)
		} else if p.canTakeOff(in) {
			p.VY = 0
			p.setMode(ModeFlight)
		}

	case ModeImpact:
		p.SlideVX *= cfg.ImpactSlideFriction
		p.X = physics.Clamp(p.X+p.SlideVX*dt, cfg.ArenaLeft, cfg.ArenaRight)
		p.Y = cfg.GroundY
		p.FlightMeter = math.Min(p.FlightMeter+cfg.FlightMeterRecharge*dt, cfg.FlightMeterMax)
		if p.canTakeOff(in) {
			p.SlideVX = 0
			p.setMode(ModeFlight)
		}
	}
	return p.events
}

func (p *Player) canTakeOff(in Input) bool {
	return in.Holding && p.FlightMeter > p.cfg.FlightReentryThreshold
}

func (p *Player) setMode(m Mode) {
	if p.Mode == m {
		return
	}
	p.events = append(p.events, Event{Kind: EventModeChanged, From: p.Mode, To: m})
	p.Mode = m
}

// slam lands the player and records the area-of-effect event. The radius
// grows with the height of the fall, up to double at the flight ceiling.
func (p *Player) slam(in Input) {
	cfg := p.cfg
	fall := math.Max(cfg.GroundY-p.FallStartY, 0)
	scale := 1 + fall/cfg.MaxFallDistance()
	radius := cfg.ImpactSlamRadius * scale
	if p.SlamPlusActive() {
		radius *= 2
	}

	dir := float64(clampDir(in.Horizontal))
	if dir == 0 {
		dir = physics.RandomSign(p.rng)
	}
	p.SlideVX = dir * cfg.ImpactSlideSpeed
	p.VY = 0

	p.setMode(ModeImpact)
	p.events = append(p.events, Event{
		Kind:         EventSlam,
		X:            p.X,
		Y:            p.Y,
		Radius:       radius,
		FallDistance: fall,
	})
}

// CanFire reports whether an auto-fire burst is ready.
func (p *Player) CanFire() bool {
	return p.Mode == ModeFlight && p.FireCooldown <= 0
}

// Fire resets the cooldown and returns a burst at the player's position,
// or nil when firing is not possible.
func (p *Player) Fire() *entity.Entity {
	if !p.CanFire() {
		return nil
	}
	p.FireCooldown = p.cfg.FlightFireCooldownMs
	return entity.NewBurst(p.cfg, p.X, p.Y)
}

// Hit applies damage. It returns true only when health was actually lost:
// invulnerability ignores the hit and an active shield absorbs it.
func (p *Player) Hit(damage float64) bool {
	if p.InvulnTimer > 0 {
		return false
	}
	if p.ShieldActive {
		p.ShieldActive = false
		p.InvulnTimer = p.cfg.ShieldInvulnMs
		return false
	}
	p.Health = math.Max(p.Health-damage, 0)
	p.InvulnTimer = p.cfg.PlayerInvulnMs
	p.HitFlash = p.cfg.HitFlashMs
	return true
}

// ApplyPull drags an airborne player down by dy, never below the ground.
func (p *Player) ApplyPull(dy float64) {
	if p.Mode == ModeImpact || dy <= 0 {
		return
	}
	p.Y = math.Min(p.Y+dy, p.cfg.GroundY)
}

// Recharge refills the flight meter.
func (p *Player) Recharge() {
	p.FlightMeter = p.cfg.FlightMeterMax
}

// GrantShield arms a one-hit shield.
func (p *Player) GrantShield() {
	p.ShieldActive = true
}

// GrantSlamPlus doubles slam radius for a while.
func (p *Player) GrantSlamPlus() {
	p.SlamPlusTimer = p.cfg.SlamPlusDurationMs
}

// Dead reports whether health has run out.
func (p *Player) Dead() bool {
	return p.Health <= 0
}

func countdown(v, ms float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Max(v-ms, 0)
}

func clampDir(h int) int {
	switch {
	case h < 0:
		return -1
	case h > 0:
		return 1
	}
	return 0
}
