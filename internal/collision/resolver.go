// Package collision resolves every interaction of one tick after all
// entities have moved. It mutates hit points and alive flags and reports
// what happened as events; scoring is left to the caller.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/physics"
	"github.com/tomz197/vectordrift/internal/player"
)

// EventKind identifies a resolution outcome.
type EventKind int

const (
	EventEnemyHit EventKind = iota
	EventEnemyKilled
	EventShieldBlocked
	EventSlam
	EventPlayerHit
	EventXPCollected
	EventPowerUpCollected
)

func (k EventKind) String() string {
	switch k {
	case EventEnemyHit:
		return "enemyHit"
	case EventEnemyKilled:
		return "enemyKilled"
	case EventShieldBlocked:
		return "shieldBlocked"
	case EventSlam:
		return "slam"
	case EventPlayerHit:
		return "playerHit"
	case EventXPCollected:
		return "xpCollected"
	case EventPowerUpCollected:
		return "powerUpCollected"
	default:
		return "unknown"
	}
}

// Cause is what damaged an enemy.
type Cause int

const (
	CauseBurst Cause = iota
	CauseSlam
)

// Event is one outcome of Resolve.
type Event struct {
	Kind EventKind

	// Entity is the enemy hit or killed, the shielded blocker, the enemy
	// that touched the player, or the collected pickup.
	Entity *entity.Entity
	// Burst is the projectile involved in a hit, kill or shield block.
	Burst *entity.Entity
	// Gate is set when a laser beam hit the player.
	Gate  *entity.LaserGate
	Cause Cause

	X, Y  float64 // slam centre
	Count int     // enemies caught by a slam

	Damage float64 // damage offered to the player
	Dealt  bool    // whether the player actually lost health
}

// Resolver runs the ordered collision passes.
type Resolver struct {
	cfg    *config.Config
	grid   *physics.SpatialGrid
	events []Event
}

// NewResolver validates cfg and returns a resolver for it.
func NewResolver(cfg *config.Config) (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("collision: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("collision: %w", err)
	}
	return &Resolver{cfg: cfg}, nil
}

// Resolve runs, in order: bursts against enemies, slam area damage, laser
// beams against the player, enemy contact against the player, then XP orb
// and power-up pickup. slams are the player's slam events for this tick.
// Entities killed by one pass are skipped by the later ones. The returned
// slice is reused by the next call.
func (r *Resolver) Resolve(p *player.Player, mgr *entity.Manager, slams []player.Event) []Event {
	r.events = r.events[:0]
	r.bursts(mgr)
	for _, s := range slams {
		if s.Kind == player.EventSlam {
			r.slam(s, mgr)
		}
	}
	r.lasers(p, mgr)
	r.contact(p, mgr)
	r.pickups(p, mgr)
	return r.events
}

func (r *Resolver) emit(e Event) {
	r.events = append(r.events, e)
}

func (r *Resolver) damage(enemy, burst *entity.Entity, dmg int, cause Cause) {
	kind := EventEnemyKilled
	if enemy.Hit(dmg, r.cfg.HitFlashMs) {
		kind = EventEnemyHit
	}
	r.emit(Event{Kind: kind, Entity: enemy, Burst: burst, Cause: cause})
}

// prepareGrid indexes enemies for the burst pass, growing the cells when
// the largest possible contact distance exceeds them.
func (r *Resolver) prepareGrid(bursts, enemies []*entity.Entity) {
	var maxBurst, maxEnemy float64
	for _, b := range bursts {
		maxBurst = math.Max(maxBurst, b.Radius)
	}
	for _, e := range enemies {
		maxEnemy = math.Max(maxEnemy, e.Radius)
	}
	reach := maxBurst + maxEnemy
	if r.grid == nil || r.grid.CellSize() < reach {
		r.grid = physics.NewSpatialGrid(r.cfg.Width, r.cfg.Height, math.Max(reach, 32))
	}
	r.grid.Clear()
	for i, e := range enemies {
		r.grid.Insert(e.X, e.Y, i)
	}
}

// bursts hits at most one enemy per burst: the first overlapping one in
// enemy order. A shielded blocker absorbs the burst without damage.
func (r *Resolver) bursts(mgr *entity.Manager) {
	if len(mgr.Bursts) == 0 {
		return
	}
	enemies := mgr.Enemies()
	if len(enemies) == 0 {
		return
	}
	r.prepareGrid(mgr.Bursts, enemies)

	for _, b := range mgr.Bursts {
		if !b.Alive {
			continue
		}
		first := -1
		r.grid.QueryAround(b.X, b.Y, func(i int) bool {
			e := enemies[i]
			if e.Alive && (first < 0 || i < first) &&
				physics.CirclesOverlap(b.X, b.Y, b.Radius, e.X, e.Y, e.Radius) {
				first = i
			}
			return false
		})
		if first < 0 {
			continue
		}

		target := enemies[first]
		b.Kill()
		if target.Shielded(mgr.Drones) {
			r.emit(Event{Kind: EventShieldBlocked, Entity: target, Burst: b, Cause: CauseBurst})
			continue
		}
		r.damage(target, b, b.Damage, CauseBurst)
	}
}

// slam damages every live enemy strictly inside the slam radius and then
// reports how many were caught, survivors included.
func (r *Resolver) slam(s player.Event, mgr *entity.Manager) {
	count := 0
	rr := s.Radius * s.Radius
	for _, e := range mgr.Enemies() {
		if !e.Alive || physics.DistanceSquared(s.X, s.Y, e.X, e.Y) >= rr {
			continue
		}
		count++
		r.damage(e, nil, r.cfg.ImpactSlamDamage, CauseSlam)
	}
	r.emit(Event{Kind: EventSlam, X: s.X, Y: s.Y, Count: count})
}

func vulnerable(p *player.Player) bool {
	return !p.IsIntangible() && p.InvulnTimer <= 0
}

// lasers hits a vulnerable player standing in an active beam. The beam
// reaches the player's radius past either anchor and a few pixels further
// vertically.
func (r *Resolver) lasers(p *player.Player, mgr *entity.Manager) {
	for _, g := range mgr.Gates {
		if !vulnerable(p) {
			return
		}
		if !g.BeamActive() {
			continue
		}
		x1, x2, y := g.Beam()
		if p.X >= x1-p.Radius && p.X <= x2+p.Radius &&
			math.Abs(p.Y-y) < p.Radius+r.cfg.LaserBeamTolerance {
			dealt := p.Hit(r.cfg.LaserDamage)
			r.emit(Event{Kind: EventPlayerHit, Gate: g, Damage: r.cfg.LaserDamage, Dealt: dealt})
		}
	}
}

// contact lets an enemy touching a vulnerable player hit it. The enemy is
// spent by the hit and dies regardless of its hit points.
func (r *Resolver) contact(p *player.Player, mgr *entity.Manager) {
	for _, e := range mgr.Enemies() {
		if !vulnerable(p) {
			return
		}
		if !e.Alive || !physics.CirclesOverlap(p.X, p.Y, p.Radius, e.X, e.Y, e.Radius) {
			continue
		}
		dealt := p.Hit(r.cfg.ContactDamage)
		e.Kill()
		r.emit(Event{Kind: EventPlayerHit, Entity: e, Damage: r.cfg.ContactDamage, Dealt: dealt})
	}
}

// pickups collects orbs and power-ups in every mode.
func (r *Resolver) pickups(p *player.Player, mgr *entity.Manager) {
	for _, o := range mgr.XPOrbs {
		if o.Alive && physics.CirclesOverlap(p.X, p.Y, p.Radius, o.X, o.Y, o.Radius) {
			o.Kill()
			r.emit(Event{Kind: EventXPCollected, Entity: o})
		}
	}
	for _, u := range mgr.PowerUps {
		if u.Alive && physics.CirclesOverlap(p.X, p.Y, p.Radius, u.X, u.Y, u.Radius) {
			u.Kill()
			r.emit(Event{Kind: EventPowerUpCollected, Entity: u})
		}
	}
}
