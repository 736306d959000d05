// Package spawn decides when and what enemies enter the arena.
//
// A timer accumulates against the difficulty curve's spawn interval. Each
// time it crosses the interval the director makes one decision: filter the
// unlocked kinds by density cap, pick one by weight and place it.
package spawn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/difficulty"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/physics"
)

// Spawned describes one spawn decision.
type Spawned struct {
	Kind    config.SpawnKind
	Entity  *entity.Entity    // nil for laser gates
	Gate    *entity.LaserGate // laser gates only
	Escorts []*entity.Entity  // shield drones co-spawned with a blocker
}

// Director owns the spawn timer.
type Director struct {
	cfg *config.Config
	mgr *entity.Manager
	rng *rand.Rand

	timer    float64 // ms since the last decision
	eligible []config.SpawnRule
}

// NewDirector validates cfg and returns a director feeding mgr.
func NewDirector(cfg *config.Config, mgr *entity.Manager, rng *rand.Rand) (*Director, error) {
	if cfg == nil || mgr == nil || rng == nil {
		return nil, errors.New("spawn: config, manager and rng are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("spawn: %w", err)
	}
	return &Director{cfg: cfg, mgr: mgr, rng: rng}, nil
}

// Reset restarts the spawn timer.
func (d *Director) Reset() {
	d.timer = 0
}

// Update advances the timer by dt seconds at the given survival time, using
// the difficulty params already computed for this tick. It returns the spawn
// made this tick, if any.
func (d *Director) Update(dt, elapsed float64, params difficulty.Params) []Spawned {
	d.timer += dt * 1000
	if d.timer < params.SpawnInterval {
		return nil
	}
	d.timer = 0

	rule, ok := Pick(d.Eligible(elapsed), d.rng.Float64())
	if !ok {
		return nil
	}
	return []Spawned{d.spawn(rule.Kind, elapsed, params)}
}

// Eligible returns the rules that are unlocked at elapsed and below their
// density cap. The slice is reused by the next call.
func (d *Director) Eligible(elapsed float64) []config.SpawnRule {
	out := d.eligible[:0]
	for _, r := range d.cfg.SpawnRules {
		if elapsed < r.UnlockAt {
			continue
		}
		if d.mgr.Live(r.Kind) >= r.Cap {
			continue
		}
		out = append(out, r)
	}
	d.eligible = out
	return out
}

// Pick makes a weighted choice among rules for roll in [0, 1). Rules are
// walked in order and the first whose weight brings the remaining roll to
// zero or below wins. Zero-weight rules never win.
func Pick(rules []config.SpawnRule, roll float64) (config.SpawnRule, bool) {
	total := 0
	for _, r := range rules {
		total += r.Weight
	}
	if total <= 0 {
		return config.SpawnRule{}, false
	}

	left := roll * float64(total)
	var last config.SpawnRule
	for _, r := range rules {
		if r.Weight <= 0 {
			continue
		}
		last = r
		left -= float64(r.Weight)
		if left <= 0 {
			return r, true
		}
	}
	return last, true
}

func (d *Director) rangeValue(r config.Range) float64 {
	return physics.RandomBetween(d.rng, r.From, r.To)
}

func (d *Director) spawn(kind config.SpawnKind, elapsed float64, p difficulty.Params) Spawned {
	cfg := d.cfg
	x := physics.RandomBetween(d.rng, cfg.ArenaLeft+cfg.SpawnEdgeInset, cfg.ArenaRight-cfg.SpawnEdgeInset)
	s := Spawned{Kind: kind}

	switch kind {
	case config.SpawnBlocker:
		b := entity.NewBlocker(cfg, d.rng, x, d.rangeValue(cfg.BlockerSpawnY), p.SpeedMultiplier, p.ScrollMultiplier)
		s.Entity = d.mgr.Add(b)
		if elapsed >= cfg.DroneEscortUnlock {
			s.Escorts = d.escort(b, p.SpeedMultiplier)
		}

	case config.SpawnChaser:
		edge := cfg.ArenaLeft - cfg.ChaserEdgeOffset
		if d.rng.Float64() > 0.5 {
			edge = cfg.ArenaRight + cfg.ChaserEdgeOffset
		}
		s.Entity = d.mgr.Add(entity.NewChaser(cfg, edge, p.SpeedMultiplier))

	case config.SpawnFlare:
		s.Entity = d.mgr.Add(entity.NewFlare(cfg, d.rng, x, d.rangeValue(cfg.FlareSpawnY), p.ScrollMultiplier))

	case config.SpawnLaserGate:
		y := d.rangeValue(cfg.LaserSpawnY)
		x1 := physics.RandomBetween(d.rng, cfg.ArenaLeft+cfg.LaserEdgeInset, cfg.CenterX-cfg.LaserEdgeInset)
		x2 := math.Min(x1+d.rangeValue(cfg.LaserSeparation), cfg.ArenaRight-cfg.LaserEdgeInset)
		s.Gate = d.mgr.AddLaserGate(entity.NewLaserGate(cfg, x1, x2, y, p.ScrollMultiplier))
	}
	return s
}

// escort co-spawns one or more shield drones evenly spaced around host,
// without exceeding the drone cap.
func (d *Director) escort(host *entity.Entity, speed float64) []*entity.Entity {
	cfg := d.cfg
	if cfg.DroneEscortMax <= 0 {
		return nil
	}
	live := d.mgr.Counts().Drones
	n := 1 + d.rng.Intn(cfg.DroneEscortMax)
	var drones []*entity.Entity
	for i := 0; i < n && live+i < cfg.DroneCap; i++ {
		angle := 2 * math.Pi / float64(n) * float64(i)
		drones = append(drones, d.mgr.Add(entity.NewShieldDrone(cfg, host, angle, speed)))
	}
	return drones
}
