package sim

import (
	"github.com/tomz197/vectordrift/internal/difficulty"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/gamestate"
	"github.com/tomz197/vectordrift/internal/player"
)

// PlayerView is the render-facing copy of the player.
type PlayerView struct {
	X, Y         float64
	PrevX, PrevY float64
	Radius       float64
	Mode         player.Mode
	Health       float64
	FlightMeter  float64
	Shield       bool
	SlamPlus     bool
	Invulnerable bool
	HitFlash     float64
}

// EntityView is the render-facing copy of one live entity.
type EntityView struct {
	ID           uint64
	Kind         entity.Kind
	X, Y         float64
	PrevX, PrevY float64
	Radius       float64
	HP, MaxHP    int
	HitFlash     float64
	Power        entity.PowerUpType
	Magnetized   bool
	Roaming      bool
	PullRadius   float64
}

// BeamView is a laser gate's beam.
type BeamView struct {
	X1, X2, Y float64
	Active    bool
}

// Snapshot is a read-only copy of everything a renderer or HUD needs.
type Snapshot struct {
	Player     PlayerView
	Entities   []EntityView
	Beams      []BeamView
	HUD        gamestate.HUD
	Difficulty difficulty.Params
	Paused     bool
}

// Snapshot copies the current state. The result shares nothing with the
// simulation and may be handed to another goroutine.
func (s *Simulation) Snapshot() Snapshot {
	p := s.player
	snap := Snapshot{
		Player: PlayerView{
			X:            p.X,
			Y:            p.Y,
			PrevX:        p.PrevX,
			PrevY:        p.PrevY,
			Radius:       p.Radius,
			Mode:         p.Mode,
			Health:       p.Health,
			FlightMeter:  p.FlightMeter,
			Shield:       p.ShieldActive,
			SlamPlus:     p.SlamPlusActive(),
			Invulnerable: p.InvulnTimer > 0,
			HitFlash:     p.HitFlash,
		},
		HUD:        s.state.Snapshot(),
		Difficulty: s.tick.Difficulty,
		Paused:     s.paused,
	}

	all := s.entities.All()
	snap.Entities = make([]EntityView, 0, len(all))
	for _, e := range all {
		if !e.Alive {
			continue
		}
		snap.Entities = append(snap.Entities, EntityView{
			ID:         e.ID,
			Kind:       e.Kind,
			X:          e.X,
			Y:          e.Y,
			PrevX:      e.PrevX,
			PrevY:      e.PrevY,
			Radius:     e.Radius,
			HP:         e.HP,
			MaxHP:      e.MaxHP,
			HitFlash:   e.HitFlash,
			Power:      e.Power,
			Magnetized: e.Magnetized,
			Roaming:    e.Orbit.Roaming,
			PullRadius: e.Pull.Radius,
		})
	}

	for _, g := range s.entities.Gates {
		if g.A == nil || g.B == nil {
			continue
		}
		x1, x2, y := g.Beam()
		snap.Beams = append(snap.Beams, BeamView{X1: x1, X2: x2, Y: y, Active: g.BeamActive()})
	}
	return snap
}
