// Package sim wires the gameplay components into one simulation step.
//
// A Simulation is single-threaded: Step, Snapshot and the control methods
// must be called from one goroutine (the host's game loop).
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/vectordrift/internal/collision"
	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/difficulty"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/gamestate"
	"github.com/tomz197/vectordrift/internal/player"
	"github.com/tomz197/vectordrift/internal/spawn"
)

// Sound is a fire-and-forget audio trigger.
type Sound string

const (
	SoundShoot   Sound = "shoot"
	SoundExplode Sound = "explode"
	SoundHit     Sound = "hit"
	SoundShield  Sound = "shield"
	SoundSlam    Sound = "slam"
	SoundPickup  Sound = "pickup"
	SoundPowerUp Sound = "powerup"
	SoundZone    Sound = "zone"
	SoundDeath   Sound = "death"
)

// Tick reports what one Step did. Its slices are reused by the next Step.
type Tick struct {
	Player      []player.Event
	Collisions  []collision.Event
	Spawned     []spawn.Spawned
	Sounds      []Sound
	Difficulty  difficulty.Params
	ZoneChanged bool
	GameOver    bool // the run ended during this step
}

// Simulation is one run of the game.
type Simulation struct {
	cfg *config.Config
	rng *rand.Rand

	diff     *difficulty.Director
	player   *player.Player
	entities *entity.Manager
	spawner  *spawn.Director
	resolver *collision.Resolver
	state    *gamestate.State

	paused bool
	tick   Tick // Difficulty carries over between steps
}

// New validates cfg and builds a simulation. A nil rng is seeded from the
// clock.
func New(cfg config.Config, rng *rand.Rand) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := &cfg

	diff, err := difficulty.NewDirector(c.Zones)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	mgr := entity.NewManager()
	spawner, err := spawn.NewDirector(c, mgr, rng)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	resolver, err := collision.NewResolver(c)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	s := &Simulation{
		cfg:      c,
		rng:      rng,
		diff:     diff,
		player:   player.New(c, rng),
		entities: mgr,
		spawner:  spawner,
		resolver: resolver,
		state:    gamestate.New(c),
	}
	s.tick.Difficulty = diff.At(0)
	return s, nil
}

// Config returns the tuning table the simulation runs with.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Player returns the avatar. Hosts read it; only the simulation mutates it.
func (s *Simulation) Player() *player.Player { return s.player }

// Entities returns the entity collections for read-only use.
func (s *Simulation) Entities() *entity.Manager { return s.entities }

// State returns the scoring state for read-only use.
func (s *Simulation) State() *gamestate.State { return s.state }

// Pause halts the pipeline until Resume.
func (s *Simulation) Pause() { s.paused = true }

// Resume restarts a paused pipeline.
func (s *Simulation) Resume() { s.paused = false }

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool { return s.paused }

// GameOver reports whether the run has ended.
func (s *Simulation) GameOver() bool { return s.state.GameOver() }

// MarkNewHighScore records that the finished run set a new high score.
func (s *Simulation) MarkNewHighScore() { s.state.MarkNewHighScore() }

// Reset starts a new run with the same configuration.
func (s *Simulation) Reset() {
	s.player.Reset()
	s.entities.Reset()
	s.spawner.Reset()
	s.state.Reset()
	s.paused = false
	s.tick.Difficulty = s.diff.At(0)
}

// Step advances the run by dt seconds of wall time. It does nothing while
// paused or after game over.
func (s *Simulation) Step(dt float64, in player.Input) Tick {
	t := &s.tick
	t.Player, t.Collisions, t.Spawned, t.Sounds = nil, nil, nil, t.Sounds[:0]
	t.ZoneChanged, t.GameOver = false, false
	if s.paused || s.state.GameOver() || dt <= 0 {
		return *t
	}

	elapsed := s.state.Elapsed()
	t.Player = s.player.Update(dt, in)

	if s.player.CanFire() {
		s.entities.Add(s.player.Fire())
		t.Sounds = append(t.Sounds, SoundShoot)
	}

	t.Difficulty = s.diff.At(elapsed)
	if s.state.SetPhase(t.Difficulty.Phase) {
		t.ZoneChanged = true
		t.Sounds = append(t.Sounds, SoundZone)
	}
	t.Spawned = s.spawner.Update(dt, elapsed, t.Difficulty)

	s.entities.UpdateAll(entity.UpdateContext{
		Delta:  dt,
		Target: entity.Target{X: s.player.X, Y: s.player.Y, Grounded: s.player.IsGrounded()},
		Config: s.cfg,
		Rand:   s.rng,
	})
	for _, f := range s.entities.Flares {
		s.player.ApplyPull(entity.PullOffset(f, s.player.X, s.player.Y, dt))
	}

	t.Collisions = s.resolver.Resolve(s.player, s.entities, t.Player)
	for _, ev := range t.Collisions {
		s.handle(ev)
	}

	s.entities.RemoveAllDead()
	s.state.Update(dt)
	s.state.SyncPlayer(s.player.Health, s.player.FlightMeter, s.player.Mode.String(), s.player.Y)

	if s.player.Dead() {
		s.state.End()
		t.GameOver = true
		t.Sounds = append(t.Sounds, SoundDeath)
	}
	return *t
}

// handle applies the game rules for one collision outcome.
func (s *Simulation) handle(ev collision.Event) {
	t := &s.tick
	switch ev.Kind {
	case collision.EventEnemyKilled:
		e := ev.Entity
		s.state.AddScore(e.ScoreValue)
		s.state.RegisterKill()
		s.state.BumpMultiplier()
		s.entities.Add(entity.NewXPOrb(s.cfg, e.X, e.Y))
		if s.rng.Float64() < s.cfg.PowerUpDropChance {
			s.entities.Add(entity.NewPowerUp(s.cfg, e.X, e.Y, entity.RandomPowerUp(s.rng)))
		}
		t.Sounds = append(t.Sounds, SoundExplode)

	case collision.EventShieldBlocked:
		t.Sounds = append(t.Sounds, SoundShield)

	case collision.EventSlam:
		s.state.RecordSlam()
		t.Sounds = append(t.Sounds, SoundSlam)

	case collision.EventPlayerHit:
		if ev.Dealt {
			s.state.ResetMultiplier()
			t.Sounds = append(t.Sounds, SoundHit)
		} else {
			t.Sounds = append(t.Sounds, SoundShield)
		}

	case collision.EventXPCollected:
		s.state.AddScore(s.cfg.ScorePerXP)
		s.state.CollectXP(ev.Entity.Value)
		s.state.BumpMultiplier()
		t.Sounds = append(t.Sounds, SoundPickup)

	case collision.EventPowerUpCollected:
		switch ev.Entity.Power {
		case entity.PowerFlightRecharge:
			s.player.Recharge()
		case entity.PowerScoreBoost:
			s.state.ActivateScoreBoost()
		case entity.PowerShield:
			s.player.GrantShield()
		case entity.PowerSlamPlus:
			s.player.GrantSlamPlus()
		}
		t.Sounds = append(t.Sounds, SoundPowerUp)
	}
}
