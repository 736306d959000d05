// Package gamestate holds the scoring engine of a run: score, multiplier,
// kill combo, power-up timers and the run counters shown on the HUD.
package gamestate

import (
	"math"

	"github.com/tomz197/vectordrift/internal/config"
)

// State is mutated only through its methods.
type State struct {
	cfg *config.Config

	score           int
	health          float64
	flightMeter     float64
	multiplier      float64
	multiplierTimer float64 // ms until decay starts
	comboCount      int
	comboTimer      float64 // ms
	bestCombo       int
	scoreBoostTimer float64 // ms
	elapsed         float64 // seconds
	gameOver        bool

	kills        int
	xpCollected  int
	slamCount    int
	maxAltitude  float64
	mode         string
	phaseReached string
	newHighScore bool
}

// New returns the state at the start of a run.
func New(cfg *config.Config) *State {
	s := &State{cfg: cfg}
	s.Reset()
	return s
}

// Reset clears every counter.
func (s *State) Reset() {
	*s = State{
		cfg:         s.cfg,
		health:      s.cfg.PlayerMaxHealth,
		flightMeter: s.cfg.FlightMeterMax,
		multiplier:  1,
		mode:        "impact",
	}
	if len(s.cfg.Zones) > 0 {
		s.phaseReached = s.cfg.Zones[0].Name
	}
}

// Update advances timers by dt seconds. The multiplier holds until its delay
// runs out, then decays toward 1. The combo resets once when its window
// closes without a new kill.
func (s *State) Update(dt float64) {
	ms := dt * 1000
	s.elapsed += dt

	if s.multiplierTimer > 0 {
		s.multiplierTimer -= ms
	} else if s.multiplier > 1 {
		s.multiplier = math.Max(1, s.multiplier-s.cfg.MultiplierDecayRate*dt)
	}

	if s.comboTimer > 0 {
		s.comboTimer -= ms
		if s.comboTimer <= 0 {
			s.comboTimer = 0
			s.comboCount = 0
		}
	}

	if s.scoreBoostTimer > 0 {
		s.scoreBoostTimer = math.Max(0, s.scoreBoostTimer-ms)
	}
}

// RegisterKill extends the combo and restarts its window.
func (s *State) RegisterKill() {
	s.kills++
	s.comboCount++
	s.comboTimer = s.cfg.ComboWindowMs
	s.bestCombo = max(s.bestCombo, s.comboCount)
}

// ComboMultiplier is the step function of the current combo count.
func (s *State) ComboMultiplier() float64 {
	m := 1.0
	for _, tier := range s.cfg.ComboTiers {
		if s.comboCount >= tier.MinCount {
			m = tier.Multiplier
		}
	}
	return m
}

func (s *State) boostMultiplier() float64 {
	if s.scoreBoostTimer > 0 {
		return s.cfg.ScoreBoostFactor
	}
	return 1
}

// AddScore awards base points scaled by the multiplier, the combo multiplier
// and an active score boost, rounded down. It returns the points awarded.
func (s *State) AddScore(base int) int {
	pts := int(math.Floor(float64(base) * s.multiplier * s.ComboMultiplier() * s.boostMultiplier()))
	if pts < 0 {
		pts = 0
	}
	s.score += pts
	return pts
}

// BumpMultiplier raises the multiplier by the configured increment, capped,
// and restarts the decay delay.
func (s *State) BumpMultiplier() {
	s.multiplier = math.Min(s.multiplier+s.cfg.MultiplierIncrement, s.cfg.MultiplierMax)
	s.multiplierTimer = s.cfg.MultiplierDecayMs
}

// ResetMultiplier drops the multiplier back to 1.
func (s *State) ResetMultiplier() {
	s.multiplier = 1
	s.multiplierTimer = 0
}

// ActivateScoreBoost starts or restarts the score boost.
func (s *State) ActivateScoreBoost() {
	s.scoreBoostTimer = s.cfg.ScoreBoostDurationMs
}

// CollectXP counts a collected orb's value.
func (s *State) CollectXP(value int) {
	s.xpCollected += value
}

// RecordSlam counts a landing slam.
func (s *State) RecordSlam() {
	s.slamCount++
}

// SyncPlayer mirrors the player's health, flight meter and mode. Altitude is
// measured upward from the ground.
func (s *State) SyncPlayer(health, flightMeter float64, mode string, y float64) {
	s.health = health
	s.flightMeter = flightMeter
	s.mode = mode
	s.maxAltitude = math.Max(s.maxAltitude, s.cfg.GroundY-y)
}

// SetPhase records the current difficulty zone. It reports whether the
// zone changed.
func (s *State) SetPhase(name string) bool {
	if name == s.phaseReached {
		return false
	}
	s.phaseReached = name
	return true
}

// End marks the run over.
func (s *State) End() {
	s.gameOver = true
}

// MarkNewHighScore flags the run as having set a new high score.
func (s *State) MarkNewHighScore() {
	s.newHighScore = true
}

func (s *State) Score() int { return s.score }
func (s *State) Multiplier() float64 { return s.multiplier }
func (s *State) ComboCount() int { return s.comboCount }
func (s *State) BestCombo() int { return s.bestCombo }
func (s *State) Elapsed() float64 { return s.elapsed }
func (s *State) GameOver() bool { return s.gameOver }
func (s *State) ScoreBoostActive() bool { return s.scoreBoostTimer > 0 }

// HUD is a read-only copy of everything the heads-up display shows.
type HUD struct {
	Score            int
	Health           float64
	FlightMeter      float64
	Multiplier       float64
	ComboCount       int
	ComboMultiplier  float64
	BestCombo        int
	ScoreBoostActive bool
	ScoreBoostMs     float64
	Elapsed          float64
	Phase            string
	Mode             string
	Kills            int
	XPCollected      int
	SlamCount        int
	MaxAltitude      float64
	GameOver         bool
	NewHighScore     bool
}

// Snapshot returns the current HUD values.
func (s *State) Snapshot() HUD {
	return HUD{
		Score:            s.score,
		Health:           s.health,
		FlightMeter:      s.flightMeter,
		Multiplier:       s.multiplier,
		ComboCount:       s.comboCount,
		ComboMultiplier:  s.ComboMultiplier(),
		BestCombo:        s.bestCombo,
		ScoreBoostActive: s.scoreBoostTimer > 0,
		ScoreBoostMs:     s.scoreBoostTimer,
		Elapsed:          s.elapsed,
		Phase:            s.phaseReached,
		Mode:             s.mode,
		Kills:            s.kills,
		XPCollected:      s.xpCollected,
		SlamCount:        s.slamCount,
		MaxAltitude:      s.maxAltitude,
		GameOver:         s.gameOver,
		NewHighScore:     s.newHighScore,
	}
}
