package gamestate

import (
	"math"
	"testing"

	"github.com/tomz197/vectordrift/internal/config"
)

func newState() (*State, *config.Config) {
	cfg := config.Default()
	return New(&cfg), &cfg
}

func TestComboMultiplierTiers(t *testing.T) {
	tests := []struct {
		kills int
		want  float64
	}{
		{0, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}, {9, 3}, {10, 5}, {25, 5},
	}
	for _, tt := range tests {
		s, _ := newState()
		for i := 0; i < tt.kills; i++ {
			s.RegisterKill()
		}
		if got := s.ComboMultiplier(); got != tt.want {
			t.Fatalf("ComboMultiplier() after %d kills = %v, want %v", tt.kills, got, tt.want)
		}
	}
}

func TestComboResetsOnceAfterWindow(t *testing.T) {
	s, cfg := newState()
	s.RegisterKill()
	s.RegisterKill()

	const dt = 0.1
	steps := int(math.Round(cfg.ComboWindowMs / 1000 / dt))
	for i := 0; i < steps-1; i++ {
		s.Update(dt)
		if s.ComboCount() != 2 {
			t.Fatalf("combo reset early at step %d", i)
		}
	}
	s.Update(dt)
	if s.ComboCount() != 0 {
		t.Fatalf("ComboCount() = %d after window, want 0", s.ComboCount())
	}
	if s.BestCombo() != 2 {
		t.Fatalf("BestCombo() = %d, want 2", s.BestCombo())
	}

	// A kill after the reset starts a fresh combo that is not cleared by
	// the expired timer.
	s.Update(dt)
	s.RegisterKill()
	s.Update(dt)
	if s.ComboCount() != 1 {
		t.Fatalf("ComboCount() = %d after new kill, want 1", s.ComboCount())
	}
}

func TestMultiplierCap(t *testing.T) {
	s, cfg := newState()
	for i := 0; i < 1000; i++ {
		s.BumpMultiplier()
		if s.Multiplier() > cfg.MultiplierMax {
			t.Fatalf("Multiplier() = %v above max %v", s.Multiplier(), cfg.MultiplierMax)
		}
	}
	if s.Multiplier() != cfg.MultiplierMax {
		t.Fatalf("Multiplier() = %v, want %v", s.Multiplier(), cfg.MultiplierMax)
	}
}

func TestMultiplierDecay(t *testing.T) {
	s, cfg := newState()
	s.BumpMultiplier()
	s.BumpMultiplier()
	start := s.Multiplier()

	s.Update(cfg.MultiplierDecayMs/1000 - 0.5)
	if s.Multiplier() != start {
		t.Fatalf("multiplier decayed during delay: %v", s.Multiplier())
	}
	s.Update(1)
	s.Update(1)
	if s.Multiplier() >= start {
		t.Fatalf("multiplier did not decay: %v", s.Multiplier())
	}
	for i := 0; i < 100; i++ {
		s.Update(1)
	}
	if s.Multiplier() != 1 {
		t.Fatalf("Multiplier() = %v, want floor of 1", s.Multiplier())
	}

	s.BumpMultiplier()
	s.ResetMultiplier()
	if s.Multiplier() != 1 {
		t.Fatalf("Multiplier() = %v after reset", s.Multiplier())
	}
}

func TestAddScore(t *testing.T) {
	s, _ := newState()
	if got := s.AddScore(100); got != 100 {
		t.Fatalf("AddScore(100) = %d, want 100", got)
	}

	s.BumpMultiplier() // 1.1
	for i := 0; i < 3; i++ {
		s.RegisterKill() // combo x2
	}
	s.ActivateScoreBoost() // x2
	want := int(math.Floor(75 * 1.1 * 2 * 2))
	if got := s.AddScore(75); got != want {
		t.Fatalf("AddScore(75) = %d, want %d", got, want)
	}
	if s.Score() != 100+want {
		t.Fatalf("Score() = %d, want %d", s.Score(), 100+want)
	}
}

func TestScoreBoostExpires(t *testing.T) {
	s, cfg := newState()
	s.ActivateScoreBoost()
	if !s.ScoreBoostActive() {
		t.Fatalf("boost inactive after activation")
	}
	s.Update(cfg.ScoreBoostDurationMs/1000 + 0.01)
	if s.ScoreBoostActive() {
		t.Fatalf("boost active after duration")
	}
	if got := s.AddScore(10); got != 10 {
		t.Fatalf("AddScore(10) = %d after boost expired, want 10", got)
	}
}

func TestSnapshot(t *testing.T) {
	s, cfg := newState()
	s.SyncPlayer(80, 55, "flight", cfg.GroundY-120)
	s.SyncPlayer(80, 50, "falling", cfg.GroundY-60)
	s.RecordSlam()
	s.CollectXP(10)
	s.RegisterKill()
	if !s.SetPhase("FIREWALL") || s.SetPhase("FIREWALL") {
		t.Fatalf("SetPhase change detection wrong")
	}
	s.End()

	h := s.Snapshot()
	if h.Health != 80 || h.FlightMeter != 50 || h.Mode != "falling" {
		t.Fatalf("mirrored player = %v/%v/%s", h.Health, h.FlightMeter, h.Mode)
	}
	if h.MaxAltitude != 120 {
		t.Fatalf("MaxAltitude = %v, want 120", h.MaxAltitude)
	}
	if h.SlamCount != 1 || h.XPCollected != 10 || h.Kills != 1 {
		t.Fatalf("counters = %+v", h)
	}
	if h.Phase != "FIREWALL" || !h.GameOver {
		t.Fatalf("phase=%s gameOver=%v", h.Phase, h.GameOver)
	}
}
