package spawn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/difficulty"
	"github.com/tomz197/vectordrift/internal/entity"
)

func newTestDirector(t *testing.T, cfg *config.Config, seed int64) (*Director, *entity.Manager) {
	t.Helper()
	mgr := entity.NewManager()
	d, err := NewDirector(cfg, mgr, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("NewDirector: %v", err)
	}
	return d, mgr
}

// paramsAt reads cfg's difficulty curve at elapsed seconds.
func paramsAt(t *testing.T, cfg *config.Config, elapsed float64) difficulty.Params {
	t.Helper()
	diff, err := difficulty.NewDirector(cfg.Zones)
	if err != nil {
		t.Fatalf("difficulty.NewDirector: %v", err)
	}
	return diff.At(elapsed)
}

func TestNewDirectorRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.BlockerRadius = -1
	_, err := NewDirector(&cfg, entity.NewManager(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewDirector error = %v, want ErrInvalid", err)
	}
}

func TestTimerFiresOncePerInterval(t *testing.T) {
	cfg := config.Default()
	d, mgr := newTestDirector(t, &cfg, 1)
	boot := paramsAt(t, &cfg, 0)

	// BOOT starts at a 2000 ms interval.
	for i := 0; i < 19; i++ {
		if got := d.Update(0.1, 0, boot); got != nil {
			t.Fatalf("spawned at %d ms, before the interval", (i+1)*100)
		}
	}
	got := d.Update(0.1, 0, boot)
	if len(got) != 1 || got[0].Kind != config.SpawnBlocker {
		t.Fatalf("Update at interval = %+v, want one blocker", got)
	}
	if mgr.Counts().Blockers != 1 {
		t.Fatalf("Blockers = %d, want 1", mgr.Counts().Blockers)
	}
	if d.Update(0.1, 0, boot) != nil {
		t.Fatalf("timer not reset after spawning")
	}
}

func TestTimerUsesGivenInterval(t *testing.T) {
	cfg := config.Default()
	d, _ := newTestDirector(t, &cfg, 1)
	p := difficulty.Params{SpawnInterval: 500, SpeedMultiplier: 1, ScrollMultiplier: 1}

	for i := 0; i < 4; i++ {
		if got := d.Update(0.1, 0, p); got != nil {
			t.Fatalf("spawned at %d ms, before the 500 ms interval", (i+1)*100)
		}
	}
	if got := d.Update(0.1, 0, p); len(got) != 1 {
		t.Fatalf("Update at 500 ms = %+v, want one spawn", got)
	}
}

func TestDensityCapIsNeverExceeded(t *testing.T) {
	cfg := config.Default()
	d, mgr := newTestDirector(t, &cfg, 2)
	rng := rand.New(rand.NewSource(3))
	rule, _ := cfg.Rule(config.SpawnBlocker)
	for i := 0; i < rule.Cap; i++ {
		mgr.Add(entity.NewBlocker(&cfg, rng, 400, 200, 1, 1))
	}

	// Only blockers are unlocked at t=0.
	boot := paramsAt(t, &cfg, 0)
	for i := 0; i < 100; i++ {
		if got := d.Update(5, 0, boot); got != nil {
			t.Fatalf("spawned %+v with blockers at cap", got)
		}
		if n := mgr.Counts().Blockers; n != rule.Cap {
			t.Fatalf("Blockers = %d, want %d", n, rule.Cap)
		}
	}
}

func TestUnlockSchedule(t *testing.T) {
	cfg := config.Default()
	d, _ := newTestDirector(t, &cfg, 4)
	tests := []struct {
		elapsed float64
		want    int
	}{
		{0, 1}, {14.9, 1}, {15, 2}, {30, 3}, {44.9, 3}, {45, 4}, {1000, 4},
	}
	for _, tt := range tests {
		if got := len(d.Eligible(tt.elapsed)); got != tt.want {
			t.Fatalf("len(Eligible(%v)) = %d, want %d", tt.elapsed, got, tt.want)
		}
	}
}

func TestPickBoundaries(t *testing.T) {
	rules := config.Default().SpawnRules
	tests := []struct {
		roll float64
		want config.SpawnKind
	}{
		{0, config.SpawnBlocker},
		{49.0 / 115, config.SpawnBlocker},
		{51.0 / 115, config.SpawnChaser},
		{79.0 / 115, config.SpawnChaser},
		{90.0 / 115, config.SpawnFlare},
		{0.9999, config.SpawnLaserGate},
	}
	for _, tt := range tests {
		got, ok := Pick(rules, tt.roll)
		if !ok || got.Kind != tt.want {
			t.Fatalf("Pick(roll=%v) = %s, want %s", tt.roll, got.Kind, tt.want)
		}
	}

	if _, ok := Pick(nil, 0.5); ok {
		t.Fatalf("Pick(nil) reported a choice")
	}
	zero := []config.SpawnRule{{Kind: config.SpawnFlare, Weight: 0}, {Kind: config.SpawnChaser, Weight: 10}}
	if got, _ := Pick(zero, 0); got.Kind != config.SpawnChaser {
		t.Fatalf("zero-weight rule picked: %s", got.Kind)
	}
}

func TestPickDistribution(t *testing.T) {
	rules := config.Default().SpawnRules
	rng := rand.New(rand.NewSource(5))
	const n = 100000
	counts := make(map[config.SpawnKind]int)
	for i := 0; i < n; i++ {
		r, _ := Pick(rules, rng.Float64())
		counts[r.Kind]++
	}
	total := 0
	for _, r := range rules {
		total += r.Weight
	}
	for _, r := range rules {
		want := float64(r.Weight) / float64(total)
		got := float64(counts[r.Kind]) / n
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("%s picked %.3f of the time, want %.3f", r.Kind, got, want)
		}
	}
}

func TestSpawnPositions(t *testing.T) {
	cfg := config.Default()
	d, mgr := newTestDirector(t, &cfg, 6)
	p := paramsAt(t, &cfg, 100)
	for i := 0; i < 200; i++ {
		for _, kind := range []config.SpawnKind{config.SpawnBlocker, config.SpawnChaser, config.SpawnFlare, config.SpawnLaserGate} {
			s := d.spawn(kind, 0, p)
			switch kind {
			case config.SpawnBlocker, config.SpawnFlare:
				e := s.Entity
				if e.X < cfg.ArenaLeft+cfg.SpawnEdgeInset || e.X > cfg.ArenaRight-cfg.SpawnEdgeInset {
					t.Fatalf("%s spawned at x=%v outside the arena", kind, e.X)
				}
				if e.Y >= cfg.GroundY {
					t.Fatalf("%s spawned at y=%v, not above ground", kind, e.Y)
				}
			case config.SpawnChaser:
				e := s.Entity
				if e.Y != cfg.GroundY {
					t.Fatalf("chaser spawned at y=%v, want ground", e.Y)
				}
				if e.X != cfg.ArenaLeft-cfg.ChaserEdgeOffset && e.X != cfg.ArenaRight+cfg.ChaserEdgeOffset {
					t.Fatalf("chaser spawned at x=%v, want a screen edge", e.X)
				}
			case config.SpawnLaserGate:
				x1, x2, _ := s.Gate.Beam()
				if x1 < cfg.ArenaLeft+cfg.LaserEdgeInset || x2 > cfg.ArenaRight-cfg.LaserEdgeInset || x2 <= x1 {
					t.Fatalf("laser gate span [%v, %v] invalid", x1, x2)
				}
			}
		}
		mgr.Reset()
	}
}

func TestDroneEscortsAfterUnlock(t *testing.T) {
	cfg := config.Default()
	cfg.SpawnRules = []config.SpawnRule{{Kind: config.SpawnBlocker, Weight: 1, Cap: 100}}
	d, mgr := newTestDirector(t, &cfg, 7)

	s := d.Update(10, cfg.DroneEscortUnlock-1, paramsAt(t, &cfg, cfg.DroneEscortUnlock-1))
	if len(s) != 1 || len(s[0].Escorts) != 0 {
		t.Fatalf("escorts spawned before unlock: %+v", s)
	}

	for i := 0; i < 50; i++ {
		s = d.Update(10, cfg.DroneEscortUnlock, paramsAt(t, &cfg, cfg.DroneEscortUnlock))
		if len(s) != 1 {
			t.Fatalf("no spawn decision")
		}
		n := len(s[0].Escorts)
		if mgr.Counts().Drones > cfg.DroneCap {
			t.Fatalf("Drones = %d above cap %d", mgr.Counts().Drones, cfg.DroneCap)
		}
		for _, dr := range s[0].Escorts {
			if dr.Orbit.Host != s[0].Entity {
				t.Fatalf("escort orbits the wrong host")
			}
		}
		if n > cfg.DroneEscortMax {
			t.Fatalf("%d escorts, want at most %d", n, cfg.DroneEscortMax)
		}
	}
	if mgr.Counts().Drones != cfg.DroneCap {
		t.Fatalf("Drones = %d after many escorts, want cap %d", mgr.Counts().Drones, cfg.DroneCap)
	}
}

func TestSpeedMultiplierScalesSpawns(t *testing.T) {
	cfg := config.Default()
	d, _ := newTestDirector(t, &cfg, 8)
	p := difficulty.Params{SpeedMultiplier: 2, ScrollMultiplier: 1}
	s := d.spawn(config.SpawnChaser, 0, p)
	if s.Entity.ChaseSpeed != 2*cfg.ChaserSpeed {
		t.Fatalf("ChaseSpeed = %v, want %v", s.Entity.ChaseSpeed, 2*cfg.ChaserSpeed)
	}
}
