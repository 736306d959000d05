package collision

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/entity"
	"github.com/tomz197/vectordrift/internal/player"
)

type fixture struct {
	cfg *config.Config
	rng *rand.Rand
	r   *Resolver
	p   *player.Player
	mgr *entity.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	r, err := NewResolver(&cfg)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	return &fixture{
		cfg: &cfg,
		rng: rng,
		r:   r,
		p:   player.New(&cfg, rng),
		mgr: entity.NewManager(),
	}
}

// fly puts the player in the air, away from everything.
func (f *fixture) fly() {
	f.p.Mode = player.ModeFlight
	f.p.X, f.p.Y = f.cfg.CenterX, 60
}

func count(events []Event, kind EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewResolverRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ImpactSlamRadius = 0
	if _, err := NewResolver(&cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("NewResolver error = %v, want ErrInvalid", err)
	}
}

func TestBurstKillsChaser(t *testing.T) {
	f := newFixture(t)
	f.fly()
	c := f.mgr.Add(entity.NewChaser(f.cfg, 300, 1))
	b := f.mgr.Add(entity.NewBurst(f.cfg, 300, f.cfg.GroundY-2))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if c.Alive || b.Alive {
		t.Fatalf("chaser alive=%v burst alive=%v, want both dead", c.Alive, b.Alive)
	}
	if n := count(events, EventEnemyKilled); n != 1 {
		t.Fatalf("%d kill events, want 1", n)
	}
	if events[0].Entity != c || events[0].Burst != b || events[0].Cause != CauseBurst {
		t.Fatalf("kill event = %+v", events[0])
	}
}

func TestBurstHitsOnlyFirstEnemy(t *testing.T) {
	f := newFixture(t)
	f.fly()
	rng := f.rng
	first := f.mgr.Add(entity.NewBlocker(f.cfg, rng, 300, 200, 1, 1))
	flare := f.mgr.Add(entity.NewFlare(f.cfg, rng, 305, 200, 1))
	f.mgr.Add(entity.NewBurst(f.cfg, 302, 200))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if len(events) != 1 || events[0].Kind != EventEnemyHit || events[0].Entity != first {
		t.Fatalf("events = %+v, want one hit on the blocker", events)
	}
	if first.HP != f.cfg.BlockerHP-1 || flare.HP != f.cfg.FlareHP {
		t.Fatalf("HP blocker=%d flare=%d", first.HP, flare.HP)
	}
}

func TestTouchingBoundaryIsAMiss(t *testing.T) {
	f := newFixture(t)
	f.fly()
	c := f.mgr.Add(entity.NewChaser(f.cfg, 300, 1))
	b := f.mgr.Add(entity.NewBurst(f.cfg, 300+f.cfg.ChaserRadius+f.cfg.BurstRadius, f.cfg.GroundY))

	if events := f.r.Resolve(f.p, f.mgr, nil); len(events) != 0 {
		t.Fatalf("events = %+v for exactly touching circles", events)
	}
	if !c.Alive || !b.Alive {
		t.Fatalf("touching circles collided")
	}
}

func TestShieldBlocksUntilDroneDies(t *testing.T) {
	f := newFixture(t)
	f.fly()
	blocker := f.mgr.Add(entity.NewBlocker(f.cfg, f.rng, 300, 200, 1, 1))
	drone := f.mgr.Add(entity.NewShieldDrone(f.cfg, blocker, 0, 1))
	f.mgr.Add(entity.NewBurst(f.cfg, 300, 200))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if len(events) != 1 || events[0].Kind != EventShieldBlocked {
		t.Fatalf("events = %+v, want one shield block", events)
	}
	if blocker.HP != f.cfg.BlockerHP || blocker.HitFlash != 0 {
		t.Fatalf("shielded blocker took damage: hp=%d", blocker.HP)
	}
	f.mgr.RemoveAllDead()

	drone.Kill()
	f.mgr.Add(entity.NewBurst(f.cfg, 300, 200))
	events = f.r.Resolve(f.p, f.mgr, nil)
	if len(events) != 1 || events[0].Kind != EventEnemyHit || events[0].Entity != blocker {
		t.Fatalf("events = %+v, want a normal hit on the blocker", events)
	}
	if blocker.HP != f.cfg.BlockerHP-1 {
		t.Fatalf("blocker HP = %d, want %d", blocker.HP, f.cfg.BlockerHP-1)
	}
}

func TestRoamingDroneDoesNotShield(t *testing.T) {
	f := newFixture(t)
	f.fly()
	blocker := f.mgr.Add(entity.NewBlocker(f.cfg, f.rng, 300, 200, 1, 1))
	drone := f.mgr.Add(entity.NewShieldDrone(f.cfg, blocker, 0, 1))
	drone.Orbit.Roaming = true
	f.mgr.Add(entity.NewBurst(f.cfg, 300, 200))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if count(events, EventShieldBlocked) != 0 || blocker.HP != f.cfg.BlockerHP-1 {
		t.Fatalf("roaming drone shielded its old host: %+v", events)
	}
}

func TestSlamHitsEveryEnemyInRadius(t *testing.T) {
	f := newFixture(t)
	g := f.cfg.GroundY
	a := f.mgr.Add(entity.NewChaser(f.cfg, 380, 1))
	b := f.mgr.Add(entity.NewChaser(f.cfg, 420, 1))
	tank := f.mgr.Add(entity.NewBlocker(f.cfg, f.rng, 400, g-30, 1, 1))
	tank.HP, tank.MaxHP = 5, 5
	outside := f.mgr.Add(entity.NewChaser(f.cfg, 400+f.cfg.ImpactSlamRadius, 1))

	slam := player.Event{Kind: player.EventSlam, X: 400, Y: g, Radius: f.cfg.ImpactSlamRadius}
	events := f.r.Resolve(f.p, f.mgr, []player.Event{slam})

	if a.Alive || b.Alive {
		t.Fatalf("chasers inside the slam survived")
	}
	if tank.HP != 5-f.cfg.ImpactSlamDamage {
		t.Fatalf("blocker HP = %d, want %d", tank.HP, 5-f.cfg.ImpactSlamDamage)
	}
	if !outside.Alive {
		t.Fatalf("enemy exactly on the slam edge was hit")
	}
	if count(events, EventSlam) != 1 {
		t.Fatalf("%d slam events, want 1", count(events, EventSlam))
	}
	for _, e := range events {
		if e.Kind == EventSlam && e.Count != 3 {
			t.Fatalf("slam count = %d, want 3", e.Count)
		}
	}
	if count(events, EventEnemyKilled) != 2 || count(events, EventEnemyHit) != 1 {
		t.Fatalf("events = %+v, want 2 kills and 1 hit", events)
	}
}

func TestNoSlamWithoutEvent(t *testing.T) {
	f := newFixture(t)
	f.p.InvulnTimer = 10000
	c := f.mgr.Add(entity.NewChaser(f.cfg, f.p.X, 1))
	if events := f.r.Resolve(f.p, f.mgr, nil); count(events, EventSlam) != 0 || !c.Alive {
		t.Fatalf("slam resolved without a slam event: %+v", events)
	}
}

func TestLaserBeam(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64 // player offset from beam start (x1) and beam y
		flight bool
		invuln bool
		off    bool
		hit    bool
	}{
		{name: "inside", dx: 50, hit: true},
		{name: "within radius past anchor", dx: -9, hit: true},
		{name: "past reach", dx: -11, hit: false},
		{name: "vertical tolerance", dx: 50, dy: 13.9, hit: true},
		{name: "vertical miss", dx: 50, dy: 14, hit: false},
		{name: "intangible", dx: 50, flight: true, hit: false},
		{name: "invulnerable", dx: 50, invuln: true, hit: false},
		{name: "beam off", dx: 50, off: true, hit: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			g := f.mgr.AddLaserGate(entity.NewLaserGate(f.cfg, 100, 300, 300, 1))
			if tt.off {
				g.CycleTimer = f.cfg.LaserBeamOnMs
			}
			f.p.X, f.p.Y = 100+tt.dx, 300+tt.dy
			if tt.flight {
				f.p.Mode = player.ModeFlight
			}
			if tt.invuln {
				f.p.InvulnTimer = 1
			}

			// Anchors can touch the player too; only beam hits count here.
			var beam []Event
			for _, e := range f.r.Resolve(f.p, f.mgr, nil) {
				if e.Kind == EventPlayerHit && e.Gate != nil {
					beam = append(beam, e)
				}
			}
			if got := len(beam) == 1; got != tt.hit {
				t.Fatalf("hit = %v, want %v (beam events %+v)", got, tt.hit, beam)
			}
			if tt.hit {
				e := beam[0]
				if e.Gate != g || !e.Dealt || e.Damage != f.cfg.LaserDamage {
					t.Fatalf("laser event = %+v", e)
				}
				if f.p.Health != f.cfg.PlayerMaxHealth-f.cfg.LaserDamage {
					t.Fatalf("Health = %v", f.p.Health)
				}
			}
		})
	}
}

func TestContactKillsEnemyAndHurtsPlayer(t *testing.T) {
	f := newFixture(t)
	blocker := f.mgr.Add(entity.NewBlocker(f.cfg, f.rng, f.p.X+5, f.p.Y, 1, 1))
	second := f.mgr.Add(entity.NewChaser(f.cfg, f.p.X-5, 1))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if blocker.Alive {
		t.Fatalf("multi-hp blocker survived contact")
	}
	if !second.Alive {
		t.Fatalf("second enemy hit the invulnerable player")
	}
	if len(events) != 1 || events[0].Kind != EventPlayerHit || events[0].Entity != blocker || !events[0].Dealt {
		t.Fatalf("events = %+v, want one dealt contact hit", events)
	}
	if f.p.Health != f.cfg.PlayerMaxHealth-f.cfg.ContactDamage {
		t.Fatalf("Health = %v, want %v", f.p.Health, f.cfg.PlayerMaxHealth-f.cfg.ContactDamage)
	}
}

func TestShieldAbsorbsContact(t *testing.T) {
	f := newFixture(t)
	f.p.GrantShield()
	c := f.mgr.Add(entity.NewChaser(f.cfg, f.p.X, 1))

	events := f.r.Resolve(f.p, f.mgr, nil)
	if len(events) != 1 || events[0].Dealt {
		t.Fatalf("events = %+v, want one absorbed hit", events)
	}
	if c.Alive || f.p.Health != f.cfg.PlayerMaxHealth || f.p.ShieldActive {
		t.Fatalf("after shielded contact: enemy alive=%v health=%v shield=%v", c.Alive, f.p.Health, f.p.ShieldActive)
	}
}

func TestFlightIgnoresContact(t *testing.T) {
	f := newFixture(t)
	f.fly()
	c := f.mgr.Add(entity.NewFlare(f.cfg, f.rng, f.p.X, f.p.Y, 1))
	if events := f.r.Resolve(f.p, f.mgr, nil); len(events) != 0 || !c.Alive {
		t.Fatalf("intangible player collided: %+v", events)
	}
}

func TestSlamKillIsNotReusedByContact(t *testing.T) {
	f := newFixture(t)
	c := f.mgr.Add(entity.NewChaser(f.cfg, f.p.X, 1))
	slam := player.Event{Kind: player.EventSlam, X: f.p.X, Y: f.p.Y, Radius: f.cfg.ImpactSlamRadius}

	events := f.r.Resolve(f.p, f.mgr, []player.Event{slam})
	if c.Alive {
		t.Fatalf("chaser survived slam")
	}
	if count(events, EventPlayerHit) != 0 {
		t.Fatalf("dead chaser hit the player: %+v", events)
	}
}

func TestPickupsInAnyMode(t *testing.T) {
	for _, mode := range []player.Mode{player.ModeImpact, player.ModeFalling, player.ModeFlight} {
		f := newFixture(t)
		f.p.Mode = mode
		orb := f.mgr.Add(entity.NewXPOrb(f.cfg, f.p.X+3, f.p.Y))
		pu := f.mgr.Add(entity.NewPowerUp(f.cfg, f.p.X-3, f.p.Y, entity.PowerShield))
		far := f.mgr.Add(entity.NewXPOrb(f.cfg, f.p.X+200, f.p.Y))

		events := f.r.Resolve(f.p, f.mgr, nil)
		if orb.Alive || pu.Alive || !far.Alive {
			t.Fatalf("%s: orb=%v power-up=%v far=%v", mode, orb.Alive, pu.Alive, far.Alive)
		}
		if count(events, EventXPCollected) != 1 || count(events, EventPowerUpCollected) != 1 {
			t.Fatalf("%s: events = %+v", mode, events)
		}
	}
}
