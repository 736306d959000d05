package config

import "math"

// Range is a pair of endpoint values interpolated across a zone or sampled
// uniformly at spawn time.
type Range struct {
	From float64
	To   float64
}

// Flat returns a range whose endpoints are both v.
func Flat(v float64) Range {
	return Range{From: v, To: v}
}

// Zone is a named time interval of the difficulty curve.
// End is math.Inf(1) for the last, unbounded zone.
type Zone struct {
	Name             string
	Start            float64 // seconds
	End              float64 // seconds
	SpawnInterval    Range   // milliseconds between spawn decisions
	SpeedMultiplier  Range
	ScrollMultiplier Range
}

// Unbounded reports whether the zone never ends.
func (z Zone) Unbounded() bool {
	return math.IsInf(z.End, 1)
}

// SpawnKind identifies a spawnable enemy formation.
type SpawnKind int

const (
	SpawnBlocker SpawnKind = iota
	SpawnChaser
	SpawnFlare
	SpawnLaserGate
)

func (k SpawnKind) String() string {
	switch k {
	case SpawnBlocker:
		return "blocker"
	case SpawnChaser:
		return "chaser"
	case SpawnFlare:
		return "flare"
	case SpawnLaserGate:
		return "laserGate"
	default:
		return "unknown"
	}
}

// SpawnRule gates one spawn kind by unlock time and density cap.
type SpawnRule struct {
	Kind     SpawnKind
	UnlockAt float64 // seconds of survival before the kind can spawn
	Weight   int
	Cap      int // maximum concurrent live count
}

// ComboTier maps a minimum combo count to a score multiplier.
type ComboTier struct {
	MinCount   int
	Multiplier float64
}

// Config is the complete gameplay tuning table. It is treated as immutable
// once a simulation has been constructed from it.
// Distances are in pixels, speeds in pixels/second, timers in milliseconds.
type Config struct {
	// World
	Width           float64
	Height          float64
	CenterX         float64
	CenterY         float64
	GroundY         float64
	ArenaLeft       float64
	ArenaRight      float64
	MinFlightY      float64 // flight cannot rise above this y
	OffscreenMargin float64 // entities sinking past GroundY+margin die

	// Player
	PlayerHorizontalSpeed float64
	PlayerRadius          float64
	PlayerMaxHealth       float64
	PlayerInvulnMs        float64
	ShieldInvulnMs        float64

	// Flight mode
	FlightRiseSpeed        float64
	FlightMeterMax         float64
	FlightMeterDrain       float64 // per second while flying
	FlightMeterRecharge    float64 // per second on the ground
	FlightReentryThreshold float64 // meter required to take off again
	FlightFireCooldownMs   float64
	FlightFireSpeed        float64

	// Impact mode
	ImpactFallAccel      float64
	ImpactMaxFallSpeed   float64
	ImpactSlamRadius     float64
	ImpactSlamDamage     int
	ImpactSlideSpeed     float64
	ImpactSlideFriction  float64 // slide velocity factor applied per tick
	ImpactXPMagnetRadius float64

	// Energy burst
	BurstRadius     float64
	BurstDamage     int
	BurstLifetimeMs float64

	// Data blocker
	BlockerRadius  float64
	BlockerHP      int
	BlockerSpeed   float64
	BlockerScore   int
	BlockerDriftVY float64

	// Chaser bot
	ChaserSpeed  float64
	ChaserRadius float64
	ChaserHP     int
	ChaserScore  int

	// Gravity flare
	FlareRadius       float64
	FlarePullRadius   float64
	FlarePullStrength float64
	FlareHP           int
	FlareScore        int
	FlareDriftVY      float64

	// Shield drone
	ShieldDroneRadius      float64
	ShieldDroneHP          int
	ShieldDroneSpeed       float64
	ShieldDroneScore       int
	ShieldDroneOrbitRadius float64
	ShieldDroneOrbitSpeed  float64 // radians per second

	// Laser gate
	LaserAnchorRadius  float64
	LaserAnchorHP      int
	LaserAnchorScore   int
	LaserCycleMs       float64
	LaserBeamOnMs      float64
	LaserDriftVY       float64
	LaserBeamTolerance float64 // extra vertical reach of the beam

	// XP orb
	XPOrbRadius      float64
	XPOrbValue       int
	XPOrbLifetimeMs  float64
	XPOrbMagnetSpeed float64

	// Power-ups
	PowerUpRadius        float64
	PowerUpLifetimeMs    float64
	PowerUpDropChance    float64
	PowerUpFallVY        float64
	ScoreBoostDurationMs float64
	ScoreBoostFactor     float64
	SlamPlusDurationMs   float64

	// Scoring
	ScorePerXP          int
	MultiplierIncrement float64
	MultiplierMax       float64
	MultiplierDecayMs   float64 // delay after a bump before decay starts
	MultiplierDecayRate float64 // per second once decaying
	ComboWindowMs       float64
	ComboTiers          []ComboTier

	// Damage
	ContactDamage float64
	LaserDamage   float64
	HitFlashMs    float64

	// Spawning
	SpawnRules        []SpawnRule
	SpawnEdgeInset    float64 // spawn x stays this far inside the arena
	BlockerSpawnY     Range
	FlareSpawnY       Range
	LaserSpawnY       Range
	LaserSeparation   Range
	LaserEdgeInset    float64 // anchors stay this far inside the arena
	ChaserEdgeOffset  float64 // chasers enter this far outside the arena
	DroneEscortUnlock float64 // seconds before blockers bring escorts
	DroneEscortMax    int
	DroneCap          int

	// Difficulty
	Zones []Zone
}

// Default returns the tuning table of the shipped game.
func Default() Config {
	return Config{
		Width:           800,
		Height:          600,
		CenterX:         400,
		CenterY:         300,
		GroundY:         500,
		ArenaLeft:       40,
		ArenaRight:      760,
		MinFlightY:      40,
		OffscreenMargin: 50,

		PlayerHorizontalSpeed: 250,
		PlayerRadius:          10,
		PlayerMaxHealth:       100,
		PlayerInvulnMs:        1500,
		ShieldInvulnMs:        500,

		FlightRiseSpeed:        120,
		FlightMeterMax:         100,
		FlightMeterDrain:       20,
		FlightMeterRecharge:    35,
		FlightReentryThreshold: 10,
		FlightFireCooldownMs:   300,
		FlightFireSpeed:        400,

		ImpactFallAccel:      800,
		ImpactMaxFallSpeed:   600,
		ImpactSlamRadius:     60,
		ImpactSlamDamage:     2,
		ImpactSlideSpeed:     180,
		ImpactSlideFriction:  0.95,
		ImpactXPMagnetRadius: 80,

		BurstRadius:     5,
		BurstDamage:     1,
		BurstLifetimeMs: 2000,

		BlockerRadius:  20,
		BlockerHP:      2,
		BlockerSpeed:   30,
		BlockerScore:   50,
		BlockerDriftVY: 20,

		ChaserSpeed:  100,
		ChaserRadius: 10,
		ChaserHP:     1,
		ChaserScore:  100,

		FlareRadius:       14,
		FlarePullRadius:   120,
		FlarePullStrength: 200,
		FlareHP:           1,
		FlareScore:        150,
		FlareDriftVY:      14,

		ShieldDroneRadius:      7,
		ShieldDroneHP:          1,
		ShieldDroneSpeed:       120,
		ShieldDroneScore:       75,
		ShieldDroneOrbitRadius: 40,
		ShieldDroneOrbitSpeed:  3,

		LaserAnchorRadius:  8,
		LaserAnchorHP:      2,
		LaserAnchorScore:   100,
		LaserCycleMs:       1500,
		LaserBeamOnMs:      900,
		LaserDriftVY:       12,
		LaserBeamTolerance: 4,

		XPOrbRadius:      6,
		XPOrbValue:       10,
		XPOrbLifetimeMs:  10000,
		XPOrbMagnetSpeed: 300,

		PowerUpRadius:        10,
		PowerUpLifetimeMs:    8000,
		PowerUpDropChance:    0.15,
		PowerUpFallVY:        20,
		ScoreBoostDurationMs: 10000,
		ScoreBoostFactor:     2,
		SlamPlusDurationMs:   10000,

		ScorePerXP:          10,
		MultiplierIncrement: 0.1,
		MultiplierMax:       5.0,
		MultiplierDecayMs:   4000,
		MultiplierDecayRate: 0.1,
		ComboWindowMs:       3000,
		ComboTiers: []ComboTier{
			{MinCount: 3, Multiplier: 2},
			{MinCount: 5, Multiplier: 3},
			{MinCount: 10, Multiplier: 5},
		},

		ContactDamage: 20,
		LaserDamage:   15,
		HitFlashMs:    120,

		SpawnRules: []SpawnRule{
			{Kind: SpawnBlocker, UnlockAt: 0, Weight: 50, Cap: 8},
			{Kind: SpawnChaser, UnlockAt: 15, Weight: 30, Cap: 6},
			{Kind: SpawnFlare, UnlockAt: 30, Weight: 20, Cap: 4},
			{Kind: SpawnLaserGate, UnlockAt: 45, Weight: 15, Cap: 3},
		},
		SpawnEdgeInset:    20,
		BlockerSpawnY:     Range{From: 80, To: 400},
		FlareSpawnY:       Range{From: 100, To: 420},
		LaserSpawnY:       Range{From: 120, To: 380},
		LaserSeparation:   Range{From: 120, To: 280},
		LaserEdgeInset:    30,
		ChaserEdgeOffset:  20,
		DroneEscortUnlock: 60,
		DroneEscortMax:    2,
		DroneCap:          6,

		Zones: DefaultZones(),
	}
}

// DefaultZones returns the shipped difficulty curve. Adjacent zones share
// endpoint values so the curve is continuous; BUFFER, CACHE and OVERCLOCK
// are plateaus.
func DefaultZones() []Zone {
	return []Zone{
		{Name: "BOOT", Start: 0, End: 20,
			SpawnInterval: Range{2000, 1700}, SpeedMultiplier: Range{1.0, 1.1}, ScrollMultiplier: Range{1.0, 1.1}},
		{Name: "FIREWALL", Start: 20, End: 50,
			SpawnInterval: Range{1700, 1200}, SpeedMultiplier: Range{1.1, 1.35}, ScrollMultiplier: Range{1.1, 1.3}},
		{Name: "BUFFER", Start: 50, End: 65,
			SpawnInterval: Flat(1200), SpeedMultiplier: Flat(1.35), ScrollMultiplier: Flat(1.3)},
		{Name: "PROXY", Start: 65, End: 110,
			SpawnInterval: Range{1200, 800}, SpeedMultiplier: Range{1.35, 1.7}, ScrollMultiplier: Range{1.3, 1.6}},
		{Name: "CACHE", Start: 110, End: 125,
			SpawnInterval: Flat(800), SpeedMultiplier: Flat(1.7), ScrollMultiplier: Flat(1.6)},
		{Name: "KERNEL", Start: 125, End: 180,
			SpawnInterval: Range{800, 500}, SpeedMultiplier: Range{1.7, 2.0}, ScrollMultiplier: Range{1.6, 1.9}},
		{Name: "CORE", Start: 180, End: 300,
			SpawnInterval: Range{500, 400}, SpeedMultiplier: Range{2.0, 2.2}, ScrollMultiplier: Range{1.9, 2.0}},
		{Name: "OVERCLOCK", Start: 300, End: math.Inf(1),
			SpawnInterval: Flat(400), SpeedMultiplier: Flat(2.2), ScrollMultiplier: Flat(2.0)},
	}
}

// MaxFallDistance is the drop from the flight ceiling to the ground,
// the distance at which slam scaling saturates.
func (c *Config) MaxFallDistance() float64 {
	return c.GroundY - c.MinFlightY
}

// Rule returns the spawn rule for kind.
func (c *Config) Rule(kind SpawnKind) (SpawnRule, bool) {
	for _, r := range c.SpawnRules {
		if r.Kind == kind {
			return r, true
		}
	}
	return SpawnRule{}, false
}
