// Package entity defines the simulation's entity model: a single tagged
// Entity type dispatched on Kind, the LaserGate composite, and the Manager
// that owns every live collection.
package entity

// Kind identifies an entity variant.
type Kind int

const (
	KindBurst Kind = iota
	KindBlocker
	KindChaser
	KindFlare
	KindShieldDrone
	KindLaserAnchor
	KindXPOrb
	KindPowerUp
)

func (k Kind) String() string {
	switch k {
	case KindBurst:
		return "burst"
	case KindBlocker:
		return "blocker"
	case KindChaser:
		return "chaser"
	case KindFlare:
		return "flare"
	case KindShieldDrone:
		return "shieldDrone"
	case KindLaserAnchor:
		return "laserAnchor"
	case KindXPOrb:
		return "xpOrb"
	case KindPowerUp:
		return "powerUp"
	default:
		return "unknown"
	}
}

// IsEnemy reports whether entities of this kind have hit points and can be
// damaged by bursts and slams.
func (k Kind) IsEnemy() bool {
	switch k {
	case KindBlocker, KindChaser, KindFlare, KindShieldDrone, KindLaserAnchor:
		return true
	}
	return false
}

// PowerUpType is the effect granted by a collected power-up.
type PowerUpType int

const (
	PowerFlightRecharge PowerUpType = iota
	PowerScoreBoost
	PowerShield
	PowerSlamPlus
	powerUpTypeCount
)

func (p PowerUpType) String() string {
	switch p {
	case PowerFlightRecharge:
		return "FLIGHT_RECHARGE"
	case PowerScoreBoost:
		return "SCORE_BOOST"
	case PowerShield:
		return "SHIELD"
	case PowerSlamPlus:
		return "SLAM_PLUS"
	default:
		return "UNKNOWN"
	}
}

// Drift is horizontal patrol motion (blockers).
type Drift struct {
	Dir   float64 // -1 or 1
	Speed float64
}

// Pull is a gravity well (flares).
type Pull struct {
	Radius   float64
	Strength float64
	Phase    float64 // pulse phase, radians
}

// Orbit is escort motion around a host (shield drones).
type Orbit struct {
	Host    *Entity
	Angle   float64
	Radius  float64
	Speed   float64 // radians per second
	Roaming bool    // host lost; moving erratically

	erraticTimer float64
	ErraticX     float64
	ErraticY     float64
}

// Life bounds an entity's lifetime in milliseconds.
type Life struct {
	Lifetime float64
	Age      float64
}

// Expired reports whether the lifetime has run out.
func (l Life) Expired() bool {
	return l.Age >= l.Lifetime
}

// Entity is any non-player simulation object. Common fields apply to every
// kind; the payload fields below them are meaningful only for the kinds noted.
type Entity struct {
	ID           uint64
	Kind         Kind
	X, Y         float64
	PrevX, PrevY float64 // position at the start of the tick, for interpolation
	VX, VY       float64
	Radius       float64
	Alive        bool
	HitFlash     float64 // ms remaining
	HP, MaxHP    int
	ScoreValue   int

	Drift      Drift       // blocker
	ChaseSpeed float64     // chaser
	Pull       Pull        // flare
	Orbit      Orbit       // shield drone
	Life       Life        // burst, xp orb, power-up
	Damage     int         // burst
	Value      int         // xp orb
	Magnetized bool        // xp orb
	Power      PowerUpType // power-up
	BobPhase   float64     // power-up
}

// Kill marks the entity dead. Killing a dead entity is a no-op.
func (e *Entity) Kill() {
	e.Alive = false
}

// Hit applies damage and flashes the entity. It returns true if the entity
// survived. Hitting a dead entity does nothing and reports false.
func (e *Entity) Hit(damage int, flashMs float64) (survived bool) {
	if !e.Alive {
		return false
	}
	e.HP -= damage
	e.HitFlash = flashMs
	if e.HP <= 0 {
		e.Kill()
		return false
	}
	return true
}

// Shielded reports whether a live, orbiting shield drone escorts e.
// Only blockers can be escorted.
func (e *Entity) Shielded(drones []*Entity) bool {
	if e.Kind != KindBlocker {
		return false
	}
	for _, d := range drones {
		if d.Alive && !d.Orbit.Roaming && d.Orbit.Host == e {
			return true
		}
	}
	return false
}
