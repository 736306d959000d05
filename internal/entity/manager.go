package entity

import (
	"fmt"
	"slices"

	"github.com/tomz197/vectordrift/internal/config"
)

// Counts is the live population per collection.
type Counts struct {
	Bursts     int
	Blockers   int
	Chasers    int
	Flares     int
	Drones     int
	LaserGates int
	XPOrbs     int
	PowerUps   int
}

// Manager owns every live entity collection. Entities are only removed by
// RemoveAllDead, never in the middle of a tick.
type Manager struct {
	Bursts   []*Entity
	Blockers []*Entity
	Chasers  []*Entity
	Flares   []*Entity
	Drones   []*Entity
	Gates    []*LaserGate
	XPOrbs   []*Entity
	PowerUps []*Entity

	nextID  uint64
	enemies []*Entity
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) assignID(e *Entity) {
	m.nextID++
	e.ID = m.nextID
}

// Add takes ownership of e and files it under its kind. Laser anchors must
// arrive through AddLaserGate.
func (m *Manager) Add(e *Entity) *Entity {
	m.assignID(e)
	switch e.Kind {
	case KindBurst:
		m.Bursts = append(m.Bursts, e)
	case KindBlocker:
		m.Blockers = append(m.Blockers, e)
	case KindChaser:
		m.Chasers = append(m.Chasers, e)
	case KindFlare:
		m.Flares = append(m.Flares, e)
	case KindShieldDrone:
		m.Drones = append(m.Drones, e)
	case KindXPOrb:
		m.XPOrbs = append(m.XPOrbs, e)
	case KindPowerUp:
		m.PowerUps = append(m.PowerUps, e)
	default:
		panic(fmt.Sprintf("entity: cannot add %s directly", e.Kind))
	}
	return e
}

// AddLaserGate takes ownership of g and its anchors.
func (m *Manager) AddLaserGate(g *LaserGate) *LaserGate {
	m.nextID++
	g.ID = m.nextID
	for _, a := range g.Anchors() {
		m.assignID(a)
	}
	m.Gates = append(m.Gates, g)
	return g
}

// Enemies returns every live enemy in resolution order: blockers, chasers,
// flares, drones, then laser anchors. The slice is reused by the next call.
func (m *Manager) Enemies() []*Entity {
	out := m.enemies[:0]
	for _, group := range [][]*Entity{m.Blockers, m.Chasers, m.Flares, m.Drones} {
		for _, e := range group {
			if e.Alive {
				out = append(out, e)
			}
		}
	}
	for _, g := range m.Gates {
		for _, a := range g.Anchors() {
			if a.Alive {
				out = append(out, a)
			}
		}
	}
	m.enemies = out
	return out
}

// All returns every entity the manager holds, dead or alive, in a new slice.
func (m *Manager) All() []*Entity {
	out := make([]*Entity, 0, len(m.Bursts)+len(m.Blockers)+len(m.Chasers)+
		len(m.Flares)+len(m.Drones)+2*len(m.Gates)+len(m.XPOrbs)+len(m.PowerUps))
	out = append(out, m.Bursts...)
	out = append(out, m.Blockers...)
	out = append(out, m.Chasers...)
	out = append(out, m.Flares...)
	out = append(out, m.Drones...)
	for _, g := range m.Gates {
		out = append(out, g.Anchors()...)
	}
	out = append(out, m.XPOrbs...)
	out = append(out, m.PowerUps...)
	return out
}

func countAlive(es []*Entity) int {
	n := 0
	for _, e := range es {
		if e.Alive {
			n++
		}
	}
	return n
}

// Counts returns the number of live members of each collection.
func (m *Manager) Counts() Counts {
	gates := 0
	for _, g := range m.Gates {
		if g.Alive() {
			gates++
		}
	}
	return Counts{
		Bursts:     countAlive(m.Bursts),
		Blockers:   countAlive(m.Blockers),
		Chasers:    countAlive(m.Chasers),
		Flares:     countAlive(m.Flares),
		Drones:     countAlive(m.Drones),
		LaserGates: gates,
		XPOrbs:     countAlive(m.XPOrbs),
		PowerUps:   countAlive(m.PowerUps),
	}
}

// Live returns the live count of a spawnable kind.
func (m *Manager) Live(kind config.SpawnKind) int {
	c := m.Counts()
	switch kind {
	case config.SpawnBlocker:
		return c.Blockers
	case config.SpawnChaser:
		return c.Chasers
	case config.SpawnFlare:
		return c.Flares
	case config.SpawnLaserGate:
		return c.LaserGates
	}
	return 0
}

// UpdateAll advances every entity and gate by one tick. Hosts move before
// their drones so escorts track the new position.
func (m *Manager) UpdateAll(ctx UpdateContext) {
	for _, group := range [][]*Entity{m.Bursts, m.Blockers, m.Chasers, m.Flares, m.Drones} {
		for _, e := range group {
			Update(e, ctx)
		}
	}
	for _, g := range m.Gates {
		if !g.Alive() {
			continue
		}
		g.Advance(ctx.Delta)
		for _, a := range g.Anchors() {
			Update(a, ctx)
		}
	}
	for _, group := range [][]*Entity{m.XPOrbs, m.PowerUps} {
		for _, e := range group {
			Update(e, ctx)
		}
	}
}

func dead(e *Entity) bool { return !e.Alive }

// RemoveAllDead drops every dead entity and every gate whose anchors are
// both gone. References to removed entities are cleared: drones lose a dead
// host and start roaming, gates forget a destroyed anchor.
func (m *Manager) RemoveAllDead() {
	for _, d := range m.Drones {
		if d.Orbit.Host != nil && !d.Orbit.Host.Alive {
			d.Orbit.Host = nil
			if d.Alive && !d.Orbit.Roaming {
				d.Orbit.Roaming = true
				d.Orbit.erraticTimer = droneErraticInterval
			}
		}
	}
	m.Bursts = slices.DeleteFunc(m.Bursts, dead)
	m.Blockers = slices.DeleteFunc(m.Blockers, dead)
	m.Chasers = slices.DeleteFunc(m.Chasers, dead)
	m.Flares = slices.DeleteFunc(m.Flares, dead)
	m.Drones = slices.DeleteFunc(m.Drones, dead)
	m.XPOrbs = slices.DeleteFunc(m.XPOrbs, dead)
	m.PowerUps = slices.DeleteFunc(m.PowerUps, dead)

	m.Gates = slices.DeleteFunc(m.Gates, func(g *LaserGate) bool {
		if g.A != nil && !g.A.Alive {
			g.A = nil
		}
		if g.B != nil && !g.B.Alive {
			g.B = nil
		}
		return g.A == nil && g.B == nil
	})
	clear(m.enemies[:cap(m.enemies)])
	m.enemies = m.enemies[:0]
}

// Reset empties every collection.
func (m *Manager) Reset() {
	*m = Manager{}
}
