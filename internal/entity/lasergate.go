package entity

import (
	"math"

	"github.com/tomz197/vectordrift/internal/config"
)

// LaserGate is a composite of two anchors joined by a duty-cycled beam.
// It is not an Entity itself: it lives while either anchor lives.
// A destroyed anchor is dropped (set to nil) by Manager.RemoveAllDead.
type LaserGate struct {
	ID         uint64
	A, B       *Entity
	CycleTimer float64 // ms into the current cycle
	CycleMs    float64
	BeamOnMs   float64
}

// NewLaserGate creates a gate whose anchors sit at (x1, y) and (x2, y).
func NewLaserGate(cfg *config.Config, x1, x2, y, scroll float64) *LaserGate {
	return &LaserGate{
		A:        newLaserAnchor(cfg, x1, y, scroll),
		B:        newLaserAnchor(cfg, x2, y, scroll),
		CycleMs:  cfg.LaserCycleMs,
		BeamOnMs: cfg.LaserBeamOnMs,
	}
}

// Advance moves the duty cycle forward. Anchors are updated separately.
func (g *LaserGate) Advance(dt float64) {
	g.CycleTimer = math.Mod(g.CycleTimer+dt*1000, g.CycleMs)
}

func anchorAlive(a *Entity) bool {
	return a != nil && a.Alive
}

// Alive reports whether either anchor still stands.
func (g *LaserGate) Alive() bool {
	return anchorAlive(g.A) || anchorAlive(g.B)
}

// BeamActive reports whether the beam is on: both anchors alive and the
// cycle inside its on window.
func (g *LaserGate) BeamActive() bool {
	return anchorAlive(g.A) && anchorAlive(g.B) && g.CycleTimer < g.BeamOnMs
}

// Beam returns the beam's horizontal span and height. Only meaningful while
// both anchors exist.
func (g *LaserGate) Beam() (x1, x2, y float64) {
	return math.Min(g.A.X, g.B.X), math.Max(g.A.X, g.B.X), (g.A.Y + g.B.Y) / 2
}

// Anchors returns the anchors still present.
func (g *LaserGate) Anchors() []*Entity {
	out := make([]*Entity, 0, 2)
	if g.A != nil {
		out = append(out, g.A)
	}
	if g.B != nil {
		out = append(out, g.B)
	}
	return out
}
