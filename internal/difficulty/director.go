// Package difficulty maps survival time onto the zone table and interpolates
// the tuning that drives spawning and enemy speed.
package difficulty

import (
	"github.com/tomz197/vectordrift/internal/config"
	"github.com/tomz197/vectordrift/internal/physics"
)

// Params is the difficulty in effect at one moment of a run.
type Params struct {
	SpawnInterval    float64 // milliseconds between spawn decisions
	SpeedMultiplier  float64
	ScrollMultiplier float64
	Phase            string // zone name
	IsPlateau        bool
	Index            int // zone index
}

// Director evaluates the zone table. It holds no per-run state.
type Director struct {
	zones []config.Zone
}

// NewDirector validates zones and returns a director over a private copy.
func NewDirector(zones []config.Zone) (*Director, error) {
	if err := config.ValidateZones(zones); err != nil {
		return nil, err
	}
	return &Director{zones: append([]config.Zone(nil), zones...)}, nil
}

// Zones returns the zone table.
func (d *Director) Zones() []config.Zone {
	return d.zones
}

// At returns the difficulty after elapsed seconds of survival.
// Times before the first zone use the first zone's start values; times past
// a bounded final zone use its end values.
func (d *Director) At(elapsed float64) Params {
	idx := len(d.zones) - 1
	progress := 1.0
	for i, z := range d.zones {
		if elapsed < z.End {
			idx = i
			progress = zoneProgress(z, elapsed)
			break
		}
	}
	z := d.zones[idx]
	return Params{
		SpawnInterval:    physics.Lerp(z.SpawnInterval.From, z.SpawnInterval.To, progress),
		SpeedMultiplier:  physics.Lerp(z.SpeedMultiplier.From, z.SpeedMultiplier.To, progress),
		ScrollMultiplier: physics.Lerp(z.ScrollMultiplier.From, z.ScrollMultiplier.To, progress),
		Phase:            z.Name,
		IsPlateau:        isPlateau(z),
		Index:            idx,
	}
}

func zoneProgress(z config.Zone, t float64) float64 {
	if z.Unbounded() {
		return 1
	}
	return physics.Clamp((t-z.Start)/(z.End-z.Start), 0, 1)
}

func isPlateau(z config.Zone) bool {
	return z.SpawnInterval.From == z.SpawnInterval.To &&
		z.SpeedMultiplier.From == z.SpeedMultiplier.To &&
		z.ScrollMultiplier.From == z.ScrollMultiplier.To
}
