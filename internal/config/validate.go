package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Validate checks the table for values the simulation cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	positive := func(name string, v float64) {
		if !(v > 0) {
			bad("%s must be positive, got %v", name, v)
		}
	}

	positive("Width", c.Width)
	positive("Height", c.Height)
	if c.ArenaLeft >= c.ArenaRight {
		bad("ArenaLeft (%v) must be less than ArenaRight (%v)", c.ArenaLeft, c.ArenaRight)
	}
	if c.MinFlightY < 0 || c.MinFlightY >= c.GroundY {
		bad("MinFlightY (%v) must lie in [0, GroundY=%v)", c.MinFlightY, c.GroundY)
	}

	for name, r := range map[string]float64{
		"PlayerRadius":      c.PlayerRadius,
		"BurstRadius":       c.BurstRadius,
		"BlockerRadius":     c.BlockerRadius,
		"ChaserRadius":      c.ChaserRadius,
		"FlareRadius":       c.FlareRadius,
		"ShieldDroneRadius": c.ShieldDroneRadius,
		"LaserAnchorRadius": c.LaserAnchorRadius,
		"XPOrbRadius":       c.XPOrbRadius,
		"PowerUpRadius":     c.PowerUpRadius,
		"ImpactSlamRadius":  c.ImpactSlamRadius,
	} {
		positive(name, r)
	}

	for name, hp := range map[string]int{
		"BlockerHP":     c.BlockerHP,
		"ChaserHP":      c.ChaserHP,
		"FlareHP":       c.FlareHP,
		"ShieldDroneHP": c.ShieldDroneHP,
		"LaserAnchorHP": c.LaserAnchorHP,
	} {
		if hp <= 0 {
			bad("%s must be positive, got %d", name, hp)
		}
	}

	positive("PlayerMaxHealth", c.PlayerMaxHealth)
	positive("FlightMeterMax", c.FlightMeterMax)
	if c.FlightReentryThreshold < 0 || c.FlightReentryThreshold >= c.FlightMeterMax {
		bad("FlightReentryThreshold (%v) must lie in [0, FlightMeterMax)", c.FlightReentryThreshold)
	}
	if c.ImpactSlideFriction <= 0 || c.ImpactSlideFriction > 1 {
		bad("ImpactSlideFriction must lie in (0, 1], got %v", c.ImpactSlideFriction)
	}
	positive("ImpactMaxFallSpeed", c.ImpactMaxFallSpeed)
	positive("BurstLifetimeMs", c.BurstLifetimeMs)
	positive("XPOrbLifetimeMs", c.XPOrbLifetimeMs)
	positive("PowerUpLifetimeMs", c.PowerUpLifetimeMs)
	positive("LaserCycleMs", c.LaserCycleMs)
	if c.LaserBeamOnMs < 0 || c.LaserBeamOnMs > c.LaserCycleMs {
		bad("LaserBeamOnMs (%v) must lie in [0, LaserCycleMs]", c.LaserBeamOnMs)
	}
	if c.PowerUpDropChance < 0 || c.PowerUpDropChance > 1 {
		bad("PowerUpDropChance must lie in [0, 1], got %v", c.PowerUpDropChance)
	}
	if c.MultiplierMax < 1 {
		bad("MultiplierMax must be at least 1, got %v", c.MultiplierMax)
	}
	if c.MultiplierIncrement < 0 {
		bad("MultiplierIncrement must not be negative, got %v", c.MultiplierIncrement)
	}
	positive("ComboWindowMs", c.ComboWindowMs)
	for i := 1; i < len(c.ComboTiers); i++ {
		if c.ComboTiers[i].MinCount <= c.ComboTiers[i-1].MinCount {
			bad("ComboTiers must be sorted by MinCount (tier %d)", i)
		}
	}

	if len(c.SpawnRules) == 0 {
		bad("SpawnRules must not be empty")
	}
	seen := make(map[SpawnKind]bool)
	for _, r := range c.SpawnRules {
		if seen[r.Kind] {
			bad("duplicate spawn rule for %s", r.Kind)
		}
		seen[r.Kind] = true
		if r.Weight < 0 || r.Cap < 0 || r.UnlockAt < 0 {
			bad("spawn rule %s has negative weight, cap or unlock time", r.Kind)
		}
	}
	if c.DroneCap < 0 || c.DroneEscortMax < 0 {
		bad("DroneCap and DroneEscortMax must not be negative")
	}
	for name, r := range map[string]Range{
		"BlockerSpawnY":   c.BlockerSpawnY,
		"FlareSpawnY":     c.FlareSpawnY,
		"LaserSpawnY":     c.LaserSpawnY,
		"LaserSeparation": c.LaserSeparation,
	} {
		if r.From > r.To {
			bad("%s is inverted (%v > %v)", name, r.From, r.To)
		}
	}

	if err := ValidateZones(c.Zones); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ValidateZones checks that zones form one contiguous timeline starting at
// zero, with only the last zone allowed to be unbounded.
func ValidateZones(zones []Zone) error {
	if len(zones) == 0 {
		return fmt.Errorf("%w: zone table is empty", ErrInvalid)
	}
	var errs []error
	if zones[0].Start != 0 {
		errs = append(errs, fmt.Errorf("%w: first zone %q must start at 0, got %v", ErrInvalid, zones[0].Name, zones[0].Start))
	}
	for i, z := range zones {
		last := i == len(zones)-1
		if z.Unbounded() && !last {
			errs = append(errs, fmt.Errorf("%w: only the last zone may be unbounded (%q)", ErrInvalid, z.Name))
		}
		if !(z.End > z.Start) || math.IsNaN(z.End) {
			errs = append(errs, fmt.Errorf("%w: zone %q has zero or negative length [%v, %v)", ErrInvalid, z.Name, z.Start, z.End))
		}
		if !last && zones[i+1].Start != z.End {
			errs = append(errs, fmt.Errorf("%w: zone %q ends at %v but %q starts at %v", ErrInvalid, z.Name, z.End, zones[i+1].Name, zones[i+1].Start))
		}
		if z.SpawnInterval.From <= 0 || z.SpawnInterval.To <= 0 {
			errs = append(errs, fmt.Errorf("%w: zone %q needs a positive spawn interval", ErrInvalid, z.Name))
		}
	}
	return errors.Join(errs...)
}

// LoadTuning reads a JSON document from path and overlays it onto Default().
// Keys use the Config field names. A last zone with End 0 (JSON cannot carry
// infinity) is treated as unbounded. The result is validated.
func LoadTuning(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if n := len(cfg.Zones); n > 0 && cfg.Zones[n-1].End == 0 {
		cfg.Zones[n-1].End = math.Inf(1)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
