package difficulty

import (
	"errors"
	"math"
	"testing"

	"github.com/tomz197/vectordrift/internal/config"
)

func newDefault(t *testing.T) *Director {
	t.Helper()
	d, err := NewDirector(config.DefaultZones())
	if err != nil {
		t.Fatalf("NewDirector: %v", err)
	}
	return d
}

func TestDifficultyIsMonotonic(t *testing.T) {
	d := newDefault(t)
	prev := d.At(0)
	for ts := 0.25; ts < 600; ts += 0.25 {
		p := d.At(ts)
		if p.SpawnInterval > prev.SpawnInterval {
			t.Fatalf("spawn interval rose at t=%v: %v -> %v", ts, prev.SpawnInterval, p.SpawnInterval)
		}
		if p.SpeedMultiplier < prev.SpeedMultiplier {
			t.Fatalf("speed multiplier fell at t=%v: %v -> %v", ts, prev.SpeedMultiplier, p.SpeedMultiplier)
		}
		if p.ScrollMultiplier < prev.ScrollMultiplier {
			t.Fatalf("scroll multiplier fell at t=%v: %v -> %v", ts, prev.ScrollMultiplier, p.ScrollMultiplier)
		}
		prev = p
	}
}

func TestDifficultyIsContinuousAtZoneBoundaries(t *testing.T) {
	d := newDefault(t)
	const eps = 1e-6
	zones := d.Zones()
	for i := 0; i+1 < len(zones); i++ {
		before := d.At(zones[i].End - eps)
		after := d.At(zones[i+1].Start)
		if math.Abs(before.SpawnInterval-after.SpawnInterval) > 1e-3 {
			t.Fatalf("%s->%s spawn interval jumps %v -> %v", zones[i].Name, zones[i+1].Name, before.SpawnInterval, after.SpawnInterval)
		}
		if math.Abs(before.SpeedMultiplier-after.SpeedMultiplier) > 1e-6 {
			t.Fatalf("%s->%s speed jumps %v -> %v", zones[i].Name, zones[i+1].Name, before.SpeedMultiplier, after.SpeedMultiplier)
		}
		if after.Phase != zones[i+1].Name {
			t.Fatalf("phase at %v = %q, want %q", zones[i+1].Start, after.Phase, zones[i+1].Name)
		}
	}
}

func TestDifficultyInterpolatesWithinZone(t *testing.T) {
	d := newDefault(t)
	p := d.At(10) // halfway through BOOT
	if p.Phase != "BOOT" {
		t.Fatalf("phase = %q, want BOOT", p.Phase)
	}
	if p.SpawnInterval != 1850 {
		t.Fatalf("spawn interval = %v, want 1850", p.SpawnInterval)
	}
	if math.Abs(p.SpeedMultiplier-1.05) > 1e-9 {
		t.Fatalf("speed multiplier = %v, want 1.05", p.SpeedMultiplier)
	}
}

func TestDifficultyPlateausHoldConstant(t *testing.T) {
	d := newDefault(t)
	a, b := d.At(51), d.At(64)
	if !a.IsPlateau || a.Phase != "BUFFER" {
		t.Fatalf("t=51 = %+v, want BUFFER plateau", a)
	}
	if a.SpawnInterval != b.SpawnInterval || a.SpeedMultiplier != b.SpeedMultiplier {
		t.Fatalf("plateau drifted: %+v vs %+v", a, b)
	}
	if d.At(30).IsPlateau {
		t.Fatalf("FIREWALL should not be a plateau")
	}
}

func TestDifficultyOutOfRangeTimes(t *testing.T) {
	d := newDefault(t)
	if p := d.At(-5); p.Phase != "BOOT" || p.SpawnInterval != 2000 {
		t.Fatalf("negative time = %+v, want BOOT start values", p)
	}
	last := d.At(1e9)
	if last.Phase != "OVERCLOCK" || last.SpawnInterval != 400 {
		t.Fatalf("far future = %+v, want OVERCLOCK at 400ms", last)
	}

	bounded := []config.Zone{
		{Name: "A", Start: 0, End: 10, SpawnInterval: config.Range{From: 1000, To: 500},
			SpeedMultiplier: config.Range{From: 1, To: 2}, ScrollMultiplier: config.Flat(1)},
	}
	bd, err := NewDirector(bounded)
	if err != nil {
		t.Fatalf("NewDirector: %v", err)
	}
	if p := bd.At(50); p.SpawnInterval != 500 || p.SpeedMultiplier != 2 {
		t.Fatalf("past bounded table = %+v, want end values", p)
	}
}

func TestNewDirectorRejectsBadZones(t *testing.T) {
	tests := []struct {
		name  string
		zones []config.Zone
	}{
		{"empty", nil},
		{"zero length", []config.Zone{{Name: "A", Start: 0, End: 0, SpawnInterval: config.Flat(1)}}},
		{"gap", []config.Zone{
			{Name: "A", Start: 0, End: 10, SpawnInterval: config.Flat(1)},
			{Name: "B", Start: 12, End: math.Inf(1), SpawnInterval: config.Flat(1)},
		}},
		{"unbounded in middle", []config.Zone{
			{Name: "A", Start: 0, End: math.Inf(1), SpawnInterval: config.Flat(1)},
			{Name: "B", Start: 10, End: 20, SpawnInterval: config.Flat(1)},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDirector(tt.zones)
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("NewDirector err = %v, want ErrInvalid", err)
			}
		})
	}
}
