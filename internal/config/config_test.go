package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	if !cfg.Zones[len(cfg.Zones)-1].Unbounded() {
		t.Fatalf("last default zone is bounded")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Width = 0
	cfg.PlayerRadius = -1
	cfg.LaserBeamOnMs = cfg.LaserCycleMs + 1
	cfg.PowerUpDropChance = 2

	err := cfg.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() = %v, want ErrInvalid", err)
	}
	for _, want := range []string{"Width", "PlayerRadius", "LaserBeamOnMs", "PowerUpDropChance"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("Validate() error does not mention %s: %v", want, err)
		}
	}
}

func TestValidateSpawnRules(t *testing.T) {
	cfg := Default()
	cfg.SpawnRules = append(cfg.SpawnRules, cfg.SpawnRules[0])
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("Validate() = %v, want duplicate rule error", err)
	}
	cfg.SpawnRules = nil
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate() accepted empty spawn rules")
	}
}

func TestValidateZones(t *testing.T) {
	interval := Range{From: 1000, To: 500}
	tests := []struct {
		name  string
		zones []Zone
		ok    bool
	}{
		{"empty", nil, false},
		{"single unbounded", []Zone{{Name: "A", End: math.Inf(1), SpawnInterval: interval}}, true},
		{"late start", []Zone{{Name: "A", Start: 1, End: math.Inf(1), SpawnInterval: interval}}, false},
		{"gap", []Zone{
			{Name: "A", End: 10, SpawnInterval: interval},
			{Name: "B", Start: 11, End: math.Inf(1), SpawnInterval: interval},
		}, false},
		{"unbounded in the middle", []Zone{
			{Name: "A", End: math.Inf(1), SpawnInterval: interval},
			{Name: "B", Start: 10, End: 20, SpawnInterval: interval},
		}, false},
		{"empty zone", []Zone{
			{Name: "A", End: 0, SpawnInterval: interval},
		}, false},
		{"zero interval", []Zone{{Name: "A", End: math.Inf(1), SpawnInterval: Range{From: 0, To: 100}}}, false},
		{"bounded last", []Zone{
			{Name: "A", End: 10, SpawnInterval: interval},
			{Name: "B", Start: 10, End: 20, SpawnInterval: interval},
		}, true},
	}
	for _, tt := range tests {
		err := ValidateZones(tt.zones)
		if (err == nil) != tt.ok {
			t.Fatalf("%s: ValidateZones() = %v, want ok=%v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: error %v does not wrap ErrInvalid", tt.name, err)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadTuning(t *testing.T) {
	path := writeFile(t, "tuning.json", `{
		"PlayerMaxHealth": 250,
		"Zones": [
			{"Name": "WARMUP", "Start": 0, "End": 10, "SpawnInterval": {"From": 1500, "To": 1000}},
			{"Name": "RUSH", "Start": 10, "End": 0, "SpawnInterval": {"From": 300, "To": 300}}
		]
	}`)
	cfg, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("LoadTuning() error = %v", err)
	}
	if cfg.PlayerMaxHealth != 250 {
		t.Fatalf("PlayerMaxHealth = %v, want 250", cfg.PlayerMaxHealth)
	}
	if cfg.FlightMeterMax != Default().FlightMeterMax {
		t.Fatalf("FlightMeterMax = %v, want the default", cfg.FlightMeterMax)
	}
	if len(cfg.Zones) != 2 || cfg.Zones[1].Name != "RUSH" || !cfg.Zones[1].Unbounded() {
		t.Fatalf("zones = %+v, want WARMUP then unbounded RUSH", cfg.Zones)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v, want ErrNotExist", err)
	}
	if _, err := LoadTuning(writeFile(t, "bad.json", "{")); err == nil {
		t.Fatalf("LoadTuning() accepted malformed JSON")
	}
	if _, err := LoadTuning(writeFile(t, "invalid.json", `{"Width": -5}`)); !errors.Is(err, ErrInvalid) {
		t.Fatalf("invalid tuning error = %v, want ErrInvalid", err)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("VD_STR", "hello")
	t.Setenv("VD_INT", "42")
	t.Setenv("VD_BAD_INT", "forty")
	t.Setenv("VD_BOOL", "true")
	t.Setenv("VD_FLOAT", "0.25")
	t.Setenv("VD_DUR", "15s")

	if got := GetEnv("VD_STR", "x"); got != "hello" {
		t.Fatalf("GetEnv = %q, want hello", got)
	}
	if got := GetEnv("VD_UNSET", "x"); got != "x" {
		t.Fatalf("GetEnv unset = %q, want x", got)
	}
	if got := GetEnvInt("VD_INT", 1); got != 42 {
		t.Fatalf("GetEnvInt = %d, want 42", got)
	}
	if got := GetEnvInt("VD_BAD_INT", 1); got != 1 {
		t.Fatalf("GetEnvInt bad = %d, want fallback 1", got)
	}
	if got := GetEnvBool("VD_BOOL", false); !got {
		t.Fatalf("GetEnvBool = false, want true")
	}
	if got := GetEnvFloat("VD_FLOAT", 1); got != 0.25 {
		t.Fatalf("GetEnvFloat = %v, want 0.25", got)
	}
	if got := GetEnvDuration("VD_DUR", time.Second); got != 15*time.Second {
		t.Fatalf("GetEnvDuration = %v, want 15s", got)
	}
	if got := GetEnvDuration("VD_STR", time.Second); got != time.Second {
		t.Fatalf("GetEnvDuration bad = %v, want fallback 1s", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("VD_KEEP", "original")
	path := writeFile(t, "test.env", "VD_KEEP=overridden\nVD_DOTENV_NEW=from-file\n")
	t.Cleanup(func() { os.Unsetenv("VD_DOTENV_NEW") })

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("VD_DOTENV_NEW"); got != "from-file" {
		t.Fatalf("VD_DOTENV_NEW = %q, want from-file", got)
	}
	if got := os.Getenv("VD_KEEP"); got != "original" {
		t.Fatalf("VD_KEEP = %q, existing variables must not be overridden", got)
	}

	// a missing default .env is fine
	t.Chdir(t.TempDir())
	if err := LoadDotEnv(); err != nil {
		t.Fatalf("LoadDotEnv() without .env = %v, want nil", err)
	}
}
