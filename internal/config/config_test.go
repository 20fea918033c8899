package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"antcolony/internal/env"
	"antcolony/internal/reward"
)

func TestDefaultsMatchEnvironmentDefaults(t *testing.T) {
	cfg := Default()
	got := cfg.Env(nil)
	want := env.DefaultConfig()
	want.FoodOptions.Retries = got.FoodOptions.Retries
	if got.Width != want.Width || got.Height != want.Height || got.Ants != want.Ants || got.MaxSteps != want.MaxSteps {
		t.Fatalf("world mismatch: %+v vs %+v", got, want)
	}
	if got.Seed != nil {
		t.Fatal("default seed should be unset")
	}
	if got.Pheromone != want.Pheromone || got.Kinematics != want.Kinematics || got.Sensing != want.Sensing {
		t.Fatalf("section mismatch:\n got %+v %+v %+v\nwant %+v %+v %+v",
			got.Pheromone, got.Kinematics, got.Sensing, want.Pheromone, want.Kinematics, want.Sensing)
	}
	if got.WallOptions != want.WallOptions || got.FoodOptions != want.FoodOptions || got.Walls != want.Walls || got.Food != want.Food {
		t.Fatalf("map mismatch: %+v %+v", got.WallOptions, got.FoodOptions)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Run.Episodes != 30 || cfg.Run.StatsEvery != 50 || cfg.Run.SaveEvery != 10 {
		t.Fatalf("unexpected run defaults %+v", cfg.Run)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte("world:\n  ants: 8\n  seed: 7\npheromone:\n  channels: 3\nrun:\n  episodes: 2\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.World.Ants != 8 || cfg.World.Seed == nil || *cfg.World.Seed != 7 {
		t.Fatalf("user values not applied: %+v", cfg.World)
	}
	if cfg.World.Width != 200 || cfg.Pheromone.Diffusion != 0.1 {
		t.Fatal("keys absent from the file should keep their defaults")
	}
	if cfg.Pheromone.Channels != 3 || cfg.Run.Episodes != 2 {
		t.Fatalf("nested values not applied: %+v %+v", cfg.Pheromone, cfg.Run)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Parse([]byte("world: [not, a, map]")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	seed := int64(99)
	cfg.World.Seed = &seed
	cfg.Map.Walls.Generator = "empty"
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *back.World.Seed != 99 || back.Map.Walls.Generator != "empty" {
		t.Fatalf("round trip lost values: %+v", back.World)
	}
}

func TestResolveAppliesOverrides(t *testing.T) {
	cfg := Default()
	overrides, err := ParseOverrides("ants=4, w=50 ,h=40,seed=3")
	if err != nil {
		t.Fatalf("overrides: %v", err)
	}
	ec, err := cfg.Resolve(overrides, slog.Default())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ec.Ants != 4 || ec.Width != 50 || ec.Height != 40 || *ec.Seed != 3 {
		t.Fatalf("overrides not applied: %+v", ec)
	}

	if _, err := cfg.Resolve(map[string]string{"ants": "0"}, nil); !errors.Is(err, env.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParseOverrides(t *testing.T) {
	m, err := ParseOverrides("")
	if err != nil || len(m) != 0 {
		t.Fatalf("empty input: %v %v", m, err)
	}
	if _, err := ParseOverrides("ants"); err == nil {
		t.Fatal("expected error for missing '='")
	}
	if _, err := ParseOverrides("=3"); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestEvaluatorFromConfig(t *testing.T) {
	cfg := Default()
	ev, err := cfg.Evaluator()
	if err != nil {
		t.Fatalf("evaluator: %v", err)
	}
	if ev.(reward.All) != reward.Default() {
		t.Fatalf("unexpected evaluator %+v", ev)
	}
	cfg.Reward.Name = "nope"
	if _, err := cfg.Evaluator(); err == nil {
		t.Fatal("expected error for unknown reward")
	}
}

func TestLevel(t *testing.T) {
	cases := map[string]slog.Level{"debug": slog.LevelDebug, "WARN": slog.LevelWarn, "": slog.LevelInfo, "loud": slog.LevelInfo}
	for in, want := range cases {
		if got := (RunConfig{LogLevel: in}).Level(); got != want {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}
