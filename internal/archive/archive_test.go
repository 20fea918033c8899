package archive

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"testing"

	"antcolony/internal/core"
	"antcolony/internal/env"
)

func sampleSnapshots(t *testing.T, steps int) []env.Snapshot {
	t.Helper()
	cfg := env.DefaultConfig()
	cfg.Width, cfg.Height = 40, 30
	cfg.Ants = 4
	cfg.FoodOptions.Clusters = 3
	cfg.FoodOptions.RadiusMin, cfg.FoodOptions.RadiusMax = 2, 3
	cfg.Sensing.Radius = 1
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	seed := int64(4)
	cfg.Seed = &seed

	gen, err := env.NewGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	e, err := gen.Generate(nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	actions := make([]env.Action, cfg.Ants)
	for i := range actions {
		actions[i] = env.Action{Linear: 1, Rotation: float64(10 * i), Channel: i % 2, Deposit: 0.5}
	}
	snaps := []env.Snapshot{e.SaveState()}
	for i := 0; i < steps; i++ {
		if _, err := e.StepActions(actions); err != nil {
			t.Fatalf("step: %v", err)
		}
		e.Update()
		snaps = append(snaps, e.SaveState())
	}
	return snaps
}

func TestWriteReadFile(t *testing.T) {
	snaps := sampleSnapshots(t, 3)
	a := New("run-1", 4)
	a.SetParameters(core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "World", Params: []core.Parameter{core.IntParam("ants", "Ants", 4)}},
	}})
	for _, s := range snaps {
		a.Add(0, s)
	}
	a.Add(9, snaps[len(snaps)-1])

	path := filepath.Join(t.TempDir(), "snapshots.json.gz")
	if err := a.WriteFile(path); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h := back.Header(); h.RunID != "run-1" || h.RootSeed != 4 || h.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("unexpected header %+v", h)
	}
	if p, ok := back.Header().Parameters.Lookup("ants"); !ok || p.Value != "4" {
		t.Fatalf("parameters lost: %+v", back.Header().Parameters)
	}
	if back.Len() != len(snaps)+1 {
		t.Fatalf("expected %d entries, got %d", len(snaps)+1, back.Len())
	}
	if !slices.Equal(back.Episodes(), []int{0, 9}) {
		t.Fatalf("unexpected episodes %v", back.Episodes())
	}
	frames := back.Frames(0)
	for i, f := range frames {
		want := snaps[i]
		if f.Step != want.Step || f.Frame != want.Frame || !slices.Equal(f.Ants, want.Ants) {
			t.Fatalf("frame %d: ants/step differ", i)
		}
		if !slices.Equal(f.Walls, want.Walls) || !slices.Equal(f.Food, want.Food) || !slices.Equal(f.Heat, want.Heat) {
			t.Fatalf("frame %d: grids differ", i)
		}
		for c := range want.Pheromones {
			if !slices.Equal(f.Pheromones[c], want.Pheromones[c]) {
				t.Fatalf("frame %d: pheromone channel %d differs", i, c)
			}
		}
		if len(f.Perception) != len(want.Perception) {
			t.Fatalf("frame %d: perception count %d vs %d", i, len(f.Perception), len(want.Perception))
		}
	}
}

func TestReadRejectsOtherVersions(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(`{"header":{"schema_version":2,"codec_version":1},"entries":[]}`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&buf); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("not gzip"))); err == nil {
		t.Fatal("expected error for non-gzip input")
	}
}

func TestEntriesIsACopy(t *testing.T) {
	a := New("run", 1)
	a.Add(1, env.Snapshot{Step: 3})
	entries := a.Entries()
	entries[0].Episode = 7
	if a.Entries()[0].Episode != 1 {
		t.Fatal("entries alias archive storage")
	}
}
