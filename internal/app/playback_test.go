package app

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"antcolony/internal/archive"
	"antcolony/internal/core"
	"antcolony/internal/env"
)

func frame(step int) env.Snapshot {
	w, h := 4, 3
	return env.Snapshot{
		Step:       step,
		Width:      w,
		Height:     h,
		Walls:      make([]uint8, w*h),
		Food:       make([]float32, w*h),
		Heat:       make([]float32, w*h),
		Pheromones: [][]float32{make([]float32, w*h)},
		Ants:       []env.AntState{{Pos: core.Vec2{X: 1.5, Y: 1.5}}},
	}
}

func testArchive() *archive.Archive {
	a := archive.New("run", 1)
	for s := 0; s < 3; s++ {
		a.Add(0, frame(s))
	}
	for s := 10; s < 12; s++ {
		a.Add(9, frame(s))
	}
	return a
}

func TestPlaybackNavigation(t *testing.T) {
	pb, err := NewPlayback(testArchive(), -1)
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	step := func() int {
		s, _ := pb.Current()
		return s.Step
	}
	if _, ep := pb.Current(); ep != 0 || step() != 0 {
		t.Fatalf("should start at episode 0 frame 0")
	}
	pb.Advance()
	pb.Advance()
	if step() != 2 {
		t.Fatalf("expected step 2, got %d", step())
	}
	pb.Advance()
	if _, ep := pb.Current(); ep != 9 || step() != 10 {
		t.Fatalf("advance past the end should roll into episode 9, got ep %d step %d", ep, step())
	}
	pb.Step(5)
	if i, n := pb.Position(); i != 1 || n != 2 {
		t.Fatalf("step should clamp, got %d/%d", i, n)
	}
	pb.Step(-5)
	if step() != 10 {
		t.Fatalf("negative step should clamp to the first frame, got %d", step())
	}
	pb.Advance()
	pb.Advance()
	if _, ep := pb.Current(); ep != 0 {
		t.Fatalf("should wrap to the first episode, got %d", ep)
	}
	pb.PrevEpisode()
	if _, ep := pb.Current(); ep != 9 {
		t.Fatalf("prev episode should wrap backwards, got %d", ep)
	}
	pb.Seek(-1)
	if step() != 11 {
		t.Fatalf("seek -1 should pick the last frame, got %d", step())
	}
	if w, h := pb.Size(); w != 4 || h != 3 {
		t.Fatalf("unexpected size %dx%d", w, h)
	}
}

func TestPlaybackStartEpisode(t *testing.T) {
	pb, err := NewPlayback(testArchive(), 9)
	if err != nil {
		t.Fatalf("playback: %v", err)
	}
	if _, ep := pb.Current(); ep != 9 {
		t.Fatalf("expected episode 9, got %d", ep)
	}
	if _, err := NewPlayback(testArchive(), 4); err == nil {
		t.Fatal("expected error for missing episode")
	}
	if _, err := NewPlayback(archive.New("empty", 0), -1); err == nil {
		t.Fatal("expected error for empty archive")
	}
}

func TestExportPNG(t *testing.T) {
	dir := t.TempDir()
	cfg := NewConfig()
	cfg.Archive = filepath.Join(dir, "snapshots.json.gz")
	cfg.PNG = filepath.Join(dir, "frame.png")
	cfg.Episode = 9
	cfg.Heat = true
	if err := testArchive().WriteFile(cfg.Archive); err != nil {
		t.Fatal(err)
	}
	if err := ExportPNG(cfg); err != nil {
		t.Fatalf("export: %v", err)
	}
	f, err := os.Open(cfg.PNG)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("unexpected bounds %v", b)
	}
}
