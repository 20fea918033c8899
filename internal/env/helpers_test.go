package env

import (
	"io"
	"log/slog"
	"testing"

	"antcolony/internal/core"
	"antcolony/internal/mapgen"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openLayout returns an empty w x h map with a small anthill in the top-left.
func openLayout(w, h int) *mapgen.Layout {
	return &mapgen.Layout{
		Seed:          1,
		Size:          core.Size{W: w, H: h},
		Walls:         core.NewByteGrid(w, h),
		Food:          core.NewFloatGrid(w, h),
		Anthill:       core.Vec2{X: 3.5, Y: 3.5},
		AnthillRadius: 2,
	}
}

func testConfig(w, h int) Config {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	cfg.Ants = 1
	cfg.MaxSteps = 100
	cfg.AnthillRadius = 2
	cfg.Sensing.Radius = 2
	cfg.Logger = quietLogger()
	return cfg
}

func newTestEnv(t *testing.T, cfg Config, layout *mapgen.Layout, ants []AntState, evaluator Evaluator) *Environment {
	t.Helper()
	for i := range ants {
		ants[i].ID = i
	}
	cfg.Ants = len(ants)
	e := newEnvironment(cfg, layout, ants, evaluator)
	if err := e.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return e
}

type evaluatorFunc func(Transition, Context) (float64, bool)

func (f evaluatorFunc) Evaluate(t Transition, ctx Context) (float64, bool) { return f(t, ctx) }

// shapedReward rewards exploration, pickups and deliveries.
var shapedReward = evaluatorFunc(func(t Transition, _ Context) (float64, bool) {
	r := float64(t.NewCells())
	if t.PickedUp() {
		r += 5
	}
	if t.Dropped() {
		r += 10
	}
	return r, false
})
