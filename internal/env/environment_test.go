package env

import (
	"errors"
	"math"
	"slices"
	"testing"

	"antcolony/internal/core"
	"antcolony/internal/pheromone"
)

func TestStepRequiresInitialize(t *testing.T) {
	cfg := testConfig(20, 20)
	e := newEnvironment(cfg, openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	if _, err := e.Step([]float64{0}, []float64{0}); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := e.Initialize(); err == nil {
		t.Fatal("second initialize should fail")
	}
	if e.Phase() != PhaseRunning {
		t.Fatalf("expected running, got %s", e.Phase())
	}
}

func TestActionCountMismatchKeepsEpisodeRunning(t *testing.T) {
	e := newTestEnv(t, testConfig(20, 20), openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	if _, err := e.Step([]float64{0, 0}, []float64{0, 0}); err == nil {
		t.Fatal("expected error for wrong action count")
	}
	if _, err := e.Step([]float64{0}, []float64{0, 1}); err == nil {
		t.Fatal("expected error for mismatched command lengths")
	}
	if e.Phase() != PhaseRunning || e.StepCount() != 0 {
		t.Fatalf("bad call must not advance or abort, phase=%s step=%d", e.Phase(), e.StepCount())
	}
}

func TestTerminatesExactlyAtMaxSteps(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.MaxSteps = 5
	e := newTestEnv(t, cfg, openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	for i := 1; i <= 5; i++ {
		res, err := e.Step([]float64{0.5}, []float64{10})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Done != (i == 5) {
			t.Fatalf("step %d: done=%v", i, res.Done)
		}
	}
	if e.Phase() != PhaseTerminated || e.Err() != nil {
		t.Fatalf("expected clean termination, phase=%s err=%v", e.Phase(), e.Err())
	}
	if _, err := e.Step([]float64{0}, []float64{0}); !errors.Is(err, ErrEpisodeDone) {
		t.Fatalf("expected ErrEpisodeDone, got %v", err)
	}
}

func TestEvaluatorCanEndEpisode(t *testing.T) {
	stopAt3 := evaluatorFunc(func(_ Transition, ctx Context) (float64, bool) {
		return 1, ctx.Step == 3
	})
	e := newTestEnv(t, testConfig(20, 20), openLayout(20, 20), []AntState{
		{Pos: core.Vec2{X: 5.5, Y: 5.5}},
		{Pos: core.Vec2{X: 7.5, Y: 5.5}},
	}, stopAt3)
	for i := 1; i <= 3; i++ {
		res, err := e.Step([]float64{0, 0}, []float64{0, 0})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Done != (i == 3) {
			t.Fatalf("step %d: done=%v", i, res.Done)
		}
		if !slices.Equal(res.Rewards, []float64{1, 1}) {
			t.Fatalf("step %d: rewards %v", i, res.Rewards)
		}
	}
	if got := e.Stats().TotalReward; got != 6 {
		t.Fatalf("expected accumulated reward 6, got %v", got)
	}
}

func TestEvaluatorFailureAbortsEpisode(t *testing.T) {
	cases := map[string]Evaluator{
		"panic": evaluatorFunc(func(Transition, Context) (float64, bool) { panic("boom") }),
		"nan":   evaluatorFunc(func(Transition, Context) (float64, bool) { return math.NaN(), false }),
		"inf":   evaluatorFunc(func(Transition, Context) (float64, bool) { return math.Inf(1), false }),
	}
	for name, ev := range cases {
		t.Run(name, func(t *testing.T) {
			e := newTestEnv(t, testConfig(20, 20), openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, ev)
			_, err := e.Step([]float64{0}, []float64{0})
			if !errors.Is(err, ErrEvaluator) {
				t.Fatalf("expected ErrEvaluator, got %v", err)
			}
			if e.Phase() != PhaseTerminated || !errors.Is(e.Err(), ErrEvaluator) {
				t.Fatalf("episode should be aborted, phase=%s err=%v", e.Phase(), e.Err())
			}
			if e.Ants()[0].Reward != 0 {
				t.Fatal("no reward may be applied from a failed evaluation")
			}
		})
	}
}

func TestInvariantViolationAbortsWithoutCommit(t *testing.T) {
	layout := openLayout(20, 20)
	layout.Walls.Set(10, 10, 1)
	layout.Food.Set(5, 5, 1)
	start := []AntState{
		{Pos: core.Vec2{X: 5.5, Y: 5.5}},
		{Pos: core.Vec2{X: 10.5, Y: 10.5}},
	}
	e := newTestEnv(t, testConfig(20, 20), layout, start, nil)
	before := e.Ants()

	_, err := e.Step([]float64{0, 0}, []float64{30, 0})
	if !errors.Is(err, ErrInvariant) {
		t.Fatalf("expected ErrInvariant, got %v", err)
	}
	if e.Phase() != PhaseTerminated || e.StepCount() != 0 {
		t.Fatalf("expected aborted episode at step 0, phase=%s step=%d", e.Phase(), e.StepCount())
	}
	if !slices.Equal(e.Ants(), before) {
		t.Fatalf("ant state was committed: %+v", e.Ants())
	}
	if e.World().Food.At(5, 5) != 1 {
		t.Fatal("food pickup was committed")
	}
}

func TestZeroActionsLeaveWorldUntouched(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logger = quietLogger()
	seed := int64(2024)
	cfg.Seed = &seed
	if cfg.Width != 200 || cfg.Height != 200 || cfg.Ants != 20 || cfg.Pheromone.Channels != 2 || cfg.Rocks != 0 || cfg.MaxSteps != 1000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	e, err := gen.Generate(nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	start := e.Ants()
	zeros := make([]float64, cfg.Ants)
	for i := 1; i <= 100; i++ {
		res, err := e.Step(zeros, zeros)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Done {
			t.Fatalf("done too early at step %d", i)
		}
	}
	for i, a := range e.Ants() {
		if a.Pos != start[i].Pos || a.Heading != start[i].Heading {
			t.Fatalf("ant %d moved: %+v -> %+v", i, start[i], a)
		}
	}
	for c := 0; c < e.Field().Channels(); c++ {
		if total := e.Field().Total(c); total != 0 {
			t.Fatalf("channel %d should stay empty, total=%v", c, total)
		}
	}

	for i := 101; i <= cfg.MaxSteps; i++ {
		res, err := e.Step(zeros, zeros)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Done != (i == cfg.MaxSteps) {
			t.Fatalf("step %d: done=%v", i, res.Done)
		}
	}
}

type scriptedRun struct {
	fields  [][]float32
	agents  [][]float32
	rewards []float64
	final   Snapshot
}

func runScripted(t *testing.T, cfg Config, steps int) scriptedRun {
	t.Helper()
	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	e, err := gen.Generate(shapedReward)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	rng := core.NewRNG(5)
	var out scriptedRun
	for step := 0; step < steps; step++ {
		actions := make([]Action, cfg.Ants)
		for i := range actions {
			actions[i] = Action{
				Linear:   rng.Uniform(-1.5, 1.5),
				Rotation: rng.Uniform(-60, 60),
				Channel:  rng.IntN(cfg.Pheromone.Channels),
				Deposit:  rng.Uniform(0, 1),
			}
		}
		res, err := e.StepActions(actions)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		for i := range res.Observation.Fields {
			out.fields = append(out.fields, res.Observation.Fields[i].Cells)
			out.agents = append(out.agents, res.Observation.Agents[i])
		}
		out.rewards = append(out.rewards, res.Rewards...)
		if res.Done {
			break
		}
	}
	out.final = e.SaveState()
	return out
}

func TestDeterministicUnderFixedSeed(t *testing.T) {
	for _, interp := range []Interpolation{InterpNearest, InterpBilinear} {
		for _, splat := range []pheromone.Splat{pheromone.SplatNearest, pheromone.SplatBilinear} {
			t.Run(string(interp)+"/"+string(splat), func(t *testing.T) {
				cfg := DefaultConfig()
				cfg.Width, cfg.Height = 64, 48
				cfg.Ants = 10
				cfg.MaxSteps = 60
				cfg.FoodOptions.Clusters = 6
				cfg.FoodOptions.RadiusMin, cfg.FoodOptions.RadiusMax = 2, 4
				cfg.Sensing = Sensing{Radius: 3, Interpolation: interp}
				cfg.Pheromone.Splat = splat
				cfg.Logger = quietLogger()
				seed := int64(11)
				cfg.Seed = &seed

				serial := cfg
				serial.Workers = 1
				parallel := cfg
				parallel.Workers = 4

				a := runScripted(t, serial, cfg.MaxSteps)
				b := runScripted(t, parallel, cfg.MaxSteps)
				if len(a.fields) != len(b.fields) {
					t.Fatalf("runs diverged in length: %d vs %d", len(a.fields), len(b.fields))
				}
				for i := range a.fields {
					if !slices.Equal(a.fields[i], b.fields[i]) || !slices.Equal(a.agents[i], b.agents[i]) {
						t.Fatalf("observation %d differs", i)
					}
				}
				if !slices.Equal(a.rewards, b.rewards) {
					t.Fatal("rewards differ")
				}
				if !slices.Equal(a.final.Food, b.final.Food) || !slices.Equal(a.final.Ants, b.final.Ants) {
					t.Fatal("final state differs")
				}
				for c := range a.final.Pheromones {
					if !slices.Equal(a.final.Pheromones[c], b.final.Pheromones[c]) {
						t.Fatalf("pheromone channel %d differs", c)
					}
				}
			})
		}
	}
}

func TestUpdateIsPresentationalOnly(t *testing.T) {
	start := core.Vec2{X: 5.5, Y: 6.5}
	e := newTestEnv(t, testConfig(20, 20), openLayout(20, 20), []AntState{{Pos: start}}, nil)
	before, _ := e.Observation()
	cells := append([]float32(nil), before.Fields[0].Cells...)

	e.Update()
	e.Update()

	after, ants := e.Observation()
	if !slices.Equal(after.Fields[0].Cells, cells) || ants[0].Pos != start || e.StepCount() != 0 {
		t.Fatal("update must not change the simulation")
	}
	snap := e.SaveState()
	if snap.Frame != 2 || snap.Step != 0 {
		t.Fatalf("expected frame 2 step 0, got %d/%d", snap.Frame, snap.Step)
	}
	if got := snap.Heat[6*20+5]; got != 1 {
		t.Fatalf("expected full heat under the ant, got %v", got)
	}
}

func TestSaveStateIsDeepCopy(t *testing.T) {
	cfg := testConfig(20, 20)
	cfg.SavePerceptiveField = true
	layout := openLayout(20, 20)
	layout.Food.Set(8, 8, 2)
	e := newTestEnv(t, cfg, layout, []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	if _, err := e.StepActions([]Action{{Linear: 0, Channel: 0, Deposit: 1}}); err != nil {
		t.Fatalf("step: %v", err)
	}

	snap := e.SaveState()
	if len(snap.Perception) != 1 || snap.Perception[0].Size != 5 {
		t.Fatalf("expected saved perceptive field, got %+v", snap.Perception)
	}
	snap.Walls[0] = 1
	snap.Food[8*20+8] = 0
	snap.Ants[0].Pos = core.Vec2{}
	snap.Pheromones[0][5*20+5] = -1
	snap.Perception[0].Cells[0] = 42

	again := e.SaveState()
	if again.Walls[0] != 0 || again.Food[8*20+8] != 2 || again.Ants[0].Pos.X != 5.5 {
		t.Fatal("snapshot aliases world state")
	}
	if again.Pheromones[0][5*20+5] <= 0 {
		t.Fatal("snapshot aliases pheromone state")
	}
	if again.Perception[0].Cells[0] == 42 {
		t.Fatal("snapshot aliases observation")
	}

	cfg.SavePerceptiveField = false
	lean := newTestEnv(t, cfg, openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	if p := lean.SaveState().Perception; p != nil {
		t.Fatalf("perception should be omitted, got %d entries", len(p))
	}
}

func TestGeneratorSpawnsInsideAnthill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 80, 80
	cfg.Ants = 30
	cfg.Logger = quietLogger()
	seed := int64(3)
	cfg.Seed = &seed

	gen, err := NewGenerator(cfg)
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	if gen.RootSeed() != 3 {
		t.Fatalf("root seed %d", gen.RootSeed())
	}
	for ep := 0; ep < 3; ep++ {
		e, err := gen.Generate(nil)
		if err != nil {
			t.Fatalf("episode %d: %v", ep, err)
		}
		w := e.World()
		seen := map[[2]int]bool{}
		for _, a := range e.Ants() {
			if !w.InAnthill(a.Pos) || w.BlockedAt(a.Pos) {
				t.Fatalf("ant %d spawned outside free anthill space at %+v", a.ID, a.Pos)
			}
			x, y := a.Pos.Cell()
			if seen[[2]int{x, y}] {
				t.Fatalf("two ants share cell (%d,%d)", x, y)
			}
			seen[[2]int{x, y}] = true
			if a.Heading < 0 || a.Heading >= 2*math.Pi || a.Explored != 1 {
				t.Fatalf("bad initial ant state %+v", a)
			}
		}
	}
	if gen.Episodes() != 3 {
		t.Fatalf("expected 3 episodes, got %d", gen.Episodes())
	}
}

func TestGeneratorFillsAnthillToCapacity(t *testing.T) {
	for _, walls := range []string{"empty", "perlin"} {
		cfg := DefaultConfig()
		cfg.Width, cfg.Height = 40, 40
		cfg.Walls = walls
		cfg.Food = "none"
		cfg.Logger = quietLogger()
		cfg.Ants = cfg.AnthillCapacity()
		for s := int64(0); s < 40; s++ {
			seed := s
			cfg.Seed = &seed
			gen, err := NewGenerator(cfg)
			if err != nil {
				t.Fatalf("%s seed %d: generator: %v", walls, s, err)
			}
			for ep := 0; ep < 2; ep++ {
				e, err := gen.Generate(nil)
				if err != nil {
					t.Fatalf("%s seed %d episode %d: %v", walls, s, ep, err)
				}
				if n := len(e.Ants()); n != cfg.Ants {
					t.Fatalf("%s seed %d: spawned %d of %d ants", walls, s, n, cfg.Ants)
				}
			}
		}
	}

	cfg := DefaultConfig()
	cfg.Ants = cfg.AnthillCapacity() + 1
	if _, err := NewGenerator(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("one ant over capacity should be rejected up front, got %v", err)
	}
}

func TestGeneratorEpisodesReplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 60, 60
	cfg.Logger = quietLogger()
	seed := int64(8)
	cfg.Seed = &seed

	g1, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	g2, err := NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	var seeds []int64
	for ep := 0; ep < 3; ep++ {
		a, err := g1.Generate(nil)
		if err != nil {
			t.Fatal(err)
		}
		b, err := g2.Generate(nil)
		if err != nil {
			t.Fatal(err)
		}
		if a.World().Seed != b.World().Seed || !slices.Equal(a.Ants(), b.Ants()) {
			t.Fatalf("episode %d differs between generators", ep)
		}
		if !slices.Equal(a.World().Walls.Cells(), b.World().Walls.Cells()) {
			t.Fatalf("episode %d walls differ", ep)
		}
		seeds = append(seeds, a.World().Seed)
	}
	if seeds[0] == seeds[1] && seeds[1] == seeds[2] {
		t.Fatal("episodes should get distinct seeds")
	}
}

func TestGeneratorRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ants = 500
	if _, err := NewGenerator(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestParametersDescribeEpisode(t *testing.T) {
	e := newTestEnv(t, testConfig(20, 20), openLayout(20, 20), []AntState{{Pos: core.Vec2{X: 5.5, Y: 5.5}}}, nil)
	snap := e.Parameters()
	p, ok := snap.Lookup("max_rot_speed")
	if !ok || p.Value != "45" {
		t.Fatalf("unexpected max_rot_speed param %+v (ok=%v)", p, ok)
	}
	if _, ok := snap.Lookup("seed"); !ok {
		t.Fatal("seed parameter missing")
	}
}
