// Package env is the ant colony simulation engine: kinematics, collision,
// pheromone updates, perceptive fields, reward calls and episode lifecycle.
//
// An Environment is single-threaded from the caller's point of view; Step
// fully completes before returning. Per-ant motion and sensing may fan out
// over Config.Workers goroutines because they only read shared grids and
// write to their own slot; everything that mutates shared state (food
// pickups, pheromone deposits) runs sequentially in ant-ID order.
package env

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"antcolony/internal/core"
	"antcolony/internal/mapgen"
	"antcolony/internal/pheromone"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotRunning is returned when stepping an environment that was never initialized.
	ErrNotRunning = errors.New("environment is not running")
	// ErrEpisodeDone is returned when stepping a terminated environment.
	ErrEpisodeDone = errors.New("episode already terminated")
	// ErrInvariant reports an internal consistency failure that aborted the episode.
	ErrInvariant = errors.New("simulation invariant violated")
	// ErrEvaluator reports a reward evaluator that panicked or returned a non-finite reward.
	ErrEvaluator = errors.New("reward evaluator failed")
)

// heatDecay is the per-update retention of the presentational visit heat.
const heatDecay = 0.95

// Phase is the lifecycle state of an Environment.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseRunning
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseRunning:
		return "running"
	case PhaseTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Observation is what the policy sees for every ant, indexed by ant ID.
type Observation struct {
	Fields []Perception
	Agents [][]float32
}

// StepResult is the outcome of one Step.
type StepResult struct {
	Observation Observation
	Rewards     []float64
	Done        bool
}

// Stats summarizes the episode so far.
type Stats struct {
	Step          int
	Delivered     int
	Carrying      int
	FoodTotal     float64
	FoodRemaining float64
	TotalReward   float64
}

// Environment runs one episode.
type Environment struct {
	cfg       Config
	world     *World
	field     *pheromone.Field
	sensor    *SensorBuilder
	evaluator Evaluator

	ants      []AntState
	scratch   []AntState
	visited   [][]bool
	occupancy *core.ByteGrid
	heat      []float32
	obs       Observation

	phase   Phase
	step    int
	frame   int
	err     error
	workers int
}

func newEnvironment(cfg Config, layout *mapgen.Layout, ants []AntState, evaluator Evaluator) *Environment {
	world := newWorld(layout, cfg.MaxSteps)
	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	e := &Environment{
		cfg:       cfg,
		world:     world,
		field:     pheromone.New(world.Size.W, world.Size.H, cfg.Pheromone),
		sensor:    NewSensorBuilder(cfg.Sensing, cfg.Pheromone.Channels, cfg.Kinematics.MaxSpeed),
		evaluator: evaluator,
		ants:      ants,
		scratch:   make([]AntState, len(ants)),
		visited:   make([][]bool, len(ants)),
		occupancy: core.NewByteGrid(world.Size.W, world.Size.H),
		heat:      make([]float32, world.Size.Cells()),
		workers:   workers,
	}
	for i := range e.ants {
		e.visited[i] = make([]bool, world.Size.Cells())
		x, y := e.ants[i].Pos.Cell()
		if world.Size.Contains(e.ants[i].Pos) {
			e.visited[i][y*world.Size.W+x] = true
			e.ants[i].Explored = 1
		}
	}
	return e
}

// Initialize moves a created environment to Running and computes the first
// observation.
func (e *Environment) Initialize() error {
	if e.phase != PhaseCreated {
		return fmt.Errorf("initialize: environment is %s", e.phase)
	}
	e.obs = e.observe()
	e.phase = PhaseRunning
	return nil
}

// Phase returns the lifecycle state.
func (e *Environment) Phase() Phase { return e.phase }

// Done reports whether the episode has terminated.
func (e *Environment) Done() bool { return e.phase == PhaseTerminated }

// Err returns the error that aborted the episode, if any.
func (e *Environment) Err() error { return e.err }

// StepCount returns the number of committed steps.
func (e *Environment) StepCount() int { return e.step }

// World exposes the episode map. Callers must treat it as read-only.
func (e *Environment) World() *World { return e.world }

// Field exposes the pheromone field. Callers must treat it as read-only.
func (e *Environment) Field() *pheromone.Field { return e.field }

// Sensor exposes the perceptive field geometry.
func (e *Environment) Sensor() *SensorBuilder { return e.sensor }

// Ants returns a copy of every ant state.
func (e *Environment) Ants() []AntState { return append([]AntState(nil), e.ants...) }

// Observation returns the current observation and ant states without
// advancing time.
func (e *Environment) Observation() (Observation, []AntState) {
	return e.obs, e.Ants()
}

// Step advances one tick with movement-only commands.
func (e *Environment) Step(linear, rotational []float64) (StepResult, error) {
	if len(linear) != len(rotational) {
		return StepResult{}, fmt.Errorf("step: %d linear commands but %d rotational", len(linear), len(rotational))
	}
	actions := make([]Action, len(linear))
	for i := range linear {
		actions[i] = Move(linear[i], rotational[i])
	}
	return e.StepActions(actions)
}

type exploredCell struct {
	ant, cell int
}

// StepActions advances one tick for every ant. The step either commits
// completely or, on an invariant violation, aborts the episode and leaves the
// previous state in place.
func (e *Environment) StepActions(actions []Action) (StepResult, error) {
	switch e.phase {
	case PhaseCreated:
		return StepResult{}, ErrNotRunning
	case PhaseTerminated:
		return StepResult{}, ErrEpisodeDone
	}
	if len(actions) != len(e.ants) {
		return StepResult{}, fmt.Errorf("step: expected %d actions, got %d", len(e.ants), len(actions))
	}

	k := e.cfg.Kinematics
	clamped := make([]Action, len(actions))
	next := e.scratch
	e.forEachAnt(func(i int) {
		a := k.Clamp(actions[i])
		clamped[i] = a
		s := e.ants[i]
		heading, speed, dest := k.Advance(s, a)
		s.Heading = heading
		s.Speed = speed
		s.Pos, _ = e.world.Resolve(s.Pos, dest)
		next[i] = s
	})

	w := e.world.Size.W
	food := e.world.Food.Cells()
	taken := make(map[int]float32)
	var explored []exploredCell
	for i := range next {
		s := &next[i]
		x, y := s.Pos.Cell()
		cell := y*w + x
		if cell >= 0 && cell < len(food) {
			if !e.visited[i][cell] {
				s.Explored++
				explored = append(explored, exploredCell{ant: i, cell: cell})
			}
			if s.Carrying {
				if e.world.InAnthill(s.Pos) {
					s.Carrying = false
					s.Delivered++
				}
			} else if avail := food[cell] - taken[cell]; avail > 0 {
				taken[cell] += min(avail, 1)
				s.Carrying = true
			}
		}
		if a := clamped[i]; a.Channel >= 0 && a.Deposit > 0 {
			e.field.Deposit(a.Channel, s.Pos, a.Deposit)
		}
	}

	for i := range next {
		if e.world.BlockedAt(next[i].Pos) || math.IsNaN(next[i].Heading) {
			return StepResult{}, e.abort(fmt.Errorf("%w: ant %d left the free space at %+v", ErrInvariant, i, next[i].Pos))
		}
	}
	if err := e.field.Step(); err != nil {
		return StepResult{}, e.abort(fmt.Errorf("%w: %w", ErrInvariant, err))
	}

	for cell, amount := range taken {
		food[cell] = max(food[cell]-amount, 0)
	}
	for _, v := range explored {
		e.visited[v.ant][v.cell] = true
	}
	prev := e.ants
	e.ants, e.scratch = next, prev
	e.step++
	e.obs = e.observe()

	ctx := e.context()
	rewards := make([]float64, len(e.ants))
	terminal := false
	for i := range e.ants {
		r, term, err := e.evaluate(Transition{Prev: prev[i], Next: e.ants[i], Action: clamped[i]}, ctx)
		if err != nil {
			return StepResult{}, e.abort(fmt.Errorf("ant %d: %w", i, err))
		}
		rewards[i] = r
		terminal = terminal || term
	}
	for i, r := range rewards {
		e.ants[i].Reward += r
	}

	done := terminal || e.step >= e.cfg.MaxSteps
	if done {
		e.phase = PhaseTerminated
	}
	return StepResult{Observation: e.obs, Rewards: rewards, Done: done}, nil
}

// Update advances presentational bookkeeping only: the frame counter and the
// decaying visit heat shown by the viewer. It never affects observations or
// rewards.
func (e *Environment) Update() {
	e.frame++
	for i := range e.heat {
		e.heat[i] *= heatDecay
	}
	w := e.world.Size.W
	for _, a := range e.ants {
		if !e.world.Size.Contains(a.Pos) {
			continue
		}
		x, y := a.Pos.Cell()
		e.heat[y*w+x] = 1
	}
}

// SaveState returns a deep copy of the full state for offline playback.
func (e *Environment) SaveState() Snapshot {
	snap := Snapshot{
		Step:          e.step,
		Frame:         e.frame,
		Seed:          e.world.Seed,
		Width:         e.world.Size.W,
		Height:        e.world.Size.H,
		MaxSteps:      e.cfg.MaxSteps,
		Done:          e.Done(),
		Walls:         append([]uint8(nil), e.world.Walls.Cells()...),
		Food:          append([]float32(nil), e.world.Food.Cells()...),
		FoodTotal:     e.world.FoodTotal,
		Anthill:       e.world.Anthill,
		AnthillRadius: e.world.AnthillRadius,
		Ants:          e.Ants(),
		Pheromones:    e.field.Clone(),
		Heat:          append([]float32(nil), e.heat...),
	}
	if e.cfg.SavePerceptiveField {
		snap.Perception = make([]Perception, len(e.obs.Fields))
		for i, p := range e.obs.Fields {
			snap.Perception[i] = Perception{Size: p.Size, Layers: p.Layers, Cells: append([]float32(nil), p.Cells...)}
		}
	}
	return snap
}

// Stats summarizes the episode so far.
func (e *Environment) Stats() Stats {
	st := Stats{
		Step:          e.step,
		FoodTotal:     e.world.FoodTotal,
		FoodRemaining: e.world.FoodRemaining(),
	}
	for _, a := range e.ants {
		st.Delivered += a.Delivered
		st.TotalReward += a.Reward
		if a.Carrying {
			st.Carrying++
		}
	}
	return st
}

func (e *Environment) observe() Observation {
	buildOccupancy(e.occupancy, e.ants)
	obs := Observation{
		Fields: make([]Perception, len(e.ants)),
		Agents: make([][]float32, len(e.ants)),
	}
	e.forEachAnt(func(i int) {
		obs.Fields[i] = e.sensor.Build(e.ants[i], e.world, e.field, e.occupancy)
		obs.Agents[i] = e.sensor.AgentVector(e.ants[i])
	})
	return obs
}

func (e *Environment) context() Context {
	st := e.Stats()
	return Context{
		Step:            e.step,
		MaxSteps:        e.cfg.MaxSteps,
		Size:            e.world.Size,
		FoodTotal:       st.FoodTotal,
		FoodRemaining:   st.FoodRemaining,
		Carrying:        st.Carrying,
		Delivered:       st.Delivered,
		RewardThreshold: e.cfg.RewardThreshold,
	}
}

func (e *Environment) evaluate(t Transition, ctx Context) (reward float64, terminal bool, err error) {
	if e.evaluator == nil {
		return 0, false, nil
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrEvaluator, rec)
		}
	}()
	reward, terminal = e.evaluator.Evaluate(t, ctx)
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return 0, false, fmt.Errorf("%w: non-finite reward %v", ErrEvaluator, reward)
	}
	return reward, terminal, nil
}

func (e *Environment) abort(err error) error {
	e.phase = PhaseTerminated
	e.err = err
	return err
}

func (e *Environment) forEachAnt(fn func(i int)) {
	n := len(e.ants)
	if e.workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
