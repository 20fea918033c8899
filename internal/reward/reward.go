// Package reward provides the stock reward evaluators used by the training
// driver. Every evaluator is a pure function of the transition and context
// the environment hands it.
package reward

import (
	"fmt"
	"strings"

	"antcolony/internal/env"
)

// Func adapts a plain function to env.Evaluator.
type Func func(t env.Transition, ctx env.Context) (float64, bool)

// Evaluate calls f.
func (f Func) Evaluate(t env.Transition, ctx env.Context) (float64, bool) { return f(t, ctx) }

// explorationGain returns the newly explored cells of the step, or 0 when the
// gain stays below the context's reward threshold.
func explorationGain(t env.Transition, ctx env.Context) float64 {
	gain := float64(t.NewCells())
	if gain <= 0 || gain < ctx.RewardThreshold {
		return 0
	}
	return gain
}

// Exploration pays Factor per newly visited cell.
type Exploration struct {
	Factor float64
}

func (r Exploration) Evaluate(t env.Transition, ctx env.Context) (float64, bool) {
	return r.Factor * explorationGain(t, ctx), false
}

// Food pays Factor whenever the ant picks up food.
type Food struct {
	Factor float64
}

func (r Food) Evaluate(t env.Transition, _ env.Context) (float64, bool) {
	if t.PickedUp() {
		return r.Factor, false
	}
	return 0, false
}

// Anthill pays Factor whenever the ant delivers food to the anthill.
type Anthill struct {
	Factor float64
}

func (r Anthill) Evaluate(t env.Transition, _ env.Context) (float64, bool) {
	if t.Dropped() {
		return r.Factor, false
	}
	return 0, false
}

// All combines exploration, pickup and delivery rewards. Exploration made
// while carrying food is paid at ExploreHolding instead of Explore. The
// episode ends once the map had food and all of it has been delivered.
type All struct {
	Explore        float64
	Food           float64
	Anthill        float64
	ExploreHolding float64
}

// Default returns the weights the training driver uses.
func Default() All {
	return All{Explore: 1, Food: 3, Anthill: 10, ExploreHolding: 0}
}

func (r All) Evaluate(t env.Transition, ctx env.Context) (float64, bool) {
	factor := r.Explore
	if t.Prev.Carrying && t.Next.Carrying {
		factor = r.ExploreHolding
	}
	total := factor * explorationGain(t, ctx)
	if t.PickedUp() {
		total += r.Food
	}
	if t.Dropped() {
		total += r.Anthill
	}
	return total, Exhausted(ctx)
}

// Exhausted reports whether every unit of food on the map has been brought
// home.
func Exhausted(ctx env.Context) bool {
	return ctx.FoodTotal > 0 && ctx.FoodRemaining <= 0 && ctx.Carrying == 0
}

// Sum adds the rewards of several evaluators; the episode ends when any of
// them says so.
type Sum []env.Evaluator

func (s Sum) Evaluate(t env.Transition, ctx env.Context) (float64, bool) {
	total := 0.0
	terminal := false
	for _, e := range s {
		r, term := e.Evaluate(t, ctx)
		total += r
		terminal = terminal || term
	}
	return total, terminal
}

// Weights configures New.
type Weights struct {
	Explore        float64 `yaml:"explore"`
	Food           float64 `yaml:"food"`
	Anthill        float64 `yaml:"anthill"`
	ExploreHolding float64 `yaml:"explore_holding"`
}

// New builds an evaluator by name: "all", "exploration", "food" or "anthill".
func New(name string, w Weights) (env.Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return All{Explore: w.Explore, Food: w.Food, Anthill: w.Anthill, ExploreHolding: w.ExploreHolding}, nil
	case "exploration", "explore":
		return Exploration{Factor: w.Explore}, nil
	case "food":
		return Food{Factor: w.Food}, nil
	case "anthill":
		return Anthill{Factor: w.Anthill}, nil
	default:
		return nil, fmt.Errorf("unknown reward %q", name)
	}
}
