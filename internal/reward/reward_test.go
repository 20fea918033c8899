package reward

import (
	"testing"

	"antcolony/internal/env"
)

func transition(prev, next env.AntState) env.Transition {
	return env.Transition{Prev: prev, Next: next, Action: env.Move(0, 0)}
}

var midEpisode = env.Context{Step: 10, MaxSteps: 100, FoodTotal: 5, FoodRemaining: 3, Carrying: 1, RewardThreshold: 1}

func TestExplorationRespectsThreshold(t *testing.T) {
	tr := transition(env.AntState{Explored: 4}, env.AntState{Explored: 5})
	r := Exploration{Factor: 2}
	if got, term := r.Evaluate(tr, midEpisode); got != 2 || term {
		t.Fatalf("expected 2 without terminal, got %v %v", got, term)
	}
	gated := midEpisode
	gated.RewardThreshold = 2
	if got, _ := r.Evaluate(tr, gated); got != 0 {
		t.Fatalf("gain below threshold must pay 0, got %v", got)
	}
	still := transition(env.AntState{Explored: 5}, env.AntState{Explored: 5})
	zero := midEpisode
	zero.RewardThreshold = 0
	if got, _ := r.Evaluate(still, zero); got != 0 {
		t.Fatalf("no new cells must pay 0, got %v", got)
	}
}

func TestFoodAndAnthill(t *testing.T) {
	pickup := transition(env.AntState{}, env.AntState{Carrying: true})
	deliver := transition(env.AntState{Carrying: true}, env.AntState{Delivered: 1})
	carry := transition(env.AntState{Carrying: true}, env.AntState{Carrying: true})

	food := Food{Factor: 3}
	home := Anthill{Factor: 10}
	cases := []struct {
		name string
		e    env.Evaluator
		tr   env.Transition
		want float64
	}{
		{"food on pickup", food, pickup, 3},
		{"food on delivery", food, deliver, 0},
		{"food while carrying", food, carry, 0},
		{"anthill on delivery", home, deliver, 10},
		{"anthill on pickup", home, pickup, 0},
	}
	for _, tc := range cases {
		if got, _ := tc.e.Evaluate(tc.tr, midEpisode); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestAllCombinesTerms(t *testing.T) {
	r := All{Explore: 1, Food: 3, Anthill: 10, ExploreHolding: 0.5}

	// New cell and pickup in the same step.
	tr := transition(env.AntState{Explored: 1}, env.AntState{Explored: 2, Carrying: true})
	if got, _ := r.Evaluate(tr, midEpisode); got != 4 {
		t.Fatalf("pickup step: got %v want 4", got)
	}
	// Exploring while holding food uses the holding factor.
	tr = transition(env.AntState{Explored: 2, Carrying: true}, env.AntState{Explored: 3, Carrying: true})
	if got, _ := r.Evaluate(tr, midEpisode); got != 0.5 {
		t.Fatalf("holding step: got %v want 0.5", got)
	}
	tr = transition(env.AntState{Carrying: true, Explored: 3}, env.AntState{Delivered: 1, Explored: 3})
	if got, _ := r.Evaluate(tr, midEpisode); got != 10 {
		t.Fatalf("delivery step: got %v want 10", got)
	}
}

func TestAllTerminalWhenFoodExhausted(t *testing.T) {
	r := Default()
	tr := transition(env.AntState{}, env.AntState{})
	cases := []struct {
		name string
		ctx  env.Context
		want bool
	}{
		{"food left", env.Context{FoodTotal: 4, FoodRemaining: 1}, false},
		{"still carried", env.Context{FoodTotal: 4, FoodRemaining: 0, Carrying: 2}, false},
		{"all delivered", env.Context{FoodTotal: 4, FoodRemaining: 0, Carrying: 0}, true},
		{"map without food", env.Context{}, false},
	}
	for _, tc := range cases {
		if _, term := r.Evaluate(tr, tc.ctx); term != tc.want {
			t.Fatalf("%s: terminal=%v want %v", tc.name, term, tc.want)
		}
	}
}

func TestSumAndFunc(t *testing.T) {
	stop := Func(func(env.Transition, env.Context) (float64, bool) { return -1, true })
	s := Sum{Food{Factor: 3}, stop}
	got, term := s.Evaluate(transition(env.AntState{}, env.AntState{Carrying: true}), midEpisode)
	if got != 2 || !term {
		t.Fatalf("expected 2 and terminal, got %v %v", got, term)
	}
}

func TestNew(t *testing.T) {
	w := Weights{Explore: 1, Food: 3, Anthill: 10}
	for _, name := range []string{"all", "", "exploration", "food", "anthill"} {
		if _, err := New(name, w); err != nil {
			t.Fatalf("%q: %v", name, err)
		}
	}
	if _, err := New("bonus", w); err == nil {
		t.Fatal("expected error for unknown reward")
	}
	e, _ := New("all", w)
	if e.(All) != (All{Explore: 1, Food: 3, Anthill: 10}) {
		t.Fatalf("unexpected weights %+v", e)
	}
}
