package ui

import (
	"math"
	"slices"
	"testing"

	"antcolony/internal/core"
	"antcolony/internal/env"
)

func TestStatusLines(t *testing.T) {
	snap := &env.Snapshot{
		Step:      12,
		MaxSteps:  100,
		Frame:     12,
		Food:      []float32{2, 0, 3},
		FoodTotal: 9,
		Ants: []env.AntState{
			{ID: 0, Reward: 1, Delivered: 2},
			{ID: 1, Reward: 3, Carrying: true, Pos: core.Vec2{X: 4.3, Y: 7}, Heading: math.Pi / 2, Explored: 5},
		},
	}
	lines := StatusLines(snap, 3, -1)
	want := []string{
		"Episode 3",
		"step 12/100",
		"frame 12",
		"delivered 2",
		"food 5/9",
		"carrying 1/2",
		"mean reward 2.00",
		"",
		"ant 1 (carrying)",
		"  pos 4.3, 7.0",
		"  heading 90 deg",
		"  speed 0.00",
		"  reward 3.00",
		"  explored 5 delivered 0",
	}
	if !slices.Equal(lines, want) {
		t.Fatalf("unexpected lines:\n%q\nwant\n%q", lines, want)
	}

	snap.Done = true
	snap.Ants = nil
	lines = StatusLines(snap, 0, 0)
	if lines[len(lines)-1] != "episode finished" {
		t.Fatalf("missing finished marker: %q", lines)
	}
	if got := StatusLines(nil, 0, 0); len(got) != 1 {
		t.Fatalf("nil snapshot: %q", got)
	}
}

func TestParameterLines(t *testing.T) {
	params := core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{Name: "World", Params: []core.Parameter{core.IntParam("ants", "Ants", 20), core.StringParam("walls", "Walls", "perlin")}},
		{Name: "Sensing", Params: []core.Parameter{core.FloatParam("radius", "Radius", 2.5)}},
	}}
	want := []string{"World", "  Ants: 20", "  Walls: perlin", "Sensing", "  Radius: 2.5"}
	if got := ParameterLines(params); !slices.Equal(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWrapIndex(t *testing.T) {
	cases := []struct{ i, n, want int }{
		{0, 3, 0}, {3, 3, 0}, {-1, 3, 2}, {7, 3, 1}, {5, 0, 0},
	}
	for _, tc := range cases {
		if got := WrapIndex(tc.i, tc.n); got != tc.want {
			t.Fatalf("WrapIndex(%d,%d) = %d, want %d", tc.i, tc.n, got, tc.want)
		}
	}
}

func TestHeadingSegment(t *testing.T) {
	a := env.AntState{Pos: core.Vec2{X: 2, Y: 3}, Heading: math.Pi / 2}
	x1, y1, x2, y2 := HeadingSegment(a, 4, 1.5)
	if x1 != 8 || y1 != 12 || math.Abs(x2-8) > 1e-9 || math.Abs(y2-18) > 1e-9 {
		t.Fatalf("unexpected segment (%v,%v)-(%v,%v)", x1, y1, x2, y2)
	}
}

func TestWindowCornersFaceHeading(t *testing.T) {
	a := env.AntState{Pos: core.Vec2{X: 10, Y: 10}}
	got := WindowCorners(a, 1, 1)
	want := [4][2]float64{{11.5, 8.5}, {11.5, 11.5}, {8.5, 11.5}, {8.5, 8.5}}
	for i := range got {
		if math.Abs(got[i][0]-want[i][0]) > 1e-9 || math.Abs(got[i][1]-want[i][1]) > 1e-9 {
			t.Fatalf("corner %d: got %v want %v", i, got[i], want[i])
		}
	}
}
