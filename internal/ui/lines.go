package ui

import (
	"fmt"
	"math"

	"antcolony/internal/core"
	"antcolony/internal/env"
)

// StatusLines summarizes a snapshot for the HUD panel. selected picks the ant
// whose details are listed; out-of-range values are wrapped.
func StatusLines(snap *env.Snapshot, episode, selected int) []string {
	if snap == nil {
		return []string{"no snapshot"}
	}
	remaining := 0.0
	for _, f := range snap.Food {
		remaining += float64(f)
	}
	carrying := 0
	rewardSum := 0.0
	for _, a := range snap.Ants {
		if a.Carrying {
			carrying++
		}
		rewardSum += a.Reward
	}
	meanReward := 0.0
	if len(snap.Ants) > 0 {
		meanReward = rewardSum / float64(len(snap.Ants))
	}

	lines := []string{
		fmt.Sprintf("Episode %d", episode),
		fmt.Sprintf("step %d/%d", snap.Step, snap.MaxSteps),
		fmt.Sprintf("frame %d", snap.Frame),
		fmt.Sprintf("delivered %d", snap.Delivered()),
		fmt.Sprintf("food %.0f/%.0f", remaining, snap.FoodTotal),
		fmt.Sprintf("carrying %d/%d", carrying, len(snap.Ants)),
		fmt.Sprintf("mean reward %.2f", meanReward),
	}
	if snap.Done {
		lines = append(lines, "episode finished")
	}
	if len(snap.Ants) == 0 {
		return lines
	}
	a := snap.Ants[WrapIndex(selected, len(snap.Ants))]
	state := "searching"
	if a.Carrying {
		state = "carrying"
	}
	lines = append(lines,
		"",
		fmt.Sprintf("ant %d (%s)", a.ID, state),
		fmt.Sprintf("  pos %.1f, %.1f", a.Pos.X, a.Pos.Y),
		fmt.Sprintf("  heading %.0f deg", a.Heading*180/math.Pi),
		fmt.Sprintf("  speed %.2f", a.Speed),
		fmt.Sprintf("  reward %.2f", a.Reward),
		fmt.Sprintf("  explored %d delivered %d", a.Explored, a.Delivered),
	)
	return lines
}

// ParameterLines flattens a parameter snapshot into indented label/value
// lines, one header line per group.
func ParameterLines(params core.ParameterSnapshot) []string {
	var lines []string
	for _, g := range params.Groups {
		lines = append(lines, g.Name)
		for _, p := range g.Params {
			lines = append(lines, fmt.Sprintf("  %s: %s", p.Label, p.Value))
		}
	}
	return lines
}

// WrapIndex maps i onto [0, n).
func WrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// HeadingSegment returns the screen-space segment from an ant's center along
// its heading, length cells long.
func HeadingSegment(a env.AntState, scale int, length float64) (x1, y1, x2, y2 float64) {
	s := float64(scale)
	fwd := core.Heading(a.Heading)
	tip := a.Pos.Add(fwd.Scale(length))
	return a.Pos.X * s, a.Pos.Y * s, tip.X * s, tip.Y * s
}

// WindowCorners returns the screen-space corners of the area an ant senses
// with the given radius, in drawing order: far-left, far-right, near-right,
// near-left.
func WindowCorners(a env.AntState, radius, scale int) [4][2]float64 {
	half := float64(radius) + 0.5
	fwd := core.Heading(a.Heading)
	right := core.Vec2{X: -fwd.Y, Y: fwd.X}
	corner := func(ahead, side float64) [2]float64 {
		p := a.Pos.Add(fwd.Scale(ahead)).Add(right.Scale(side))
		return [2]float64{p.X * float64(scale), p.Y * float64(scale)}
	}
	return [4][2]float64{
		corner(half, -half),
		corner(half, half),
		corner(-half, half),
		corner(-half, -half),
	}
}
