package env

import (
	"math"

	"antcolony/internal/core"
	"antcolony/internal/mapgen"
)

// rayStep is the largest sub-cell increment used when marching a move.
const rayStep = 0.1

// World holds the per-episode map. Walls never change after generation; food
// only shrinks through pickups committed by Step.
type World struct {
	Size          core.Size
	Seed          int64
	MaxSteps      int
	Walls         *core.ByteGrid
	Food          *core.FloatGrid
	FoodTotal     float64
	Anthill       core.Vec2
	AnthillRadius float64
}

func newWorld(layout *mapgen.Layout, maxSteps int) *World {
	return &World{
		Size:          layout.Size,
		Seed:          layout.Seed,
		MaxSteps:      maxSteps,
		Walls:         layout.Walls,
		Food:          layout.Food,
		FoodTotal:     layout.FoodTotal(),
		Anthill:       layout.Anthill,
		AnthillRadius: layout.AnthillRadius,
	}
}

// Blocked reports whether cell (x, y) is a wall or off the map.
func (w *World) Blocked(x, y int) bool {
	if x < 0 || y < 0 || x >= w.Size.W || y >= w.Size.H {
		return true
	}
	return w.Walls.At(x, y) != 0
}

// BlockedAt reports whether the continuous point p may not be occupied.
func (w *World) BlockedAt(p core.Vec2) bool {
	if !p.Finite() || !w.Size.Contains(p) {
		return true
	}
	x, y := p.Cell()
	return w.Walls.At(x, y) != 0
}

// InAnthill reports whether p lies inside the anthill disc.
func (w *World) InAnthill(p core.Vec2) bool {
	d := p.Sub(w.Anthill)
	return d.X*d.X+d.Y*d.Y <= w.AnthillRadius*w.AnthillRadius
}

// FoodRemaining returns the food left on the map.
func (w *World) FoodRemaining() float64 { return w.Food.Sum() }

// Resolve clips the straight move from -> to at the last valid point along
// the ray. It reports whether the move was cut short. A blocked origin never
// moves.
func (w *World) Resolve(from, to core.Vec2) (core.Vec2, bool) {
	if w.BlockedAt(from) {
		return from, true
	}
	d := to.Sub(from)
	dist := d.Len()
	if dist == 0 {
		return from, false
	}
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return from, true
	}
	n := int(math.Ceil(dist / rayStep))
	last := from
	for i := 1; i <= n; i++ {
		p := from.Add(d.Scale(float64(i) / float64(n)))
		if w.BlockedAt(p) {
			return last, true
		}
		last = p
	}
	return to, false
}
