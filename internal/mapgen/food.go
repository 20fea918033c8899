package mapgen

import (
	"fmt"

	"antcolony/internal/core"
)

// Zone is a disc of the map reserved for something other than food, such as
// the anthill.
type Zone struct {
	Center core.Vec2
	Radius float64
}

func (z Zone) contains(p core.Vec2, margin float64) bool {
	r := z.Radius + margin
	d := p.Sub(z.Center)
	return d.X*d.X+d.Y*d.Y <= r*r
}

// FoodGenerator produces the food layer of an episode. Warnings describe
// placements that were skipped; they are never fatal.
type FoodGenerator interface {
	Name() string
	Food(size core.Size, walls *core.ByteGrid, keepOut []Zone, rng *core.RNG) (*core.FloatGrid, []string)
}

// CirclesGenerator places Count discs of food with radius drawn from
// [RadiusMin, RadiusMax]. Centers are rejection-sampled on free cells away
// from keep-out zones; a cluster whose retries run out is skipped.
type CirclesGenerator struct {
	Count     int
	RadiusMin int
	RadiusMax int
	Amount    float64
	Retries   int
}

// Name returns the registry identifier.
func (CirclesGenerator) Name() string { return "circles" }

// Food stamps the clusters. Wall cells never receive food.
func (g CirclesGenerator) Food(size core.Size, walls *core.ByteGrid, keepOut []Zone, rng *core.RNG) (*core.FloatGrid, []string) {
	food := core.NewFloatGrid(size.W, size.H)
	amount := float32(g.Amount)
	if amount <= 0 {
		amount = 1
	}
	retries := g.Retries
	if retries <= 0 {
		retries = 100
	}
	minR := max(g.RadiusMin, 0)
	maxR := max(g.RadiusMax, minR)

	var warnings []string
	for i := 0; i < g.Count; i++ {
		radius := rng.IntRange(minR, maxR)
		center, ok := g.pickCenter(size, walls, keepOut, float64(radius), retries, rng)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("food cluster %d skipped after %d retries", i, retries))
			continue
		}
		r := float64(radius) + 0.5
		r2 := r * r
		cx, cy := center.Cell()
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				x, y := cx+dx, cy+dy
				if !food.In(x, y) || walls.At(x, y) != 0 {
					continue
				}
				if float64(dx*dx+dy*dy) > r2 {
					continue
				}
				p := core.CellCenter(x, y)
				if inAnyZone(keepOut, p, 0) {
					continue
				}
				food.Set(x, y, amount)
			}
		}
	}
	return food, warnings
}

func (g CirclesGenerator) pickCenter(size core.Size, walls *core.ByteGrid, keepOut []Zone, radius float64, retries int, rng *core.RNG) (core.Vec2, bool) {
	for attempt := 0; attempt < retries; attempt++ {
		x := rng.IntN(size.W)
		y := rng.IntN(size.H)
		if walls.At(x, y) != 0 {
			continue
		}
		p := core.CellCenter(x, y)
		if inAnyZone(keepOut, p, radius+1) {
			continue
		}
		return p, true
	}
	return core.Vec2{}, false
}

// NoFood leaves the map empty, mostly useful for exploration-only runs.
type NoFood struct{}

// Name returns the registry identifier.
func (NoFood) Name() string { return "none" }

// Food returns an empty layer.
func (NoFood) Food(size core.Size, _ *core.ByteGrid, _ []Zone, _ *core.RNG) (*core.FloatGrid, []string) {
	return core.NewFloatGrid(size.W, size.H), nil
}

func inAnyZone(zones []Zone, p core.Vec2, margin float64) bool {
	for _, z := range zones {
		if z.contains(p, margin) {
			return true
		}
	}
	return false
}
