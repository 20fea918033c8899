// Package mapgen builds the static layout of an episode: walls, rocks, the
// anthill and the food clusters.
package mapgen

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"antcolony/internal/core"
)

// ErrPlacement reports a layout element that could not be placed at all.
var ErrPlacement = errors.New("map placement failed")

// Params describes one layout request.
type Params struct {
	Width  int
	Height int

	Rocks         int
	RockRadiusMin int
	RockRadiusMax int

	AnthillRadius float64
	Retries       int

	Walls WallGenerator
	Food  FoodGenerator

	Logger *slog.Logger
}

// Layout is the generated map of one episode.
type Layout struct {
	Seed          int64
	Size          core.Size
	Walls         *core.ByteGrid
	Food          *core.FloatGrid
	Anthill       core.Vec2
	AnthillRadius float64
	Warnings      []string
}

// FoodTotal returns the summed food amount on the map.
func (l *Layout) FoodTotal() float64 { return l.Food.Sum() }

// Generate builds a layout. The result is deterministic for a given seed; a
// nil seed draws one from process entropy. Skipped rock or food placements are
// logged and returned as warnings, only a missing anthill is fatal.
func Generate(p Params, seed *int64) (*Layout, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("map dimensions must be positive, got %dx%d", p.Width, p.Height)
	}
	if p.AnthillRadius <= 0 {
		return nil, fmt.Errorf("anthill radius must be positive, got %v", p.AnthillRadius)
	}
	walls := p.Walls
	if walls == nil {
		walls = EmptyWalls{}
	}
	food := p.Food
	if food == nil {
		food = NoFood{}
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	retries := p.Retries
	if retries <= 0 {
		retries = 100
	}

	resolved := core.ResolveSeed(seed)
	rng := core.NewRNG(resolved)
	size := core.Size{W: p.Width, H: p.Height}

	layout := &Layout{
		Seed:          resolved,
		Size:          size,
		AnthillRadius: p.AnthillRadius,
	}
	layout.Walls = walls.Walls(size, rng)

	anthill, err := placeAnthill(size, p.AnthillRadius, rng)
	if err != nil {
		return nil, err
	}
	layout.Anthill = anthill
	stampDisc(layout.Walls, anthill.X, anthill.Y, p.AnthillRadius+1, 0)
	nest := Zone{Center: anthill, Radius: p.AnthillRadius}

	for i := 0; i < p.Rocks; i++ {
		if !placeRock(layout.Walls, nest, p.RockRadiusMin, p.RockRadiusMax, retries, rng) {
			layout.Warnings = append(layout.Warnings, fmt.Sprintf("rock %d skipped after %d retries", i, retries))
		}
	}

	var foodWarnings []string
	layout.Food, foodWarnings = food.Food(size, layout.Walls, []Zone{nest}, rng)
	layout.Warnings = append(layout.Warnings, foodWarnings...)

	for _, w := range layout.Warnings {
		logger.Warn("map generation", "seed", resolved, "walls", walls.Name(), "food", food.Name(), "warning", w)
	}
	return layout, nil
}

// placeAnthill picks the anthill center on a cell center, so the cells inside
// the radius are exactly the integer offsets within it.
func placeAnthill(size core.Size, radius float64, rng *core.RNG) (core.Vec2, error) {
	margin := radius + 1
	loX, hiX := int(math.Ceil(margin-0.5)), int(math.Floor(float64(size.W)-margin-0.5))
	loY, hiY := int(math.Ceil(margin-0.5)), int(math.Floor(float64(size.H)-margin-0.5))
	if hiX < loX || hiY < loY {
		return core.Vec2{}, fmt.Errorf("%w: anthill radius %v does not fit a %dx%d map", ErrPlacement, radius, size.W, size.H)
	}
	return core.CellCenter(rng.IntRange(loX, hiX), rng.IntRange(loY, hiY)), nil
}

func placeRock(walls *core.ByteGrid, nest Zone, minR, maxR, retries int, rng *core.RNG) bool {
	minR = max(minR, 1)
	maxR = max(maxR, minR)
	radius := float64(rng.IntRange(minR, maxR))
	for attempt := 0; attempt < retries; attempt++ {
		c := core.CellCenter(rng.IntN(walls.W), rng.IntN(walls.H))
		if nest.contains(c, radius+2) {
			continue
		}
		stampDisc(walls, c.X, c.Y, radius, 1)
		return true
	}
	return false
}
