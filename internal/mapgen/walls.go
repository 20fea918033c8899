package mapgen

import (
	"math"

	"antcolony/internal/core"

	"github.com/aquilax/go-perlin"
)

const (
	perlinAlpha   = 2.
	perlinBeta    = 2.
	perlinOctaves = 3
)

// WallGenerator produces the static obstacle mask of an episode.
type WallGenerator interface {
	Name() string
	Walls(size core.Size, rng *core.RNG) *core.ByteGrid
}

// PerlinGenerator thresholds a Perlin noise field into wall bands. A cell is
// a wall when |noise| < Density/100, which yields winding ridges rather than
// blobs. No connectivity guarantee is made; enclosed pockets may occur.
type PerlinGenerator struct {
	Scale   float64
	Density float64
}

// Name returns the registry identifier.
func (PerlinGenerator) Name() string { return "perlin" }

// Walls samples the noise field once per cell.
func (g PerlinGenerator) Walls(size core.Size, rng *core.RNG) *core.ByteGrid {
	walls := core.NewByteGrid(size.W, size.H)
	if g.Density <= 0 {
		return walls
	}
	scale := g.Scale
	if scale <= 0 {
		scale = 1
	}
	threshold := g.Density / 100
	noise := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, rng.Derive())
	// Integer lattice points of Perlin noise are always zero, so shift the
	// sampling grid by a random sub-lattice offset.
	ox := rng.Uniform(0, 1024) + 0.37
	oy := rng.Uniform(0, 1024) + 0.61

	cells := walls.Cells()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			n := noise.Noise2D(ox+(float64(x)+0.5)/scale, oy+(float64(y)+0.5)/scale)
			if math.Abs(n) < threshold {
				cells[y*size.W+x] = 1
			}
		}
	}
	return walls
}

// EmptyWalls produces an obstacle-free map.
type EmptyWalls struct{}

// Name returns the registry identifier.
func (EmptyWalls) Name() string { return "empty" }

// Walls returns an all-clear mask.
func (EmptyWalls) Walls(size core.Size, _ *core.RNG) *core.ByteGrid {
	return core.NewByteGrid(size.W, size.H)
}

// stampDisc sets every cell within radius of (cx, cy) to v.
func stampDisc(g *core.ByteGrid, cx, cy float64, radius float64, v uint8) {
	r := int(math.Ceil(radius))
	x0, y0 := int(math.Floor(cx)), int(math.Floor(cy))
	r2 := radius * radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			x, y := x0+dx, y0+dy
			if !g.In(x, y) {
				continue
			}
			c := core.CellCenter(x, y)
			ddx, ddy := c.X-cx, c.Y-cy
			if ddx*ddx+ddy*ddy > r2 {
				continue
			}
			g.Set(x, y, v)
		}
	}
}
