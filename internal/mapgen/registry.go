package mapgen

import (
	"fmt"
	"sort"
)

// WallOptions carries the configured knobs every wall strategy may read.
type WallOptions struct {
	Scale   float64
	Density float64
}

// FoodOptions carries the configured knobs every food strategy may read.
type FoodOptions struct {
	Clusters  int
	RadiusMin int
	RadiusMax int
	Amount    float64
	Retries   int
}

// WallFactory constructs a wall strategy from options.
type WallFactory func(WallOptions) WallGenerator

// FoodFactory constructs a food strategy from options.
type FoodFactory func(FoodOptions) FoodGenerator

var (
	wallStrategies = map[string]WallFactory{}
	foodStrategies = map[string]FoodFactory{}
)

// RegisterWalls adds a wall strategy under the provided name.
func RegisterWalls(name string, f WallFactory) {
	if name == "" || f == nil {
		return
	}
	wallStrategies[name] = f
}

// RegisterFood adds a food strategy under the provided name.
func RegisterFood(name string, f FoodFactory) {
	if name == "" || f == nil {
		return
	}
	foodStrategies[name] = f
}

// NewWalls resolves a registered wall strategy.
func NewWalls(name string, opts WallOptions) (WallGenerator, error) {
	f, ok := wallStrategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown wall generator %q (known: %v)", name, names(wallStrategies))
	}
	return f(opts), nil
}

// NewFood resolves a registered food strategy.
func NewFood(name string, opts FoodOptions) (FoodGenerator, error) {
	f, ok := foodStrategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown food generator %q (known: %v)", name, names(foodStrategies))
	}
	return f(opts), nil
}

func names[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func init() {
	RegisterWalls("perlin", func(o WallOptions) WallGenerator {
		return PerlinGenerator{Scale: o.Scale, Density: o.Density}
	})
	RegisterWalls("empty", func(WallOptions) WallGenerator { return EmptyWalls{} })
	RegisterFood("circles", func(o FoodOptions) FoodGenerator {
		return CirclesGenerator{
			Count:     o.Clusters,
			RadiusMin: o.RadiusMin,
			RadiusMax: o.RadiusMax,
			Amount:    o.Amount,
			Retries:   o.Retries,
		}
	})
	RegisterFood("none", func(FoodOptions) FoodGenerator { return NoFood{} })
}
