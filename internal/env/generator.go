package env

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"antcolony/internal/core"
	"antcolony/internal/mapgen"
)

// ErrSpawn reports that the ants could not all be placed in the anthill.
var ErrSpawn = errors.New("ant spawn failed")

// Generator builds a fresh Environment for every episode from fixed world
// parameters. With a fixed root seed the sequence of episodes is reproducible.
type Generator struct {
	cfg      Config
	rootSeed int64
	rng      *core.RNG
	walls    mapgen.WallGenerator
	food     mapgen.FoodGenerator
	logger   *slog.Logger
	episodes int
}

// NewGenerator validates cfg and prepares the map strategies. Any returned
// error is a fatal setup error.
func NewGenerator(cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	walls, err := mapgen.NewWalls(cfg.Walls, cfg.WallOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	food, err := mapgen.NewFood(cfg.Food, cfg.FoodOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := core.ResolveSeed(cfg.Seed)
	return &Generator{
		cfg:      cfg,
		rootSeed: root,
		rng:      core.NewRNG(root),
		walls:    walls,
		food:     food,
		logger:   logger,
	}, nil
}

// RootSeed returns the seed the episode sequence derives from.
func (g *Generator) RootSeed() int64 { return g.rootSeed }

// Episodes returns how many environments have been generated.
func (g *Generator) Episodes() int { return g.episodes }

// Generate builds and initializes the next episode's environment.
func (g *Generator) Generate(evaluator Evaluator) (*Environment, error) {
	seed := g.rng.Derive()
	layout, err := mapgen.Generate(mapgen.Params{
		Width:         g.cfg.Width,
		Height:        g.cfg.Height,
		Rocks:         g.cfg.Rocks,
		RockRadiusMin: g.cfg.RockRadiusMin,
		RockRadiusMax: g.cfg.RockRadiusMax,
		AnthillRadius: g.cfg.AnthillRadius,
		Retries:       g.cfg.Retries,
		Walls:         g.walls,
		Food:          g.food,
		Logger:        g.logger,
	}, &seed)
	if err != nil {
		return nil, fmt.Errorf("generate map: %w", err)
	}
	ants, err := spawnAnts(layout, g.cfg.Ants, core.NewRNG(^seed))
	if err != nil {
		return nil, err
	}
	e := newEnvironment(g.cfg, layout, ants, evaluator)
	if err := e.Initialize(); err != nil {
		return nil, err
	}
	g.episodes++
	g.logger.Debug("episode generated",
		"episode", g.episodes,
		"seed", seed,
		"walls", layout.Walls.Count(),
		"food", layout.FoodTotal(),
		"warnings", len(layout.Warnings),
	)
	return e, nil
}

// spawnAnts places each ant on a distinct free cell inside the anthill with a
// uniformly random heading. The free cells are enumerated and shuffled, so a
// count within AnthillCapacity never fails on an anthill clear of walls.
func spawnAnts(layout *mapgen.Layout, n int, rng *core.RNG) ([]AntState, error) {
	r := layout.AnthillRadius
	cx, cy := layout.Anthill.Cell()
	reach := int(math.Ceil(r))
	var free []core.Vec2
	for y := cy - reach; y <= cy+reach; y++ {
		for x := cx - reach; x <= cx+reach; x++ {
			if !layout.Walls.In(x, y) || layout.Walls.At(x, y) != 0 {
				continue
			}
			c := core.CellCenter(x, y)
			if c.Sub(layout.Anthill).Len() > r {
				continue
			}
			free = append(free, c)
		}
	}
	if len(free) < n {
		return nil, fmt.Errorf("%w: %d ants but only %d free anthill cells", ErrSpawn, n, len(free))
	}
	rng.Source().Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	ants := make([]AntState, n)
	for i := range ants {
		ants[i] = AntState{
			ID:      i,
			Pos:     free[i],
			Heading: rng.Uniform(0, 2*math.Pi),
		}
	}
	return ants, nil
}
