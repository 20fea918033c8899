package env

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"antcolony/internal/mapgen"
	"antcolony/internal/pheromone"
)

// ErrInvalidConfig wraps every fatal setup problem.
var ErrInvalidConfig = errors.New("invalid environment config")

// Interpolation selects how the perceptive field resamples world layers.
type Interpolation string

const (
	// InterpNearest reads the cell containing each sample point.
	InterpNearest Interpolation = "nearest"
	// InterpBilinear blends the four nearest cell centers.
	InterpBilinear Interpolation = "bilinear"
)

// Kinematics bounds the motion commands of every ant.
type Kinematics struct {
	MaxSpeed               float64 // cells per step
	MaxRotSpeed            float64 // degrees per step
	CarrySpeedReduction    float64
	BackwardSpeedReduction float64
	MaxDeposit             float64
}

// Sensing configures the perceptive field.
type Sensing struct {
	Radius        int
	Interpolation Interpolation
}

// Config holds every recognized option of the environment and its generator.
type Config struct {
	Width    int
	Height   int
	Ants     int
	MaxSteps int
	Seed     *int64

	AnthillRadius float64
	Rocks         int
	RockRadiusMin int
	RockRadiusMax int
	Retries       int

	Walls       string
	WallOptions mapgen.WallOptions
	Food        string
	FoodOptions mapgen.FoodOptions

	Pheromone  pheromone.Params
	Kinematics Kinematics
	Sensing    Sensing

	RewardThreshold     float64
	SavePerceptiveField bool
	Workers             int

	Logger *slog.Logger
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:         200,
		Height:        200,
		Ants:          20,
		MaxSteps:      1000,
		AnthillRadius: 5,
		Rocks:         0,
		RockRadiusMin: 3,
		RockRadiusMax: 8,
		Retries:       100,
		Walls:         "perlin",
		WallOptions:   mapgen.WallOptions{Scale: 22, Density: 10},
		Food:          "circles",
		FoodOptions:   mapgen.FoodOptions{Clusters: 15, RadiusMin: 5, RadiusMax: 10, Amount: 1, Retries: 100},
		Pheromone:     pheromone.DefaultParams(),
		Kinematics: Kinematics{
			MaxSpeed:               1,
			MaxRotSpeed:            45,
			CarrySpeedReduction:    0.05,
			BackwardSpeedReduction: 0.5,
			MaxDeposit:             1,
		},
		Sensing: Sensing{
			Radius:        5,
			Interpolation: InterpNearest,
		},
		RewardThreshold:     1,
		SavePerceptiveField: true,
		Workers:             1,
	}
}

// AnthillCapacity returns how many distinct cells fit inside the anthill.
func (c Config) AnthillCapacity() int {
	r := c.AnthillRadius
	n := int(math.Ceil(r))
	count := 0
	for dy := -n; dy <= n; dy++ {
		for dx := -n; dx <= n; dx++ {
			if float64(dx*dx+dy*dy) <= r*r {
				count++
			}
		}
	}
	return count
}

// Validate reports every fatal setup problem before an episode is built.
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	if c.Width <= 0 || c.Height <= 0 {
		add("world dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Ants <= 0 {
		add("ant count must be positive, got %d", c.Ants)
	}
	if c.MaxSteps <= 0 {
		add("max steps must be positive, got %d", c.MaxSteps)
	}
	if !(c.AnthillRadius > 0) {
		add("anthill radius must be positive, got %v", c.AnthillRadius)
	} else if c.Ants > c.AnthillCapacity() {
		add("%d ants exceed anthill capacity %d", c.Ants, c.AnthillCapacity())
	}
	if c.Width > 0 && c.Height > 0 && 2*(c.AnthillRadius+1) >= float64(min(c.Width, c.Height)) {
		add("anthill radius %v does not fit a %dx%d world", c.AnthillRadius, c.Width, c.Height)
	}
	if c.Rocks < 0 {
		add("rock count must be >= 0, got %d", c.Rocks)
	}
	if c.FoodOptions.Clusters < 0 {
		add("food cluster count must be >= 0, got %d", c.FoodOptions.Clusters)
	}
	if c.FoodOptions.RadiusMax < c.FoodOptions.RadiusMin {
		add("food radius max %d below min %d", c.FoodOptions.RadiusMax, c.FoodOptions.RadiusMin)
	}
	if _, err := mapgen.NewWalls(c.Walls, c.WallOptions); err != nil {
		errs = append(errs, err)
	}
	if _, err := mapgen.NewFood(c.Food, c.FoodOptions); err != nil {
		errs = append(errs, err)
	}
	if err := c.Pheromone.Validate(); err != nil {
		errs = append(errs, err)
	}
	k := c.Kinematics
	if !(k.MaxSpeed > 0) || math.IsInf(k.MaxSpeed, 0) {
		add("max speed must be positive and finite, got %v", k.MaxSpeed)
	}
	if !(k.MaxRotSpeed >= 0) || math.IsInf(k.MaxRotSpeed, 0) {
		add("max rotation speed must be >= 0 and finite, got %v", k.MaxRotSpeed)
	}
	if !(k.CarrySpeedReduction >= 0 && k.CarrySpeedReduction <= 1) {
		add("carry speed reduction must be within [0,1], got %v", k.CarrySpeedReduction)
	}
	if !(k.BackwardSpeedReduction >= 0 && k.BackwardSpeedReduction <= 1) {
		add("backward speed reduction must be within [0,1], got %v", k.BackwardSpeedReduction)
	}
	if !(k.MaxDeposit >= 0) || math.IsInf(k.MaxDeposit, 0) {
		add("max deposit must be >= 0 and finite, got %v", k.MaxDeposit)
	}
	if c.Sensing.Radius < 0 {
		add("sensor radius must be >= 0, got %d", c.Sensing.Radius)
	}
	switch c.Sensing.Interpolation {
	case InterpNearest, InterpBilinear:
	default:
		add("unknown sensor interpolation %q", c.Sensing.Interpolation)
	}
	if c.Workers < 0 {
		add("workers must be >= 0, got %d", c.Workers)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) (Config, error) {
	return ApplyMap(DefaultConfig(), cfg)
}

// ApplyMap overlays flag-style key/value pairs onto c. Unknown keys and
// unparsable values are reported; range checks are left to Validate.
func ApplyMap(c Config, cfg map[string]string) (Config, error) {
	var errs []error
	intVar := func(key string, dst *int) {
		if v, ok := cfg[key]; ok {
			parsed, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = parsed
		}
	}
	floatVar := func(key string, dst *float64) {
		if v, ok := cfg[key]; ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = parsed
		}
	}
	boolVar := func(key string, dst *bool) {
		if v, ok := cfg[key]; ok {
			parsed, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = parsed
		}
	}
	stringVar := func(key string, dst *string) {
		if v, ok := cfg[key]; ok {
			*dst = strings.TrimSpace(v)
		}
	}

	intVar("w", &c.Width)
	intVar("h", &c.Height)
	intVar("ants", &c.Ants)
	intVar("max_steps", &c.MaxSteps)
	if v, ok := cfg["seed"]; ok {
		v = strings.TrimSpace(v)
		switch v {
		case "", "random", "none":
			c.Seed = nil
		default:
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("seed: %w", err))
			} else {
				c.Seed = &parsed
			}
		}
	}
	floatVar("anthill_radius", &c.AnthillRadius)
	intVar("rocks", &c.Rocks)
	intVar("rock_radius_min", &c.RockRadiusMin)
	intVar("rock_radius_max", &c.RockRadiusMax)
	stringVar("walls", &c.Walls)
	floatVar("wall_scale", &c.WallOptions.Scale)
	floatVar("wall_density", &c.WallOptions.Density)
	stringVar("food", &c.Food)
	intVar("food_clusters", &c.FoodOptions.Clusters)
	intVar("food_radius_min", &c.FoodOptions.RadiusMin)
	intVar("food_radius_max", &c.FoodOptions.RadiusMax)
	floatVar("food_amount", &c.FoodOptions.Amount)
	intVar("pheromones", &c.Pheromone.Channels)
	floatVar("diffusion", &c.Pheromone.DiffusionRate)
	floatVar("retention", &c.Pheromone.Retention)
	floatVar("max_intensity", &c.Pheromone.MaxIntensity)
	if v, ok := cfg["splat"]; ok {
		c.Pheromone.Splat = pheromone.Splat(strings.TrimSpace(v))
	}
	floatVar("max_speed", &c.Kinematics.MaxSpeed)
	floatVar("max_rot_speed", &c.Kinematics.MaxRotSpeed)
	floatVar("carry_speed_reduction", &c.Kinematics.CarrySpeedReduction)
	floatVar("backward_speed_reduction", &c.Kinematics.BackwardSpeedReduction)
	floatVar("max_deposit", &c.Kinematics.MaxDeposit)
	intVar("sensor_radius", &c.Sensing.Radius)
	if v, ok := cfg["interpolation"]; ok {
		c.Sensing.Interpolation = Interpolation(strings.TrimSpace(v))
	}
	floatVar("reward_threshold", &c.RewardThreshold)
	boolVar("save_perceptive_field", &c.SavePerceptiveField)
	intVar("workers", &c.Workers)

	for key := range cfg {
		if !knownKeys[key] {
			errs = append(errs, fmt.Errorf("unknown option %q", key))
		}
	}
	if len(errs) > 0 {
		return c, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return c, nil
}

var knownKeys = map[string]bool{
	"w": true, "h": true, "ants": true, "max_steps": true, "seed": true,
	"anthill_radius": true, "rocks": true, "rock_radius_min": true, "rock_radius_max": true,
	"walls": true, "wall_scale": true, "wall_density": true,
	"food": true, "food_clusters": true, "food_radius_min": true, "food_radius_max": true, "food_amount": true,
	"pheromones": true, "diffusion": true, "retention": true, "max_intensity": true, "splat": true,
	"max_speed": true, "max_rot_speed": true, "carry_speed_reduction": true,
	"backward_speed_reduction": true, "max_deposit": true,
	"sensor_radius": true, "interpolation": true,
	"reward_threshold": true, "save_perceptive_field": true, "workers": true,
}
