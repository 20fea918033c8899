// Package config loads the YAML run configuration: embedded defaults, an
// optional user file on top, then flag-style key=value overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"antcolony/internal/env"
	"antcolony/internal/mapgen"
	"antcolony/internal/pheromone"
	"antcolony/internal/reward"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full run configuration.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Map        MapConfig        `yaml:"map"`
	Pheromone  PheromoneConfig  `yaml:"pheromone"`
	Kinematics KinematicsConfig `yaml:"kinematics"`
	Sensing    SensingConfig    `yaml:"sensing"`
	Reward     RewardConfig     `yaml:"reward"`
	Run        RunConfig        `yaml:"run"`
}

type WorldConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Ants     int    `yaml:"ants"`
	MaxSteps int    `yaml:"max_steps"`
	Seed     *int64 `yaml:"seed,omitempty"`
}

type MapConfig struct {
	AnthillRadius float64     `yaml:"anthill_radius"`
	Rocks         int         `yaml:"rocks"`
	RockRadiusMin int         `yaml:"rock_radius_min"`
	RockRadiusMax int         `yaml:"rock_radius_max"`
	Retries       int         `yaml:"retries"`
	Walls         WallsConfig `yaml:"walls"`
	Food          FoodConfig  `yaml:"food"`
}

type WallsConfig struct {
	Generator string  `yaml:"generator"`
	Scale     float64 `yaml:"scale"`
	Density   float64 `yaml:"density"` // percent of the map that becomes wall ridges
}

type FoodConfig struct {
	Generator string  `yaml:"generator"`
	Clusters  int     `yaml:"clusters"`
	RadiusMin int     `yaml:"radius_min"`
	RadiusMax int     `yaml:"radius_max"`
	Amount    float64 `yaml:"amount"`
}

type PheromoneConfig struct {
	Channels     int     `yaml:"channels"`
	Diffusion    float64 `yaml:"diffusion"`
	Retention    float64 `yaml:"retention"`
	MaxIntensity float64 `yaml:"max_intensity"`
	Splat        string  `yaml:"splat"`
}

type KinematicsConfig struct {
	MaxSpeed               float64 `yaml:"max_speed"`
	MaxRotSpeed            float64 `yaml:"max_rot_speed"` // degrees per step
	CarrySpeedReduction    float64 `yaml:"carry_speed_reduction"`
	BackwardSpeedReduction float64 `yaml:"backward_speed_reduction"`
	MaxDeposit             float64 `yaml:"max_deposit"`
}

type SensingConfig struct {
	Radius        int    `yaml:"radius"`
	Interpolation string `yaml:"interpolation"`
}

type RewardConfig struct {
	Name      string         `yaml:"name"`
	Threshold float64        `yaml:"threshold"`
	Weights   reward.Weights `yaml:"weights"`
}

// RunConfig covers the training driver rather than the simulation.
type RunConfig struct {
	Episodes            int    `yaml:"episodes"`
	Workers             int    `yaml:"workers"`
	Policy              string `yaml:"policy"`
	StatsEvery          int    `yaml:"stats_every"`
	SaveEvery           int    `yaml:"save_every"`
	SavePerceptiveField bool   `yaml:"save_perceptive_field"`
	Archive             string `yaml:"archive"`
	Store               string `yaml:"store"`
	SQLitePath          string `yaml:"sqlite_path"`
	Serve               string `yaml:"serve"`
	LogLevel            string `yaml:"log_level"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and, if path is non-empty, overlays the
// YAML file at path.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse overlays data onto the embedded defaults. Only keys present in data
// change.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Env converts the simulation sections to an environment config.
func (c *Config) Env(logger *slog.Logger) env.Config {
	return env.Config{
		Width:         c.World.Width,
		Height:        c.World.Height,
		Ants:          c.World.Ants,
		MaxSteps:      c.World.MaxSteps,
		Seed:          c.World.Seed,
		AnthillRadius: c.Map.AnthillRadius,
		Rocks:         c.Map.Rocks,
		RockRadiusMin: c.Map.RockRadiusMin,
		RockRadiusMax: c.Map.RockRadiusMax,
		Retries:       c.Map.Retries,
		Walls:         c.Map.Walls.Generator,
		WallOptions:   mapgen.WallOptions{Scale: c.Map.Walls.Scale, Density: c.Map.Walls.Density},
		Food:          c.Map.Food.Generator,
		FoodOptions: mapgen.FoodOptions{
			Clusters:  c.Map.Food.Clusters,
			RadiusMin: c.Map.Food.RadiusMin,
			RadiusMax: c.Map.Food.RadiusMax,
			Amount:    c.Map.Food.Amount,
			Retries:   c.Map.Retries,
		},
		Pheromone: pheromone.Params{
			Channels:      c.Pheromone.Channels,
			DiffusionRate: c.Pheromone.Diffusion,
			Retention:     c.Pheromone.Retention,
			MaxIntensity:  c.Pheromone.MaxIntensity,
			Splat:         pheromone.Splat(c.Pheromone.Splat),
		},
		Kinematics: env.Kinematics{
			MaxSpeed:               c.Kinematics.MaxSpeed,
			MaxRotSpeed:            c.Kinematics.MaxRotSpeed,
			CarrySpeedReduction:    c.Kinematics.CarrySpeedReduction,
			BackwardSpeedReduction: c.Kinematics.BackwardSpeedReduction,
			MaxDeposit:             c.Kinematics.MaxDeposit,
		},
		Sensing: env.Sensing{
			Radius:        c.Sensing.Radius,
			Interpolation: env.Interpolation(c.Sensing.Interpolation),
		},
		RewardThreshold:     c.Reward.Threshold,
		SavePerceptiveField: c.Run.SavePerceptiveField,
		Workers:             c.Run.Workers,
		Logger:              logger,
	}
}

// Evaluator builds the configured reward evaluator.
func (c *Config) Evaluator() (env.Evaluator, error) {
	return reward.New(c.Reward.Name, c.Reward.Weights)
}

// Resolve converts the config and applies overrides with env.ApplyMap.
func (c *Config) Resolve(overrides map[string]string, logger *slog.Logger) (env.Config, error) {
	ec, err := env.ApplyMap(c.Env(logger), overrides)
	if err != nil {
		return env.Config{}, err
	}
	if err := ec.Validate(); err != nil {
		return env.Config{}, err
	}
	return ec, nil
}

// ParseOverrides splits "k=v,k2=v2" into a map. Empty input yields an empty
// map.
func ParseOverrides(s string) (map[string]string, error) {
	out := map[string]string{}
	var errs []error
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			errs = append(errs, fmt.Errorf("override %q: want key=value", part))
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Level maps the configured log level name to a slog level.
func (r RunConfig) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(r.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
