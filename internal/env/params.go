package env

import "antcolony/internal/core"

// Parameters lists the configuration of this episode, grouped for display.
func (e *Environment) Parameters() core.ParameterSnapshot {
	c := e.cfg
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				core.IntParam("w", "Width", c.Width),
				core.IntParam("h", "Height", c.Height),
				core.IntParam("ants", "Ants", c.Ants),
				core.IntParam("max_steps", "Max steps", c.MaxSteps),
				core.Int64Param("seed", "Episode seed", e.world.Seed),
			},
		},
		{
			Name: "Map",
			Params: []core.Parameter{
				core.StringParam("walls", "Wall generator", c.Walls),
				core.FloatParam("wall_scale", "Wall noise scale", c.WallOptions.Scale),
				core.FloatParam("wall_density", "Wall density", c.WallOptions.Density),
				core.IntParam("rocks", "Rocks", c.Rocks),
				core.StringParam("food", "Food generator", c.Food),
				core.IntParam("food_clusters", "Food clusters", c.FoodOptions.Clusters),
				core.IntParam("food_radius_min", "Food radius min", c.FoodOptions.RadiusMin),
				core.IntParam("food_radius_max", "Food radius max", c.FoodOptions.RadiusMax),
				core.FloatParam("anthill_radius", "Anthill radius", c.AnthillRadius),
			},
		},
		{
			Name: "Kinematics",
			Params: []core.Parameter{
				core.FloatParam("max_speed", "Max speed", c.Kinematics.MaxSpeed),
				core.FloatParam("max_rot_speed", "Max rotation (deg)", c.Kinematics.MaxRotSpeed),
				core.FloatParam("carry_speed_reduction", "Carry speed factor", c.Kinematics.CarrySpeedReduction),
				core.FloatParam("backward_speed_reduction", "Backward speed factor", c.Kinematics.BackwardSpeedReduction),
			},
		},
		{
			Name: "Pheromones",
			Params: []core.Parameter{
				core.IntParam("pheromones", "Channels", c.Pheromone.Channels),
				core.FloatParam("diffusion", "Diffusion rate", c.Pheromone.DiffusionRate),
				core.FloatParam("retention", "Retention", c.Pheromone.Retention),
				core.StringParam("splat", "Deposit splat", string(c.Pheromone.Splat)),
			},
		},
		{
			Name: "Sensing",
			Params: []core.Parameter{
				core.IntParam("sensor_radius", "Window radius", c.Sensing.Radius),
				core.StringParam("interpolation", "Resampling", string(c.Sensing.Interpolation)),
				core.FloatParam("reward_threshold", "Reward threshold", c.RewardThreshold),
				core.BoolParam("save_perceptive_field", "Keep perceptive fields", c.SavePerceptiveField),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}
