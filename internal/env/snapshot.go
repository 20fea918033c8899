package env

import "antcolony/internal/core"

// Snapshot is a self-describing deep copy of an environment for offline
// playback. It is never read back into a live environment.
type Snapshot struct {
	Step          int          `json:"step"`
	Frame         int          `json:"frame"`
	Seed          int64        `json:"seed"`
	Width         int          `json:"width"`
	Height        int          `json:"height"`
	MaxSteps      int          `json:"max_steps"`
	Done          bool         `json:"done"`
	Walls         []uint8      `json:"walls"`
	Food          []float32    `json:"food"`
	FoodTotal     float64      `json:"food_total"`
	Anthill       core.Vec2    `json:"anthill"`
	AnthillRadius float64      `json:"anthill_radius"`
	Ants          []AntState   `json:"ants"`
	Pheromones    [][]float32  `json:"pheromones"`
	Heat          []float32    `json:"heat"`
	Perception    []Perception `json:"perception,omitempty"`
}

// Size returns the snapshot grid dimensions.
func (s *Snapshot) Size() core.Size { return core.Size{W: s.Width, H: s.Height} }

// Delivered returns the food delivered by all ants so far.
func (s *Snapshot) Delivered() int {
	total := 0
	for _, a := range s.Ants {
		total += a.Delivered
	}
	return total
}
