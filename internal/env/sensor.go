package env

import (
	"math"

	"antcolony/internal/core"
	"antcolony/internal/pheromone"
)

// Perception is one ant's heading-aligned local window. Cells are stored
// layer-major: Cells[layer*Size*Size + row*Size + col]. Row 0 is farthest
// ahead of the ant, column Size/2 is its centerline and columns grow to the
// ant's right.
type Perception struct {
	Size   int       `json:"size"`
	Layers int       `json:"layers"`
	Cells  []float32 `json:"cells"`
}

// At returns the value of layer at (row, col).
func (p Perception) At(layer, row, col int) float32 {
	return p.Cells[layer*p.Size*p.Size+row*p.Size+col]
}

// Layer indices of a Perception. Pheromone channels follow LayerFood and the
// ant layer comes last.
const (
	LayerWalls = 0
	LayerFood  = 1
	layerPher  = 2
)

// AgentVectorLen is the length of the compact agent-state vector.
const AgentVectorLen = 4

// SensorBuilder extracts perceptive fields. It keeps no per-call state and is
// safe for concurrent use across ants.
type SensorBuilder struct {
	radius   int
	size     int
	channels int
	interp   Interpolation
	maxSpeed float64
}

// NewSensorBuilder constructs a builder for the given sensing parameters.
func NewSensorBuilder(s Sensing, channels int, maxSpeed float64) *SensorBuilder {
	interp := s.Interpolation
	if interp == "" {
		interp = InterpNearest
	}
	return &SensorBuilder{
		radius:   s.Radius,
		size:     2*s.Radius + 1,
		channels: channels,
		interp:   interp,
		maxSpeed: maxSpeed,
	}
}

// Layers returns the number of stacked layers per perception.
func (b *SensorBuilder) Layers() int { return layerPher + b.channels + 1 }

// AntLayer returns the index of the other-ant occupancy layer.
func (b *SensorBuilder) AntLayer() int { return layerPher + b.channels }

// WindowSize returns the side length of the square window.
func (b *SensorBuilder) WindowSize() int { return b.size }

// Build samples the window around ant. occupancy counts ants per cell,
// including ant itself, which is excluded from its own ant layer.
func (b *SensorBuilder) Build(ant AntState, world *World, field *pheromone.Field, occupancy *core.ByteGrid) Perception {
	size := b.size
	plane := size * size
	out := Perception{Size: size, Layers: b.Layers(), Cells: make([]float32, plane*b.Layers())}

	fwd := core.Heading(ant.Heading)
	right := core.Vec2{X: -fwd.Y, Y: fwd.X}
	selfX, selfY := ant.Pos.Cell()
	antLayer := b.AntLayer() * plane

	for row := 0; row < size; row++ {
		ahead := float64(b.radius - row)
		for col := 0; col < size; col++ {
			side := float64(col - b.radius)
			p := ant.Pos.Add(fwd.Scale(ahead)).Add(right.Scale(side))
			idx := row*size + col
			if !world.Size.Contains(p) {
				out.Cells[LayerWalls*plane+idx] = 1
				continue
			}
			cx, cy := p.Cell()

			if b.interp == InterpBilinear {
				out.Cells[LayerWalls*plane+idx] = float32(bilinearCells(world.Size, p, func(x, y int) float64 {
					if world.Blocked(x, y) {
						return 1
					}
					return 0
				}))
				out.Cells[LayerFood*plane+idx] = float32(pheromone.Bilinear(world.Food.Cells(), world.Size.W, world.Size.H, p))
				for c := 0; c < b.channels; c++ {
					out.Cells[(layerPher+c)*plane+idx] = float32(field.Sample(c, p))
				}
			} else {
				out.Cells[LayerWalls*plane+idx] = float32(world.Walls.At(cx, cy))
				out.Cells[LayerFood*plane+idx] = world.Food.At(cx, cy)
				for c := 0; c < b.channels; c++ {
					out.Cells[(layerPher+c)*plane+idx] = field.Channel(c)[cy*world.Size.W+cx]
				}
			}

			n := occupancy.At(cx, cy)
			if cx == selfX && cy == selfY && n > 0 {
				n--
			}
			out.Cells[antLayer+idx] = float32(n)
		}
	}
	return out
}

// AgentVector returns [carrying, speed/maxSpeed, sin(heading), cos(heading)].
func (b *SensorBuilder) AgentVector(ant AntState) []float32 {
	carrying := float32(0)
	if ant.Carrying {
		carrying = 1
	}
	speed := 0.0
	if b.maxSpeed > 0 {
		speed = ant.Speed / b.maxSpeed
	}
	s, c := math.Sincos(ant.Heading)
	return []float32{carrying, float32(speed), float32(s), float32(c)}
}

// bilinearCells interpolates get over cell centers; get decides how
// off-grid neighbors read.
func bilinearCells(size core.Size, p core.Vec2, get func(x, y int) float64) float64 {
	gx := p.X - 0.5
	gy := p.Y - 0.5
	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	fx := gx - float64(x0)
	fy := gy - float64(y0)
	top := get(x0, y0)*(1-fx) + get(x0+1, y0)*fx
	bottom := get(x0, y0+1)*(1-fx) + get(x0+1, y0+1)*fx
	return top*(1-fy) + bottom*fy
}

// buildOccupancy counts ants per cell, saturating at 255.
func buildOccupancy(grid *core.ByteGrid, ants []AntState) {
	grid.Clear()
	cells := grid.Cells()
	for _, a := range ants {
		x, y := a.Pos.Cell()
		if !grid.In(x, y) {
			continue
		}
		i := grid.Index(x, y)
		if cells[i] < math.MaxUint8 {
			cells[i]++
		}
	}
}
