// Package pheromone implements the multi-channel trail field ants deposit into.
//
// Each channel is a dense row-major float32 grid covering the world. Deposits
// are buffered per channel and only merged into the live grid by Step, so all
// ants of one tick may deposit in any order (or concurrently per channel
// owner) without changing the result of diffusion.
package pheromone

import (
	"errors"
	"fmt"
	"math"

	"antcolony/internal/core"
)

// ErrInvariant reports a non-finite or negative intensity produced by Step.
var ErrInvariant = errors.New("pheromone invariant violated")

// Splat selects how a continuous deposit is distributed over cells.
type Splat string

const (
	// SplatBilinear spreads a deposit over the four nearest cell centers.
	SplatBilinear Splat = "bilinear"
	// SplatNearest puts the whole deposit in the containing cell.
	SplatNearest Splat = "nearest"
)

// Params configures diffusion, decay and saturation.
type Params struct {
	Channels      int
	DiffusionRate float64 // in [0,1]
	Retention     float64 // in [0,1)
	MaxIntensity  float64
	Splat         Splat
}

// DefaultParams returns the standard field configuration.
func DefaultParams() Params {
	return Params{
		Channels:      2,
		DiffusionRate: 0.1,
		Retention:     0.98,
		MaxIntensity:  100,
		Splat:         SplatBilinear,
	}
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.Channels < 0 {
		return fmt.Errorf("pheromone channels must be >= 0, got %d", p.Channels)
	}
	if math.IsNaN(p.DiffusionRate) || p.DiffusionRate < 0 || p.DiffusionRate > 1 {
		return fmt.Errorf("pheromone diffusion rate must be within [0,1], got %v", p.DiffusionRate)
	}
	if math.IsNaN(p.Retention) || p.Retention < 0 || p.Retention >= 1 {
		return fmt.Errorf("pheromone retention must be within [0,1), got %v", p.Retention)
	}
	if math.IsNaN(p.MaxIntensity) || p.MaxIntensity <= 0 {
		return fmt.Errorf("pheromone max intensity must be > 0, got %v", p.MaxIntensity)
	}
	switch p.Splat {
	case SplatBilinear, SplatNearest, "":
	default:
		return fmt.Errorf("unknown pheromone splat mode %q", p.Splat)
	}
	return nil
}

// Field holds one grid per channel plus pending deposits.
type Field struct {
	params Params
	w, h   int

	curr    [][]float32
	pending [][]float32
	next    [][]float32
	dirty   []bool
}

// New allocates an all-zero field for a w x h world.
func New(w, h int, params Params) *Field {
	if params.Splat == "" {
		params.Splat = SplatBilinear
	}
	f := &Field{params: params, w: w, h: h}
	total := w * h
	if total < 0 {
		total = 0
	}
	f.curr = make([][]float32, params.Channels)
	f.pending = make([][]float32, params.Channels)
	f.next = make([][]float32, params.Channels)
	f.dirty = make([]bool, params.Channels)
	for c := 0; c < params.Channels; c++ {
		f.curr[c] = make([]float32, total)
		f.pending[c] = make([]float32, total)
		f.next[c] = make([]float32, total)
	}
	return f
}

// Channels returns the number of channels.
func (f *Field) Channels() int { return len(f.curr) }

// Size reports the grid dimensions.
func (f *Field) Size() core.Size { return core.Size{W: f.w, H: f.h} }

// Params returns the field configuration.
func (f *Field) Params() Params { return f.params }

// Channel exposes the committed grid of channel c. Callers must not mutate it.
func (f *Field) Channel(c int) []float32 {
	if c < 0 || c >= len(f.curr) {
		return nil
	}
	return f.curr[c]
}

// Reset zeroes every grid and drops pending deposits.
func (f *Field) Reset() {
	for c := range f.curr {
		clear(f.curr[c])
		clear(f.pending[c])
		f.dirty[c] = false
	}
}

// Deposit adds amount at pos on channel c. The amount is only visible after
// the next Step. Invalid channels and non-positive or non-finite amounts are
// ignored; weight falling off the grid is dropped.
func (f *Field) Deposit(c int, pos core.Vec2, amount float64) {
	if c < 0 || c >= len(f.pending) {
		return
	}
	if !(amount > 0) || math.IsInf(amount, 0) || !pos.Finite() {
		return
	}
	buf := f.pending[c]
	if f.params.Splat == SplatNearest {
		x, y := pos.Cell()
		if x >= 0 && y >= 0 && x < f.w && y < f.h {
			buf[y*f.w+x] += float32(amount)
			f.dirty[c] = true
		}
		return
	}

	// Bilinear weights relative to cell centers.
	gx := pos.X - 0.5
	gy := pos.Y - 0.5
	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	fx := gx - float64(x0)
	fy := gy - float64(y0)
	corners := [4]struct {
		x, y int
		w    float64
	}{
		{x0, y0, (1 - fx) * (1 - fy)},
		{x0 + 1, y0, fx * (1 - fy)},
		{x0, y0 + 1, (1 - fx) * fy},
		{x0 + 1, y0 + 1, fx * fy},
	}
	for _, k := range corners {
		if k.w <= 0 || k.x < 0 || k.y < 0 || k.x >= f.w || k.y >= f.h {
			continue
		}
		buf[k.y*f.w+k.x] += float32(amount * k.w)
		f.dirty[c] = true
	}
}

// Step merges pending deposits, diffuses, decays and saturates every channel.
// The new grids are validated before they replace the committed ones; on
// violation the committed state is left unchanged and ErrInvariant is returned.
func (f *Field) Step() error {
	rate := f.params.DiffusionRate
	keep := 1 - rate
	share := rate / 4
	retention := f.params.Retention
	ceiling := f.params.MaxIntensity
	w, h := f.w, f.h

	for c := range f.curr {
		src := f.curr[c]
		pend := f.pending[c]
		dst := f.next[c]
		// Pending deposits are folded in on read so the committed grid is
		// never touched before validation.
		at := func(i int) float64 { return float64(src[i]) + float64(pend[i]) }
		for y := 0; y < h; y++ {
			row := y * w
			for x := 0; x < w; x++ {
				i := row + x
				acc := 0.0
				if x > 0 {
					acc += at(i - 1)
				}
				if x < w-1 {
					acc += at(i + 1)
				}
				if y > 0 {
					acc += at(i - w)
				}
				if y < h-1 {
					acc += at(i + w)
				}
				v := (keep*at(i) + share*acc) * retention
				if v > ceiling {
					v = ceiling
				}
				dst[i] = float32(v)
			}
		}
	}

	for c := range f.next {
		if err := checkChannel(f.next[c]); err != nil {
			return fmt.Errorf("channel %d: %w", c, err)
		}
	}

	for c := range f.curr {
		f.curr[c], f.next[c] = f.next[c], f.curr[c]
		if f.dirty[c] {
			clear(f.pending[c])
			f.dirty[c] = false
		}
	}
	return nil
}

func checkChannel(vals []float32) error {
	for i, v := range vals {
		if v < 0 || math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return fmt.Errorf("%w: cell %d has intensity %v", ErrInvariant, i, v)
		}
	}
	return nil
}

// Sample returns the bilinearly interpolated intensity of channel c at pos.
// Positions outside the world return 0; the out-of-bounds wall sentinel is
// applied only on the wall layer, by SensorBuilder.Build in package env.
func (f *Field) Sample(c int, pos core.Vec2) float64 {
	if c < 0 || c >= len(f.curr) {
		return 0
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= float64(f.w) || pos.Y >= float64(f.h) {
		return 0
	}
	return Bilinear(f.curr[c], f.w, f.h, pos)
}

// Total returns the summed intensity of channel c.
func (f *Field) Total(c int) float64 {
	total := 0.0
	for _, v := range f.Channel(c) {
		total += float64(v)
	}
	return total
}

// Max returns the largest intensity of channel c.
func (f *Field) Max(c int) float64 {
	m := 0.0
	for _, v := range f.Channel(c) {
		if float64(v) > m {
			m = float64(v)
		}
	}
	return m
}

// Clone returns a deep copy of the committed grids. Pending deposits are not
// part of the committed state and are not copied.
func (f *Field) Clone() [][]float32 {
	out := make([][]float32, len(f.curr))
	for c := range f.curr {
		out[c] = append([]float32(nil), f.curr[c]...)
	}
	return out
}

// Bilinear interpolates a row-major grid at a continuous position using cell
// centers as sample points. Samples beyond the edge clamp to the border cells.
func Bilinear(vals []float32, w, h int, pos core.Vec2) float64 {
	gx := pos.X - 0.5
	gy := pos.Y - 0.5
	x0 := int(math.Floor(gx))
	y0 := int(math.Floor(gy))
	fx := gx - float64(x0)
	fy := gy - float64(y0)
	x1 := clampIndex(x0+1, w)
	y1 := clampIndex(y0+1, h)
	x0 = clampIndex(x0, w)
	y0 = clampIndex(y0, h)

	v00 := float64(vals[y0*w+x0])
	v10 := float64(vals[y0*w+x1])
	v01 := float64(vals[y1*w+x0])
	v11 := float64(vals[y1*w+x1])
	top := v00 + (v10-v00)*fx
	bottom := v01 + (v11-v01)*fx
	return top + (bottom-top)*fy
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
