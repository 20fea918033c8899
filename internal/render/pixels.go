// Package render rasterizes environment snapshots into RGBA pixel buffers
// at one pixel per cell. Scaling to the screen is the painter's job.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"antcolony/internal/env"
)

// Options selects the layers drawn on top of the terrain.
type Options struct {
	Pheromones bool
	// Channel restricts pheromone tinting to one channel; -1 draws all.
	Channel int
	Heat    bool
	Ants    bool
}

// DefaultOptions draws every pheromone channel and the ants.
func DefaultOptions() Options {
	return Options{Pheromones: true, Channel: -1, Ants: true}
}

const (
	pheromoneWeight = 0.8
	heatWeight      = 0.5
	foodFloor       = 0.35
)

// FillSnapshot writes the snapshot into buf, which must hold Width*Height*4
// bytes.
func FillSnapshot(buf []byte, s *env.Snapshot, pal Palette, opts Options) error {
	cells := s.Width * s.Height
	if cells <= 0 {
		return fmt.Errorf("render: empty snapshot %dx%d", s.Width, s.Height)
	}
	if len(buf) < cells*4 {
		return fmt.Errorf("render: buffer holds %d bytes, need %d", len(buf), cells*4)
	}
	if len(s.Walls) != cells || len(s.Food) != cells {
		return fmt.Errorf("render: snapshot layers do not match %dx%d", s.Width, s.Height)
	}

	foodMax := maxOf(s.Food)
	chanMax := make([]float32, len(s.Pheromones))
	for c, ch := range s.Pheromones {
		chanMax[c] = maxOf(ch)
	}
	r2 := s.AnthillRadius * s.AnthillRadius

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			i := y*s.Width + x
			col := pal.Ground

			dx := float64(x) + 0.5 - s.Anthill.X
			dy := float64(y) + 0.5 - s.Anthill.Y
			if dx*dx+dy*dy <= r2 {
				col = pal.Anthill
			}
			if opts.Heat && len(s.Heat) == cells && s.Heat[i] > 0 {
				h := float64(s.Heat[i])
				col = blendColors(col, heatColor(h), heatWeight*clamp01(h))
			}
			if opts.Pheromones {
				for c, ch := range s.Pheromones {
					if opts.Channel >= 0 && c != opts.Channel {
						continue
					}
					if len(ch) != cells || chanMax[c] <= 0 || ch[i] <= 0 {
						continue
					}
					w := pheromoneWeight * clamp01(float64(ch[i]/chanMax[c]))
					col = blendColors(col, pal.channel(c), w)
				}
			}
			if f := s.Food[i]; f > 0 && foodMax > 0 {
				w := foodFloor + (1-foodFloor)*clamp01(float64(f/foodMax))
				col = blendColors(col, pal.Food, w)
			}
			if s.Walls[i] != 0 {
				col = pal.Wall
			}
			put(buf, i, col)
		}
	}

	if opts.Ants {
		for _, a := range s.Ants {
			x, y := a.Pos.Cell()
			if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
				continue
			}
			col := pal.Ant
			if a.Carrying {
				col = pal.AntCarrying
			}
			put(buf, y*s.Width+x, col)
		}
	}
	return nil
}

// Image renders the snapshot into a new image.
func Image(s *env.Snapshot, pal Palette, opts Options) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	if err := FillSnapshot(img.Pix, s, pal, opts); err != nil {
		return nil, err
	}
	return img, nil
}

// FillPerception writes an ant's perceptive field into buf, which must hold
// Size*Size*4 bytes. Row 0 is the far edge of the window and the ant sits in
// the center, so the image reads as the ant's own view facing up.
func FillPerception(buf []byte, p env.Perception, pal Palette) error {
	plane := p.Size * p.Size
	if plane <= 0 || p.Layers < 3 || len(p.Cells) != plane*p.Layers {
		return fmt.Errorf("render: malformed perception %dx%d with %d layers", p.Size, p.Size, p.Layers)
	}
	if len(buf) < plane*4 {
		return fmt.Errorf("render: buffer holds %d bytes, need %d", len(buf), plane*4)
	}
	channels := p.Layers - 3
	antLayer := p.Layers - 1

	layerMax := func(l int) float32 { return maxOf(p.Cells[l*plane : (l+1)*plane]) }
	foodMax := layerMax(env.LayerFood)
	chanMax := make([]float32, channels)
	for c := range chanMax {
		chanMax[c] = layerMax(env.LayerFood + 1 + c)
	}

	for row := 0; row < p.Size; row++ {
		for col := 0; col < p.Size; col++ {
			idx := row*p.Size + col
			c := pal.Ground
			for ch := 0; ch < channels; ch++ {
				v := p.At(env.LayerFood+1+ch, row, col)
				if v > 0 && chanMax[ch] > 0 {
					c = blendColors(c, pal.channel(ch), pheromoneWeight*clamp01(float64(v/chanMax[ch])))
				}
			}
			if v := p.At(env.LayerFood, row, col); v > 0 && foodMax > 0 {
				c = blendColors(c, pal.Food, foodFloor+(1-foodFloor)*clamp01(float64(v/foodMax)))
			}
			if v := p.At(env.LayerWalls, row, col); v > 0 {
				c = blendColors(c, pal.Wall, clamp01(float64(v)))
			}
			if p.At(antLayer, row, col) > 0 {
				c = pal.Ant
			}
			put(buf, idx, c)
		}
	}
	center := p.Size / 2
	put(buf, center*p.Size+center, pal.AntCarrying)
	return nil
}

// PerceptionImage renders a perceptive field into a new image.
func PerceptionImage(p env.Perception, pal Palette) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, p.Size, p.Size))
	if err := FillPerception(img.Pix, p, pal); err != nil {
		return nil, err
	}
	return img, nil
}

func put(buf []byte, i int, c color.NRGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}

func maxOf(v []float32) float32 {
	m := float32(0)
	for _, x := range v {
		if x > m && !math.IsInf(float64(x), 1) {
			m = x
		}
	}
	return m
}
