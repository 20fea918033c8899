package render

import (
	"image/color"
	"math"
)

// Palette holds the colors used to draw a snapshot.
type Palette struct {
	Ground      color.NRGBA
	Wall        color.NRGBA
	Food        color.NRGBA
	Anthill     color.NRGBA
	Ant         color.NRGBA
	AntCarrying color.NRGBA
	// Channels tints pheromone channels in order; channels past the end
	// reuse the last entry.
	Channels []color.NRGBA
}

// DefaultPalette returns the viewer's standard colors.
func DefaultPalette() Palette {
	return Palette{
		Ground:      color.NRGBA{R: 70, G: 52, B: 32, A: 255},
		Wall:        color.NRGBA{R: 130, G: 130, B: 130, A: 255},
		Food:        color.NRGBA{R: 70, G: 160, B: 80, A: 255},
		Anthill:     color.NRGBA{R: 150, G: 90, B: 50, A: 255},
		Ant:         color.NRGBA{R: 20, G: 20, B: 20, A: 255},
		AntCarrying: color.NRGBA{R: 240, G: 220, B: 60, A: 255},
		Channels: []color.NRGBA{
			{R: 64, G: 164, B: 223, A: 255},
			{R: 255, G: 120, B: 40, A: 255},
			{R: 200, G: 90, B: 220, A: 255},
		},
	}
}

func (p Palette) channel(c int) color.NRGBA {
	if len(p.Channels) == 0 {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if c >= len(p.Channels) {
		c = len(p.Channels) - 1
	}
	return p.Channels[c]
}

func blendColors(base, overlay color.NRGBA, overlayWeight float64) color.NRGBA {
	if overlayWeight <= 0 {
		return base
	}
	if overlayWeight >= 1 {
		return overlay
	}
	br, bg, bb, ba := float64(base.R), float64(base.G), float64(base.B), float64(base.A)
	or, og, ob, oa := float64(overlay.R), float64(overlay.G), float64(overlay.B), float64(overlay.A)
	w := overlayWeight
	inv := 1 - w
	return color.NRGBA{
		R: uint8(br*inv + or*w + 0.5),
		G: uint8(bg*inv + og*w + 0.5),
		B: uint8(bb*inv + ob*w + 0.5),
		A: uint8(ba*inv + oa*w + 0.5),
	}
}

// heatColor maps t in [0,1] onto a cold-to-hot ramp.
func heatColor(t float64) color.NRGBA {
	t = clamp01(t)
	stops := []struct {
		t   float64
		col color.NRGBA
	}{
		{0.0, color.NRGBA{R: 40, G: 60, B: 120, A: 255}},
		{0.5, color.NRGBA{R: 190, G: 160, B: 80, A: 255}},
		{1.0, color.NRGBA{R: 240, G: 235, B: 215, A: 255}},
	}
	for i := 1; i < len(stops); i++ {
		curr := stops[i]
		if t <= curr.t {
			prev := stops[i-1]
			span := curr.t - prev.t
			var local float64
			if span > 0 {
				local = (t - prev.t) / span
			}
			return blendColors(prev.col, curr.col, clamp01(local))
		}
	}
	return stops[len(stops)-1].col
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
