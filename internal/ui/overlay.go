//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"antcolony/internal/env"
	"antcolony/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the world view and
// owns the layer toggles the painter honors.
type Overlay struct {
	scale  int
	radius int

	showPheromones bool
	channel        int
	showTrail      bool
	showHeadings   bool
	showWindow     bool

	maskImg *ebiten.Image
	maskBuf []byte
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for the given view scale and sensing
// radius.
func NewOverlay(scale, radius int) *Overlay {
	if scale <= 0 {
		scale = 1
	}
	o := &Overlay{scale: scale, radius: radius, showPheromones: true, channel: -1, showHeadings: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay keys. channels bounds the pheromone channel
// cycle.
func (o *Overlay) Update(channels int) {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPheromones = !o.showPheromones
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showTrail = !o.showTrail
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit3) {
		o.showHeadings = !o.showHeadings
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit4) {
		o.showWindow = !o.showWindow
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && channels > 0 {
		// -1 (all) -> 0 -> ... -> channels-1 -> -1
		o.channel++
		if o.channel >= channels {
			o.channel = -1
		}
	}
}

// Options returns the painter options for the current toggles.
func (o *Overlay) Options() render.Options {
	return render.Options{Pheromones: o.showPheromones, Channel: o.channel, Ants: true}
}

// Draw renders the enabled overlays for snap. selected is the ant whose
// sensing window is outlined.
func (o *Overlay) Draw(screen *ebiten.Image, snap *env.Snapshot, selected int) {
	if snap == nil || snap.Width <= 0 || snap.Height <= 0 {
		return
	}
	if o.showTrail {
		o.drawMask(screen, snap.Heat, snap.Width, snap.Height, color.RGBA{R: 255, G: 120, B: 40, A: 0})
	}
	thickness := math.Max(1, float64(o.scale)*0.3)
	if o.showHeadings {
		for _, a := range snap.Ants {
			x1, y1, x2, y2 := HeadingSegment(a, o.scale, 1.5)
			o.drawLine(screen, x1, y1, x2, y2, thickness, color.RGBA{R: 240, G: 240, B: 240, A: 200})
		}
	}
	if o.showWindow && len(snap.Ants) > 0 {
		a := snap.Ants[WrapIndex(selected, len(snap.Ants))]
		c := WindowCorners(a, o.radius, o.scale)
		col := color.RGBA{R: 120, G: 220, B: 255, A: 220}
		for i := range c {
			n := c[(i+1)%len(c)]
			o.drawLine(screen, c[i][0], c[i][1], n[0], n[1], thickness, col)
		}
	}
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, w, h int, tint color.RGBA) {
	total := w * h
	if len(mask) != total || total == 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != w || o.maskImg.Bounds().Dy() != h {
		o.maskImg = ebiten.NewImage(w, h)
		o.maskBuf = make([]byte, 4*total)
	}
	const (
		maxAlpha      = 140.0
		glowBase      = 0.35
		glowRange     = 0.65
		intensityBias = 0.75
	)

	for i := 0; i < total; i++ {
		base := i * 4
		intensity := clamp01(float64(mask[i]))
		if intensity == 0 {
			o.maskBuf[base+0] = 0
			o.maskBuf[base+1] = 0
			o.maskBuf[base+2] = 0
			o.maskBuf[base+3] = 0
			continue
		}

		alpha := uint8(math.Round(maxAlpha * math.Pow(intensity, intensityBias)))
		glow := glowBase + glowRange*math.Sqrt(intensity)

		// premultiplied for WritePixels
		a := float64(alpha) / 255
		o.maskBuf[base+0] = scaleColorComponent(tint.R, glow*a)
		o.maskBuf[base+1] = scaleColorComponent(tint.G, glow*a)
		o.maskBuf[base+2] = scaleColorComponent(tint.B, glow*a)
		o.maskBuf[base+3] = alpha
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
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

func scaleColorComponent(value uint8, factor float64) uint8 {
	scaled := math.Round(float64(value) * factor)
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}
