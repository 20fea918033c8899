//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"antcolony/internal/core"
	"antcolony/internal/env"
	"antcolony/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status panel to the right of the world view: episode
// stats, the selected ant with its perceptive field, and the parameters the
// run was built with.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image

	params  core.ParameterSnapshot
	pal     render.Palette
	inset   render.PerceptionPainter
	snap    *env.Snapshot
	episode int

	selected     int
	panelOffsetX int
	minusRect    image.Rectangle
	plusRect     image.Rectangle
}

// NewHUD constructs a HUD with the given panel width.
func NewHUD(width int, params core.ParameterSnapshot, pal render.Palette) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{width: width, params: params, pal: pal}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
		buttonY := panelPadding
		h.plusRect = image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		h.minusRect = image.Rect(h.plusRect.Min.X-buttonGap-buttonSize, buttonY, h.plusRect.Min.X-buttonGap, buttonY+buttonSize)
	}
	return h
}

// Selected returns the index of the ant shown in detail.
func (h *HUD) Selected() int {
	if h == nil {
		return 0
	}
	return h.selected
}

// Update caches the snapshot being shown and handles ant selection.
func (h *HUD) Update(panelOffsetX int, snap *env.Snapshot, episode int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	h.snap = snap
	h.episode = episode
	ants := 0
	if snap != nil {
		ants = len(snap.Ants)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		h.selected = WrapIndex(h.selected-1, ants)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		h.selected = WrapIndex(h.selected+1, ants)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx >= h.panelOffsetX {
			px := mx - h.panelOffsetX
			if pointInRect(px, my, h.minusRect) {
				h.selected = WrapIndex(h.selected-1, ants)
			}
			if pointInRect(px, my, h.plusRect) {
				h.selected = WrapIndex(h.selected+1, ants)
			}
		}
	}
	h.selected = WrapIndex(h.selected, ants)
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	text.Draw(h.panel, "Ant", face, h.minusRect.Min.X-buttonGap-3*7, panelPadding+labelBaseline-6, labelColor)
	h.drawButton(h.minusRect, "-", h.snap != nil && len(h.snap.Ants) > 1)
	h.drawButton(h.plusRect, "+", h.snap != nil && len(h.snap.Ants) > 1)

	y := panelPadding + headerBaseline
	for i, line := range StatusLines(h.snap, h.episode, h.selected) {
		col := labelColor
		if i == 0 {
			col = headerColor
		}
		text.Draw(h.panel, line, face, panelPadding, y, col)
		y += textLine
	}

	if h.snap != nil && h.selected < len(h.snap.Perception) {
		y += panelPadding
		inset := h.width - 2*panelPadding
		if inset > insetMax {
			inset = insetMax
		}
		h.inset.Blit(h.panel, h.snap.Perception[h.selected], h.pal, inset, panelPadding, y)
		y += inset + panelPadding + headerBaseline
	} else {
		y += infoSpacing
	}

	for _, line := range ParameterLines(h.params) {
		if y > height-panelPadding {
			break
		}
		col := dimColor
		if len(line) > 0 && line[0] != ' ' {
			col = headerColor
		}
		text.Draw(h.panel, line, face, panelPadding, y, col)
		y += textLine
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	textWidth := bounds.Dx()
	textHeight := bounds.Dy()
	x := rect.Min.X + (rect.Dx()-textWidth)/2
	y := rect.Min.Y + (rect.Dy()-textHeight)/2 + textHeight
	text.Draw(h.panel, label, face, x, y, fg)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
)

const (
	panelPadding   = 12
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	infoSpacing    = 36
	textLine       = 16
	insetMax       = 160
)
