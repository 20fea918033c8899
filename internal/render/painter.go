//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"

	"antcolony/internal/env"
)

// GridPainter uploads snapshot pixels into a single image and draws it
// scaled.
type GridPainter struct {
	w, h int
	img  *ebiten.Image
	buf  []byte
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h)}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit renders the snapshot into the painter image and draws it at (x, y).
// Snapshots of a different size are skipped.
func (gp *GridPainter) Blit(dst *ebiten.Image, snap *env.Snapshot, pal Palette, opts Options, scale, x, y int) {
	if snap.Width != gp.w || snap.Height != gp.h {
		return
	}
	if err := FillSnapshot(gp.buf, snap, pal, opts); err != nil {
		return
	}
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }

// PerceptionPainter draws one ant's perceptive field as an inset.
type PerceptionPainter struct {
	size int
	img  *ebiten.Image
	buf  []byte
}

// Blit draws p scaled so the inset is px pixels wide.
func (pp *PerceptionPainter) Blit(dst *ebiten.Image, p env.Perception, pal Palette, px, x, y int) {
	if p.Size <= 0 {
		return
	}
	if pp.img == nil || pp.size != p.Size {
		if pp.img != nil {
			pp.img.Dispose()
		}
		pp.size = p.Size
		pp.img = ebiten.NewImage(p.Size, p.Size)
		pp.buf = make([]byte, 4*p.Size*p.Size)
	}
	if err := FillPerception(pp.buf, p, pal); err != nil {
		return
	}
	pp.img.WritePixels(pp.buf)

	s := float64(px) / float64(p.Size)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(x), float64(y))
	dst.DrawImage(pp.img, op)
}
