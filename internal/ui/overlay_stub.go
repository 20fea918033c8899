//go:build !ebiten

package ui

import (
	"antcolony/internal/env"
	"antcolony/internal/render"
)

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(int, int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update(int) {}

// Options returns the default painter options.
func (o *Overlay) Options() render.Options { return render.DefaultOptions() }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any, *env.Snapshot, int) {}
