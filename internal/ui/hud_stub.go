//go:build !ebiten

package ui

import (
	"antcolony/internal/core"
	"antcolony/internal/env"
	"antcolony/internal/render"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(int, core.ParameterSnapshot, render.Palette) *HUD { return nil }

// Selected always reports the first ant in the headless build.
func (h *HUD) Selected() int { return 0 }

// Update is a no-op in the headless build.
func (h *HUD) Update(int, *env.Snapshot, int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
