//go:build ebiten

package app

import (
	"strconv"

	"antcolony/internal/archive"
	"antcolony/internal/core"
	"antcolony/internal/render"
	"antcolony/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game plays archived snapshots through the ebiten.Game interface.
type Game struct {
	playback *Playback
	painter  *render.GridPainter
	overlay  *ui.Overlay
	hud      *ui.HUD
	pal      render.Palette
	timer    *core.FixedStep

	channels int
	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
}

// New constructs a Game for the archive using the viewer config.
func New(a *archive.Archive, cfg *Config) (*Game, error) {
	pb, err := NewPlayback(a, cfg.Episode)
	if err != nil {
		return nil, err
	}
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
	}
	params := a.Header().Parameters
	radius := 0
	if p, ok := params.Lookup("sensor_radius"); ok {
		radius, _ = strconv.Atoi(p.Value)
	}
	snap, _ := pb.Current()
	pal := render.DefaultPalette()
	return &Game{
		playback: pb,
		painter:  render.NewGridPainter(snap.Width, snap.Height),
		overlay:  ui.NewOverlay(scale, radius),
		hud:      ui.NewHUD(cfg.HUDWidth, params, pal),
		pal:      pal,
		timer:    core.NewFixedStep(cfg.FPS),
		channels: len(snap.Pheromones),
		scale:    scale,
		hudWidth: max(cfg.HUDWidth, 0),
	}, nil
}

// Update handles per-frame input and advances playback at the configured
// rate.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.timer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.playback.Step(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.playback.Step(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.playback.Seek(0)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnd) {
		g.playback.Seek(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) {
		g.playback.NextEpisode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		g.playback.PrevEpisode()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.timer.SetRate(g.timer.Rate() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.timer.SetRate(max(g.timer.Rate()/2, 1))
	}

	g.overlay.Update(g.channels)

	if g.tickOnce {
		g.playback.Advance()
		g.tickOnce = false
	} else if !g.paused && g.timer.ShouldStep() {
		g.playback.Advance()
	}

	snap, ep := g.playback.Current()
	if w, h := g.painter.Size(); w != snap.Width || h != snap.Height {
		g.painter = render.NewGridPainter(snap.Width, snap.Height)
	}
	g.channels = len(snap.Pheromones)
	g.hud.Update(snap.Width*g.scale, snap, ep)
	return nil
}

// Draw renders the current frame, its overlays and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	snap, _ := g.playback.Current()
	g.painter.Blit(screen, snap, g.pal, g.overlay.Options(), g.scale, 0, 0)
	g.overlay.Draw(screen, snap, g.hud.Selected())
	g.hud.Draw(screen, snap.Width*g.scale, snap.Height*g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := g.playback.Size()
	return w*g.scale + g.hudWidth, h * g.scale
}
