//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"antcolony/internal/app"
	"antcolony/internal/archive"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.PNG != "" {
		if err := app.ExportPNG(cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	a, err := archive.ReadFile(cfg.Archive)
	if err != nil {
		log.Fatal(err)
	}
	game, err := app.New(a, cfg)
	if err != nil {
		log.Fatal(err)
	}
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("antview - " + a.Header().RunID)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
