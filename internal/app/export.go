package app

import (
	"fmt"
	"image/png"
	"os"

	"antcolony/internal/archive"
	"antcolony/internal/render"
)

// ExportPNG renders one archived frame to cfg.PNG without opening a window.
func ExportPNG(cfg *Config) error {
	a, err := archive.ReadFile(cfg.Archive)
	if err != nil {
		return err
	}
	pb, err := NewPlayback(a, cfg.Episode)
	if err != nil {
		return err
	}
	pb.Seek(cfg.Frame)
	snap, _ := pb.Current()

	opts := render.DefaultOptions()
	opts.Heat = cfg.Heat
	img, err := render.Image(snap, render.DefaultPalette(), opts)
	if err != nil {
		return err
	}
	f, err := os.Create(cfg.PNG)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", cfg.PNG, err)
	}
	return f.Close()
}
