//go:build !ebiten

package main

import (
	"flag"
	"fmt"
	"os"

	"antcolony/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if cfg.PNG != "" {
		if err := app.ExportPNG(cfg); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	fmt.Fprintln(os.Stderr, "The snapshot viewer requires the ebiten build tag.")
	fmt.Fprintln(os.Stderr, "Re-run with `go run -tags ebiten ./cmd/antview` or export a frame with -png.")
	os.Exit(2)
}
