package app

import "flag"

// Config represents the command-line parameters of the snapshot viewer.
type Config struct {
	Archive  string
	Episode  int
	Scale    int
	TPS      int
	FPS      int
	HUDWidth int

	// Headless export.
	PNG   string
	Frame int
	Heat  bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Archive: "snapshots.json.gz", Episode: -1, Scale: 3, TPS: 60, FPS: 20, HUDWidth: 260, Frame: -1}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Archive, "archive", c.Archive, "snapshot archive to open")
	fs.IntVar(&c.Episode, "episode", c.Episode, "episode to start on (-1 for the first archived)")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.FPS, "fps", c.FPS, "snapshots played per second")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "width of the status panel in pixels (0 hides it)")
	fs.StringVar(&c.PNG, "png", c.PNG, "write one frame to this PNG file instead of opening a window")
	fs.IntVar(&c.Frame, "frame", c.Frame, "frame index for -png (-1 for the last)")
	fs.BoolVar(&c.Heat, "heat", c.Heat, "tint recently visited cells in -png output")
}
