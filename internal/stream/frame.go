package stream

import "antcolony/internal/env"

// Hello is sent to every client on connect.
type Hello struct {
	Type     string `json:"type"`
	W        int    `json:"w"`
	H        int    `json:"h"`
	Ants     int    `json:"ants"`
	Channels int    `json:"channels"`
	RunID    string `json:"run_id"`
}

// NewHello describes the world clients are about to receive frames for.
func NewHello(runID string, cfg env.Config) Hello {
	return Hello{Type: "config", W: cfg.Width, H: cfg.Height, Ants: cfg.Ants, Channels: cfg.Pheromone.Channels, RunID: runID}
}

// Frame is one sampled step. Snapshot is only set for full frames, which
// carry the grids as well as the ants.
type Frame struct {
	Type          string         `json:"type"`
	Episode       int            `json:"episode"`
	Step          int            `json:"step"`
	Ants          []env.AntState `json:"ants"`
	Delivered     int            `json:"delivered"`
	FoodRemaining float64        `json:"food_remaining"`
	Snapshot      *env.Snapshot  `json:"snapshot,omitempty"`
}

// NewFrame builds a frame from a snapshot.
func NewFrame(episode int, snap env.Snapshot, full bool) Frame {
	remaining := 0.0
	for _, v := range snap.Food {
		remaining += float64(v)
	}
	f := Frame{
		Type:          "frame",
		Episode:       episode,
		Step:          snap.Step,
		Ants:          snap.Ants,
		Delivered:     snap.Delivered(),
		FoodRemaining: remaining,
	}
	if full {
		f.Snapshot = &snap
	}
	return f
}
