// Package storage keeps per-episode training summaries.
package storage

import "context"

// Store defines persistence operations for episode summaries. Summaries are
// keyed by run ID and episode number; saving the same key twice replaces the
// earlier record.
type Store interface {
	Init(ctx context.Context) error
	SaveEpisode(ctx context.Context, summary EpisodeSummary) error
	GetEpisode(ctx context.Context, runID string, episode int) (EpisodeSummary, bool, error)
	ListEpisodes(ctx context.Context, runID string) ([]EpisodeSummary, error)
}
