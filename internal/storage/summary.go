package storage

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RewardStats summarizes the per-ant cumulative rewards of an episode.
type RewardStats struct {
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Std   float64 `json:"std"`
	Total float64 `json:"total"`
}

// NewRewardStats computes reward statistics. Std is the population standard
// deviation. An empty slice yields zero stats.
func NewRewardStats(rewards []float64) RewardStats {
	if len(rewards) == 0 {
		return RewardStats{}
	}
	mean, std := stat.PopMeanStdDev(rewards, nil)
	return RewardStats{
		Mean:  mean,
		Min:   floats.Min(rewards),
		Max:   floats.Max(rewards),
		Std:   std,
		Total: floats.Sum(rewards),
	}
}

// EpisodeSummary is the stored outcome of one training episode.
type EpisodeSummary struct {
	VersionedRecord
	RunID         string        `json:"run_id"`
	Episode       int           `json:"episode"`
	Seed          int64         `json:"seed"`
	Steps         int           `json:"steps"`
	Rewards       RewardStats   `json:"rewards"`
	Delivered     int           `json:"delivered"`
	FoodTotal     float64       `json:"food_total"`
	FoodRemaining float64       `json:"food_remaining"`
	MeanStepTime  time.Duration `json:"mean_step_time"`
	Aborted       string        `json:"aborted,omitempty"`
	FinishedAt    time.Time     `json:"finished_at"`
}

// NewEpisodeSummary stamps the current schema and codec versions on s.
func NewEpisodeSummary(s EpisodeSummary) EpisodeSummary {
	s.SchemaVersion = CurrentSchemaVersion
	s.CodecVersion = CurrentCodecVersion
	return s
}
