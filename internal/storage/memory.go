package storage

import (
	"context"
	"errors"
	"slices"
	"sync"
)

type episodeKey struct {
	runID   string
	episode int
}

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	episodes    map[episodeKey]EpisodeSummary
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.episodes = make(map[episodeKey]EpisodeSummary)
	return nil
}

func (s *MemoryStore) SaveEpisode(_ context.Context, summary EpisodeSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return err
	}
	s.episodes[episodeKey{summary.RunID, summary.Episode}] = summary
	return nil
}

func (s *MemoryStore) GetEpisode(_ context.Context, runID string, episode int) (EpisodeSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, ok := s.episodes[episodeKey{runID, episode}]
	return summary, ok, nil
}

func (s *MemoryStore) ListEpisodes(_ context.Context, runID string) ([]EpisodeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []EpisodeSummary
	for k, v := range s.episodes {
		if k.runID == runID {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b EpisodeSummary) int { return a.Episode - b.Episode })
	return out, nil
}
