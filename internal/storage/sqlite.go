//go:build sqlite

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func newSQLiteStore(path string) (Store, error) {
	return NewSQLiteStore(path), nil
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveEpisode(ctx context.Context, summary EpisodeSummary) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	if err := checkVersion(summary.VersionedRecord); err != nil {
		return err
	}

	payload, err := EncodeEpisode(summary)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO episodes (run_id, episode, schema_version, codec_version, total_reward, delivered, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, episode) DO UPDATE SET
			schema_version = excluded.schema_version,
			codec_version = excluded.codec_version,
			total_reward = excluded.total_reward,
			delivered = excluded.delivered,
			payload = excluded.payload
	`, summary.RunID, summary.Episode, summary.SchemaVersion, summary.CodecVersion,
		summary.Rewards.Total, summary.Delivered, payload)
	return err
}

func (s *SQLiteStore) GetEpisode(ctx context.Context, runID string, episode int) (EpisodeSummary, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return EpisodeSummary{}, false, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx,
		`SELECT payload FROM episodes WHERE run_id = ? AND episode = ?`, runID, episode,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EpisodeSummary{}, false, nil
		}
		return EpisodeSummary{}, false, err
	}

	summary, err := DecodeEpisode(payload)
	if err != nil {
		return EpisodeSummary{}, false, fmt.Errorf("decode episode %s/%d: %w", runID, episode, err)
	}
	return summary, true, nil
}

func (s *SQLiteStore) ListEpisodes(ctx context.Context, runID string) ([]EpisodeSummary, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT episode, payload FROM episodes WHERE run_id = ? ORDER BY episode`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EpisodeSummary
	for rows.Next() {
		var (
			episode int
			payload []byte
		)
		if err := rows.Scan(&episode, &payload); err != nil {
			return nil, err
		}
		summary, err := DecodeEpisode(payload)
		if err != nil {
			return nil, fmt.Errorf("decode episode %s/%d: %w", runID, episode, err)
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL,
			episode INTEGER NOT NULL,
			schema_version INTEGER NOT NULL,
			codec_version INTEGER NOT NULL,
			total_reward REAL NOT NULL,
			delivered INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (run_id, episode)
		);
	`)
	return err
}
