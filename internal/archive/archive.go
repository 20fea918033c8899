// Package archive persists sampled environment snapshots for offline
// playback. An archive is one gzip-compressed JSON document.
package archive

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"time"

	"antcolony/internal/core"
	"antcolony/internal/env"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("archive version mismatch")

// VersionedRecord captures schema and codec evolution of the file format.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Header describes the run an archive came from.
type Header struct {
	VersionedRecord
	RunID     string    `json:"run_id"`
	RootSeed  int64     `json:"root_seed"`
	CreatedAt time.Time `json:"created_at"`
	// Parameters describes the configuration of the first archived episode.
	Parameters core.ParameterSnapshot `json:"parameters"`
}

// Entry is one snapshot tagged with the episode it was taken in.
type Entry struct {
	Episode  int          `json:"episode"`
	Snapshot env.Snapshot `json:"snapshot"`
}

// Archive collects snapshots in insertion order. Add is safe for concurrent
// use.
type Archive struct {
	mu      sync.Mutex
	header  Header
	entries []Entry
}

type document struct {
	Header  Header  `json:"header"`
	Entries []Entry `json:"entries"`
}

// New returns an empty archive for the given run.
func New(runID string, rootSeed int64) *Archive {
	return &Archive{header: Header{
		VersionedRecord: VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion},
		RunID:           runID,
		RootSeed:        rootSeed,
		CreatedAt:       time.Now().UTC(),
	}}
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.header
}

// SetParameters records the configuration shown next to the playback.
func (a *Archive) SetParameters(p core.ParameterSnapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.header.Parameters = p
}

// Add appends a snapshot taken during episode.
func (a *Archive) Add(episode int, snap env.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, Entry{Episode: episode, Snapshot: snap})
}

// Len returns the number of stored snapshots.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

// Entries returns the stored snapshots in insertion order.
func (a *Archive) Entries() []Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.entries)
}

// Episodes returns the distinct episode numbers in ascending order.
func (a *Archive) Episodes() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	var eps []int
	for _, e := range a.entries {
		if !slices.Contains(eps, e.Episode) {
			eps = append(eps, e.Episode)
		}
	}
	slices.Sort(eps)
	return eps
}

// Frames returns the snapshots of one episode in insertion order.
func (a *Archive) Frames(episode int) []env.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []env.Snapshot
	for _, e := range a.entries {
		if e.Episode == episode {
			out = append(out, e.Snapshot)
		}
	}
	return out
}

// Write encodes the archive to w.
func (a *Archive) Write(w io.Writer) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc := document{Header: a.header, Entries: a.entries}

	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(doc); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode archive: %w", err)
	}
	return zw.Close()
}

// Read decodes an archive and checks its versions.
func Read(r io.Reader) (*Archive, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	var doc document
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode archive: %w", err)
	}
	if err := checkVersion(doc.Header.VersionedRecord); err != nil {
		return nil, err
	}
	return &Archive{header: doc.Header, entries: doc.Entries}, nil
}

// WriteFile writes the archive to path, replacing any existing file.
func (a *Archive) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := a.Write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads the archive at path.
func ReadFile(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func checkVersion(v VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return fmt.Errorf("%w: schema %d codec %d", ErrVersionMismatch, v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
