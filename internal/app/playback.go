package app

import (
	"fmt"
	"slices"

	"antcolony/internal/archive"
	"antcolony/internal/env"
)

// Playback is a cursor over the archived frames of every episode.
type Playback struct {
	episodes []int
	frames   [][]env.Snapshot
	ep       int
	frame    int
}

// NewPlayback indexes a. start selects the first episode shown; -1 picks
// the earliest.
func NewPlayback(a *archive.Archive, start int) (*Playback, error) {
	eps := a.Episodes()
	if len(eps) == 0 {
		return nil, fmt.Errorf("archive %q holds no snapshots", a.Header().RunID)
	}
	p := &Playback{episodes: eps, frames: make([][]env.Snapshot, len(eps))}
	for i, ep := range eps {
		p.frames[i] = a.Frames(ep)
	}
	if start >= 0 {
		i := slices.Index(eps, start)
		if i < 0 {
			return nil, fmt.Errorf("episode %d not archived (have %v)", start, eps)
		}
		p.ep = i
	}
	return p, nil
}

// Current returns the frame under the cursor and its episode number.
func (p *Playback) Current() (*env.Snapshot, int) {
	return &p.frames[p.ep][p.frame], p.episodes[p.ep]
}

// Position returns the frame index and the episode's frame count.
func (p *Playback) Position() (int, int) { return p.frame, len(p.frames[p.ep]) }

// Advance moves one frame forward, rolling into the next episode (and back
// to the first) after the last frame.
func (p *Playback) Advance() {
	if p.frame+1 < len(p.frames[p.ep]) {
		p.frame++
		return
	}
	p.NextEpisode()
}

// Step moves delta frames within the current episode, clamped to its ends.
func (p *Playback) Step(delta int) {
	p.frame = min(max(p.frame+delta, 0), len(p.frames[p.ep])-1)
}

// Seek jumps to frame i of the current episode; negative i counts from the
// end.
func (p *Playback) Seek(i int) {
	n := len(p.frames[p.ep])
	if i < 0 {
		i += n
	}
	p.frame = min(max(i, 0), n-1)
}

// NextEpisode moves to the first frame of the following episode.
func (p *Playback) NextEpisode() {
	p.ep = (p.ep + 1) % len(p.episodes)
	p.frame = 0
}

// PrevEpisode moves to the first frame of the preceding episode.
func (p *Playback) PrevEpisode() {
	p.ep = (p.ep - 1 + len(p.episodes)) % len(p.episodes)
	p.frame = 0
}

// Size returns the grid size of the current frame.
func (p *Playback) Size() (int, int) {
	s, _ := p.Current()
	return s.Width, s.Height
}
