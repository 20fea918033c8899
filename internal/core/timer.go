package core

import "time"

// FixedStep paces snapshot playback at a steady frames-per-second rate,
// independent of the render loop's own tick rate.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given rate.
func NewFixedStep(fps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(fps)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the playback rate. Non-positive values fall back to 30.
func (f *FixedStep) SetRate(fps int) {
	if fps <= 0 {
		fps = 30
	}
	f.step = time.Second / time.Duration(fps)
}

// Rate returns the current frames per second.
func (f *FixedStep) Rate() int {
	return int(time.Second / f.step)
}

// Reset drops accumulated time so the next frame waits a full interval.
func (f *FixedStep) Reset() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether playback should advance by one frame.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	f.accumulator += now.Sub(f.last)
	f.last = now
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
