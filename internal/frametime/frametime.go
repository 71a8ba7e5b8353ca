// Package frametime measures frame pacing with the high resolution timer.
package frametime

import (
	"time"

	"github.com/loov/hrtime"
)

type Sample struct {
	Frames  int
	Elapsed time.Duration
	Min     time.Duration
	Max     time.Duration
}

func (s Sample) FPS() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Elapsed.Seconds()
}

func (s Sample) Mean() time.Duration {
	if s.Frames == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Frames)
}

// Counter accumulates frame durations over a reporting window. The zero
// value is not usable; call New.
type Counter struct {
	now      func() time.Duration
	interval time.Duration

	windowStart time.Duration
	last        time.Duration
	current     Sample
}

func New(interval time.Duration) *Counter {
	return newCounter(hrtime.Now, interval)
}

func newCounter(now func() time.Duration, interval time.Duration) *Counter {
	start := now()
	return &Counter{
		now:         now,
		interval:    interval,
		windowStart: start,
		last:        start,
	}
}

// Tick records the end of one frame. When a full interval has elapsed it
// returns the finished window and true.
func (c *Counter) Tick() (Sample, bool) {
	t := c.now()
	d := t - c.last
	c.last = t

	c.current.Frames++
	if c.current.Frames == 1 || d < c.current.Min {
		c.current.Min = d
	}
	if d > c.current.Max {
		c.current.Max = d
	}

	elapsed := t - c.windowStart
	if c.interval <= 0 || elapsed < c.interval {
		return Sample{}, false
	}

	done := c.current
	done.Elapsed = elapsed
	c.current = Sample{}
	c.windowStart = t
	return done, true
}

// Skip restarts frame timing without counting a frame, e.g. after the window
// was hidden.
func (c *Counter) Skip() {
	c.last = c.now()
}
