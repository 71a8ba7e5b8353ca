package frametime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Duration
}

func (c *fakeClock) now() time.Duration { return c.t }

func TestCounterReportsPerInterval(t *testing.T) {
	clock := &fakeClock{}
	c := newCounter(clock.now, time.Second)

	for _, step := range []time.Duration{100, 300, 200, 250} {
		clock.t += step * time.Millisecond
		_, done := c.Tick()
		require.False(t, done)
	}

	clock.t += 150 * time.Millisecond
	s, done := c.Tick()
	require.True(t, done)
	require.Equal(t, 5, s.Frames)
	require.Equal(t, time.Second, s.Elapsed)
	require.Equal(t, 100*time.Millisecond, s.Min)
	require.Equal(t, 300*time.Millisecond, s.Max)
	require.Equal(t, 200*time.Millisecond, s.Mean())
	require.InDelta(t, 5.0, s.FPS(), 1e-9)

	clock.t += 10 * time.Millisecond
	_, done = c.Tick()
	require.False(t, done)
}

func TestCounterSkip(t *testing.T) {
	clock := &fakeClock{}
	c := newCounter(clock.now, time.Second)

	clock.t += 10 * time.Millisecond
	c.Tick()
	clock.t += 5 * time.Second
	c.Skip()
	clock.t += 20 * time.Millisecond
	s, done := c.Tick()

	require.True(t, done)
	require.Equal(t, 2, s.Frames)
	require.Equal(t, 20*time.Millisecond, s.Max)
}

func TestCounterDisabled(t *testing.T) {
	clock := &fakeClock{}
	c := newCounter(clock.now, 0)
	clock.t += time.Hour
	_, done := c.Tick()
	require.False(t, done)
}

func TestNewUsesRealClock(t *testing.T) {
	c := New(time.Nanosecond)
	time.Sleep(time.Millisecond)
	s, done := c.Tick()
	require.True(t, done)
	require.Equal(t, 1, s.Frames)
	require.Greater(t, s.Elapsed, time.Duration(0))
}

func TestEmptySample(t *testing.T) {
	require.Zero(t, Sample{}.FPS())
	require.Zero(t, Sample{}.Mean())
}
