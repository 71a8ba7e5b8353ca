package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramesRoundRobin(t *testing.T) {
	w := newFakeWorld()
	_, d := newTestDevice(t, w)

	frames, err := NewFrames(d)
	require.NoError(t, err)
	defer frames.Close()

	var seq []int
	for i := 0; i < 5; i++ {
		seq = append(seq, frames.Current().Index)
		frames.Advance()
	}
	assert.Equal(t, []int{0, 1, 0, 1, 0}, seq)
	assert.Equal(t, 2*MaxFramesInFlight, w.liveCount("semaphore"))
	assert.Equal(t, MaxFramesInFlight, w.liveCount("fence"))
}

func TestFramesStartSignaled(t *testing.T) {
	w := newFakeWorld()
	_, d := newTestDevice(t, w)

	frames, err := NewFrames(d)
	require.NoError(t, err)
	defer frames.Close()

	slot := frames.Current()
	require.NoError(t, frames.Wait(slot))
	require.NoError(t, frames.Reset(slot))
	assert.Error(t, frames.Wait(slot), "reset fence must block until a submit signals it")
}

func TestFramesReleaseOnFailure(t *testing.T) {
	w := newFakeWorld()
	_, d := newTestDevice(t, w)
	w.fail["fence"] = 2

	_, err := NewFrames(d)
	require.Error(t, err)
	assert.Zero(t, w.liveCount("semaphore"))
	assert.Zero(t, w.liveCount("fence"))
	assert.Zero(t, w.liveCount("pool"))
}

func TestFramesCloseOrder(t *testing.T) {
	w := newFakeWorld()
	_, d := newTestDevice(t, w)

	frames, err := NewFrames(d)
	require.NoError(t, err)

	mark := w.mark()
	frames.Close()
	events := w.eventsSince(mark, "destroy")
	require.NotEmpty(t, events)
	assert.Equal(t, "destroy pool", events[len(events)-1])
	assert.Len(t, events, 3*MaxFramesInFlight+1)
}
