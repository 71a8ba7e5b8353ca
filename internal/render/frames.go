package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// MaxFramesInFlight is how many frames the CPU may record ahead of the GPU.
const MaxFramesInFlight = 2

// FrameSlot is the set of sync objects and the command buffer owned by one
// frame in flight.
type FrameSlot struct {
	Index          int
	ImageAvailable gpu.Semaphore
	RenderFinished gpu.Semaphore
	InFlight       gpu.Fence
	Commands       gpu.CommandBuffer
}

// Frames round-robins MaxFramesInFlight slots. The slot index is independent
// of the swapchain image index.
type Frames struct {
	device  *Device
	pool    gpu.CommandPool
	slots   []FrameSlot
	current int
}

// NewFrames creates the command pool on the graphics family and one slot per
// frame in flight. Fences start signaled so the first wait returns at once.
func NewFrames(device *Device) (*Frames, error) {
	handle := device.Handle()
	family := *device.Candidate().Indices.GraphicsFamily

	pool, err := handle.CreateCommandPool(family)
	if err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}

	var cleanup releaser
	defer cleanup.release()
	cleanup.add(pool.Destroy)

	buffers, err := pool.AllocateCommandBuffers(MaxFramesInFlight)
	if err != nil {
		return nil, errors.Wrap(err, "allocate command buffers")
	}

	slots := make([]FrameSlot, MaxFramesInFlight)
	for i := range slots {
		slot := &slots[i]
		slot.Index = i
		slot.Commands = buffers[i]

		slot.ImageAvailable, err = handle.CreateSemaphore()
		if err != nil {
			return nil, errors.Wrapf(err, "create image-available semaphore %d", i)
		}
		cleanup.add(slot.ImageAvailable.Destroy)

		slot.RenderFinished, err = handle.CreateSemaphore()
		if err != nil {
			return nil, errors.Wrapf(err, "create render-finished semaphore %d", i)
		}
		cleanup.add(slot.RenderFinished.Destroy)

		slot.InFlight, err = handle.CreateFence(true)
		if err != nil {
			return nil, errors.Wrapf(err, "create in-flight fence %d", i)
		}
		cleanup.add(slot.InFlight.Destroy)
	}

	cleanup.keep()
	return &Frames{
		device: device,
		pool:   pool,
		slots:  slots,
	}, nil
}

// Current returns the slot the next frame records into.
func (f *Frames) Current() *FrameSlot {
	return &f.slots[f.current]
}

// CurrentIndex is the index of Current.
func (f *Frames) CurrentIndex() int { return f.current }

// Advance moves to the next slot.
func (f *Frames) Advance() {
	f.current = (f.current + 1) % len(f.slots)
}

// Wait blocks until the slot's previous submission has retired.
func (f *Frames) Wait(slot *FrameSlot) error {
	return f.device.Handle().WaitForFences(slot.InFlight)
}

// Reset unsignals the slot's fence ahead of a new submission.
func (f *Frames) Reset(slot *FrameSlot) error {
	return f.device.Handle().ResetFences(slot.InFlight)
}

// Close destroys each slot's sync objects, then the command pool, which
// frees the command buffers with it.
func (f *Frames) Close() {
	for _, slot := range f.slots {
		slot.ImageAvailable.Destroy()
		slot.RenderFinished.Destroy()
		slot.InFlight.Destroy()
	}
	f.slots = nil
	if f.pool != nil {
		f.pool.Destroy()
		f.pool = nil
	}
}
