package render

import (
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type Options struct {
	Context ContextOptions
	// DeviceExtensions are required in addition to DefaultDeviceExtensions.
	DeviceExtensions []string
	Chain            ChainOptions
	Shaders          ShaderSet
	ClearColor       mgl32.Vec4
}

type Stats struct {
	// Submitted counts frames that reached the graphics queue.
	Submitted int
	// Dropped counts DrawFrame calls that rendered nothing.
	Dropped int
	// Rebuilds counts successful chain rebuilds.
	Rebuilds int
}

// Renderer owns the whole present loop, from instance to frame slots, and
// draws one triangle per frame.
type Renderer struct {
	ctx      *Context
	device   *Device
	chain    *Chain
	pipeline *Pipeline
	frames   *Frames

	clear gpu.ClearColor
	stale bool
	stats Stats
}

func NewRenderer(rt gpu.Runtime, provider gpu.SurfaceProvider, opts Options) (*Renderer, error) {
	r := &Renderer{clear: gpu.ClearColor(opts.ClearColor)}

	var cleanup releaser
	defer cleanup.release()

	var err error
	r.ctx, err = NewContext(rt, provider, opts.Context)
	if err != nil {
		return nil, err
	}
	cleanup.add(r.ctx.Close)

	required := append(append([]string{}, DefaultDeviceExtensions...), opts.DeviceExtensions...)
	candidate, err := SelectDevice(r.ctx, required)
	if err != nil {
		return nil, err
	}

	r.device, err = NewDevice(candidate, required)
	if err != nil {
		return nil, err
	}
	cleanup.add(r.device.Close)

	r.chain, err = NewChain(r.device, r.ctx.Surface(), opts.Chain)
	if err != nil {
		return nil, err
	}
	cleanup.add(r.chain.Close)

	r.pipeline, err = NewPipeline(r.device, r.chain.RenderPass(), r.chain.Extent(), opts.Shaders)
	if err != nil {
		return nil, err
	}
	cleanup.add(r.pipeline.Close)

	r.frames, err = NewFrames(r.device)
	if err != nil {
		return nil, err
	}

	cleanup.keep()
	return r, nil
}

func (r *Renderer) Context() *Context { return r.ctx }

func (r *Renderer) Device() *Device { return r.device }

func (r *Renderer) Chain() *Chain { return r.chain }

func (r *Renderer) Frames() *Frames { return r.frames }

func (r *Renderer) Stats() Stats { return r.stats }

// Stale reports whether the chain will be rebuilt on the next DrawFrame.
func (r *Renderer) Stale() bool { return r.stale }

// Invalidate schedules a chain rebuild, e.g. after the window was resized.
func (r *Renderer) Invalidate() { r.stale = true }

// DrawFrame renders and presents one frame. Out-of-date and suboptimal
// results and a zero-area surface are absorbed: the chain is rebuilt on a
// later call and the frame may be dropped. Any other error is fatal.
func (r *Renderer) DrawFrame() error {
	log := Logger()

	if r.stale {
		if err := r.chain.Rebuild(); err != nil {
			if errors.Is(err, ErrZeroExtent) {
				r.stats.Dropped++
				log.Debug("surface has no area, skipping frame")
				return nil
			}
			return err
		}
		r.stale = false
		r.stats.Rebuilds++
		log.Info("presentation chain rebuilt", "generation", r.chain.Generation(), "extent", r.chain.Extent())
	}

	slot := r.frames.Current()
	if err := r.frames.Wait(slot); err != nil {
		return errors.Wrapf(err, "wait for frame slot %d", slot.Index)
	}

	imageIndex, err := r.chain.Acquire(slot.ImageAvailable)
	switch {
	case errors.Is(err, gpu.ErrOutOfDate):
		r.stale = true
		r.stats.Dropped++
		log.Debug("swapchain out of date on acquire, dropping frame", "slot", slot.Index)
		return nil
	case errors.Is(err, gpu.ErrSuboptimal):
		r.stale = true
	case err != nil:
		return errors.Wrap(err, "acquire next image")
	}

	if err := r.frames.Reset(slot); err != nil {
		return errors.Wrapf(err, "reset fence for slot %d", slot.Index)
	}

	defer r.frames.Advance()

	if err := r.record(slot.Commands, imageIndex); err != nil {
		return errors.Wrapf(err, "record slot %d", slot.Index)
	}

	err = r.device.GraphicsQueue().Submit(gpu.SubmitInfo{
		WaitSemaphore:   slot.ImageAvailable,
		CommandBuffer:   slot.Commands,
		SignalSemaphore: slot.RenderFinished,
		Fence:           slot.InFlight,
	})
	if err != nil {
		return errors.Wrap(err, "submit draw")
	}
	r.stats.Submitted++

	err = r.device.PresentQueue().Present(gpu.PresentInfo{
		WaitSemaphore: slot.RenderFinished,
		Swapchain:     r.chain.Swapchain(),
		ImageIndex:    imageIndex,
	})
	if gpu.IsStale(err) {
		r.stale = true
		log.Debug("swapchain stale on present", "image", imageIndex, "error", err)
	} else if err != nil {
		return errors.Wrap(err, "present")
	}

	return nil
}

func (r *Renderer) record(cmd gpu.CommandBuffer, imageIndex int) error {
	images := r.chain.Images()
	if imageIndex < 0 || imageIndex >= len(images) {
		return errors.AssertionFailedf("image index %d outside chain of %d", imageIndex, len(images))
	}
	extent := r.chain.Extent()

	if err := cmd.Reset(); err != nil {
		return err
	}
	if err := cmd.Begin(); err != nil {
		return err
	}
	if err := cmd.BeginRenderPass(r.chain.RenderPass(), images[imageIndex].Framebuffer, extent, r.clear); err != nil {
		return err
	}
	cmd.BindPipeline(r.pipeline.Handle())
	cmd.SetViewport(gpu.Viewport{
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MaxDepth: 1,
	})
	cmd.SetScissor(extent)
	cmd.Draw(3, 1, 0, 0)
	cmd.EndRenderPass()
	return cmd.End()
}

// Close waits for the device to go idle and destroys everything in reverse
// creation order. Teardown continues past a failed wait; the failure is
// returned.
func (r *Renderer) Close() error {
	if r.ctx == nil {
		return nil
	}

	var err error
	if r.device != nil {
		if waitErr := r.device.WaitIdle(); waitErr != nil {
			Logger().Warn("wait for device idle before teardown", "error", waitErr)
			err = errors.CombineErrors(err, errors.Wrap(waitErr, "wait for device idle"))
		}
	}

	if r.frames != nil {
		r.frames.Close()
	}
	if r.pipeline != nil {
		r.pipeline.Close()
	}
	if r.chain != nil {
		r.chain.Close()
	}
	if r.device != nil {
		r.device.Close()
	}
	r.ctx.Close()

	r.frames, r.pipeline, r.chain, r.device, r.ctx = nil, nil, nil, nil, nil
	return err
}
