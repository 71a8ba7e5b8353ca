// Package window owns the SDL window the renderer presents to and turns its
// event stream into a render/skip signal.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
)

// Window must be created, pumped and closed on the thread that called
// runtime.LockOSThread.
type Window struct {
	handle *sdl.Window

	active  bool
	resized bool
	closed  bool
}

func Open(title string, width, height int) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "init sdl video")
	}

	handle, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &Window{handle: handle, active: true}, nil
}

// Handle is the underlying SDL window, for surface creation.
func (w *Window) Handle() *sdl.Window { return w.handle }

// ProcAddr returns the vkGetInstanceProcAddr SDL loaded.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// Pump drains pending events. It returns false once the user asked to quit.
func (w *Window) Pump() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		w.dispatch(event)
	}
	return !w.closed
}

func (w *Window) dispatch(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		w.closed = true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			w.closed = true
		case sdl.WINDOWEVENT_MINIMIZED:
			w.active = false
		case sdl.WINDOWEVENT_RESTORED:
			w.active = true
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			w.resized = true
			w.active = e.Data1 > 0 && e.Data2 > 0
		}
	}
}

// Idle sleeps for roughly one frame while there is nothing to draw.
func (w *Window) Idle() { sdl.Delay(16) }

// Active reports whether the window currently has something to draw into.
func (w *Window) Active() bool { return w.active }

// Resized reports whether the window changed size since the last call.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) Close() {
	if w.handle != nil {
		w.handle.Destroy()
		w.handle = nil
	}
	sdl.Quit()
}
