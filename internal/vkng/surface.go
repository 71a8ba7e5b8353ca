package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// SDLSurface presents to an SDL window created with sdl.WINDOW_VULKAN.
type SDLSurface struct {
	Window *sdl.Window
}

func (p SDLSurface) RequiredInstanceExtensions() []string {
	return p.Window.VulkanGetInstanceExtensions()
}

func (p SDLSurface) CreateSurface(inst gpu.Instance) (gpu.Surface, error) {
	i, ok := inst.(*instance)
	if !ok {
		return nil, errors.AssertionFailedf("instance %T was not created by this backend", inst)
	}

	handle, err := vkng_sdl2.CreateSurface(i.driver.Instance(), i.surface, p.Window)
	if err != nil {
		return nil, err
	}
	return &surface{driver: i.surface, handle: handle}, nil
}

type surface struct {
	driver khr_surface.ExtensionDriver
	handle khr_surface.Surface
}

func (s *surface) Destroy() {
	s.driver.DestroySurface(s.handle, nil)
}
