package render

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// DefaultDeviceExtensions are required of every candidate device.
var DefaultDeviceExtensions = []string{gpu.ExtensionSwapchain}

type SurfaceSupport struct {
	Capabilities gpu.SurfaceCapabilities
	Formats      []gpu.SurfaceFormat
	PresentModes []gpu.PresentMode
}

// Candidate is a snapshot of one physical device as seen against one
// surface. It is never updated; probe again to refresh it.
type Candidate struct {
	Device            gpu.PhysicalDevice
	Name              string
	PipelineCacheUUID uuid.UUID
	Indices           QueueFamilyIndices
	// Extensions is sorted.
	Extensions []string
	// Missing lists required extensions the device lacks.
	Missing []string
	Support SurfaceSupport
}

// Suitable reports whether the device can drive the present loop.
func (c *Candidate) Suitable() bool {
	return c.Indices.IsComplete() &&
		len(c.Missing) == 0 &&
		len(c.Support.Formats) > 0 &&
		len(c.Support.PresentModes) > 0
}

// HasExtension reports whether the device offers name.
func (c *Candidate) HasExtension(name string) bool {
	return contains(c.Extensions, name)
}

func querySurfaceSupport(device gpu.PhysicalDevice, surface gpu.Surface) (SurfaceSupport, error) {
	var support SurfaceSupport
	var err error

	support.Capabilities, err = device.SurfaceCapabilities(surface)
	if err != nil {
		return support, err
	}

	support.Formats, err = device.SurfaceFormats(surface)
	if err != nil {
		return support, err
	}

	support.PresentModes, err = device.SurfacePresentModes(surface)
	return support, err
}

// Probe snapshots device against surface. Surface support is only queried
// once the required extensions are known to be present.
func Probe(device gpu.PhysicalDevice, surface gpu.Surface, required []string) (*Candidate, error) {
	props, err := device.Properties()
	if err != nil {
		return nil, errors.Wrap(err, "query properties")
	}

	c := &Candidate{
		Device:            device,
		Name:              props.Name,
		PipelineCacheUUID: props.PipelineCacheUUID,
	}

	c.Indices, err = findQueueFamilies(device, surface)
	if err != nil {
		return nil, errors.Wrap(err, "query queue families")
	}

	extensions, err := device.Extensions()
	if err != nil {
		return nil, errors.Wrap(err, "query extensions")
	}
	c.Extensions = gpu.SortedNames(extensions)
	c.Missing = gpu.Missing(required, c.Extensions)

	if len(c.Missing) == 0 {
		c.Support, err = querySurfaceSupport(device, surface)
		if err != nil {
			return nil, errors.Wrap(err, "query surface support")
		}
	}

	return c, nil
}

// SelectDevice returns the first physical device, in enumeration order, that
// has complete queue families, every required extension, and at least one
// surface format and present mode. Devices are probed one at a time on the
// calling thread, since surface queries may have to run on the thread that
// owns the window. Probing stops at the first suitable device.
func SelectDevice(ctx *Context, required []string) (*Candidate, error) {
	devices, err := ctx.Instance().PhysicalDevices()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}
	if len(devices) == 0 {
		return nil, errors.WithHint(errors.Wrap(ErrNoSuitableDevice, "no physical devices"),
			"check that a Vulkan driver is installed")
	}

	log := Logger()
	for i, device := range devices {
		c, err := Probe(device, ctx.Surface(), required)
		if err != nil {
			log.Warn("rejecting physical device", "index", i, "error", err)
			continue
		}
		if c.Suitable() {
			log.Info("selected physical device", "index", i, "name", c.Name, "cache_uuid", c.PipelineCacheUUID)
			return c, nil
		}
		log.Debug("physical device not suitable",
			"index", i,
			"name", c.Name,
			"queues_complete", c.Indices.IsComplete(),
			"missing_extensions", c.Missing,
			"formats", len(c.Support.Formats),
			"present_modes", len(c.Support.PresentModes))
	}

	return nil, errors.Wrapf(ErrNoSuitableDevice, "%d devices checked", len(devices))
}
