package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type physicalDevice struct {
	inst   *instance
	handle core1_0.PhysicalDevice
}

func (d *physicalDevice) Properties() (gpu.PhysicalDeviceProperties, error) {
	props, err := d.inst.driver.GetPhysicalDeviceProperties(d.handle)
	if err != nil {
		return gpu.PhysicalDeviceProperties{}, err
	}
	return gpu.PhysicalDeviceProperties{
		Name:              props.DeviceName,
		PipelineCacheUUID: props.PipelineCacheUUID,
	}, nil
}

func (d *physicalDevice) QueueFamilies() []gpu.QueueFamily {
	families := d.inst.driver.GetPhysicalDeviceQueueFamilyProperties(d.handle)

	out := make([]gpu.QueueFamily, 0, len(families))
	for _, f := range families {
		out = append(out, gpu.QueueFamily{
			Flags:      fromQueueFlags(f.QueueFlags),
			QueueCount: f.QueueCount,
		})
	}
	return out
}

func (d *physicalDevice) Extensions() ([]string, error) {
	extensions, _, err := d.inst.driver.EnumerateDeviceExtensionProperties(d.handle)
	if err != nil {
		return nil, err
	}
	return keys(extensions), nil
}

func (d *physicalDevice) SurfaceSupport(s gpu.Surface, queueFamily int) (bool, error) {
	supported, _, err := d.inst.surface.GetPhysicalDeviceSurfaceSupport(surfaceHandle(s), d.handle, queueFamily)
	return supported, err
}

func (d *physicalDevice) SurfaceCapabilities(s gpu.Surface) (gpu.SurfaceCapabilities, error) {
	caps, _, err := d.inst.surface.GetPhysicalDeviceSurfaceCapabilities(surfaceHandle(s), d.handle)
	if err != nil {
		return gpu.SurfaceCapabilities{}, err
	}
	return gpu.SurfaceCapabilities{
		MinImageCount: caps.MinImageCount,
		MaxImageCount: caps.MaxImageCount,
		CurrentExtent: fromExtent(caps.CurrentExtent),
	}, nil
}

func (d *physicalDevice) SurfaceFormats(s gpu.Surface) ([]gpu.SurfaceFormat, error) {
	formats, _, err := d.inst.surface.GetPhysicalDeviceSurfaceFormats(surfaceHandle(s), d.handle)
	if err != nil {
		return nil, err
	}
	return fromSurfaceFormats(formats), nil
}

func (d *physicalDevice) SurfacePresentModes(s gpu.Surface) ([]gpu.PresentMode, error) {
	modes, _, err := d.inst.surface.GetPhysicalDeviceSurfacePresentModes(surfaceHandle(s), d.handle)
	if err != nil {
		return nil, err
	}
	return fromPresentModes(modes), nil
}

func (d *physicalDevice) CreateDevice(info gpu.DeviceCreateInfo) (gpu.Device, error) {
	queues := make([]core1_0.DeviceQueueCreateInfo, 0, len(info.Queues))
	for _, q := range info.Queues {
		queues = append(queues, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: q.FamilyIndex,
			QueuePriorities:  q.Priorities,
		})
	}

	driver, _, err := d.inst.driver.CreateDevice(d.handle, nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queues,
		EnabledExtensionNames: info.Extensions,
	})
	if err != nil {
		return nil, err
	}

	return newDevice(d, driver), nil
}

func surfaceHandle(s gpu.Surface) khr_surface.Surface {
	ref, ok := s.(*surface)
	if !ok {
		panic(errors.AssertionFailedf("surface %T was not created by this backend", s))
	}
	return ref.handle
}
