// Package vkng implements the gpu backend interfaces on top of vkngwrapper.
// It is the only package in the module that talks to Vulkan directly.
package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// Runtime is the Vulkan loader.
type Runtime struct {
	global core1_0.GlobalDriver
}

// NewRuntime loads Vulkan through a vkGetInstanceProcAddr pointer, such as
// the one sdl.VulkanGetVkGetInstanceProcAddr returns.
func NewRuntime(procAddr unsafe.Pointer) (*Runtime, error) {
	global, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, errors.Wrap(err, "load vulkan")
	}
	return &Runtime{global: global}, nil
}

func (r *Runtime) InstanceLayers() ([]string, error) {
	layers, _, err := r.global.AvailableLayers()
	if err != nil {
		return nil, err
	}
	return keys(layers), nil
}

func (r *Runtime) InstanceExtensions() ([]string, error) {
	extensions, _, err := r.global.AvailableExtensions()
	if err != nil {
		return nil, err
	}
	return keys(extensions), nil
}

func (r *Runtime) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	options := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            info.EngineName,
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledLayerNames:     info.Layers,
		EnabledExtensionNames: info.Extensions,
	}
	if info.EnumeratePortability {
		options.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}
	if info.Debug != nil {
		options.Next = debugMessengerInfo(info.Debug)
	}

	driver, _, err := r.global.CreateInstance(nil, options)
	if err != nil {
		return nil, err
	}

	inst := &instance{
		driver:  driver,
		surface: khr_surface.CreateExtensionDriverFromCoreDriver(driver),
	}
	if info.Debug != nil {
		inst.debug = ext_debug_utils.CreateExtensionDriverFromCoreDriver(driver)
	}
	return inst, nil
}

type instance struct {
	driver  core1_0.CoreInstanceDriver
	surface khr_surface.ExtensionDriver
	debug   ext_debug_utils.ExtensionDriver
}

func (i *instance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	devices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	out := make([]gpu.PhysicalDevice, 0, len(devices))
	for _, d := range devices {
		out = append(out, &physicalDevice{inst: i, handle: d})
	}
	return out, nil
}

func (i *instance) CreateDebugMessenger(callback gpu.DebugCallback) (gpu.DebugMessenger, error) {
	if i.debug == nil {
		return nil, errors.Newf("%s was not enabled on the instance", ext_debug_utils.ExtensionName)
	}
	messenger, _, err := i.debug.CreateDebugUtilsMessenger(nil, debugMessengerInfo(callback))
	if err != nil {
		return nil, err
	}
	return &debugMessenger{driver: i.debug, handle: messenger}, nil
}

func (i *instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

func debugMessengerInfo(callback gpu.DebugCallback) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityInfo,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback: func(_ ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			callback(fromSeverity(severity), data.Message)
			return false
		},
	}
}

type debugMessenger struct {
	driver ext_debug_utils.ExtensionDriver
	handle ext_debug_utils.DebugUtilsMessenger
}

func (m *debugMessenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.handle, nil)
}

var (
	_ gpu.Runtime         = (*Runtime)(nil)
	_ gpu.Instance        = (*instance)(nil)
	_ gpu.SurfaceProvider = SDLSurface{}
	_ gpu.PhysicalDevice  = (*physicalDevice)(nil)
	_ gpu.Device          = (*device)(nil)
	_ gpu.Queue           = (*queue)(nil)
	_ gpu.Swapchain       = (*swapchain)(nil)
	_ gpu.CommandPool     = (*commandPool)(nil)
	_ gpu.CommandBuffer   = (*commandBuffer)(nil)
)
