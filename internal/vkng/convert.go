package vkng

import (
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

var formats = map[gpu.Format]core1_0.Format{
	gpu.FormatB8G8R8A8SRGB:               core1_0.FormatB8G8R8A8SRGB,
	gpu.FormatB8G8R8A8UnsignedNormalized: core1_0.FormatB8G8R8A8UnsignedNormalized,
	gpu.FormatR8G8B8A8SRGB:               core1_0.FormatR8G8B8A8SRGB,
	gpu.FormatR8G8B8A8UnsignedNormalized: core1_0.FormatR8G8B8A8UnsignedNormalized,
}

func toFormat(f gpu.Format) core1_0.Format {
	if vk, ok := formats[f]; ok {
		return vk
	}
	return core1_0.FormatUndefined
}

func fromFormat(f core1_0.Format) gpu.Format {
	for g, vk := range formats {
		if vk == f {
			return g
		}
	}
	return gpu.FormatUndefined
}

// toColorSpace reports false for color spaces the backend cannot name.
func toColorSpace(c gpu.ColorSpace) (khr_surface.ColorSpace, bool) {
	if c == gpu.ColorSpaceSRGBNonlinear {
		return khr_surface.ColorSpaceSRGBNonlinear, true
	}
	return 0, false
}

func fromColorSpace(c khr_surface.ColorSpace) gpu.ColorSpace {
	if c == khr_surface.ColorSpaceSRGBNonlinear {
		return gpu.ColorSpaceSRGBNonlinear
	}
	return gpu.ColorSpaceOther
}

func fromSurfaceFormats(in []khr_surface.SurfaceFormat) []gpu.SurfaceFormat {
	out := make([]gpu.SurfaceFormat, 0, len(in))
	for _, f := range in {
		out = append(out, gpu.SurfaceFormat{
			Format:     fromFormat(f.Format),
			ColorSpace: fromColorSpace(f.ColorSpace),
		})
	}
	return out
}

var presentModes = map[gpu.PresentMode]khr_surface.PresentMode{
	gpu.PresentModeImmediate:   khr_surface.PresentModeImmediate,
	gpu.PresentModeMailbox:     khr_surface.PresentModeMailbox,
	gpu.PresentModeFIFO:        khr_surface.PresentModeFIFO,
	gpu.PresentModeFIFORelaxed: khr_surface.PresentModeFIFORelaxed,
}

func toPresentMode(m gpu.PresentMode) khr_surface.PresentMode {
	if vk, ok := presentModes[m]; ok {
		return vk
	}
	return khr_surface.PresentModeFIFO
}

// fromPresentModes drops modes the renderer has no name for.
func fromPresentModes(in []khr_surface.PresentMode) []gpu.PresentMode {
	out := make([]gpu.PresentMode, 0, len(in))
	for _, vk := range in {
		for m, known := range presentModes {
			if known == vk {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func fromQueueFlags(flags core1_0.QueueFlags) gpu.QueueFlags {
	var out gpu.QueueFlags
	if flags&core1_0.QueueGraphics != 0 {
		out |= gpu.QueueGraphics
	}
	if flags&core1_0.QueueCompute != 0 {
		out |= gpu.QueueCompute
	}
	if flags&core1_0.QueueTransfer != 0 {
		out |= gpu.QueueTransfer
	}
	return out
}

func fromExtent(e core1_0.Extent2D) gpu.Extent2D {
	return gpu.Extent2D{Width: e.Width, Height: e.Height}
}

func toExtent(e gpu.Extent2D) core1_0.Extent2D {
	return core1_0.Extent2D{Width: e.Width, Height: e.Height}
}

func toSharingMode(m gpu.SharingMode) core1_0.SharingMode {
	if m == gpu.SharingModeConcurrent {
		return core1_0.SharingModeConcurrent
	}
	return core1_0.SharingModeExclusive
}

func toTopology(t gpu.PrimitiveTopology) core1_0.PrimitiveTopology {
	if t == gpu.TopologyTriangleStrip {
		return core1_0.PrimitiveTopologyTriangleStrip
	}
	return core1_0.PrimitiveTopologyTriangleList
}

func toCullMode(c gpu.CullMode) core1_0.CullModeFlags {
	switch c {
	case gpu.CullModeBack:
		return core1_0.CullModeBack
	case gpu.CullModeFront:
		return core1_0.CullModeFront
	}
	return 0
}

func toFrontFace(f gpu.FrontFace) core1_0.FrontFace {
	if f == gpu.FrontFaceCounterClockwise {
		return core1_0.FrontFaceCounterClockwise
	}
	return core1_0.FrontFaceClockwise
}

// fromSeverity maps the highest bit set in a debug message severity.
func fromSeverity(s ext_debug_utils.DebugUtilsMessageSeverityFlags) gpu.DebugSeverity {
	switch {
	case s&ext_debug_utils.SeverityError != 0:
		return gpu.DebugSeverityError
	case s&ext_debug_utils.SeverityWarning != 0:
		return gpu.DebugSeverityWarning
	case s&ext_debug_utils.SeverityInfo != 0:
		return gpu.DebugSeverityInfo
	}
	return gpu.DebugSeverityVerbose
}

// presentResult turns the out-of-date and suboptimal results of acquire and
// present into gpu.ErrOutOfDate and gpu.ErrSuboptimal.
func presentResult(res common.VkResult, err error) error {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return gpu.ErrOutOfDate
	case khr_swapchain.VKSuboptimal:
		return gpu.ErrSuboptimal
	}
	return err
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return gpu.SortedNames(out)
}
