package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// DefaultSurfaceFormat is the format/color space pair required when the
// caller does not name one.
var DefaultSurfaceFormat = gpu.SurfaceFormat{
	Format:     gpu.FormatB8G8R8A8SRGB,
	ColorSpace: gpu.ColorSpaceSRGBNonlinear,
}

// ChooseSurfaceFormat returns the first offered format equal to want.
func ChooseSurfaceFormat(offered []gpu.SurfaceFormat, want gpu.SurfaceFormat) (gpu.SurfaceFormat, error) {
	for _, format := range offered {
		if format == want {
			return format, nil
		}
	}
	return gpu.SurfaceFormat{}, errors.Wrapf(ErrNoAcceptableSurfaceFormat, "want %s, surface offers %v", want, offered)
}

// ChoosePresentMode prefers mailbox and falls back to FIFO, which every
// surface supports.
func ChoosePresentMode(offered []gpu.PresentMode) gpu.PresentMode {
	for _, mode := range offered {
		if mode == gpu.PresentModeMailbox {
			return mode
		}
	}
	return gpu.PresentModeFIFO
}

// ChooseExtent takes the surface's current extent. Surfaces that leave the
// size to the application are not supported.
func ChooseExtent(caps gpu.SurfaceCapabilities) (gpu.Extent2D, error) {
	if caps.CurrentExtent.Undefined() {
		return gpu.Extent2D{}, errors.WithHint(ErrUnsupportedExtent,
			"the window system did not report a surface size")
	}
	if caps.CurrentExtent.Empty() {
		return gpu.Extent2D{}, errors.Wrapf(ErrZeroExtent, "surface is %s", caps.CurrentExtent)
	}
	return caps.CurrentExtent, nil
}

// ResolveImageCount clamps desired into the surface's bounds. A desired
// count of 0 asks for one more than the minimum; a max of 0 is unbounded.
func ResolveImageCount(caps gpu.SurfaceCapabilities, desired int) int {
	count := desired
	if count <= 0 {
		count = caps.MinImageCount + 1
	}
	if count < caps.MinImageCount {
		count = caps.MinImageCount
	}
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// sharingFor picks concurrent sharing across both families when graphics
// and present differ.
func sharingFor(indices QueueFamilyIndices) (gpu.SharingMode, []int) {
	if indices.Shared() {
		return gpu.SharingModeExclusive, nil
	}
	return gpu.SharingModeConcurrent, []int{*indices.GraphicsFamily, *indices.PresentFamily}
}
