package render

import (
	"github.com/vkngwrapper/presenter/internal/gpu"
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// Shared reports whether one family serves both graphics and present.
func (i QueueFamilyIndices) Shared() bool {
	return i.IsComplete() && *i.GraphicsFamily == *i.PresentFamily
}

// Unique returns the distinct family indices, graphics first.
func (i QueueFamilyIndices) Unique() []int {
	var out []int
	if i.GraphicsFamily != nil {
		out = append(out, *i.GraphicsFamily)
	}
	if i.PresentFamily != nil && (i.GraphicsFamily == nil || *i.PresentFamily != *i.GraphicsFamily) {
		out = append(out, *i.PresentFamily)
	}
	return out
}

// findQueueFamilies picks the first family with graphics support and the
// first family, scanning from index 0, that can present to surface.
func findQueueFamilies(device gpu.PhysicalDevice, surface gpu.Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices

	for idx, family := range device.QueueFamilies() {
		if indices.GraphicsFamily == nil && family.Flags&gpu.QueueGraphics != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = idx
		}

		if indices.PresentFamily == nil {
			supported, err := device.SurfaceSupport(surface, idx)
			if err != nil {
				return indices, err
			}
			if supported {
				indices.PresentFamily = new(int)
				*indices.PresentFamily = idx
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}
