package vkng

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

func TestFormatRoundTrip(t *testing.T) {
	for g := range formats {
		assert.Equal(t, g, fromFormat(toFormat(g)), g.String())
	}
	assert.Equal(t, gpu.FormatUndefined, fromFormat(core1_0.FormatR32G32B32SignedFloat))
}

func TestColorSpace(t *testing.T) {
	vk, ok := toColorSpace(gpu.ColorSpaceSRGBNonlinear)
	assert.True(t, ok)
	assert.Equal(t, khr_surface.ColorSpaceSRGBNonlinear, vk)
	assert.Equal(t, gpu.ColorSpaceSRGBNonlinear, fromColorSpace(vk))

	_, ok = toColorSpace(gpu.ColorSpaceOther)
	assert.False(t, ok)
	assert.Equal(t, gpu.ColorSpaceOther, fromColorSpace(khr_surface.ColorSpace(1000104002)))
}

func TestFromPresentModes(t *testing.T) {
	got := fromPresentModes([]khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox})
	assert.Equal(t, []gpu.PresentMode{gpu.PresentModeFIFO, gpu.PresentModeMailbox}, got)
}

func TestFromQueueFlags(t *testing.T) {
	assert.Equal(t, gpu.QueueGraphics|gpu.QueueTransfer, fromQueueFlags(core1_0.QueueGraphics|core1_0.QueueTransfer))
	assert.Zero(t, fromQueueFlags(0))
}

func TestFromSeverity(t *testing.T) {
	assert.Equal(t, gpu.DebugSeverityError, fromSeverity(ext_debug_utils.SeverityError|ext_debug_utils.SeverityWarning))
	assert.Equal(t, gpu.DebugSeverityWarning, fromSeverity(ext_debug_utils.SeverityWarning))
	assert.Equal(t, gpu.DebugSeverityInfo, fromSeverity(ext_debug_utils.SeverityInfo))
	assert.Equal(t, gpu.DebugSeverityVerbose, fromSeverity(0))
}

func TestPresentResult(t *testing.T) {
	assert.True(t, errors.Is(presentResult(khr_swapchain.VKErrorOutOfDate, errors.New("out of date")), gpu.ErrOutOfDate))
	assert.True(t, errors.Is(presentResult(khr_swapchain.VKSuboptimal, nil), gpu.ErrSuboptimal))
	assert.NoError(t, presentResult(core1_0.VKSuccess, nil))
}

func TestKeysSorted(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, keys(map[string]int{"c": 1, "a": 2, "b": 3}))
}
