package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

func TestNewContextNegotiatesLayersAndExtensions(t *testing.T) {
	w := newFakeWorld()
	w.installedExtensions = append(w.installedExtensions, gpu.ExtensionPortabilityEnumeration)

	ctx, err := NewContext(w.runtime(), w.provider(), ContextOptions{
		ApplicationName: "test",
		Layers:          []string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_missing"},
		Extensions:      []string{"VK_EXT_not_installed"},
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, ctx.Layers())
	assert.Equal(t, []string{
		gpu.ExtensionPortabilityEnumeration,
		gpu.ExtensionSurface,
		"VK_KHR_xlib_surface",
	}, ctx.Extensions())
	assert.True(t, w.instanceInfo.EnumeratePortability)
	assert.Nil(t, w.instanceInfo.Debug)
	assert.Zero(t, w.liveCount("debug"))
}

func TestNewContextMissingWindowExtension(t *testing.T) {
	w := newFakeWorld()
	w.installedExtensions = []string{gpu.ExtensionSurface}

	_, err := NewContext(w.runtime(), w.provider(), ContextOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingInstanceExtension))
	assert.Contains(t, err.Error(), "VK_KHR_xlib_surface")
	assert.Zero(t, w.counts["instance"])
}

func TestNewContextDebugMessenger(t *testing.T) {
	w := newFakeWorld()

	var got []string
	ctx, err := NewContext(w.runtime(), w.provider(), ContextOptions{
		Debug: func(_ gpu.DebugSeverity, message string) { got = append(got, message) },
	})
	require.NoError(t, err)

	assert.Equal(t, 1, w.liveCount("debug"))
	assert.Contains(t, ctx.Extensions(), gpu.ExtensionDebugUtils)
	require.NotNil(t, w.debugFn)
	w.debugFn(gpu.DebugSeverityWarning, "hello")
	assert.Equal(t, []string{"hello"}, got)

	mark := w.mark()
	ctx.Close()
	assert.Equal(t, []string{"destroy surface", "destroy debug", "destroy instance"}, w.eventsSince(mark, "destroy"))
	assert.Empty(t, w.leaks())
}

func TestNewContextDebugWithoutExtension(t *testing.T) {
	w := newFakeWorld()
	w.installedExtensions = []string{gpu.ExtensionSurface, "VK_KHR_xlib_surface"}

	ctx, err := NewContext(w.runtime(), w.provider(), ContextOptions{Debug: LogValidation})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Zero(t, w.counts["debug"])
	assert.Nil(t, w.instanceInfo.Debug)
}

func TestNewContextReleasesOnSurfaceFailure(t *testing.T) {
	w := newFakeWorld()
	w.fail["surface"] = 1

	_, err := NewContext(w.runtime(), w.provider(), ContextOptions{Debug: LogValidation})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create surface")
	assert.Empty(t, w.leaks())
	assert.Equal(t, []string{"destroy debug", "destroy instance"}, w.eventsSince(0, "destroy"))
}
