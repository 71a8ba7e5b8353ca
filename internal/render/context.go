package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type ContextOptions struct {
	ApplicationName string
	EngineName      string
	// Layers and Extensions are wishes: whatever the runtime lacks is
	// dropped without error.
	Layers     []string
	Extensions []string
	// Debug receives validation messages. A messenger is only created when
	// this is set and the debug utils extension is installed.
	Debug gpu.DebugCallback
}

// Context owns the instance, the optional debug messenger and the window
// surface. It is created first and closed last.
type Context struct {
	instance   gpu.Instance
	debug      gpu.DebugMessenger
	surface    gpu.Surface
	layers     []string
	extensions []string
}

func NewContext(rt gpu.Runtime, provider gpu.SurfaceProvider, opts ContextOptions) (*Context, error) {
	installedExtensions, err := rt.InstanceExtensions()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	installedLayers, err := rt.InstanceLayers()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}

	required := provider.RequiredInstanceExtensions()
	if missing := gpu.Missing(required, installedExtensions); len(missing) > 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMissingInstanceExtension, "window system needs %v", missing),
			"install a Vulkan driver with presentation support")
	}

	wanted := append([]string{}, required...)
	wanted = append(wanted, opts.Extensions...)
	wanted = append(wanted, gpu.ExtensionPortabilityEnumeration)
	if opts.Debug != nil {
		wanted = append(wanted, gpu.ExtensionDebugUtils)
	}
	extensions := gpu.Intersect(wanted, installedExtensions)
	layers := gpu.Intersect(opts.Layers, installedLayers)

	log := Logger()
	if skipped := gpu.Missing(opts.Layers, installedLayers); len(skipped) > 0 {
		log.Warn("instance layers not installed, skipping", "layers", skipped)
	}

	hasDebug := opts.Debug != nil && contains(extensions, gpu.ExtensionDebugUtils)
	if opts.Debug != nil && !hasDebug {
		log.Warn("debug utils extension not installed, validation messages disabled")
	}

	info := gpu.InstanceCreateInfo{
		ApplicationName:      opts.ApplicationName,
		EngineName:           opts.EngineName,
		Layers:               layers,
		Extensions:           extensions,
		EnumeratePortability: contains(extensions, gpu.ExtensionPortabilityEnumeration),
	}
	if hasDebug {
		info.Debug = opts.Debug
	}

	instance, err := rt.CreateInstance(info)
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}

	var cleanup releaser
	defer cleanup.release()
	cleanup.add(instance.Destroy)

	c := &Context{
		instance:   instance,
		layers:     layers,
		extensions: extensions,
	}

	if hasDebug {
		c.debug, err = instance.CreateDebugMessenger(opts.Debug)
		if err != nil {
			return nil, errors.Wrap(err, "create debug messenger")
		}
		cleanup.add(c.debug.Destroy)
	}

	c.surface, err = provider.CreateSurface(instance)
	if err != nil {
		return nil, errors.Wrap(err, "create surface")
	}

	cleanup.keep()
	log.Debug("instance created", "layers", layers, "extensions", extensions)
	return c, nil
}

func (c *Context) Instance() gpu.Instance { return c.instance }

func (c *Context) Surface() gpu.Surface { return c.surface }

// Layers returns the instance layers that were actually enabled.
func (c *Context) Layers() []string { return c.layers }

// Extensions returns the instance extensions that were actually enabled.
func (c *Context) Extensions() []string { return c.extensions }

// Close destroys the surface, the debug messenger and the instance, in that
// order. Everything built from the context must be closed first.
func (c *Context) Close() {
	if c.surface != nil {
		c.surface.Destroy()
		c.surface = nil
	}
	if c.debug != nil {
		c.debug.Destroy()
		c.debug = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}

func contains(sorted []string, name string) bool {
	for _, s := range sorted {
		if s == name {
			return true
		}
	}
	return false
}
