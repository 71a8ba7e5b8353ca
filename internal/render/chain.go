package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type ChainOptions struct {
	// Format is the required surface format. The zero value selects
	// DefaultSurfaceFormat. The color space must be sRGB nonlinear.
	Format gpu.SurfaceFormat
	// ImageCount is the desired number of swapchain images; 0 means one more
	// than the surface minimum.
	ImageCount int
}

type SwapImage struct {
	Image       gpu.Image
	View        gpu.ImageView
	Framebuffer gpu.Framebuffer
}

// chainSettings is everything negotiated for one generation.
type chainSettings struct {
	format      gpu.SurfaceFormat
	presentMode gpu.PresentMode
	extent      gpu.Extent2D
	imageCount  int
	sharing     gpu.SharingMode
	families    []int
}

// Chain is the swapchain with its per-image views and framebuffers and the
// render pass they were built against. Image count, format and extent are
// fixed for one generation; Rebuild starts a new one.
type Chain struct {
	device  *Device
	surface gpu.Surface
	opts    ChainOptions

	settings   chainSettings
	swapchain  gpu.Swapchain
	renderPass gpu.RenderPass
	images     []SwapImage
	generation int
}

func NewChain(device *Device, surface gpu.Surface, opts ChainOptions) (*Chain, error) {
	if opts.Format == (gpu.SurfaceFormat{}) {
		opts.Format = DefaultSurfaceFormat
	}
	if opts.Format.ColorSpace != gpu.ColorSpaceSRGBNonlinear {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNoAcceptableSurfaceFormat, "unsupported color space %s", opts.Format.ColorSpace),
			"only the sRGB nonlinear color space is supported")
	}
	if opts.ImageCount < 0 {
		return nil, errors.Newf("negative image count %d", opts.ImageCount)
	}

	c := &Chain{
		device:  device,
		surface: surface,
		opts:    opts,
	}

	settings, err := c.negotiate()
	if err != nil {
		return nil, err
	}

	c.renderPass, err = device.Handle().CreateRenderPass(gpu.RenderPassCreateInfo{
		ColorFormat: settings.format.Format,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create render pass")
	}

	if err := c.build(settings); err != nil {
		c.renderPass.Destroy()
		c.renderPass = nil
		return nil, err
	}

	return c, nil
}

func (c *Chain) negotiate() (chainSettings, error) {
	var s chainSettings

	support, err := querySurfaceSupport(c.device.Candidate().Device, c.surface)
	if err != nil {
		return s, errors.Wrap(err, "query surface support")
	}

	s.format, err = ChooseSurfaceFormat(support.Formats, c.opts.Format)
	if err != nil {
		return s, err
	}
	s.extent, err = ChooseExtent(support.Capabilities)
	if err != nil {
		return s, err
	}
	s.presentMode = ChoosePresentMode(support.PresentModes)
	s.imageCount = ResolveImageCount(support.Capabilities, c.opts.ImageCount)
	s.sharing, s.families = sharingFor(c.device.Candidate().Indices)

	return s, nil
}

// build creates the swapchain, then the views and framebuffers in
// lock-step. On failure everything this call created is destroyed.
func (c *Chain) build(s chainSettings) error {
	device := c.device.Handle()

	swapchain, err := device.CreateSwapchain(gpu.SwapchainCreateInfo{
		Surface:       c.surface,
		MinImageCount: s.imageCount,
		Format:        s.format,
		Extent:        s.extent,
		PresentMode:   s.presentMode,
		SharingMode:   s.sharing,
		QueueFamilies: s.families,
	})
	if err != nil {
		return errors.Wrap(err, "create swapchain")
	}

	var cleanup releaser
	defer cleanup.release()
	cleanup.add(swapchain.Destroy)

	images, err := swapchain.Images()
	if err != nil {
		return errors.Wrap(err, "get swapchain images")
	}

	swapImages := make([]SwapImage, 0, len(images))
	for i, image := range images {
		view, err := device.CreateImageView(image, s.format.Format)
		if err != nil {
			return errors.Wrapf(err, "create image view %d", i)
		}
		cleanup.add(view.Destroy)

		framebuffer, err := device.CreateFramebuffer(gpu.FramebufferCreateInfo{
			RenderPass: c.renderPass,
			Attachment: view,
			Extent:     s.extent,
		})
		if err != nil {
			return errors.Wrapf(err, "create framebuffer %d", i)
		}
		cleanup.add(framebuffer.Destroy)

		swapImages = append(swapImages, SwapImage{
			Image:       image,
			View:        view,
			Framebuffer: framebuffer,
		})
	}

	cleanup.keep()
	c.swapchain = swapchain
	c.images = swapImages
	c.settings = s

	Logger().Info("presentation chain created",
		"generation", c.generation,
		"images", len(swapImages),
		"format", s.format,
		"present_mode", s.presentMode,
		"extent", s.extent,
		"sharing", s.sharing)
	return nil
}

// releaseGeneration destroys the framebuffers, then the views, then the
// swapchain. The render pass is left alone.
func (c *Chain) releaseGeneration() {
	for _, image := range c.images {
		image.Framebuffer.Destroy()
	}
	for _, image := range c.images {
		image.View.Destroy()
	}
	c.images = nil
	if c.swapchain != nil {
		c.swapchain.Destroy()
		c.swapchain = nil
	}
}

// Rebuild waits for the device to go idle and replaces the swapchain, views
// and framebuffers with a freshly negotiated generation on the same device
// and surface. The render pass is kept, so pipelines built against it stay
// valid. If negotiation fails the current generation is left in place.
func (c *Chain) Rebuild() error {
	settings, err := c.negotiate()
	if err != nil {
		return err
	}
	if err := c.device.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait for device idle")
	}

	c.releaseGeneration()
	c.generation++

	if err := c.build(settings); err != nil {
		return errors.Wrapf(err, "rebuild presentation chain (generation %d)", c.generation)
	}
	return nil
}

// Acquire gets the next presentable image, signaling signal once it is ready.
// gpu.ErrSuboptimal comes with a valid index; gpu.ErrOutOfDate does not.
func (c *Chain) Acquire(signal gpu.Semaphore) (int, error) {
	if c.swapchain == nil {
		return 0, errors.Wrap(gpu.ErrOutOfDate, "no swapchain")
	}
	return c.swapchain.AcquireNextImage(signal)
}

func (c *Chain) Swapchain() gpu.Swapchain { return c.swapchain }

func (c *Chain) RenderPass() gpu.RenderPass { return c.renderPass }

// Images returns the swap images in swapchain order.
func (c *Chain) Images() []SwapImage { return c.images }

func (c *Chain) ImageCount() int { return len(c.images) }

func (c *Chain) Format() gpu.SurfaceFormat { return c.settings.format }

func (c *Chain) Extent() gpu.Extent2D { return c.settings.extent }

func (c *Chain) PresentMode() gpu.PresentMode { return c.settings.presentMode }

func (c *Chain) SharingMode() gpu.SharingMode { return c.settings.sharing }

// Generation counts completed or attempted rebuilds; the first chain is 0.
func (c *Chain) Generation() int { return c.generation }

// Valid reports whether the chain currently holds a swapchain.
func (c *Chain) Valid() bool { return c.swapchain != nil }

// Close destroys framebuffers, views, the render pass and the swapchain in
// that order. The caller waits for the device to go idle first.
func (c *Chain) Close() {
	for _, image := range c.images {
		image.Framebuffer.Destroy()
	}
	for _, image := range c.images {
		image.View.Destroy()
	}
	c.images = nil
	if c.renderPass != nil {
		c.renderPass.Destroy()
		c.renderPass = nil
	}
	if c.swapchain != nil {
		c.swapchain.Destroy()
		c.swapchain = nil
	}
}
