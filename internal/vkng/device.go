package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type device struct {
	physical     *physicalDevice
	driver       core1_0.CoreDeviceDriver
	swapchainExt khr_swapchain.ExtensionDriver
}

func newDevice(physical *physicalDevice, driver core1_0.CoreDeviceDriver) *device {
	return &device{
		physical:     physical,
		driver:       driver,
		swapchainExt: khr_swapchain.CreateExtensionDriverFromCoreDriver(driver),
	}
}

func (d *device) Queue(family, index int) gpu.Queue {
	return &queue{dev: d, handle: d.driver.GetQueue(family, index)}
}

func (d *device) CreateSwapchain(info gpu.SwapchainCreateInfo) (gpu.Swapchain, error) {
	surface := surfaceHandle(info.Surface)
	colorSpace, ok := toColorSpace(info.Format.ColorSpace)
	if !ok {
		return nil, errors.Newf("unsupported color space %s", info.Format.ColorSpace)
	}

	// The pre-transform has no neutral counterpart, so it is read back here.
	caps, _, err := d.physical.inst.surface.GetPhysicalDeviceSurfaceCapabilities(surface, d.physical.handle)
	if err != nil {
		return nil, errors.Wrap(err, "query surface transform")
	}

	handle, _, err := d.swapchainExt.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: surface,

		MinImageCount:    info.MinImageCount,
		ImageFormat:      toFormat(info.Format.Format),
		ImageColorSpace:  colorSpace,
		ImageExtent:      toExtent(info.Extent),
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   toSharingMode(info.SharingMode),
		QueueFamilyIndices: info.QueueFamilies,

		PreTransform:   caps.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    toPresentMode(info.PresentMode),
		Clipped:        true,
	})
	if err != nil {
		return nil, err
	}
	return &swapchain{dev: d, handle: handle}, nil
}

func (d *device) CreateImageView(image gpu.Image, format gpu.Format) (gpu.ImageView, error) {
	img, ok := image.(core1_0.Image)
	if !ok {
		return nil, errors.AssertionFailedf("image %T was not created by this backend", image)
	}

	view, _, err := d.driver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    img,
		ViewType: core1_0.ImageViewType2D,
		Format:   toFormat(format),
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	if err != nil {
		return nil, err
	}
	return &imageView{driver: d.driver, handle: view}, nil
}

func (d *device) CreateRenderPass(info gpu.RenderPassCreateInfo) (gpu.RenderPass, error) {
	rp, _, err := d.driver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         toFormat(info.ColorFormat),
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	return &renderPass{driver: d.driver, handle: rp}, nil
}

func (d *device) CreateFramebuffer(info gpu.FramebufferCreateInfo) (gpu.Framebuffer, error) {
	fb, _, err := d.driver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  info.RenderPass.(*renderPass).handle,
		Layers:      1,
		Attachments: []core1_0.ImageView{info.Attachment.(*imageView).handle},
		Width:       info.Extent.Width,
		Height:      info.Extent.Height,
	})
	if err != nil {
		return nil, err
	}
	return &framebuffer{driver: d.driver, handle: fb}, nil
}

func (d *device) CreateShaderModule(code []uint32) (gpu.ShaderModule, error) {
	module, _, err := d.driver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: code,
	})
	if err != nil {
		return nil, err
	}
	return &shaderModule{driver: d.driver, handle: module}, nil
}

func (d *device) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	layout, _, err := d.driver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return nil, err
	}
	return &pipelineLayout{driver: d.driver, handle: layout}, nil
}

func (d *device) CreateCommandPool(queueFamily int) (gpu.CommandPool, error) {
	pool, _, err := d.driver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: queueFamily,
	})
	if err != nil {
		return nil, err
	}
	return &commandPool{driver: d.driver, handle: pool}, nil
}

func (d *device) CreateSemaphore() (gpu.Semaphore, error) {
	s, _, err := d.driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, err
	}
	return &semaphore{driver: d.driver, handle: s}, nil
}

func (d *device) CreateFence(signaled bool) (gpu.Fence, error) {
	var info core1_0.FenceCreateInfo
	if signaled {
		info.Flags = core1_0.FenceCreateSignaled
	}
	f, _, err := d.driver.CreateFence(nil, info)
	if err != nil {
		return nil, err
	}
	return &fence{driver: d.driver, handle: f}, nil
}

func (d *device) WaitForFences(fences ...gpu.Fence) error {
	_, err := d.driver.WaitForFences(true, common.NoTimeout, fenceHandles(fences)...)
	return err
}

func (d *device) ResetFences(fences ...gpu.Fence) error {
	_, err := d.driver.ResetFences(fenceHandles(fences)...)
	return err
}

func (d *device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	return err
}

func (d *device) Destroy() {
	d.driver.DestroyDevice(nil)
}

func fenceHandles(fences []gpu.Fence) []core1_0.Fence {
	out := make([]core1_0.Fence, 0, len(fences))
	for _, f := range fences {
		out = append(out, f.(*fence).handle)
	}
	return out
}

type queue struct {
	dev    *device
	handle core1_0.Queue
}

func (q *queue) Submit(info gpu.SubmitInfo) error {
	var signal *core1_0.Fence
	if info.Fence != nil {
		signal = &info.Fence.(*fence).handle
	}

	_, err := q.dev.driver.QueueSubmit(q.handle, signal, core1_0.SubmitInfo{
		WaitSemaphores:   []core1_0.Semaphore{info.WaitSemaphore.(*semaphore).handle},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []core1_0.CommandBuffer{info.CommandBuffer.(*commandBuffer).handle},
		SignalSemaphores: []core1_0.Semaphore{info.SignalSemaphore.(*semaphore).handle},
	})
	return err
}

func (q *queue) Present(info gpu.PresentInfo) error {
	res, err := q.dev.swapchainExt.QueuePresent(q.handle, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{info.WaitSemaphore.(*semaphore).handle},
		Swapchains:     []khr_swapchain.Swapchain{info.Swapchain.(*swapchain).handle},
		ImageIndices:   []int{info.ImageIndex},
	})
	return presentResult(res, err)
}

type swapchain struct {
	dev    *device
	handle khr_swapchain.Swapchain
}

func (s *swapchain) Images() ([]gpu.Image, error) {
	images, _, err := s.dev.swapchainExt.GetSwapchainImages(s.handle)
	if err != nil {
		return nil, err
	}
	out := make([]gpu.Image, 0, len(images))
	for _, image := range images {
		out = append(out, image)
	}
	return out, nil
}

func (s *swapchain) AcquireNextImage(signal gpu.Semaphore) (int, error) {
	sem := signal.(*semaphore).handle
	index, res, err := s.dev.swapchainExt.AcquireNextImage(s.handle, common.NoTimeout, &sem, nil)
	return index, presentResult(res, err)
}

func (s *swapchain) Destroy() {
	s.dev.swapchainExt.DestroySwapchain(s.handle, nil)
}

type imageView struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.ImageView
}

func (v *imageView) Destroy() { v.driver.DestroyImageView(v.handle, nil) }

type renderPass struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.RenderPass
}

func (r *renderPass) Destroy() { r.driver.DestroyRenderPass(r.handle, nil) }

type framebuffer struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.Framebuffer
}

func (f *framebuffer) Destroy() { f.driver.DestroyFramebuffer(f.handle, nil) }

type shaderModule struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.ShaderModule
}

func (m *shaderModule) Destroy() { m.driver.DestroyShaderModule(m.handle, nil) }

type pipelineLayout struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.PipelineLayout
}

func (l *pipelineLayout) Destroy() { l.driver.DestroyPipelineLayout(l.handle, nil) }

type semaphore struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.Semaphore
}

func (s *semaphore) Destroy() { s.driver.DestroySemaphore(s.handle, nil) }

type fence struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.Fence
}

func (f *fence) Destroy() { f.driver.DestroyFence(f.handle, nil) }
