// Package gpu describes the slice of a Vulkan-style graphics API the renderer
// drives. Handles are opaque objects; anything with a Destroy method is owned
// by whoever created it.
package gpu

// Runtime is the loader-level entry point: what is installed, and how to make
// an instance from it.
type Runtime interface {
	InstanceLayers() ([]string, error)
	InstanceExtensions() ([]string, error)
	CreateInstance(info InstanceCreateInfo) (Instance, error)
}

type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	CreateDebugMessenger(callback DebugCallback) (DebugMessenger, error)
	Destroy()
}

// SurfaceProvider is implemented by the window system integration.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	CreateSurface(instance Instance) (Surface, error)
}

type Surface interface {
	Destroy()
}

type DebugMessenger interface {
	Destroy()
}

type PhysicalDevice interface {
	Properties() (PhysicalDeviceProperties, error)
	QueueFamilies() []QueueFamily
	Extensions() ([]string, error)
	SurfaceSupport(surface Surface, queueFamily int) (bool, error)
	SurfaceCapabilities(surface Surface) (SurfaceCapabilities, error)
	SurfaceFormats(surface Surface) ([]SurfaceFormat, error)
	SurfacePresentModes(surface Surface) ([]PresentMode, error)
	CreateDevice(info DeviceCreateInfo) (Device, error)
}

type Device interface {
	Queue(family, index int) Queue
	CreateSwapchain(info SwapchainCreateInfo) (Swapchain, error)
	CreateImageView(image Image, format Format) (ImageView, error)
	CreateRenderPass(info RenderPassCreateInfo) (RenderPass, error)
	CreateFramebuffer(info FramebufferCreateInfo) (Framebuffer, error)
	CreateShaderModule(code []uint32) (ShaderModule, error)
	CreatePipelineLayout() (PipelineLayout, error)
	CreateGraphicsPipeline(info GraphicsPipelineCreateInfo) (Pipeline, error)
	CreateCommandPool(queueFamily int) (CommandPool, error)
	CreateSemaphore() (Semaphore, error)
	CreateFence(signaled bool) (Fence, error)
	// WaitForFences blocks without a timeout until every fence is signaled.
	WaitForFences(fences ...Fence) error
	ResetFences(fences ...Fence) error
	WaitIdle() error
	Destroy()
}

type Queue interface {
	Submit(info SubmitInfo) error
	// Present returns ErrOutOfDate or ErrSuboptimal when the swapchain no
	// longer matches the surface.
	Present(info PresentInfo) error
}

type Swapchain interface {
	Images() ([]Image, error)
	// AcquireNextImage blocks without a timeout. ErrOutOfDate means no image
	// was acquired; ErrSuboptimal comes with a valid index.
	AcquireNextImage(signal Semaphore) (int, error)
	Destroy()
}

// Image is owned by its swapchain and never destroyed directly.
type Image interface{}

type ImageView interface{ Destroy() }

type RenderPass interface{ Destroy() }

type Framebuffer interface{ Destroy() }

type ShaderModule interface{ Destroy() }

type PipelineLayout interface{ Destroy() }

type Pipeline interface{ Destroy() }

type Semaphore interface{ Destroy() }

type Fence interface{ Destroy() }

type CommandPool interface {
	AllocateCommandBuffers(count int) ([]CommandBuffer, error)
	Destroy()
}

type CommandBuffer interface {
	Reset() error
	Begin() error
	BeginRenderPass(renderPass RenderPass, framebuffer Framebuffer, area Extent2D, clear ClearColor) error
	BindPipeline(pipeline Pipeline)
	SetViewport(viewport Viewport)
	SetScissor(extent Extent2D)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance int)
	EndRenderPass()
	End() error
}
