package gpu

import (
	"fmt"

	"github.com/google/uuid"
)

// SpecialExtent is the width a surface reports when it lets the application
// pick the swapchain extent.
const SpecialExtent = -1

type Format int

const (
	FormatUndefined Format = iota
	FormatB8G8R8A8SRGB
	FormatB8G8R8A8UnsignedNormalized
	FormatR8G8B8A8SRGB
	FormatR8G8B8A8UnsignedNormalized
)

var formatNames = map[Format]string{
	FormatUndefined:                  "Undefined",
	FormatB8G8R8A8SRGB:               "B8G8R8A8 sRGB",
	FormatB8G8R8A8UnsignedNormalized: "B8G8R8A8 UNorm",
	FormatR8G8B8A8SRGB:               "R8G8B8A8 sRGB",
	FormatR8G8B8A8UnsignedNormalized: "R8G8B8A8 UNorm",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

type ColorSpace int

const (
	ColorSpaceSRGBNonlinear ColorSpace = iota
	ColorSpaceOther
)

func (c ColorSpace) String() string {
	if c == ColorSpaceSRGBNonlinear {
		return "sRGB Nonlinear"
	}
	return fmt.Sprintf("ColorSpace(%d)", int(c))
}

type PresentMode int

const (
	PresentModeImmediate PresentMode = iota
	PresentModeMailbox
	PresentModeFIFO
	PresentModeFIFORelaxed
)

func (m PresentMode) String() string {
	switch m {
	case PresentModeImmediate:
		return "Immediate"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeFIFO:
		return "FIFO"
	case PresentModeFIFORelaxed:
		return "FIFO Relaxed"
	}
	return fmt.Sprintf("PresentMode(%d)", int(m))
}

type QueueFlags uint32

const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
)

type QueueFamily struct {
	Flags      QueueFlags
	QueueCount int
}

type SharingMode int

const (
	SharingModeExclusive SharingMode = iota
	SharingModeConcurrent
)

func (m SharingMode) String() string {
	if m == SharingModeConcurrent {
		return "Concurrent"
	}
	return "Exclusive"
}

type Extent2D struct {
	Width  int
	Height int
}

// Undefined reports whether the surface leaves the extent to the application.
func (e Extent2D) Undefined() bool {
	return e.Width == SpecialExtent
}

func (e Extent2D) Empty() bool {
	return e.Width == 0 || e.Height == 0
}

func (e Extent2D) String() string {
	return fmt.Sprintf("%dx%d", e.Width, e.Height)
}

type SurfaceFormat struct {
	Format     Format
	ColorSpace ColorSpace
}

func (f SurfaceFormat) String() string {
	return fmt.Sprintf("%s/%s", f.Format, f.ColorSpace)
}

type SurfaceCapabilities struct {
	MinImageCount int
	// MaxImageCount is 0 when the surface places no upper bound on the count.
	MaxImageCount int
	CurrentExtent Extent2D
}

type PhysicalDeviceProperties struct {
	Name              string
	PipelineCacheUUID uuid.UUID
}

type Viewport struct {
	X, Y, Width, Height float32
	MinDepth, MaxDepth  float32
}

type ClearColor [4]float32

type DebugSeverity int

const (
	DebugSeverityVerbose DebugSeverity = iota
	DebugSeverityInfo
	DebugSeverityWarning
	DebugSeverityError
)

// DebugCallback receives validation layer messages. It runs on whatever
// thread the driver reports from.
type DebugCallback func(severity DebugSeverity, message string)

type InstanceCreateInfo struct {
	ApplicationName string
	EngineName      string
	Layers          []string
	Extensions      []string
	// Debug is installed for instance creation and destruction messages
	// when non-nil.
	Debug DebugCallback
	// EnumeratePortability sets the portability enumeration flag.
	EnumeratePortability bool
}

type QueueCreateInfo struct {
	FamilyIndex int
	Priorities  []float32
}

type DeviceCreateInfo struct {
	Queues     []QueueCreateInfo
	Extensions []string
}

type SwapchainCreateInfo struct {
	Surface       Surface
	MinImageCount int
	Format        SurfaceFormat
	Extent        Extent2D
	PresentMode   PresentMode
	SharingMode   SharingMode
	// QueueFamilies lists the families sharing images in concurrent mode.
	QueueFamilies []int
}

type RenderPassCreateInfo struct {
	ColorFormat Format
}

type FramebufferCreateInfo struct {
	RenderPass RenderPass
	Attachment ImageView
	Extent     Extent2D
}

type PrimitiveTopology int

const (
	TopologyTriangleList PrimitiveTopology = iota
	TopologyTriangleStrip
)

type CullMode int

const (
	CullModeNone CullMode = iota
	CullModeBack
	CullModeFront
)

type FrontFace int

const (
	FrontFaceClockwise FrontFace = iota
	FrontFaceCounterClockwise
)

type GraphicsPipelineCreateInfo struct {
	RenderPass     RenderPass
	Layout         PipelineLayout
	VertexShader   ShaderModule
	FragmentShader ShaderModule
	Topology       PrimitiveTopology
	CullMode       CullMode
	FrontFace      FrontFace
	LineWidth      float32
	// Extent seeds the static viewport; viewport and scissor stay dynamic.
	Extent Extent2D
}

type SubmitInfo struct {
	WaitSemaphore   Semaphore
	CommandBuffer   CommandBuffer
	SignalSemaphore Semaphore
	Fence           Fence
}

type PresentInfo struct {
	WaitSemaphore Semaphore
	Swapchain     Swapchain
	ImageIndex    int
}

// Extension names the renderer negotiates on its own behalf.
const (
	ExtensionSurface                = "VK_KHR_surface"
	ExtensionSwapchain              = "VK_KHR_swapchain"
	ExtensionDebugUtils             = "VK_EXT_debug_utils"
	ExtensionPortabilityEnumeration = "VK_KHR_portability_enumeration"
	ExtensionPortabilitySubset      = "VK_KHR_portability_subset"
)
