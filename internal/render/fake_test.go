package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// fakeWorld is an in-memory backend. Every object it hands out is tracked so
// tests can check creation and destruction order and look for leaks.
type fakeWorld struct {
	mu sync.Mutex

	events []string
	live   map[*fakeObj]struct{}
	counts map[string]int
	// fail makes the n-th creation (1-based) of a kind return an error.
	fail map[string]int

	installedLayers     []string
	installedExtensions []string
	requiredExtensions  []string
	devices             []*fakePhysicalDevice
	caps                gpu.SurfaceCapabilities

	// probed lists device names in the order their properties were read.
	probed []string

	instanceInfo gpu.InstanceCreateInfo
	deviceInfo   gpu.DeviceCreateInfo
	swapchains   []gpu.SwapchainCreateInfo
	debugFn      gpu.DebugCallback

	acquireErrs []error
	presentErrs []error
	submits     []gpu.SubmitInfo
	presents    []gpu.PresentInfo
}

func newFakeWorld() *fakeWorld {
	w := &fakeWorld{
		live:                map[*fakeObj]struct{}{},
		counts:              map[string]int{},
		fail:                map[string]int{},
		installedLayers:     []string{"VK_LAYER_KHRONOS_validation"},
		installedExtensions: []string{gpu.ExtensionSurface, "VK_KHR_xlib_surface", gpu.ExtensionDebugUtils},
		requiredExtensions:  []string{gpu.ExtensionSurface, "VK_KHR_xlib_surface"},
		caps: gpu.SurfaceCapabilities{
			MinImageCount: 1,
			MaxImageCount: 3,
			CurrentExtent: gpu.Extent2D{Width: 800, Height: 600},
		},
	}
	w.devices = []*fakePhysicalDevice{w.newDevice("gpu0")}
	return w
}

// newDevice returns a suitable device with one family doing everything.
func (w *fakeWorld) newDevice(name string) *fakePhysicalDevice {
	return &fakePhysicalDevice{
		w:               w,
		name:            name,
		families:        []gpu.QueueFamily{{Flags: gpu.QueueGraphics | gpu.QueueCompute, QueueCount: 1}},
		presentFamilies: map[int]bool{0: true},
		extensions:      []string{gpu.ExtensionSwapchain},
		formats:         []gpu.SurfaceFormat{{Format: gpu.FormatB8G8R8A8UnsignedNormalized}, DefaultSurfaceFormat},
		presentModes:    []gpu.PresentMode{gpu.PresentModeFIFO, gpu.PresentModeMailbox},
	}
}

func (w *fakeWorld) record(event string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
}

func (w *fakeWorld) create(kind string) (*fakeObj, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.counts[kind]++
	if n, ok := w.fail[kind]; ok && n == w.counts[kind] {
		return nil, errors.Newf("injected %s failure", kind)
	}
	o := &fakeObj{w: w, kind: kind, id: w.counts[kind]}
	w.live[o] = struct{}{}
	w.events = append(w.events, "create "+kind)
	return o, nil
}

// leaks lists the kinds of objects still alive.
func (w *fakeWorld) leaks() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for o := range w.live {
		out = append(out, o.kind)
	}
	return out
}

func (w *fakeWorld) liveCount(kind string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for o := range w.live {
		if o.kind == kind {
			n++
		}
	}
	return n
}

// eventsSince returns the events recorded after mark, with prefix filtering.
func (w *fakeWorld) eventsSince(mark int, prefix string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []string
	for _, e := range w.events[mark:] {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (w *fakeWorld) mark() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.events)
}

func (w *fakeWorld) runtime() *fakeRuntime { return &fakeRuntime{w: w} }

func (w *fakeWorld) provider() *fakeProvider { return &fakeProvider{w: w} }

type fakeObj struct {
	w         *fakeWorld
	kind      string
	id        int
	destroyed bool
}

func (o *fakeObj) Destroy() {
	o.w.mu.Lock()
	defer o.w.mu.Unlock()
	if o.destroyed {
		panic(fmt.Sprintf("%s %d destroyed twice", o.kind, o.id))
	}
	o.destroyed = true
	delete(o.w.live, o)
	o.w.events = append(o.w.events, "destroy "+o.kind)
}

type fakeRuntime struct {
	w *fakeWorld
}

func (r *fakeRuntime) InstanceLayers() ([]string, error) { return r.w.installedLayers, nil }

func (r *fakeRuntime) InstanceExtensions() ([]string, error) { return r.w.installedExtensions, nil }

func (r *fakeRuntime) CreateInstance(info gpu.InstanceCreateInfo) (gpu.Instance, error) {
	o, err := r.w.create("instance")
	if err != nil {
		return nil, err
	}
	r.w.instanceInfo = info
	return &fakeInstance{fakeObj: o}, nil
}

type fakeInstance struct {
	*fakeObj
}

func (i *fakeInstance) PhysicalDevices() ([]gpu.PhysicalDevice, error) {
	out := make([]gpu.PhysicalDevice, len(i.w.devices))
	for n, d := range i.w.devices {
		out[n] = d
	}
	return out, nil
}

func (i *fakeInstance) CreateDebugMessenger(callback gpu.DebugCallback) (gpu.DebugMessenger, error) {
	o, err := i.w.create("debug")
	if err != nil {
		return nil, err
	}
	i.w.debugFn = callback
	return o, nil
}

type fakeProvider struct {
	w *fakeWorld
}

func (p *fakeProvider) RequiredInstanceExtensions() []string { return p.w.requiredExtensions }

func (p *fakeProvider) CreateSurface(gpu.Instance) (gpu.Surface, error) {
	o, err := p.w.create("surface")
	if err != nil {
		return nil, err
	}
	return o, nil
}

type fakePhysicalDevice struct {
	w               *fakeWorld
	name            string
	families        []gpu.QueueFamily
	presentFamilies map[int]bool
	extensions      []string
	formats         []gpu.SurfaceFormat
	presentModes    []gpu.PresentMode
	propsErr        error

	supportQueries int
}

func (d *fakePhysicalDevice) Properties() (gpu.PhysicalDeviceProperties, error) {
	d.w.mu.Lock()
	d.w.probed = append(d.w.probed, d.name)
	d.w.mu.Unlock()
	if d.propsErr != nil {
		return gpu.PhysicalDeviceProperties{}, d.propsErr
	}
	return gpu.PhysicalDeviceProperties{
		Name:              d.name,
		PipelineCacheUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(d.name)),
	}, nil
}

func (d *fakePhysicalDevice) QueueFamilies() []gpu.QueueFamily { return d.families }

func (d *fakePhysicalDevice) Extensions() ([]string, error) { return d.extensions, nil }

func (d *fakePhysicalDevice) SurfaceSupport(_ gpu.Surface, family int) (bool, error) {
	return d.presentFamilies[family], nil
}

func (d *fakePhysicalDevice) SurfaceCapabilities(gpu.Surface) (gpu.SurfaceCapabilities, error) {
	d.w.mu.Lock()
	defer d.w.mu.Unlock()
	d.supportQueries++
	return d.w.caps, nil
}

func (d *fakePhysicalDevice) SurfaceFormats(gpu.Surface) ([]gpu.SurfaceFormat, error) {
	return d.formats, nil
}

func (d *fakePhysicalDevice) SurfacePresentModes(gpu.Surface) ([]gpu.PresentMode, error) {
	return d.presentModes, nil
}

func (d *fakePhysicalDevice) CreateDevice(info gpu.DeviceCreateInfo) (gpu.Device, error) {
	o, err := d.w.create("device")
	if err != nil {
		return nil, err
	}
	d.w.deviceInfo = info
	return &fakeDevice{fakeObj: o, queues: map[int]*fakeQueue{}}, nil
}

type fakeDevice struct {
	*fakeObj
	queues map[int]*fakeQueue
}

func (d *fakeDevice) Queue(family, _ int) gpu.Queue {
	q, ok := d.queues[family]
	if !ok {
		q = &fakeQueue{w: d.w, family: family}
		d.queues[family] = q
	}
	return q
}

func (d *fakeDevice) CreateSwapchain(info gpu.SwapchainCreateInfo) (gpu.Swapchain, error) {
	o, err := d.w.create("swapchain")
	if err != nil {
		return nil, err
	}
	d.w.swapchains = append(d.w.swapchains, info)
	images := make([]gpu.Image, info.MinImageCount)
	for i := range images {
		images[i] = i
	}
	return &fakeSwapchain{fakeObj: o, images: images}, nil
}

func (d *fakeDevice) CreateImageView(gpu.Image, gpu.Format) (gpu.ImageView, error) {
	return d.w.create("view")
}

func (d *fakeDevice) CreateRenderPass(gpu.RenderPassCreateInfo) (gpu.RenderPass, error) {
	return d.w.create("renderpass")
}

func (d *fakeDevice) CreateFramebuffer(gpu.FramebufferCreateInfo) (gpu.Framebuffer, error) {
	return d.w.create("framebuffer")
}

func (d *fakeDevice) CreateShaderModule([]uint32) (gpu.ShaderModule, error) {
	return d.w.create("shader")
}

func (d *fakeDevice) CreatePipelineLayout() (gpu.PipelineLayout, error) {
	return d.w.create("layout")
}

func (d *fakeDevice) CreateGraphicsPipeline(gpu.GraphicsPipelineCreateInfo) (gpu.Pipeline, error) {
	return d.w.create("pipeline")
}

func (d *fakeDevice) CreateCommandPool(int) (gpu.CommandPool, error) {
	o, err := d.w.create("pool")
	if err != nil {
		return nil, err
	}
	return &fakeCommandPool{fakeObj: o}, nil
}

func (d *fakeDevice) CreateSemaphore() (gpu.Semaphore, error) {
	return d.w.create("semaphore")
}

func (d *fakeDevice) CreateFence(signaled bool) (gpu.Fence, error) {
	o, err := d.w.create("fence")
	if err != nil {
		return nil, err
	}
	return &fakeFence{fakeObj: o, signaled: signaled}, nil
}

func (d *fakeDevice) WaitForFences(fences ...gpu.Fence) error {
	for _, f := range fences {
		if !f.(*fakeFence).signaled {
			return errors.New("waiting on a fence that will never signal")
		}
	}
	return nil
}

func (d *fakeDevice) ResetFences(fences ...gpu.Fence) error {
	for _, f := range fences {
		f.(*fakeFence).signaled = false
	}
	return nil
}

func (d *fakeDevice) WaitIdle() error {
	d.w.record("wait idle")
	return nil
}

type fakeFence struct {
	*fakeObj
	signaled bool
}

type fakeQueue struct {
	w      *fakeWorld
	family int
}

// Submit completes instantly: the fence is signaled before it returns.
func (q *fakeQueue) Submit(info gpu.SubmitInfo) error {
	q.w.mu.Lock()
	q.w.submits = append(q.w.submits, info)
	q.w.mu.Unlock()
	if info.Fence != nil {
		info.Fence.(*fakeFence).signaled = true
	}
	return nil
}

func (q *fakeQueue) Present(info gpu.PresentInfo) error {
	q.w.mu.Lock()
	defer q.w.mu.Unlock()
	q.w.presents = append(q.w.presents, info)
	if len(q.w.presentErrs) > 0 {
		err := q.w.presentErrs[0]
		q.w.presentErrs = q.w.presentErrs[1:]
		return err
	}
	return nil
}

type fakeSwapchain struct {
	*fakeObj
	images []gpu.Image
	next   int
}

func (s *fakeSwapchain) Images() ([]gpu.Image, error) { return s.images, nil }

func (s *fakeSwapchain) AcquireNextImage(gpu.Semaphore) (int, error) {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	var err error
	if len(s.w.acquireErrs) > 0 {
		err = s.w.acquireErrs[0]
		s.w.acquireErrs = s.w.acquireErrs[1:]
	}
	if errors.Is(err, gpu.ErrOutOfDate) {
		return 0, err
	}
	idx := s.next
	s.next = (s.next + 1) % len(s.images)
	return idx, err
}

type fakeCommandPool struct {
	*fakeObj
}

func (p *fakeCommandPool) AllocateCommandBuffers(count int) ([]gpu.CommandBuffer, error) {
	out := make([]gpu.CommandBuffer, count)
	for i := range out {
		out[i] = &fakeCommandBuffer{}
	}
	return out, nil
}

type fakeCommandBuffer struct {
	ops   []string
	clear gpu.ClearColor
	area  gpu.Extent2D
}

func (c *fakeCommandBuffer) Reset() error {
	c.ops = nil
	return nil
}

func (c *fakeCommandBuffer) Begin() error {
	c.ops = append(c.ops, "begin")
	return nil
}

func (c *fakeCommandBuffer) BeginRenderPass(_ gpu.RenderPass, _ gpu.Framebuffer, area gpu.Extent2D, clear gpu.ClearColor) error {
	c.ops = append(c.ops, "begin pass")
	c.area = area
	c.clear = clear
	return nil
}

func (c *fakeCommandBuffer) BindPipeline(gpu.Pipeline) { c.ops = append(c.ops, "bind") }

func (c *fakeCommandBuffer) SetViewport(gpu.Viewport) { c.ops = append(c.ops, "viewport") }

func (c *fakeCommandBuffer) SetScissor(gpu.Extent2D) { c.ops = append(c.ops, "scissor") }

func (c *fakeCommandBuffer) Draw(vertexCount, _, _, _ int) {
	c.ops = append(c.ops, fmt.Sprintf("draw %d", vertexCount))
}

func (c *fakeCommandBuffer) EndRenderPass() { c.ops = append(c.ops, "end pass") }

func (c *fakeCommandBuffer) End() error {
	c.ops = append(c.ops, "end")
	return nil
}

func testShaders() ShaderSet {
	return ShaderSet{
		Vertex:   []uint32{0x07230203, 0},
		Fragment: []uint32{0x07230203, 1},
	}
}

func testOptions() Options {
	return Options{
		Context: ContextOptions{ApplicationName: "test"},
		Chain:   ChainOptions{ImageCount: 2},
		Shaders: testShaders(),
	}
}
