package render

import (
	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

// Device is the logical device opened on a selected candidate together with
// its graphics and present queues. The two queues are the same object when
// one family serves both.
type Device struct {
	candidate *Candidate
	device    gpu.Device
	graphics  gpu.Queue
	present   gpu.Queue
}

// NewDevice opens one queue at priority 1.0 on every distinct family in the
// candidate's indices and enables extensions. The portability subset
// extension is added whenever the device offers it.
func NewDevice(c *Candidate, extensions []string) (*Device, error) {
	if !c.Indices.IsComplete() {
		return nil, errors.AssertionFailedf("queue family indices incomplete for %q", c.Name)
	}

	var queues []gpu.QueueCreateInfo
	for _, family := range c.Indices.Unique() {
		queues = append(queues, gpu.QueueCreateInfo{
			FamilyIndex: family,
			Priorities:  []float32{1.0},
		})
	}

	enabled := append([]string{}, extensions...)
	if c.HasExtension(gpu.ExtensionPortabilitySubset) && !contains(enabled, gpu.ExtensionPortabilitySubset) {
		enabled = append(enabled, gpu.ExtensionPortabilitySubset)
	}

	device, err := c.Device.CreateDevice(gpu.DeviceCreateInfo{
		Queues:     queues,
		Extensions: enabled,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "create logical device on %q", c.Name)
	}

	d := &Device{
		candidate: c,
		device:    device,
		graphics:  device.Queue(*c.Indices.GraphicsFamily, 0),
		present:   device.Queue(*c.Indices.PresentFamily, 0),
	}

	Logger().Debug("logical device created",
		"device", c.Name,
		"graphics_family", *c.Indices.GraphicsFamily,
		"present_family", *c.Indices.PresentFamily,
		"extensions", enabled)
	return d, nil
}

func (d *Device) Candidate() *Candidate { return d.candidate }

func (d *Device) Handle() gpu.Device { return d.device }

func (d *Device) GraphicsQueue() gpu.Queue { return d.graphics }

func (d *Device) PresentQueue() gpu.Queue { return d.present }

func (d *Device) WaitIdle() error {
	return d.device.WaitIdle()
}

// Close destroys the logical device. Everything created from it must already
// be gone.
func (d *Device) Close() {
	if d.device == nil {
		return
	}
	d.device.Destroy()
	d.device = nil
	d.graphics = nil
	d.present = nil
}
