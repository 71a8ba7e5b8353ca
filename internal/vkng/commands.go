package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"

	"github.com/vkngwrapper/presenter/internal/gpu"
)

type commandPool struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.CommandPool
}

func (p *commandPool) AllocateCommandBuffers(count int) ([]gpu.CommandBuffer, error) {
	buffers, _, err := p.driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, err
	}

	out := make([]gpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		out = append(out, &commandBuffer{driver: p.driver, handle: b})
	}
	return out, nil
}

// Destroy frees the pool along with every buffer allocated from it.
func (p *commandPool) Destroy() { p.driver.DestroyCommandPool(p.handle, nil) }

type commandBuffer struct {
	driver core1_0.CoreDeviceDriver
	handle core1_0.CommandBuffer
}

func (c *commandBuffer) Reset() error {
	_, err := c.driver.ResetCommandBuffer(c.handle, 0)
	return err
}

func (c *commandBuffer) Begin() error {
	_, err := c.driver.BeginCommandBuffer(c.handle, core1_0.CommandBufferBeginInfo{})
	return err
}

func (c *commandBuffer) BeginRenderPass(rp gpu.RenderPass, fb gpu.Framebuffer, area gpu.Extent2D, clear gpu.ClearColor) error {
	return c.driver.CmdBeginRenderPass(c.handle, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  rp.(*renderPass).handle,
			Framebuffer: fb.(*framebuffer).handle,
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: toExtent(area),
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{clear[0], clear[1], clear[2], clear[3]},
			},
		})
}

func (c *commandBuffer) BindPipeline(p gpu.Pipeline) {
	c.driver.CmdBindPipeline(c.handle, core1_0.PipelineBindPointGraphics, p.(*pipeline).handle)
}

func (c *commandBuffer) SetViewport(v gpu.Viewport) {
	c.driver.CmdSetViewport(c.handle, core1_0.Viewport{
		X:        v.X,
		Y:        v.Y,
		Width:    v.Width,
		Height:   v.Height,
		MinDepth: v.MinDepth,
		MaxDepth: v.MaxDepth,
	})
}

func (c *commandBuffer) SetScissor(extent gpu.Extent2D) {
	c.driver.CmdSetScissor(c.handle, core1_0.Rect2D{
		Offset: core1_0.Offset2D{X: 0, Y: 0},
		Extent: toExtent(extent),
	})
}

func (c *commandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance int) {
	c.driver.CmdDraw(c.handle, vertexCount, instanceCount, uint32(firstVertex), uint32(firstInstance))
}

func (c *commandBuffer) EndRenderPass() {
	c.driver.CmdEndRenderPass(c.handle)
}

func (c *commandBuffer) End() error {
	_, err := c.driver.EndCommandBuffer(c.handle)
	return err
}
