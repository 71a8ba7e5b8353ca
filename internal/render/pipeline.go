package render

import (
	"io/fs"

	"github.com/cockroachdb/errors"

	"github.com/vkngwrapper/presenter/internal/gpu"
	"github.com/vkngwrapper/presenter/internal/shader"
)

// ShaderSet holds SPIR-V words for the two programmable stages.
type ShaderSet struct {
	Vertex   []uint32
	Fragment []uint32
}

// LoadShaderSet reads both stages from fsys.
func LoadShaderSet(fsys fs.FS, vertexPath, fragmentPath string) (ShaderSet, error) {
	vert, err := shader.Load(fsys, vertexPath)
	if err != nil {
		return ShaderSet{}, err
	}
	frag, err := shader.Load(fsys, fragmentPath)
	if err != nil {
		return ShaderSet{}, err
	}
	return ShaderSet{Vertex: vert, Fragment: frag}, nil
}

// Pipeline is a graphics pipeline and its empty layout. Viewport and scissor
// are dynamic, so it outlives chain rebuilds that keep the render pass.
type Pipeline struct {
	layout   gpu.PipelineLayout
	pipeline gpu.Pipeline
}

func NewPipeline(device *Device, renderPass gpu.RenderPass, extent gpu.Extent2D, shaders ShaderSet) (*Pipeline, error) {
	handle := device.Handle()

	vert, err := handle.CreateShaderModule(shaders.Vertex)
	if err != nil {
		return nil, errors.Wrap(err, "create vertex shader module")
	}
	defer vert.Destroy()

	frag, err := handle.CreateShaderModule(shaders.Fragment)
	if err != nil {
		return nil, errors.Wrap(err, "create fragment shader module")
	}
	defer frag.Destroy()

	layout, err := handle.CreatePipelineLayout()
	if err != nil {
		return nil, errors.Wrap(err, "create pipeline layout")
	}

	pipeline, err := handle.CreateGraphicsPipeline(gpu.GraphicsPipelineCreateInfo{
		RenderPass:     renderPass,
		Layout:         layout,
		VertexShader:   vert,
		FragmentShader: frag,
		Topology:       gpu.TopologyTriangleList,
		CullMode:       gpu.CullModeBack,
		FrontFace:      gpu.FrontFaceClockwise,
		LineWidth:      1.0,
		Extent:         extent,
	})
	if err != nil {
		layout.Destroy()
		return nil, errors.Wrap(err, "create graphics pipeline")
	}

	return &Pipeline{layout: layout, pipeline: pipeline}, nil
}

func (p *Pipeline) Handle() gpu.Pipeline { return p.pipeline }

// Close destroys the pipeline, then its layout.
func (p *Pipeline) Close() {
	if p.pipeline != nil {
		p.pipeline.Destroy()
		p.pipeline = nil
	}
	if p.layout != nil {
		p.layout.Destroy()
		p.layout = nil
	}
}
