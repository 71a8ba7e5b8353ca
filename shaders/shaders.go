// Package shaders holds the GLSL sources for the triangle the presenter draws.
// Run `go generate` with glslc on the PATH to produce the SPIR-V the
// presenter loads at startup.
package shaders

//go:generate glslc shader.vert -o vert.spv
//go:generate glslc shader.frag -o frag.spv
