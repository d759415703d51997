// Package gfx defines the graphics collaborators the shadow pipeline consumes:
// devices, render targets, textures, programs and meshes.
//
// Two devices implement these contracts: glbackend on OpenGL 4.1 core and
// soft, a CPU rasterizer used for headless runs and tests.
package gfx

import "github.com/go-gl/mathgl/mgl32"

// Device issues rendering commands in submission order from a single thread.
type Device interface {
	// NewTexture allocates a 2D or cube texture.
	NewTexture(desc TextureDesc) (Texture, error)
	// NewTarget assembles a render target. A nil color attachment disables
	// color writes for the target. Incomplete combinations return an error
	// wrapping ErrIncompleteTarget.
	NewTarget(name string, color, depth *Attachment) (Target, error)
	// NewProgram compiles and links a shader program.
	NewProgram(src ProgramSource) (Program, error)
	// NewMesh uploads interleaved vertices laid out as described by VertexLayout.
	NewMesh(name string, vertices []float32) (Mesh, error)

	// BindTarget makes t the current render target. Nil selects the display.
	BindTarget(t Target)
	// Viewport sets the drawing rectangle origin at (0, 0).
	Viewport(width, height int)
	// Clear clears the selected buffers of the bound target.
	Clear(mask ClearMask, color [4]float32)
	// SetDepthTest toggles depth testing and returns the previous state.
	SetDepthTest(enabled bool) bool
	// SetCullFace selects which faces are discarded.
	SetCullFace(face CullFace)
	// BindTexture binds tex to a texture unit with the given sampling mode.
	BindTexture(unit int, tex Texture, mode SampleMode)
	// Draw issues count vertices of mesh starting at first as triangles.
	Draw(mesh Mesh, first, count int)

	// ReadTexture returns the texels of a texture level 0 (or cube face),
	// row-major from the bottom row, Format().Channels() floats per texel.
	ReadTexture(tex Texture, face int) ([]float32, error)
	// ReadDisplay returns the RGBA contents of the display, row-major from
	// the bottom row.
	ReadDisplay() ([]float32, error)
	// DisplaySize returns the size of the default render target.
	DisplaySize() (int, int)

	// Close frees device-level resources. Objects created by the device
	// should be destroyed first.
	Close()
}

// Texture is a 2D or cube texture owned by a Device.
type Texture interface {
	Destroy()
	Desc() TextureDesc
}

// Target is an off-screen render target.
type Target interface {
	// Destroy frees the framebuffer. Attached textures are not destroyed.
	Destroy()
	Name() string
	Size() (width, height int)
	// Color returns the color attachment, or nil for depth-only targets.
	Color() *Attachment
	// Depth returns the depth attachment, or nil.
	Depth() *Attachment
}

// Mesh is a vertex buffer ready to draw.
type Mesh interface {
	Destroy()
	Name() string
	VertexCount() int
}

// Program is a linked shader program. Setters return false when the uniform
// does not exist in the program; the write is dropped.
type Program interface {
	Destroy()
	Name() string
	Use()
	SetInt(name string, v int32) bool
	SetFloat(name string, v float32) bool
	SetVec2(name string, v mgl32.Vec2) bool
	SetVec3(name string, v mgl32.Vec3) bool
	SetVec4(name string, v mgl32.Vec4) bool
	SetMat4(name string, m mgl32.Mat4) bool
}

// ProgramSource describes a shader program. Name identifies the program for
// logs and for devices that execute native ports instead of GLSL.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Geometry string
	Defines  map[string]string
}

// ClearMask selects buffers to clear.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
)

// CullFace selects the culled face winding.
type CullFace uint8

const (
	CullBack CullFace = iota
	CullFront
	CullNone
)

// SampleMode selects how a bound texture is sampled.
type SampleMode uint8

const (
	// SampleFiltered reads texel values with the texture's own filtering.
	SampleFiltered SampleMode = iota
	// SampleCompare performs a depth comparison (LEQUAL) with linear
	// filtering of the results, as a shadow sampler does.
	SampleCompare
)

// Attachment references a texture, and a face for cube textures.
type Attachment struct {
	Texture Texture
	Face    int // cube face 0..5, ignored for 2D textures
}

// Vertex layout shared by every mesh: position, normal, texcoord.
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2

	VertexStride = 8 // floats per vertex
)

// Cube face count of a cube texture.
const CubeFaces = 6
