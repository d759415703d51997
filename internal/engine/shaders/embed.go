// Package shaders provides embedded GLSL shader sources and the program
// descriptors built from them.
package shaders

import _ "embed"

// ShadowVertexShader transforms geometry into the light's clip space.
//
//go:embed shadow.vert
var ShadowVertexShader string

// ShadowDepthFragmentShader writes depth only.
//
//go:embed shadow_depth.frag
var ShadowDepthFragmentShader string

// ShadowMomentsFragmentShader writes the first two depth moments.
//
//go:embed shadow_moments.frag
var ShadowMomentsFragmentShader string

//go:embed shadow_cube.vert
var ShadowCubeVertexShader string

// ShadowCubeFragmentShader writes distance-to-light moments.
//
//go:embed shadow_cube.frag
var ShadowCubeFragmentShader string

// BlurVertexShader draws the full-screen quad.
//
//go:embed blur.vert
var BlurVertexShader string

// BlurFragmentShader applies one axis of the 7-tap Gaussian.
//
//go:embed blur.frag
var BlurFragmentShader string

//go:embed lit.vert
var LitVertexShader string

//go:embed lit_pcf.frag
var LitPCFFragmentShader string

//go:embed lit_vsm.frag
var LitVSMFragmentShader string

//go:embed lit_cube.vert
var LitCubeVertexShader string

//go:embed lit_cube.frag
var LitCubeFragmentShader string
