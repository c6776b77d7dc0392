package renderer

import _ "embed"

// glyphVertexShader transforms stroke meshes.
//
//go:embed shaders/glyph.vert
var glyphVertexShader string

// glyphFragmentShader shades strokes and applies the noise dissolve.
//
//go:embed shaders/glyph.frag
var glyphFragmentShader string
