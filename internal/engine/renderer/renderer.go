// Package renderer draws glyph strokes with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/strokeglyph/internal/engine/lighting"
	"github.com/Faultbox/strokeglyph/internal/engine/model"
	"github.com/Faultbox/strokeglyph/internal/engine/shader"
	"github.com/Faultbox/strokeglyph/internal/glyph"
	"github.com/Faultbox/strokeglyph/internal/logger"
	"github.com/Faultbox/strokeglyph/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width    int
	Height   int
	Material lighting.Material
	Light    lighting.KeyLight
}

// DefaultConfig returns the default material and key light.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:    width,
		Height:   height,
		Material: lighting.DefaultMaterial(),
		Light:    lighting.DefaultKeyLight(),
	}
}

// gpuMesh is one uploaded stroke mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program  uint32
	uniforms *shader.Uniforms

	// Uploaded meshes, keyed by the pool's mesh pointers.
	meshes map[*model.Mesh]*gpuMesh
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
		meshes: make(map[*model.Mesh]*gpuMesh),
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	// Log OpenGL info
	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	// Setup default OpenGL state
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	fog := cfg.Material.FogColor
	gl.ClearColor(fog[0], fog[1], fog[2], 1.0)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	var err error
	r.program, err = shader.CompileProgram(glyphVertexShader, glyphFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create glyph shader: %w", err)
	}
	r.uniforms = shader.NewUniforms(r.program,
		"uModel", "uView", "uProjection", "uCameraPos", "uLightDir",
		"uColor", "uAlpha", "uFresnelColor", "uFresnelPower", "uEdgeColor", "uFogColor", "uFogDensity",
		"uRevealStrength", "uTime", "uNoiseScale", "uNoiseStrength", "uNoiseSpeed")

	logger.Debug("shader program created", zap.Uint32("program", r.program))
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for m := range r.meshes {
		r.free(m)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// SetMaterial replaces the stroke material from the next frame on.
func (r *Renderer) SetMaterial(m lighting.Material) {
	r.config.Material = m
	gl.ClearColor(m.FogColor[0], m.FogColor[1], m.FogColor[2], 1.0)
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Release frees the GPU buffers of superseded meshes. It has the signature
// of glyph.ReleaseFunc so it can be hooked straight into the pool.
func (r *Renderer) Release(meshes []*model.Mesh) {
	for _, m := range meshes {
		r.free(m)
	}
	logger.Debug("meshes released", zap.Int("count", len(meshes)), zap.Int("resident", len(r.meshes)))
}

// ReadPixels reads the back buffer as bottom-up RGBA rows.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.ReadBuffer(gl.BACK)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Resident returns how many meshes are uploaded.
func (r *Renderer) Resident() int {
	return len(r.meshes)
}

// DrawGlyph draws the strokes of one frame in index order. Meshes are
// uploaded on first sight.
func (r *Renderer) DrawGlyph(frames []glyph.StrokeFrame, view, projection math.Mat4, cameraPos math.Vec3) {
	gl.UseProgram(r.program)
	u := r.uniforms
	u.Mat4("uView", view.Ptr())
	u.Mat4("uProjection", projection.Ptr())
	u.Vec3("uCameraPos", cameraPos.X, cameraPos.Y, cameraPos.Z)
	light := r.config.Light.Direction()
	u.Vec3("uLightDir", light.X, light.Y, light.Z)
	mat := r.config.Material
	u.Vec3("uColor", mat.Color[0], mat.Color[1], mat.Color[2])
	u.Float("uAlpha", float32(mat.Alpha))
	u.Vec3("uFresnelColor", mat.FresnelColor[0], mat.FresnelColor[1], mat.FresnelColor[2])
	u.Float("uFresnelPower", float32(mat.FresnelPower))
	u.Vec3("uEdgeColor", mat.EdgeColor[0], mat.EdgeColor[1], mat.EdgeColor[2])
	u.Vec3("uFogColor", mat.FogColor[0], mat.FogColor[1], mat.FogColor[2])
	u.Float("uFogDensity", float32(mat.FogDensity))

	for _, f := range frames {
		gm := r.upload(f.Mesh)
		if gm == nil {
			continue
		}
		modelMat := f.Placement.Model()
		u.Mat4("uModel", modelMat.Ptr())
		u.Float("uRevealStrength", float32(f.Uniforms.RevealStrength))
		u.Float("uTime", float32(f.Uniforms.ElapsedTime))
		u.Float("uNoiseScale", float32(f.Uniforms.NoiseScale))
		u.Float("uNoiseStrength", float32(f.Uniforms.NoiseStrength))
		u.Float("uNoiseSpeed", float32(f.Uniforms.NoiseSpeed))

		gl.BindVertexArray(gm.vao)
		gl.DrawElements(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, nil)
	}
}

// upload returns the GPU copy of m, creating it if needed.
func (r *Renderer) upload(m *model.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil
	}

	gm := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	// Vertex layout: position (3 floats) + normal (3 floats)
	stride := int32(unsafe.Sizeof(model.Vertex{}))
	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(stride), unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.meshes[m] = gm
	return gm
}

func (r *Renderer) free(m *model.Mesh) {
	gm, ok := r.meshes[m]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &gm.vao)
	gl.DeleteBuffers(1, &gm.vbo)
	gl.DeleteBuffers(1, &gm.ebo)
	delete(r.meshes, m)
}
