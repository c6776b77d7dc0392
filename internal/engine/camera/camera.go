// Package camera provides the orbit camera used to look at a glyph.
package camera

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/strokeglyph/pkg/math"
)

// Projection names how the camera maps the scene onto the screen.
type Projection string

const (
	ProjectionPerspective  Projection = "perspective"
	ProjectionOrthographic Projection = "orthographic"
)

// ParseProjection accepts the config spelling of a projection. Empty means
// perspective.
func ParseProjection(s string) (Projection, error) {
	switch p := Projection(s); p {
	case "", ProjectionPerspective:
		return ProjectionPerspective, nil
	case ProjectionOrthographic:
		return p, nil
	default:
		return "", fmt.Errorf("unknown projection %q", s)
	}
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Lens
	Projection Projection
	FovY       float32 // radians; orthographic views use it to size the box
	Near, Far  float32
}

// NewOrbitCamera creates a camera looking at the origin straight down -Z.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		MinDistance:     1.0,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		Projection:      ProjectionPerspective,
		FovY:            45 * gomath.Pi / 180,
		Near:            0.1,
		Far:             1000,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Sin(float64(c.RotationY)))
	y := c.Distance * float32(gomath.Sin(float64(c.RotationX)))
	z := c.Distance * float32(gomath.Cos(float64(c.RotationX))*gomath.Cos(float64(c.RotationY)))

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity

	// Clamp pitch
	c.RotationX = min(max(c.RotationX, c.MinPitch), c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}

// ProjectionMatrix returns the projection for a viewport of the given aspect
// ratio. The orthographic box covers what the perspective frustum shows at
// the orbit center, so switching modes keeps the glyph the same size and
// zooming still works.
func (c *OrbitCamera) ProjectionMatrix(aspect float32) math.Mat4 {
	if c.Projection == ProjectionOrthographic {
		half := c.Distance * float32(gomath.Tan(float64(c.FovY)/2))
		return math.Ortho(-half*aspect, half*aspect, -half, half, c.Near, c.Far)
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// FitSphere frames a bounding sphere, keeping the current orientation.
func (c *OrbitCamera) FitSphere(s math.Sphere) {
	c.Center = s.Center
	half := float64(c.FovY) / 2
	if half <= 0 || s.Radius <= 0 {
		return
	}
	d := float32(float64(s.Radius)/gomath.Sin(half)) * 1.1
	c.Distance = min(max(d, c.MinDistance), c.MaxDistance)
}
