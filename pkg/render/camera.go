package render

import (
	"math"

	"github.com/tymcgee/console-3d/pkg/math3d"
)

// Camera is the fixed viewpoint: a position used for the backface test and
// the projection parameters. The scene is left-handed and the camera looks
// down +Z.
type Camera struct {
	Position math3d.Vec4 // W must be 1

	FOV    float64 // Field of view in radians
	Aspect float64 // Grid height / grid width
	Near   float64 // Near clipping plane
	Far    float64 // Far clipping plane
}

// NewCamera creates a camera at the origin with the default projection for a
// width x height character grid.
func NewCamera(width, height int) Camera {
	aspect := 1.0
	if width > 0 {
		aspect = float64(height) / float64(width)
	}
	return Camera{
		Position: math3d.Point(0, 0, 0),
		FOV:      math.Pi / 2,
		Aspect:   aspect,
		Near:     0.1,
		Far:      100,
	}
}

// ProjectionMatrix builds the camera's projection matrix.
func (c Camera) ProjectionMatrix() (math3d.Mat4, error) {
	return math3d.Projection(c.FOV, c.Aspect, c.Near, c.Far)
}

// MinZoom is the smallest model distance a frame driver should allow. It keeps
// the model origin clear of the near plane.
func (c Camera) MinZoom() float64 {
	return c.Near + 0.4
}
