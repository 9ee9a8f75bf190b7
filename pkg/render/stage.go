package render

import (
	"math"

	"github.com/tymcgee/console-3d/pkg/math3d"
	"github.com/tymcgee/console-3d/pkg/models"
)

// DefaultRamp orders the lighting glyphs from darkest to brightest.
const DefaultRamp = ".,-~:;=!*#$@"

// FlatGlyph is drawn for every visible triangle when lighting is off.
const FlatGlyph = '#'

// RenderState is the per-frame input owned by the frame driver.
type RenderState struct {
	Angle    float64 // Rotation angle in radians
	Zoom     float64 // Distance of the model along +Z
	Fill     bool    // Rasterize triangle interiors
	Lighting bool    // Pick glyphs from the ramp
}

// ModelMatrix composes the model transform for a frame: rotate about Z, then
// about Y, then push the model Zoom units into the screen.
func ModelMatrix(state RenderState) math3d.Mat4 {
	return math3d.Translate(0, 0, state.Zoom).
		Mul(math3d.RotateY(state.Angle)).
		Mul(math3d.RotateZ(state.Angle))
}

// Lighting selects a glyph for each visible triangle.
type Lighting struct {
	Dir  math3d.Vec3 // Light direction, need not be unit length
	Ramp []rune      // Glyphs from darkest to brightest, at least one
	Flat rune        // Glyph used when lighting is disabled
}

// DefaultLighting returns a light shining into the screen with the 12 glyph
// ramp.
func DefaultLighting() Lighting {
	return Lighting{
		Dir:  math3d.V3(0, 0, -1),
		Ramp: []rune(DefaultRamp),
		Flat: FlatGlyph,
	}
}

// Glyph returns the glyph for a shaded triangle.
func (l Lighting) Glyph(s Shaded, enabled bool) rune {
	if !enabled || len(l.Ramp) == 0 {
		return l.Flat
	}
	return l.Ramp[s.Level]
}

// Shaded is a triangle after the model transform, with its recomputed face
// normal and ramp index.
type Shaded struct {
	Triangle models.Triangle
	Level    int
}

// Process transforms tri by model, recomputes its face normal and decides
// visibility against the camera. It returns false for back-facing and
// degenerate triangles.
//
// A triangle is visible when its normal points away from the camera-to-
// surface vector: dot(normal, p1-camera) < 0.
func Process(tri models.Triangle, model math3d.Mat4, camera math3d.Vec4, lightDir math3d.Vec3, rampLen int) (Shaded, bool) {
	out := tri.Transformed(model)

	line1 := out.P2.Vec3().Sub(out.P1.Vec3())
	line2 := out.P3.Vec3().Sub(out.P1.Vec3())
	cross := line1.Cross(line2)
	if cross.Len() == 0 {
		return Shaded{}, false
	}
	normal := cross.Normalize()
	out.Normal = math3d.V4FromV3(normal, 1)

	// p1 and the camera both have W = 1, so the W terms of the dot vanish.
	sim := out.Normal.Dot(out.P1.Sub(camera))
	if !(sim < 0) {
		return Shaded{}, false
	}

	dp := normal.Dot(lightDir.Normalize())
	return Shaded{Triangle: out, Level: IntensityLevel(dp, rampLen)}, true
}

// IntensityLevel maps a light alignment dp in [-1, 1] to a ramp index,
// rounding half to even and clamping to [0, rampLen-1].
func IntensityLevel(dp float64, rampLen int) int {
	if rampLen <= 1 || math.IsNaN(dp) {
		return 0
	}
	n := int(math.RoundToEven(float64(rampLen-1) * dp))
	return min(max(n, 0), rampLen-1)
}
