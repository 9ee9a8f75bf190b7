package render

import (
	"fmt"

	"github.com/tymcgee/console-3d/pkg/math3d"
	"github.com/tymcgee/console-3d/pkg/models"
)

// DefaultScaleX stretches x relative to y to make up for character cells
// being taller than they are wide.
const DefaultScaleX = 7.0

// ScreenTriangle is a triangle in grid coordinates with the glyph it is
// drawn with. X and Y are not rounded yet.
type ScreenTriangle struct {
	P     [3]math3d.Vec4
	Glyph rune
}

// Projector maps view space triangles to grid coordinates.
type Projector struct {
	Proj   math3d.Mat4
	Width  int
	Height int
	ScaleX float64
}

// NewProjector creates a projector for a width x height grid.
func NewProjector(proj math3d.Mat4, width, height int) Projector {
	return Projector{
		Proj:   proj,
		Width:  width,
		Height: height,
		ScaleX: DefaultScaleX,
	}
}

// Project applies the projection, divides through by W and maps the result
// onto the grid. Both axes scale by the grid height, which is usually the
// constraining dimension; x is stretched further by ScaleX. The origin lands
// on the grid center.
//
// A vertex with view space z = 0 has a zero W and yields a *math3d.DomainError.
func (p Projector) Project(tri models.Triangle, glyph rune) (ScreenTriangle, error) {
	h := float64(p.Height)
	cx, cy := float64(p.Width/2), float64(p.Height/2)

	st := ScreenTriangle{Glyph: glyph}
	for i, v := range tri.Vertices() {
		ndc, err := p.Proj.MulVec4(v).PerspectiveDivide()
		if err != nil {
			return ScreenTriangle{}, fmt.Errorf("project vertex %d: %w", i+1, err)
		}
		ndc.X = ndc.X*p.ScaleX*h + cx
		ndc.Y = ndc.Y*h + cy
		st.P[i] = ndc
	}
	return st, nil
}
