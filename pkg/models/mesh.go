// Package models provides mesh loading and representation for console-3d.
package models

import (
	"github.com/tymcgee/console-3d/pkg/math3d"
)

// Triangle is a face with three homogeneous vertices and the normal declared
// for it in the source file.
//
// The renderer recomputes a face normal from the transformed vertices every
// frame, so Normal is informational.
type Triangle struct {
	P1, P2, P3 math3d.Vec4
	Normal     math3d.Vec4
}

// Vertices returns the three vertices in declaration order.
func (t Triangle) Vertices() [3]math3d.Vec4 {
	return [3]math3d.Vec4{t.P1, t.P2, t.P3}
}

// Transformed returns a copy of t with every vertex multiplied by m.
// The stored normal is carried over unchanged.
func (t Triangle) Transformed(m math3d.Mat4) Triangle {
	return Triangle{
		P1:     m.MulVec4(t.P1),
		P2:     m.MulVec4(t.P2),
		P3:     m.MulVec4(t.P3),
		Normal: t.Normal,
	}
}

// Mesh is an ordered list of triangles. Draw order is triangle order.
type Mesh struct {
	Name      string
	Triangles []Triangle
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Triangles: make([]Triangle, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Bounds returns the axis-aligned bounding box of all vertices.
// An empty mesh has a zero box.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Triangles) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}

	lo = m.Triangles[0].P1.Vec3()
	hi = lo
	for _, t := range m.Triangles {
		for _, v := range t.Vertices() {
			lo = lo.Min(v.Vec3())
			hi = hi.Max(v.Vec3())
		}
	}
	return lo, hi
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	lo, hi := m.Bounds()
	return lo.Add(hi).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	lo, hi := m.Bounds()
	return hi.Sub(lo)
}

// Transformed returns a new mesh with every triangle multiplied by mat.
// The receiver is left untouched.
func (m *Mesh) Transformed(mat math3d.Mat4) *Mesh {
	out := &Mesh{
		Name:      m.Name,
		Triangles: make([]Triangle, len(m.Triangles)),
	}
	for i, t := range m.Triangles {
		out.Triangles[i] = t.Transformed(mat)
	}
	return out
}

// Fit returns a copy of the mesh centered on the origin and uniformly scaled
// so its largest dimension is 1.
func (m *Mesh) Fit() *Mesh {
	size := m.Size()
	maxDim := max(size.X, size.Y, size.Z)
	if maxDim == 0 {
		return m.Transformed(math3d.Identity())
	}

	c := m.Center()
	s := 1 / maxDim
	scale := math3d.Identity()
	scale.Set(0, 0, s)
	scale.Set(1, 1, s)
	scale.Set(2, 2, s)
	return m.Transformed(scale.Mul(math3d.Translate(-c.X, -c.Y, -c.Z)))
}
