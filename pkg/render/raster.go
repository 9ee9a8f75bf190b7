package render

import (
	"math"

	"github.com/tymcgee/console-3d/pkg/math3d"
)

// maxSegmentPoints bounds the samples on one edge. Edges longer than this
// (vertices projected far off the grid) are sampled more sparsely.
const maxSegmentPoints = 1 << 16

// Point is a grid position. Rasterized points are rounded when drawn.
type Point struct {
	X, Y float64
}

func pointOf(v math3d.Vec4) Point {
	return Point{v.X, v.Y}
}

// Corners returns the three vertices of t as grid points.
func Corners(t ScreenTriangle) []Point {
	return []Point{pointOf(t.P[0]), pointOf(t.P[1]), pointOf(t.P[2])}
}

// Segment returns the interior points of the segment between a and b,
// b + t*(a-b) for t = k/N, k = 1..N-1, where N is the larger of the two axis
// spans rounded up. The endpoints themselves are not included, and a segment
// spanning at most one cell yields nothing.
func Segment(a, b Point) []Point {
	dx, dy := a.X-b.X, a.Y-b.Y
	span := math.Max(math.Ceil(math.Abs(dx)), math.Ceil(math.Abs(dy)))
	if !(span > 1) {
		return nil
	}
	n := maxSegmentPoints
	if span < maxSegmentPoints {
		n = int(span)
	}

	points := make([]Point, 0, n-1)
	for k := 1; k < n; k++ {
		t := float64(k) / float64(n)
		points = append(points, Point{b.X + t*dx, b.Y + t*dy})
	}
	return points
}

// Edges returns the interior points of the triangle's three edges, in the
// order p1-p2, p1-p3, p2-p3.
func Edges(t ScreenTriangle) []Point {
	p1, p2, p3 := pointOf(t.P[0]), pointOf(t.P[1]), pointOf(t.P[2])

	points := Segment(p1, p2)
	points = append(points, Segment(p1, p3)...)
	points = append(points, Segment(p2, p3)...)
	return points
}

// membership evaluates the closed point-in-triangle test
//
//	t1 = (i*(y3-y1) + j*(x1-x3) - x1*y3 + y1*x3) / denom
//	t2 = (i*(y2-y1) + j*(x1-x2) - x1*y2 + y1*x2) / -denom
//
// with denom = x1*(y2-y3) + y1*(x3-x2) + x2*y3 - y2*x3. A point is inside
// when 0 <= t1, t2 <= 1 and t1 + t2 <= 1; boundary points are inside.
type membership struct {
	x1, y1, x2, y2, x3, y3 float64
	denom                  float64
}

func newMembership(t ScreenTriangle) (membership, error) {
	m := membership{
		x1: t.P[0].X, y1: t.P[0].Y,
		x2: t.P[1].X, y2: t.P[1].Y,
		x3: t.P[2].X, y3: t.P[2].Y,
	}
	for _, c := range [...]float64{m.x1, m.y1, m.x2, m.y2, m.x3, m.y3} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return membership{}, &math3d.DomainError{Op: "fill", Msg: "non-finite vertex"}
		}
	}
	m.denom = m.x1*(m.y2-m.y3) + m.y1*(m.x3-m.x2) + m.x2*m.y3 - m.y2*m.x3
	if m.denom == 0 {
		return membership{}, &math3d.DomainError{Op: "fill", Msg: "zero-area triangle"}
	}
	return m, nil
}

func (m membership) contains(i, j float64) bool {
	t1 := (i*(m.y3-m.y1) + j*(m.x1-m.x3) - m.x1*m.y3 + m.y1*m.x3) / m.denom
	t2 := (i*(m.y2-m.y1) + j*(m.x1-m.x2) - m.x1*m.y2 + m.y1*m.x2) / -m.denom
	return t1 <= 1 && t1 >= 0 && t2 <= 1 && t2 >= 0 && t1+t2 <= 1
}

// Contains reports whether (x, y) lies in the closed triangle.
// A zero-area triangle is a *math3d.DomainError.
func Contains(t ScreenTriangle, x, y float64) (bool, error) {
	m, err := newMembership(t)
	if err != nil {
		return false, err
	}
	return m.contains(x, y), nil
}

// Fill returns every integer cell (i, j) with 0 <= i < width and
// 0 <= j < height that lies inside the triangle, row by row. Only cells in
// the triangle's bounding box are tested. A zero-area triangle is a
// *math3d.DomainError.
func Fill(t ScreenTriangle, width, height int) ([]Point, error) {
	m, err := newMembership(t)
	if err != nil {
		return nil, err
	}

	minX := clampCell(math.Ceil(min(m.x1, m.x2, m.x3)), 0, width)
	maxX := clampCell(math.Floor(max(m.x1, m.x2, m.x3)), -1, width-1)
	minY := clampCell(math.Ceil(min(m.y1, m.y2, m.y3)), 0, height)
	maxY := clampCell(math.Floor(max(m.y1, m.y2, m.y3)), -1, height-1)
	if minX > maxX || minY > maxY {
		return nil, nil
	}

	var points []Point
	for j := minY; j <= maxY; j++ {
		for i := minX; i <= maxX; i++ {
			if m.contains(float64(i), float64(j)) {
				points = append(points, Point{float64(i), float64(j)})
			}
		}
	}
	return points, nil
}

// clampCell clamps v to [lo, hi] before converting, so vertices far off the
// grid cannot overflow int.
func clampCell(v float64, lo, hi int) int {
	return int(math.Max(float64(lo), math.Min(float64(hi), v)))
}
