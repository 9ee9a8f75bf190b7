package math3d

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const eps = 1e-9

func TestRotationInverse(t *testing.T) {
	angles := []float64{0, 0.02, 0.5, 1, math.Pi / 2, math.Pi, 3.7, -2.2, 4 * math.Pi, 100}

	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		for _, a := range angles {
			m := Rotation(axis, a).Mul(Rotation(axis, -a))
			if !m.ApproxEqual(Identity(), eps) {
				t.Errorf("rotation(%v, %v) * rotation(%v, %v) = %v, want identity", axis, a, axis, -a, m)
			}
		}
	}
}

func TestRotationMatchesMathGL(t *testing.T) {
	tests := []struct {
		axis Axis
		ref  func(float64) mgl64.Mat4
	}{
		{AxisX, mgl64.HomogRotate3DX},
		{AxisY, mgl64.HomogRotate3DY},
		{AxisZ, mgl64.HomogRotate3DZ},
	}

	for _, tc := range tests {
		t.Run(tc.axis.String(), func(t *testing.T) {
			for _, a := range []float64{0.1, 1.3, -0.7, 2.5} {
				got := Rotation(tc.axis, a)
				want := Mat4(tc.ref(a))
				if !got.ApproxEqual(want, eps) {
					t.Errorf("angle %v: got %v, want %v", a, got, want)
				}
			}
		})
	}
}

func TestRotationOrientation(t *testing.T) {
	// A quarter turn about Z takes +X to +Y.
	v := RotateZ(math.Pi / 2).MulVec4(Point(1, 0, 0))
	if math.Abs(v.X) > eps || math.Abs(v.Y-1) > eps || v.W != 1 {
		t.Errorf("RotateZ(pi/2) * (1,0,0,1) = %v, want (0,1,0,1)", v)
	}

	// A quarter turn about Y takes +Z to +X.
	v = RotateY(math.Pi / 2).MulVec4(Point(0, 0, 1))
	if math.Abs(v.X-1) > eps || math.Abs(v.Z) > eps {
		t.Errorf("RotateY(pi/2) * (0,0,1,1) = %v, want (1,0,0,1)", v)
	}
}

func TestRotationUnknownAxis(t *testing.T) {
	if Rotation(Axis(7), 1.2) != Identity() {
		t.Error("unknown axis should produce the identity")
	}
}

func TestTranslateInverse(t *testing.T) {
	points := []Vec4{
		Point(0, 0, 0),
		Point(1, 2, 3),
		Point(-4.5, 0.25, 100),
	}
	m := Translate(3, -2, 2.5).Mul(Translate(-3, 2, -2.5))

	for _, p := range points {
		got := m.MulVec4(p)
		if got.Sub(p).Len() > eps {
			t.Errorf("translate round trip of %v = %v", p, got)
		}
	}
}

func TestTranslateMatchesMathGL(t *testing.T) {
	got := Translate(1, -2, 3)
	want := Mat4(mgl64.Translate3D(1, -2, 3))
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	p := got.MulVec4(Point(1, 1, 1))
	if p != V4(2, -1, 4, 1) {
		t.Errorf("Translate(1,-2,3) * (1,1,1,1) = %v", p)
	}
}

func TestTranslateRequiresUnitW(t *testing.T) {
	// With W = 0 the offsets are not applied.
	v := Translate(5, 5, 5).MulVec4(V4(1, 2, 3, 0))
	if v != V4(1, 2, 3, 0) {
		t.Errorf("direction was translated: %v", v)
	}
}

func TestProjectionDepthRange(t *testing.T) {
	const near, far = 0.1, 100.0
	proj, err := Projection(math.Pi/2, 0.5, near, far)
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}

	tests := []struct {
		name  string
		z     float64
		wantZ float64
	}{
		{"near plane", near, 0},
		{"far plane", far, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clip := proj.MulVec4(Point(0, 0, tc.z))
			if clip.W != tc.z {
				t.Errorf("clip W = %v, want pre-transform z %v", clip.W, tc.z)
			}
			ndc, err := clip.PerspectiveDivide()
			if err != nil {
				t.Fatalf("PerspectiveDivide: %v", err)
			}
			if math.Abs(ndc.Z-tc.wantZ) > 1e-9 {
				t.Errorf("normalized z = %v, want %v", ndc.Z, tc.wantZ)
			}
			if ndc.W != 1 {
				t.Errorf("normalized w = %v, want 1", ndc.W)
			}
		})
	}
}

func TestProjectionLayout(t *testing.T) {
	const aspect, near, far = 0.25, 0.1, 100.0
	proj, err := Projection(math.Pi/2, aspect, near, far)
	if err != nil {
		t.Fatalf("Projection: %v", err)
	}

	f := 1 / math.Tan(math.Pi/4)
	q := far / (far - near)
	checks := []struct {
		row, col int
		want     float64
	}{
		{0, 0, aspect * f},
		{1, 1, f},
		{2, 2, q},
		{2, 3, -near * q},
		{3, 2, 1},
		{3, 3, 0},
		{0, 3, 0},
	}
	for _, c := range checks {
		if got := proj.Get(c.row, c.col); math.Abs(got-c.want) > eps {
			t.Errorf("proj[%d][%d] = %v, want %v", c.row, c.col, got, c.want)
		}
	}
}

func TestProjectionDomainErrors(t *testing.T) {
	tests := []struct {
		name           string
		fov, near, far float64
	}{
		{"near equals far", math.Pi / 2, 1, 1},
		{"zero fov", 0, 0.1, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Projection(tc.fov, 1, tc.near, tc.far)
			var de *DomainError
			if !errors.As(err, &de) {
				t.Fatalf("expected DomainError, got %v", err)
			}
			if de.Op != "projection" {
				t.Errorf("Op = %q, want projection", de.Op)
			}
		})
	}
}

func TestMulOrder(t *testing.T) {
	// T * R applies the rotation first.
	m := Translate(0, 0, 5).Mul(RotateY(math.Pi))
	v := m.MulVec4(Point(0, 0, 1))
	if math.Abs(v.Z-4) > eps {
		t.Errorf("T*R*(0,0,1) z = %v, want 4", v.Z)
	}
}

func TestPerspectiveDivideZeroW(t *testing.T) {
	_, err := V4(1, 2, 3, 0).PerspectiveDivide()
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %v", err)
	}

	v, err := V4(2, 4, 6, 2).PerspectiveDivide()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != V4(1, 2, 3, 1) {
		t.Errorf("got %v, want (1,2,3,1)", v)
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr.Get(3, 0) != 1 || tr.Get(3, 1) != 2 || tr.Get(3, 2) != 3 {
		t.Errorf("transpose did not move translation to bottom row: %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be the original")
	}
}

func TestVec3CrossNormalize(t *testing.T) {
	n := V3(1, 0, 0).Cross(V3(0, 1, 0))
	if n != V3(0, 0, 1) {
		t.Errorf("x cross y = %v, want z", n)
	}
	if l := V3(3, 4, 0).Normalize().Len(); math.Abs(l-1) > eps {
		t.Errorf("normalized length = %v", l)
	}
	if V3(0, 0, 0).Normalize() != (Vec3{}) {
		t.Error("zero vector should normalize to zero")
	}
}
