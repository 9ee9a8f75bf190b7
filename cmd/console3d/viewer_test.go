package main

import (
	"math"
	"slices"
	"testing"
)

// fakeKey matches a single key name.
type fakeKey string

func (k fakeKey) MatchString(s ...string) bool {
	return slices.Contains(s, string(k))
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		key  string
		want Action
	}{
		{"left", ActionSlower},
		{"right", ActionFaster},
		{"up", ActionZoomIn},
		{"down", ActionZoomOut},
		{"f", ActionToggleFill},
		{"l", ActionToggleLighting},
		{"s", ActionToggleCap},
		{"esc", ActionQuit},
		{"ctrl+c", ActionQuit},
		{"x", ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			if got := actionFor(fakeKey(tc.key)); got != tc.want {
				t.Errorf("actionFor(%q) = %v, want %v", tc.key, got, tc.want)
			}
		})
	}
}

func TestViewerApply(t *testing.T) {
	v := NewViewer(50, 0.02, 2.5, 0.5, 100)

	v.Apply(ActionFaster)
	if math.Abs(v.Speed-0.025) > 1e-12 {
		t.Errorf("speed = %v, want 0.025", v.Speed)
	}
	v.Apply(ActionSlower)
	v.Apply(ActionSlower)
	if math.Abs(v.Speed-0.015) > 1e-12 {
		t.Errorf("speed = %v, want 0.015", v.Speed)
	}

	v.Apply(ActionZoomIn)
	if v.ZoomTarget != 2.25 {
		t.Errorf("zoom target = %v, want 2.25", v.ZoomTarget)
	}
	v.Apply(ActionZoomOut)
	v.Apply(ActionZoomOut)
	if v.ZoomTarget != 2.75 {
		t.Errorf("zoom target = %v, want 2.75", v.ZoomTarget)
	}

	if !v.Light || v.Fill || !v.Capped {
		t.Fatalf("unexpected defaults: %+v", v)
	}
	v.Apply(ActionToggleFill)
	v.Apply(ActionToggleLighting)
	v.Apply(ActionToggleCap)
	if v.Light || !v.Fill || v.Capped {
		t.Errorf("toggles not applied: fill %v light %v capped %v", v.Fill, v.Light, v.Capped)
	}

	if v.Apply(ActionNone) {
		t.Error("ActionNone should not quit")
	}
	if !v.Apply(ActionQuit) {
		t.Error("ActionQuit should quit")
	}
}

func TestViewerZoomClamp(t *testing.T) {
	v := NewViewer(50, 0.02, 0.6, 0.5, 1.0)
	for range 10 {
		v.Apply(ActionZoomIn)
	}
	if v.ZoomTarget != 0.5 {
		t.Errorf("zoom target = %v, want clamp at 0.5", v.ZoomTarget)
	}
	for range 10 {
		v.Apply(ActionZoomOut)
	}
	if v.ZoomTarget != 1.0 {
		t.Errorf("zoom target = %v, want clamp at 1.0", v.ZoomTarget)
	}

	v = NewViewer(50, 0.02, 0.01, 0.5, 100)
	if v.Zoom != 0.5 || v.ZoomTarget != 0.5 {
		t.Errorf("initial zoom = %v/%v, want 0.5", v.Zoom, v.ZoomTarget)
	}
}

func TestViewerZoomSpring(t *testing.T) {
	v := NewViewer(50, 0, 2.5, 0.5, 100)
	v.Apply(ActionZoomOut)
	v.Apply(ActionZoomOut)

	v.Step()
	if v.Zoom <= 2.5 || v.Zoom >= 3.0 {
		t.Errorf("zoom after one step = %v, want between 2.5 and 3.0", v.Zoom)
	}
	for range 200 {
		v.Step()
	}
	if math.Abs(v.Zoom-3.0) > 1e-3 {
		t.Errorf("zoom settled at %v, want 3.0", v.Zoom)
	}
}

func TestViewerAngleWrap(t *testing.T) {
	v := NewViewer(50, 1, 2.5, 0.5, 100)
	for range 20 {
		v.Step()
		if v.Angle < 0 || v.Angle >= angleWrap {
			t.Fatalf("angle %v escaped [0, 4π)", v.Angle)
		}
	}
	if math.Abs(v.Angle-(20-angleWrap)) > 1e-9 {
		t.Errorf("angle = %v, want %v", v.Angle, 20-angleWrap)
	}

	v = NewViewer(50, -0.5, 2.5, 0.5, 100)
	v.Step()
	if math.Abs(v.Angle-(angleWrap-0.5)) > 1e-9 {
		t.Errorf("negative speed angle = %v, want %v", v.Angle, angleWrap-0.5)
	}
}

func TestViewerRenderState(t *testing.T) {
	v := NewViewer(50, 0.02, 3, 0.5, 100)
	v.Fill = true
	s := v.RenderState()
	if s.Zoom != 3 || !s.Fill || !s.Lighting || s.Angle != 0 {
		t.Errorf("RenderState = %+v", s)
	}
}

func TestViewerHUD(t *testing.T) {
	v := NewViewer(50, 0.02, 2.5, 0.5, 100)
	lines := v.HUD()
	if len(lines) != 13 {
		t.Fatalf("HUD has %d lines, want 13", len(lines))
	}
	if lines[0] != "increase rotation speed with R/L arrow keys" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[9] != "zoom: 0.400 (2.50)" {
		t.Errorf("zoom line = %q", lines[9])
	}
	if lines[12] != "capped framerate? true" {
		t.Errorf("cap line = %q", lines[12])
	}
}
