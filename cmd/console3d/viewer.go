package main

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tymcgee/console-3d/pkg/render"
)

// Keyboard step sizes
const (
	speedStep = 0.005
	zoomStep  = 0.25
)

// angleWrap keeps the rotation angle from growing without bound.
const angleWrap = 4 * math.Pi

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionSlower
	ActionFaster
	ActionZoomIn
	ActionZoomOut
	ActionToggleFill
	ActionToggleLighting
	ActionToggleCap
	ActionQuit
)

// keyMatcher is satisfied by uv.KeyPressEvent.
type keyMatcher interface {
	MatchString(s ...string) bool
}

// actionFor maps a key press to its action.
func actionFor(k keyMatcher) Action {
	switch {
	case k.MatchString("left"):
		return ActionSlower
	case k.MatchString("right"):
		return ActionFaster
	case k.MatchString("up"):
		return ActionZoomIn
	case k.MatchString("down"):
		return ActionZoomOut
	case k.MatchString("f"):
		return ActionToggleFill
	case k.MatchString("l"):
		return ActionToggleLighting
	case k.MatchString("s"):
		return ActionToggleCap
	case k.MatchString("esc", "escape", "ctrl+c"):
		return ActionQuit
	}
	return ActionNone
}

// Viewer holds the interactive state of the frame loop: rotation, zoom and
// the render toggles.
type Viewer struct {
	Angle  float64 // Current rotation angle, in [0, 4π)
	Speed  float64 // Angle increment per frame
	Fill   bool
	Light  bool
	Capped bool // Sleep to hold the target frame rate

	// Zoom is the distance the model is drawn at. It follows ZoomTarget
	// through a critically damped spring so key presses glide.
	Zoom       float64
	ZoomTarget float64
	zoomVel    float64
	spring     harmonica.Spring

	minZoom, maxZoom float64
}

// NewViewer creates a viewer. Zoom is clamped to [minZoom, maxZoom].
func NewViewer(fps int, speed, zoom, minZoom, maxZoom float64) *Viewer {
	v := &Viewer{
		Speed:   speed,
		Light:   true,
		Capped:  true,
		minZoom: minZoom,
		maxZoom: max(minZoom, maxZoom),
		// Frequency 6.0 settles in a few frames, damping 1.0 = no overshoot
		spring: harmonica.NewSpring(harmonica.FPS(max(fps, 1)), 6.0, 1.0),
	}
	v.ZoomTarget = v.clampZoom(zoom)
	v.Zoom = v.ZoomTarget
	return v
}

func (v *Viewer) clampZoom(z float64) float64 {
	return math.Min(math.Max(z, v.minZoom), v.maxZoom)
}

// Apply runs an action. It returns true when the viewer should quit.
func (v *Viewer) Apply(a Action) bool {
	switch a {
	case ActionSlower:
		v.Speed -= speedStep
	case ActionFaster:
		v.Speed += speedStep
	case ActionZoomIn:
		v.ZoomTarget = v.clampZoom(v.ZoomTarget - zoomStep)
	case ActionZoomOut:
		v.ZoomTarget = v.clampZoom(v.ZoomTarget + zoomStep)
	case ActionToggleFill:
		v.Fill = !v.Fill
	case ActionToggleLighting:
		v.Light = !v.Light
	case ActionToggleCap:
		v.Capped = !v.Capped
	case ActionQuit:
		return true
	}
	return false
}

// Step advances one frame: the angle moves by Speed and the zoom spring
// moves toward its target.
func (v *Viewer) Step() {
	v.Angle = math.Mod(v.Angle+v.Speed, angleWrap)
	if v.Angle < 0 {
		v.Angle += angleWrap
	}

	v.Zoom, v.zoomVel = v.spring.Update(v.Zoom, v.zoomVel, v.ZoomTarget)
	v.Zoom = v.clampZoom(v.Zoom)
}

// RenderState returns the renderer input for the current frame.
func (v *Viewer) RenderState() render.RenderState {
	return render.RenderState{
		Angle:    v.Angle,
		Zoom:     v.Zoom,
		Fill:     v.Fill,
		Lighting: v.Light,
	}
}

// HUD returns the overlay lines drawn from the top-left corner. An empty
// string leaves its row untouched.
func (v *Viewer) HUD() []string {
	return []string{
		"increase rotation speed with R/L arrow keys",
		"change zoom level with U/D arrow keys",
		"toggle filling with F key",
		"toggle lighting with L key",
		"toggle framerate capping with S key",
		"exit with CTRL+C or ESC",
		"",
		"",
		fmt.Sprintf("rotation increment: %.3f", v.Speed),
		fmt.Sprintf("zoom: %.3f (%.2f)", 1/v.ZoomTarget, v.ZoomTarget),
		fmt.Sprintf("filling? %t", v.Fill),
		fmt.Sprintf("lighting? %t", v.Light),
		fmt.Sprintf("capped framerate? %t", v.Capped),
	}
}
