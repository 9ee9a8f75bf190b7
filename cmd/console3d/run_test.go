package main

import (
	"log/slog"
	"slices"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/tymcgee/console-3d/pkg/models"
)

func newTestLoop(t *testing.T) *frameLoop {
	t.Helper()
	o := defaultOptions()
	o.workers = 4
	l := &frameLoop{
		opts: o,
		mesh: &models.Mesh{},
		log:  slog.New(slog.DiscardHandler),
	}
	if err := l.resize(80, 40); err != nil {
		t.Fatalf("resize: %v", err)
	}
	t.Cleanup(l.renderer.Close)
	l.viewer = NewViewer(o.fps, o.speed, o.zoom, 0.5, 100)
	return l
}

func TestFrameLoopHandleKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   uv.KeyPressEvent
		quit  bool
		check func(*Viewer) bool
	}{
		{"fill", uv.KeyPressEvent{Code: 'f', Text: "f"}, false, func(v *Viewer) bool { return v.Fill }},
		{"lighting", uv.KeyPressEvent{Code: 'l', Text: "l"}, false, func(v *Viewer) bool { return !v.Light }},
		{"unbound", uv.KeyPressEvent{Code: 'x', Text: "x"}, false, func(*Viewer) bool { return true }},
		{"esc", uv.KeyPressEvent{Code: uv.KeyEscape}, true, func(*Viewer) bool { return true }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLoop(t)
			quit, err := l.handle(nil, tc.key)
			if err != nil {
				t.Fatalf("handle: %v", err)
			}
			if quit != tc.quit {
				t.Errorf("quit = %v, want %v", quit, tc.quit)
			}
			if !tc.check(l.viewer) {
				t.Errorf("viewer not updated: %+v", l.viewer)
			}
		})
	}
}

func TestFrameLoopHUDShowsHandledKey(t *testing.T) {
	l := newTestLoop(t)
	if _, err := l.handle(nil, uv.KeyPressEvent{Code: 'f', Text: "f"}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !slices.Contains(l.viewer.HUD(), "filling? true") {
		t.Errorf("HUD = %q, want the toggled fill state", l.viewer.HUD())
	}
	if !l.viewer.RenderState().Fill {
		t.Error("render state does not carry the toggled fill")
	}
}

func TestFrameLoopResizeReusesRenderer(t *testing.T) {
	l := newTestLoop(t)
	r := l.renderer
	if err := l.resize(120, 30); err != nil {
		t.Fatalf("resize: %v", err)
	}
	if l.renderer != r {
		t.Error("resize built a new renderer")
	}
	if cfg := l.renderer.Config(); cfg.Width != 120 || cfg.Height != 30 {
		t.Errorf("renderer size = %dx%d, want 120x30", cfg.Width, cfg.Height)
	}
	if l.grid.Width != 120 || l.grid.Height != 30 {
		t.Errorf("grid size = %dx%d, want 120x30", l.grid.Width, l.grid.Height)
	}

	if err := l.resize(0, 30); err == nil {
		t.Error("zero width should fail")
	}
}
