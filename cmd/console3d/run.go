package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/tymcgee/console-3d/pkg/models"
	"github.com/tymcgee/console-3d/pkg/render"
	"golang.org/x/sync/errgroup"
)

// newLogger returns a debug logger writing to path, or a discarding logger
// when path is empty. The returned closer is never nil.
func newLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), f, nil
}

func loadMesh(path string, opts options) (*models.Mesh, error) {
	mesh, err := models.Load(path, models.LoadOptions{Lenient: opts.lenient})
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if opts.fit {
		mesh = mesh.Fit()
	}
	return mesh, nil
}

// frameLoop owns everything the render goroutine touches.
type frameLoop struct {
	opts     options
	mesh     *models.Mesh
	log      *slog.Logger
	viewer   *Viewer
	renderer *render.Renderer
	grid     *render.Grid
	out      *render.TerminalRenderer
}

// resize retargets the renderer and grid to a new terminal size. The
// renderer, and with it its worker pool, is built once and reused.
func (l *frameLoop) resize(width, height int) error {
	if l.renderer == nil {
		cfg := l.opts.config(width, height)
		cfg.Logger = l.log
		r, err := render.NewRenderer(cfg)
		if err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		l.renderer = r
	} else if err := l.renderer.Resize(width, height); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	l.grid = render.NewGrid(width, height)
	return nil
}

// handle applies one input event. It returns true when the loop should stop.
func (l *frameLoop) handle(term *uv.Terminal, ev uv.Event) (bool, error) {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		term.Erase()
		term.Resize(ev.Width, ev.Height)
		if err := l.resize(ev.Width, ev.Height); err != nil {
			return true, err
		}
		l.log.Debug("resized", "width", ev.Width, "height", ev.Height)
	case uv.KeyPressEvent:
		return l.viewer.Apply(actionFor(ev)), nil
	}
	return false, nil
}

// frame renders and presents one frame.
func (l *frameLoop) frame() error {
	l.grid.Clear()
	frame := l.renderer.Render(l.mesh, l.viewer.RenderState())
	frame.Draw(l.grid)
	for row, line := range l.viewer.HUD() {
		l.grid.WriteText(0, row, line)
	}

	l.out.Render(l.grid)
	if err := l.out.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	l.log.Debug("frame",
		"angle", l.viewer.Angle,
		"zoom", l.viewer.Zoom,
		"drawn", frame.Stats.Drawn,
		"culled", frame.Stats.Culled,
		"skipped", frame.Stats.Skipped,
		"points", frame.Stats.Points,
	)
	return nil
}

func run(ctx context.Context, path string, opts options) error {
	log, closer, err := newLogger(opts.logFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	mesh, err := loadMesh(path, opts)
	if err != nil {
		return err
	}
	log.Info("loaded mesh", "file", filepath.Base(path), "triangles", mesh.TriangleCount())

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	loop := &frameLoop{
		opts: opts,
		mesh: mesh,
		log:  log,
		out:  render.NewTerminalRenderer(term),
	}
	if err := loop.resize(width, height); err != nil {
		return err
	}
	defer loop.renderer.Close()
	cam := loop.renderer.Config().Camera
	loop.viewer = NewViewer(opts.fps, opts.speed, opts.zoom, cam.MinZoom(), cam.Far)
	loop.viewer.Fill = opts.fill
	loop.viewer.Light = !opts.noLighting
	loop.viewer.Capped = !opts.noCap

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// At most one event is taken per frame; the rest wait in the buffer.
	events := make(chan uv.Event, 64)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-term.Events():
				if !ok {
					cancel()
					return nil
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		frameDuration := time.Second / time.Duration(opts.fps)
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			start := time.Now()

			// Input first, so the frame and HUD already show its effect.
			select {
			case ev := <-events:
				quit, err := loop.handle(term, ev)
				if err != nil {
					return err
				}
				if quit {
					return nil
				}
			default:
			}

			if err := loop.frame(); err != nil {
				return err
			}

			if loop.viewer.Capped {
				if elapsed := time.Since(start); elapsed < frameDuration {
					time.Sleep(frameDuration - elapsed)
				}
			}
			loop.viewer.Step()
		}
	})

	return g.Wait()
}
