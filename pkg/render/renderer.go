package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/tymcgee/console-3d/pkg/math3d"
	"github.com/tymcgee/console-3d/pkg/models"
)

// Config holds the parameters a Renderer is built from.
type Config struct {
	Width, Height int
	Camera        Camera
	Lighting      Lighting
	ScaleX        float64 // Extra horizontal stretch, see Projector

	// Workers > 1 spreads the per-triangle pipeline over a worker pool.
	Workers int

	// Logger receives debug records for skipped triangles. Nil discards.
	Logger *slog.Logger
}

// DefaultConfig returns the standard configuration for a width x height grid.
func DefaultConfig(width, height int) Config {
	return Config{
		Width:    width,
		Height:   height,
		Camera:   NewCamera(width, height),
		Lighting: DefaultLighting(),
		ScaleX:   DefaultScaleX,
		Workers:  1,
	}
}

// Batch is one triangle's output: every point is drawn with Glyph.
type Batch struct {
	Glyph  rune
	Points []Point
}

// Stats counts what happened to the triangles of a frame.
type Stats struct {
	Triangles int // Triangles in the mesh
	Culled    int // Back-facing or degenerate
	Skipped   int // Dropped on a domain error
	Drawn     int // Produced a batch
	Points    int // Points across all batches
}

// Frame is the output of one render pass, batches in mesh order.
type Frame struct {
	Batches []Batch
	Stats   Stats
}

// Sink is a grid addressable surface.
type Sink interface {
	Plot(x, y int, glyph rune)
}

// Draw rounds every point half to even and plots it on s.
func (f Frame) Draw(s Sink) {
	for _, b := range f.Batches {
		for _, p := range b.Points {
			s.Plot(int(math.RoundToEven(p.X)), int(math.RoundToEven(p.Y)), b.Glyph)
		}
	}
}

// Renderer runs the transform, cull, light, project and rasterize pipeline.
// It holds no per-frame state; Render may be called with any RenderState.
type Renderer struct {
	cfg       Config
	projector Projector
	log       *slog.Logger
	pool      worker.DynamicWorkerPool
	parallel  bool
}

// NewRenderer validates cfg and builds the projection. An invalid camera
// (for example near == far) is a *math3d.DomainError.
//
// With Workers > 1 the renderer owns a worker pool; call Close to release it.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.ScaleX == 0 {
		cfg.ScaleX = DefaultScaleX
	}
	if cfg.Lighting.Flat == 0 {
		cfg.Lighting.Flat = FlatGlyph
	}

	r := &Renderer{log: cfg.Logger}
	if err := r.configure(cfg); err != nil {
		return nil, err
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
	if cfg.Workers > 1 {
		r.pool = worker.NewDynamicWorkerPool(cfg.Workers, 256, 1*time.Second)
		r.parallel = true
	}
	return r, nil
}

func (r *Renderer) configure(cfg Config) error {
	if cfg.Width < 1 || cfg.Height < 1 {
		return fmt.Errorf("grid size %dx%d: must be at least 1x1", cfg.Width, cfg.Height)
	}
	proj, err := cfg.Camera.ProjectionMatrix()
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	r.cfg = cfg
	r.projector = NewProjector(proj, cfg.Width, cfg.Height)
	r.projector.ScaleX = cfg.ScaleX
	return nil
}

// Resize retargets the renderer to a width x height grid. The camera aspect
// follows the new size and the worker pool is kept. On error the renderer is
// unchanged.
func (r *Renderer) Resize(width, height int) error {
	cfg := r.cfg
	cfg.Width, cfg.Height = width, height
	cfg.Camera.Aspect = NewCamera(width, height).Aspect
	return r.configure(cfg)
}

// Close stops the worker pool. Later frames render sequentially.
func (r *Renderer) Close() {
	if !r.parallel {
		return
	}
	r.parallel = false
	r.pool.Stop()
}

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() Config {
	return r.cfg
}

// result is the outcome of pushing one triangle through the pipeline.
type result struct {
	batch   Batch
	visible bool
	err     error
}

// Triangle runs one triangle through the pipeline. It returns false with a
// nil error for culled triangles, and a non-nil error for triangles dropped
// on a domain error.
func (r *Renderer) Triangle(tri models.Triangle, model math3d.Mat4, state RenderState) (Batch, bool, error) {
	res := r.triangle(tri, model, state)
	return res.batch, res.visible, res.err
}

func (r *Renderer) triangle(tri models.Triangle, model math3d.Mat4, state RenderState) result {
	light := r.cfg.Lighting
	shaded, ok := Process(tri, model, r.cfg.Camera.Position, light.Dir, len(light.Ramp))
	if !ok {
		return result{}
	}

	st, err := r.projector.Project(shaded.Triangle, light.Glyph(shaded, state.Lighting))
	if err != nil {
		return result{err: err}
	}

	points := Corners(st)
	points = append(points, Edges(st)...)
	if state.Fill {
		fill, err := Fill(st, r.cfg.Width, r.cfg.Height)
		if err != nil {
			return result{err: err}
		}
		points = append(points, fill...)
	}
	return result{batch: Batch{Glyph: st.Glyph, Points: points}, visible: true}
}

// Render produces one frame of mesh for state. Triangles that hit a domain
// error are logged and skipped; the frame always completes.
func (r *Renderer) Render(mesh *models.Mesh, state RenderState) Frame {
	model := ModelMatrix(state)
	results := make([]result, len(mesh.Triangles))

	if !r.parallel || len(mesh.Triangles) < 2*r.cfg.Workers {
		for i, tri := range mesh.Triangles {
			results[i] = r.triangle(tri, model, state)
		}
	} else {
		r.renderParallel(mesh.Triangles, model, state, results)
	}

	frame := Frame{Stats: Stats{Triangles: len(mesh.Triangles)}}
	for i, res := range results {
		switch {
		case res.err != nil:
			frame.Stats.Skipped++
			var de *math3d.DomainError
			if errors.As(res.err, &de) {
				r.log.Debug("skipped triangle", "index", i, "op", de.Op, "err", res.err)
			} else {
				r.log.Warn("skipped triangle", "index", i, "err", res.err)
			}
		case !res.visible:
			frame.Stats.Culled++
		default:
			frame.Stats.Drawn++
			frame.Stats.Points += len(res.batch.Points)
			frame.Batches = append(frame.Batches, res.batch)
		}
	}
	return frame
}

// renderParallel splits the triangles into chunks and runs them on the pool.
// Each chunk writes its own slice of results, so mesh order is kept.
func (r *Renderer) renderParallel(tris []models.Triangle, model math3d.Mat4, state RenderState, results []result) {
	chunk := (len(tris) + r.cfg.Workers*4 - 1) / (r.cfg.Workers * 4)

	// The pool's own Wait blocks until workers idle out, so a WaitGroup is
	// the per-frame barrier.
	var wg sync.WaitGroup
	id := 0
	for start := 0; start < len(tris); start += chunk {
		end := min(start+chunk, len(tris))
		wg.Add(1)
		r.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i := start; i < end; i++ {
					results[i] = r.triangle(tris[i], model, state)
				}
				return nil, nil
			},
		})
		id++
	}
	wg.Wait()
}
