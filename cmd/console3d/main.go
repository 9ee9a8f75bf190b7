// console3d - rotating ASCII meshes in the terminal.
// Loads an OBJ or GLB mesh and spins it about the Y and Z axes, drawing each
// visible triangle with a glyph picked by how squarely it faces the light.
//
// Controls:
//
//	Left/Right  - Decrease/increase rotation speed
//	Up/Down     - Zoom in/out
//	F           - Toggle triangle filling
//	L           - Toggle lighting (flat '#' when off)
//	S           - Toggle frame rate capping
//	Esc, Ctrl+C - Quit
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/tymcgee/console-3d/pkg/models"
	"github.com/tymcgee/console-3d/pkg/render"
)

var version = "dev"

// options are the command line settings of one run.
type options struct {
	fps        int
	speed      float64
	zoom       float64
	fill       bool
	noLighting bool
	noCap      bool
	ramp       string
	scaleX     float64
	fov        float64
	near       float64
	far        float64
	workers    int
	fit        bool
	lenient    bool
	logFile    string
	dir        string
}

func defaultOptions() options {
	return options{
		fps:     50,
		speed:   0.02,
		zoom:    2.5,
		ramp:    render.DefaultRamp,
		scaleX:  render.DefaultScaleX,
		fov:     math.Pi / 2,
		near:    0.1,
		far:     100,
		workers: runtime.NumCPU(),
		dir:     "objects",
	}
}

func (o options) validate() error {
	switch {
	case o.fps < 1:
		return fmt.Errorf("--fps must be positive, got %d", o.fps)
	case o.ramp == "":
		return errors.New("--ramp must not be empty")
	case o.scaleX <= 0:
		return fmt.Errorf("--scale-x must be positive, got %g", o.scaleX)
	case o.near <= 0 || o.far <= o.near:
		return fmt.Errorf("clip planes must satisfy 0 < near < far, got %g and %g", o.near, o.far)
	case o.fov <= 0 || o.fov >= math.Pi:
		return fmt.Errorf("--fov must be in (0, π), got %g", o.fov)
	}
	return nil
}

// config builds the renderer configuration for a width x height grid.
func (o options) config(width, height int) render.Config {
	cfg := render.DefaultConfig(width, height)
	cfg.Camera.FOV = o.fov
	cfg.Camera.Near = o.near
	cfg.Camera.Far = o.far
	cfg.Lighting.Ramp = []rune(o.ramp)
	cfg.ScaleX = o.scaleX
	cfg.Workers = max(o.workers, 1)
	return cfg
}

// resolveMesh finds the mesh named by arg. An existing path is used as is;
// otherwise arg is tried as a bare name under dir with each known extension.
func resolveMesh(dir, arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	if filepath.Ext(arg) == "" {
		for _, ext := range models.Extensions {
			p := filepath.Join(dir, arg+ext)
			if _, err := os.Stat(p); err == nil {
				return p, nil
			}
		}
	}
	p := filepath.Join(dir, arg)
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("mesh %q not found", arg)
}

func newRootCmd() *cobra.Command {
	opts := defaultOptions()

	cmd := &cobra.Command{
		Use:   "console3d [flags] <mesh>",
		Short: "Spin a 3D mesh in the terminal as ASCII art",
		Long: "console3d loads an OBJ or GLB mesh and rotates it in the terminal.\n" +
			"Without a mesh argument it lists the meshes found in --dir.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			if len(args) == 0 {
				return listMeshes(cmd, opts.dir)
			}
			path, err := resolveMesh(opts.dir, args[0])
			if err != nil {
				return err
			}
			return run(cmd.Context(), path, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.fps, "fps", opts.fps, "target frame rate while capped")
	f.Float64Var(&opts.speed, "speed", opts.speed, "rotation increment per frame, in radians")
	f.Float64Var(&opts.zoom, "zoom", opts.zoom, "initial model distance")
	f.BoolVar(&opts.fill, "fill", opts.fill, "start with triangle filling on")
	f.BoolVar(&opts.noLighting, "no-lighting", opts.noLighting, "start with lighting off")
	f.BoolVar(&opts.noCap, "no-cap", opts.noCap, "start with the frame rate uncapped")
	f.StringVar(&opts.ramp, "ramp", opts.ramp, "lighting glyphs from darkest to brightest")
	f.Float64Var(&opts.scaleX, "scale-x", opts.scaleX, "horizontal stretch for tall character cells")
	f.Float64Var(&opts.fov, "fov", opts.fov, "field of view, in radians")
	f.Float64Var(&opts.near, "near", opts.near, "near clipping plane")
	f.Float64Var(&opts.far, "far", opts.far, "far clipping plane")
	f.IntVar(&opts.workers, "workers", opts.workers, "triangle pipeline workers, 1 renders sequentially")
	f.BoolVar(&opts.fit, "fit", opts.fit, "center the mesh and scale it to unit size")
	f.BoolVar(&opts.lenient, "lenient", opts.lenient, "skip unknown OBJ lines instead of failing")
	f.StringVar(&opts.logFile, "log", opts.logFile, "write debug logs to this file")
	f.StringVar(&opts.dir, "dir", opts.dir, "directory searched for bare mesh names")

	return cmd
}

func listMeshes(cmd *cobra.Command, dir string) error {
	names, err := models.List(dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "here are the available mesh files:")
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return errors.New("no mesh given")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
