// Package render turns meshes into glyphs on a character grid.
package render

import (
	"strings"
)

// Grid is a 2D array of glyphs that can be rendered to the terminal.
type Grid struct {
	Width  int    // Width in cells (terminal columns)
	Height int    // Height in cells (terminal rows)
	Cells  []rune // Row-major glyph data
}

// NewGrid creates a blank grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  max(width, 0),
		Height: max(height, 0),
	}
	g.Cells = make([]rune, g.Width*g.Height)
	g.Clear()
	return g
}

// Clear fills the grid with spaces.
func (g *Grid) Clear() {
	for i := range g.Cells {
		g.Cells[i] = ' '
	}
}

// Plot draws a rasterized glyph. Points on the first row or column, or at or
// past the far edges, are silently discarded.
func (g *Grid) Plot(x, y int, glyph rune) {
	if x <= 0 || x >= g.Width || y <= 0 || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = glyph
}

// Set writes a glyph at (x, y). Bounds checking is performed.
func (g *Grid) Set(x, y int, glyph rune) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = glyph
}

// At returns the glyph at (x, y).
// Returns a space if out of bounds.
func (g *Grid) At(x, y int) rune {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return ' '
	}
	return g.Cells[y*g.Width+x]
}

// WriteText writes s left to right starting at (x, y), clipping at the
// right edge.
func (g *Grid) WriteText(x, y int, s string) {
	for _, r := range s {
		g.Set(x, y, r)
		x++
	}
}

// String returns the grid as newline-separated rows.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.Width + 1) * g.Height)
	for y := range g.Height {
		b.WriteString(string(g.Cells[y*g.Width : (y+1)*g.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Count returns how many cells hold glyph.
func (g *Grid) Count(glyph rune) int {
	n := 0
	for _, c := range g.Cells {
		if c == glyph {
			n++
		}
	}
	return n
}
