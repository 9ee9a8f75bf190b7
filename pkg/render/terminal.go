package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw copies the grid into the terminal screen, one glyph per cell.
func (g *Grid) Draw(scr uv.Screen, area uv.Rectangle, fg color.Color) {
	for row := area.Min.Y; row < area.Max.Y && row < g.Height; row++ {
		for col := area.Min.X; col < area.Max.X && col < g.Width; col++ {
			cell := &uv.Cell{
				Content: string(g.At(col, row)),
				Width:   1,
				Style: uv.Style{
					Fg: fg,
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// TerminalRenderer presents grids on an ultraviolet terminal.
type TerminalRenderer struct {
	term *uv.Terminal
	Fg   color.Color // Glyph color, nil for the terminal default
}

// NewTerminalRenderer creates a renderer for term.
func NewTerminalRenderer(term *uv.Terminal) *TerminalRenderer {
	return &TerminalRenderer{term: term}
}

// Render draws g onto the terminal buffer.
func (t *TerminalRenderer) Render(g *Grid) {
	g.Draw(t.term, image.Rect(0, 0, g.Width, g.Height), t.Fg)
}

// Flush writes pending changes to the terminal.
func (t *TerminalRenderer) Flush() error {
	return t.term.Display()
}
