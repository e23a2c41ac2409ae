package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalRenderer presents a framebuffer on a terminal, two pixel rows per
// cell row.
type TerminalRenderer struct {
	term   *uv.Terminal
	width  int // terminal columns
	height int // terminal rows
}

// NewTerminalRenderer creates a renderer for a terminal of width x height
// cells.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the framebuffer dimensions matching the terminal.
func (r *TerminalRenderer) FramebufferSize() (int, int) {
	return r.width, r.height * 2
}

// Render draws fb onto the terminal screen. Columns and rows beyond either
// the terminal or the framebuffer are left alone.
func (r *TerminalRenderer) Render(fb *Framebuffer) {
	cols := min(r.width, fb.Width)
	rows := min(r.height, (fb.Height+1)/2)
	for row := range rows {
		for col := range cols {
			cell := halfBlock(fb, col, row)
			r.term.SetCell(col, row, &cell)
		}
	}
}

// Flush sends the pending screen changes to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.term.Display()
}

// halfBlock packs framebuffer rows 2*row and 2*row+1 into one upper half
// block cell: foreground is the top pixel, background the bottom one.
func halfBlock(fb *Framebuffer, col, row int) uv.Cell {
	return uv.Cell{
		Content: "▀",
		Width:   1,
		Style: uv.Style{
			Fg: cellColor(fb.GetPixel(col, 2*row)),
			Bg: cellColor(fb.GetPixel(col, 2*row+1)),
		},
	}
}

// cellColor maps a fully transparent pixel to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
