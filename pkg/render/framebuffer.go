// Package render provides the pixel buffer and line rasterization that the
// scene pipeline draws into.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrInvalidTarget is returned when a framebuffer's dimensions and pixel
// storage disagree.
var ErrInvalidTarget = errors.New("render: invalid target buffer")

// Framebuffer is a 2D array of pixels owned by the caller.
// Nothing is ever written outside [0, Width) x [0, Height).
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Validate reports ErrInvalidTarget when the buffer cannot be drawn into.
func (fb *Framebuffer) Validate() error {
	if fb == nil {
		return fmt.Errorf("%w: nil framebuffer", ErrInvalidTarget)
	}
	if fb.Width <= 0 || fb.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidTarget, fb.Width, fb.Height)
	}
	if len(fb.Pixels) != fb.Width*fb.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidTarget, len(fb.Pixels), fb.Width, fb.Height)
	}
	return nil
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1).
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	fb.DrawLineF(float64(x0), float64(y0), float64(x1), float64(y1), c)
}

// DrawLineF draws a segment given in continuous pixel coordinates. The
// segment is clipped to the buffer first, so endpoints far off screen cost
// no more than visible ones. Segments with non-finite endpoints are dropped.
func (fb *Framebuffer) DrawLineF(x0, y0, x1, y1 float64, c color.RGBA) {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return
	}
	xmax, ymax := float64(fb.Width-1), float64(fb.Height-1)
	if xmax < 0 || ymax < 0 {
		return
	}

	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, xmax, ymax)
	if !ok {
		return
	}
	fb.bresenham(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
		c,
	)
}

// bresenham walks the integer line; callers clip first.
func (fb *Framebuffer) bresenham(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Outcodes for Cohen-Sutherland clipping.
const (
	outLeft = 1 << iota
	outRight
	outAbove // y < 0
	outBelow // y > ymax
)

func outcode(x, y, xmax, ymax float64) int {
	code := 0
	if x < 0 {
		code |= outLeft
	} else if x > xmax {
		code |= outRight
	}
	if y < 0 {
		code |= outAbove
	} else if y > ymax {
		code |= outBelow
	}
	return code
}

// clipSegment clips a segment to [0, xmax] x [0, ymax].
func clipSegment(x0, y0, x1, y1, xmax, ymax float64) (float64, float64, float64, float64, bool) {
	c0 := outcode(x0, y0, xmax, ymax)
	c1 := outcode(x1, y1, xmax, ymax)

	// Each pass moves one endpoint onto a boundary; four passes per
	// endpoint is enough.
	for range 8 {
		if c0|c1 == 0 {
			return x0, y0, x1, y1, true
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}

		out := c0
		if out == 0 {
			out = c1
		}

		var x, y float64
		switch {
		case out&outBelow != 0:
			x = x0 + (x1-x0)*(ymax-y0)/(y1-y0)
			y = ymax
		case out&outAbove != 0:
			x = x0 + (x1-x0)*(0-y0)/(y1-y0)
			y = 0
		case out&outRight != 0:
			y = y0 + (y1-y0)*(xmax-x0)/(x1-x0)
			x = xmax
		default:
			y = y0 + (y1-y0)*(0-x0)/(x1-x0)
			x = 0
		}

		if out == c0 {
			x0, y0 = x, y
			c0 = outcode(x0, y0, xmax, ymax)
		} else {
			x1, y1 = x, y
			c1 = outcode(x1, y1, xmax, ymax)
		}
	}
	return 0, 0, 0, 0, false
}

// Fill fills the rectangle at (x, y) of size w x h, clipped to the buffer.
func (fb *Framebuffer) Fill(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		row := fb.Pixels[py*fb.Width : (py+1)*fb.Width]
		for px := x0; px < x1; px++ {
			row[px] = c
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	fb.DrawLine(x, y, x+w-1, y, c)
	fb.DrawLine(x, y+h-1, x+w-1, y+h-1, c)
	fb.DrawLine(x, y, x, y+h-1, c)
	fb.DrawLine(x+w-1, y, x+w-1, y+h-1, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Save writes the framebuffer to path. The format follows the extension:
// .png, .bmp, .tif or .tiff.
func (fb *Framebuffer) Save(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".png", ".bmp", ".tif", ".tiff":
	default:
		return fmt.Errorf("unsupported snapshot format: %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img := fb.ToImage()
	switch ext {
	case ".bmp":
		err = bmp.Encode(f, img)
	case ".tif", ".tiff":
		err = tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", ext, err)
	}
	return nil
}
