// Package render draws the first-person view and overlays into an RGB frame and presents it.
package render

import (
	"image"

	"github.com/lixenwraith/ray-pilot/core"
)

// Frame is a row-major RGB pixel buffer
type Frame struct {
	Width, Height int
	Pix           []core.RGB
}

// NewFrame allocates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]core.RGB, width*height),
	}
}

// Resize adjusts dimensions, reallocating only if capacity is insufficient
func (f *Frame) Resize(width, height int) {
	size := width * height
	if cap(f.Pix) < size {
		f.Pix = make([]core.RGB, size)
	} else {
		f.Pix = f.Pix[:size]
	}
	f.Width = width
	f.Height = height
	f.Fill(core.RGBBlack)
}

// Fill sets every pixel using exponential copy
func (f *Frame) Fill(c core.RGB) {
	if len(f.Pix) == 0 {
		return
	}
	f.Pix[0] = c
	for filled := 1; filled < len(f.Pix); filled *= 2 {
		copy(f.Pix[filled:], f.Pix[:filled])
	}
}

// Bounds returns the frame rectangle
func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

func (f *Frame) inBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// Set writes a pixel; out-of-bounds writes are dropped
func (f *Frame) Set(x, y int, c core.RGB) {
	if f.inBounds(x, y) {
		f.Pix[y*f.Width+x] = c
	}
}

// At reads a pixel; out-of-bounds reads return black
func (f *Frame) At(x, y int) core.RGB {
	if !f.inBounds(x, y) {
		return core.RGBBlack
	}
	return f.Pix[y*f.Width+x]
}

// FillRect fills a clipped rectangle
func (f *Frame) FillRect(x0, y0, w, h int, c core.RGB) {
	x1, y1 := min(x0+w, f.Width), min(y0+h, f.Height)
	for y := max(y0, 0); y < y1; y++ {
		row := f.Pix[y*f.Width : (y+1)*f.Width]
		for x := max(x0, 0); x < x1; x++ {
			row[x] = c
		}
	}
}

// Line draws a straight segment with Bresenham stepping
func (f *Frame) Line(x0, y0, x1, y1 int, c core.RGB) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		f.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
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

// Image copies the frame into a standard library image for encoding
func (f *Frame) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, p := range f.Pix {
		img.Pix[i*4] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
