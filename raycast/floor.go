package raycast

import (
	"math"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// FloorSample is one stride×stride block of the lower half of the frame
type FloorSample struct {
	ScreenX, ScreenY int     // Top-left pixel of the block
	WorldX, WorldY   float64 // Floor point seen at the block center
	U, V             float64 // Texture coordinates in [0, 1)
	Cell             core.Cell
	Depth            float64 // Perpendicular distance to the floor point
}

// SampleFloor projects floor blocks below the horizon. Per row, the world point is
// interpolated linearly between the leftmost and rightmost ray directions.
// dst is reused when large enough.
func (e *Engine) SampleFloor(cam Camera, stride int, dst []FloorSample) []FloorSample {
	dst = dst[:0]
	if stride <= 0 {
		return dst
	}
	w, h := e.cfg.Width, e.cfg.Height
	half := float64(h) / 2

	dirX, dirY := math.Cos(cam.Heading), math.Sin(cam.Heading)
	t := math.Tan(e.halfFOV)
	planeX, planeY := -dirY*t, dirX*t
	leftX, leftY := dirX-planeX, dirY-planeY
	rightX, rightY := dirX+planeX, dirY+planeY

	for y := h / 2; y < h; y += stride {
		p := float64(y) + float64(stride)/2 - half
		if p <= 0 {
			continue
		}
		rowDist := e.screenDist / (2 * p)
		if rowDist > e.cfg.MaxDepth {
			continue
		}

		for x := 0; x < w; x += stride {
			f := (float64(x) + float64(stride)/2) / float64(w)
			rx := vmath.Lerp(leftX, rightX, f)
			ry := vmath.Lerp(leftY, rightY, f)
			wx, wy := cam.X+rx*rowDist, cam.Y+ry*rowDist
			dst = append(dst, FloorSample{
				ScreenX: x,
				ScreenY: y,
				WorldX:  wx,
				WorldY:  wy,
				U:       vmath.Frac(wx),
				V:       vmath.Frac(wy),
				Cell:    core.CellAt(wx, wy),
				Depth:   rowDist,
			})
		}
	}
	return dst
}
