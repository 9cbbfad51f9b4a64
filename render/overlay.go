package render

import (
	"image"
	"math"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/parameter"
)

// DrawMap renders a top-down view of the scene into rect
func DrawMap(frame *Frame, rect image.Rectangle, scene Scene) {
	if scene.Map == nil {
		return
	}
	mw, mh := scene.Map.Size()
	cell := math.Min(float64(rect.Dx())/float64(mw), float64(rect.Dy())/float64(mh))
	if cell <= 0 {
		return
	}
	toScreen := func(x, y float64) (int, int) {
		return rect.Min.X + int(x*cell), rect.Min.Y + int(y*cell)
	}
	fillCell := func(c core.Cell, color core.RGB) {
		x0, y0 := toScreen(float64(c.X), float64(c.Y))
		x1, y1 := toScreen(float64(c.X+1), float64(c.Y+1))
		frame.FillRect(x0, y0, max(x1-x0, 1), max(y1-y0, 1), color)
	}

	for _, c := range scene.Map.Walls() {
		mat, _ := scene.Map.Material(c)
		color, ok := parameter.OverlayMaterial[int(mat)]
		if !ok {
			color = parameter.OverlayMaterial[1]
		}
		fillCell(c, color)
	}

	for _, w := range scene.Waypoints {
		color := w.Color.RGB
		if scene.Skipped != nil && scene.Skipped(w.Ordinal) {
			color = color.Scale(parameter.SkippedWaypointDim)
		}
		fillCell(w.Cell, color)
	}

	if scene.Route != nil && !scene.Route.Empty() {
		px, py := toScreen(scene.Camera.X, scene.Camera.Y)
		for _, c := range scene.Route.Cells() {
			cx, cy := c.Center()
			sx, sy := toScreen(cx, cy)
			frame.Line(px, py, sx, sy, parameter.OverlayRoute)
			px, py = sx, sy
		}
	}

	ax, ay := toScreen(scene.Camera.X, scene.Camera.Y)
	dx, dy := math.Cos(scene.Camera.Heading), math.Sin(scene.Camera.Heading)
	tx, ty := toScreen(scene.Camera.X+dx*parameter.OverlayAimLength, scene.Camera.Y+dy*parameter.OverlayAimLength)
	frame.Line(ax, ay, tx, ty, parameter.OverlayAim)
	frame.FillRect(ax-1, ay-1, 3, 3, parameter.OverlayAgent)
}
