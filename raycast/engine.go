// Package raycast casts one DDA ray per screen column against the grid map.
package raycast

import (
	"math"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/parameter"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Side is the grid line orientation a ray hit
type Side uint8

const (
	SideVertical   Side = iota // Crossed an x = const line
	SideHorizontal             // Crossed a y = const line
)

// WallMap answers wall material queries; out-of-bounds cells must report a wall
type WallMap interface {
	Material(c core.Cell) (gridmap.Material, bool)
}

// Camera is the viewer pose
type Camera struct {
	X, Y    float64
	Heading float64
}

// Column is the result of one ray
type Column struct {
	Index    int
	Angle    float64
	Depth    float64 // Perpendicular distance; MaxDepth when Hit is false
	Material gridmap.Material
	Offset   float64 // Texture u in [0, 1)
	Side     Side
	Cell     core.Cell
	Hit      bool
}

type Config struct {
	Width, Height int
	FOV           float64
	Rays          int
	MaxDepth      float64
}

// Engine holds projection constants and a reusable column buffer
type Engine struct {
	cfg Config

	halfFOV    float64
	deltaAngle float64
	screenDist float64
	scale      float64

	columns []Column
}

// NewEngine derives projection constants from cfg
func NewEngine(cfg Config) *Engine {
	cfg.Rays = max(cfg.Rays, 1)
	half := cfg.FOV / 2
	return &Engine{
		cfg:        cfg,
		halfFOV:    half,
		deltaAngle: cfg.FOV / float64(cfg.Rays),
		screenDist: float64(cfg.Width) / 2 / math.Tan(half),
		scale:      float64(cfg.Width) / float64(cfg.Rays),
		columns:    make([]Column, cfg.Rays),
	}
}

// Rays returns the number of columns per cast
func (e *Engine) Rays() int { return e.cfg.Rays }

// DeltaAngle returns the angular spacing between rays
func (e *Engine) DeltaAngle() float64 { return e.deltaAngle }

// ScreenDist returns the projection plane distance in pixels
func (e *Engine) ScreenDist() float64 { return e.screenDist }

// Scale returns screen pixels per ray
func (e *Engine) Scale() float64 { return e.scale }

// MaxDepth returns the ray length limit
func (e *Engine) MaxDepth() float64 { return e.cfg.MaxDepth }

// Size returns the frame dimensions the engine projects onto
func (e *Engine) Size() (int, int) { return e.cfg.Width, e.cfg.Height }

// ProjectedHeight returns the on-screen wall height for a perpendicular depth
func (e *Engine) ProjectedHeight(depth float64) float64 {
	return e.screenDist / (depth + parameter.CameraDepthEpsilon)
}

// Cast traces every ray from the camera. The returned slice is reused by the next call.
func (e *Engine) Cast(cam Camera, m WallMap) []Column {
	start := cam.Heading - e.halfFOV + parameter.CameraRayEpsilon
	for i := range e.columns {
		angle := start + float64(i)*e.deltaAngle
		e.columns[i] = e.castRay(cam, angle, m)
		e.columns[i].Index = i
	}
	return e.columns
}

func (e *Engine) castRay(cam Camera, angle float64, m WallMap) Column {
	dx, dy := math.Cos(angle), math.Sin(angle)
	col := Column{Angle: angle, Depth: e.cfg.MaxDepth}

	tr := vmath.NewRayTraverser(cam.X, cam.Y, dx, dy)
	tr.Next() // Origin cell
	for tr.Next() {
		dist := tr.Distance()
		if dist > e.cfg.MaxDepth {
			return col
		}
		cx, cy := tr.Pos()
		cell := core.Cell{X: cx, Y: cy}
		mat, wall := m.Material(cell)
		if !wall {
			continue
		}

		hitX, hitY := cam.X+dx*dist, cam.Y+dy*dist
		if tr.CrossedVertical() {
			col.Side = SideVertical
			col.Offset = vmath.Frac(hitY)
			if dx < 0 {
				col.Offset = 1 - col.Offset
			}
		} else {
			col.Side = SideHorizontal
			col.Offset = vmath.Frac(hitX)
			if dy > 0 {
				col.Offset = 1 - col.Offset
			}
		}
		if col.Offset >= 1 {
			col.Offset = 0
		}

		col.Depth = dist * math.Cos(cam.Heading-angle)
		col.Material = mat
		col.Cell = cell
		col.Hit = true
		return col
	}
	return col
}
