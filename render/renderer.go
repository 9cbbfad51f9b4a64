package render

import (
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/parameter"
	"github.com/lixenwraith/ray-pilot/raycast"
	"github.com/lixenwraith/ray-pilot/sprite"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Scene is the per-frame input to the renderer
type Scene struct {
	Camera  raycast.Camera
	Map     *gridmap.Map
	Sprites []*sprite.Sprite

	// Waypoints is the full generated list; Skipped reports filtered ordinals
	Waypoints []navigation.Waypoint
	Skipped   func(ordinal int) bool
	Route     *navigation.Route

	Overlay  bool
	BirdView bool
}

// Renderer draws scenes into frames, reusing per-frame buffers
type Renderer struct {
	engine      *raycast.Engine
	textures    *Textures
	floorStride int
	sky         []core.RGB

	floor     []raycast.FloorSample
	projected []sprite.Projected
	list      DrawList
}

// NewRenderer binds a raycaster and texture set; floorStride 0 draws a flat floor
func NewRenderer(engine *raycast.Engine, textures *Textures, floorStride int) *Renderer {
	_, h := engine.Size()
	return &Renderer{
		engine:      engine,
		textures:    textures,
		floorStride: floorStride,
		sky:         Gradient(parameter.SkyTopColor, parameter.SkyLowColor, max(h/2, 1)),
	}
}

// Engine returns the underlying raycaster
func (r *Renderer) Engine() *raycast.Engine {
	return r.engine
}

// Draw renders scene into frame, resizing it to the engine resolution
func (r *Renderer) Draw(frame *Frame, scene Scene) {
	w, h := r.engine.Size()
	if frame.Width != w || frame.Height != h {
		frame.Resize(w, h)
	}

	if scene.BirdView {
		frame.Fill(parameter.OverlayBack)
		DrawMap(frame, frame.Bounds(), scene)
		return
	}

	r.drawSky(frame, scene.Camera.Heading)
	r.drawFloor(frame, scene.Camera)

	columns := r.engine.Cast(scene.Camera, scene.Map)
	r.projected = sprite.Project(r.engine, scene.Camera, scene.Sprites, r.projected)
	r.list = Compose(columns, r.projected, r.engine, r.list)

	for i := range r.list {
		item := &r.list[i]
		switch item.Kind {
		case ItemWall:
			r.drawWall(frame, item)
		case ItemSprite:
			r.drawSprite(frame, item.Sprite)
		}
	}

	if scene.Overlay {
		rect := frame.Bounds()
		rect.Max.X = min(rect.Max.X, parameter.OverlayWidth)
		rect.Max.Y = min(rect.Max.Y, parameter.OverlayHeight)
		frame.FillRect(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy(), parameter.OverlayBack)
		DrawMap(frame, rect, scene)
	}
}

// drawSky paints a vertical gradient with a star band that wraps with heading
func (r *Renderer) drawSky(frame *Frame, heading float64) {
	band := frame.Width * parameter.SkyWraps
	offset := int(vmath.NormalizeAngle(heading) / vmath.Tau * float64(band))
	for y := 0; y < frame.Height/2; y++ {
		base := r.sky[min(y, len(r.sky)-1)]
		row := frame.Pix[y*frame.Width : (y+1)*frame.Width]
		for x := range row {
			u := (x + offset) % band
			if starHash(u, y)%parameter.SkyStarDensity == 0 {
				row[x] = base.Blend(core.RGBWhite, 0.6)
			} else {
				row[x] = base
			}
		}
	}
}

func starHash(x, y int) uint32 {
	h := uint32(x)*73856093 ^ uint32(y)*19349663
	h ^= h >> 13
	h *= 0x5bd1e995
	return h ^ h>>15
}

func (r *Renderer) drawFloor(frame *Frame, cam raycast.Camera) {
	half := frame.Height / 2
	if r.floorStride <= 0 {
		frame.FillRect(0, half, frame.Width, frame.Height-half, parameter.FloorColor)
		return
	}
	frame.FillRect(0, half, frame.Width, frame.Height-half, core.RGBBlack)

	tex := r.textures.Floor()
	size := r.textures.Size()
	r.floor = r.engine.SampleFloor(cam, r.floorStride, r.floor)
	for _, s := range r.floor {
		c, _ := tex.At(int(s.U*float64(size)), int(s.V*float64(size)))
		c = Fog(c, s.Depth, parameter.FogStart, r.engine.MaxDepth())
		frame.FillRect(s.ScreenX, s.ScreenY, r.floorStride, r.floorStride, c)
	}
}

func (r *Renderer) drawWall(frame *Frame, item *DrawItem) {
	col := item.Wall
	tex := r.textures.Wall(col.Material)
	size := r.textures.Size()
	tx := min(int(col.Offset*float64(size)), size-1)

	shade := 1.0
	if col.Side == raycast.SideHorizontal {
		shade = parameter.WallSideShade
	}

	rect := item.Rect
	span := float64(rect.Dy())
	y0, y1 := max(rect.Min.Y, 0), min(rect.Max.Y, frame.Height)
	x0, x1 := max(rect.Min.X, 0), min(rect.Max.X, frame.Width)
	for y := y0; y < y1; y++ {
		ty := int(float64(y-rect.Min.Y) / span * float64(size))
		c, _ := tex.At(tx, min(ty, size-1))
		c = Fog(c.Scale(shade), col.Depth, parameter.FogStart, parameter.FogEnd)
		row := frame.Pix[y*frame.Width : (y+1)*frame.Width]
		for x := x0; x < x1; x++ {
			row[x] = c
		}
	}
}

func (r *Renderer) drawSprite(frame *Frame, p *sprite.Projected) {
	img := p.Image
	s := p.Sprite
	x0, x1 := max(p.X, 0), min(p.X+p.W, frame.Width)
	y0, y1 := max(p.Y, 0), min(p.Y+p.H, frame.Height)
	for y := y0; y < y1; y++ {
		ty := (y - p.Y) * img.Height / p.H
		for x := x0; x < x1; x++ {
			tx := (x - p.X) * img.Width / p.W
			c, opaque := img.At(tx, ty)
			if !opaque {
				continue
			}
			if s.Tinted {
				c = Tint(c, s.Tint, parameter.TintStrength)
			}
			frame.Pix[y*frame.Width+x] = Fog(c, p.Depth, parameter.FogStart, parameter.FogEnd)
		}
	}
}
