package render

import (
	"image"
	"math"
	"sort"

	"github.com/lixenwraith/ray-pilot/raycast"
	"github.com/lixenwraith/ray-pilot/sprite"
)

// ItemKind distinguishes draw list entries
type ItemKind uint8

const (
	ItemWall ItemKind = iota
	ItemSprite
)

// DrawItem is one depth-sorted element of the first-person view
type DrawItem struct {
	Depth  float64
	Kind   ItemKind
	Wall   *raycast.Column
	Sprite *sprite.Projected
	Rect   image.Rectangle // Screen area covered
}

// DrawList is ordered farthest first
type DrawList []DrawItem

// Projection supplies the constants needed to size wall strips
type Projection interface {
	Scale() float64
	ProjectedHeight(depth float64) float64
	Size() (int, int)
}

// Compose merges hit wall columns and projected sprites into a painter's list.
// Items are stable-sorted by descending depth so equal depths keep wall-then-sprite order.
// dst is reused when large enough.
func Compose(columns []raycast.Column, sprites []sprite.Projected, view Projection, dst DrawList) DrawList {
	dst = dst[:0]
	_, height := view.Size()
	scale := view.Scale()

	for i := range columns {
		c := &columns[i]
		if !c.Hit {
			continue
		}
		h := view.ProjectedHeight(c.Depth)
		x0 := int(math.Floor(float64(c.Index) * scale))
		x1 := int(math.Floor(float64(c.Index+1) * scale))
		y0 := int(math.Round(float64(height)/2 - h/2))
		dst = append(dst, DrawItem{
			Depth: c.Depth,
			Kind:  ItemWall,
			Wall:  c,
			Rect:  image.Rect(x0, y0, max(x1, x0+1), y0+int(math.Round(h))),
		})
	}
	for i := range sprites {
		p := &sprites[i]
		dst = append(dst, DrawItem{
			Depth:  p.Depth,
			Kind:   ItemSprite,
			Sprite: p,
			Rect:   image.Rect(p.X, p.Y, p.X+p.W, p.Y+p.H),
		})
	}

	sort.SliceStable(dst, func(i, j int) bool {
		return dst[i].Depth > dst[j].Depth
	})
	return dst
}
