package sprite

import (
	"math"

	"github.com/lixenwraith/ray-pilot/parameter"
	"github.com/lixenwraith/ray-pilot/raycast"
)

// View supplies projection constants; raycast.Engine satisfies it
type View interface {
	Rays() int
	DeltaAngle() float64
	ScreenDist() float64
	Scale() float64
	Size() (int, int)
}

// Projected is a sprite placed on screen
type Projected struct {
	Sprite  *Sprite
	Image   *Image
	Depth   float64 // Forward distance along the view direction
	ScreenX float64 // Horizontal center in pixels
	X, Y    int     // Top-left corner in pixels
	W, H    int     // Projected size in pixels
}

// Project transforms sprites into screen space. The horizontal position uses the same
// angular mapping as ray columns so sprites stay registered with walls. Sprites behind
// the near clip or entirely off screen are dropped. dst is reused when large enough.
func Project(view View, cam raycast.Camera, sprites []*Sprite, dst []Projected) []Projected {
	dst = dst[:0]
	width, height := view.Size()
	sin, cos := math.Sincos(cam.Heading)
	halfRays := float64(view.Rays()) / 2

	for _, s := range sprites {
		img := s.Image()
		if img == nil || img.Height == 0 {
			continue
		}

		dx, dy := s.X-cam.X, s.Y-cam.Y
		forward := dx*cos + dy*sin
		lateral := -dx*sin + dy*cos
		if forward <= parameter.CameraNearClip {
			continue
		}

		theta := math.Atan2(lateral, forward)
		screenX := (halfRays + theta/view.DeltaAngle()) * view.Scale()

		projH := view.ScreenDist() / forward * s.Scale
		projW := projH * float64(img.Width) / float64(img.Height)
		halfW := projW / 2
		if screenX < -halfW || screenX > float64(width)+halfW {
			continue
		}

		top := float64(height)/2 - projH/2 + projH*s.Shift
		dst = append(dst, Projected{
			Sprite:  s,
			Image:   img,
			Depth:   forward,
			ScreenX: screenX,
			X:       int(math.Round(screenX - halfW)),
			Y:       int(math.Round(top)),
			W:       max(int(math.Round(projW)), 1),
			H:       max(int(math.Round(projH)), 1),
		})
	}
	return dst
}
