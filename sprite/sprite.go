// Package sprite holds billboard objects, their animation and camera-space projection.
package sprite

import (
	"time"

	"github.com/lixenwraith/ray-pilot/core"
)

// Sprite is a world-space billboard. A single frame makes it static.
type Sprite struct {
	X, Y   float64
	Scale  float64 // Size relative to a wall at the same depth
	Shift  float64 // Downward offset as a fraction of projected height
	Frames []*Image

	Tint   core.RGB
	Tinted bool

	// Ordinal links the sprite to a waypoint; -1 when unrelated
	Ordinal int

	frameTime time.Duration
	elapsed   time.Duration
	frame     int
}

// New creates a sprite; frameTime <= 0 disables animation
func New(x, y float64, frames []*Image, scale, shift float64, frameTime time.Duration) *Sprite {
	return &Sprite{
		X:         x,
		Y:         y,
		Scale:     scale,
		Shift:     shift,
		Frames:    frames,
		Ordinal:   -1,
		frameTime: frameTime,
	}
}

// Update advances the animation clock
func (s *Sprite) Update(dt time.Duration) {
	if s.frameTime <= 0 || len(s.Frames) < 2 {
		return
	}
	s.elapsed += dt
	for s.elapsed >= s.frameTime {
		s.elapsed -= s.frameTime
		s.frame = (s.frame + 1) % len(s.Frames)
	}
}

// Frame returns the index of the current animation frame
func (s *Sprite) Frame() int {
	return s.frame
}

// Image returns the current animation frame, nil if the sprite has none
func (s *Sprite) Image() *Image {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[s.frame]
}
