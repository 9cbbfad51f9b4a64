package parameter

import (
	"time"

	"github.com/lixenwraith/ray-pilot/core"
)

// World colors
var (
	FloorColor   = core.RGB{R: 30, G: 30, B: 30}
	SkyTopColor  = core.RGB{R: 20, G: 24, B: 48}
	SkyLowColor  = core.RGB{R: 90, G: 70, B: 90}
	OverlayBack  = core.RGB{R: 20, G: 20, B: 20}
	OverlayAgent = core.RGB{R: 0, G: 200, B: 0}
	OverlayAim   = core.RGB{R: 255, G: 255, B: 0}
	OverlayRoute = core.RGB{R: 200, G: 200, B: 200}
)

// OverlayMaterial colors walls on the top-down map by material
var OverlayMaterial = map[int]core.RGB{
	1: {R: 80, G: 80, B: 80},
	2: {R: 100, G: 100, B: 120},
	3: {R: 120, G: 100, B: 100},
	4: {R: 100, G: 120, B: 100},
	5: {R: 120, G: 120, B: 80},
}

// Walls
const (
	// TextureSize is the edge length of procedural wall textures
	TextureSize = 64

	// WallSideShade darkens walls hit on horizontal grid lines
	WallSideShade = 0.7

	// FogStart and FogEnd bound linear distance darkening in cells
	FogStart = 4.0
	FogEnd   = 20.0
)

// Sprites
const (
	// SpriteScale is the default sprite size relative to a wall
	SpriteScale = 0.8

	// SpriteHeightShift lowers sprites toward the floor as a fraction of their height
	SpriteHeightShift = 0.16

	// SpriteFrameTime is the animation frame interval
	SpriteFrameTime = 120 * time.Millisecond

	// SpriteOrbSize is the edge length of procedural orb sprites
	SpriteOrbSize = 32

	// TintStrength is the blend amount toward the waypoint color
	TintStrength = 0.6

	// SkippedWaypointDim scales skipped waypoint markers on the overlay
	SkippedWaypointDim = 0.35
)

// Overlay
const (
	OverlayWidth  = 120
	OverlayHeight = 80

	// OverlayAimLength is the heading indicator length in cells
	OverlayAimLength = 1.5
)

// Sky
const (
	// SkyStarDensity is the modulus of the star hash; higher is sparser
	SkyStarDensity = 97

	// SkyWraps is how many screen widths the sky band spans over a full turn
	SkyWraps = 4
)

// Capture
const (
	// CaptureFramePattern names captured frames inside the session directory
	CaptureFramePattern = "frame_%06d.png"
)
