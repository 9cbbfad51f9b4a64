package parameter

import "math"

// Camera projection
const (
	// CameraFOV is the horizontal field of view in radians
	CameraFOV = math.Pi / 3

	// CameraMaxDepth is the ray march limit in cells; rays beyond it report no hit
	CameraMaxDepth = 20.0

	// CameraRayEpsilon nudges ray angles off exact grid alignment
	CameraRayEpsilon = 1e-4

	// CameraDepthEpsilon guards projected-height division near zero depth
	CameraDepthEpsilon = 1e-4

	// CameraNearClip rejects sprites closer than this forward distance
	CameraNearClip = 0.5
)

// Display
const (
	// DisplayWidth and DisplayHeight are frame buffer dimensions in pixels
	DisplayWidth  = 320
	DisplayHeight = 200

	// DisplayFPS is the interactive tick rate
	DisplayFPS = 24

	// DisplayHeadlessFPS sets the fixed dt used by headless runs
	DisplayHeadlessFPS = 24

	// FloorStride is the floor sampling block size in pixels
	FloorStride = 4
)
