package parameter

import "github.com/lixenwraith/ray-pilot/core"

// DefaultPalette is the waypoint color list; one entry per waypoint ordinal
var DefaultPalette = []core.NamedColor{
	{Name: "red", RGB: core.RGB{R: 255, G: 0, B: 0}},
	{Name: "green", RGB: core.RGB{R: 0, G: 255, B: 0}},
	{Name: "blue", RGB: core.RGB{R: 0, G: 0, B: 255}},
	{Name: "yellow", RGB: core.RGB{R: 255, G: 255, B: 0}},
	{Name: "magenta", RGB: core.RGB{R: 255, G: 0, B: 255}},
	{Name: "cyan", RGB: core.RGB{R: 0, G: 255, B: 255}},
	{Name: "orange", RGB: core.RGB{R: 255, G: 165, B: 0}},
	{Name: "purple", RGB: core.RGB{R: 128, G: 0, B: 128}},
	{Name: "pink", RGB: core.RGB{R: 255, G: 192, B: 203}},
	{Name: "lime", RGB: core.RGB{R: 50, G: 205, B: 50}},
}
