package config

import "github.com/lixenwraith/ray-pilot/core"

// Rand is the random source used to resolve randomized settings
type Rand interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// Resolved holds per-session values drawn from randomized settings.
// It is computed once and never mutated.
type Resolved struct {
	Palette         []core.NamedColor
	WaypointCount   int
	SkipProbability float64
}

// Resolve draws session values: palette order, waypoint count and skip probability
func (c *Config) Resolve(rng Rand) Resolved {
	palette := c.Colors()
	if c.Palette.Shuffle {
		rng.Shuffle(len(palette), func(i, j int) { palette[i], palette[j] = palette[j], palette[i] })
	}

	count := c.Autopilot.WaypointCount
	if c.Autopilot.RandomWaypointCount {
		count = 1 + rng.Intn(len(palette))
	}
	count = min(count, len(palette))

	skip := c.Autopilot.SkipProbability
	if c.Autopilot.RandomSkipProbability {
		skip = rng.Float64()
	}

	return Resolved{
		Palette:         palette,
		WaypointCount:   count,
		SkipProbability: skip,
	}
}
