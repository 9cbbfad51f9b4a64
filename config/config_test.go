package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ray-pilot/vmath"
)

// TestDefaultIsValid verifies built-in defaults pass validation
func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, cfg.Display.Width/2, cfg.RayCount())
	assert.Len(t, cfg.Colors(), 10)
}

// TestLoadOverridesDefaults verifies TOML values decode over defaults and untouched keys survive
func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ray-pilot.toml")
	data := `
[display]
width = 160
ray_count = 40

[autopilot]
waypoint_count = 2
random_waypoint_count = false
completion_mode = "regenerate"

[[palette.colors]]
name = "red"
rgb = [255, 0, 0]

[[palette.colors]]
name = "teal"
rgb = [0, 128, 128]

[assets]
frame_time = "250ms"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 160, cfg.Display.Width)
	assert.Equal(t, 200, cfg.Display.Height)
	assert.Equal(t, 40, cfg.RayCount())
	assert.Equal(t, ModeRegenerate, cfg.Autopilot.CompletionMode)
	assert.Equal(t, 250*time.Millisecond, cfg.Assets.FrameTime)

	colors := cfg.Colors()
	require.Len(t, colors, 2)
	assert.Equal(t, "teal", colors[1].Name)
	assert.Equal(t, uint8(128), colors[1].RGB.G)
}

// TestLoadMissingFile verifies read errors are wrapped with the path
func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.toml")
}

// TestLoadEmptyPath verifies an empty path yields defaults
func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestValidatePaletteTooSmall verifies a fixed waypoint count larger than the palette is fatal
func TestValidatePaletteTooSmall(t *testing.T) {
	cfg := Default()
	cfg.Autopilot.RandomWaypointCount = false
	cfg.Autopilot.WaypointCount = 3
	cfg.Palette.Colors = cfg.Palette.Colors[:2]

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPaletteTooSmall)

	cfg = Default()
	cfg.Palette.Colors = nil
	assert.ErrorIs(t, cfg.Validate(), ErrPaletteTooSmall)
}

// TestValidateRejects verifies each degenerate setting fails validation
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fov", func(c *Config) { c.Display.FOV = 0 }},
		{"fov of pi", func(c *Config) { c.Display.FOV = 3.2 }},
		{"negative depth", func(c *Config) { c.Display.MaxDepth = -1 }},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }},
		{"skip above one", func(c *Config) { c.Autopilot.SkipProbability = 1.5 }},
		{"zero arrival radius", func(c *Config) { c.Autopilot.ArrivalRadiusSq = 0 }},
		{"unknown completion mode", func(c *Config) { c.Autopilot.CompletionMode = "loop" }},
		{"unknown map source", func(c *Config) { c.Map.Source = "cave" }},
		{"file map without path", func(c *Config) { c.Map.Source = MapFile }},
		{"zero sessions", func(c *Config) { c.Run.Sessions = 0 }},
		{"wide radius", func(c *Config) { c.Player.Radius = 0.5 }},
		{"negative tick limit", func(c *Config) { c.Run.MaxTicks = -1 }},
		{"unbounded headless manual run", func(c *Config) {
			c.Run.Headless = true
			c.Autopilot.Enabled = false
			c.Run.MaxTicks = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

// TestResolveRandomized verifies randomized settings stay within their ranges
func TestResolveRandomized(t *testing.T) {
	cfg := Default()
	rng := vmath.NewFastRand(11)
	for i := 0; i < 200; i++ {
		r := cfg.Resolve(rng)
		assert.GreaterOrEqual(t, r.WaypointCount, 1)
		assert.LessOrEqual(t, r.WaypointCount, len(r.Palette))
		assert.GreaterOrEqual(t, r.SkipProbability, 0.0)
		assert.Less(t, r.SkipProbability, 1.0)
		assert.ElementsMatch(t, cfg.Colors(), r.Palette)
	}
}

// TestResolveFixed verifies fixed settings pass through unchanged
func TestResolveFixed(t *testing.T) {
	cfg := Default()
	cfg.Palette.Shuffle = false
	cfg.Autopilot.RandomWaypointCount = false
	cfg.Autopilot.WaypointCount = 3
	cfg.Autopilot.RandomSkipProbability = false
	cfg.Autopilot.SkipProbability = 0.25

	r := cfg.Resolve(vmath.NewFastRand(1))
	assert.Equal(t, 3, r.WaypointCount)
	assert.Equal(t, 0.25, r.SkipProbability)
	assert.Equal(t, cfg.Colors(), r.Palette)
}

// TestValidateHeadlessManualWithLimit verifies a bounded headless run without the autopilot is accepted
func TestValidateHeadlessManualWithLimit(t *testing.T) {
	cfg := Default()
	cfg.Run.Headless = true
	cfg.Autopilot.Enabled = false
	cfg.Run.MaxTicks = 100
	assert.NoError(t, cfg.Validate())

	cfg.Run.Headless = false
	cfg.Run.MaxTicks = 0
	assert.NoError(t, cfg.Validate(), "interactive runs end on quit")
}
