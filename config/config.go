package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/parameter"
)

// Completion modes
const (
	ModeRegenerate = "regenerate"
	ModeTerminate  = "terminate"
)

// Map sources
const (
	MapProcedural = "procedural"
	MapMaze       = "maze"
	MapFile       = "file"
)

var (
	ErrPaletteTooSmall = errors.New("palette smaller than waypoint count")
	ErrInvalid         = errors.New("invalid configuration")
)

type Config struct {
	Display   DisplayConfig   `toml:"display"`
	Player    PlayerConfig    `toml:"player"`
	Autopilot AutopilotConfig `toml:"autopilot"`
	Palette   PaletteConfig   `toml:"palette"`
	Map       MapConfig       `toml:"map"`
	Assets    AssetsConfig    `toml:"assets"`
	Recording RecordingConfig `toml:"recording"`
	Sound     SoundConfig     `toml:"sound"`
	Logging   LoggingConfig   `toml:"logging"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Run       RunConfig       `toml:"run"`
}

type DisplayConfig struct {
	Width       int     `toml:"width"`
	Height      int     `toml:"height"`
	FOV         float64 `toml:"fov"`       // radians
	RayCount    int     `toml:"ray_count"` // 0 = width/2
	MaxDepth    float64 `toml:"max_depth"` // cells
	FPS         int     `toml:"fps"`
	FloorStride int     `toml:"floor_stride"` // 0 = flat floor color
	Overlay     bool    `toml:"overlay"`
	BirdView    bool    `toml:"bird_view"`
}

type PlayerConfig struct {
	Speed       float64 `toml:"speed"`      // cells/s
	TurnSpeed   float64 `toml:"turn_speed"` // rad/s, manual control
	Radius      float64 `toml:"radius"`
	RandomSpawn bool    `toml:"random_spawn"`
	SpawnX      float64 `toml:"spawn_x"`
	SpawnY      float64 `toml:"spawn_y"`
	Heading     float64 `toml:"heading"`
}

type AutopilotConfig struct {
	Enabled               bool    `toml:"enabled"`
	TurnSpeed             float64 `toml:"turn_speed"` // rad/s
	AlignTolerance        float64 `toml:"align_tolerance"`
	ArrivalRadiusSq       float64 `toml:"arrival_radius_sq"`
	WaypointCount         int     `toml:"waypoint_count"`
	RandomWaypointCount   bool    `toml:"random_waypoint_count"`
	SkipProbability       float64 `toml:"skip_probability"`
	RandomSkipProbability bool    `toml:"random_skip_probability"`
	GenerateAttempts      int     `toml:"generate_attempts"`
	RouteStepLimit        int     `toml:"route_step_limit"`
	CompletionMode        string  `toml:"completion_mode"` // "regenerate" or "terminate"
}

type PaletteEntry struct {
	Name string   `toml:"name"`
	RGB  [3]uint8 `toml:"rgb"`
}

type PaletteConfig struct {
	Colors  []PaletteEntry `toml:"colors"`
	Shuffle bool           `toml:"shuffle"`
}

type MapConfig struct {
	Source   string  `toml:"source"` // "procedural", "maze" or "file"
	Path     string  `toml:"path"`
	Width    int     `toml:"width"`
	Height   int     `toml:"height"`
	Coverage float64 `toml:"coverage"` // procedural: fraction of interior carved
	Rooms    int     `toml:"rooms"`
	Braiding float64 `toml:"braiding"`
	Seed     uint64  `toml:"seed"` // 0 = time based
}

type AssetsConfig struct {
	Dir       string        `toml:"dir"` // empty = procedural orbs
	Scale     float64       `toml:"scale"`
	Shift     float64       `toml:"shift"`
	FrameTime time.Duration `toml:"frame_time"`
}

type RecordingConfig struct {
	Enabled       bool   `toml:"enabled"`
	Dir           string `toml:"dir"`
	CaptureFrames bool   `toml:"capture_frames"`
	CaptureWidth  int    `toml:"capture_width"` // 0 = frame size
	CaptureHeight int    `toml:"capture_height"`
}

type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
	Theme   bool    `toml:"theme"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr
}

type TelemetryConfig struct {
	Enabled bool   `toml:"enabled"`
	Address string `toml:"address"`
}

type RunConfig struct {
	Headless bool   `toml:"headless"`
	Sessions int    `toml:"sessions"`
	MaxTicks int    `toml:"max_ticks"` // 0 = unbounded
	Seed     uint64 `toml:"seed"`      // 0 = time based
}

// Load reads path and decodes it over Default; empty path returns defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	colors := make([]PaletteEntry, len(parameter.DefaultPalette))
	for i, c := range parameter.DefaultPalette {
		colors[i] = PaletteEntry{Name: c.Name, RGB: c.RGB.Triple()}
	}

	return &Config{
		Display: DisplayConfig{
			Width:       parameter.DisplayWidth,
			Height:      parameter.DisplayHeight,
			FOV:         parameter.CameraFOV,
			MaxDepth:    parameter.CameraMaxDepth,
			FPS:         parameter.DisplayFPS,
			FloorStride: parameter.FloorStride,
			Overlay:     true,
		},
		Player: PlayerConfig{
			Speed:       parameter.PlayerSpeed,
			TurnSpeed:   parameter.PlayerTurnSpeed,
			Radius:      parameter.PlayerRadius,
			RandomSpawn: true,
			SpawnX:      1.5,
			SpawnY:      1.5,
		},
		Autopilot: AutopilotConfig{
			Enabled:               true,
			TurnSpeed:             parameter.AutopilotTurnSpeed,
			AlignTolerance:        parameter.AutopilotAlignTolerance,
			ArrivalRadiusSq:       parameter.AutopilotArrivalRadiusSq,
			WaypointCount:         len(parameter.DefaultPalette),
			RandomWaypointCount:   true,
			SkipProbability:       parameter.NavSkipProbability,
			RandomSkipProbability: true,
			GenerateAttempts:      parameter.NavGenerateAttempts,
			RouteStepLimit:        parameter.NavRouteStepLimit,
			CompletionMode:        ModeTerminate,
		},
		Palette: PaletteConfig{
			Colors:  colors,
			Shuffle: true,
		},
		Map: MapConfig{
			Source:   MapProcedural,
			Width:    32,
			Height:   24,
			Coverage: 0.45,
			Rooms:    4,
			Braiding: 0.5,
		},
		Assets: AssetsConfig{
			Scale:     parameter.SpriteScale,
			Shift:     parameter.SpriteHeightShift,
			FrameTime: parameter.SpriteFrameTime,
		},
		Recording: RecordingConfig{
			Enabled: true,
			Dir:     parameter.SessionRootDir,
		},
		Sound: SoundConfig{
			Volume: 0.5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Telemetry: TelemetryConfig{
			Address: "127.0.0.1:8090",
		},
		Run: RunConfig{
			Sessions: 1,
		},
	}
}

// RayCount returns the configured ray count, defaulting to half the frame width
func (c *Config) RayCount() int {
	if c.Display.RayCount > 0 {
		return c.Display.RayCount
	}
	return max(1, c.Display.Width/2)
}

// Colors converts configured palette entries into core values
func (c *Config) Colors() []core.NamedColor {
	out := make([]core.NamedColor, len(c.Palette.Colors))
	for i, e := range c.Palette.Colors {
		out[i] = core.NamedColor{Name: e.Name, RGB: core.RGB{R: e.RGB[0], G: e.RGB[1], B: e.RGB[2]}}
	}
	return out
}

// Validate rejects degenerate configurations; all failures are fatal at startup
func (c *Config) Validate() error {
	d := c.Display
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: display size %dx%d", ErrInvalid, d.Width, d.Height)
	}
	if d.FOV <= 0 || d.FOV >= math.Pi {
		return fmt.Errorf("%w: fov %.3f outside (0, π)", ErrInvalid, d.FOV)
	}
	if d.RayCount < 0 {
		return fmt.Errorf("%w: ray_count %d", ErrInvalid, d.RayCount)
	}
	if d.MaxDepth <= 0 {
		return fmt.Errorf("%w: max_depth %.3f", ErrInvalid, d.MaxDepth)
	}
	if d.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalid, d.FPS)
	}
	if d.FloorStride < 0 {
		return fmt.Errorf("%w: floor_stride %d", ErrInvalid, d.FloorStride)
	}

	if c.Player.Speed <= 0 || c.Player.TurnSpeed <= 0 {
		return fmt.Errorf("%w: player speeds must be positive", ErrInvalid)
	}
	if c.Player.Radius < 0 || c.Player.Radius >= 0.5 {
		return fmt.Errorf("%w: player radius %.3f outside [0, 0.5)", ErrInvalid, c.Player.Radius)
	}

	a := c.Autopilot
	if a.TurnSpeed <= 0 {
		return fmt.Errorf("%w: autopilot turn_speed %.3f", ErrInvalid, a.TurnSpeed)
	}
	if a.AlignTolerance <= 0 {
		return fmt.Errorf("%w: align_tolerance %.3f", ErrInvalid, a.AlignTolerance)
	}
	if a.ArrivalRadiusSq <= 0 {
		return fmt.Errorf("%w: arrival_radius_sq %.3f", ErrInvalid, a.ArrivalRadiusSq)
	}
	if a.SkipProbability < 0 || a.SkipProbability > 1 {
		return fmt.Errorf("%w: skip_probability %.3f outside [0, 1]", ErrInvalid, a.SkipProbability)
	}
	if a.GenerateAttempts <= 0 || a.RouteStepLimit <= 0 {
		return fmt.Errorf("%w: attempt limits must be positive", ErrInvalid)
	}
	if a.CompletionMode != ModeRegenerate && a.CompletionMode != ModeTerminate {
		return fmt.Errorf("%w: completion_mode %q", ErrInvalid, a.CompletionMode)
	}

	colors := len(c.Palette.Colors)
	if colors == 0 {
		return fmt.Errorf("%w: palette is empty", ErrPaletteTooSmall)
	}
	if !a.RandomWaypointCount {
		if a.WaypointCount < 1 {
			return fmt.Errorf("%w: waypoint_count %d", ErrInvalid, a.WaypointCount)
		}
		if colors < a.WaypointCount {
			return fmt.Errorf("%w: %d colors for %d waypoints", ErrPaletteTooSmall, colors, a.WaypointCount)
		}
	}

	switch c.Map.Source {
	case MapProcedural, MapMaze:
		if c.Map.Width < 3 || c.Map.Height < 3 {
			return fmt.Errorf("%w: map size %dx%d", ErrInvalid, c.Map.Width, c.Map.Height)
		}
	case MapFile:
		if c.Map.Path == "" {
			return fmt.Errorf("%w: map source file requires path", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: map source %q", ErrInvalid, c.Map.Source)
	}

	if c.Recording.CaptureWidth < 0 || c.Recording.CaptureHeight < 0 {
		return fmt.Errorf("%w: capture size", ErrInvalid)
	}
	if c.Sound.Volume < 0 || c.Sound.Volume > 1 {
		return fmt.Errorf("%w: sound volume %.3f outside [0, 1]", ErrInvalid, c.Sound.Volume)
	}
	if c.Run.Sessions < 1 {
		return fmt.Errorf("%w: sessions %d", ErrInvalid, c.Run.Sessions)
	}
	if c.Run.MaxTicks < 0 {
		return fmt.Errorf("%w: max_ticks %d", ErrInvalid, c.Run.MaxTicks)
	}
	// Without the autopilot nothing ends a headless session
	if c.Run.Headless && !a.Enabled && c.Run.MaxTicks == 0 {
		return fmt.Errorf("%w: headless run with autopilot disabled needs max_ticks", ErrInvalid)
	}
	return nil
}
