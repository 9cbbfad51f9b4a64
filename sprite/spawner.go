package sprite

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/parameter"
)

// SpawnerConfig selects the asset used for waypoint markers
type SpawnerConfig struct {
	Dir       string // Empty = procedural orb
	Scale     float64
	Shift     float64
	FrameTime time.Duration
}

// Spawner places one tinted marker sprite on every generated waypoint
type Spawner struct {
	frames []*Image
	cfg    SpawnerConfig
	logger *zap.Logger
}

// NewSpawner loads marker frames. A missing or empty asset directory disables spawning
// rather than failing startup.
func NewSpawner(cfg SpawnerConfig, logger *zap.Logger) *Spawner {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Spawner{cfg: cfg, logger: logger}

	if cfg.Dir == "" {
		s.frames = OrbFrames(parameter.SpriteOrbSize, 8)
		return s
	}

	frames, err := LoadFrames(cfg.Dir)
	switch {
	case err != nil:
		logger.Warn("asset load failed, waypoint markers disabled", zap.String("dir", cfg.Dir), zap.Error(err))
	case len(frames) == 0:
		logger.Warn("asset dir has no frames, waypoint markers disabled", zap.String("dir", cfg.Dir))
	default:
		s.frames = frames
	}
	return s
}

// Enabled reports whether markers will be spawned
func (s *Spawner) Enabled() bool {
	return len(s.frames) > 0
}

// Spawn creates markers for waypoints, skipping the agent cell, repeated cells and walls
func (s *Spawner) Spawn(waypoints []navigation.Waypoint, agentCell core.Cell, isFree func(core.Cell) bool) []*Sprite {
	if !s.Enabled() {
		return nil
	}

	taken := map[core.Cell]bool{agentCell: true}
	out := make([]*Sprite, 0, len(waypoints))
	for _, w := range waypoints {
		if taken[w.Cell] || !isFree(w.Cell) {
			continue
		}
		taken[w.Cell] = true

		x, y := w.Cell.Center()
		sp := New(x, y, s.frames, s.cfg.Scale, s.cfg.Shift, s.cfg.FrameTime)
		sp.Ordinal = w.Ordinal
		sp.Tint = w.Color.RGB
		sp.Tinted = true
		out = append(out, sp)
	}
	return out
}
