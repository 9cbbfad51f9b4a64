package engine

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/maze"
	"github.com/lixenwraith/ray-pilot/vmath"
)

var ErrNoFreeCells = errors.New("map has no free cells")

// BuildMap produces the session map from the configured source.
// File maps may carry a spawn cell; generated maps never do.
func BuildMap(cfg config.MapConfig, seed uint64) (*gridmap.Map, *core.Cell, error) {
	switch cfg.Source {
	case config.MapFile:
		layout, err := gridmap.LoadYAML(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return layout.Map, layout.Spawn, nil

	case config.MapMaze:
		res := maze.Generate(maze.Config{
			Width:    cfg.Width,
			Height:   cfg.Height,
			Braiding: cfg.Braiding,
			Seed:     seed,
		})
		m, err := maze.ToMap(res.Grid, seed)
		return m, nil, err

	case config.MapProcedural, "":
		dc := maze.DefaultDungeon(cfg.Width, cfg.Height, cfg.Coverage, seed)
		dc.MaxRooms = cfg.Rooms
		m, err := maze.ToMap(maze.Dungeon(dc), seed)
		return m, nil, err

	default:
		return nil, nil, fmt.Errorf("%w: map source %q", config.ErrInvalid, cfg.Source)
	}
}

// spawnPoint picks the agent start: file spawn, then a random free cell, then the
// configured point, falling back to the first free cell when that point is blocked.
// Cell picks resolve to the cell center.
func spawnPoint(m *gridmap.Map, fileSpawn *core.Cell, p config.PlayerConfig, rng *vmath.FastRand) (float64, float64, error) {
	free := m.FreeCells()
	if len(free) == 0 {
		return 0, 0, ErrNoFreeCells
	}
	var c core.Cell
	switch {
	case fileSpawn != nil && m.IsFree(*fileSpawn):
		c = *fileSpawn
	case p.RandomSpawn:
		c = free[rng.Intn(len(free))]
	case m.IsFree(core.CellAt(p.SpawnX, p.SpawnY)):
		return p.SpawnX, p.SpawnY, nil
	default:
		c = free[0]
	}
	x, y := c.Center()
	return x, y, nil
}
