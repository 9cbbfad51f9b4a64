package maze

import (
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// DungeonConfig drives the drunkard-walk dungeon carver
type DungeonConfig struct {
	Width, Height int

	// Coverage is the target fraction of all cells carved to floor
	Coverage float64

	// RoomChance is the per-step probability of carving a rectangular room
	RoomChance       float64
	RoomMin, RoomMax int

	// MaxRooms caps carved rooms; 0 = unlimited
	MaxRooms int

	// TurnChance is the per-step probability of picking a new heading
	TurnChance float64

	// FattenChance is the per-step probability of also carving the 4 neighbors
	FattenChance float64

	// MaxSteps caps the walk; 0 = width*height*10
	MaxSteps int

	Seed uint64
}

// DefaultDungeon returns carver settings for a width×height dungeon
func DefaultDungeon(width, height int, coverage float64, seed uint64) DungeonConfig {
	return DungeonConfig{
		Width:        width,
		Height:       height,
		Coverage:     coverage,
		RoomChance:   0.04,
		RoomMin:      3,
		RoomMax:      7,
		TurnChance:   0.3,
		FattenChance: 0.2,
		Seed:         seed,
	}
}

// Dungeon carves a connected cave from a solid grid by a persistent random walk.
// The border ring always stays wall; all carved cells are 4-connected to the center.
func Dungeon(cfg DungeonConfig) [][]bool {
	w, h := max(cfg.Width, 3), max(cfg.Height, 3)
	grid := newWallGrid(w, h)
	rng := vmath.NewFastRand(cfg.Seed)

	x, y := w/2, h/2
	grid[y][x] = Passage
	carved := 1

	interior := (w - 2) * (h - 2)
	target := min(int(float64(w*h)*cfg.Coverage), interior)
	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = w * h * 10
	}

	dirs := []core.Cell{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}
	dir := dirs[rng.Intn(len(dirs))]

	carve := func(cx, cy int) {
		if cx >= 1 && cx < w-1 && cy >= 1 && cy < h-1 && grid[cy][cx] == Wall {
			grid[cy][cx] = Passage
			carved++
		}
	}

	rooms := 0
	for step := 0; carved < target && step < maxSteps; step++ {
		if cfg.RoomChance > 0 && (cfg.MaxRooms == 0 || rooms < cfg.MaxRooms) && rng.Float64() < cfg.RoomChance {
			rooms++
			rw := cfg.RoomMin + rng.Intn(max(cfg.RoomMax-cfg.RoomMin+1, 1))
			rh := cfg.RoomMin + rng.Intn(max(cfg.RoomMax-cfg.RoomMin+1, 1))
			for ry := y - rh/2; ry <= y+(rh-1)/2; ry++ {
				for rx := x - rw/2; rx <= x+(rw-1)/2; rx++ {
					carve(rx, ry)
				}
			}
		}

		if rng.Float64() < cfg.TurnChance {
			dir = dirs[rng.Intn(len(dirs))]
		}

		x = min(max(1, x+dir.X), w-2)
		y = min(max(1, y+dir.Y), h-2)
		carve(x, y)

		if rng.Float64() < cfg.FattenChance {
			for _, d := range dirs {
				carve(x+d.X, y+d.Y)
			}
		}
	}

	return grid
}
