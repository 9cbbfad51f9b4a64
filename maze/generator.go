// Package maze generates tile layouts: braided mazes and drunkard-walk dungeons.
package maze

import (
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Cell types
const (
	Wall    = true
	Passage = false
)

// MaterialCount is the number of wall textures generators assign
const MaterialCount = 5

type Config struct {
	Width, Height int

	// Braiding: 0.0 (Perfect Maze/Tree) to 1.0 (No dead ends/Graph).
	// Higher values add cycles. Constraints (No Plazas/Pillars) take precedence.
	Braiding float64

	StartPos *core.Cell // Optional (nil = Automatic)
	EndPos   *core.Cell // Optional (nil = Automatic)
	Seed     uint64     // Optional (0 = Random)
}

type Result struct {
	Grid         [][]bool
	Start, End   core.Cell
	SolutionPath []core.Cell
}

// Generate creates a stochastic topological maze.
func Generate(cfg Config) Result {
	// Round down to odd so rooms sit on odd coordinates inside a wall border
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	grid := newWallGrid(cols, rows)
	rng := vmath.NewFastRand(cfg.Seed)

	start := resolvePoint(rows, cols, cfg.StartPos, 1, 1)
	end := resolvePoint(rows, cols, cfg.EndPos, cols-2, rows-2)

	// Recursive backtracker yields a uniform spanning tree
	recursiveBacktracker(grid, start, rng)

	// Braiding introduces cycles while preventing plazas and pillars
	if cfg.Braiding > 0 {
		applySmartBraiding(grid, cfg.Braiding, rng)
	}

	forceOpen(grid, start)
	forceOpen(grid, end)

	return Result{
		Grid:         grid,
		Start:        start,
		End:          end,
		SolutionPath: solveBFS(grid, start, end),
	}
}

// ToMap converts a wall grid into a gridmap with materials drawn from rng.
// Border walls use material 1; interior walls pick from 1..MaterialCount.
func ToMap(grid [][]bool, seed uint64) (*gridmap.Map, error) {
	rng := vmath.NewFastRand(seed)
	rows := len(grid)
	return gridmap.FromGrid(grid, func(c core.Cell) gridmap.Material {
		if c.X == 0 || c.Y == 0 || c.Y == rows-1 || c.X == len(grid[c.Y])-1 {
			return 1
		}
		return gridmap.Material(1 + rng.Intn(MaterialCount))
	})
}

// --- Core Algorithms ---

func recursiveBacktracker(grid [][]bool, start core.Cell, rng *vmath.FastRand) {
	rows, cols := len(grid), len(grid[0])

	if start.X < 0 || start.X >= cols || start.Y < 0 || start.Y >= rows {
		start = core.Cell{X: 1, Y: 1}
	}

	stack := []core.Cell{start}
	grid[start.Y][start.X] = Passage

	dirs := []core.Cell{{X: 0, Y: -2}, {X: 0, Y: 2}, {X: -2, Y: 0}, {X: 2, Y: 0}}
	candidates := make([]core.Cell, 0, 4)

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]

		for _, d := range dirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			// Leave 1 cell border for walls
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && grid[ny][nx] == Wall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		grid[curr.Y+d.Y/2][curr.X+d.X/2] = Passage
		next := curr.Offset(d.X, d.Y)
		grid[next.Y][next.X] = Passage
		stack = append(stack, next)
	}
}

func applySmartBraiding(grid [][]bool, probability float64, rng *vmath.FastRand) {
	rows, cols := len(grid), len(grid[0])
	ortho := []core.Cell{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if grid[y][x] == Wall {
				continue
			}

			// Dead end: exactly one passage neighbor
			exits := 0
			for _, d := range ortho {
				if grid[y+d.Y][x+d.X] == Passage {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			var candidates []core.Cell
			for _, d := range ortho {
				nx, ny := x+2*d.X, y+2*d.Y
				wx, wy := x+d.X, y+d.Y
				if nx < 0 || nx >= cols || ny < 0 || ny >= rows {
					continue
				}
				if grid[ny][nx] == Passage && grid[wy][wx] == Wall && canSafelyRemoveWall(grid, wx, wy) {
					candidates = append(candidates, core.Cell{X: wx, Y: wy})
				}
			}

			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				grid[c.Y][c.X] = Passage
			}
		}
	}
}

// canSafelyRemoveWall reports whether opening grid[y][x] avoids 2x2 plazas and isolated pillars
func canSafelyRemoveWall(grid [][]bool, x, y int) bool {
	rows, cols := len(grid), len(grid[0])

	isP := func(tx, ty int) bool {
		if tx < 0 || tx >= cols || ty < 0 || ty >= rows {
			return false
		}
		return grid[ty][tx] == Passage
	}

	// No plazas: none of the four 2x2 quadrants around (x,y) may become fully open
	if isP(x-1, y-1) && isP(x, y-1) && isP(x-1, y) {
		return false
	}
	if isP(x, y-1) && isP(x+1, y-1) && isP(x+1, y) {
		return false
	}
	if isP(x-1, y) && isP(x-1, y+1) && isP(x, y+1) {
		return false
	}
	if isP(x+1, y) && isP(x, y+1) && isP(x+1, y+1) {
		return false
	}

	// No pillars: every orthogonal wall neighbor keeps another wall connection
	ortho := []core.Cell{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	for _, d := range ortho {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows || grid[ny][nx] != Wall {
			continue
		}
		connections := 0
		for _, d2 := range ortho {
			nnx, nny := nx+d2.X, ny+d2.Y
			if nnx == x && nny == y {
				continue
			}
			if nnx >= 0 && nnx < cols && nny >= 0 && nny < rows && grid[nny][nnx] == Wall {
				connections++
			}
		}
		if connections == 0 {
			return false
		}
	}

	return true
}

// --- Helpers ---

func newWallGrid(cols, rows int) [][]bool {
	grid := make([][]bool, rows)
	for i := range grid {
		grid[i] = make([]bool, cols)
		for j := range grid[i] {
			grid[i][j] = Wall
		}
	}
	return grid
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

func resolvePoint(h, w int, p *core.Cell, defX, defY int) core.Cell {
	if p == nil {
		return core.Cell{X: defX, Y: defY}
	}
	return core.Cell{
		X: min(max(p.X, 1), w-2),
		Y: min(max(p.Y, 1), h-2),
	}
}

func forceOpen(grid [][]bool, p core.Cell) {
	rows, cols := len(grid), len(grid[0])
	if p.X < 0 || p.Y < 0 || p.Y >= rows || p.X >= cols {
		return
	}
	grid[p.Y][p.X] = Passage

	dirs := []core.Cell{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}
	for _, d := range dirs {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx >= 0 && nx < cols && ny >= 0 && ny < rows && grid[ny][nx] == Passage {
			return
		}
	}
	// Isolated: connect to the first interior neighbor
	for _, d := range dirs {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 {
			grid[ny][nx] = Passage
			return
		}
	}
}

func solveBFS(grid [][]bool, start, end core.Cell) []core.Cell {
	rows, cols := len(grid), len(grid[0])
	inside := func(c core.Cell) bool {
		return c.X >= 0 && c.Y >= 0 && c.X < cols && c.Y < rows
	}
	if !inside(start) || !inside(end) || grid[start.Y][start.X] == Wall || grid[end.Y][end.X] == Wall {
		return nil
	}

	queue := []core.Cell{start}
	cameFrom := map[core.Cell]core.Cell{start: start}
	dirs := []core.Cell{{X: 0, Y: -1}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 1, Y: 0}}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		if curr == end {
			var path []core.Cell
			for curr != start {
				path = append(path, curr)
				curr = cameFrom[curr]
			}
			path = append(path, start)
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range dirs {
			next := curr.Offset(d.X, d.Y)
			if !inside(next) || grid[next.Y][next.X] == Wall {
				continue
			}
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = curr
			queue = append(queue, next)
		}
	}
	return nil
}
