package navigation

import (
	"errors"

	"github.com/lixenwraith/ray-pilot/core"
)

var (
	ErrNoPath      = errors.New("goal unreachable")
	ErrBlocked     = errors.New("cell is not free")
	ErrOutOfBounds = errors.New("cell outside map")
)

// Pathfinder answers single-step queries: the next cell on a shortest path from cur to goal.
// Returned cells are always free and Chebyshev-adjacent to cur; cur == goal returns goal.
type Pathfinder interface {
	NextStep(cur, goal core.Cell) (core.Cell, error)
}

// Grid is the map view navigation needs
type Grid interface {
	Size() (int, int)
	IsFree(c core.Cell) bool
	FreeCells() []core.Cell
}

// FlowPathfinder answers NextStep from a flow field cached per goal cell.
// The field is recomputed only when the goal changes.
type FlowPathfinder struct {
	grid  Grid
	field *FlowField

	computes int
}

// NewFlowPathfinder creates a pathfinder over an immutable grid
func NewFlowPathfinder(grid Grid) *FlowPathfinder {
	w, h := grid.Size()
	return &FlowPathfinder{
		grid:  grid,
		field: NewFlowField(w, h),
	}
}

func (p *FlowPathfinder) isBlocked(x, y int) bool {
	return !p.grid.IsFree(core.Cell{X: x, Y: y})
}

// NextStep implements Pathfinder
func (p *FlowPathfinder) NextStep(cur, goal core.Cell) (core.Cell, error) {
	w, h := p.grid.Size()
	for _, c := range [2]core.Cell{cur, goal} {
		if c.X < 0 || c.Y < 0 || c.X >= w || c.Y >= h {
			return core.Cell{}, ErrOutOfBounds
		}
		if !p.grid.IsFree(c) {
			return core.Cell{}, ErrBlocked
		}
	}
	if cur == goal {
		return goal, nil
	}

	if !p.field.Valid || p.field.Target != goal {
		p.field.Compute(goal, p.isBlocked)
		p.computes++
	}

	dir := p.field.Direction(cur)
	if dir < 0 {
		return core.Cell{}, ErrNoPath
	}
	return cur.Offset(DirVectors[dir][0], DirVectors[dir][1]), nil
}

// Computes returns how many flow fields have been built
func (p *FlowPathfinder) Computes() int {
	return p.computes
}
