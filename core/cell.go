package core

import "math"

// Cell is an integer grid coordinate, row y and column x
type Cell struct {
	X, Y int
}

// CellAt returns the cell containing world position (x, y)
func CellAt(x, y float64) Cell {
	return Cell{X: int(math.Floor(x)), Y: int(math.Floor(y))}
}

// Center returns the world coordinates of the cell center
func (c Cell) Center() (float64, float64) {
	return float64(c.X) + 0.5, float64(c.Y) + 0.5
}

// Offset returns the cell displaced by (dx, dy)
func (c Cell) Offset(dx, dy int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Chebyshev returns the king-move distance between two cells
func Chebyshev(a, b Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}
