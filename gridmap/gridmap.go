// Package gridmap holds the immutable tile map: a sparse wall set with per-wall material.
package gridmap

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lixenwraith/ray-pilot/core"
)

// Material identifies a wall texture; 0 is never stored
type Material int

var (
	ErrEmptyMap   = errors.New("map has no cells")
	ErrRaggedRows = errors.New("map rows differ in length")
)

// Map is a width×height grid. Cells in walls are occupied, other in-bounds cells are free,
// out-of-bounds cells are occupied. Immutable after construction.
type Map struct {
	width, height int
	walls         map[core.Cell]Material
}

// New builds a map from an explicit wall set; the set is copied
func New(width, height int, walls map[core.Cell]Material) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyMap
	}
	m := &Map{
		width:  width,
		height: height,
		walls:  make(map[core.Cell]Material, len(walls)),
	}
	for c, mat := range walls {
		if !m.InBounds(c) || mat <= 0 {
			continue
		}
		m.walls[c] = mat
	}
	return m, nil
}

// FromRows builds a map from a row-major grid: 0 is floor, n > 0 is wall material n
func FromRows(rows [][]int) (*Map, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMap
	}
	width := len(rows[0])
	walls := make(map[core.Cell]Material)
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(row), width)
		}
		for x, v := range row {
			if v > 0 {
				walls[core.Cell{X: x, Y: y}] = Material(v)
			}
		}
	}
	return New(width, len(rows), walls)
}

// FromGrid builds a map from a wall mask; material picks the texture for each wall cell
func FromGrid(grid [][]bool, material func(c core.Cell) Material) (*Map, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrEmptyMap
	}
	walls := make(map[core.Cell]Material)
	for y, row := range grid {
		if len(row) != len(grid[0]) {
			return nil, fmt.Errorf("%w: row %d", ErrRaggedRows, y)
		}
		for x, wall := range row {
			if !wall {
				continue
			}
			c := core.Cell{X: x, Y: y}
			mat := Material(1)
			if material != nil {
				mat = max(material(c), 1)
			}
			walls[c] = mat
		}
	}
	return New(len(grid[0]), len(grid), walls)
}

// Size returns map dimensions in cells
func (m *Map) Size() (int, int) {
	return m.width, m.height
}

// InBounds reports whether c lies inside the map
func (m *Map) InBounds(c core.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < m.width && c.Y < m.height
}

// IsFree reports whether c is in bounds and not a wall
func (m *Map) IsFree(c core.Cell) bool {
	if !m.InBounds(c) {
		return false
	}
	_, wall := m.walls[c]
	return !wall
}

// Material returns the wall material at c; out-of-bounds cells report material 1
func (m *Map) Material(c core.Cell) (Material, bool) {
	if !m.InBounds(c) {
		return 1, true
	}
	mat, ok := m.walls[c]
	return mat, ok
}

// FreeCells returns all free cells in row-major order
func (m *Map) FreeCells() []core.Cell {
	cells := make([]core.Cell, 0, m.width*m.height-len(m.walls))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			c := core.Cell{X: x, Y: y}
			if _, wall := m.walls[c]; !wall {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// Walls returns wall cells in row-major order
func (m *Map) Walls() []core.Cell {
	cells := make([]core.Cell, 0, len(m.walls))
	for c := range m.walls {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// String renders the map as text: '#' walls (digits for materials above 1), '.' floor
func (m *Map) String() string {
	buf := make([]byte, 0, (m.width+1)*m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			mat, wall := m.walls[core.Cell{X: x, Y: y}]
			switch {
			case !wall:
				buf = append(buf, '.')
			case mat == 1 || mat > 9:
				buf = append(buf, '#')
			default:
				buf = append(buf, byte('0'+mat))
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
