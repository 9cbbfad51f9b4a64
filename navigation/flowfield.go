package navigation

import "github.com/lixenwraith/ray-pilot/core"

// Direction constants for flow field
// Index into DirVectors: N=0, NE=1, E=2, SE=3, S=4, SW=5, W=6, NW=7
const (
	DirNone   int8 = -1 // Blocked or unreachable
	DirTarget int8 = -2 // At target cell
	DirCount  int8 = 8
)

// DirVectors are unit cell offsets, order N, NE, E, SE, S, SW, W, NW
var DirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// Weighted edge costs: cardinal = 10, diagonal = 14 (≈10√2)
const (
	costCardinal    = 10
	costDiagonal    = 14
	costUnreachable = 1<<30 - 1
)

var dirCosts = [8]int{
	costCardinal, costDiagonal, costCardinal, costDiagonal,
	costCardinal, costDiagonal, costCardinal, costDiagonal,
}

// WallChecker returns true if the cell blocks navigation, including out-of-bounds cells
type WallChecker func(x, y int) bool

type heapEntry struct {
	idx  int // Flat grid index (y*width + x)
	dist int
}

type minHeap []heapEntry

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if (*h)[parent].dist <= (*h)[i].dist {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && (*h)[right].dist < (*h)[left].dist {
			smallest = right
		}
		if (*h)[i].dist <= (*h)[smallest].dist {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

// FlowField stores per-cell steepest-descent directions toward one target cell
type FlowField struct {
	Width, Height int
	Directions    []int8
	Distances     []int

	Target core.Cell
	Valid  bool

	// Reused across recomputes
	heap minHeap
}

// NewFlowField creates an empty flow field for the given dimensions
func NewFlowField(width, height int) *FlowField {
	size := width * height
	return &FlowField{
		Width:      width,
		Height:     height,
		Directions: make([]int8, size),
		Distances:  make([]int, size),
		Target:     core.Cell{X: -1, Y: -1},
		heap:       make(minHeap, 0, size/4),
	}
}

func (f *FlowField) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// cutsCorner reports whether a diagonal move from (x,y) along dir squeezes past a wall
func cutsCorner(x, y int, dir int8, isBlocked WallChecker) bool {
	dx, dy := DirVectors[dir][0], DirVectors[dir][1]
	if dx == 0 || dy == 0 {
		return false
	}
	return isBlocked(x+dx, y) || isBlocked(x, y+dy)
}

// Compute runs weighted Dijkstra outward from target, then points every reached cell
// at its lowest-distance neighbor. Diagonal moves past wall corners are excluded.
func (f *FlowField) Compute(target core.Cell, isBlocked WallChecker) {
	if !f.inside(target.X, target.Y) || isBlocked(target.X, target.Y) {
		f.Valid = false
		return
	}

	w := f.Width
	for i := range f.Directions {
		f.Directions[i] = DirNone
		f.Distances[i] = costUnreachable
	}

	targetIdx := target.Y*w + target.X
	f.Distances[targetIdx] = 0
	f.heap = f.heap[:0]
	f.heap.push(heapEntry{idx: targetIdx})

	for len(f.heap) > 0 {
		entry := f.heap.pop()
		if entry.dist > f.Distances[entry.idx] {
			continue // Stale entry
		}
		cx, cy := entry.idx%w, entry.idx/w

		for dir := int8(0); dir < DirCount; dir++ {
			nx, ny := cx+DirVectors[dir][0], cy+DirVectors[dir][1]
			if !f.inside(nx, ny) || isBlocked(nx, ny) || cutsCorner(cx, cy, dir, isBlocked) {
				continue
			}
			nIdx := ny*w + nx
			if d := entry.dist + dirCosts[dir]; d < f.Distances[nIdx] {
				f.Distances[nIdx] = d
				f.heap.push(heapEntry{idx: nIdx, dist: d})
			}
		}
	}

	f.Directions[targetIdx] = DirTarget
	for y := 0; y < f.Height; y++ {
		for x := 0; x < w; x++ {
			dist := f.Distances[y*w+x]
			if dist >= costUnreachable || dist == 0 {
				continue
			}
			best, bestDist := DirNone, dist
			for dir := int8(0); dir < DirCount; dir++ {
				nx, ny := x+DirVectors[dir][0], y+DirVectors[dir][1]
				if !f.inside(nx, ny) || cutsCorner(x, y, dir, isBlocked) {
					continue
				}
				if nd := f.Distances[ny*w+nx]; nd < bestDist {
					best, bestDist = dir, nd
				}
			}
			f.Directions[y*w+x] = best
		}
	}

	f.Target = target
	f.Valid = true
}

// Direction returns the flow direction at c, DirNone if invalid or unreachable
func (f *FlowField) Direction(c core.Cell) int8 {
	if !f.Valid || !f.inside(c.X, c.Y) {
		return DirNone
	}
	return f.Directions[c.Y*f.Width+c.X]
}
