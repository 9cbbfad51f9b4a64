package vmath

import "math"

// RayTraverser implements a zero-allocation iterator for DDA grid traversal along a ray.
// Each call to Next enters the next cell crossed by the ray, in order of distance.
type RayTraverser struct {
	currX, currY int
	stepX, stepY int

	// Ray distance to the next vertical and horizontal grid line
	tMaxX, tMaxY float64
	// Ray distance between consecutive grid lines of each orientation
	tDeltaX, tDeltaY float64

	dist     float64
	crossedX bool
	started  bool
}

// NewRayTraverser creates an iterator from world origin (ox, oy) along direction (dx, dy).
// Distances are in units of the direction vector length; pass a unit vector for Euclidean distance.
func NewRayTraverser(ox, oy, dx, dy float64) RayTraverser {
	t := RayTraverser{
		currX: int(math.Floor(ox)),
		currY: int(math.Floor(oy)),
		stepX: 1,
		stepY: 1,
	}

	if dx == 0 {
		t.tMaxX = math.Inf(1)
		t.tDeltaX = math.Inf(1)
	} else {
		t.tDeltaX = math.Abs(1 / dx)
		if dx > 0 {
			t.tMaxX = (float64(t.currX) + 1 - ox) * t.tDeltaX
		} else {
			t.stepX = -1
			t.tMaxX = (ox - float64(t.currX)) * t.tDeltaX
		}
	}

	if dy == 0 {
		t.tMaxY = math.Inf(1)
		t.tDeltaY = math.Inf(1)
	} else {
		t.tDeltaY = math.Abs(1 / dy)
		if dy > 0 {
			t.tMaxY = (float64(t.currY) + 1 - oy) * t.tDeltaY
		} else {
			t.stepY = -1
			t.tMaxY = (oy - float64(t.currY)) * t.tDeltaY
		}
	}

	return t
}

// Next advances the traverser to the next cell.
// The first call yields the origin cell at distance 0.
func (t *RayTraverser) Next() bool {
	if !t.started {
		t.started = true
		return true
	}

	if t.tMaxX < t.tMaxY {
		t.dist = t.tMaxX
		t.currX += t.stepX
		t.tMaxX += t.tDeltaX
		t.crossedX = true
	} else {
		if math.IsInf(t.tMaxY, 1) {
			return false
		}
		t.dist = t.tMaxY
		t.currY += t.stepY
		t.tMaxY += t.tDeltaY
		t.crossedX = false
	}
	return true
}

// Pos returns the current grid coordinates.
func (t *RayTraverser) Pos() (int, int) {
	return t.currX, t.currY
}

// Distance returns the ray distance at which the current cell was entered
func (t *RayTraverser) Distance() float64 {
	return t.dist
}

// CrossedVertical reports whether the current cell was entered through a vertical grid line (x = const)
func (t *RayTraverser) CrossedVertical() bool {
	return t.crossedX
}
