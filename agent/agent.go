// Package agent holds the navigating body: continuous position, heading and wall sliding.
package agent

import (
	"math"

	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Walls is the collision view of the map
type Walls interface {
	IsFree(c core.Cell) bool
}

// Agent is the viewer and navigating body. Position is in cell units, heading in radians [0, 2π).
type Agent struct {
	X, Y      float64
	Heading   float64
	Speed     float64 // cells per second
	TurnSpeed float64 // radians per second
	Radius    float64 // collision margin around the center
}

// Cell returns the cell containing the agent
func (a *Agent) Cell() core.Cell {
	return core.CellAt(a.X, a.Y)
}

// SetHeading stores a normalized heading
func (a *Agent) SetHeading(h float64) {
	a.Heading = vmath.NormalizeAngle(h)
}

// Rotate turns by delta radians
func (a *Agent) Rotate(delta float64) {
	a.SetHeading(a.Heading + delta)
}

// Direction returns the unit facing vector
func (a *Agent) Direction() (float64, float64) {
	return math.Cos(a.Heading), math.Sin(a.Heading)
}

// probe offsets a displacement by the collision radius in its direction of travel
func probe(d, r float64) float64 {
	switch {
	case d > 0:
		return d + r
	case d < 0:
		return d - r
	default:
		return 0
	}
}

// Move applies a displacement with wall sliding: X is applied when the cell at the
// candidate X is free, then Y is checked using the already-updated X.
// Blocked axes are dropped; the agent never enters an occupied cell.
func (a *Agent) Move(dx, dy float64, walls Walls) {
	if dx != 0 && walls.IsFree(core.CellAt(a.X+probe(dx, a.Radius), a.Y)) {
		a.X += dx
	}
	if dy != 0 && walls.IsFree(core.CellAt(a.X, a.Y+probe(dy, a.Radius))) {
		a.Y += dy
	}
}

// Forward moves along the heading by dist with sliding collision
func (a *Agent) Forward(dist float64, walls Walls) {
	cx, cy := a.Direction()
	a.Move(cx*dist, cy*dist, walls)
}

// Strafe moves perpendicular to the heading, positive to the right on screen
func (a *Agent) Strafe(dist float64, walls Walls) {
	cx, cy := a.Direction()
	a.Move(-cy*dist, cx*dist, walls)
}

// PlaceAt centers the agent on c
func (a *Agent) PlaceAt(c core.Cell) {
	a.X, a.Y = c.Center()
}
