package navigation

import (
	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/ray-pilot/core"
)

// Failure classifies why a route could not be built
type Failure int

const (
	FailureNone        Failure = iota
	FailureUnreachable         // Pathfinder reported an error
	FailureStalled             // Pathfinder returned the current cell
	FailureEmptyStep           // Pathfinder returned a cell not adjacent to the current one
	FailureCycle               // A cell was revisited
	FailureStepLimit           // Iteration cap reached before the goal
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureUnreachable:
		return "unreachable"
	case FailureStalled:
		return "stalled"
	case FailureEmptyStep:
		return "empty_step"
	case FailureCycle:
		return "cycle"
	case FailureStepLimit:
		return "step_limit"
	default:
		return "unknown"
	}
}

// RouteResult is the outcome of BuildRoute. On success Cells excludes start and ends
// at goal; start == goal succeeds with no cells. On failure Cells is nil.
type RouteResult struct {
	Cells   []core.Cell
	Failure Failure
	Err     error // Pathfinder error behind FailureUnreachable
}

// OK reports success
func (r RouteResult) OK() bool {
	return r.Failure == FailureNone
}

// BuildRoute chains single-step pathfinder queries from start until goal.
// limit caps the number of queries; non-positive means unlimited.
func BuildRoute(pf Pathfinder, start, goal core.Cell, limit int) RouteResult {
	var cells []core.Cell
	visited := mapset.New[core.Cell]()
	cur := start

	for i := 0; cur != goal; i++ {
		if limit > 0 && i >= limit {
			return RouteResult{Failure: FailureStepLimit}
		}
		if visited.Has(cur) {
			return RouteResult{Failure: FailureCycle}
		}
		visited.Put(cur)

		next, err := pf.NextStep(cur, goal)
		if err != nil {
			return RouteResult{Failure: FailureUnreachable, Err: err}
		}
		if next == cur {
			return RouteResult{Failure: FailureStalled}
		}
		if core.Chebyshev(cur, next) != 1 {
			return RouteResult{Failure: FailureEmptyStep}
		}
		cells = append(cells, next)
		cur = next
	}

	return RouteResult{Cells: cells}
}
