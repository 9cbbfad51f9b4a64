package navigation

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/ray-pilot/core"
)

// ErrPaletteTooSmall rejects configurations with fewer colors than waypoints
var ErrPaletteTooSmall = errors.New("palette smaller than waypoint count")

// Rand is the random source the sequencer draws from
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Waypoint is a generated destination; Ordinal indexes AllWaypoints and the palette
type Waypoint struct {
	Cell    core.Cell
	Ordinal int
	Color   core.NamedColor
}

// RouteStep is one cell of a stitched route. Waypoint is set on the step that completes a leg.
type RouteStep struct {
	Cell     core.Cell
	Waypoint *Waypoint
}

// Route is the ordered cell sequence the agent follows; only the head is ever removed
type Route struct {
	steps []RouteStep
}

// NewRoute wraps explicit steps, for callers that build routes outside the sequencer
func NewRoute(steps []RouteStep) Route {
	return Route{steps: append([]RouteStep(nil), steps...)}
}

// Len returns remaining steps
func (r *Route) Len() int {
	return len(r.steps)
}

// Empty reports whether no steps remain
func (r *Route) Empty() bool {
	return len(r.steps) == 0
}

// Head returns the next step without removing it
func (r *Route) Head() (RouteStep, bool) {
	if len(r.steps) == 0 {
		return RouteStep{}, false
	}
	return r.steps[0], true
}

// Pop removes and returns the head step
func (r *Route) Pop() (RouteStep, bool) {
	if len(r.steps) == 0 {
		return RouteStep{}, false
	}
	s := r.steps[0]
	r.steps = r.steps[1:]
	return s, true
}

// Cells returns a copy of the remaining cells
func (r *Route) Cells() []core.Cell {
	out := make([]core.Cell, len(r.steps))
	for i, s := range r.steps {
		out[i] = s.Cell
	}
	return out
}

// SequencerConfig holds resolved per-session sequencing parameters
type SequencerConfig struct {
	WaypointCount   int
	SkipProbability float64
	Palette         []core.NamedColor
	Attempts        int
	StepLimit       int
}

// Sequencer generates waypoint sets and stitches the route through them.
// State is replaced wholesale on every Generate.
type Sequencer struct {
	grid   Grid
	pf     Pathfinder
	rng    Rand
	cfg    SequencerConfig
	logger *zap.Logger

	all      []Waypoint
	retained []Waypoint
	route    Route
	revisits int
	enabled  bool
}

// NewSequencer creates a sequencer; call Generate to produce the first route.
// Every waypoint needs its own palette color, so a palette shorter than the
// waypoint count is rejected.
func NewSequencer(grid Grid, pf Pathfinder, rng Rand, cfg SequencerConfig, logger *zap.Logger) (*Sequencer, error) {
	cfg.WaypointCount = max(cfg.WaypointCount, 1)
	if len(cfg.Palette) < cfg.WaypointCount {
		return nil, fmt.Errorf("%w: %d colors for %d waypoints", ErrPaletteTooSmall, len(cfg.Palette), cfg.WaypointCount)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{
		grid:   grid,
		pf:     pf,
		rng:    rng,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Enabled reports whether the last Generate produced a usable route
func (s *Sequencer) Enabled() bool {
	return s.enabled
}

// Route returns the live route; the motion controller pops from it
func (s *Sequencer) Route() *Route {
	return &s.route
}

// AllWaypoints returns every accepted waypoint in generation order, including skipped ones
func (s *Sequencer) AllWaypoints() []Waypoint {
	return s.all
}

// Waypoints returns the retained waypoints the route visits, in order
func (s *Sequencer) Waypoints() []Waypoint {
	return s.retained
}

// Revisits returns how many route steps land on a cell the route already covers,
// the agent's start cell included
func (s *Sequencer) Revisits() int {
	return s.revisits
}

// Start returns the first retained waypoint
func (s *Sequencer) Start() (Waypoint, bool) {
	if len(s.retained) == 0 {
		return Waypoint{}, false
	}
	return s.retained[0], true
}

// Goal returns the last retained waypoint
func (s *Sequencer) Goal() (Waypoint, bool) {
	if len(s.retained) == 0 {
		return Waypoint{}, false
	}
	return s.retained[len(s.retained)-1], true
}

// Skipped reports whether the waypoint at ordinal was filtered out of the route
func (s *Sequencer) Skipped(ordinal int) bool {
	for _, w := range s.retained {
		if w.Ordinal == ordinal {
			return false
		}
	}
	return ordinal >= 0 && ordinal < len(s.all)
}

func (s *Sequencer) disable() {
	s.all = nil
	s.retained = nil
	s.route = Route{}
	s.revisits = 0
	s.enabled = false
}

// Generate draws a fresh waypoint set starting from the agent cell and stitches the route.
// Returns false when navigation is disabled: no free cells, no reachable candidates,
// or a stitching leg failed.
func (s *Sequencer) Generate(from core.Cell) bool {
	s.disable()

	free := s.grid.FreeCells()
	if len(free) == 0 {
		s.logger.Warn("no free cells, navigation disabled")
		return false
	}

	k := s.cfg.WaypointCount
	accepted := s.pickWaypoints(from, free, k)
	if len(accepted) == 0 {
		s.logger.Warn("no reachable waypoint found, navigation disabled",
			zap.Int("free_cells", len(free)),
			zap.Int("attempts", s.cfg.Attempts))
		return false
	}
	if len(accepted) < k {
		s.logger.Debug("waypoint set truncated", zap.Int("want", k), zap.Int("got", len(accepted)))
	}

	s.all = make([]Waypoint, len(accepted))
	for i, c := range accepted {
		s.all[i] = Waypoint{Cell: c, Ordinal: i, Color: s.cfg.Palette[i]}
	}

	s.retained = s.filter(s.all)

	steps, revisits, ok := s.stitch(from, s.retained)
	if !ok {
		s.all = nil
		s.retained = nil
		return false
	}
	s.route = Route{steps: steps}
	s.revisits = revisits
	s.enabled = true

	s.logger.Debug("route generated",
		zap.Int("waypoints", len(s.all)),
		zap.Int("retained", len(s.retained)),
		zap.Int("steps", len(steps)),
		zap.Int("revisits", revisits))
	return true
}

// pickWaypoints samples free cells, accepting each only when a route from the cursor reaches it
func (s *Sequencer) pickWaypoints(from core.Cell, free []core.Cell, k int) []core.Cell {
	accepted := make([]core.Cell, 0, k)
	cursor := from
	attempts := s.cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	for tries := 0; tries < attempts && len(accepted) < k; tries++ {
		candidate := free[s.rng.Intn(len(free))]
		if len(accepted) > 0 && candidate == accepted[len(accepted)-1] {
			continue
		}
		if candidate == cursor {
			continue
		}
		res := BuildRoute(s.pf, cursor, candidate, s.cfg.StepLimit)
		if !res.OK() || len(res.Cells) == 0 || res.Cells[len(res.Cells)-1] != candidate {
			continue
		}
		accepted = append(accepted, candidate)
		cursor = candidate
	}
	return accepted
}

// filter drops each waypoint independently with the skip probability; the last one survives
// when everything else was dropped. Order is preserved.
func (s *Sequencer) filter(all []Waypoint) []Waypoint {
	kept := make([]Waypoint, 0, len(all))
	for _, w := range all {
		if s.rng.Float64() < s.cfg.SkipProbability {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		kept = append(kept, all[len(all)-1])
	}
	return kept
}

// stitch concatenates legs from the agent cell through each waypoint in order and
// counts steps onto cells already covered.
// A leg that starts on its waypoint contributes that cell alone so arrival is still observed.
func (s *Sequencer) stitch(from core.Cell, waypoints []Waypoint) ([]RouteStep, int, bool) {
	var steps []RouteStep
	seen := mapset.New[core.Cell]()
	seen.Put(from)
	revisits := 0
	cursor := from

	for i := range waypoints {
		w := &waypoints[i]
		if w.Cell == cursor {
			steps = append(steps, RouteStep{Cell: w.Cell, Waypoint: w})
			revisits++
			continue
		}

		res := BuildRoute(s.pf, cursor, w.Cell, s.cfg.StepLimit)
		if !res.OK() {
			s.logger.Warn("route leg failed",
				zap.Int("leg", i),
				zap.Stringer("failure", res.Failure),
				zap.Error(res.Err))
			return nil, 0, false
		}
		for j, c := range res.Cells {
			step := RouteStep{Cell: c}
			if j == len(res.Cells)-1 {
				step.Waypoint = w
			}
			steps = append(steps, step)
			if seen.Has(c) {
				revisits++
			}
			seen.Put(c)
		}
		cursor = w.Cell
	}
	return steps, revisits, true
}
