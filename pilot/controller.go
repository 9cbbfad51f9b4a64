// Package pilot drives the agent along the sequencer's route: turn in place, then advance.
package pilot

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/agent"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// State is the controller outcome of one tick
type State int

const (
	StateNoRoute       State = iota // Navigation disabled or route exhausted earlier
	StateTurning                    // Rotated in place toward the route head
	StateAdvancing                  // Moved toward the route head
	StateArrivedLeg                 // Reached at least one route cell this tick, more remain
	StateRouteComplete              // Reached the final route cell; caller regenerates or stops
)

func (s State) String() string {
	switch s {
	case StateNoRoute:
		return "no_route"
	case StateTurning:
		return "turning"
	case StateAdvancing:
		return "advancing"
	case StateArrivedLeg:
		return "arrived_leg"
	case StateRouteComplete:
		return "route_complete"
	default:
		return "unknown"
	}
}

// Navigator exposes the live route
type Navigator interface {
	Enabled() bool
	Route() *navigation.Route
}

// Recorder persists waypoint arrivals
type Recorder interface {
	Record(w navigation.Waypoint, at time.Time) error
}

type Config struct {
	TurnSpeed       float64 // rad/s
	AlignTolerance  float64 // rad
	ArrivalRadiusSq float64 // cells²
}

// Controller is the autopilot state machine. It owns no route state; the sequencer does.
type Controller struct {
	agent  *agent.Agent
	walls  agent.Walls
	nav    Navigator
	rec    Recorder
	cfg    Config
	logger *zap.Logger

	// OnArrive fires once per completed waypoint, after recording
	OnArrive func(w navigation.Waypoint)

	now func() time.Time
}

// NewController wires the controller; rec may be nil when recording is off
func NewController(a *agent.Agent, walls agent.Walls, nav Navigator, rec Recorder, cfg Config, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		agent:  a,
		walls:  walls,
		nav:    nav,
		rec:    rec,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the arrival timestamp source
func (c *Controller) SetClock(now func() time.Time) {
	c.now = now
}

// Tick advances the controller by dt
func (c *Controller) Tick(dt time.Duration) State {
	if !c.nav.Enabled() {
		return StateNoRoute
	}
	route := c.nav.Route()
	if route.Empty() {
		return StateNoRoute
	}

	arrived := false
	for {
		head, _ := route.Head()
		tx, ty := head.Cell.Center()
		if vmath.DistSq(c.agent.X, c.agent.Y, tx, ty) >= c.cfg.ArrivalRadiusSq {
			break
		}

		route.Pop()
		arrived = true
		if head.Waypoint != nil {
			c.arrive(*head.Waypoint)
		}
		if route.Empty() {
			return StateRouteComplete
		}
	}

	state := c.steer(dt)
	if arrived {
		return StateArrivedLeg
	}
	return state
}

// steer turns toward the route head, or advances when aligned
func (c *Controller) steer(dt time.Duration) State {
	head, _ := c.nav.Route().Head()
	tx, ty := head.Cell.Center()
	a := c.agent

	bearing := math.Atan2(ty-a.Y, tx-a.X)
	delta := vmath.AngleDelta(a.Heading, bearing)
	secs := dt.Seconds()

	if math.Abs(delta) > c.cfg.AlignTolerance {
		a.Heading = vmath.RotateToward(a.Heading, bearing, c.cfg.TurnSpeed*secs)
		return StateTurning
	}

	a.SetHeading(bearing)
	remaining := math.Sqrt(vmath.DistSq(a.X, a.Y, tx, ty))
	a.Forward(math.Min(a.Speed*secs, remaining), c.walls)
	return StateAdvancing
}

func (c *Controller) arrive(w navigation.Waypoint) {
	if c.rec != nil {
		if err := c.rec.Record(w, c.now()); err != nil {
			c.logger.Warn("record waypoint failed", zap.Int("ordinal", w.Ordinal), zap.Error(err))
		}
	}
	c.logger.Info("waypoint reached",
		zap.Int("ordinal", w.Ordinal),
		zap.String("color", w.Color.Name),
		zap.Int("x", w.Cell.X),
		zap.Int("y", w.Cell.Y))
	if c.OnArrive != nil {
		c.OnArrive(w)
	}
}
