// Package engine wires map, autopilot, renderer and session into a tick-driven game.
package engine

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/agent"
	"github.com/lixenwraith/ray-pilot/audio"
	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/gridmap"
	"github.com/lixenwraith/ray-pilot/navigation"
	"github.com/lixenwraith/ray-pilot/network"
	"github.com/lixenwraith/ray-pilot/parameter"
	"github.com/lixenwraith/ray-pilot/pilot"
	"github.com/lixenwraith/ray-pilot/raycast"
	"github.com/lixenwraith/ray-pilot/render"
	"github.com/lixenwraith/ray-pilot/session"
	"github.com/lixenwraith/ray-pilot/sprite"
	"github.com/lixenwraith/ray-pilot/status"
	"github.com/lixenwraith/ray-pilot/vmath"
)

// Outcome is the run status reported after each tick
type Outcome int

const (
	OutcomeRunning    Outcome = iota
	OutcomeTerminated         // Route completed in terminate mode
	OutcomeQuit               // User or context stop
	OutcomeTickLimit          // run.max_ticks reached
	OutcomeNoRoute            // Autopilot has nothing to follow
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeTerminated:
		return "terminated"
	case OutcomeQuit:
		return "quit"
	case OutcomeTickLimit:
		return "tick_limit"
	case OutcomeNoRoute:
		return "no_route"
	default:
		return "unknown"
	}
}

// Presenter displays a rendered frame
type Presenter interface {
	Present(frame *render.Frame, status render.Status)
}

// Publisher receives per-tick telemetry. Snapshots are only built while Clients is non-zero.
type Publisher interface {
	Publish(snap network.Snapshot)
	Clients() int
}

// Deps are collaborators shared across sessions; nil members are optional
type Deps struct {
	Logger    *zap.Logger
	Now       func() time.Time
	Sounds    *audio.Sounds
	Presenter Presenter
	Publisher Publisher
	Metrics   *status.Registry // Shared across sessions of a batch
}

// Game is one session: a map, an agent and everything that moves or draws it
type Game struct {
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
	rng    *vmath.FastRand

	resolved config.Resolved
	world    *gridmap.Map
	agent    *agent.Agent
	seq      *navigation.Sequencer
	ctrl     *pilot.Controller
	spawner  *sprite.Spawner
	sprites  []*sprite.Sprite

	renderer *render.Renderer
	frame    *render.Frame
	session  *session.Session
	capture  *session.FrameRecorder

	sounds    *audio.Sounds
	presenter Presenter
	publisher Publisher
	metrics   *status.Registry

	autopilot bool
	overlay   bool
	birdView  bool

	input   []Command
	ticks   uint64
	state   pilot.State
	outcome Outcome
}

// New builds a session from cfg. The seed drives map generation, spawn, palette
// resolution and waypoint picks; 0 draws one from the clock.
func New(cfg *config.Config, seed uint64, deps Deps) (*Game, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	sounds := deps.Sounds
	if sounds == nil {
		sounds = audio.Silent()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = status.NewRegistry()
	}

	rng := vmath.NewFastRand(seed)
	resolved := cfg.Resolve(rng)

	mapSeed := cfg.Map.Seed
	if mapSeed == 0 {
		mapSeed = rng.Next()
	}
	world, fileSpawn, err := BuildMap(cfg.Map, mapSeed)
	if err != nil {
		return nil, fmt.Errorf("build map: %w", err)
	}

	x, y, err := spawnPoint(world, fileSpawn, cfg.Player, rng)
	if err != nil {
		return nil, err
	}
	a := &agent.Agent{
		X:         x,
		Y:         y,
		Speed:     cfg.Player.Speed,
		TurnSpeed: cfg.Player.TurnSpeed,
		Radius:    cfg.Player.Radius,
	}
	a.SetHeading(cfg.Player.Heading)

	root := ""
	if cfg.Recording.Enabled {
		root = cfg.Recording.Dir
	}
	sess, err := session.New(root, resolved.Palette, now(), logger)
	if err != nil {
		return nil, err
	}

	g := &Game{
		cfg:       cfg,
		logger:    logger.With(zap.String("session", sess.ID())),
		now:       now,
		rng:       rng,
		resolved:  resolved,
		world:     world,
		agent:     a,
		session:   sess,
		sounds:    sounds,
		presenter: deps.Presenter,
		publisher: deps.Publisher,
		metrics:   metrics,
		autopilot: cfg.Autopilot.Enabled,
		overlay:   cfg.Display.Overlay,
		birdView:  cfg.Display.BirdView,
	}

	g.seq, err = navigation.NewSequencer(world, navigation.NewFlowPathfinder(world), rng, navigation.SequencerConfig{
		WaypointCount:   resolved.WaypointCount,
		SkipProbability: resolved.SkipProbability,
		Palette:         resolved.Palette,
		Attempts:        cfg.Autopilot.GenerateAttempts,
		StepLimit:       cfg.Autopilot.RouteStepLimit,
	}, g.logger.Named("sequencer"))
	if err != nil {
		return nil, err
	}

	g.ctrl = pilot.NewController(a, world, g.seq, sess, pilot.Config{
		TurnSpeed:       cfg.Autopilot.TurnSpeed,
		AlignTolerance:  cfg.Autopilot.AlignTolerance,
		ArrivalRadiusSq: cfg.Autopilot.ArrivalRadiusSq,
	}, g.logger.Named("pilot"))
	g.ctrl.SetClock(now)
	g.ctrl.OnArrive = func(navigation.Waypoint) {
		g.metrics.Arrivals.Add(1)
		g.cue(core.SoundArrive)
	}

	g.spawner = sprite.NewSpawner(sprite.SpawnerConfig{
		Dir:       cfg.Assets.Dir,
		Scale:     cfg.Assets.Scale,
		Shift:     cfg.Assets.Shift,
		FrameTime: cfg.Assets.FrameTime,
	}, g.logger.Named("sprites"))

	eng := raycast.NewEngine(raycast.Config{
		Width:    cfg.Display.Width,
		Height:   cfg.Display.Height,
		FOV:      cfg.Display.FOV,
		Rays:     cfg.RayCount(),
		MaxDepth: cfg.Display.MaxDepth,
	})
	g.renderer = render.NewRenderer(eng, render.NewTextures(parameter.TextureSize, mapSeed), cfg.Display.FloorStride)
	g.frame = render.NewFrame(cfg.Display.Width, cfg.Display.Height)

	if cfg.Recording.Enabled && cfg.Recording.CaptureFrames {
		g.capture = session.NewFrameRecorder(sess.Dir(), cfg.Recording.CaptureWidth, cfg.Recording.CaptureHeight, g.logger.Named("capture"))
	}

	w, h := world.Size()
	g.logger.Info("session ready",
		zap.Int("map_w", w),
		zap.Int("map_h", h),
		zap.Float64("x", x),
		zap.Float64("y", y),
		zap.Int("waypoints", resolved.WaypointCount),
		zap.Float64("skip", resolved.SkipProbability),
	)

	g.metrics.Sessions.Add(1)
	g.regenerate()
	g.cue(core.SoundTheme)
	return g, nil
}

// regenerate draws a new waypoint set from the agent cell and respawns markers
func (g *Game) regenerate() {
	g.metrics.Regenerations.Add(1)
	g.seq.Generate(g.agent.Cell())
	g.sprites = g.spawner.Spawn(g.seq.AllWaypoints(), g.agent.Cell(), g.world.IsFree)
}

// Tick runs one frame: input, update, render, capture, present, publish
func (g *Game) Tick(dt time.Duration) Outcome {
	if g.outcome != OutcomeRunning {
		return g.outcome
	}
	g.ticks++
	g.metrics.Advance(dt)

	if g.applyInput(dt) {
		g.finish(OutcomeQuit)
		return g.outcome
	}

	g.update(dt)

	if g.presenter != nil || g.capture != nil {
		g.renderer.Draw(g.frame, g.scene())
		g.metrics.Frames.Add(1)
	}
	if g.capture != nil {
		// Failures are logged by the recorder
		_ = g.capture.Capture(g.frame.Image())
	}
	if g.presenter != nil {
		g.presenter.Present(g.frame, g.Status())
	}
	if g.publisher != nil && g.publisher.Clients() > 0 {
		g.publisher.Publish(g.Snapshot())
	}
	return g.outcome
}

func (g *Game) update(dt time.Duration) {
	if g.autopilot {
		g.state = g.ctrl.Tick(dt)
		if g.state == pilot.StateRouteComplete {
			g.cue(core.SoundComplete)
			if g.cfg.Autopilot.CompletionMode == config.ModeRegenerate {
				g.logger.Info("route complete, regenerating")
				g.regenerate()
			} else {
				g.finish(OutcomeTerminated)
			}
		}
	} else {
		g.state = pilot.StateNoRoute
	}

	for _, s := range g.sprites {
		s.Update(dt)
	}
}

// finish ends the session. Only a completed route marks the log completed.
func (g *Game) finish(o Outcome) {
	g.outcome = o
	g.sounds.Get(core.SoundTheme).Stop()
	var err error
	if o == OutcomeTerminated {
		g.metrics.Completed.Add(1)
		err = g.session.Complete(g.now())
	} else {
		err = g.session.Flush()
	}
	if err != nil {
		g.logger.Warn("session log write failed", zap.Error(err))
	}
	g.logger.Info("session finished",
		zap.String("outcome", o.String()),
		zap.Uint64("ticks", g.ticks),
		zap.Int("visited", len(g.session.Visits())),
	)
}

// cue plays the sound for t
func (g *Game) cue(t core.SoundType) {
	g.logger.Debug("cue", zap.Stringer("sound", t))
	g.sounds.Get(t).Play()
}

// Stop ends a running session with o; already finished sessions are left untouched
func (g *Game) Stop(o Outcome) {
	if g.outcome == OutcomeRunning {
		g.finish(o)
	}
}

func (g *Game) scene() render.Scene {
	return render.Scene{
		Camera:    raycast.Camera{X: g.agent.X, Y: g.agent.Y, Heading: g.agent.Heading},
		Map:       g.world,
		Sprites:   g.sprites,
		Waypoints: g.seq.AllWaypoints(),
		Skipped:   g.seq.Skipped,
		Route:     g.seq.Route(),
		Overlay:   g.overlay,
		BirdView:  g.birdView,
	}
}

// Status summarizes the session for the status line
func (g *Game) Status() render.Status {
	mode := "manual"
	if g.autopilot {
		mode = "pilot"
	}
	return render.Status{
		Session: g.session.ID(),
		State:   g.state.String(),
		Visited: len(g.session.Visits()),
		Total:   len(g.seq.Waypoints()),
		Mode:    mode,
	}
}

// Snapshot captures the agent state for telemetry
func (g *Game) Snapshot() network.Snapshot {
	return network.Snapshot{
		Session:        g.session.ID(),
		Tick:           g.ticks,
		X:              g.agent.X,
		Y:              g.agent.Y,
		Heading:        g.agent.Heading,
		State:          g.state.String(),
		RouteRemaining: g.seq.Route().Len(),
		Visited:        len(g.session.Visits()),
		Metrics:        g.metrics.Snapshot(),
	}
}

// Ticks returns the number of ticks run
func (g *Game) Ticks() uint64 { return g.ticks }

// State returns the controller state of the last tick
func (g *Game) State() pilot.State { return g.state }

// Outcome returns the current run status
func (g *Game) Outcome() Outcome { return g.outcome }

// Agent returns the navigating body
func (g *Game) Agent() *agent.Agent { return g.agent }

// Map returns the session map
func (g *Game) Map() *gridmap.Map { return g.world }

// Sequencer returns the waypoint sequencer
func (g *Game) Sequencer() *navigation.Sequencer { return g.seq }

// Session returns the session recorder
func (g *Game) Session() *session.Session { return g.session }

// Sprites returns the live waypoint markers
func (g *Game) Sprites() []*sprite.Sprite { return g.sprites }

// Metrics returns the run counters this session writes to
func (g *Game) Metrics() *status.Registry { return g.metrics }

// Frame returns the last rendered frame
func (g *Game) Frame() *render.Frame { return g.frame }

// Render draws the current scene into the frame without advancing the game
func (g *Game) Render() *render.Frame {
	g.renderer.Draw(g.frame, g.scene())
	return g.frame
}
