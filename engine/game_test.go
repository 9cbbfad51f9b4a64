package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/audio"
	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/core"
	"github.com/lixenwraith/ray-pilot/network"
	"github.com/lixenwraith/ray-pilot/parameter"
	"github.com/lixenwraith/ray-pilot/pilot"
	"github.com/lixenwraith/ray-pilot/render"
	"github.com/lixenwraith/ray-pilot/session"
	"github.com/lixenwraith/ray-pilot/status"
)

const tick = time.Second / 24

func fixedNow() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

// writeMap stores rows as a YAML map file with spawn at (sx, sy)
func writeMap(t *testing.T, rows []string, sx, sy int) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("name: test\nrows:\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "  - %q\n", r)
	}
	fmt.Fprintf(&b, "spawn: [%d, %d]\n", sx, sy)

	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

// openRoom is a 9x9 map with a wall border only
func openRoom() []string {
	rows := make([]string, 9)
	for y := range rows {
		if y == 0 || y == 8 {
			rows[y] = "#########"
		} else {
			rows[y] = "#.......#"
		}
	}
	return rows
}

func testConfig(t *testing.T, rows []string, sx, sy int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Display.Width, cfg.Display.Height = 64, 40
	cfg.Map.Source = config.MapFile
	cfg.Map.Path = writeMap(t, rows, sx, sy)
	cfg.Autopilot.WaypointCount = 3
	cfg.Autopilot.RandomWaypointCount = false
	cfg.Autopilot.RandomSkipProbability = false
	cfg.Autopilot.SkipProbability = 0
	cfg.Palette.Shuffle = false
	cfg.Recording.Dir = t.TempDir()
	cfg.Run.MaxTicks = 20000
	return cfg
}

func newGame(t *testing.T, cfg *config.Config, deps Deps) *Game {
	t.Helper()
	deps.Logger = zap.NewNop()
	deps.Now = fixedNow
	g, err := New(cfg, 11, deps)
	require.NoError(t, err)
	return g
}

type fakePresenter struct {
	frames int
	last   render.Status
	width  int
}

func (p *fakePresenter) Present(frame *render.Frame, status render.Status) {
	p.frames++
	p.last = status
	p.width = frame.Width
}

type fakePublisher struct {
	clients int
	snaps   []network.Snapshot
}

func (p *fakePublisher) Publish(s network.Snapshot) {
	p.snaps = append(p.snaps, s)
}

func (p *fakePublisher) Clients() int { return p.clients }

// countingSound records calls so tests can see which cues fired
type countingSound struct {
	plays, stops int
}

func (s *countingSound) Play()             { s.plays++ }
func (s *countingSound) Stop()             { s.stops++ }
func (s *countingSound) SetVolume(float64) {}

// TestHeadlessTourTerminates verifies a terminate-mode run visits every waypoint in order and completes the log
func TestHeadlessTourTerminates(t *testing.T) {
	cfg := testConfig(t, openRoom(), 1, 1)
	g := newGame(t, cfg, Deps{})
	require.True(t, g.Sequencer().Enabled())
	waypoints := g.Sequencer().Waypoints()
	require.Len(t, waypoints, 3)

	o := RunHeadless(context.Background(), g, tick, cfg.Run.MaxTicks)
	assert.Equal(t, OutcomeTerminated, o)
	assert.Equal(t, pilot.StateRouteComplete, g.State())

	doc, err := session.Load(g.Session().LogPath())
	require.NoError(t, err)
	assert.True(t, doc.Completed)
	require.Len(t, doc.VisitedWaypoints, 3)
	for i, v := range doc.VisitedWaypoints {
		assert.Equal(t, [2]int{waypoints[i].Cell.X, waypoints[i].Cell.Y}, v.Waypoint)
		assert.Equal(t, parameter.DefaultPalette[waypoints[i].Ordinal].Name, v.ColorName)
	}
	assert.Len(t, doc.AllColors, len(parameter.DefaultPalette))

	// Finished games stay finished
	assert.Equal(t, OutcomeTerminated, g.Tick(tick))

	m := g.Metrics().Snapshot()
	assert.Equal(t, int64(3), m.Arrivals)
	assert.Equal(t, int64(1), m.Completed)
	assert.Equal(t, int64(1), m.Sessions)
	assert.Equal(t, int64(g.Ticks()), m.Ticks)
	assert.Zero(t, m.Frames)
}

// TestRegenerateModeContinues verifies route completion draws a new route in the same session
func TestRegenerateModeContinues(t *testing.T) {
	cfg := testConfig(t, openRoom(), 1, 1)
	cfg.Autopilot.CompletionMode = config.ModeRegenerate
	g := newGame(t, cfg, Deps{})

	completed := false
	for i := 0; i < cfg.Run.MaxTicks && !completed; i++ {
		require.Equal(t, OutcomeRunning, g.Tick(tick))
		completed = g.State() == pilot.StateRouteComplete
	}
	require.True(t, completed)

	assert.Equal(t, OutcomeRunning, g.Outcome())
	assert.False(t, g.Session().Completed())
	assert.Len(t, g.Session().Visits(), 3)
	assert.True(t, g.Sequencer().Enabled())
	assert.False(t, g.Sequencer().Route().Empty())
}

// TestSingleFreeCellStopsWithoutRoute verifies a map with nowhere to go ends the headless run
func TestSingleFreeCellStopsWithoutRoute(t *testing.T) {
	cfg := testConfig(t, []string{"###", "#.#", "###"}, 1, 1)
	g := newGame(t, cfg, Deps{})
	assert.False(t, g.Sequencer().Enabled())

	o := RunHeadless(context.Background(), g, tick, 0)
	assert.Equal(t, OutcomeNoRoute, o)
	assert.Equal(t, uint64(1), g.Ticks())
	assert.False(t, g.Session().Completed())
}

// TestTickLimitAndCapture verifies max ticks stop the run and each tick writes a frame
func TestTickLimitAndCapture(t *testing.T) {
	cfg := testConfig(t, openRoom(), 1, 1)
	cfg.Recording.CaptureFrames = true
	g := newGame(t, cfg, Deps{})

	o := RunHeadless(context.Background(), g, tick, 3)
	assert.Equal(t, OutcomeTickLimit, o)

	for i := 0; i < 3; i++ {
		_, err := os.Stat(filepath.Join(g.Session().Dir(), fmt.Sprintf(parameter.CaptureFramePattern, i)))
		assert.NoError(t, err)
	}
	doc, err := session.Load(g.Session().LogPath())
	require.NoError(t, err)
	assert.False(t, doc.Completed)
}

// TestCancelledContextQuits verifies cancellation stops before ticking
func TestCancelledContextQuits(t *testing.T) {
	g := newGame(t, testConfig(t, openRoom(), 1, 1), Deps{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, OutcomeQuit, RunHeadless(ctx, g, tick, 0))
	assert.Zero(t, g.Ticks())
}

// TestTickPresentsAndPublishes verifies the per-tick output pipeline
func TestTickPresentsAndPublishes(t *testing.T) {
	pres, pub := &fakePresenter{}, &fakePublisher{clients: 1}
	g := newGame(t, testConfig(t, openRoom(), 1, 1), Deps{Presenter: pres, Publisher: pub})

	g.Tick(tick)
	g.Tick(tick)

	assert.Equal(t, 2, pres.frames)
	assert.Equal(t, 64, pres.width)
	assert.Equal(t, g.Session().ID(), pres.last.Session)
	assert.Equal(t, "pilot", pres.last.Mode)
	assert.Equal(t, 3, pres.last.Total)

	require.Len(t, pub.snaps, 2)
	last := pub.snaps[1]
	assert.Equal(t, uint64(2), last.Tick)
	assert.Equal(t, int64(2), last.Metrics.Ticks)
	assert.Equal(t, int64(2), last.Metrics.Frames)
	assert.Equal(t, g.Agent().X, last.X)
	assert.Equal(t, g.State().String(), last.State)
	assert.Equal(t, g.Sequencer().Route().Len(), last.RouteRemaining)
}

// TestManualDrive verifies toggling the autopilot off hands movement to commands
func TestManualDrive(t *testing.T) {
	cfg := testConfig(t, openRoom(), 3, 3)
	cfg.Player.Heading = 0
	g := newGame(t, cfg, Deps{})
	x0 := g.Agent().X

	g.Input(CmdToggleAutopilot)
	g.Input(CmdForward)
	g.Tick(100 * time.Millisecond)
	assert.Equal(t, pilot.StateNoRoute, g.State())
	assert.InDelta(t, x0+cfg.Player.Speed*0.1, g.Agent().X, 1e-9)

	g.Input(CmdTurnRight)
	g.Tick(100 * time.Millisecond)
	assert.InDelta(t, cfg.Player.TurnSpeed*0.1, g.Agent().Heading, 1e-9)

	// Walls stop manual movement
	g.Agent().SetHeading(3.14159265)
	for i := 0; i < 50; i++ {
		g.Input(CmdForward)
		g.Tick(100 * time.Millisecond)
	}
	assert.GreaterOrEqual(t, g.Agent().X, 1.0)

	g.Input(CmdToggleAutopilot)
	g.Tick(tick)
	assert.True(t, g.Sequencer().Enabled())
	assert.NotEqual(t, pilot.StateNoRoute, g.State())
}

// TestQuitCommand verifies quitting flushes an incomplete log
func TestQuitCommand(t *testing.T) {
	g := newGame(t, testConfig(t, openRoom(), 1, 1), Deps{})
	g.Input(CmdQuit)
	assert.Equal(t, OutcomeQuit, g.Tick(tick))

	doc, err := session.Load(g.Session().LogPath())
	require.NoError(t, err)
	assert.False(t, doc.Completed)
}

// TestKeyCommand verifies the terminal key bindings
func TestKeyCommand(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want Command
	}{
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), CmdQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), CmdQuit},
		{tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone), CmdToggleAutopilot},
		{tcell.NewEventKey(tcell.KeyRune, 'm', tcell.ModNone), CmdToggleOverlay},
		{tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModNone), CmdToggleBirdView},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), CmdForward},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), CmdTurnLeft},
		{tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone), CmdStrafeRight},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), CmdNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KeyCommand(tc.ev))
	}
}

// TestBuildMapSources verifies each map source and rejects unknown ones
func TestBuildMapSources(t *testing.T) {
	m, spawn, err := BuildMap(config.MapConfig{Source: config.MapProcedural, Width: 20, Height: 14, Coverage: 0.4, Rooms: 2}, 7)
	require.NoError(t, err)
	assert.Nil(t, spawn)
	w, h := m.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 14, h)
	assert.False(t, m.IsFree(core.Cell{X: 0, Y: 0}))
	assert.NotEmpty(t, m.FreeCells())

	m, _, err = BuildMap(config.MapConfig{Source: config.MapMaze, Width: 21, Height: 15, Braiding: 0.3}, 7)
	require.NoError(t, err)
	w, h = m.Size()
	assert.Equal(t, 21, w)
	assert.Equal(t, 15, h)

	_, spawn, err = BuildMap(config.MapConfig{Source: config.MapFile, Path: writeMap(t, openRoom(), 2, 3)}, 0)
	require.NoError(t, err)
	require.NotNil(t, spawn)
	assert.Equal(t, core.Cell{X: 2, Y: 3}, *spawn)

	_, _, err = BuildMap(config.MapConfig{Source: "cave"}, 0)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

// TestSpawnPointFallbacks verifies configured and fallback spawn placement
func TestSpawnPointFallbacks(t *testing.T) {
	m, _, err := BuildMap(config.MapConfig{Source: config.MapFile, Path: writeMap(t, openRoom(), 1, 1)}, 0)
	require.NoError(t, err)

	x, y, err := spawnPoint(m, nil, config.PlayerConfig{SpawnX: 4.25, SpawnY: 2.75}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4.25, x)
	assert.Equal(t, 2.75, y)

	x, y, err = spawnPoint(m, nil, config.PlayerConfig{SpawnX: 0.5, SpawnY: 0.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.5, x, "blocked point falls back to first free cell")
	assert.Equal(t, 1.5, y)
}

// TestRunBatch verifies each batch session gets its own log
func TestRunBatch(t *testing.T) {
	cfg := testConfig(t, openRoom(), 1, 1)
	cfg.Run.Sessions = 2
	cfg.Run.Seed = 5
	cfg.Run.MaxTicks = 4

	metrics := status.NewRegistry()
	results, err := RunBatch(context.Background(), cfg, Deps{Logger: zap.NewNop(), Now: fixedNow, Metrics: metrics})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), metrics.Sessions.Load())
	assert.Equal(t, int64(8), metrics.Ticks.Load())
	assert.NotEqual(t, results[0].Session, results[1].Session)
	for _, r := range results {
		assert.Equal(t, OutcomeTickLimit, r.Outcome)
		assert.Equal(t, uint64(4), r.Ticks)
	}
}

// TestRunInteractiveQuitKey verifies a q key from the terminal ends the interactive loop
func TestRunInteractiveQuitKey(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(64, 21)

	cfg := testConfig(t, openRoom(), 1, 1)
	g := newGame(t, cfg, Deps{Presenter: render.NewTerminalPresenter(screen)})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	assert.Equal(t, OutcomeQuit, RunInteractive(ctx, g, screen, 60))
	assert.NoError(t, ctx.Err())
}

// TestPublishSkippedWithoutClients verifies no snapshot is built while nobody subscribes
func TestPublishSkippedWithoutClients(t *testing.T) {
	pub := &fakePublisher{}
	g := newGame(t, testConfig(t, openRoom(), 1, 1), Deps{Publisher: pub})

	g.Tick(tick)
	assert.Empty(t, pub.snaps)

	pub.clients = 1
	g.Tick(tick)
	require.Len(t, pub.snaps, 1)
	assert.Equal(t, uint64(2), pub.snaps[0].Tick)
}

// TestSoundCues verifies cues are looked up by type and the theme stops when the session ends
func TestSoundCues(t *testing.T) {
	arrive, complete, theme := &countingSound{}, &countingSound{}, &countingSound{}
	sounds := &audio.Sounds{Arrive: arrive, Complete: complete, Theme: theme}

	cfg := testConfig(t, openRoom(), 1, 1)
	g := newGame(t, cfg, Deps{Sounds: sounds})
	assert.Equal(t, 1, theme.plays)

	assert.Equal(t, OutcomeTerminated, RunHeadless(context.Background(), g, tick, cfg.Run.MaxTicks))
	assert.Equal(t, 3, arrive.plays)
	assert.Equal(t, 1, complete.plays)
	assert.Equal(t, 1, theme.stops)

	// Stopping an already finished session does not stop the theme twice
	g.Stop(OutcomeQuit)
	assert.Equal(t, 1, theme.stops)
}
