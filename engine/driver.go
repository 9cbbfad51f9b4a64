package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/pilot"
	"github.com/lixenwraith/ray-pilot/status"
)

// RunHeadless ticks g with a fixed dt until it finishes, ctx is cancelled or
// maxTicks (0 = unbounded) is reached. An autopilot with no route stops the run.
func RunHeadless(ctx context.Context, g *Game, dt time.Duration, maxTicks int) Outcome {
	for {
		select {
		case <-ctx.Done():
			g.Stop(OutcomeQuit)
			return g.Outcome()
		default:
		}

		if o := g.Tick(dt); o != OutcomeRunning {
			return o
		}
		if g.autopilot && g.State() == pilot.StateNoRoute {
			g.Stop(OutcomeNoRoute)
			return g.Outcome()
		}
		if maxTicks > 0 && g.Ticks() >= uint64(maxTicks) {
			g.Stop(OutcomeTickLimit)
			return g.Outcome()
		}
	}
}

// RunInteractive ticks g at fps, feeding terminal key events as commands.
// Wall-clock dt is measured between ticks.
func RunInteractive(ctx context.Context, g *Game, screen tcell.Screen, fps int) Outcome {
	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(max(fps, 1)))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			g.Stop(OutcomeQuit)
			return g.Outcome()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				g.Input(KeyCommand(ev))
			case *tcell.EventResize:
				screen.Sync()
			}

		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if o := g.Tick(dt); o != OutcomeRunning {
				return o
			}
		}
	}
}

// BatchResult summarizes one headless session
type BatchResult struct {
	Session string
	Outcome Outcome
	Ticks   uint64
	Visited int
}

// RunBatch runs cfg.Run.Sessions headless sessions in sequence, each with a fresh
// map and session log. Seeds advance from cfg.Run.Seed when set.
func RunBatch(ctx context.Context, cfg *config.Config, deps Deps) ([]BatchResult, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = status.NewRegistry()
	}
	dt := time.Second / time.Duration(cfg.Display.FPS)
	results := make([]BatchResult, 0, cfg.Run.Sessions)

	for i := 0; i < cfg.Run.Sessions; i++ {
		if ctx.Err() != nil {
			break
		}
		var seed uint64
		if cfg.Run.Seed != 0 {
			seed = cfg.Run.Seed + uint64(i)
		}

		g, err := New(cfg, seed, deps)
		if err != nil {
			return results, fmt.Errorf("session %d: %w", i+1, err)
		}
		o := RunHeadless(ctx, g, dt, cfg.Run.MaxTicks)
		results = append(results, BatchResult{
			Session: g.Session().ID(),
			Outcome: o,
			Ticks:   g.Ticks(),
			Visited: len(g.Session().Visits()),
		})
		logger.Info("batch session done",
			zap.Int("index", i+1),
			zap.Int("of", cfg.Run.Sessions),
			zap.String("outcome", o.String()),
		)
	}
	return results, nil
}
