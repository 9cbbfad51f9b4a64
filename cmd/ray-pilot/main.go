package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/ray-pilot/audio"
	"github.com/lixenwraith/ray-pilot/config"
	"github.com/lixenwraith/ray-pilot/engine"
	"github.com/lixenwraith/ray-pilot/network"
	"github.com/lixenwraith/ray-pilot/render"
	"github.com/lixenwraith/ray-pilot/status"
)

var (
	configPath = flag.String("config", "", "Path to TOML config (empty = built-in defaults)")
	headless   = flag.Bool("headless", false, "Run without a terminal view")
	sessions   = flag.Int("sessions", 0, "Headless sessions to run in sequence (0 = config)")
	seed       = flag.Uint64("seed", 0, "Random seed (0 = config or clock)")
	maxTicks   = flag.Int("max-ticks", -1, "Tick limit per session (-1 = config, 0 = unbounded)")
	debugLog   = flag.Bool("debug", false, "Log at debug level")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logging, !cfg.Run.Headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "ray-pilot: %v\n", err)
		os.Exit(1)
	}
}

func applyFlags(cfg *config.Config) {
	if *headless {
		cfg.Run.Headless = true
	}
	if *sessions > 0 {
		cfg.Run.Sessions = *sessions
	}
	if *seed != 0 {
		cfg.Run.Seed = *seed
	}
	if *maxTicks >= 0 {
		cfg.Run.MaxTicks = *maxTicks
	}
	if *debugLog {
		cfg.Logging.Level = "debug"
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	deps := engine.Deps{
		Logger:  logger,
		Sounds:  audio.NewSounds(cfg.Sound, logger.Named("audio")),
		Metrics: status.NewRegistry(),
	}
	defer deps.Sounds.Close()

	if cfg.Telemetry.Enabled {
		ncfg := network.DefaultConfig()
		ncfg.Address = cfg.Telemetry.Address
		hub := network.NewHub(ncfg, logger.Named("telemetry"))
		if err := hub.Start(ctx); err != nil {
			return err
		}
		defer hub.Close()
		deps.Publisher = hub
	}

	if cfg.Run.Headless {
		results, err := engine.RunBatch(ctx, cfg, deps)
		for _, r := range results {
			fmt.Printf("%s  %-10s  ticks=%d  visited=%d\n", r.Session, r.Outcome, r.Ticks, r.Visited)
		}
		m := deps.Metrics.Snapshot()
		fmt.Printf("sessions=%d completed=%d (%.0f%%) arrivals=%d regenerations=%d ticks=%d sim=%.1fs\n",
			m.Sessions, m.Completed, m.CompletionRate()*100, m.Arrivals, m.Regenerations, m.Ticks, m.SimSeconds)
		return err
	}
	return runInteractive(ctx, cfg, deps)
}

func runInteractive(ctx context.Context, cfg *config.Config, deps engine.Deps) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	// Restore the terminal even when the game crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nRAY-PILOT CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
		screen.Fini()
	}()
	screen.HideCursor()

	deps.Presenter = render.NewTerminalPresenter(screen)
	g, err := engine.New(cfg, cfg.Run.Seed, deps)
	if err != nil {
		return err
	}

	o := engine.RunInteractive(ctx, g, screen, cfg.Display.FPS)
	deps.Logger.Info("interactive run ended",
		zap.String("session", g.Session().ID()),
		zap.String("outcome", o.String()),
	)
	return nil
}
