package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/cli"
	"github.com/akmonengine/plume"
	"github.com/akmonengine/plume/scenario"
)

// Config is the configuration of the simpleScene command.
type Config struct {

	// Scenario is a TOML scenario file. The reference scene runs when empty.
	Scenario string `posarg:"0" required:"-"`

	// Watch restarts the world each time the scenario file changes.
	Watch bool `flag:"w,watch"`

	// Interval is how often the published state is logged, in seconds.
	Interval float64 `default:"1"`

	// Duration stops the scene after this many seconds, 0 runs until interrupted.
	Duration float64
}

func main() {
	opts := cli.DefaultOptions("simpleScene", "Runs a physics scenario and logs the published state.")
	cli.Run(opts, &Config{}, Run)
}

// Run runs the scenario until it is interrupted.
func Run(c *Config) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if c.Duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, seconds(c.Duration))
		defer cancel()
	}

	sc := scenario.Default()
	if c.Scenario != "" {
		loaded, err := scenario.Load(c.Scenario)
		if err != nil {
			return err
		}
		sc = loaded
	}

	s := &scene{logger: logger}
	if err := s.start(ctx, sc); err != nil {
		return err
	}
	defer s.stop()

	if c.Watch && c.Scenario != "" {
		go func() {
			errors.Log(scenario.Watch(ctx, c.Scenario, func(cfg *scenario.Config) {
				logger.Info("scenario changed, restarting", "path", c.Scenario)
				errors.Log(s.start(ctx, cfg))
			}))
		}()
	}

	ticker := time.NewTicker(max(seconds(c.Interval), 10*time.Millisecond))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.report()
		}
	}
}

// scene owns the running world, replaced on every restart.
type scene struct {
	mu     sync.Mutex
	logger *slog.Logger
	world  *plume.World
}

func (s *scene) start(ctx context.Context, sc *scenario.Config) error {
	cfg, err := sc.World(s.logger)
	if err != nil {
		return err
	}
	world := plume.NewWorld(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world != nil {
		s.world.Stop()
	}
	s.world = world
	return world.Start(ctx)
}

func (s *scene) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world != nil {
		s.world.Stop()
	}
}

func (s *scene) report() {
	s.mu.Lock()
	world := s.world
	s.mu.Unlock()

	state := world.Snapshot()
	for i := range state.Count {
		s.logger.Info("body", "index", i, "position", state.Position[i], "tick", state.Tick)
	}
	if hit, body := world.LastRayHit(); body >= 0 {
		s.logger.Info("ray hit", "body", body, "distance", hit.NearParam, "point", hit.Near.Vec3())
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// logLevel reads the level from PLUME_LOG_LEVEL, info by default.
func logLevel() slog.Level {
	switch strings.ToUpper(os.Getenv("PLUME_LOG_LEVEL")) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
