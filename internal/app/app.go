package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"mine-and-die/pursuit/internal/config"
	"mine-and-die/pursuit/internal/movement"
	"mine-and-die/pursuit/internal/sim"
	"mine-and-die/pursuit/internal/telemetry"
	"mine-and-die/pursuit/internal/world"
	"mine-and-die/pursuit/logging"
	loggingSinks "mine-and-die/pursuit/logging/sinks"
)

const (
	shutdownTimeout = 5 * time.Second

	EventConfigReloaded logging.EventType = "system.config_reloaded"
)

type Config struct {
	ConfigPath string
	Logger     telemetry.Logger
	LookupEnv  func(string) (string, bool)
	Stdout     io.Writer
}

func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}
	fallbackLogger := log.Default()
	if provider, ok := telemetryLogger.(interface{ StandardLogger() *log.Logger }); ok {
		if candidate := provider.StandardLogger(); candidate != nil {
			fallbackLogger = candidate
		}
	}
	stdout := cfg.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	serverCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	serverCfg = config.ApplyEnv(serverCfg, cfg.LookupEnv, telemetryLogger.Printf)

	eventSinks, socket, closeFiles, err := buildSinks(serverCfg.Log, stdout, telemetryLogger)
	if err != nil {
		return err
	}
	defer closeFiles()

	router := logging.NewRouter(serverCfg.Log, logging.ClockFunc(time.Now), fallbackLogger, eventSinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			telemetryLogger.Printf("failed to close logging router: %v", cerr)
		}
	}()

	counters := telemetry.NewCounters()
	w := world.New(serverCfg.World, ReservedPoints(serverCfg.World.Width, serverCfg.World.Height)...)
	scenario := NewScenario(w)

	loop := sim.NewLoop(serverCfg.Loop, w, sim.Deps{
		Logger:  telemetryLogger,
		Metrics: counters,
	}, sim.LoopHooks{
		BeforeStep: scenario.Drive,
	})

	publisher := logging.WithFields(router, map[string]any{"scenario": "demo"})
	movementDeps := func(mc movement.Config) movement.Deps {
		return movement.Deps{
			Config:    mc,
			Planners:  w.Planners(),
			Publisher: publisher,
			Metrics:   counters,
		}
	}
	scenario.Assign(ctx, loop, movementDeps(serverCfg.Movement))

	if cfg.ConfigPath != "" {
		watcher, err := config.Watch(cfg.ConfigPath)
		if err != nil {
			telemetryLogger.Printf("config hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
			go watchConfig(ctx, watcher, func(next config.Config) {
				next = config.ApplyEnv(next, cfg.LookupEnv, telemetryLogger.Printf)
				telemetryLogger.Printf("config reloaded: recalculation range %.2f", next.Movement.RecalculationRange)
				scenario.Assign(ctx, loop, movementDeps(next.Movement))
				router.Publish(ctx, logging.Event{
					Type:     EventConfigReloaded,
					Tick:     loop.Tick(),
					Actor:    logging.EntityRef{Kind: logging.EntityKindWorld},
					Severity: logging.SeverityInfo,
					Category: logging.CategorySystem,
					Payload:  next.Movement,
				})
			}, telemetryLogger)
		}
	}

	srv := &http.Server{
		Addr:              serverCfg.Debug.Addr,
		Handler:           NewHTTPHandler(loop, counters, router, socket, serverCfg.Debug),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		telemetryLogger.Printf("debug server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	loopCtx, stopLoop := context.WithCancel(ctx)
	loopDone := make(chan error, 1)
	go func() {
		loopDone <- loop.Run(loopCtx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("debug server failed: %w", err)
		}
	}

	stopLoop()
	<-loopDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("debug server shutdown: %w", err)
	}
	telemetryLogger.Printf("stopped after %d ticks", loop.Tick())
	return runErr
}

func buildSinks(cfg logging.Config, stdout io.Writer, logger telemetry.Logger) ([]logging.NamedSink, *loggingSinks.WebSocket, func(), error) {
	var named []logging.NamedSink
	var files []*os.File
	closeFiles := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	if cfg.HasSink("console") {
		named = append(named, logging.NamedSink{Name: "console", Sink: loggingSinks.NewConsole(stdout)})
	}
	if cfg.HasSink("json") {
		out := stdout
		if cfg.JSON.FilePath != "" {
			f, err := os.OpenFile(cfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				closeFiles()
				return nil, nil, nil, fmt.Errorf("failed to open json log %s: %w", cfg.JSON.FilePath, err)
			}
			files = append(files, f)
			out = f
		}
		named = append(named, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(out, cfg.JSON.FlushInterval)})
	}

	// The websocket sink always exists so /debug/events can be served.
	socket := loggingSinks.NewWebSocket(logger)
	named = append(named, logging.NamedSink{Name: "websocket", Sink: socket})
	return named, socket, closeFiles, nil
}

func watchConfig(ctx context.Context, watcher *config.Watcher, apply func(config.Config), logger telemetry.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-watcher.Updates:
			if !ok {
				return
			}
			apply(next)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Printf("config reload failed: %v", err)
		}
	}
}
