package app

import (
	"context"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"strconv"
	"time"

	"railwatch/server/internal/events"
	"railwatch/server/internal/host"
	servernet "railwatch/server/internal/net"
	"railwatch/server/internal/observability"
	"railwatch/server/internal/store"
	"railwatch/server/internal/store/sqlite"
	"railwatch/server/internal/telemetry"
	"railwatch/server/internal/trains"
	"railwatch/server/internal/world"
	"railwatch/server/logging"
	loggingSinks "railwatch/server/logging/sinks"
)

type Config struct {
	Addr          string
	Logger        telemetry.Logger
	Logging       logging.Config
	Observability observability.Config
	// SQLitePath persists per-train user data; empty keeps it in memory.
	SQLitePath string
	// DemoScenario seeds the embedded world with a small rail network so
	// the query surface has something to serve.
	DemoScenario bool
}

func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		Logging:       logging.DefaultConfig(),
		Observability: observability.Config{EnableMetrics: true},
		DemoScenario:  true,
	}
}

func Run(ctx context.Context, cfg Config) error {
	telemetryLogger := cfg.Logger
	if telemetryLogger == nil {
		telemetryLogger = telemetry.WrapLogger(log.Default())
	}

	if raw := os.Getenv("RAILWATCH_ENABLE_METRICS"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.Observability.EnableMetrics = value
		} else {
			telemetryLogger.Printf("invalid RAILWATCH_ENABLE_METRICS=%q: %v", raw, err)
		}
	}

	sinks := make([]logging.NamedSink, 0, len(cfg.Logging.EnabledSinks))
	if cfg.Logging.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{
			Name: "console",
			Sink: loggingSinks.NewConsoleSink(os.Stdout, cfg.Logging.Console),
		})
	}
	if cfg.Logging.HasSink("json") && cfg.Logging.JSON.FilePath != "" {
		file, err := os.OpenFile(cfg.Logging.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open json log file: %w", err)
		}
		defer file.Close()
		sinks = append(sinks, logging.NamedSink{
			Name: "json",
			Sink: loggingSinks.NewJSONSink(file, cfg.Logging.JSON.FlushInterval),
		})
	}

	router := logging.NewRouter(nil, cfg.Logging, sinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			telemetryLogger.Printf("failed to close logging router: %v", err)
		}
	}()

	var entityStore host.EntityStore
	if cfg.SQLitePath != "" {
		sqliteStore, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open entity store: %w", err)
		}
		defer sqliteStore.Close()
		entityStore = sqliteStore
	} else {
		entityStore = store.NewMemory()
	}

	bus := events.NewBus()
	gameWorld := world.New(bus, world.Config{FirstTrainID: 1})
	if cfg.DemoScenario {
		if err := seedDemoScenario(gameWorld); err != nil {
			return fmt.Errorf("failed to seed demo scenario: %w", err)
		}
	}

	tracker, err := trains.NewTracker(trains.TrackerConfig{
		World:     gameWorld,
		Bus:       bus,
		Store:     entityStore,
		Publisher: router,
	})
	if err != nil {
		return fmt.Errorf("failed to construct tracker: %w", err)
	}
	defer tracker.Close()

	gameWorld.AnnounceReady()

	handler := servernet.NewHTTPHandler(tracker, bus, servernet.HTTPHandlerConfig{
		Logger:        telemetryLogger,
		Observability: cfg.Observability,
		Router:        router,
	})

	srv := &nethttp.Server{Addr: cfg.Addr, Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	telemetryLogger.Printf("server listening on %s", cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && err != nethttp.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}

// seedDemoScenario lays out a small two-surface network: a mainline with a
// double-headed freight and a manual shunter, and a depot holding a parked
// passenger set.
func seedDemoScenario(w *world.World) error {
	w.AddSurface("mainline")
	w.AddSurface("depot")

	specs := []world.SpawnSpec{
		{
			Surface: "mainline",
			Faction: "player",
			State:   host.TrainStateOnPath,
			Carriages: []world.CarriageSpec{
				world.Locomotive(),
				world.CargoWagon(),
				world.CargoWagon(),
				world.BackwardLocomotive(),
			},
		},
		{
			Surface: "mainline",
			Faction: "player",
			State:   host.TrainStateManual,
			Carriages: []world.CarriageSpec{
				world.Locomotive(),
				world.CargoWagon(),
			},
		},
		{
			Surface: "depot",
			Faction: "player",
			State:   host.TrainStateWaitStation,
			Carriages: []world.CarriageSpec{
				world.Locomotive(),
				world.CargoWagon(),
				world.CargoWagon(),
			},
		},
	}
	for _, spec := range specs {
		if _, err := w.SpawnTrain(spec); err != nil {
			return err
		}
	}
	return nil
}
