package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/railmap/editor/internal/config"
	"github.com/railmap/editor/internal/dem"
	"github.com/railmap/editor/internal/dispatcher"
	"github.com/railmap/editor/internal/geo"
	"github.com/railmap/editor/internal/handlers"
	"github.com/railmap/editor/internal/influx"
	"github.com/railmap/editor/internal/logging"
	"github.com/railmap/editor/internal/storage"
	"github.com/railmap/editor/internal/store"
)

func main() {
	configDir := "."
	args := os.Args[1:]
	if len(args) >= 2 && args[0] == "-config" {
		configDir = args[1]
		args = args[2:]
	}

	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logManager, err := logging.Setup(logging.Config{
		Level:          config.GetString("logLevel"),
		LogsDir:        config.GetString("logsDir"),
		AppName:        "railmap",
		GraylogEnabled: config.GetBool("graylog.enabled"),
		GraylogAddress: config.GetString("graylog.address"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logManager.Close()
	log := logManager.Logger

	// Gradient generation needs no store or backend; handle it first.
	if len(args) > 0 && args[0] == "gradient" {
		if err := runGradient(args[1:]); err != nil {
			log.Fatal().Err(err).Msg("Gradient generation failed")
		}
		return
	}

	st := store.New(
		store.WithLogger(log),
		store.WithCurveSegments(config.GetInt("curve.segments")),
	)

	terrain := config.GetTerrainConfig()
	bounds := terrain.Bounds()
	if terrain.Geographic {
		bounds = geo.BoundsToMeters(terrain.MinX, terrain.MinY, terrain.MaxX, terrain.MaxY)
	}
	if terrain.ImagePath != "" {
		surface, err := dem.Load(terrain.ImagePath, terrain.HeightScale)
		if err != nil {
			log.Fatal().Err(err).Str("path", terrain.ImagePath).Msg("Failed to load elevation image")
		}
		st.SetSurface(surface.WithBounds(bounds))
		log.Info().
			Str("path", terrain.ImagePath).
			Float64("heightScale", terrain.HeightScale).
			Msg("Elevation surface loaded")
	} else {
		log.Warn().Msg("No elevation image configured; stations get elevation 0")
	}

	backend, err := storage.NewBackend(config.GetStorageConfig(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage backend")
	}
	if err := backend.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize storage backend")
	}
	defer backend.Close()
	if d, ok := backend.(storage.Describable); ok {
		log.Info().Str("location", d.Location()).Msg("Storage backend ready")
	}

	im := setupMetrics(st, log)

	d, err := dispatcher.New(logging.NewDispatcherLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create dispatcher")
	}
	svc := handlers.NewService(handlers.Dependencies{
		Store:   st,
		Backend: backend,
		Logger:  log,
	})
	svc.Register(d)

	if len(args) > 0 {
		if err := runCommand(args, st, d, log); err != nil {
			log.Fatal().Err(err).Msg("Command failed")
		}
		return
	}

	runShell(st, d, im, log)
}

// setupMetrics streams layout size gauges to InfluxDB on every store
// change and returns the manager for per-command timing writes, or nil
// when metrics are off. Metrics being down never blocks editing.
func setupMetrics(st *store.Store, log zerolog.Logger) *influx.Manager {
	if !config.GetBool("influx.enabled") {
		return nil
	}

	backupPath := fmt.Sprintf("influx_backup.%s.log.gzip", time.Now().UTC().Format("20060102_150405"))
	im := influx.NewManager(log, backupPath)
	if err := im.Connect(); err != nil {
		log.Warn().Err(err).Msg("InfluxDB unavailable, metrics disabled")
		return nil
	}

	st.Subscribe(func(e store.Event) {
		if err := im.WriteEntityCounts(context.Background(), len(st.Stations()), len(st.Lines())); err != nil {
			log.Debug().Err(err).Msg("Failed to write entity counts")
		}
	})
	return im
}
