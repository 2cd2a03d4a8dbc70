// Command approachtime runs the ADS-B landing-time pipeline: it ingests
// position reports, segments them per aircraft, attributes landing
// segments to runways and derives the corrected FAP-to-threshold elapsed
// time used for arrival-time model training. Results are persisted to
// SQLite and optionally served over a read-only HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/api"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/config"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/ingest"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/pipeline"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/runway"
	"github.com/DavidDeLaTorre/Engage2Hackathon/internal/storage/sqlite"
	"github.com/DavidDeLaTorre/Engage2Hackathon/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	inputPath := flag.String("input", "", "JSON report file (overrides ingest.file_path)")
	serve := flag.Bool("serve", false, "serve the HTTP API after the run")
	flag.Parse()

	if err := run(*configPath, *inputPath, *serve); err != nil {
		fmt.Fprintf(os.Stderr, "approachtime: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, inputPath string, serve bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if inputPath != "" {
		cfg.Ingest.SourceType = "file"
		cfg.Ingest.FilePath = inputPath
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := sqlite.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	landingStorage, err := sqlite.NewLandingStorage(db, log)
	if err != nil {
		return err
	}

	var cache pipeline.Cache
	if cfg.Storage.CacheEnabled {
		cacheStorage, err := sqlite.NewCacheStorage(db, log)
		if err != nil {
			return err
		}
		cache = cacheStorage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := ingest.NewSource(cfg.Ingest, log)
	if err != nil {
		return err
	}
	reports, err := source.Fetch(ctx)
	if err != nil {
		return err
	}

	faps := runway.DefaultFAPs()
	thresholds := runway.DefaultThresholds()

	p := pipeline.New(cfg.Pipeline, faps, thresholds, cache, log)
	result, err := p.Run(ctx, reports)
	if err != nil {
		return err
	}

	if err := landingStorage.StoreLandings(result.Landings); err != nil {
		return err
	}

	logStats(log, result)

	if serve || cfg.Server.Enabled {
		return serveAPI(ctx, cfg, landingStorage, faps, thresholds, log)
	}
	return nil
}

func logStats(log *logger.Logger, result *pipeline.Result) {
	if result.Stats != nil {
		log.Info("Delta-time statistics",
			logger.Int("count", result.Stats.Count),
			logger.Float64("mean_s", result.Stats.MeanS),
			logger.Float64("median_s", result.Stats.MedianS),
			logger.Float64("std_s", result.Stats.StdS),
		)
	}
	for rwy, stats := range result.StatsByRunway {
		log.Info("Runway delta-time statistics",
			logger.String("runway", rwy),
			logger.Int("count", stats.Count),
			logger.Float64("mean_s", stats.MeanS),
			logger.Float64("p25_s", stats.P25S),
			logger.Float64("p75_s", stats.P75S),
		)
	}
	for _, o := range result.Outliers {
		log.Warn("Implausibly fast approach",
			logger.String("icao24", o.ICAO24),
			logger.String("runway", o.Runway),
			logger.Time("fap", time.UnixMilli(o.TSFAPMs).UTC()),
			logger.Float64("delta_time_s", o.DeltaTimeS),
		)
	}
}

func serveAPI(ctx context.Context, cfg *config.Config, landings *sqlite.LandingStorage, faps, thresholds *runway.Registry, log *logger.Logger) error {
	router := api.NewRouter(landings, faps, thresholds, cfg, log)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	server := &http.Server{
		Addr:    addr,
		Handler: router.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP API listening", logger.String("addr", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
