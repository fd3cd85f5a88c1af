// Package main is the entry point for the Vitalis metrics exporter.
// It initializes configuration, registers the collectors, starts the
// refresh scheduler and serves the exposition endpoint until terminated.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/vitalis-app/exporter/internal/collector"
	"github.com/vitalis-app/exporter/internal/config"
	"github.com/vitalis-app/exporter/internal/metrics"
	"github.com/vitalis-app/exporter/internal/scheduler"
	"github.com/vitalis-app/exporter/internal/server"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file (default: search standard paths)")
	showVersion = flag.Bool("version", false, "Show version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("vitalis-exporter %s\n", version)
		os.Exit(0)
	}

	path := *configPath
	if path == "" {
		path = config.Locate()
	}

	// Load configuration
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting Vitalis Exporter",
		zap.String("version", version),
		zap.String("listen_addr", cfg.Server.ListenAddr))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Handle OS signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("Exporter failed", zap.Error(err))
	}
	logger.Info("Exporter stopped")
}

// run wires registry, collectors, scheduler and server together and
// blocks until the context is cancelled. A metric registration failure
// aborts before any traffic is served.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	registry := metrics.NewRegistry()

	set := collector.NewSet(logger,
		collector.NewCPUCollector(),
		collector.NewMemoryCollector(),
		collector.NewDiskCollector(),
		collector.NewNetworkCollector(),
		collector.NewSystemCollector(),
	)
	if err := set.Register(registry); err != nil {
		return fmt.Errorf("registering collectors: %w", err)
	}

	sched := scheduler.New(set, cfg.Collection.Interval.Duration, logger)
	srv := server.New(cfg.Server.ListenAddr, registry, logger)

	logger.Info("Exporter running",
		zap.Duration("scrape_interval", cfg.Collection.Interval.Duration),
		zap.Int("metrics", registry.Len()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start(gctx)
		return nil
	})
	g.Go(func() error {
		return srv.Run(gctx)
	})
	return g.Wait()
}

// initLogger creates a zap logger based on the configuration.
// It outputs to both console (human-readable) and optionally a JSON log file.
func initLogger(cfg *config.Config) *zap.Logger {
	var level zapcore.Level
	switch cfg.Logging.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Console output (human-readable)
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	cores := []zapcore.Core{consoleCore}

	// File output (structured JSON, if configured)
	if cfg.Logging.File != "" {
		file, err := os.OpenFile(cfg.Logging.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if err == nil {
			fileCore := zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.AddSync(file),
				level,
			)
			cores = append(cores, fileCore)
		}
	}

	return zap.New(zapcore.NewTee(cores...))
}
