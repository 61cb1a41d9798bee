// Package main is the entry point for the memtray sampling core. It wires
// the process-table reader, identity resolver, host-stats provider, snapshot
// builder and refresh scheduler, and runs the sampling loop in the
// background until interrupted. A presentation layer embeds the same wiring
// and consumes snapshots from the store.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/memtray/memtray/internal/appid"
	"github.com/memtray/memtray/internal/apps"
	"github.com/memtray/memtray/internal/autostart"
	"github.com/memtray/memtray/internal/config"
	"github.com/memtray/memtray/internal/hoststats"
	"github.com/memtray/memtray/internal/proctable"
	"github.com/memtray/memtray/internal/publish"
	"github.com/memtray/memtray/internal/scheduler"
	"github.com/memtray/memtray/internal/snapshot"
)

var (
	// version is set at build time via -ldflags.
	version = "dev"

	configPath  = flag.String("config", "", "Path to configuration file")
	showVersion = flag.Bool("version", false, "Show version and exit")
	runOnce     = flag.Bool("once", false, "Build a single snapshot, print it as JSON, and exit")
	install     = flag.Bool("install", false, "Register launch at login and exit")
	uninstall   = flag.Bool("uninstall", false, "Unregister launch at login and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("memtray %s\n", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	if *install || *uninstall {
		runLoginItemCommand(logger, *install)
		return
	}

	logger.Info("Starting memtray",
		zap.String("version", version),
		zap.Duration("interval", cfg.Sampling.Interval.Duration))

	// Component wiring, leaf-first.
	reader := proctable.NewSystemReader()
	resolver := appid.NewResolver(
		reader,
		appid.NewPlistResolver(),
		appid.ParsePolicy(cfg.Identity.MatchPolicy),
		cfg.Identity.MaxAncestryDepth,
		logger,
	)
	host := hoststats.NewProvider(
		hoststats.NewSystemSource(),
		hoststats.Thresholds{Warning: cfg.Pressure.Warning, Critical: cfg.Pressure.Critical},
		logger,
	)
	lister := apps.NewBundleScan(reader, resolver)
	builder := snapshot.NewBuilder(lister, reader, resolver, host, logger)

	if *runOnce {
		printSnapshot(builder)
		return
	}

	if cfg.Autostart.Enabled {
		autostart.Register(logger)
	}

	store := snapshot.NewStore()
	if cfg.Publish.Enabled {
		pub, err := publish.New(cfg.Publish.URL, cfg.Publish.Subject, logger)
		if err != nil {
			// Best effort: sampling continues without external consumers.
			logger.Warn("snapshot publisher unavailable", zap.Error(err))
		} else {
			defer pub.Close()
			store.OnUpdate(pub.Publish)
		}
	}

	sched := scheduler.New(
		builder,
		store,
		reader,
		cfg.Sampling.Interval.Duration,
		cfg.Sampling.SettleDelay.Duration,
		logger,
	)

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

	sched.Start(ctx)
	logger.Info("Monitor stopped")
}

// runLoginItemCommand installs or removes the login item and exits.
func runLoginItemCommand(logger *zap.Logger, doInstall bool) {
	m := autostart.New()
	if doInstall {
		execPath, err := os.Executable()
		if err != nil {
			logger.Fatal("Cannot determine executable path", zap.Error(err))
		}
		if err := m.Install(execPath); err != nil {
			logger.Fatal("Login item installation failed", zap.Error(err))
		}
		logger.Info("Login item installed", zap.String("service", m.ServiceName()))
		return
	}
	if err := m.Uninstall(); err != nil {
		logger.Fatal("Login item removal failed", zap.Error(err))
	}
	logger.Info("Login item removed", zap.String("service", m.ServiceName()))
}

// printSnapshot builds one snapshot and writes it to stdout as JSON.
func printSnapshot(builder *snapshot.Builder) {
	snap := builder.Build(context.Background())
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode snapshot: %v\n", err)
		os.Exit(1)
	}
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

	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)

	cores := []zapcore.Core{consoleCore}

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
