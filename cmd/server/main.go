package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-app/internal"
	"chat-app/observability"
	"chat-app/repositories"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes storage and the inspection surface, then waits for a
// shutdown signal. Returning the error to main keeps every defer
// (database close, index flush) on the shutdown path.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Storage (BadgerDB + Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Rebuild the derived search index from the source of truth.
	searchIndex := repositories.NewUserSearchIndex(blugeWriter)
	indexed, err := repositories.ReindexUsers(db, searchIndex)
	if err != nil {
		return fmt.Errorf("search reindex failed: %w", err)
	}
	log.Info("Search index rebuilt", "users", indexed)

	// 4. Telemetry & Inspector
	monitor := observability.NewMonitor(log)
	go func() {
		if err := monitor.Run(ctx, config.MetricInterval); err != nil && ctx.Err() == nil {
			log.Error("Monitor stopped", "err", err)
		}
	}()

	statsProvider := func() map[string]any {
		stats := monitor.GetLatest()
		counts := internal.CountByPrefix(db, "user:", "group:", "msg:", "contact:")
		return map[string]any{
			"users":       counts["user:"],
			"groups":      counts["group:"],
			"messages":    counts["msg:"],
			"contacts":    counts["contact:"],
			"cpu_percent": fmt.Sprintf("%.1f", stats.CpuPercent),
			"ram_mb":      stats.RamBytes / 1024 / 1024,
			"goroutines":  stats.Goroutines,
		}
	}
	internal.StartDebugServer(db, config.InspectPort, "/inspect", internal.DefaultMapper, statsProvider)
	log.Info("Inspector available", "url", fmt.Sprintf("http://localhost:%d/inspect", config.InspectPort))

	// 5. Wait for shutdown
	<-ctx.Done()
	log.Info("Shutting down gracefully...")
	return nil
}
