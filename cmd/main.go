package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"estate-bridge/domain"
	"estate-bridge/infrastructure/rpc"
	"estate-bridge/internal"
	"estate-bridge/ledger"
	"estate-bridge/observability"
	"estate-bridge/repositories"
	"estate-bridge/search"
	"estate-bridge/validation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the daemon lifecycle, and
// centralizes error reporting so that deferred cleanups (database and
// index close) always execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := newLogger(config.LogLevel)

	// 2. Storage (BadgerDB snapshot cache + Bluge search index)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	// 3. Metrics
	registry := prometheus.NewRegistry()
	metrics := observability.NewTxMetrics(registry)

	// 4. Wallet bridge + gateway wiring
	client := rpc.NewClient(config.BridgeEndpoint, log)
	store := repositories.NewPropertyRepository(db, log)
	attempts := repositories.NewAttemptRepository(db, log, config.AttemptLimit)

	guard, err := validation.NewGuard()
	if err != nil {
		return fmt.Errorf("building form guard: %w", err)
	}

	orchestrator := ledger.NewOrchestrator(ledger.OrchestratorDeps{
		Ledger:    client,
		Store:     store,
		Guard:     guard,
		Preflight: ledger.NewPreflight(client, log),
		Attempts:  attempts,
		Metrics:   metrics,
		OnRefresh: func(properties []domain.ListedProperty) {
			if err := index.Rebuild(properties); err != nil {
				log.Warn("search reindex failed", "error", err)
			}
		},
		Log: log,
	})
	gateway := ledger.NewGateway(orchestrator, guard, client, store, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The bridge may come up after us; a failed first connect only
	// delays the snapshot until the next refresh tick.
	if err := gateway.Connect(ctx); err != nil {
		log.Warn("initial wallet connect failed", "error", err)
	}

	go client.WatchAccount(ctx, config.AccountPollInterval)

	internal.StartDebugServer(db, registry, config.DebugPort, internal.DefaultMapper, func() map[string]any {
		return map[string]any{
			"Account": gateway.Account().String(),
			"Bridge":  config.BridgeEndpoint,
			"Time":    time.Now().Format(time.RFC822),
		}
	})

	log.Info("estate-bridge daemon started",
		"bridge", config.BridgeEndpoint,
		"debug_port", config.DebugPort,
	)

	ticker := time.NewTicker(config.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down...")
			return nil
		case <-ticker.C:
			if err := gateway.Refresh(ctx); err != nil {
				log.Warn("scheduled refresh failed", "error", err)
			}
		}
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
