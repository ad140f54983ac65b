package main

import (
	"context"
	"cool-chat/api"
	"cool-chat/auth"
	"cool-chat/domain"
	"cool-chat/internal"
	"cool-chat/observability"
	"cool-chat/projection"
	"cool-chat/repositories"
	"cool-chat/runtime"
	"cool-chat/runtime/workers"
	"cool-chat/services"
	"cool-chat/sink"
	"cool-chat/ws"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns the server lifecycle, so deferred
// cleanups (badger, bluge) always execute before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

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

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	searchRepository := repositories.NewSearchRepository(writer, log)
	userRepository := repositories.NewUserRepository(db)

	// 3. Observability
	metrics := observability.NewMetrics()
	health, err := observability.NewHealthMonitor()
	if err != nil {
		return fmt.Errorf("health monitor failed: %w", err)
	}

	// 4. Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	registry := runtime.NewRegistry()
	timeline := projection.NewTimeline(config.TimelineSize)

	orchestrator := runtime.NewOrchestrator(
		log, sup, registry,
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout,
		charReplacement, config.RoomHistorySize,
	)
	orchestrator.Add(
		timeline,
		sink.NewDiskSink(messageRepository, log),
		sink.NewSearchSink(searchRepository, log),
		sink.NewMetricsSink(metrics),
	)
	orchestrator.OnDrop(func(domain.Command) { metrics.CommandDropped() })

	sup.Add(
		workers.NewChannelCapacityWorker(log, orchestrator.Channels(), metrics, config.MetricInterval),
		workers.NewHealthMonitoringWorker(log, health, metrics, registry, config.MetricInterval),
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	defer orchestrator.Stop()

	// 6. Services & transport
	issuer, err := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	authService := services.NewAuthService(userRepository, issuer, auth.DefaultParams)
	chatService := services.NewChatService(orchestrator, messageRepository, searchRepository,
		timeline, config.MaxContentLength, config.SearchLimit)

	wsHandler := ws.NewHandler(chatService, authService, ws.Config{
		AllowAnonymous: config.AllowAnonymous,
		MaxFrameSize:   int64(config.MaxFrameSize),
		PongWait:       config.PongWait,
		PingInterval:   config.PingInterval,
		WriteWait:      config.WriteWait,
		BufferSize:     config.ConnectionBufferSize,
	}, log)

	server := api.NewServer(api.Config{
		Addr:        config.Address(),
		Auth:        authService,
		Chat:        chatService,
		WS:          wsHandler,
		Metrics:     metrics,
		Health:      health,
		Connections: registry.Connections,
		Logger:      log,
	})

	errChan := make(chan error, 1)
	go func() {
		log.Info("Serving chat", "address", config.Address(), "at", time.Now().UTC())
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	log.Info("Program stopped cleanly")

	return nil
}
