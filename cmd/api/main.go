package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/your-org/lookout/internal/api"
	"github.com/your-org/lookout/internal/api/ws"
	"github.com/your-org/lookout/internal/config"
	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/models"
	"github.com/your-org/lookout/internal/observability"
	"github.com/your-org/lookout/internal/queue"
	"github.com/your-org/lookout/internal/records"
	"github.com/your-org/lookout/internal/scan"
	"github.com/your-org/lookout/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("starting lookout API service", "port", cfg.Server.Port)

	// Connect to Postgres
	db, err := records.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Connect to MinIO
	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}
	if err := minioStore.EnsureBucket(context.Background()); err != nil {
		slog.Warn("ensure minio bucket", "error", err)
	}

	// Connect to NATS
	producer, err := queue.NewProducer(cfg.NATS.URL)
	if err != nil {
		slog.Error("connect to nats", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	if err := producer.EnsureStreams(context.Background()); err != nil {
		slog.Warn("ensure nats streams", "error", err)
	}

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Relay scan events from the stream to connected WebSocket clients.
	consumer, err := queue.NewConsumer(cfg.NATS.URL)
	if err != nil {
		slog.Error("create event consumer", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = consumer.ConsumeScanEvents(ctx, "api-scan-events", func(ctx context.Context, msg jetstream.Msg) error {
		var evt models.ScanEvent
		if err := json.Unmarshal(msg.Data(), &evt); err != nil {
			return err
		}
		hub.BroadcastEvent(&evt)
		return nil
	})
	if err != nil {
		slog.Warn("start scan event consumer", "error", err)
	}

	// Matching service client
	matcher, err := match.NewGemini(ctx, cfg.Matcher.APIKey, cfg.Matcher.Model)
	if err != nil {
		slog.Error("create matcher client", "error", err)
		os.Exit(1)
	}

	// Scan manager: one active source per process.
	manager := scan.NewManager(scan.ManagerDeps{
		Matcher: matcher,
		Records: db,
		Photos:  minioStore.GetObject,
		Sink: scan.SinkFunc(func(ctx context.Context, evt models.ScanEvent) {
			if err := producer.PublishScanEvent(ctx, evt); err != nil {
				slog.Warn("publish scan event", "error", err)
			}
		}),
		Archive: func(ctx context.Context, key string, frame []byte) error {
			return minioStore.PutObject(ctx, key, frame, "image/jpeg")
		},
	}, scan.ManagerConfig{
		Orchestrator: scan.Config{
			SampleInterval:  cfg.Scan.SampleInterval,
			LiveDelay:       cfg.Scan.LiveDelay,
			AcceptThreshold: cfg.Matcher.AcceptThreshold,
			LogLimit:        cfg.Scan.LogLimit,
		},
		SeekTimeout: cfg.Scan.SeekTimeout,
		FrameWidth:  cfg.Scan.FrameWidth,
		JPEGQuality: cfg.Scan.JPEGQuality,
	})
	defer manager.Close()

	// Setup router
	router := api.NewRouter(api.RouterConfig{
		APIKey:     cfg.Server.APIKey,
		AuthHeader: cfg.Server.AuthHeader,
		DB:         db,
		MinIO:      minioStore,
		Producer:   producer,
		Hub:        hub,
		Scans:      manager,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("API server stopped")
}
