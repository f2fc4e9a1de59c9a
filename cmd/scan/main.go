package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/lookout/internal/config"
	"github.com/your-org/lookout/internal/match"
	"github.com/your-org/lookout/internal/media"
	"github.com/your-org/lookout/internal/observability"
	"github.com/your-org/lookout/internal/records"
	"github.com/your-org/lookout/internal/scan"
	"github.com/your-org/lookout/internal/storage"
)

// One-shot scan runner: points the engine at a single source and runs
// until a terminal state, mirroring run log entries to stdout.
func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	sourceKind := flag.String("type", "video", "source kind: image, video or live")
	sourceURL := flag.String("source", "", "file path or URL of the media source")
	fps := flag.Int("fps", 0, "frame rate cap for live streams (0 = source default)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	if *sourceURL == "" {
		fmt.Fprintln(os.Stderr, "usage: scan -type video -source <path-or-url>")
		os.Exit(2)
	}

	db, err := records.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	minioStore, err := storage.NewMinIOStore(cfg.MinIO)
	if err != nil {
		slog.Error("connect to minio", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	matcher, err := match.NewGemini(ctx, cfg.Matcher.APIKey, cfg.Matcher.Model)
	if err != nil {
		slog.Error("create matcher client", "error", err)
		os.Exit(1)
	}

	manager := scan.NewManager(scan.ManagerDeps{
		Matcher: matcher,
		Records: db,
		Photos:  minioStore.GetObject,
		Sink:    scan.LogSink{},
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

	view, err := manager.Start(ctx, scan.SourceSpec{
		Kind: media.Kind(*sourceKind),
		URL:  *sourceURL,
		FPS:  *fps,
	})
	if err != nil {
		slog.Error("start scan", "error", err)
		os.Exit(1)
	}
	slog.Info("scan started", "run_id", view.ID, "source", *sourceURL)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			slog.Info("cancelling scan...")
			if err := manager.Cancel(ctx); err != nil {
				os.Exit(1)
			}

		case <-ticker.C:
			view, err := manager.Current()
			if err != nil {
				slog.Error("read scan state", "error", err)
				os.Exit(1)
			}
			if view.Status == scan.StatusRunning {
				continue
			}

			if view.Result != nil && view.Result.Person != nil {
				slog.Info("scan finished",
					"status", view.Status,
					"person", view.Result.Person.Name,
					"confidence", view.Result.Verdict.Confidence,
					"position", view.Position,
				)
			} else {
				slog.Info("scan finished", "status", view.Status, "samples", view.Samples)
			}
			return
		}
	}
}
