package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidscope/internal/refresher"
	"vidscope/internal/store"
	"vidscope/shared/config"
	"vidscope/shared/logger"
	"vidscope/shared/monitoring"
	"vidscope/shared/platform"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(&cfg.Database, lg)
	if err != nil {
		lg.Fatal("failed to open store", "error", err)
	}

	client, err := platform.NewClient(ctx, &cfg.YouTube, lg)
	if err != nil {
		lg.Fatal("failed to create platform client", "error", err)
	}

	maxAge := time.Duration(cfg.Refresher.MaxAgeHours) * time.Hour
	tracker, err := refresher.NewTracker(cfg.Refresher.DataDir, maxAge)
	if err != nil {
		lg.Fatal("failed to create round tracker", "error", err)
	}

	monitor := monitoring.NewMonitor(lg)
	r := refresher.New(st, client, tracker, monitor, cfg.Refresher.Schedule, cfg.Refresher.VideosPerRun, lg)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := r.RunOnce(ctx); err != nil {
			lg.Fatal("refresh failed", "error", err)
		}
		return
	}

	health := monitoring.NewHealthServer(monitor, cfg.Refresher.HealthPort, lg)
	health.Start()

	if err := r.Start(ctx); err != nil && err != context.Canceled {
		lg.Fatal("refresher failed", "error", err)
	}
}
