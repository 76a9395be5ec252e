package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/chatmood/config"
	"github.com/spacesedan/chatmood/internal/api"
	"github.com/spacesedan/chatmood/internal/app"
	"github.com/spacesedan/chatmood/internal/logging"
	"github.com/spacesedan/chatmood/internal/monitoring"
	"github.com/spacesedan/chatmood/internal/preprocess"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.NewAnalysisService(ctx, cfg)
	if err != nil {
		slog.Error("[Main] Failed to start analysis service",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer svc.Close()

	analyzer, closeCache := app.WithCache(ctx, cfg.Cache, svc)
	defer closeCache()

	healthy := &atomic.Bool{}
	healthy.Store(true)
	if cfg.API.HealthcheckInterval > 0 {
		go monitoring.MonitorAnalyzerHealth(ctx, svc, cfg.API.HealthcheckInterval, healthy)
	}

	handler := api.NewHandler(analyzer,
		api.WithDevice(svc.Device),
		api.WithHealth(healthy),
		api.WithPreprocess(preprocess.Options{StripMarkdown: cfg.API.StripMarkdown}),
	)
	server := api.NewServer(cfg.API.Addr, api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.API.AllowedOrigins,
		RequestTimeout: cfg.API.RequestTimeout,
	}))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("[Main] Server stopped",
				slog.String("error", err.Error()))
		}
	case <-ctx.Done():
		slog.Info("[Main] Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("[Main] Graceful shutdown failed",
				slog.String("error", err.Error()))
		}
	}
}
