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
	"github.com/spacesedan/chatmood/internal/app"
	"github.com/spacesedan/chatmood/internal/clients/kafka_client"
	"github.com/spacesedan/chatmood/internal/consumers"
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

	var producer *kafka_client.Producer
	for {
		producer, err = kafka_client.NewProducer(ctx, cfg.Kafka)
		if err == nil {
			break
		}
		slog.Warn("[Main] Kafka init failed, retrying...", slog.String("error", err.Error()))
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
	defer producer.Close()

	analyzerHealthy := &atomic.Bool{}
	analyzerHealthy.Store(true)
	if cfg.API.HealthcheckInterval > 0 {
		go monitoring.MonitorAnalyzerHealth(ctx, svc, cfg.API.HealthcheckInterval, analyzerHealthy)
	}

	chatConsumer := consumers.NewChatConsumer(analyzer, producer,
		consumers.WithResultsTopic(cfg.Kafka.ResultsTopic),
		consumers.WithPreprocess(preprocess.Options{StripMarkdown: cfg.API.StripMarkdown}),
	)
	kafka_client.RegisterConsumer(cfg.Kafka.Topic,
		consumers.WrapConsumer(chatConsumer.Start).WithHealthCheck(analyzerHealthy).Handler())

	if err := kafka_client.StartConsumer(ctx, cfg.Kafka); err != nil {
		slog.Error("[Main] Failed to start consumer",
			slog.String("error", err.Error()))
	}
}
