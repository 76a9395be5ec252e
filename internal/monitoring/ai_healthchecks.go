package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/chatmood/internal/models"
)

const (
	HEALTHCHECK_TIMER   = 60 * time.Second
	HEALTHCHECK_TIMEOUT = 10 * time.Second
	CANARY_TEXT         = "GG that Gank was Kreygasm"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
}

// CheckAnalyzerHealth runs a short canary analysis.
func CheckAnalyzerHealth(ctx context.Context, analyzer Analyzer) bool {
	ctx, cancel := context.WithTimeout(ctx, HEALTHCHECK_TIMEOUT)
	defer cancel()

	if _, err := analyzer.Analyze(ctx, CANARY_TEXT); err != nil {
		slog.Warn("[HealthCheck] Canary analysis failed",
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// MonitorAnalyzerHealth checks the analyzer once, then every interval until
// ctx is done, storing the outcome in healthy.
func MonitorAnalyzerHealth(ctx context.Context, analyzer Analyzer, interval time.Duration, healthy *atomic.Bool) {
	if interval <= 0 {
		interval = HEALTHCHECK_TIMER
	}
	healthy.Store(CheckAnalyzerHealth(ctx, analyzer))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := CheckAnalyzerHealth(ctx, analyzer)
			if healthy.Swap(isHealthy) != isHealthy {
				if isHealthy {
					slog.Info("[HealthCheck] Analyzer recovered")
				} else {
					slog.Warn("[HealthCheck] Analyzer is unhealthy")
				}
			}
		}
	}
}
