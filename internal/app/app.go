// Package app wires configuration into the analysis stack shared by the
// binaries.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spacesedan/chatmood/config"
	"github.com/spacesedan/chatmood/internal/analysis"
	"github.com/spacesedan/chatmood/internal/cache"
	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/clients"
	"github.com/spacesedan/chatmood/internal/device"
	"github.com/spacesedan/chatmood/internal/models"
)

const (
	BACKEND_HUGOT   = "hugot"
	BACKEND_LEXICON = "lexicon"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
}

// SelectDevice honors DEVICE when it names a device and probes otherwise.
func SelectDevice(cfg config.ModelConfig) device.Device {
	var opts []device.Option
	if cfg.Device != "" && cfg.Device != "auto" {
		d, err := device.Parse(cfg.Device)
		if err != nil {
			slog.Warn("[App] Ignoring unknown device, probing instead",
				slog.String("device", cfg.Device))
		} else {
			opts = append(opts, device.WithPinned(d))
		}
	}
	return device.NewSelector(opts...).Select()
}

// NewBuilder returns the classifier backend named by cfg.Backend.
func NewBuilder(cfg config.ModelConfig) (classifier.Builder, error) {
	switch cfg.Backend {
	case BACKEND_LEXICON:
		return classifier.NewLexiconBuilder(), nil
	case BACKEND_HUGOT, "":
		sentimentPath, err := classifier.EnsureModel(cfg.SentimentModel, cfg.Dir, cfg.AutoDownload)
		if err != nil {
			return nil, fmt.Errorf("sentiment model: %w", err)
		}
		emotionPath, err := classifier.EnsureModel(cfg.EmotionModel, cfg.Dir, cfg.AutoDownload)
		if err != nil {
			return nil, fmt.Errorf("emotion model: %w", err)
		}
		return classifier.NewHugotBuilder(classifier.HugotConfig{
			OnnxLibraryPath:    cfg.OnnxLibraryPath,
			SentimentModelPath: sentimentPath,
			EmotionModelPath:   emotionPath,
			EmotionTopK:        cfg.EmotionTopK,
		}), nil
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
	}
}

// NewAnalysisService selects a device, builds the backend and loads the
// classifiers.
func NewAnalysisService(ctx context.Context, cfg config.Config) (*analysis.Service, error) {
	builder, err := NewBuilder(cfg.Models)
	if err != nil {
		return nil, err
	}

	engine := analysis.NewEngine(
		analysis.WithMaxWords(cfg.Analysis.ChunkMaxWords),
		analysis.WithConcurrency(cfg.Analysis.ChunkConcurrency),
	)

	return analysis.NewService(ctx,
		classifier.NewLoader(builder),
		SelectDevice(cfg.Models),
		analysis.WithEngine(engine),
	)
}

// WithCache puts a valkey result cache in front of analyzer when one is
// configured. The returned close func is never nil. An unreachable cache is
// logged and skipped.
func WithCache(ctx context.Context, cfg config.CacheConfig, analyzer cache.Analyzer) (Analyzer, func()) {
	if !cfg.Enabled() {
		return analyzer, func() {}
	}

	client, err := clients.NewValkeyClient(ctx, cfg)
	if err != nil {
		slog.Warn("[App] Result cache unavailable, continuing without it",
			slog.String("error", err.Error()))
		return analyzer, func() {}
	}
	return cache.New(analyzer, client, cfg.TTL), client.Close
}
