package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/device"
	"github.com/spacesedan/chatmood/internal/models"
	"github.com/spacesedan/chatmood/internal/slang"
)

var (
	// ErrClassification wraps every failure surfaced by Analyze.
	ErrClassification = errors.New("classification failed")
	// ErrNotReady means no classifiers are loaded, usually after a failed
	// baseline reload.
	ErrNotReady = errors.New("classifiers are not loaded")
)

// PairLoader builds classifier pairs. classifier.Loader implements it.
type PairLoader interface {
	Load(ctx context.Context, d device.Device) (*classifier.Pair, error)
	ReloadOnBaseline(ctx context.Context, old *classifier.Pair) (*classifier.Pair, error)
}

// Normalizer rewrites text before classification. slang.Table implements it.
type Normalizer interface {
	Normalize(text string) string
}

// Service is the entry point for analysis. It owns the active classifier
// pair and swaps it for a baseline pair when an accelerator fails.
type Service struct {
	loader     PairLoader
	normalizer Normalizer
	engine     *Engine

	// mu guards pair. Analyses hold the read lock for the whole run so a
	// reload never releases a pair that is still in use.
	mu   sync.RWMutex
	pair *classifier.Pair
}

type ServiceOption func(*Service)

func WithNormalizer(n Normalizer) ServiceOption {
	return func(s *Service) {
		s.normalizer = n
	}
}

func WithEngine(e *Engine) ServiceOption {
	return func(s *Service) {
		s.engine = e
	}
}

// NewService loads classifiers on d, falling back to the baseline device if
// needed.
func NewService(ctx context.Context, loader PairLoader, d device.Device, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		loader:     loader,
		normalizer: slang.DefaultTable(),
		engine:     NewEngine(),
	}
	for _, opt := range opts {
		opt(s)
	}

	pair, err := loader.Load(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to load classifiers: %w", err)
	}
	s.pair = pair

	slog.Info("[AnalysisService] Ready",
		slog.String("requested_device", d.String()),
		slog.String("device", pair.Device.String()),
		slog.Int("chunk_max_words", s.engine.MaxWords()))
	return s, nil
}

// Device returns the device the current classifiers are bound to.
func (s *Service) Device() device.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return device.Baseline
	}
	return s.pair.Device
}

// Analyze normalizes text and classifies it. A failure on an accelerator
// triggers one reload on the baseline device and one retry; a failure on the
// baseline device is returned as is.
func (s *Service) Analyze(ctx context.Context, text string) (models.AnalysisResult, error) {
	start := time.Now()
	retried := false

	for {
		result, pair, err := s.run(ctx, s.normalizer.Normalize(text))
		if err == nil {
			slog.Debug("[AnalysisService] Analysis complete",
				slog.String("device", result.DeviceUsed.String()),
				slog.Bool("retried", retried),
				slog.Duration("elapsed", time.Since(start)))
			return result, nil
		}

		if pair == nil || retried || pair.Device.IsBaseline() || ctx.Err() != nil {
			slog.Error("[AnalysisService] Analysis failed",
				slog.Bool("retried", retried),
				slog.String("error", err.Error()))
			return models.AnalysisResult{}, fmt.Errorf("%w: %w", ErrClassification, err)
		}

		slog.Warn("[AnalysisService] Classification failed, reloading on baseline",
			slog.String("device", pair.Device.String()),
			slog.String("error", err.Error()))

		retried = true
		if reloadErr := s.reload(ctx, pair); reloadErr != nil {
			slog.Error("[AnalysisService] Baseline reload failed",
				slog.String("error", reloadErr.Error()))
			return models.AnalysisResult{}, fmt.Errorf("%w: %w", ErrClassification, errors.Join(err, reloadErr))
		}
	}
}

func (s *Service) run(ctx context.Context, text string) (models.AnalysisResult, *classifier.Pair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair := s.pair
	if pair == nil {
		return models.AnalysisResult{}, nil, ErrNotReady
	}

	analysis, err := s.engine.Run(ctx, text, pair)
	if err != nil {
		return models.AnalysisResult{}, pair, err
	}
	return models.AnalysisResult{Analysis: analysis, DeviceUsed: pair.Device}, pair, nil
}

// reload swaps failed for a baseline pair. If another caller already swapped
// it, there is nothing to do.
func (s *Service) reload(ctx context.Context, failed *classifier.Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pair != failed {
		return nil
	}

	pair, err := s.loader.ReloadOnBaseline(ctx, failed)
	if err != nil {
		s.pair = nil
		return err
	}
	s.pair = pair

	slog.Info("[AnalysisService] Switched to baseline device",
		slog.String("device", pair.Device.String()))
	return nil
}

// Close releases the current classifiers.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pair == nil {
		return nil
	}
	err := s.pair.Close()
	s.pair = nil
	return err
}
