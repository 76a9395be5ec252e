package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/chatmood/internal/device"
)

// ErrIncompletePair is returned when a builder hands back a pair that is
// missing a classifier or is bound to the wrong device.
var ErrIncompletePair = errors.New("incomplete classifier pair")

// Builder constructs both classifiers on a device.
type Builder interface {
	Build(ctx context.Context, d device.Device) (*Pair, error)
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, d device.Device) (*Pair, error)

func (f BuilderFunc) Build(ctx context.Context, d device.Device) (*Pair, error) {
	return f(ctx, d)
}

// Loader builds classifier pairs, falling back to the baseline device when
// an accelerator cannot be used.
type Loader struct {
	builder Builder
}

func NewLoader(builder Builder) *Loader {
	return &Loader{builder: builder}
}

// Load builds a pair on d. If that fails on an accelerator, the failure is
// logged and the pair is built on the baseline device instead. The returned
// pair's Device is the effective device.
func (l *Loader) Load(ctx context.Context, d device.Device) (*Pair, error) {
	pair, err := l.build(ctx, d)
	if err == nil {
		return pair, nil
	}
	if d.IsBaseline() {
		return nil, err
	}

	slog.Warn("[ModelLoader] Failed to load classifiers, falling back to baseline",
		slog.String("device", d.String()),
		slog.String("fallback", device.Baseline.String()),
		slog.String("error", err.Error()))

	return l.build(ctx, device.Baseline)
}

// ReloadOnBaseline releases old and rebuilds both classifiers on the
// baseline device. old may be nil.
func (l *Loader) ReloadOnBaseline(ctx context.Context, old *Pair) (*Pair, error) {
	if old != nil {
		slog.Warn("[ModelLoader] Releasing classifiers before baseline reload",
			slog.String("device", old.Device.String()))
		_ = old.Close()
	}
	return l.build(ctx, device.Baseline)
}

func (l *Loader) build(ctx context.Context, d device.Device) (pair *Pair, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			pair = nil
			err = fmt.Errorf("building classifiers on %s panicked: %v", d, r)
		}
	}()

	pair, err = l.builder.Build(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to build classifiers on %s: %w", d, err)
	}
	if pair == nil || pair.Sentiment == nil || pair.Emotion == nil || pair.Device != d {
		if pair != nil {
			_ = pair.Close()
		}
		return nil, fmt.Errorf("failed to build classifiers on %s: %w", d, ErrIncompletePair)
	}

	slog.Info("[ModelLoader] Classifiers loaded",
		slog.String("device", d.String()),
		slog.Duration("elapsed", time.Since(start)))
	return pair, nil
}
