// Package classifier wraps the text classification models behind a small
// interface and owns their lifecycle on a compute device.
package classifier

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/spacesedan/chatmood/internal/device"
)

// ErrNoPredictions is returned when a classifier produced an empty result.
var ErrNoPredictions = errors.New("classifier returned no predictions")

// Prediction is a single label with its confidence.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier scores a piece of text. Label vocabularies are opaque.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]Prediction, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, text string) ([]Prediction, error)

func (f ClassifierFunc) Classify(ctx context.Context, text string) ([]Prediction, error) {
	return f(ctx, text)
}

// Pair is a sentiment and an emotion classifier bound to the same device.
// Pairs are built and released as a unit.
type Pair struct {
	Sentiment Classifier
	Emotion   Classifier
	Device    device.Device

	closer    func() error
	closeOnce sync.Once
	closeErr  error
}

// NewPair binds two classifiers to d. closer releases backend resources and
// may be nil.
func NewPair(sentiment, emotion Classifier, d device.Device, closer func() error) *Pair {
	return &Pair{
		Sentiment: sentiment,
		Emotion:   emotion,
		Device:    d,
		closer:    closer,
	}
}

// Close releases the backend. Safe to call more than once.
func (p *Pair) Close() error {
	if p == nil {
		return nil
	}
	p.closeOnce.Do(func() {
		if p.closer == nil {
			return
		}
		p.closeErr = p.closer()
		if p.closeErr != nil {
			slog.Warn("[ClassifierPair] Failed to release classifiers",
				slog.String("device", p.Device.String()),
				slog.String("error", p.closeErr.Error()))
		}
	})
	return p.closeErr
}
