package app

import (
	"context"
	"testing"

	"github.com/spacesedan/chatmood/config"
	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectDevice_Pinned(t *testing.T) {
	assert.Equal(t, device.CPU, SelectDevice(config.ModelConfig{Device: "cpu"}))
	assert.Equal(t, device.CUDA, SelectDevice(config.ModelConfig{Device: "cuda"}))
}

func TestNewBuilder(t *testing.T) {
	b, err := NewBuilder(config.ModelConfig{Backend: BACKEND_LEXICON})
	require.NoError(t, err)
	assert.IsType(t, &classifier.LexiconBuilder{}, b)

	_, err = NewBuilder(config.ModelConfig{Backend: "tensorflow"})
	require.Error(t, err)

	_, err = NewBuilder(config.ModelConfig{
		Backend:        BACKEND_HUGOT,
		Dir:            t.TempDir(),
		SentimentModel: "org/missing",
		EmotionModel:   "org/missing-too",
	})
	require.Error(t, err)
}

func TestNewAnalysisService_Lexicon(t *testing.T) {
	cfg := config.Config{
		Models:   config.ModelConfig{Backend: BACKEND_LEXICON, Device: "cpu"},
		Analysis: config.AnalysisConfig{ChunkMaxWords: 512, ChunkConcurrency: 2},
	}

	svc, err := NewAnalysisService(context.Background(), cfg)
	require.NoError(t, err)
	defer svc.Close()

	result, err := svc.Analyze(context.Background(), "GG that Gank was Kreygasm")
	require.NoError(t, err)
	assert.Equal(t, device.CPU, result.DeviceUsed)
	assert.NotEmpty(t, result.Sentiment.Label)
	assert.Contains(t, result.Emotions, "positive")
}

func TestWithCache_Disabled(t *testing.T) {
	svc, err := NewAnalysisService(context.Background(), config.Config{
		Models: config.ModelConfig{Backend: BACKEND_LEXICON, Device: "cpu"},
	})
	require.NoError(t, err)
	defer svc.Close()

	analyzer, closeFn := WithCache(context.Background(), config.CacheConfig{}, svc)
	defer closeFn()
	assert.Same(t, svc, analyzer)
}
