// Package analysis turns chat text into a sentiment verdict and an emotion
// distribution, splitting long inputs into chunks and recovering from
// accelerator failures.
package analysis

import (
	"context"
	"fmt"

	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	MAX_CHUNK_WORDS   = 512
	CHUNK_CONCURRENCY = 4
)

// Engine runs both classifiers over a text and aggregates the results.
type Engine struct {
	maxWords    int
	concurrency int
}

type EngineOption func(*Engine)

// WithMaxWords sets the chunk size in whitespace separated words.
func WithMaxWords(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.maxWords = n
		}
	}
}

// WithConcurrency bounds how many chunks are classified at once.
func WithConcurrency(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		maxWords:    MAX_CHUNK_WORDS,
		concurrency: CHUNK_CONCURRENCY,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxWords returns the chunk size.
func (e *Engine) MaxWords() int {
	return e.maxWords
}

// Run classifies text with pair. Text up to the chunk size is classified in
// one call per classifier; longer text is chunked and the chunk results
// averaged.
func (e *Engine) Run(ctx context.Context, text string, pair *classifier.Pair) (models.Analysis, error) {
	words := Words(text)
	if len(words) <= e.maxWords {
		sentiment, emotions, err := classifyChunk(ctx, pair, text)
		if err != nil {
			return models.Analysis{}, err
		}
		return models.Analysis{Sentiment: sentiment, Emotions: emotions}, nil
	}

	chunks := Chunk(words, e.maxWords)
	sentiments := make([]models.SentimentResult, len(chunks))
	emotions := make([]models.EmotionScores, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			s, em, err := classifyChunk(gctx, pair, chunk)
			if err != nil {
				return fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
			}
			sentiments[i] = s
			emotions[i] = em
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.Analysis{}, err
	}

	return models.Analysis{
		Sentiment: AggregateSentiment(sentiments),
		Emotions:  AverageEmotions(emotions),
	}, nil
}

func classifyChunk(ctx context.Context, pair *classifier.Pair, text string) (models.SentimentResult, models.EmotionScores, error) {
	sentiment, err := pair.Sentiment.Classify(ctx, text)
	if err != nil {
		return models.SentimentResult{}, nil, fmt.Errorf("sentiment classifier: %w", err)
	}
	if len(sentiment) == 0 {
		return models.SentimentResult{}, nil, fmt.Errorf("sentiment classifier: %w", classifier.ErrNoPredictions)
	}

	emotion, err := pair.Emotion.Classify(ctx, text)
	if err != nil {
		return models.SentimentResult{}, nil, fmt.Errorf("emotion classifier: %w", err)
	}

	return models.SentimentResult{Label: sentiment[0].Label, Score: sentiment[0].Score},
		AccumulateEmotions(nil, emotion),
		nil
}
