package classifier

import (
	"context"
	"fmt"
	"math"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/chatmood/internal/device"
)

// LexiconBuilder builds a VADER backed pair. It needs no model files or
// runtime library and works on any device.
type LexiconBuilder struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewLexiconBuilder() *LexiconBuilder {
	return &LexiconBuilder{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (b *LexiconBuilder) Build(_ context.Context, d device.Device) (*Pair, error) {
	return NewPair(
		ClassifierFunc(b.classifySentiment),
		ClassifierFunc(b.classifyEmotion),
		d,
		nil,
	), nil
}

const starBuckets = 5

// classifySentiment maps the compound score in [-1, 1] onto star ratings.
// The score is how close compound sits to the centre of its bucket.
func (b *LexiconBuilder) classifySentiment(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	compound := b.analyzer.PolarityScores(text).Compound
	width := 2.0 / starBuckets
	bucket := int((compound + 1) / width)
	if bucket >= starBuckets {
		bucket = starBuckets - 1
	}
	if bucket < 0 {
		bucket = 0
	}

	centre := -1 + width*(float64(bucket)+0.5)
	score := 1 - math.Abs(compound-centre)/width

	return []Prediction{{Label: StarLabel(bucket + 1), Score: score}}, nil
}

func (b *LexiconBuilder) classifyEmotion(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := b.analyzer.PolarityScores(text)
	return []Prediction{
		{Label: "positive", Score: s.Positive},
		{Label: "negative", Score: s.Negative},
		{Label: "neutral", Score: s.Neutral},
	}, nil
}

// StarLabel formats a rating the way the multilingual review model labels it.
func StarLabel(stars int) string {
	if stars == 1 {
		return "1 star"
	}
	return fmt.Sprintf("%d stars", stars)
}
