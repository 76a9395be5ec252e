package analysis

import (
	"testing"

	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestMajorityLabel(t *testing.T) {
	tests := []struct {
		desc   string
		labels []string
		want   string
	}{
		{"clear majority", []string{"1 star", "5 stars", "5 stars"}, "5 stars"},
		{"tie goes to first seen", []string{"2 stars", "4 stars", "4 stars", "2 stars"}, "2 stars"},
		{"all distinct", []string{"3 stars", "1 star", "5 stars"}, "3 stars"},
		{"single", []string{"4 stars"}, "4 stars"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, MajorityLabel(tt.labels))
		})
	}
}

func TestAggregateSentiment(t *testing.T) {
	got := AggregateSentiment([]models.SentimentResult{
		{Label: "5 stars", Score: 0.9},
		{Label: "1 star", Score: 0.3},
		{Label: "5 stars", Score: 0.6},
	})
	assert.Equal(t, "5 stars", got.Label)
	assert.InDelta(t, 0.6, got.Score, 1e-9)

	assert.Equal(t, models.SentimentResult{}, AggregateSentiment(nil))
}

func TestAccumulateEmotions_SumsDuplicates(t *testing.T) {
	got := AccumulateEmotions(nil, []classifier.Prediction{
		{Label: "joy", Score: 0.5},
		{Label: "anger", Score: 0.1},
		{Label: "joy", Score: 0.25},
	})
	assert.InDelta(t, 0.75, got["joy"], 1e-9)
	assert.InDelta(t, 0.1, got["anger"], 1e-9)
}

func TestAverageEmotions_MissingCountsAsZero(t *testing.T) {
	got := AverageEmotions([]models.EmotionScores{
		{"joy": 0.8, "anger": 0.2},
		{"joy": 0.4},
		{"sadness": 0.9},
	})
	assert.InDelta(t, 0.4, got["joy"], 1e-9)
	assert.InDelta(t, 0.2/3, got["anger"], 1e-9)
	assert.InDelta(t, 0.3, got["sadness"], 1e-9)

	assert.Empty(t, AverageEmotions(nil))
}
