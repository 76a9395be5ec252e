package analysis

import (
	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/models"
	"gonum.org/v1/gonum/stat"
)

// AccumulateEmotions adds each prediction's score to its label, so repeated
// labels sum.
func AccumulateEmotions(into models.EmotionScores, predictions []classifier.Prediction) models.EmotionScores {
	if into == nil {
		into = make(models.EmotionScores, len(predictions))
	}
	for _, p := range predictions {
		into[p.Label] += p.Score
	}
	return into
}

// MajorityLabel returns the most frequent label. Ties go to the label seen
// first; this is arbitrary, not a ranking policy.
func MajorityLabel(labels []string) string {
	counts := make(map[string]int, len(labels))
	var order []string
	for _, l := range labels {
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}

	var best string
	bestCount := 0
	for _, l := range order {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best
}

// AggregateSentiment combines per-chunk verdicts: the majority label and the
// mean score.
func AggregateSentiment(results []models.SentimentResult) models.SentimentResult {
	if len(results) == 0 {
		return models.SentimentResult{}
	}

	labels := make([]string, len(results))
	scores := make([]float64, len(results))
	for i, r := range results {
		labels[i] = r.Label
		scores[i] = r.Score
	}

	return models.SentimentResult{
		Label: MajorityLabel(labels),
		Score: stat.Mean(scores, nil),
	}
}

// AverageEmotions sums each label across chunks and divides by the number
// of chunks. A label missing from a chunk counts as zero there.
func AverageEmotions(perChunk []models.EmotionScores) models.EmotionScores {
	totals := make(models.EmotionScores)
	if len(perChunk) == 0 {
		return totals
	}

	for _, scores := range perChunk {
		for label, score := range scores {
			totals[label] += score
		}
	}

	n := float64(len(perChunk))
	for label := range totals {
		totals[label] /= n
	}
	return totals
}
