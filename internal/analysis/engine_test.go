package analysis

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spacesedan/chatmood/internal/classifier"
	"github.com/spacesedan/chatmood/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a classifier that remembers every input and answers with
// respond.
type recorder struct {
	mu      sync.Mutex
	inputs  []string
	respond func(text string) ([]classifier.Prediction, error)
}

func (r *recorder) Classify(_ context.Context, text string) ([]classifier.Prediction, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, text)
	r.mu.Unlock()
	return r.respond(text)
}

func (r *recorder) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inputs)
}

func fixed(preds ...classifier.Prediction) func(string) ([]classifier.Prediction, error) {
	return func(string) ([]classifier.Prediction, error) { return preds, nil }
}

func repeatWord(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func newPair(sentiment, emotion *recorder) *classifier.Pair {
	return classifier.NewPair(sentiment, emotion, device.CPU, nil)
}

func TestEngine_ShortTextClassifiedOnce(t *testing.T) {
	for _, n := range []int{1, 100, 512} {
		sentiment := &recorder{respond: fixed(classifier.Prediction{Label: "4 stars", Score: 0.7})}
		emotion := &recorder{respond: fixed(
			classifier.Prediction{Label: "joy", Score: 0.6},
			classifier.Prediction{Label: "joy", Score: 0.1},
			classifier.Prediction{Label: "love", Score: 0.2},
		)}
		text := repeatWord("hype", n)

		got, err := NewEngine().Run(context.Background(), text, newPair(sentiment, emotion))
		require.NoError(t, err)

		assert.Equal(t, 1, sentiment.calls())
		assert.Equal(t, 1, emotion.calls())
		assert.Equal(t, []string{text}, sentiment.inputs)
		assert.Equal(t, "4 stars", got.Sentiment.Label)
		assert.InDelta(t, 0.7, got.Sentiment.Score, 1e-9)
		assert.InDelta(t, 0.7, got.Emotions["joy"], 1e-9)
		assert.InDelta(t, 0.2, got.Emotions["love"], 1e-9)
	}
}

func TestEngine_ShortTextKeepsOriginalSpacing(t *testing.T) {
	sentiment := &recorder{respond: fixed(classifier.Prediction{Label: "3 stars", Score: 0.5})}
	emotion := &recorder{respond: fixed()}

	_, err := NewEngine().Run(context.Background(), "hello   chat\n", newPair(sentiment, emotion))
	require.NoError(t, err)
	assert.Equal(t, []string{"hello   chat\n"}, sentiment.inputs)
}

func TestEngine_EmptyTextGoesToClassifiers(t *testing.T) {
	sentiment := &recorder{respond: fixed(classifier.Prediction{Label: "3 stars", Score: 0.2})}
	emotion := &recorder{respond: fixed(classifier.Prediction{Label: "neutral", Score: 0.9})}

	got, err := NewEngine().Run(context.Background(), "", newPair(sentiment, emotion))
	require.NoError(t, err)
	assert.Equal(t, []string{""}, sentiment.inputs)
	assert.Equal(t, []string{""}, emotion.inputs)
	assert.Equal(t, "3 stars", got.Sentiment.Label)
	assert.InDelta(t, 0.9, got.Emotions["neutral"], 1e-9)
}

func TestEngine_LongTextIsChunked(t *testing.T) {
	tests := []struct {
		desc     string
		words    int
		chunks   int
		lastSize int
	}{
		{"one word over", 513, 2, 1},
		{"exact multiple", 1536, 3, 512},
		{"with remainder", 1300, 3, 276},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sentiment := &recorder{respond: fixed(classifier.Prediction{Label: "5 stars", Score: 0.5})}
			emotion := &recorder{respond: fixed(classifier.Prediction{Label: "joy", Score: 0.5})}

			_, err := NewEngine().Run(context.Background(), repeatWord("pog", tt.words), newPair(sentiment, emotion))
			require.NoError(t, err)

			require.Equal(t, tt.chunks, sentiment.calls())
			require.Equal(t, tt.chunks, emotion.calls())

			sizes := map[int]int{}
			for _, in := range sentiment.inputs {
				sizes[len(strings.Fields(in))]++
			}
			if tt.lastSize == 512 {
				assert.Equal(t, map[int]int{512: tt.chunks}, sizes)
			} else {
				assert.Equal(t, map[int]int{512: tt.chunks - 1, tt.lastSize: 1}, sizes)
			}
		})
	}
}

func TestEngine_ChunkAggregation(t *testing.T) {
	// Each chunk is one distinct word, so the classifiers can answer per chunk.
	perChunkSentiment := map[string]classifier.Prediction{
		"a": {Label: "5 stars", Score: 0.9},
		"b": {Label: "1 star", Score: 0.3},
		"c": {Label: "5 stars", Score: 0.6},
	}
	perChunkEmotion := map[string][]classifier.Prediction{
		"a": {{Label: "joy", Score: 0.8}, {Label: "anger", Score: 0.3}},
		"b": {{Label: "joy", Score: 0.4}},
		"c": {{Label: "sadness", Score: 0.9}, {Label: "sadness", Score: 0.3}},
	}

	sentiment := &recorder{respond: func(text string) ([]classifier.Prediction, error) {
		return []classifier.Prediction{perChunkSentiment[strings.Fields(text)[0]]}, nil
	}}
	emotion := &recorder{respond: func(text string) ([]classifier.Prediction, error) {
		return perChunkEmotion[strings.Fields(text)[0]], nil
	}}

	text := strings.Join([]string{repeatWord("a", 4), repeatWord("b", 4), repeatWord("c", 2)}, " ")
	got, err := NewEngine(WithMaxWords(4)).Run(context.Background(), text, newPair(sentiment, emotion))
	require.NoError(t, err)

	assert.Equal(t, "5 stars", got.Sentiment.Label)
	assert.InDelta(t, (0.9+0.3+0.6)/3, got.Sentiment.Score, 1e-9)
	assert.InDelta(t, (0.8+0.4)/3, got.Emotions["joy"], 1e-9)
	assert.InDelta(t, 0.3/3, got.Emotions["anger"], 1e-9)
	assert.InDelta(t, 1.2/3, got.Emotions["sadness"], 1e-9)
}

func TestEngine_ChunkTieGoesToFirstChunk(t *testing.T) {
	labels := map[string]string{"a": "2 stars", "b": "4 stars"}
	sentiment := &recorder{respond: func(text string) ([]classifier.Prediction, error) {
		return []classifier.Prediction{{Label: labels[strings.Fields(text)[0]], Score: 0.5}}, nil
	}}
	emotion := &recorder{respond: fixed()}

	got, err := NewEngine(WithMaxWords(1), WithConcurrency(1)).
		Run(context.Background(), "a b", newPair(sentiment, emotion))
	require.NoError(t, err)
	assert.Equal(t, "2 stars", got.Sentiment.Label)
}

func TestEngine_Errors(t *testing.T) {
	boom := errors.New("CUDA out of memory")

	t.Run("sentiment failure", func(t *testing.T) {
		sentiment := &recorder{respond: func(string) ([]classifier.Prediction, error) { return nil, boom }}
		emotion := &recorder{respond: fixed()}
		_, err := NewEngine().Run(context.Background(), "gg", newPair(sentiment, emotion))
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, emotion.calls())
	})

	t.Run("emotion failure in a chunk", func(t *testing.T) {
		sentiment := &recorder{respond: fixed(classifier.Prediction{Label: "3 stars", Score: 0.5})}
		emotion := &recorder{respond: func(text string) ([]classifier.Prediction, error) {
			if strings.HasPrefix(text, "b") {
				return nil, boom
			}
			return nil, nil
		}}
		_, err := NewEngine(WithMaxWords(1)).Run(context.Background(), "a b c", newPair(sentiment, emotion))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("empty sentiment output", func(t *testing.T) {
		sentiment := &recorder{respond: fixed()}
		emotion := &recorder{respond: fixed()}
		_, err := NewEngine().Run(context.Background(), "gg", newPair(sentiment, emotion))
		assert.ErrorIs(t, err, classifier.ErrNoPredictions)
	})
}

func TestEngine_MaxWords(t *testing.T) {
	assert.Equal(t, MAX_CHUNK_WORDS, NewEngine().MaxWords())
	assert.Equal(t, 64, NewEngine(WithMaxWords(64)).MaxWords())
	assert.Equal(t, MAX_CHUNK_WORDS, NewEngine(WithMaxWords(0)).MaxWords())
}
