package monitoring

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/chatmood/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toggleAnalyzer struct {
	mu    sync.Mutex
	fail  bool
	texts []string
}

func (a *toggleAnalyzer) setFail(fail bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fail = fail
}

func (a *toggleAnalyzer) Analyze(_ context.Context, text string) (models.AnalysisResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.texts = append(a.texts, text)
	if a.fail {
		return models.AnalysisResult{}, errors.New("classifier gone")
	}
	return models.AnalysisResult{}, nil
}

func TestCheckAnalyzerHealth(t *testing.T) {
	a := &toggleAnalyzer{}
	assert.True(t, CheckAnalyzerHealth(context.Background(), a))
	assert.Equal(t, []string{CANARY_TEXT}, a.texts)

	a.setFail(true)
	assert.False(t, CheckAnalyzerHealth(context.Background(), a))
}

func TestMonitorAnalyzerHealth_TracksState(t *testing.T) {
	a := &toggleAnalyzer{fail: true}
	var healthy atomic.Bool
	healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MonitorAnalyzerHealth(ctx, a, 5*time.Millisecond, &healthy)
		close(done)
	}()

	require.Eventually(t, func() bool { return !healthy.Load() }, time.Second, time.Millisecond)

	a.setFail(false)
	require.Eventually(t, healthy.Load, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
