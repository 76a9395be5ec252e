package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/spacesedan/chatmood/internal/device"
	"github.com/spacesedan/chatmood/internal/models"
)

const (
	KEY_PREFIX  = "chatmood:analysis:"
	DEFAULT_TTL = 5 * time.Minute
)

// Store is the key/value backend. clients.ValkeyClient implements it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Analyzer reports the device it currently runs on so entries computed on one
// device are never served after it moves to another.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
	Device() device.Device
}

// CachedAnalyzer memoizes results of an Analyzer for a short ttl. Store
// errors never fail an analysis.
type CachedAnalyzer struct {
	next  Analyzer
	store Store
	ttl   time.Duration
}

func New(next Analyzer, store Store, ttl time.Duration) *CachedAnalyzer {
	if ttl <= 0 {
		ttl = DEFAULT_TTL
	}
	return &CachedAnalyzer{next: next, store: store, ttl: ttl}
}

// Key scopes entries by device and hashes text so arbitrary message content
// never ends up in key names.
func Key(d device.Device, text string) string {
	sum := sha256.Sum256([]byte(text))
	return KEY_PREFIX + d.String() + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, text string) (models.AnalysisResult, error) {
	if result, ok := c.lookup(ctx, Key(c.next.Device(), text)); ok {
		return result, nil
	}

	result, err := c.next.Analyze(ctx, text)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	// A fallback during Analyze can change the device, so store under the
	// one that actually produced the result.
	key := Key(result.DeviceUsed, text)

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("[Cache] Failed to marshal result",
			slog.String("error", err.Error()))
		return result, nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		slog.Warn("[Cache] Failed to store result",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
	return result, nil
}

func (c *CachedAnalyzer) lookup(ctx context.Context, key string) (models.AnalysisResult, bool) {
	raw, found, err := c.store.Get(ctx, key)
	if err != nil {
		slog.Warn("[Cache] Lookup failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, false
	}
	if !found {
		return models.AnalysisResult{}, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.Warn("[Cache] Dropping unreadable entry",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return models.AnalysisResult{}, false
	}

	slog.Debug("[Cache] Hit", slog.String("key", key))
	return result, true
}
