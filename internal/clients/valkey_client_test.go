package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spacesedan/chatmood/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValkeyOptions(t *testing.T) {
	opts := valkeyOptions(config.CacheConfig{Address: "cache:6379", Password: "secret"})
	assert.Equal(t, []string{"cache:6379"}, opts.InitAddress)
	assert.Equal(t, "secret", opts.Password)
	assert.Nil(t, opts.TLSConfig)

	opts = valkeyOptions(config.CacheConfig{Address: "cache:6379", UseTLS: true})
	require.NotNil(t, opts.TLSConfig)
	assert.False(t, opts.TLSConfig.InsecureSkipVerify)
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("dial tcp 127.0.0.1:6379: connect: connection refused"), true},
		{errors.New("unexpected EOF"), true},
		{errors.New("read tcp: i/o timeout"), true},
		{errors.New("WRONGTYPE Operation against a key"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isConnectionError(tt.err))
	}
}

func TestNewValkeyClient_Unreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewValkeyClient(ctx, config.CacheConfig{Address: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestExpirySeconds(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int64
	}{
		{24 * time.Hour, 86400},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{time.Millisecond, 1},
		{0, 1},
		{-time.Minute, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expirySeconds(tt.ttl), tt.ttl.String())
	}
}
