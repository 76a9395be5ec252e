package consumers

import (
	"context"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/chatmood/internal/clients/kafka_client"
)

// HealthAwareConsumerFunc is a consumer that pauses while any of the given
// health flags is false.
type HealthAwareConsumerFunc func(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool)

type ConsumerWrapper struct {
	fn     HealthAwareConsumerFunc
	health []*atomic.Bool
}

func WrapConsumer(fn HealthAwareConsumerFunc) ConsumerWrapper {
	return ConsumerWrapper{fn: fn}
}

func (cw ConsumerWrapper) WithHealthCheck(health *atomic.Bool) ConsumerWrapper {
	cw.health = append(cw.health, health)
	return cw
}

// Handler adapts the wrapped consumer for kafka_client.RegisterConsumer.
func (cw ConsumerWrapper) Handler() kafka_client.ConsumerFunc {
	return func(ctx context.Context, consumer *kafka.Consumer) {
		cw.fn(ctx, consumer, cw.health...)
	}
}

func allHealthy(health []*atomic.Bool) bool {
	for _, h := range health {
		if h != nil && !h.Load() {
			return false
		}
	}
	return true
}
