package kafka_client

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/chatmood/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterConsumer(t *testing.T) {
	called := false
	RegisterConsumer("test-topic", func(context.Context, *kafka.Consumer) { called = true })

	fn, ok := lookupConsumer("test-topic")
	require.True(t, ok)
	fn(context.Background(), nil)
	assert.True(t, called)
}

func TestStartConsumer_UnknownTopic(t *testing.T) {
	err := StartConsumer(context.Background(), config.KafkaConfig{Topic: "nobody-listens"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nobody-listens")
}
