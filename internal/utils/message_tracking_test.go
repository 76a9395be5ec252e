package utils

import (
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(topic string, partition int32, offset int64) *kafka.Message {
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: partition, Offset: kafka.Offset(offset)},
	}
}

func TestMessageTracker_Drain(t *testing.T) {
	tracker := NewMessageTracker()
	first, second := message("chat", 0, 1), message("chat", 0, 2)

	tracker.TrackMessage(first)
	tracker.TrackMessage(second)
	assert.Equal(t, 2, tracker.Len())

	assert.Equal(t, []*kafka.Message{first, second}, tracker.Drain())
	assert.Zero(t, tracker.Len())
	assert.Nil(t, tracker.Drain())
}

func TestLatestPerPartition(t *testing.T) {
	p0a, p1a, p0b, p1b := message("chat", 0, 4), message("chat", 1, 9), message("chat", 0, 7), message("chat", 1, 3)

	latest := LatestPerPartition([]*kafka.Message{p0a, p1a, p0b, p1b})

	require.Len(t, latest, 2)
	assert.Same(t, p0b, latest[0])
	assert.Same(t, p1a, latest[1])
}

func TestEarliestPerPartition(t *testing.T) {
	msgs := []*kafka.Message{
		message("chat", 0, 4),
		message("chat", 1, 9),
		message("chat", 0, 2),
		message("other", 0, 5),
	}

	earliest := EarliestPerPartition(msgs)

	require.Len(t, earliest, 3)
	assert.Equal(t, int32(0), earliest[0].Partition)
	assert.Equal(t, kafka.Offset(2), earliest[0].Offset)
	assert.Equal(t, kafka.Offset(9), earliest[1].Offset)
	assert.Equal(t, "other", *earliest[2].Topic)
	assert.Equal(t, kafka.Offset(5), earliest[2].Offset)
}

func TestPerPartition_Empty(t *testing.T) {
	assert.Empty(t, LatestPerPartition(nil))
	assert.Empty(t, EarliestPerPartition(nil))
}
