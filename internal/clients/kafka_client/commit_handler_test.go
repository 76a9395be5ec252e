package kafka_client

import (
	"context"
	"errors"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommitter struct {
	failures int
	err      error
	calls    int
}

func (f *fakeCommitter) CommitMessage(msg *kafka.Message) ([]kafka.TopicPartition, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []kafka.TopicPartition{msg.TopicPartition}, nil
}

func testMessage() *kafka.Message {
	topic := KAFKA_TOPIC_CHAT_MESSAGES
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: 0, Offset: 42},
	}
}

func TestCommit_RetriesThenSucceeds(t *testing.T) {
	fc := &fakeCommitter{failures: 2, err: errors.New("coordinator not available")}
	ch := NewCommitHandler(context.Background(), fc)
	ch.retryDelay = 0

	require.NoError(t, ch.Commit(testMessage()))
	assert.Equal(t, 3, fc.calls)
}

func TestCommit_GivesUp(t *testing.T) {
	fc := &fakeCommitter{failures: MAX_RETRIES, err: errors.New("coordinator not available")}
	ch := NewCommitHandler(context.Background(), fc)
	ch.retryDelay = 0

	require.Error(t, ch.Commit(testMessage()))
	assert.Equal(t, MAX_RETRIES, fc.calls)
}

func TestCommit_AllBrokersDown(t *testing.T) {
	fc := &fakeCommitter{failures: MAX_RETRIES, err: kafka.NewError(kafka.ErrAllBrokersDown, "down", true)}
	ch := NewCommitHandler(context.Background(), fc)
	ch.retryDelay = 0

	require.Error(t, ch.Commit(testMessage()))
	assert.Equal(t, 1, fc.calls)
}

func TestCommit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fc := &fakeCommitter{}

	err := NewCommitHandler(ctx, fc).Commit(testMessage())
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fc.calls)
}
