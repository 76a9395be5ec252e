package utils

import (
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// MessageTracker records the Kafka messages read for the current batch so
// their offsets can be committed once the batch is handled, or rewound when
// it is not.
type MessageTracker struct {
	mu       sync.Mutex
	messages []*kafka.Message
}

func NewMessageTracker() *MessageTracker {
	return &MessageTracker{}
}

func (t *MessageTracker) TrackMessage(msg *kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, msg)
}

func (t *MessageTracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.messages)
}

// Drain returns the tracked messages in read order and forgets them.
func (t *MessageTracker) Drain() []*kafka.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.messages
	t.messages = nil
	return msgs
}

type partitionKey struct {
	topic     string
	partition int32
}

func keyOf(tp kafka.TopicPartition) partitionKey {
	k := partitionKey{partition: tp.Partition}
	if tp.Topic != nil {
		k.topic = *tp.Topic
	}
	return k
}

// LatestPerPartition returns the highest-offset message of each partition,
// in the order partitions were first seen. Committing these covers every
// message in msgs.
func LatestPerPartition(msgs []*kafka.Message) []*kafka.Message {
	index := make(map[partitionKey]int)
	var latest []*kafka.Message
	for _, msg := range msgs {
		k := keyOf(msg.TopicPartition)
		i, ok := index[k]
		if !ok {
			index[k] = len(latest)
			latest = append(latest, msg)
			continue
		}
		if msg.TopicPartition.Offset > latest[i].TopicPartition.Offset {
			latest[i] = msg
		}
	}
	return latest
}

// EarliestPerPartition returns, for each partition, the position of its
// lowest-offset message. Seeking to these re-reads every message in msgs.
func EarliestPerPartition(msgs []*kafka.Message) []kafka.TopicPartition {
	index := make(map[partitionKey]int)
	var earliest []kafka.TopicPartition
	for _, msg := range msgs {
		tp := msg.TopicPartition
		k := keyOf(tp)
		i, ok := index[k]
		if !ok {
			index[k] = len(earliest)
			earliest = append(earliest, kafka.TopicPartition{Topic: tp.Topic, Partition: tp.Partition, Offset: tp.Offset})
			continue
		}
		if tp.Offset < earliest[i].Offset {
			earliest[i].Offset = tp.Offset
		}
	}
	return earliest
}
