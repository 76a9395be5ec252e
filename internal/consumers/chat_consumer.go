package consumers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
	"github.com/spacesedan/chatmood/internal/clients/kafka_client"
	kafkautils "github.com/spacesedan/chatmood/internal/clients/kafka_client/utils"
	"github.com/spacesedan/chatmood/internal/models"
	"github.com/spacesedan/chatmood/internal/preprocess"
	"github.com/spacesedan/chatmood/internal/utils"
)

const (
	PUBLISH_RETRIES = 3
	SEEK_TIMEOUT_MS = 5000
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
}

// MessageSource yields the next message, or nil when none is ready yet.
type MessageSource interface {
	Next() (*kafka.Message, error)
}

type Committer interface {
	Commit(msg *kafka.Message) error
}

// Rewinder moves a partition's read position back so uncommitted messages
// are read again.
type Rewinder interface {
	Seek(partition kafka.TopicPartition, timeoutMs int) error
}

type Publisher interface {
	PublishToKafka(ctx context.Context, topic, key string, value any) error
}

// ChatConsumer analyzes chat message events in batches and publishes the
// results. Offsets are committed only after a batch has been published, and a
// batch that cannot be published is rewound and read again.
type ChatConsumer struct {
	analyzer     Analyzer
	publisher    Publisher
	resultsTopic string
	preprocess   preprocess.Options
	batchSize    int
	batchTimeout time.Duration
	retryDelay   time.Duration
	now          func() time.Time

	pending *utils.BatchBuffer[models.ChatMessageEvent]
	tracker *utils.MessageTracker
}

type ChatConsumerOption func(*ChatConsumer)

func WithResultsTopic(topic string) ChatConsumerOption {
	return func(c *ChatConsumer) {
		c.resultsTopic = topic
	}
}

func WithPreprocess(opts preprocess.Options) ChatConsumerOption {
	return func(c *ChatConsumer) {
		c.preprocess = opts
	}
}

func WithBatchSize(size int) ChatConsumerOption {
	return func(c *ChatConsumer) {
		c.batchSize = size
	}
}

func WithBatchTimeout(timeout time.Duration) ChatConsumerOption {
	return func(c *ChatConsumer) {
		c.batchTimeout = timeout
	}
}

func NewChatConsumer(analyzer Analyzer, publisher Publisher, opts ...ChatConsumerOption) *ChatConsumer {
	c := &ChatConsumer{
		analyzer:     analyzer,
		publisher:    publisher,
		resultsTopic: kafka_client.KAFKA_TOPIC_CHAT_SENTIMENT,
		batchSize:    kafka_client.BATCH_SIZE,
		batchTimeout: kafka_client.BATCH_TIMEOUT,
		retryDelay:   kafka_client.RETRY_DELAY,
		now:          time.Now,
		tracker:      utils.NewMessageTracker(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.batchTimeout <= 0 {
		c.batchTimeout = kafka_client.BATCH_TIMEOUT
	}
	c.pending = utils.NewBatchBuffer[models.ChatMessageEvent](c.batchSize)
	return c
}

// Start consumes from consumer until ctx is done. It matches
// HealthAwareConsumerFunc.
func (c *ChatConsumer) Start(ctx context.Context, consumer *kafka.Consumer, health ...*atomic.Bool) {
	iterator := kafka_client.NewKafkaMessageIterator(ctx, consumer)
	committer := kafka_client.NewCommitHandler(ctx, consumer)
	if err := c.Run(ctx, iterator, committer, consumer, health...); err != nil {
		slog.Error("[ChatConsumer] Consumer stopped, uncommitted messages will be redelivered on restart",
			slog.String("error", err.Error()))
	}
}

// Run is the consume loop. Batches are flushed when full or every
// batchTimeout. Unflushed events are left uncommitted on shutdown so they
// are redelivered. Run only returns an error when a failed batch could not
// be rewound, since reading on would commit past it.
func (c *ChatConsumer) Run(ctx context.Context, source MessageSource, committer Committer, rewinder Rewinder, health ...*atomic.Bool) error {
	slog.Info("[ChatConsumer] Listening for messages...",
		slog.Int("batch_size", c.batchSize),
		slog.Duration("batch_timeout", c.batchTimeout))

	ticker := time.NewTicker(c.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ChatConsumer] Stopping consumer...",
				slog.Int("unflushed", c.pending.Size()))
			return nil
		case <-ticker.C:
			if err := c.flush(ctx, committer, rewinder); err != nil {
				return err
			}
		default:
			if !allHealthy(health) {
				slog.Debug("[ChatConsumer] Analyzer unhealthy, pausing")
				select {
				case <-ctx.Done():
				case <-time.After(c.retryDelay):
				}
				continue
			}

			msg, err := source.Next()
			if err != nil {
				kafkautils.HandleConsumerError(err)
				continue
			}
			if msg == nil {
				continue
			}

			if c.enqueue(msg) {
				if err := c.flush(ctx, committer, rewinder); err != nil {
					return err
				}
			}
		}
	}
}

// enqueue buffers the events carried by msg and reports whether the batch is
// full. Every message joins the batch's offsets, including ones without
// readable events, so none is committed ahead of an unpublished batch.
func (c *ChatConsumer) enqueue(msg *kafka.Message) bool {
	c.tracker.TrackMessage(msg)

	events, err := DecodeEvents(msg.Value)
	if err != nil || len(events) == 0 {
		slog.Warn("[ChatConsumer] Skipping message without chat events",
			slog.String("offset", msg.TopicPartition.Offset.String()))
		return false
	}

	full := false
	for _, event := range events {
		if event.MessageID == "" {
			event.MessageID = uuid.NewString()
		}
		if c.pending.Add(event) {
			full = true
		}
	}
	return full
}

// flush analyzes and publishes the pending batch, then commits the latest
// offset of each partition it was read from. When publishing fails the
// partitions are rewound to the batch's first offsets instead.
func (c *ChatConsumer) flush(ctx context.Context, committer Committer, rewinder Rewinder) error {
	if !c.pending.HasData() && c.tracker.Len() == 0 {
		return nil
	}
	c.pending.LogBatchProcessing("chat")

	batch := c.pending.GetAndClear()
	messages := c.tracker.Drain()

	results := AnalyzeBatch(ctx, c.analyzer, batch, c.preprocess, c.now)
	if len(results) > 0 {
		if err := c.publish(ctx, results); err != nil {
			slog.Error("[ChatConsumer] Batch publishing failed, rewinding to re-read it",
				slog.Int("batch_size", len(results)),
				slog.String("error", err.Error()))
			return c.rewind(rewinder, messages)
		}
	}

	for _, msg := range utils.LatestPerPartition(messages) {
		if err := committer.Commit(msg); err != nil {
			slog.Warn("[ChatConsumer] Failed to commit offset",
				slog.String("offset", msg.TopicPartition.Offset.String()),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func (c *ChatConsumer) rewind(rewinder Rewinder, messages []*kafka.Message) error {
	var errs []error
	for _, tp := range utils.EarliestPerPartition(messages) {
		if err := rewinder.Seek(tp, SEEK_TIMEOUT_MS); err != nil {
			errs = append(errs, fmt.Errorf("seek partition %d to %s: %w", tp.Partition, tp.Offset, err))
			continue
		}
		slog.Info("[ChatConsumer] Rewound partition",
			slog.Int("partition", int(tp.Partition)),
			slog.String("offset", tp.Offset.String()))
	}
	if len(errs) > 0 {
		return fmt.Errorf("[ChatConsumer] failed to rewind unpublished batch: %w", errors.Join(errs...))
	}
	return nil
}

func (c *ChatConsumer) publish(ctx context.Context, results []models.AnalyzedChatMessage) error {
	var err error
	for i := 0; i < PUBLISH_RETRIES; i++ {
		err = c.publisher.PublishToKafka(ctx, c.resultsTopic, results[0].MessageID, results)
		if err == nil {
			return nil
		}
		slog.Warn("[ChatConsumer] Batch publishing failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}
	return err
}

// DecodeEvents accepts either a single chat event or an array of them.
func DecodeEvents(data []byte) ([]models.ChatMessageEvent, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var events []models.ChatMessageEvent
		if err := kafkautils.DeserializeFromJSON(trimmed, &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	var event models.ChatMessageEvent
	if err := kafkautils.DeserializeFromJSON(trimmed, &event); err != nil {
		return nil, err
	}
	return []models.ChatMessageEvent{event}, nil
}

// AnalyzeBatch analyzes every event in order. Events that fail are logged and
// left out of the result.
func AnalyzeBatch(ctx context.Context, analyzer Analyzer, events []models.ChatMessageEvent, opts preprocess.Options, now func() time.Time) []models.AnalyzedChatMessage {
	results := make([]models.AnalyzedChatMessage, 0, len(events))
	for _, event := range events {
		result, err := analyzer.Analyze(ctx, preprocess.Clean(event.Content, opts))
		if err != nil {
			slog.Warn("[ChatConsumer] Failed to analyze message, skipping",
				slog.String("message_id", event.MessageID),
				slog.String("error", err.Error()))
			continue
		}
		results = append(results, models.AnalyzedChatMessage{
			ChatMessageEvent: event,
			Analysis:         result,
			AnalyzedAt:       now(),
		})
	}
	return results
}
