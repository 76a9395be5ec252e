package kafka_client

import "time"

const (
	KAFKA_TOPIC_CHAT_MESSAGES  = "chat-messages"  // raw chat messages from the ingest bridge
	KAFKA_TOPIC_CHAT_SENTIMENT = "chat-sentiment" // batched analyzed chat messages
)

const (
	BATCH_SIZE    = 50
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second

	// POLL_TIMEOUT bounds a single read so the consume loop can observe
	// cancellation and flush timers.
	POLL_TIMEOUT = time.Second
)
