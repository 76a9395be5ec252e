package models

import "time"

// ChatMessage is the body of POST /api/analyze. Content may be empty but
// must be present.
type ChatMessage struct {
	Content *string `json:"content" validate:"required,max=65536"`
}

// AnalyzeResponse wraps the result under "sentiment" to keep the shape the
// dashboard already reads.
type AnalyzeResponse struct {
	Sentiment AnalysisResult `json:"sentiment"`
}

type ChatMessageEvent struct {
	MessageID string    `json:"message_id"`
	Channel   string    `json:"channel"`
	User      string    `json:"user"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sent_at"`
}

type AnalyzedChatMessage struct {
	ChatMessageEvent
	Analysis   AnalysisResult `json:"analysis"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}
