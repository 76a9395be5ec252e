package models

import "github.com/spacesedan/chatmood/internal/device"

type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// EmotionScores maps an emotion label to its accumulated confidence.
type EmotionScores map[string]float64

type Analysis struct {
	Sentiment SentimentResult `json:"sentiment"`
	Emotions  EmotionScores   `json:"emotions"`
}

type AnalysisResult struct {
	Analysis
	DeviceUsed device.Device `json:"device_used"`
}
