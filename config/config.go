package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_SENTIMENT_MODEL = "nlptown/bert-base-multilingual-uncased-sentiment"
	DEFAULT_EMOTION_MODEL   = "SamLowe/roberta-base-go_emotions-onnx"
)

type Config struct {
	Env string

	API      APIConfig
	Models   ModelConfig
	Analysis AnalysisConfig
	Cache    CacheConfig
	Kafka    KafkaConfig

	LogLevel string
}

type APIConfig struct {
	Addr                string
	AllowedOrigins      []string
	RequestTimeout      time.Duration
	StripMarkdown       bool
	HealthcheckInterval time.Duration
}

type ModelConfig struct {
	// Backend is "hugot" or "lexicon".
	Backend         string
	Device          string
	Dir             string
	SentimentModel  string
	EmotionModel    string
	EmotionTopK     int
	AutoDownload    bool
	OnnxLibraryPath string
}

type AnalysisConfig struct {
	ChunkMaxWords    int
	ChunkConcurrency int
}

type CacheConfig struct {
	Address  string
	Password string
	UseTLS   bool
	TTL      time.Duration
}

// Enabled reports whether a valkey address was configured.
func (c CacheConfig) Enabled() bool {
	return c.Address != ""
}

type KafkaConfig struct {
	Broker          string
	GroupID         string
	Topic           string
	ResultsTopic    string
	TransactionalID string
}

// Load reads the configuration from the environment. Call LoadEnv first to
// pull in an env file.
func Load() Config {
	return Config{
		Env: AppEnv(),
		API: APIConfig{
			Addr:                getEnv("API_ADDR", ":8000"),
			AllowedOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RequestTimeout:      getEnvSeconds("REQUEST_TIMEOUT_SECONDS", 60),
			StripMarkdown:       getEnvBool("STRIP_MARKDOWN", false),
			HealthcheckInterval: getEnvSeconds("HEALTHCHECK_INTERVAL_SECONDS", 60),
		},
		Models: ModelConfig{
			Backend:         strings.ToLower(getEnv("CLASSIFIER_BACKEND", "hugot")),
			Device:          strings.ToLower(getEnv("DEVICE", "auto")),
			Dir:             getEnv("MODEL_DIR", "./models"),
			SentimentModel:  getEnv("SENTIMENT_MODEL", DEFAULT_SENTIMENT_MODEL),
			EmotionModel:    getEnv("EMOTION_MODEL", DEFAULT_EMOTION_MODEL),
			EmotionTopK:     getEnvInt("EMOTION_TOP_K", 0),
			AutoDownload:    getEnvBool("MODEL_AUTO_DOWNLOAD", false),
			OnnxLibraryPath: getEnv("ONNX_LIBRARY_PATH", ""),
		},
		Analysis: AnalysisConfig{
			ChunkMaxWords:    getEnvInt("CHUNK_MAX_WORDS", 512),
			ChunkConcurrency: getEnvInt("CHUNK_CONCURRENCY", 4),
		},
		Cache: CacheConfig{
			Address:  getEnv("VALKEY_INIT_ADDRESS", ""),
			Password: getEnv("VALKEY_PASSWORD", ""),
			UseTLS:   getEnvBool("VALKEY_TLS", false),
			TTL:      getEnvSeconds("CACHE_TTL_SECONDS", 300),
		},
		Kafka: KafkaConfig{
			Broker:          getEnv("KAFKA_BROKER", "localhost:29092"),
			GroupID:         getEnv("KAFKA_CONSUMER_GROUP_ID", "chatmood-consumer-group"),
			Topic:           getEnv("KAFKA_CONSUMER_TOPIC", "chat-messages"),
			ResultsTopic:    getEnv("KAFKA_RESULTS_TOPIC", "chat-sentiment"),
			TransactionalID: getEnv("KAFKA_TRANSACTIONAL_ID", "chatmood-producer-1"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("[Config] Invalid integer, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue))
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		slog.Warn("[Config] Invalid boolean, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return v
}

func getEnvSeconds(key string, defaultSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defaultSeconds)) * time.Second
}

func getEnvList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
