package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"
	"github.com/spacesedan/chatmood/internal/device"
)

const (
	SENTIMENT_PIPELINE_NAME = "sentimentPipeline"
	EMOTION_PIPELINE_NAME   = "emotionPipeline"
)

// HugotConfig points the ONNX backend at its runtime library and models.
type HugotConfig struct {
	OnnxLibraryPath    string
	SentimentModelPath string
	EmotionModelPath   string
	// EmotionTopK keeps only the K highest emotion scores. 0 keeps all.
	EmotionTopK int
}

// HugotBuilder builds classifier pairs on ONNX Runtime through hugot.
type HugotBuilder struct {
	cfg HugotConfig
}

func NewHugotBuilder(cfg HugotConfig) *HugotBuilder {
	return &HugotBuilder{cfg: cfg}
}

// Build opens one ORT session with the execution provider for d and loads
// both pipelines into it. Nothing is left open if either pipeline fails.
func (b *HugotBuilder) Build(ctx context.Context, d device.Device) (*Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession(sessionOptions(b.cfg, d)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	sentiment, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: b.cfg.SentimentModelPath,
		Name:      SENTIMENT_PIPELINE_NAME,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSoftmax(),
			pipelines.WithSingleLabel(),
		},
	})
	if err != nil {
		return nil, destroyOnError(session, fmt.Errorf("failed to initialize sentiment pipeline: %w", err))
	}

	emotion, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: b.cfg.EmotionModelPath,
		Name:      EMOTION_PIPELINE_NAME,
		Options: []hugot.TextClassificationOption{
			pipelines.WithSigmoid(),
			pipelines.WithMultiLabel(),
		},
	})
	if err != nil {
		return nil, destroyOnError(session, fmt.Errorf("failed to initialize emotion pipeline: %w", err))
	}

	slog.Info("[HugotBuilder] Pipelines ready",
		slog.String("device", d.String()),
		slog.String("sentiment_model", b.cfg.SentimentModelPath),
		slog.String("emotion_model", b.cfg.EmotionModelPath))

	return NewPair(
		&hugotClassifier{pipeline: sentiment},
		&hugotClassifier{pipeline: emotion, topK: b.cfg.EmotionTopK},
		d,
		session.Destroy,
	), nil
}

func sessionOptions(cfg HugotConfig, d device.Device) []options.WithOption {
	var opts []options.WithOption
	if cfg.OnnxLibraryPath != "" {
		opts = append(opts, options.WithOnnxLibraryPath(cfg.OnnxLibraryPath))
	}

	switch d {
	case device.CUDA:
		opts = append(opts, options.WithCuda(map[string]string{"device_id": "0"}))
	case device.CoreML:
		opts = append(opts, options.WithCoreML(0))
	}
	return opts
}

func destroyOnError(session *hugot.Session, err error) error {
	if destroyErr := session.Destroy(); destroyErr != nil {
		return errors.Join(err, fmt.Errorf("failed to destroy hugot session: %w", destroyErr))
	}
	return err
}

type hugotClassifier struct {
	pipeline *pipelines.TextClassificationPipeline
	topK     int
}

func (c *hugotClassifier) Classify(ctx context.Context, text string) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return nil, err
	}
	if len(output.ClassificationOutputs) == 0 {
		return nil, ErrNoPredictions
	}

	results := output.ClassificationOutputs[0]
	predictions := make([]Prediction, 0, len(results))
	for _, r := range results {
		predictions = append(predictions, Prediction{Label: r.Label, Score: float64(r.Score)})
	}

	if c.topK > 0 && len(predictions) > c.topK {
		sort.SliceStable(predictions, func(i, j int) bool {
			return predictions[i].Score > predictions[j].Score
		})
		predictions = predictions[:c.topK]
	}
	return predictions, nil
}

// ModelDirName is the directory hugot downloads a hub model into.
func ModelDirName(modelName string) string {
	return strings.ReplaceAll(modelName, "/", "_")
}

// EnsureModel returns the local path of modelName under modelDir,
// downloading it from the Hugging Face hub when missing and download is set.
func EnsureModel(modelName, modelDir string, download bool) (string, error) {
	modelPath := filepath.Join(modelDir, ModelDirName(modelName))

	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotBuilder] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to stat model path: %w", err)
	}

	if !download {
		return "", fmt.Errorf("model %s not found at %s", modelName, modelPath)
	}

	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	slog.Info("[HugotBuilder] Model not found, downloading...", slog.String("model", modelName))
	downloaded, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
	}
	slog.Info("[HugotBuilder] Model downloaded successfully", slog.String("path", downloaded))
	return downloaded, nil
}
