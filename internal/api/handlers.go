package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spacesedan/chatmood/internal/device"
	"github.com/spacesedan/chatmood/internal/models"
	"github.com/spacesedan/chatmood/internal/preprocess"
)

type Analyzer interface {
	Analyze(ctx context.Context, text string) (models.AnalysisResult, error)
}

// Handler serves the analysis endpoints.
type Handler struct {
	analyzer   Analyzer
	device     func() device.Device
	healthy    *atomic.Bool
	preprocess preprocess.Options
}

type HandlerOption func(*Handler)

// WithDevice reports the active device on /healthz.
func WithDevice(fn func() device.Device) HandlerOption {
	return func(h *Handler) {
		h.device = fn
	}
}

// WithHealth makes /healthz follow the given flag. Without it the service
// always reports healthy.
func WithHealth(healthy *atomic.Bool) HandlerOption {
	return func(h *Handler) {
		h.healthy = healthy
	}
}

func WithPreprocess(opts preprocess.Options) HandlerOption {
	return func(h *Handler) {
		h.preprocess = opts
	}
}

func NewHandler(analyzer Analyzer, opts ...HandlerOption) *Handler {
	h := &Handler{
		analyzer: analyzer,
		device:   func() device.Device { return device.Baseline },
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backend API is up and running!"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	if h.healthy != nil && !h.healthy.Load() {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{
		"status": status,
		"device": h.device().String(),
	})
}

func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	msg, err := ParseJSON[models.ChatMessage](r)
	if err != nil {
		slog.Debug("[API] Rejected request body",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
		detail := err.Error()
		var inputErr *InputError
		if errors.As(err, &inputErr) {
			detail = inputErr.Detail
		}
		writeError(w, http.StatusUnprocessableEntity, detail)
		return
	}

	text := preprocess.Clean(*msg.Content, h.preprocess)

	result, err := h.analyzer.Analyze(r.Context(), text)
	if err != nil {
		// the timeout middleware answers once the deadline has passed
		if r.Context().Err() != nil {
			return
		}
		slog.Error("[API] Analysis failed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Sentiment: result})
}
