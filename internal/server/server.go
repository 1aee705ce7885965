package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/iwvelando/deal-underwriter/internal/config"
	"github.com/iwvelando/deal-underwriter/pkg/constants"
	"github.com/iwvelando/deal-underwriter/pkg/output"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the request id on requests and responses.
const RequestIDHeader = "X-Request-Id"

const (
	routeAnalyze = "/api/analyze"
	routeUpload  = "/api/analyze/upload"
	routeVersion = "/api/version"
)

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metrics       *Metrics
	metricsPath   string
}

// HandlerOption customizes NewHandler.
type HandlerOption func(*handler)

// WithMetrics records request and analysis metrics on m instead of a private
// registry.
func WithMetrics(m *Metrics) HandlerOption {
	return func(h *handler) {
		if m != nil {
			h.metrics = m
		}
	}
}

// WithMetricsPath serves the metrics registry at path.
func WithMetricsPath(path string) HandlerOption {
	return func(h *handler) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			h.metricsPath = trimmed
		}
	}
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...HandlerOption) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metricsPath:   constants.DefaultMetricsPath,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}

	mux := http.NewServeMux()

	// Analysis of a JSON or YAML configuration body
	mux.Handle(routeAnalyze, h.instrument(routeAnalyze, h.handleAnalyze))

	// Analysis of an uploaded configuration file
	mux.Handle(routeUpload, h.instrument(routeUpload, h.handleUpload))

	mux.Handle(routeVersion, h.instrument(routeVersion, h.handleVersion))

	mux.Handle(h.metricsPath, h.metrics.Handler())

	return h.withRequestID(mux)
}

type analyzeResponse struct {
	RequestID string              `json:"requestId"`
	Analyses  []analysis.Analysis `json:"analyses"`
	CSV       string              `json:"csv"`
	Warnings  []string            `json:"warnings,omitempty"`
	Duration  string              `json:"duration"`
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err), op)
		return
	}

	configBytes := body
	if isJSON(r.Header.Get("Content-Type")) {
		configBytes, err = jsonToYAML(body)
		if err != nil {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
			return
		}
	}

	h.runAnalysis(w, r, configBytes, start, op)
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"

	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	h.runAnalysis(w, r, buf.Bytes(), start, op)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) runAnalysis(w http.ResponseWriter, r *http.Request, configBytes []byte, start time.Time, op string) {
	requestID := RequestID(r.Context())
	logger := h.logger.With(zap.String("request_id", requestID))

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()

	results, err := analysis.GetAnalyses(logger, *cfg)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, analysis.ErrNoActiveProperties) {
			status = http.StatusUnprocessableEntity
		}
		h.respondErrorWithOp(w, r, status, err.Error(), op)
		return
	}
	h.metrics.observeAnalyses(results)

	csvOutput, err := output.CsvString(results)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	elapsed := time.Since(start)

	logger.Info("analysis computed",
		zap.String("op", op),
		zap.Int("properties", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, analyzeResponse{
		RequestID: requestID,
		Analyses:  results,
		CSV:       csvOutput,
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

// jsonToYAML re-encodes a JSON configuration as YAML. The configuration may
// be the whole document or wrapped as {"config": {...}}.
func jsonToYAML(body []byte) ([]byte, error) {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid config payload: expected object")
		}
		payload = cfgMap
	}

	configBytes, err := yaml.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return configBytes, nil
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("analysis request failed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// RequestID returns the id assigned to the request carrying ctx, or "" when
// there is none.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) instrument(route string, fn http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		h.metrics.observeRequest(route, rec.status, time.Since(start))
	})
}
