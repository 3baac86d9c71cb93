// Package httpapi exposes the stateless assessment operations over HTTP.
//
// Every endpoint is a pure function of its request body: scoring,
// evidence grading, coverage and prompt building never touch the session
// store, so the API can run beside the MCP server or on its own.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HendryAvila/rapport/internal/coverage"
	"github.com/HendryAvila/rapport/internal/instruments"
	"github.com/HendryAvila/rapport/internal/interview"
	"github.com/HendryAvila/rapport/internal/judge"
	"github.com/HendryAvila/rapport/internal/logging"
	"github.com/HendryAvila/rapport/internal/metrics"
)

// maxBody caps request bodies. A long interview transcript fits easily.
const maxBody = 4 << 20

var errBadRequest = errors.New("bad request")

// Handler serves the HTTP API.
type Handler struct {
	registry   *instruments.Registry
	builder    *judge.Builder
	classifier coverage.TextClassifier
	minHits    int
	metrics    *metrics.Metrics
	gatherer   prometheus.Gatherer
	logger     *zap.Logger
}

// Options carries the optional collaborators of a Handler.
type Options struct {
	MinHits  int
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer // nil disables /metrics
	Logger   *zap.Logger
}

// New creates a Handler. A nil classifier uses the keyword classifier.
func New(reg *instruments.Registry, b *judge.Builder, c coverage.TextClassifier, opts Options) *Handler {
	if c == nil {
		c = coverage.NewKeywordClassifier()
	}
	if opts.MinHits < 1 {
		opts.MinHits = 1
	}
	return &Handler{
		registry:   reg,
		builder:    b,
		classifier: c,
		minHits:    opts.MinHits,
		metrics:    opts.Metrics,
		gatherer:   opts.Gatherer,
		logger:     logging.OrNop(opts.Logger),
	}
}

// Routes builds the chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(h.accessLog)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	if h.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/instruments", h.handleListInstruments)
		r.Post("/instruments/{id}/score", h.handleScoreInstrument)
		r.Post("/profile", h.handleProfile)
		r.Post("/evidence/grade", h.handleGradeEvidence)
		r.Post("/coverage", h.handleCoverage)
		r.Post("/prompts/scoring", h.handleScoringPrompt)
		r.Post("/prompts/algorithm", h.handleAlgorithmPrompt)
		r.Post("/judgements", h.handleParseJudgement)
	})
	return r
}

// accessLog logs one line per request with zap.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Info("http request",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

// --- Encoding helpers ---

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, instruments.ErrUnknownInstrument):
		return http.StatusNotFound
	case errors.Is(err, instruments.ErrUnknownItem),
		errors.Is(err, instruments.ErrOutOfRange),
		errors.Is(err, interview.ErrEmptyContent),
		errors.Is(err, interview.ErrInvalidRole):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
