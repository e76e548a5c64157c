package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/vectorcheck/internal/fetch"
	"github.com/local/vectorcheck/internal/metrics"
	"github.com/local/vectorcheck/internal/pdf"
	"github.com/local/vectorcheck/internal/report"
	"github.com/local/vectorcheck/internal/statuscheck"
)

// Fetcher downloads a document to a local temp file.
type Fetcher interface {
	ValidateURL(raw string) error
	FetchToTemp(ctx context.Context, rawURL string) (string, func(), error)
}

// Extractor derives per-page metrics from a local PDF.
type Extractor interface {
	Extract(path string) ([]pdf.PageExtraction, error)
}

// Verifier checks that a downloaded payload really is a PDF.
type Verifier interface {
	VerifyPDF(path string) error
}

// Dependencies wires the collaborators into the server.
type Dependencies struct {
	Fetcher    Fetcher
	Extractor  Extractor
	Verifier   Verifier
	Aggregator *report.Aggregator
	Status     *statuscheck.Checker
}

// Server exposes the vector-check HTTP surface.
type Server struct {
	deps Dependencies
}

// New creates a Server from its dependencies.
func New(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// RegisterRoutes attaches all handlers to mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/vector-check", s.handleVectorCheck)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "VectorCheck API - send PDF URLs to /vector-check",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Status == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "unknown"})
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Status.Summary(r.Context()))
}

type vectorCheckResponse struct {
	Success          bool                `json:"success"`
	PageCount        int                 `json:"page_count"`
	VectorPagesCount int                 `json:"vector_pages_count"`
	VectorPages      []int               `json:"vector_pages"`
	Pages            []report.PageReport `json:"pages"`
}

func (s *Server) handleVectorCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := time.Now()
	reqID := uuid.NewString()
	logger := log.With().Str("request_id", reqID).Logger()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("vector-check handler panicked")
			metrics.ObserveRequest("internal_error", time.Since(start))
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Unexpected error: %v", rec))
		}
	}()

	pdfURL := r.URL.Query().Get("pdf_url")
	if pdfURL == "" {
		metrics.ObserveRequest("invalid_input", time.Since(start))
		writeError(w, http.StatusBadRequest, "missing pdf_url parameter")
		return
	}

	pageOverride := 0
	if raw := r.URL.Query().Get("original_page_number"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			metrics.ObserveRequest("invalid_input", time.Since(start))
			writeError(w, http.StatusBadRequest, "original_page_number must be a positive integer")
			return
		}
		pageOverride = n
	}

	if err := s.deps.Fetcher.ValidateURL(pdfURL); err != nil {
		metrics.ObserveRequest("invalid_input", time.Since(start))
		writeError(w, http.StatusBadRequest, "Invalid URL format")
		return
	}

	logger.Info().Str("url", pdfURL).Msg("vector-check request")

	path, cleanup, err := s.deps.Fetcher.FetchToTemp(r.Context(), pdfURL)
	if err != nil {
		status, detail := fetchErrorStatus(err)
		logger.Warn().Err(err).Int("status", status).Msg("download failed")
		metrics.ObserveRequest("fetch_error", time.Since(start))
		writeError(w, status, detail)
		return
	}
	defer cleanup()

	if err := s.deps.Verifier.VerifyPDF(path); err != nil {
		logger.Warn().Err(err).Msg("payload is not a pdf")
		metrics.ObserveRequest("parse_error", time.Since(start))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid PDF file: %v", err))
		return
	}

	pages, err := s.deps.Extractor.Extract(path)
	if err != nil {
		logger.Warn().Err(err).Msg("pdf extraction failed")
		metrics.ObserveRequest("parse_error", time.Since(start))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid PDF file: %v", err))
		return
	}

	rep := s.deps.Aggregator.Aggregate(pdfURL, toReportPages(pages), pageOverride)
	observePages(rep)

	logger.Info().
		Int("pages", rep.PageCount).
		Int("vector_pages", rep.VectorPagesCount).
		Dur("duration", time.Since(start)).
		Msg("vector-check complete")
	metrics.ObserveRequest("success", time.Since(start))

	writeJSON(w, http.StatusOK, vectorCheckResponse{
		Success:          true,
		PageCount:        rep.PageCount,
		VectorPagesCount: rep.VectorPagesCount,
		VectorPages:      rep.VectorPages,
		Pages:            rep.Pages,
	})

	// Sweep temp files that crashed requests may have left behind.
	fetch.CleanupTemps(time.Hour)
}

func toReportPages(pages []pdf.PageExtraction) []report.Page {
	out := make([]report.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, report.Page{Metrics: p.Metrics, Err: p.Err})
	}
	return out
}

func observePages(rep report.DocumentReport) {
	for _, p := range rep.Pages {
		switch {
		case p.IsVector:
			metrics.IncPageClassified("vector")
		case strings.HasPrefix(p.Reason, "page processing failed"):
			metrics.IncPageClassified("failed")
		default:
			metrics.IncPageClassified("text")
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
