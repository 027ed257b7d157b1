// Package server exposes search over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/coursesearch/core"
	"github.com/poiesic/coursesearch/metrics"
	"github.com/poiesic/coursesearch/search"
	"github.com/poiesic/coursesearch/storage"
)

// Searcher ranks documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]*core.ScoredResult, error)
}

// DocumentLookup fetches a document by its code.
type DocumentLookup interface {
	GetDocumentByCode(ctx context.Context, code string) (*core.Document, error)
}

// Server serves the search API.
type Server struct {
	searcher Searcher
	docs     DocumentLookup
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an HTTP API server.
func New(searcher Searcher, docs DocumentLookup, opts ...Option) *Server {
	s := &Server{
		searcher: searcher,
		docs:     docs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/search", s.handleSearch)
	r.Get("/documents/{code}", s.handleDocument)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// DocumentResponse is the JSON form of a document.
type DocumentResponse struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ResultResponse is one ranked hit.
type ResultResponse struct {
	DocumentResponse
	Score   float64 `json:"score"`
	Overlap float64 `json:"overlap"`
	Boost   float64 `json:"boost"`
}

// SearchResponse is the body of GET /search.
type SearchResponse struct {
	Query   string           `json:"query"`
	Results []ResultResponse `json:"results"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// handleSearch handles GET /search?q=.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := s.searcher.Search(r.Context(), query)
	if err != nil {
		s.handleError(w, err)
		return
	}

	resp := SearchResponse{Query: query, Results: make([]ResultResponse, len(results))}
	for i, res := range results {
		resp.Results[i] = ResultResponse{
			DocumentResponse: documentToResponse(res.Document),
			Score:            res.Score,
			Overlap:          res.Overlap,
			Boost:            res.Boost,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleDocument handles GET /documents/{code}.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.docs.GetDocumentByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(doc))
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "not found"})
	case errors.Is(err, search.ErrVocabularyMismatch):
		s.logger.Error("index out of date", "err", err)
		writeJSON(w, http.StatusConflict, ErrorResponse{Message: "index out of date, rebuild required"})
	default:
		s.logger.Error("internal error", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "internal error"})
	}
}

func documentToResponse(doc *core.Document) DocumentResponse {
	return DocumentResponse{Code: doc.Code, Name: doc.Name, Description: doc.Description}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
