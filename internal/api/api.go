// Package api exposes the generation engine over HTTP. The server owns a
// single document; generate requests mutate it under a lock so at most
// one batch runs at a time.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/boardgen/boardgen/pkg/errors"
	"github.com/boardgen/boardgen/pkg/host/memory"
	"github.com/boardgen/boardgen/pkg/pipeline"
	"github.com/boardgen/boardgen/pkg/render"
)

// Server serves the generation API for one document.
type Server struct {
	doc    *memory.Document
	logger *log.Logger

	// mu serializes batches; the engine issues strictly ordered commands
	// against the document.
	mu sync.Mutex
}

// New creates a server around a document.
func New(doc *memory.Document, logger *log.Logger) *Server {
	return &Server{doc: doc, logger: logger}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/document", s.handleDocument)
		r.Get("/preview", s.handlePreview)
		r.Post("/generate", s.handleGenerate)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.doc.Export())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	svg := render.RenderSVG(s.doc.Export(), render.WithGuides())
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode request"))
		return
	}
	opts.Logger = s.logger

	s.mu.Lock()
	defer s.mu.Unlock()

	runner := pipeline.NewRunner(s.doc, s.logger)
	result, err := runner.Execute(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.IsFatal(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
