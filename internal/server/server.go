// Package server exposes the evaluation pipeline over HTTP: the same two
// workflows the CLI runs, for callers that upload documents instead of
// passing file paths.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spigell/rfp-evaluator/internal/evaluation"
	"github.com/spigell/rfp-evaluator/internal/extract"
	"github.com/spigell/rfp-evaluator/internal/llm"
	"github.com/spigell/rfp-evaluator/internal/matrix"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// maxUploadBytes bounds a single PDF upload.
const maxUploadBytes = 64 << 20

type Server struct {
	pipeline *evaluation.Pipeline
	store    *matrix.Store
	logger   *zap.Logger
	http     *http.Server
}

func New(pipeline *evaluation.Pipeline, store *matrix.Store, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		pipeline: pipeline,
		store:    store,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/rfp", s.handleAnalyzeRFP).Methods(http.MethodPost)
	router.HandleFunc("/api/proposals", s.handleScoreProposal).Methods(http.MethodPost)
	router.HandleFunc("/api/matrix", s.handleGetMatrix).Methods(http.MethodGet)
	router.HandleFunc("/api/matrix.csv", s.handleDownloadCSV).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           cors.AllowAll().Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the routing stack, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http api listening", zap.String("addr", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// handleAnalyzeRFP runs workflow 1: extract the uploaded RFP's text,
// enumerate requirements, persist the updated matrix.
func (s *Server) handleAnalyzeRFP(w http.ResponseWriter, r *http.Request) {
	text, ok := s.extractUpload(w, r)
	if !ok {
		return
	}

	m, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	added, err := s.pipeline.ExtractRequirements(r.Context(), text, m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Save(m); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"added":        added,
		"requirements": m.Requirements(),
	})
}

// handleScoreProposal runs workflow 2: score the uploaded proposal for the
// vendor named in the form, persist the updated matrix.
func (s *Server) handleScoreProposal(w http.ResponseWriter, r *http.Request) {
	text, ok := s.extractUpload(w, r)
	if !ok {
		return
	}

	vendor := r.FormValue("vendor")
	if vendor == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": "vendor form field is required"})
		return
	}

	m, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.pipeline.ScoreVendor(r.Context(), vendor, text, m)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.Save(m); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	rows := make([]map[string]string, 0, m.Len())
	for _, row := range m.Rows {
		entry := map[string]string{"requirement": row.Requirement}
		for _, vendor := range m.Vendors {
			entry[vendor] = row.Verdicts[vendor]
		}
		rows = append(rows, entry)
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"vendors": m.Vendors,
		"rows":    rows,
	})
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation_matrix.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := matrix.WriteCSV(m, w); err != nil {
		s.logger.Warn("writing csv response", zap.Error(err))
	}
}

// extractUpload reads the multipart "file" field and extracts its text.
// On failure it writes the error response and reports false.
func (s *Server) extractUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("file form field is required: %v", err)})
		return "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"error": fmt.Sprintf("reading upload: %v", err)})
		return "", false
	}

	text, err := extract.Text(data)
	if err != nil {
		s.writeError(w, err)
		return "", false
	}

	return text, true
}

// writeError maps pipeline failures onto HTTP statuses: caller mistakes are
// 4xx, upstream model failures are 502, storage failures are 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var extractionErr *extract.ExtractionError
	var invocationErr *llm.InvocationError
	var persistenceErr *matrix.PersistenceError

	switch {
	case errors.Is(err, evaluation.ErrNoMatrix):
		status = http.StatusConflict
	case errors.Is(err, evaluation.ErrEmptyExtraction):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &extractionErr):
		status = http.StatusBadRequest
	case errors.As(err, &invocationErr):
		status = http.StatusBadGateway
	case errors.As(err, &persistenceErr):
		status = http.StatusInternalServerError
	}

	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	s.writeJSON(w, status, map[string]any{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encoding response", zap.Error(err))
	}
}
