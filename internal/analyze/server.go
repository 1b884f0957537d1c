// Package analyze serves the resume analysis API: resume text in, Markdown feedback out.
package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olivierh59500/resume-glow/internal/resume"
)

// MaxUploadBytes caps uploaded resume files.
const MaxUploadBytes = 10 << 20

// Request is the body of POST /api/analyze.
type Request struct {
	Text     string `json:"text"`
	FileType string `json:"fileType"`
}

// Response is the success body of the analysis endpoints.
type Response struct {
	Analysis   string             `json:"analysis"`
	Statistics *resume.Statistics `json:"statistics,omitempty"`
}

// ErrorResponse is the failure body of every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Server serves the analysis endpoints.
type Server struct {
	Analyzer    Analyzer
	CORSOrigins []string
	Timeout     time.Duration // Per-request budget for the model call
}

// Handler returns the API routes wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/statistics", s.handleStatistics)
	return corsMiddleware(s.CORSOrigins, mux)
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("analysis API starting", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("analysis API: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("analysis API stopping")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reqID := uuid.NewString()

	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes)).Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "text" {
			slog.Warn("invalid or missing text content", "request_id", reqID, "error", err)
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing resume text"})
			return
		}
		slog.Error("request processing error", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Details: err.Error()})
		return
	}
	slog.Info("analysis requested", "request_id", reqID, "file_type", req.FileType)

	if strings.TrimSpace(req.Text) == "" {
		slog.Warn("invalid or missing text content", "request_id", reqID)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid or missing resume text"})
		return
	}

	analysis, ok := s.analyze(w, r, reqID, req.Text)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Response{Analysis: analysis})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	reqID := uuid.NewString()

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Missing resume file", Details: err.Error()})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Could not read resume file", Details: err.Error()})
		return
	}

	// browsers often send application/octet-stream, fall back to the extension
	fileType := header.Header.Get("Content-Type")
	switch resume.Kind(fileType) {
	case resume.MimeText, resume.MimePDF, resume.MimeDocx, resume.MimeDoc:
	default:
		fileType = header.Filename
	}
	slog.Info("upload received", "request_id", reqID, "file", header.Filename, "file_type", fileType, "bytes", len(data))

	text, err := resume.ExtractText(fileType, data)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, resume.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		slog.Warn("text extraction failed", "request_id", reqID, "error", err)
		writeJSON(w, status, ErrorResponse{Error: "Could not extract resume text", Details: err.Error()})
		return
	}

	analysis, ok := s.analyze(w, r, reqID, text)
	if !ok {
		return
	}
	stats := resume.Stats(text)
	writeJSON(w, http.StatusOK, Response{Analysis: analysis, Statistics: &stats})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req Request
	if err := json.NewDecoder(io.LimitReader(r.Body, MaxUploadBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, resume.Stats(req.Text))
}

// analyze calls the model and writes the error response itself on failure.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, reqID, text string) (string, bool) {
	ctx := r.Context()
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	analysis, err := s.Analyzer.Analyze(ctx, text)
	if err != nil {
		if code, msg, ok := upstreamError(err); ok {
			slog.Error("gemini API error response", "request_id", reqID, "status", code, "error", msg)
			if code < 400 || code > 599 {
				code = http.StatusBadGateway
			}
			writeJSON(w, code, ErrorResponse{Error: "Error from Gemini API", Details: msg})
			return "", false
		}
		slog.Error("gemini API request failed", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Failed to communicate with Gemini API", Details: err.Error()})
		return "", false
	}
	slog.Info("analysis complete", "request_id", reqID, "elapsed", time.Since(start), "chars", len(analysis))
	return analysis, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// corsMiddleware allows the listed origins plus local dev servers.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:3000": true,
		"http://localhost:5173": true,
	}
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
