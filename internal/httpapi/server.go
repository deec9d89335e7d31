// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi serves the synthesis and SOTA pipelines over HTTP.
//
//	POST /analyze     multipart form with paper_a and paper_b files
//	POST /sota        JSON body {topic, top_k, max_results, start_date, end_date, include_metrics}
//	GET  /sota/quick  ?topic=...&top_k=...
//	GET  /health
//
// Every response allows cross-origin requests. Errors are returned as
// {"error": message}.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/internal/sota"
	"github.com/pdiddy/ideation-engine/internal/synthesis"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// DefaultMaxUploadBytes bounds an /analyze request body.
const DefaultMaxUploadBytes int64 = 50 << 20

// Synthesizer runs the synthesis pipeline over two files.
type Synthesizer interface {
	RunFiles(ctx context.Context, ext synthesis.TextExtractor, pathA, pathB string) (*types.SynthesisResult, error)
}

// SOTARunner runs SOTA identification.
type SOTARunner interface {
	Run(ctx context.Context, req sota.Request) (*types.SOTAResult, error)
}

// Options configures a Server. Synthesizer is nil when no generation
// service is configured; /analyze then fails with 500.
type Options struct {
	Synthesizer Synthesizer
	Extractor   synthesis.TextExtractor
	SOTA        SOTARunner

	// Defaults supplies SOTA request defaults.
	Defaults types.SOTAConfig

	// Model is reported by /health.
	Model string

	MaxUploadBytes int64
	Log            logrus.FieldLogger
}

// Server is the HTTP front end.
type Server struct {
	opts Options
	log  logrus.FieldLogger
}

// NewServer returns the routed handler.
func NewServer(opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{opts: opts, log: logging.OrDiscard(opts.Log)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /sota", s.handleSOTA)
	mux.HandleFunc("GET /sota/quick", s.handleQuickSOTA)
	mux.HandleFunc("GET /health", s.handleHealth)
	return s.withCORS(mux)
}

// withCORS adds permissive CORS headers and answers preflight requests.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Access-Control-Allow-Methods", "GET,PUT,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"elapsed_ms": time.Since(start).Milliseconds(),
		}).Debug("request served")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                "healthy",
		"generation_configured": s.opts.Synthesizer != nil,
		"model":                 s.opts.Model,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.opts.Synthesizer == nil || s.opts.Extractor == nil {
		writeError(w, http.StatusInternalServerError, "generation service is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		writeError(w, http.StatusBadRequest, "Both paper files are required")
		return
	}
	defer r.MultipartForm.RemoveAll()

	fa, ha, errA := r.FormFile("paper_a")
	fb, hb, errB := r.FormFile("paper_b")
	if errA != nil || errB != nil {
		closeIf(fa)
		closeIf(fb)
		writeError(w, http.StatusBadRequest, "Both paper files are required")
		return
	}
	defer fa.Close()
	defer fb.Close()
	if ha.Filename == "" || hb.Filename == "" {
		writeError(w, http.StatusBadRequest, "No files selected")
		return
	}

	dir, err := os.MkdirTemp("", "ideation-analyze-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.RemoveAll(dir)

	pathA, err := saveUpload(dir, "a", ha.Filename, fa)
	if err == nil {
		var pathB string
		pathB, err = saveUpload(dir, "b", hb.Filename, fb)
		if err == nil {
			s.runAnalyze(w, r, pathA, pathB)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) runAnalyze(w http.ResponseWriter, r *http.Request, pathA, pathB string) {
	res, err := s.opts.Synthesizer.RunFiles(r.Context(), s.opts.Extractor, pathA, pathB)
	if err != nil {
		s.log.WithError(err).Error("analysis failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// saveUpload copies an uploaded file into dir. The stored name keeps only
// the base name and extension of the client's filename so the converter
// can pick a backend.
func saveUpload(dir, label, filename string, src io.Reader) (string, error) {
	name := label + "-" + sanitizeFilename(filename)
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("saving upload: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("saving upload: %w", err)
	}
	return dst.Name(), nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" {
		return "upload"
	}
	return out
}

func closeIf(f multipart.File) {
	if f != nil {
		f.Close()
	}
}

func (s *Server) handleSOTA(w http.ResponseWriter, r *http.Request) {
	var req sota.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body is required")
		return
	}
	s.runSOTA(w, r, req.WithDefaults(s.opts.Defaults).Normalize())
}

func (s *Server) handleQuickSOTA(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := sota.Request{Topic: q.Get("topic")}
	if v := strings.TrimSpace(q.Get("top_k")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "top_k must be an integer")
			return
		}
		req.TopK = n
	}
	s.runSOTA(w, r, req.WithDefaults(s.opts.Defaults).Quick())
}

func (s *Server) runSOTA(w http.ResponseWriter, r *http.Request, req sota.Request) {
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.opts.SOTA == nil {
		writeError(w, http.StatusInternalServerError, "SOTA identification is not configured")
		return
	}
	s.log.WithFields(logrus.Fields{"topic": req.Topic, "top_k": req.TopK, "max_results": req.MaxResults}).Info("SOTA request")

	res, err := s.opts.SOTA.Run(r.Context(), req)
	if err != nil {
		s.log.WithError(err).Error("SOTA identification failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
