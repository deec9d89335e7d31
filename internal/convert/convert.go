// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert extracts plain text from paper files. Backends handle
// PDF (ledongthuc/pdf), HTML (go-readability), plain text, and any format
// the markitdown container understands.
package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/container"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Converter extracts the plain text of a document file.
type Converter interface {
	// Convert reads the file at path and returns its text.
	Convert(ctx context.Context, path string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, path string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// TextConverter returns file contents unchanged.
type TextConverter struct{}

func (TextConverter) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// AutoConverter picks a backend from the file extension, falling back to
// content sniffing for extensionless uploads.
type AutoConverter struct {
	PDF  Converter
	HTML Converter
	Text Converter
}

// NewAutoConverter returns an AutoConverter with the built-in backends.
func NewAutoConverter() *AutoConverter {
	return &AutoConverter{PDF: PDFConverter{}, HTML: HTMLConverter{}, Text: TextConverter{}}
}

func (a *AutoConverter) Convert(ctx context.Context, path string) (string, error) {
	return a.pick(path).Convert(ctx, path)
}

func (a *AutoConverter) pick(path string) Converter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return a.PDF
	case ".html", ".htm", ".xhtml":
		return a.HTML
	case ".txt", ".md", ".text":
		return a.Text
	}

	head := make([]byte, 512)
	f, err := os.Open(path)
	if err != nil {
		return a.Text
	}
	defer f.Close()
	n, _ := io.ReadFull(f, head)
	head = bytes.TrimSpace(head[:n])
	switch {
	case bytes.HasPrefix(head, []byte("%PDF")):
		return a.PDF
	case bytes.HasPrefix(bytes.ToLower(head), []byte("<!doctype html")), bytes.HasPrefix(bytes.ToLower(head), []byte("<html")):
		return a.HTML
	}
	return a.Text
}

// New builds the converter for the configured backend.
func New(ctx context.Context, cfg types.ConversionConfig) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendAuto:
		return NewAutoConverter(), nil
	case types.BackendMarkitdown:
		rt, err := container.Detect(ctx, cfg.Runtime)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt, cfg)
	}
	return nil, fmt.Errorf("unknown conversion backend %q", cfg.Backend)
}

// Extractor is the best-effort plain text collaborator of the synthesis
// pipeline: failures are logged and yield empty text.
type Extractor struct {
	Converter Converter
	Log       logrus.FieldLogger
}

// ExtractText returns the text of the file at path, or "" on failure.
func (e *Extractor) ExtractText(ctx context.Context, path string) string {
	text, err := e.Converter.Convert(ctx, path)
	if err != nil {
		if e.Log != nil {
			e.Log.WithError(err).WithField("path", path).Warn("text extraction failed")
		}
		return ""
	}
	return strings.TrimSpace(text)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Status is the outcome of converting one file.
type Status string

const (
	StatusConverted Status = "converted"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// ConvertFile writes the text of path to outDir/<base>.txt. Existing output
// is left alone.
func ConvertFile(ctx context.Context, c Converter, path, outDir string, w io.Writer) Status {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	txtPath := filepath.Join(outDir, base+".txt")

	if _, err := os.Stat(txtPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", base)
		return StatusSkipped
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	text, err := c.Convert(ctx, path)
	if err == nil && strings.TrimSpace(text) == "" {
		err = fmt.Errorf("no text extracted")
	}
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	if err := os.WriteFile(txtPath, []byte(text), 0o644); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", base, err)
		return StatusFailed
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return StatusConverted
}

// ConvertPaths converts each file, printing per-file status to w and
// returning a summary.
func ConvertPaths(ctx context.Context, c Converter, paths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		switch ConvertFile(ctx, c, p, outDir, w) {
		case StatusConverted:
			result.Converted++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
