// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/pdiddy/ideation-engine/internal/container"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// fakeConverter returns canned text or an error.
type fakeConverter struct {
	output string
	err    error
	calls  int
}

func (f *fakeConverter) Convert(_ context.Context, path string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.output, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name       string
		converter  *fakeConverter
		preCreate  bool
		wantStatus Status
		wantLog    string
	}{
		{
			name:       "successful conversion",
			converter:  &fakeConverter{output: "Title\n\nContent here."},
			wantStatus: StatusConverted,
			wantLog:    "converted:",
		},
		{
			name:       "skip existing output",
			converter:  &fakeConverter{output: "should not be called"},
			preCreate:  true,
			wantStatus: StatusSkipped,
			wantLog:    "skipped:",
		},
		{
			name:       "conversion failure",
			converter:  &fakeConverter{err: errors.New("container crashed")},
			wantStatus: StatusFailed,
			wantLog:    "failed:",
		},
		{
			name:       "empty text is a failure",
			converter:  &fakeConverter{output: "   \n"},
			wantStatus: StatusFailed,
			wantLog:    "no text extracted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, dir, "2301.07041.pdf", "fake pdf")
			outDir := filepath.Join(dir, "text")

			if tt.preCreate {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					t.Fatal(err)
				}
				writeFile(t, outDir, "2301.07041.txt", "existing")
			}

			var log bytes.Buffer
			status := ConvertFile(context.Background(), tt.converter, src, outDir, &log)

			if status != tt.wantStatus {
				t.Errorf("status = %q, want %q", status, tt.wantStatus)
			}
			if !strings.Contains(log.String(), tt.wantLog) {
				t.Errorf("log output %q does not contain %q", log.String(), tt.wantLog)
			}
			if tt.preCreate && tt.converter.calls != 0 {
				t.Errorf("converter called %d times for existing output", tt.converter.calls)
			}
		})
	}
}

func TestConvertPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf", "pdf")
	b := writeFile(t, dir, "b.pdf", "pdf")
	c := writeFile(t, dir, "c.pdf", "pdf")
	outDir := filepath.Join(dir, "text")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, outDir, "b.txt", "existing")

	conv := &selectiveConverter{
		outputs: map[string]string{a: "Paper A", b: "Paper B"},
		errors:  map[string]error{c: errors.New("bad pdf")},
	}

	var log bytes.Buffer
	result := ConvertPaths(context.Background(), conv, []string{a, b, c}, outDir, &log)

	if result.Converted != 1 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("result = %+v, want 1/1/1", result)
	}
	if !result.HasFailures() {
		t.Error("HasFailures should be true")
	}
	if result.Total() != 3 {
		t.Errorf("total = %d, want 3", result.Total())
	}
	if !strings.Contains(log.String(), "Batch summary:") {
		t.Error("batch output should contain summary line")
	}
	data, err := os.ReadFile(filepath.Join(outDir, "a.txt"))
	if err != nil || string(data) != "Paper A" {
		t.Errorf("a.txt = %q, %v", data, err)
	}
}

// selectiveConverter returns different results per file path.
type selectiveConverter struct {
	outputs map[string]string
	errors  map[string]error
}

func (s *selectiveConverter) Convert(_ context.Context, path string) (string, error) {
	if err, ok := s.errors[path]; ok {
		return "", err
	}
	if out, ok := s.outputs[path]; ok {
		return out, nil
	}
	return "", errors.New("unexpected path: " + path)
}

func TestAutoConverterPick(t *testing.T) {
	dir := t.TempDir()
	pdfConv := &fakeConverter{output: "pdf"}
	htmlConv := &fakeConverter{output: "html"}
	textConv := &fakeConverter{output: "text"}
	auto := &AutoConverter{PDF: pdfConv, HTML: htmlConv, Text: textConv}

	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"pdf extension", "paper.PDF", "anything", "pdf"},
		{"html extension", "paper.html", "anything", "html"},
		{"markdown extension", "paper.md", "# x", "text"},
		{"sniffed pdf", "upload", "%PDF-1.7\n...", "pdf"},
		{"sniffed html", "upload2", "  <!DOCTYPE html><html></html>", "html"},
		{"unknown defaults to text", "upload3", "plain words", "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, dir, tt.file, tt.content)
			got, err := auto.Convert(context.Background(), p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextConverter(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "a.txt", "hello world")
	got, err := TextConverter{}.Convert(context.Background(), p)
	if err != nil || got != "hello world" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := (TextConverter{}).Convert(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHTMLConverter(t *testing.T) {
	dir := t.TempDir()
	page := `<!DOCTYPE html><html><head><title>Sparse Attention</title></head><body>
<nav>Home | About</nav>
<article><h1>Sparse Attention</h1>
<p>We propose a sparse attention mechanism that reduces the quadratic cost of transformers to linear in sequence length while preserving accuracy on long-context benchmarks.</p>
<p>Experiments on language modeling and retrieval show consistent improvements over dense baselines with a fraction of the memory footprint.</p>
<p>We further analyze the failure modes of the method, including degraded recall on tasks that require precise token-level alignment, and we discuss how block size, routing temperature, and the number of global tokens trade accuracy against throughput across a range of hardware budgets.</p>
</article></body></html>`
	p := writeFile(t, dir, "paper.html", page)

	got, err := HTMLConverter{}.Convert(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "sparse attention mechanism") {
		t.Errorf("article text missing from %q", got)
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("markup leaked into %q", got)
	}
}

func TestPDFConverterInvalidFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "broken.pdf", "not a pdf at all")
	if _, err := (PDFConverter{}).Convert(context.Background(), p); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

func TestExtractorBestEffort(t *testing.T) {
	logger, hook := test.NewNullLogger()

	e := &Extractor{Converter: &fakeConverter{err: errors.New("boom")}, Log: logger}
	if got := e.ExtractText(context.Background(), "x.pdf"); got != "" {
		t.Errorf("got %q, want empty text on failure", got)
	}
	if len(hook.Entries) != 1 || hook.LastEntry().Level != logrus.WarnLevel {
		t.Errorf("expected one warning, got %d entries", len(hook.Entries))
	}

	e = &Extractor{Converter: &fakeConverter{output: "  body text \n"}}
	if got := e.ExtractText(context.Background(), "x.pdf"); got != "body text" {
		t.Errorf("got %q", got)
	}
}

type fakeRuntime struct {
	imageErr error
	out      string
	jobs     []container.Job
	images   []string
}

func (f *fakeRuntime) Name() string { return "docker" }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	f.images = append(f.images, image)
	return f.imageErr
}

func (f *fakeRuntime) Run(_ context.Context, job container.Job) error {
	f.jobs = append(f.jobs, job)
	_, _ = io.Copy(io.Discard, job.Stdin)
	_, err := io.WriteString(job.Stdout, f.out)
	return err
}

var _ container.Runtime = (*fakeRuntime)(nil)

func TestMarkitdownConverter(t *testing.T) {
	if _, err := NewMarkitdownConverter(context.Background(), &fakeRuntime{imageErr: errors.New("missing")}, types.ConversionConfig{}); err == nil {
		t.Fatal("expected error when image is missing")
	}

	dir := t.TempDir()
	p := writeFile(t, dir, "a.pdf", "%PDF")

	rt := &fakeRuntime{out: "# Converted"}
	m, err := NewMarkitdownConverter(context.Background(), rt, types.ConversionConfig{Memory: "512m"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := m.Convert(context.Background(), p)
	if err != nil || got != "# Converted" {
		t.Errorf("got %q, %v", got, err)
	}
	if rt.images[0] != defaultMarkitdownImage {
		t.Errorf("checked image %q", rt.images[0])
	}
	if job := rt.jobs[0]; job.Image != defaultMarkitdownImage || job.Memory != "512m" {
		t.Errorf("job = %+v", job)
	}

	rt = &fakeRuntime{out: "text"}
	if _, err := NewMarkitdownConverter(context.Background(), rt, types.ConversionConfig{Image: "registry.local/markitdown:1.2"}); err != nil {
		t.Fatal(err)
	}
	if rt.images[0] != "registry.local/markitdown:1.2" {
		t.Errorf("checked image %q", rt.images[0])
	}

	m, _ = NewMarkitdownConverter(context.Background(), &fakeRuntime{out: " \n"}, types.ConversionConfig{})
	if _, err := m.Convert(context.Background(), p); err == nil {
		t.Error("expected error for empty output")
	}
}
