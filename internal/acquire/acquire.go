// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire turns the paper arguments of the synthesize command into
// local files. Local paths pass through unchanged; arXiv IDs, DOIs and
// URLs are downloaded into a working directory that the caller removes
// when the run is over.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/httputil"
	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Downloader fetches remote papers.
type Downloader struct {
	HTTP      *http.Client
	UserAgent string

	// Email joins the OpenAlex polite pool when resolving DOIs.
	Email string

	Log logrus.FieldLogger
}

// NewDownloader returns a Downloader using the search HTTP settings. A nil
// client gets one with the configured timeout.
func NewDownloader(cfg types.SearchConfig, client *http.Client, log logrus.FieldLogger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Downloader{
		HTTP:      client,
		UserAgent: cfg.UserAgent,
		Email:     cfg.OpenAlexEmail,
		Log:       logging.OrDiscard(log),
	}
}

func (d *Downloader) client() *http.Client {
	if d.HTTP == nil {
		return http.DefaultClient
	}
	return d.HTTP
}

// Stage resolves every input and returns local paths in input order along
// with a cleanup function that removes any downloads. cleanup is never nil
// and is safe to call after an error.
func (d *Downloader) Stage(ctx context.Context, inputs ...string) (paths []string, cleanup func(), err error) {
	cleanup = func() {}
	var dir string
	for _, in := range inputs {
		if isLocal(in) {
			paths = append(paths, in)
			continue
		}
		if dir == "" {
			dir, err = os.MkdirTemp("", "ideation-engine-*")
			if err != nil {
				return nil, cleanup, fmt.Errorf("creating download directory: %w", err)
			}
			tmp := dir
			cleanup = func() { os.RemoveAll(tmp) }
		}
		p, ferr := d.Fetch(ctx, in, dir)
		if ferr != nil {
			return nil, cleanup, ferr
		}
		paths = append(paths, p)
	}
	return paths, cleanup, nil
}

// Fetch downloads the paper named by identifier into dir and returns the
// file path. DOIs are resolved through OpenAlex first and fall back to
// doi.org when no open-access PDF is listed.
func (d *Downloader) Fetch(ctx context.Context, identifier, dir string) (string, error) {
	id, err := ParseIdentifier(identifier)
	if err != nil {
		return "", err
	}

	src := id.Source()
	if id.Kind == KindDOI {
		oa, err := d.resolveOpenAlex(ctx, id.Value)
		switch {
		case err != nil:
			d.Log.WithError(err).WithField("doi", id.Value).Warn("OpenAlex lookup failed, using doi.org")
		case oa != "":
			src = oa
		}
	}

	d.Log.WithFields(logrus.Fields{"id": id.String(), "url": src}).Info("downloading paper")

	dest, err := d.download(ctx, src, dir, id.FileStem())
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", identifier, err)
	}
	return dest, nil
}

// download writes the body of src to dir/stem<ext> through a temp file.
// The extension comes from the URL path, then the Content-Type, so the
// converter can pick a backend.
func (d *Downloader) download(ctx context.Context, src, dir, stem string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, d.UserAgent)
	req.Header.Set("Accept", "application/pdf, text/html;q=0.8, */*;q=0.5")

	resp, err := d.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus(req.URL.Host, resp); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".acquire-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", err)
	}

	dest := filepath.Join(dir, stem+fileExt(resp.Request.URL.Path, resp.Header.Get("Content-Type")))
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return dest, nil
}

func fileExt(urlPath, contentType string) string {
	switch ext := strings.ToLower(path.Ext(urlPath)); ext {
	case ".pdf", ".html", ".htm", ".txt", ".md":
		return ext
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "application/pdf":
		return ".pdf"
	case "text/html", "application/xhtml+xml":
		return ".html"
	case "text/plain":
		return ".txt"
	}
	return ""
}

// isLocal reports whether s names an existing regular file.
func isLocal(s string) bool {
	fi, err := os.Stat(s)
	return err == nil && fi.Mode().IsRegular()
}
