// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// HTMLConverter extracts the main article text of an HTML page, such as an
// arXiv HTML rendering saved to disk.
type HTMLConverter struct{}

func (HTMLConverter) Convert(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening HTML %s: %w", path, err)
	}
	defer f.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	pageURL := &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	article, err := readability.FromReader(f, pageURL)
	if err != nil {
		return "", fmt.Errorf("parsing HTML %s: %w", path, err)
	}

	var b strings.Builder
	if article.Title != "" {
		b.WriteString(article.Title)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimSpace(article.TextContent))
	return b.String(), nil
}
