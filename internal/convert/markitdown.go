// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/ideation-engine/internal/container"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

const defaultMarkitdownImage = "markitdown:latest"

// MarkitdownConverter converts documents by piping them through the
// markitdown container image.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
	memory  string
}

// NewMarkitdownConverter checks that the configured image is present in rt.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, cfg types.ConversionConfig) (*MarkitdownConverter, error) {
	image := cfg.Image
	if image == "" {
		image = defaultMarkitdownImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("markitdown backend unavailable: %w", err)
	}
	return &MarkitdownConverter{runtime: rt, image: image, memory: cfg.Memory}, nil
}

// Convert pipes the file at path through the markitdown container.
func (m *MarkitdownConverter) Convert(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var out bytes.Buffer
	job := container.Job{Image: m.image, Stdin: f, Stdout: &out, Memory: m.memory}
	if err := m.runtime.Run(ctx, job); err != nil {
		return "", fmt.Errorf("converting %s: %w", path, err)
	}
	if len(bytes.TrimSpace(out.Bytes())) == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", path)
	}
	return out.String(), nil
}
