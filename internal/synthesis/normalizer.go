// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/structured"
)

const (
	// minNormalizedChars drops fragments; kept items are longer than this.
	minNormalizedChars = 10
	maxNormalized      = 6
)

// Normalizer merges and rephrases a raw weakness list into a short list of
// readable statements.
type Normalizer struct {
	caller
}

// NewNormalizer returns a Normalizer that calls llm.
func NewNormalizer(llm generate.Client, log logrus.FieldLogger) *Normalizer {
	return &Normalizer{caller: newCaller(llm, log)}
}

// Normalize returns at most six consolidated weaknesses. An empty input
// returns an empty list without a generation call.
func (n *Normalizer) Normalize(ctx context.Context, paper string, weaknesses []string) ([]string, error) {
	if len(weaknesses) == 0 {
		return []string{}, nil
	}

	raw, err := n.call(ctx, "normalize", paper, normalizeSampling, normalizeSystem, normalizePrompt,
		struct{ Items []string }{weaknesses})
	if err != nil {
		return nil, err
	}

	out := []string{}
	for _, item := range structured.ExtractBulletList(raw) {
		if utf8.RuneCountInString(item) <= minNormalizedChars {
			continue
		}
		out = append(out, item)
		if len(out) == maxNormalized {
			break
		}
	}
	return out, nil
}
