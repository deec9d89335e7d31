// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/structured"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Fusion partitions the weaknesses of two papers into shared and
// paper-specific groups.
type Fusion struct {
	caller
}

// NewFusion returns a Fusion that calls llm.
func NewFusion(llm generate.Client, log logrus.FieldLogger) *Fusion {
	return &Fusion{caller: newCaller(llm, log)}
}

// Fuse asks the model to group semantically equivalent weaknesses. When
// the reply is unusable it falls back to exact string set algebra. Two
// empty inputs yield an empty partition without a call.
func (f *Fusion) Fuse(ctx context.Context, a, b []string) (types.WeaknessPartition, error) {
	if len(a) == 0 && len(b) == 0 {
		return emptyPartition(), nil
	}

	raw, err := f.call(ctx, "fuse", "", fuseSampling, fuseSystem, fusePrompt, struct{ A, B []string }{a, b})
	if err != nil {
		return types.WeaknessPartition{}, err
	}

	var p types.WeaknessPartition
	if err := structured.ExtractJSON(raw, &p, "shared", "paper_a_only", "paper_b_only"); err != nil {
		f.fallback("fuse", "", err)
		return setPartition(a, b), nil
	}
	p.Shared = orEmpty(p.Shared)
	p.OnlyA = orEmpty(p.OnlyA)
	p.OnlyB = orEmpty(p.OnlyB)
	return p, nil
}

func emptyPartition() types.WeaknessPartition {
	return types.WeaknessPartition{Shared: []string{}, OnlyA: []string{}, OnlyB: []string{}}
}

// setPartition splits a and b by exact string equality. Order follows the
// inputs and duplicates are dropped.
func setPartition(a, b []string) types.WeaknessPartition {
	inA := make(map[string]bool, len(a))
	for _, w := range a {
		inA[w] = true
	}
	inB := make(map[string]bool, len(b))
	for _, w := range b {
		inB[w] = true
	}

	p := emptyPartition()
	seen := make(map[string]bool, len(a)+len(b))
	for _, w := range a {
		if seen[w] {
			continue
		}
		seen[w] = true
		if inB[w] {
			p.Shared = append(p.Shared, w)
		} else {
			p.OnlyA = append(p.OnlyA, w)
		}
	}
	for _, w := range b {
		if seen[w] {
			continue
		}
		seen[w] = true
		p.OnlyB = append(p.OnlyB, w)
	}
	return p
}
