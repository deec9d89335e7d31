// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/structured"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

const (
	untitledA      = "Untitled Paper A"
	untitledB      = "Untitled Paper B"
	notSpecified   = "Not specified"
	maxLimitations = 4
)

// DefaultAssessment fills any comparison cell the model did not provide.
var DefaultAssessment = types.AspectAssessment{
	PaperA:   "Analysis based on identified limitations shows room for improvement",
	PaperB:   "Moderate performance with some documented constraints",
	Proposed: "Designed to address identified gaps through hybrid approach",
}

// DefaultComparison returns the table used when the reply cannot be parsed.
func DefaultComparison() types.ComparisonTable {
	t := make(types.ComparisonTable, len(types.ComparisonAspects))
	for _, a := range types.ComparisonAspects {
		t[a] = DefaultAssessment
	}
	return t
}

// Comparator assesses both papers and the proposed method on the fixed
// comparison aspects.
type Comparator struct {
	caller
}

// NewComparator returns a Comparator that calls llm.
func NewComparator(llm generate.Client, log logrus.FieldLogger) *Comparator {
	return &Comparator{caller: newCaller(llm, log)}
}

// Compare always returns exactly the five aspects of
// types.ComparisonAspects with every cell filled.
func (c *Comparator) Compare(ctx context.Context, a, b types.ParsedDocument, weakA, weakB []string, method types.ProposedMethod) (types.ComparisonTable, error) {
	raw, err := c.call(ctx, "compare", "", compareSampling, compareSystem, comparePrompt, struct {
		TitleA, TitleB   string
		LimitsA, LimitsB string
		Method           types.ProposedMethod
		Aspects          []string
	}{
		TitleA:  a.TitleOr(untitledA),
		TitleB:  b.TitleOr(untitledB),
		LimitsA: limitations(weakA),
		LimitsB: limitations(weakB),
		Method:  method,
		Aspects: types.ComparisonAspects,
	})
	if err != nil {
		return nil, err
	}

	table, err := parseComparison(raw)
	if err != nil {
		c.fallback("compare", "", err)
		return DefaultComparison(), nil
	}
	return table, nil
}

// parseComparison keeps the known aspects of the reply, matched without
// regard to case, and fills missing aspects and cells with defaults.
func parseComparison(raw string) (types.ComparisonTable, error) {
	var got map[string]types.AspectAssessment
	if err := structured.ExtractJSON(raw, &got); err != nil {
		return nil, err
	}
	byKey := make(map[string]types.AspectAssessment, len(got))
	for k, v := range got {
		byKey[strings.ToLower(strings.TrimSpace(k))] = v
	}

	table := make(types.ComparisonTable, len(types.ComparisonAspects))
	found := 0
	for _, aspect := range types.ComparisonAspects {
		v, ok := byKey[strings.ToLower(aspect)]
		if ok {
			found++
		}
		table[aspect] = fillAssessment(v)
	}
	if found == 0 {
		return nil, &structured.ParseFailure{Reason: "no comparison aspects in reply", Raw: raw}
	}
	return table, nil
}

func fillAssessment(v types.AspectAssessment) types.AspectAssessment {
	if strings.TrimSpace(v.PaperA) == "" {
		v.PaperA = DefaultAssessment.PaperA
	}
	if strings.TrimSpace(v.PaperB) == "" {
		v.PaperB = DefaultAssessment.PaperB
	}
	if strings.TrimSpace(v.Proposed) == "" {
		v.Proposed = DefaultAssessment.Proposed
	}
	return v
}

// limitations joins the first four weaknesses for the prompt.
func limitations(ws []string) string {
	if len(ws) == 0 {
		return notSpecified
	}
	if len(ws) > maxLimitations {
		ws = ws[:maxLimitations]
	}
	return strings.Join(ws, "; ")
}

