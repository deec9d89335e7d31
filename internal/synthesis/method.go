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
	defaultTitleA = "Paper A"
	defaultTitleB = "Paper B"

	// unnamedMethod replaces a blank method name in an otherwise valid reply.
	unnamedMethod = "Unified Adaptive Framework"
)

// DefaultMethod is returned when the synthesis reply cannot be parsed.
func DefaultMethod() types.ProposedMethod {
	return types.ProposedMethod{
		Name:     "Unified Adaptive Hybrid Framework",
		CoreIdea: "A method that combines the complementary strengths of both analyzed approaches while introducing novel components to address identified limitations.",
		Components: []string{
			"Adaptive Integration Module: Dynamically combines features from both paradigms",
			"Scalability Enhancement Layer: Addresses computational efficiency concerns",
			"Generalization Mechanism: Improves cross-domain applicability",
			"Theoretical Grounding: Provides formal convergence guarantees",
		},
		Rationale: "This framework addresses the identified weaknesses through its modular design that allows for flexible adaptation to different scenarios while maintaining theoretical soundness.",
	}
}

// MethodSynthesizer proposes a new method from a weakness partition.
type MethodSynthesizer struct {
	caller
}

// NewMethodSynthesizer returns a MethodSynthesizer that calls llm.
func NewMethodSynthesizer(llm generate.Client, log logrus.FieldLogger) *MethodSynthesizer {
	return &MethodSynthesizer{caller: newCaller(llm, log)}
}

// Synthesize proposes a method addressing the weaknesses in p. Blank
// titles are shown to the model as "Paper A" and "Paper B".
func (m *MethodSynthesizer) Synthesize(ctx context.Context, p types.WeaknessPartition, titleA, titleB string) (types.ProposedMethod, error) {
	if titleA == "" {
		titleA = defaultTitleA
	}
	if titleB == "" {
		titleB = defaultTitleB
	}

	raw, err := m.call(ctx, "synthesize", "", synthesizeSampling, synthesizeSystem, synthesizePrompt, struct {
		TitleA, TitleB       string
		Shared, OnlyA, OnlyB []string
	}{titleA, titleB, p.Shared, p.OnlyA, p.OnlyB})
	if err != nil {
		return types.ProposedMethod{}, err
	}

	var method types.ProposedMethod
	if err := structured.ExtractJSON(raw, &method, "method_name"); err != nil {
		m.fallback("synthesize", "", err)
		return DefaultMethod(), nil
	}
	method.Name = strings.TrimSpace(method.Name)
	if method.Name == "" {
		method.Name = unnamedMethod
	}
	method.Components = orEmpty(method.Components)
	return method, nil
}
