// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// TextExtractor returns the plain text of a file, or "" when it cannot.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) string
}

// Pipeline runs the six synthesis stages over two papers. It holds no
// per-run state and is safe for concurrent use.
type Pipeline struct {
	structurer  *Structurer
	miner       *Miner
	normalizer  *Normalizer
	fusion      *Fusion
	synthesizer *MethodSynthesizer
	comparator  *Comparator
	log         logrus.FieldLogger
}

// NewPipeline wires every stage to llm. A nil log discards output.
func NewPipeline(llm generate.Client, log logrus.FieldLogger) *Pipeline {
	log = logging.OrDiscard(log)
	return &Pipeline{
		structurer:  NewStructurer(llm, log),
		miner:       NewMiner(llm, log),
		normalizer:  NewNormalizer(llm, log),
		fusion:      NewFusion(llm, log),
		synthesizer: NewMethodSynthesizer(llm, log),
		comparator:  NewComparator(llm, log),
		log:         log,
	}
}

// RunFiles extracts the text of both files and runs the pipeline. The
// documents are labelled "A" and "B".
func (p *Pipeline) RunFiles(ctx context.Context, ext TextExtractor, pathA, pathB string) (*types.SynthesisResult, error) {
	a := types.SourceDocument{ID: "A", Text: ext.ExtractText(ctx, pathA)}
	b := types.SourceDocument{ID: "B", Text: ext.ExtractText(ctx, pathB)}
	return p.Run(ctx, a, b)
}

// Run processes a then b through structure, mine and normalize, then
// fuses, synthesizes and compares. Any generation error aborts the run and
// no partial result is returned.
func (p *Pipeline) Run(ctx context.Context, a, b types.SourceDocument) (*types.SynthesisResult, error) {
	ctx, span := tracer.Start(ctx, "synthesis.run")
	defer span.End()
	start := time.Now()

	parsedA, err := p.structurer.Parse(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("parsing paper %s: %w", a.ID, err)
	}
	parsedB, err := p.structurer.Parse(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("parsing paper %s: %w", b.ID, err)
	}
	p.log.WithField("stage", "structure").Info("papers parsed")

	rawA, err := p.miner.Mine(ctx, parsedA)
	if err != nil {
		return nil, fmt.Errorf("mining weaknesses of paper %s: %w", a.ID, err)
	}
	rawB, err := p.miner.Mine(ctx, parsedB)
	if err != nil {
		return nil, fmt.Errorf("mining weaknesses of paper %s: %w", b.ID, err)
	}

	weakA, err := p.normalizer.Normalize(ctx, a.ID, rawA)
	if err != nil {
		return nil, fmt.Errorf("normalizing weaknesses of paper %s: %w", a.ID, err)
	}
	weakB, err := p.normalizer.Normalize(ctx, b.ID, rawB)
	if err != nil {
		return nil, fmt.Errorf("normalizing weaknesses of paper %s: %w", b.ID, err)
	}
	p.log.WithFields(logrus.Fields{"stage": "normalize", "a": len(weakA), "b": len(weakB)}).Info("weaknesses normalized")

	partition, err := p.fusion.Fuse(ctx, weakA, weakB)
	if err != nil {
		return nil, fmt.Errorf("fusing weaknesses: %w", err)
	}

	method, err := p.synthesizer.Synthesize(ctx, partition, parsedA.TitleOr(defaultTitleA), parsedB.TitleOr(defaultTitleB))
	if err != nil {
		return nil, fmt.Errorf("synthesizing method: %w", err)
	}
	p.log.WithFields(logrus.Fields{"stage": "synthesize", "method": method.Name}).Info("method proposed")

	table, err := p.comparator.Compare(ctx, parsedA, parsedB, weakA, weakB, method)
	if err != nil {
		return nil, fmt.Errorf("comparing methods: %w", err)
	}

	span.SetAttributes(attribute.Int("weaknesses.a", len(weakA)), attribute.Int("weaknesses.b", len(weakB)))
	p.log.WithField("elapsed_ms", time.Since(start).Milliseconds()).Info("synthesis complete")

	return &types.SynthesisResult{
		PaperA:           parsedA,
		PaperB:           parsedB,
		WeaknessesA:      weakA,
		WeaknessesB:      weakB,
		WeaknessAnalysis: partition,
		ProposedMethod:   method,
		ComparisonTable:  table,
	}, nil
}
