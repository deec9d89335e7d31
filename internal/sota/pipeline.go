// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sota identifies the top state-of-the-art papers for a research
// topic: candidates are fetched, scored for relevance, enriched with
// citation metrics, ranked by a composite score and explained.
package sota

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/internal/search"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

var tracer = otel.Tracer("github.com/pdiddy/ideation-engine/internal/sota")

// Fetcher returns candidate papers for a query.
type Fetcher interface {
	Fetch(ctx context.Context, query search.Query) ([]types.CandidatePaper, error)
}

// Ranker scores candidates for relevance and keeps the best limit.
type Ranker interface {
	Rank(ctx context.Context, topic string, candidates []types.CandidatePaper, limit int) []types.CandidatePaper
}

// Enricher attaches citation metrics.
type Enricher interface {
	Enrich(ctx context.Context, papers []types.CandidatePaper) ([]types.CandidatePaper, error)
}

// Explainer writes a one-sentence relevance explanation.
type Explainer interface {
	Explain(ctx context.Context, topic string, p types.CandidatePaper) string
}

// Pipeline runs SOTA identification. Enricher and Explainer may be nil.
type Pipeline struct {
	Fetcher   Fetcher
	Ranker    Ranker
	Enricher  Enricher
	Explainer Explainer
	Composite CompositeRanker
	Log       logrus.FieldLogger
}

// Run identifies the top req.TopK papers for req.Topic. The request is
// normalized first. A fetch that finds nothing yields an empty result.
func (p *Pipeline) Run(ctx context.Context, req Request) (*types.SOTAResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrDiscard(p.Log).WithField("topic", req.Topic)

	ctx, span := tracer.Start(ctx, "sota.run")
	defer span.End()
	span.SetAttributes(attribute.String("topic", req.Topic), attribute.Int("top_k", req.TopK))

	result := &types.SOTAResult{
		Topic:  req.Topic,
		TopK:   req.TopK,
		Papers: []types.RankedPaper{},
		SearchParams: types.SearchParams{
			MaxResults: req.MaxResults,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
		},
	}

	start := time.Now()
	candidates, err := p.fetch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}
	result.TotalFound = len(candidates)
	if len(candidates) == 0 {
		log.Warn("no candidate papers found")
		return result, nil
	}
	log.WithField("candidates", len(candidates)).Info("fetched candidates")

	pool := min(2*req.TopK, len(candidates))
	ranked := p.rank(ctx, req.Topic, candidates, pool)

	if req.includeMetrics() && p.Enricher != nil {
		if len(ranked) > pool {
			ranked = ranked[:pool]
		}
		ranked, err = p.enrich(ctx, ranked)
		if err != nil {
			return nil, fmt.Errorf("enriching candidates: %w", err)
		}
	}

	_, cspan := tracer.Start(ctx, "sota.composite")
	top := p.Composite.Rank(ranked, req.TopK)
	cspan.End()

	if p.Explainer != nil {
		ectx, espan := tracer.Start(ctx, "sota.explain")
		for i := range top {
			top[i].RelevanceReason = p.Explainer.Explain(ectx, req.Topic, top[i].CandidatePaper)
		}
		espan.End()
	}

	result.Papers = top
	log.WithFields(logrus.Fields{"returned": len(top), "elapsed_ms": time.Since(start).Milliseconds()}).Info("identified SOTA papers")
	return result, nil
}

func (p *Pipeline) fetch(ctx context.Context, req Request) ([]types.CandidatePaper, error) {
	ctx, span := tracer.Start(ctx, "sota.fetch")
	defer span.End()
	return p.Fetcher.Fetch(ctx, req.query())
}

func (p *Pipeline) rank(ctx context.Context, topic string, candidates []types.CandidatePaper, limit int) []types.CandidatePaper {
	ctx, span := tracer.Start(ctx, "sota.rank")
	defer span.End()
	return p.Ranker.Rank(ctx, topic, candidates, limit)
}

func (p *Pipeline) enrich(ctx context.Context, papers []types.CandidatePaper) ([]types.CandidatePaper, error) {
	ctx, span := tracer.Start(ctx, "sota.enrich")
	defer span.End()
	return p.Enricher.Enrich(ctx, papers)
}
