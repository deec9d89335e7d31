// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sota

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/metrics"
	"github.com/pdiddy/ideation-engine/internal/relevance"
	"github.com/pdiddy/ideation-engine/internal/search"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

type stubFetcher struct {
	papers []types.CandidatePaper
	err    error
	query  search.Query
}

func (f *stubFetcher) Fetch(_ context.Context, q search.Query) ([]types.CandidatePaper, error) {
	f.query = q
	return f.papers, f.err
}

type stubRanker struct {
	limit int
}

func (r *stubRanker) Rank(_ context.Context, _ string, c []types.CandidatePaper, limit int) []types.CandidatePaper {
	r.limit = limit
	out := make([]types.CandidatePaper, 0, limit)
	for i := 0; i < limit && i < len(c); i++ {
		p := c[i]
		p.Relevance = ptr(1 - float64(i)*0.1)
		out = append(out, p)
	}
	return out
}

type stubEnricher struct {
	seen int
	err  error
}

func (e *stubEnricher) Enrich(_ context.Context, papers []types.CandidatePaper) ([]types.CandidatePaper, error) {
	e.seen = len(papers)
	return papers, e.err
}

type stubExplainer struct{}

func (stubExplainer) Explain(_ context.Context, topic string, p types.CandidatePaper) string {
	return "explains " + p.ID + " for " + topic
}

func makeCandidates(n int) []types.CandidatePaper {
	out := make([]types.CandidatePaper, n)
	for i := range out {
		id := fmt.Sprintf("arXiv:2401.%05d", i)
		out[i] = types.CandidatePaper{ID: id, LookupID: id, Title: fmt.Sprintf("Paper %d", i), PublishedDate: daysAgo(30)}
	}
	return out
}

func TestPipelineRun(t *testing.T) {
	fetcher := &stubFetcher{papers: makeCandidates(12)}
	ranker := &stubRanker{}
	enricher := &stubEnricher{}
	p := &Pipeline{
		Fetcher:   fetcher,
		Ranker:    ranker,
		Enricher:  enricher,
		Explainer: stubExplainer{},
		Composite: CompositeRanker{Now: func() time.Time { return refNow }},
	}

	res, err := p.Run(context.Background(), Request{Topic: " diffusion ", TopK: 3, MaxResults: 12, StartDate: "2024-01-01"})
	require.NoError(t, err)

	assert.Equal(t, "diffusion", res.Topic)
	assert.Equal(t, 12, res.TotalFound)
	assert.Equal(t, 3, res.TopK)
	assert.Equal(t, types.SearchParams{MaxResults: 12, StartDate: "2024-01-01"}, res.SearchParams)
	assert.Equal(t, search.Query{Topic: "diffusion", MaxResults: 12, StartDate: "2024-01-01"}, fetcher.query)
	assert.Equal(t, 6, ranker.limit, "ranks twice top_k")
	assert.Equal(t, 6, enricher.seen)

	require.Len(t, res.Papers, 3)
	for i, paper := range res.Papers {
		assert.Equal(t, i+1, paper.Rank)
		assert.Equal(t, "explains "+paper.ID+" for diffusion", paper.RelevanceReason)
	}
	assert.Equal(t, "arXiv:2401.00000", res.Papers[0].ID)
}

func TestPipelineSmallCandidatePool(t *testing.T) {
	ranker := &stubRanker{}
	p := &Pipeline{Fetcher: &stubFetcher{papers: makeCandidates(3)}, Ranker: ranker}

	res, err := p.Run(context.Background(), Request{Topic: "x", TopK: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, ranker.limit)
	assert.Len(t, res.Papers, 3)
	assert.Empty(t, res.Papers[0].RelevanceReason, "no explainer configured")
}

func TestPipelineNoCandidates(t *testing.T) {
	ranker := &stubRanker{}
	p := &Pipeline{Fetcher: &stubFetcher{}, Ranker: ranker}

	res, err := p.Run(context.Background(), Request{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalFound)
	assert.NotNil(t, res.Papers)
	assert.Empty(t, res.Papers)
	assert.Zero(t, ranker.limit, "ranker not called")
}

func TestPipelineSkipsMetrics(t *testing.T) {
	enricher := &stubEnricher{}
	p := &Pipeline{Fetcher: &stubFetcher{papers: makeCandidates(4)}, Ranker: &stubRanker{}, Enricher: enricher}

	_, err := p.Run(context.Background(), Request{Topic: "x", IncludeMetrics: boolPtr(false)})
	require.NoError(t, err)
	assert.Zero(t, enricher.seen)
}

func TestPipelineErrors(t *testing.T) {
	_, err := (&Pipeline{}).Run(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyTopic)

	p := &Pipeline{Fetcher: &stubFetcher{err: errors.New("arXiv down")}, Ranker: &stubRanker{}}
	_, err = p.Run(context.Background(), Request{Topic: "x"})
	assert.ErrorContains(t, err, "arXiv down")

	p = &Pipeline{Fetcher: &stubFetcher{papers: makeCandidates(2)}, Ranker: &stubRanker{}, Enricher: &stubEnricher{err: context.Canceled}}
	_, err = p.Run(context.Background(), Request{Topic: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- end to end over the real stages ---

type topicBackend struct{ papers []types.CandidatePaper }

func (b topicBackend) Name() string { return "fixture" }

func (b topicBackend) Search(_ context.Context, q search.Query, _ types.SearchConfig) ([]types.CandidatePaper, error) {
	if len(b.papers) > q.MaxResults {
		return b.papers[:q.MaxResults], nil
	}
	return b.papers, nil
}

type scoreLLM struct{}

func (scoreLLM) Generate(_ context.Context, req generate.Request) (string, error) {
	if req.MaxOutputTokens == 200 {
		return "[0.3, 0.95, 0.4, 0.9, 0.2, 0.1, 0.6, 0.5, 0.35, 0.7, 0.15, 0.25, 0.45, 0.55, 0.65]", nil
	}
	return "It studies graph generative models for molecules.", nil
}

type citationLookup struct{}

func (citationLookup) Lookup(_ context.Context, id string) (*types.CitationMetrics, error) {
	if id == "arXiv:2401.00003" {
		return &types.CitationMetrics{CitationCount: 800}, nil
	}
	return nil, &metrics.NotFoundError{ID: id}
}

func TestPipelineEndToEnd(t *testing.T) {
	fixtures := makeCandidates(30)
	fixtures[1].Title = "Graph Neural Networks for Molecule Generation"

	p := &Pipeline{
		Fetcher:   &search.Fetcher{Backends: []search.Backend{topicBackend{papers: fixtures}}},
		Ranker:    relevance.NewRanker(scoreLLM{}, nil),
		Enricher:  metrics.NewEnricher(citationLookup{}, nil, nil),
		Explainer: relevance.NewExplainer(scoreLLM{}, nil),
		Composite: CompositeRanker{Now: func() time.Time { return refNow }},
	}

	res, err := p.Run(context.Background(), Request{Topic: "graph neural networks for molecule generation", TopK: 2, MaxResults: 20})
	require.NoError(t, err)

	assert.LessOrEqual(t, res.TotalFound, 20)
	require.Len(t, res.Papers, 2)
	assert.GreaterOrEqual(t, res.Papers[0].FinalScore, res.Papers[1].FinalScore)
	for _, paper := range res.Papers {
		assert.NotEmpty(t, paper.Title)
		assert.NotEmpty(t, paper.ID)
		assert.Equal(t, "It studies graph generative models for molecules.", paper.RelevanceReason)
	}
	// arXiv:2401.00003 (0.9 relevance, 800 citations) outranks arXiv:2401.00001 (0.95, no metrics).
	assert.Equal(t, "arXiv:2401.00003", res.Papers[0].ID)
	assert.Equal(t, 800, res.Papers[0].Scores.CitationCount)
	assert.Equal(t, "arXiv:2401.00001", res.Papers[1].ID)
}
