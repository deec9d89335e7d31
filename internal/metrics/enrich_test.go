// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

type fakeLookup struct {
	results map[string]*types.CitationMetrics
	errs    map[string]error
	calls   []string
}

func (f *fakeLookup) Lookup(_ context.Context, id string) (*types.CitationMetrics, error) {
	f.calls = append(f.calls, id)
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	if m, ok := f.results[id]; ok {
		return m, nil
	}
	return nil, &NotFoundError{ID: id}
}

type memCache struct {
	entries map[string]*types.CitationMetrics
}

func (c *memCache) Get(_ context.Context, id string) (*types.CitationMetrics, bool, error) {
	m, ok := c.entries[id]
	return m, ok, nil
}

func (c *memCache) Put(_ context.Context, id string, m *types.CitationMetrics) error {
	c.entries[id] = m
	return nil
}

func TestEnrich(t *testing.T) {
	preset := &types.CitationMetrics{CitationCount: 7}
	lookup := &fakeLookup{
		results: map[string]*types.CitationMetrics{"arXiv:1": {CitationCount: 120}},
		errs:    map[string]error{"arXiv:3": errors.New("connection reset")},
	}
	papers := []types.CandidatePaper{
		{ID: "arXiv:1", LookupID: "arXiv:1"},
		{ID: "arXiv:2", LookupID: "arXiv:2"},
		{ID: "arXiv:3", LookupID: "arXiv:3"},
		{ID: "W1"},
		{ID: "arXiv:4", LookupID: "arXiv:4", Metrics: preset},
	}

	out, err := NewEnricher(lookup, nil, nil).Enrich(context.Background(), papers)
	require.NoError(t, err)
	require.Len(t, out, 5)

	assert.Equal(t, 120, out[0].Metrics.CitationCount)
	assert.Nil(t, out[1].Metrics, "not found leaves metrics absent")
	assert.Nil(t, out[2].Metrics, "failed lookup leaves metrics absent")
	assert.Nil(t, out[3].Metrics, "no lookup ID")
	assert.Same(t, preset, out[4].Metrics)
	assert.Equal(t, []string{"arXiv:1", "arXiv:2", "arXiv:3"}, lookup.calls)
	assert.Nil(t, papers[0].Metrics, "input not modified")
}

func TestEnrichUsesCache(t *testing.T) {
	cache := &memCache{entries: map[string]*types.CitationMetrics{
		"arXiv:1": {CitationCount: 9},
		"arXiv:2": nil,
	}}
	lookup := &fakeLookup{
		results: map[string]*types.CitationMetrics{"arXiv:3": {CitationCount: 3}},
		errs:    map[string]error{"arXiv:5": errors.New("timeout")},
	}
	papers := []types.CandidatePaper{
		{LookupID: "arXiv:1"},
		{LookupID: "arXiv:2"},
		{LookupID: "arXiv:3"},
		{LookupID: "arXiv:4"},
		{LookupID: "arXiv:5"},
	}

	out, err := NewEnricher(lookup, cache, nil).Enrich(context.Background(), papers)
	require.NoError(t, err)

	assert.Equal(t, 9, out[0].Metrics.CitationCount)
	assert.Nil(t, out[1].Metrics)
	assert.Equal(t, 3, out[2].Metrics.CitationCount)
	assert.Nil(t, out[3].Metrics)
	assert.Equal(t, []string{"arXiv:3", "arXiv:4", "arXiv:5"}, lookup.calls)

	assert.Equal(t, 3, cache.entries["arXiv:3"].CitationCount)
	miss, ok := cache.entries["arXiv:4"]
	assert.True(t, ok, "misses are cached")
	assert.Nil(t, miss)
	_, ok = cache.entries["arXiv:5"]
	assert.False(t, ok, "transient failures are not cached")
}

func TestEnrichCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lookup := &fakeLookup{}

	out, err := NewEnricher(lookup, nil, nil).Enrich(ctx, []types.CandidatePaper{{LookupID: "arXiv:1"}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, out, 1)
	assert.Empty(t, lookup.calls)
}
