// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"context"
	"sync"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

type fakeClient struct {
	mu    sync.Mutex
	calls []generate.Request
	out   string
	err   error
}

func (f *fakeClient) Generate(_ context.Context, req generate.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	return f.out, f.err
}

func (f *fakeClient) prompt(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[i].Messages[len(f.calls[i].Messages)-1].Content
}

func candidates(titles ...string) []types.CandidatePaper {
	out := make([]types.CandidatePaper, len(titles))
	for i, t := range titles {
		out[i] = types.CandidatePaper{ID: t, Title: t}
	}
	return out
}

func relevanceOf(ps []types.CandidatePaper) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = *p.Relevance
	}
	return out
}
