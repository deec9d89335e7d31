// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sota

import (
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/metrics"
	"github.com/pdiddy/ideation-engine/internal/relevance"
	"github.com/pdiddy/ideation-engine/internal/search"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// New wires a Pipeline from configuration. llm may be nil, in which case
// relevance falls back to keyword overlap and explanations to a fixed
// sentence. cache may be nil.
func New(cfg types.Config, llm generate.Client, cache metrics.Cache, log logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		Fetcher:   search.NewFetcher(cfg.Search, nil, log),
		Ranker:    relevance.NewRanker(llm, log),
		Enricher:  metrics.NewEnricher(metrics.NewClient(cfg.Metrics, nil), cache, log),
		Explainer: relevance.NewExplainer(llm, log),
		Log:       log,
	}
}
