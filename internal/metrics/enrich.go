// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

var tracer = otel.Tracer("github.com/pdiddy/ideation-engine/internal/metrics")

// Lookuper fetches metrics for one paper identifier.
type Lookuper interface {
	Lookup(ctx context.Context, id string) (*types.CitationMetrics, error)
}

// Cache stores lookup outcomes. A nil metrics value records a miss.
type Cache interface {
	Get(ctx context.Context, id string) (m *types.CitationMetrics, ok bool, err error)
	Put(ctx context.Context, id string, m *types.CitationMetrics) error
}

// Enricher attaches citation metrics to candidates.
type Enricher struct {
	lookup Lookuper
	cache  Cache
	log    logrus.FieldLogger
}

// NewEnricher returns an Enricher. cache may be nil.
func NewEnricher(lookup Lookuper, cache Cache, log logrus.FieldLogger) *Enricher {
	return &Enricher{lookup: lookup, cache: cache, log: logging.OrDiscard(log)}
}

// Enrich returns a copy of papers with Metrics set where the service knows
// the paper. Papers without a lookup ID or already carrying metrics are
// left alone. Not-found and failed lookups leave Metrics nil; only a
// cancelled context stops the batch, returning what was enriched so far.
func (e *Enricher) Enrich(ctx context.Context, papers []types.CandidatePaper) ([]types.CandidatePaper, error) {
	ctx, span := tracer.Start(ctx, "metrics.enrich")
	defer span.End()

	out := make([]types.CandidatePaper, len(papers))
	copy(out, papers)

	found, missing := 0, 0
	for i := range out {
		p := &out[i]
		if p.LookupID == "" || p.Metrics != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		m, err := e.get(ctx, p.LookupID)
		var nf *NotFoundError
		switch {
		case err == nil:
			p.Metrics = m
		case errors.As(err, &nf):
			e.log.WithField("paper", p.LookupID).Debug("no citation metrics")
		case ctx.Err() != nil:
			return out, ctx.Err()
		default:
			e.log.WithError(err).WithField("paper", p.LookupID).Warn("citation metrics lookup failed")
		}
		if p.Metrics != nil {
			found++
		} else {
			missing++
		}
	}

	span.SetAttributes(attribute.Int("found", found), attribute.Int("missing", missing))
	e.log.WithFields(logrus.Fields{"stage": "metrics", "found": found, "missing": missing}).Info("enriched candidates")
	return out, nil
}

// get consults the cache before the service. Cache errors are logged and
// otherwise ignored; only definite outcomes are cached.
func (e *Enricher) get(ctx context.Context, id string) (*types.CitationMetrics, error) {
	if e.cache != nil {
		m, ok, err := e.cache.Get(ctx, id)
		if err != nil {
			e.log.WithError(err).Warn("metrics cache read failed")
		}
		if ok {
			if m == nil {
				return nil, &NotFoundError{ID: id}
			}
			return m, nil
		}
	}

	m, err := e.lookup.Lookup(ctx, id)
	var nf *NotFoundError
	if err != nil && !errors.As(err, &nf) {
		return nil, err
	}
	if e.cache != nil {
		if perr := e.cache.Put(ctx, id, m); perr != nil {
			e.log.WithError(perr).Warn("metrics cache write failed")
		}
	}
	return m, err
}
