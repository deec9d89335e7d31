// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sota

import (
	"errors"
	"strings"

	"github.com/pdiddy/ideation-engine/internal/search"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Request limits.
const (
	DefaultTopK       = 2
	MaxTopK           = 10
	DefaultMaxResults = 20
	MaxMaxResults     = 50

	QuickMaxTopK    = 5
	QuickMaxResults = 15
)

// ErrEmptyTopic is returned for a request without a topic.
var ErrEmptyTopic = errors.New("topic is required")

// Request describes one SOTA identification run.
type Request struct {
	Topic      string `json:"topic"`
	TopK       int    `json:"top_k"`
	MaxResults int    `json:"max_results"`
	StartDate  string `json:"start_date,omitempty"`
	EndDate    string `json:"end_date,omitempty"`

	// IncludeMetrics enables citation enrichment. Nil means true.
	IncludeMetrics *bool `json:"include_metrics,omitempty"`
}

// WithDefaults fills unset fields from cfg and then the package defaults.
func (r Request) WithDefaults(cfg types.SOTAConfig) Request {
	if r.TopK <= 0 {
		r.TopK = cfg.TopK
	}
	if r.MaxResults <= 0 {
		r.MaxResults = cfg.MaxResults
	}
	if r.IncludeMetrics == nil {
		include := cfg.IncludeMetrics
		r.IncludeMetrics = &include
	}
	return r
}

// Normalize trims the topic, applies defaults and caps the limits.
func (r Request) Normalize() Request {
	r.Topic = strings.TrimSpace(r.Topic)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	if r.TopK <= 0 {
		r.TopK = DefaultTopK
	}
	r.TopK = min(r.TopK, MaxTopK)
	if r.MaxResults <= 0 {
		r.MaxResults = DefaultMaxResults
	}
	r.MaxResults = min(r.MaxResults, MaxMaxResults)
	if r.IncludeMetrics == nil {
		include := true
		r.IncludeMetrics = &include
	}
	return r
}

// Quick applies the reduced limits of a quick lookup.
func (r Request) Quick() Request {
	r = r.Normalize()
	r.TopK = min(r.TopK, QuickMaxTopK)
	r.MaxResults = QuickMaxResults
	return r
}

// Validate reports a missing topic or a malformed date bound.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	return r.query().Validate()
}

func (r Request) includeMetrics() bool {
	return r.IncludeMetrics == nil || *r.IncludeMetrics
}

func (r Request) query() search.Query {
	return search.Query{
		Topic:      r.Topic,
		MaxResults: r.MaxResults,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
	}
}
