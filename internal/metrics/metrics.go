// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics enriches candidate papers with citation statistics from
// the Semantic Scholar Graph API.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/ideation-engine/internal/httputil"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// graphAPIBase is the Semantic Scholar Graph API root. Declared as a var
// so tests can substitute an httptest server.
var graphAPIBase = "https://api.semanticscholar.org/graph/v1"

const lookupFields = "title,abstract,year,citationCount,influentialCitationCount,referenceCount,fieldsOfStudy,publicationTypes,authors"

// DefaultRequestDelay spaces consecutive lookups.
const DefaultRequestDelay = 500 * time.Millisecond

const defaultTimeout = 10 * time.Second

// NotFoundError reports that the metrics service has no record of a paper.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("paper %s not found", e.ID)
}

// Client looks up one paper at a time. Calls are paced by a limiter that
// admits one request per request delay.
type Client struct {
	HTTP       *http.Client
	APIKey     string
	UserAgent  string
	MaxRetries int

	limiter *rate.Limiter
}

// NewClient builds a Client from cfg. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg types.MetricsConfig, httpClient *http.Client) *Client {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = DefaultRequestDelay
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		HTTP:       httpClient,
		APIKey:     cfg.APIKey,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		limiter:    rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Lookup fetches metrics for id ("arXiv:2301.07041", "DOI:10.1145/...",
// or a Semantic Scholar paper ID). A 404 yields *NotFoundError.
func (c *Client) Lookup(ctx context.Context, id string) (*types.CitationMetrics, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	reqURL := graphAPIBase + "/paper/" + id + "?" + url.Values{"fields": {lookupFields}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, c.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, &NotFoundError{ID: id}
	}
	if err := httputil.CheckStatus("Semantic Scholar API", resp); err != nil {
		return nil, err
	}

	var p graphPaper
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}
	return &types.CitationMetrics{
		CitationCount:        p.CitationCount,
		InfluentialCitations: p.InfluentialCitationCount,
		ReferenceCount:       p.ReferenceCount,
		Year:                 p.Year,
		FieldsOfStudy:        p.FieldsOfStudy,
	}, nil
}

type graphPaper struct {
	PaperID                  string   `json:"paperId"`
	Year                     int      `json:"year"`
	CitationCount            int      `json:"citationCount"`
	InfluentialCitationCount int      `json:"influentialCitationCount"`
	ReferenceCount           int      `json:"referenceCount"`
	FieldsOfStudy            []string `json:"fieldsOfStudy"`
}
