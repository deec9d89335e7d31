// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search fetches candidate papers for a research topic from one or
// more bibliographic APIs and returns a unified, deduplicated candidate list.
package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// dateLayout is the layout of published dates and date window bounds.
const dateLayout = "2006-01-02"

// defaultMaxResults applies when a query does not set MaxResults.
const defaultMaxResults = 20

// Backend searches a single bibliographic API. Each backend (arXiv,
// Semantic Scholar, OpenAlex) implements this interface.
type Backend interface {
	Name() string
	Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.CandidatePaper, error)
}

// Query holds the fetch parameters for one topic.
type Query struct {
	// Topic is the free-text research topic.
	Topic string

	// MaxResults bounds the number of candidates requested per backend
	// and returned overall.
	MaxResults int

	// StartDate and EndDate are optional inclusive YYYY-MM-DD bounds on
	// the published date.
	StartDate string
	EndDate   string
}

// IsEmpty reports whether the query has no searchable text.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Topic) == ""
}

// Validate checks the date bounds.
func (q Query) Validate() error {
	for _, d := range []string{q.StartDate, q.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("invalid date %q: want YYYY-MM-DD", d)
		}
	}
	return nil
}

func (q Query) limit() int {
	if q.MaxResults <= 0 {
		return defaultMaxResults
	}
	return q.MaxResults
}

// Fetcher fans a query out to its backends and merges the results.
type Fetcher struct {
	Backends []Backend
	Config   types.SearchConfig
	Log      logrus.FieldLogger
}

// NewFetcher builds a Fetcher with one backend per enabled source.
func NewFetcher(cfg types.SearchConfig, client *http.Client, log logrus.FieldLogger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	var backends []Backend
	if cfg.Enabled(types.SourceArxiv) {
		backends = append(backends, &ArxivBackend{Client: client})
	}
	if cfg.Enabled(types.SourceSemanticScholar) {
		backends = append(backends, &SemanticScholarBackend{Client: client, APIKey: cfg.SemanticScholarAPIKey})
	}
	if cfg.Enabled(types.SourceOpenAlex) {
		backends = append(backends, &OpenAlexBackend{Client: client, Email: cfg.OpenAlexEmail})
	}
	return &Fetcher{Backends: backends, Config: cfg, Log: logging.OrDiscard(log)}
}

// Fetch queries all backends concurrently, deduplicates the union, applies
// the date window and truncates to the query limit. Results keep backend
// order, then each backend's relevance order. A failing backend is logged
// and skipped; Fetch fails only when every backend fails.
func (f *Fetcher) Fetch(ctx context.Context, query Query) ([]types.CandidatePaper, error) {
	if query.IsEmpty() {
		return nil, fmt.Errorf("query is empty: provide a research topic")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if len(f.Backends) == 0 {
		return nil, fmt.Errorf("no search backends configured")
	}
	log := logging.OrDiscard(f.Log)

	type backendResult struct {
		papers []types.CandidatePaper
		err    error
	}

	results := make([]backendResult, len(f.Backends))
	var wg sync.WaitGroup

	for i, b := range f.Backends {
		if i > 0 && f.Config.InterBackendDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.Config.InterBackendDelay):
			}
		}
		wg.Add(1)
		go func(i int, b Backend) {
			defer wg.Done()
			papers, err := b.Search(ctx, query, f.Config)
			results[i] = backendResult{papers: papers, err: err}
		}(i, b)
	}
	wg.Wait()

	var all []types.CandidatePaper
	var errs []error
	for i, br := range results {
		name := f.Backends[i].Name()
		if br.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, br.err))
			log.WithError(br.err).WithField("backend", name).Warn("search backend failed")
			continue
		}
		log.WithFields(logrus.Fields{"backend": name, "count": len(br.papers)}).Debug("search backend returned")
		all = append(all, br.papers...)
	}
	if len(errs) == len(f.Backends) {
		return nil, fmt.Errorf("all search backends failed: %w", errors.Join(errs...))
	}

	deduped, removed := deduplicate(all)
	filtered := filterByDate(deduped, query.StartDate, query.EndDate)
	if limit := query.limit(); len(filtered) > limit {
		filtered = filtered[:limit]
	}

	log.WithFields(logrus.Fields{
		"topic":      query.Topic,
		"candidates": len(filtered),
		"duplicates": removed,
		"filtered":   len(deduped) - len(filtered),
	}).Info("fetched candidates")
	return filtered, nil
}

// filterByDate keeps candidates whose published date lies within
// [start, end]. Without bounds it returns papers unchanged. With bounds,
// a candidate with no date is dropped and one whose date does not parse
// is kept.
func filterByDate(papers []types.CandidatePaper, start, end string) []types.CandidatePaper {
	if start == "" && end == "" {
		return papers
	}
	from, fromErr := time.Parse(dateLayout, start)
	to, toErr := time.Parse(dateLayout, end)

	out := make([]types.CandidatePaper, 0, len(papers))
	for _, p := range papers {
		if p.PublishedDate == "" {
			continue
		}
		pub, err := time.Parse(dateLayout, p.PublishedDate)
		if err != nil {
			out = append(out, p)
			continue
		}
		if start != "" && fromErr == nil && pub.Before(from) {
			continue
		}
		if end != "" && toErr == nil && pub.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// deduplicate merges candidates that share a lookup identifier or a
// normalized title. The first occurrence wins.
func deduplicate(papers []types.CandidatePaper) ([]types.CandidatePaper, int) {
	seen := make(map[string]int) // dedup key → index in deduped
	var deduped []types.CandidatePaper
	removed := 0

	for _, p := range papers {
		key := dedupKey(p)
		if idx, ok := seen[key]; ok && key != "" {
			mergeInto(&deduped[idx], p)
			removed++
			continue
		}

		titleKey := "title:" + normalizeTitle(p.Title)
		if titleKey != "title:" {
			if idx, ok := seen[titleKey]; ok {
				mergeInto(&deduped[idx], p)
				removed++
				continue
			}
		}

		idx := len(deduped)
		deduped = append(deduped, p)
		if key != "" {
			seen[key] = idx
		}
		if titleKey != "title:" {
			seen[titleKey] = idx
		}
	}
	return deduped, removed
}

// dedupKey prefers the lookup identifier, which is shared across sources
// (arXiv ID or DOI), over the source-specific paper ID.
func dedupKey(p types.CandidatePaper) string {
	switch {
	case p.LookupID != "":
		return "id:" + strings.ToLower(p.LookupID)
	case p.ID != "":
		return "id:" + strings.ToLower(p.ID)
	}
	return ""
}

// mergeInto fills empty fields of dst from src.
func mergeInto(dst *types.CandidatePaper, src types.CandidatePaper) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if len(dst.Authors) == 0 && len(src.Authors) > 0 {
		dst.Authors = src.Authors
	}
	if dst.Abstract == "" && src.Abstract != "" {
		dst.Abstract = src.Abstract
	}
	if dst.PublishedDate == "" && src.PublishedDate != "" {
		dst.PublishedDate = src.PublishedDate
	}
	if len(dst.Categories) == 0 && len(src.Categories) > 0 {
		dst.Categories = src.Categories
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.PDFURL == "" && src.PDFURL != "" {
		dst.PDFURL = src.PDFURL
	}
	if dst.Metrics == nil && src.Metrics != nil {
		dst.Metrics = src.Metrics
	}
	// arXiv identifiers resolve reliably for metrics lookup.
	if isArxivLookup(src.LookupID) && !isArxivLookup(dst.LookupID) {
		dst.LookupID = src.LookupID
	}
	if src.Source != "" && dst.Source != src.Source && !strings.Contains(dst.Source, src.Source) {
		dst.Source = dst.Source + "," + src.Source
	}
}

func isArxivLookup(id string) bool {
	return strings.HasPrefix(id, arxivPrefix)
}

// normalizeTitle returns a lowercased, punctuation-stripped version of the title.
func normalizeTitle(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// collapse joins the whitespace-separated fields of s with single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
