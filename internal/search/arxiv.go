// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ideation-engine/internal/httputil"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// arxivPrefix marks arXiv paper and lookup identifiers.
const arxivPrefix = "arXiv:"

// ArxivBackend queries the arXiv API.
type ArxivBackend struct {
	Client *http.Client
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return string(types.SourceArxiv) }

// Search queries arXiv by relevance and returns candidates in feed order.
func (b *ArxivBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.CandidatePaper, error) {
	q := buildArxivQuery(query.Topic)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(query.limit())},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, cfg.UserAgent)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("arXiv API", resp); err != nil {
		return nil, err
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	papers := make([]types.CandidatePaper, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if p, ok := entry.candidate(); ok {
			papers = append(papers, p)
		}
	}
	return papers, nil
}

// buildArxivQuery matches the topic as a phrase in all fields, the title
// or the abstract. Embedded double quotes are removed.
func buildArxivQuery(topic string) string {
	clean := strings.TrimSpace(strings.ReplaceAll(topic, `"`, ""))
	if clean == "" {
		return ""
	}
	return fmt.Sprintf(`all:"%s" OR ti:"%s" OR abs:"%s"`, clean, clean, clean)
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
	Links      []arxivLink     `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
}

// candidate converts a feed entry. Entries without a recognizable arXiv ID
// are skipped.
func (e arxivEntry) candidate() (types.CandidatePaper, bool) {
	idURL := strings.TrimSpace(e.ID)
	arxivID := extractArxivID(idURL)
	if arxivID == "" {
		return types.CandidatePaper{}, false
	}

	p := types.CandidatePaper{
		ID:       arxivPrefix + arxivID,
		LookupID: arxivPrefix + arxivID,
		Title:    collapse(e.Title),
		Abstract: collapse(e.Summary),
		URL:      idURL,
		Source:   string(types.SourceArxiv),
	}
	if p.Title == "" {
		p.Title = "Unknown"
	}
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	if pub := strings.TrimSpace(e.Published); len(pub) >= len(dateLayout) {
		p.PublishedDate = pub[:len(dateLayout)]
	} else {
		p.PublishedDate = pub
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" {
			p.PDFURL = l.Href
			break
		}
	}
	return p, true
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
