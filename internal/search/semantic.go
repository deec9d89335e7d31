// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ideation-engine/internal/httputil"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

// semanticMaxLimit is the largest page the search endpoint accepts.
const semanticMaxLimit = 100

const semanticFields = "title,abstract,authors,externalIds,year,publicationDate,url,openAccessPdf,fieldsOfStudy,citationCount,influentialCitationCount,referenceCount"

// SemanticScholarBackend queries the Semantic Scholar search API. Its
// results already carry citation metrics.
type SemanticScholarBackend struct {
	Client *http.Client
	APIKey string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return string(types.SourceSemanticScholar) }

// Search queries Semantic Scholar and returns candidates in relevance order.
func (b *SemanticScholarBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.CandidatePaper, error) {
	q := strings.TrimSpace(query.Topic)
	if q == "" {
		return nil, fmt.Errorf("empty Semantic Scholar query")
	}

	limit := query.limit()
	if limit > semanticMaxLimit {
		limit = semanticMaxLimit
	}

	params := url.Values{
		"query":  {q},
		"limit":  {strconv.Itoa(limit)},
		"fields": {semanticFields},
	}
	if yearRange := buildYearRange(query.StartDate, query.EndDate); yearRange != "" {
		params.Set("year", yearRange)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, cfg.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("Semantic Scholar API", resp); err != nil {
		return nil, err
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	papers := make([]types.CandidatePaper, 0, len(sr.Data))
	for _, sp := range sr.Data {
		papers = append(papers, sp.candidate())
	}
	return papers, nil
}

// buildYearRange returns a Semantic Scholar year filter (e.g. "2020-2023")
// from YYYY-MM-DD bounds. The exact day window is applied after the fetch.
func buildYearRange(from, to string) string {
	fy, ty := yearOf(from), yearOf(to)
	switch {
	case fy != "" && ty != "":
		return fy + "-" + ty
	case fy != "":
		return fy + "-"
	case ty != "":
		return "-" + ty
	default:
		return ""
	}
}

func yearOf(date string) string {
	if len(date) < 4 {
		return ""
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return ""
	}
	return date[:4]
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID                  string              `json:"paperId"`
	Title                    string              `json:"title"`
	Abstract                 string              `json:"abstract"`
	Year                     int                 `json:"year"`
	PublicationDate          string              `json:"publicationDate"`
	URL                      string              `json:"url"`
	Authors                  []semanticAuthor    `json:"authors"`
	ExternalIDs              semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF            *semanticPDF        `json:"openAccessPdf"`
	FieldsOfStudy            []string            `json:"fieldsOfStudy"`
	CitationCount            *int                `json:"citationCount"`
	InfluentialCitationCount int                 `json:"influentialCitationCount"`
	ReferenceCount           int                 `json:"referenceCount"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI      string `json:"DOI"`
	ArXiv    string `json:"ArXiv"`
	CorpusID int    `json:"CorpusId"`
}

type semanticPDF struct {
	URL string `json:"url"`
}

// candidate converts a search hit. Identifiers prefer arXiv, then DOI,
// then the Semantic Scholar paper ID.
func (sp semanticPaper) candidate() types.CandidatePaper {
	p := types.CandidatePaper{
		Title:         collapse(sp.Title),
		Abstract:      collapse(sp.Abstract),
		URL:           sp.URL,
		Categories:    sp.FieldsOfStudy,
		Source:        string(types.SourceSemanticScholar),
		PublishedDate: sp.PublicationDate,
	}
	if p.PublishedDate == "" && sp.Year > 0 {
		p.PublishedDate = fmt.Sprintf("%04d-01-01", sp.Year)
	}
	for _, a := range sp.Authors {
		p.Authors = append(p.Authors, a.Name)
	}
	if sp.OpenAccessPDF != nil {
		p.PDFURL = sp.OpenAccessPDF.URL
	}

	switch {
	case sp.ExternalIDs.ArXiv != "":
		p.ID = arxivPrefix + sp.ExternalIDs.ArXiv
		p.LookupID = p.ID
		if p.PDFURL == "" {
			p.PDFURL = "https://arxiv.org/pdf/" + sp.ExternalIDs.ArXiv
		}
	case sp.ExternalIDs.DOI != "":
		p.ID = "DOI:" + sp.ExternalIDs.DOI
		p.LookupID = p.ID
	default:
		p.ID = sp.PaperID
		p.LookupID = sp.PaperID
	}
	if p.URL == "" && sp.PaperID != "" {
		p.URL = "https://www.semanticscholar.org/paper/" + sp.PaperID
	}

	if sp.CitationCount != nil {
		p.Metrics = &types.CitationMetrics{
			CitationCount:        *sp.CitationCount,
			InfluentialCitations: sp.InfluentialCitationCount,
			ReferenceCount:       sp.ReferenceCount,
			Year:                 sp.Year,
			FieldsOfStudy:        sp.FieldsOfStudy,
		}
	}
	return p
}
