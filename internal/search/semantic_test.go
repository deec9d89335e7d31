// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleSemanticJSON = `{
  "total": 3,
  "offset": 0,
  "data": [
    {
      "paperId": "abc123",
      "title": "Attention Is\nAll You Need",
      "abstract": "The dominant sequence transduction models...",
      "year": 2017,
      "publicationDate": "2017-06-12",
      "url": "https://www.semanticscholar.org/paper/abc123",
      "authors": [{"authorId": "1", "name": "Ashish Vaswani"}, {"authorId": "2", "name": "Noam Shazeer"}],
      "externalIds": {"ArXiv": "1706.03762", "DOI": "10.5555/3295222.3295349"},
      "fieldsOfStudy": ["Computer Science"],
      "citationCount": 90000,
      "influentialCitationCount": 12000,
      "referenceCount": 40
    },
    {
      "paperId": "def456",
      "title": "A DOI Only Paper",
      "year": 2021,
      "authors": [],
      "externalIds": {"DOI": "10.1000/xyz"},
      "openAccessPdf": {"url": "https://example.org/paper.pdf"}
    },
    {
      "paperId": "ghi789",
      "title": "No External IDs",
      "authors": [{"name": "Someone"}],
      "externalIds": {}
    }
  ]
}`

func useSemantic(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	old := semanticAPIBase
	semanticAPIBase = ts.URL
	t.Cleanup(func() { semanticAPIBase = old })
	return ts
}

func TestSemanticSearchCandidates(t *testing.T) {
	ts := useSemantic(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sampleSemanticJSON)
	})

	b := &SemanticScholarBackend{Client: ts.Client()}
	papers, err := b.Search(context.Background(), Query{Topic: "attention"}, testCfg())
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(papers) != 3 {
		t.Fatalf("len(papers) = %d, want 3", len(papers))
	}

	p0 := papers[0]
	if p0.ID != "arXiv:1706.03762" || p0.LookupID != "arXiv:1706.03762" {
		t.Errorf("ID/LookupID = %q/%q, want arXiv preferred", p0.ID, p0.LookupID)
	}
	if p0.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q, want newline collapsed", p0.Title)
	}
	if p0.PDFURL != "https://arxiv.org/pdf/1706.03762" {
		t.Errorf("PDFURL = %q, want arXiv PDF", p0.PDFURL)
	}
	if p0.Source != "semantic_scholar" {
		t.Errorf("Source = %q", p0.Source)
	}
	if p0.Metrics == nil {
		t.Fatal("Metrics = nil, want populated from search fields")
	}
	if p0.Metrics.CitationCount != 90000 || p0.Metrics.InfluentialCitations != 12000 || p0.Metrics.ReferenceCount != 40 {
		t.Errorf("Metrics = %+v", *p0.Metrics)
	}

	p1 := papers[1]
	if p1.ID != "DOI:10.1000/xyz" {
		t.Errorf("ID = %q, want DOI", p1.ID)
	}
	if p1.PublishedDate != "2021-01-01" {
		t.Errorf("PublishedDate = %q, want year fallback", p1.PublishedDate)
	}
	if p1.PDFURL != "https://example.org/paper.pdf" {
		t.Errorf("PDFURL = %q", p1.PDFURL)
	}
	if p1.Metrics != nil {
		t.Errorf("Metrics = %+v, want nil when citationCount absent", p1.Metrics)
	}
	if p1.URL != "https://www.semanticscholar.org/paper/def456" {
		t.Errorf("URL = %q, want derived landing page", p1.URL)
	}

	p2 := papers[2]
	if p2.ID != "ghi789" || p2.LookupID != "ghi789" {
		t.Errorf("ID/LookupID = %q/%q, want S2 paper ID", p2.ID, p2.LookupID)
	}
	if p2.PublishedDate != "" {
		t.Errorf("PublishedDate = %q, want empty", p2.PublishedDate)
	}
}

func TestSemanticSearchRequestParams(t *testing.T) {
	var captured *http.Request
	ts := useSemantic(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"total":0,"offset":0,"data":[]}`)
	})

	b := &SemanticScholarBackend{Client: ts.Client(), APIKey: "s2-key"}
	q := Query{Topic: "graph neural networks", MaxResults: 15, StartDate: "2020-03-01", EndDate: "2023-12-31"}
	if _, err := b.Search(context.Background(), q, testCfg()); err != nil {
		t.Fatalf("Search: %v", err)
	}

	params := captured.URL.Query()
	if got := params.Get("query"); got != "graph neural networks" {
		t.Errorf("query = %q", got)
	}
	if got := params.Get("limit"); got != "15" {
		t.Errorf("limit = %q, want 15", got)
	}
	if got := params.Get("year"); got != "2020-2023" {
		t.Errorf("year = %q, want 2020-2023", got)
	}
	if !strings.Contains(params.Get("fields"), "citationCount") {
		t.Errorf("fields = %q, want citation fields", params.Get("fields"))
	}
	if got := captured.Header.Get("x-api-key"); got != "s2-key" {
		t.Errorf("x-api-key = %q", got)
	}
}

func TestSemanticSearchNoAPIKeyHeader(t *testing.T) {
	var captured *http.Request
	ts := useSemantic(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		fmt.Fprint(w, `{"data":[]}`)
	})

	b := &SemanticScholarBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), Query{Topic: "x", MaxResults: 500}, testCfg()); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if captured.Header.Get("x-api-key") != "" {
		t.Error("x-api-key should not be sent without a key")
	}
	if got := captured.URL.Query().Get("limit"); got != "100" {
		t.Errorf("limit = %q, want capped at 100", got)
	}
}

func TestSemanticSearchHTTPErrors(t *testing.T) {
	for _, code := range []int{http.StatusBadRequest, http.StatusTooManyRequests, http.StatusInternalServerError} {
		t.Run(fmt.Sprint(code), func(t *testing.T) {
			ts := useSemantic(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			})
			b := &SemanticScholarBackend{Client: ts.Client()}
			_, err := b.Search(context.Background(), Query{Topic: "x"}, testCfg())
			if err == nil {
				t.Fatalf("expected error for HTTP %d", code)
			}
			if !strings.Contains(err.Error(), fmt.Sprint(code)) {
				t.Errorf("error = %v, want status code", err)
			}
		})
	}
}

func TestSemanticSearchMalformedJSON(t *testing.T) {
	ts := useSemantic(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [`)
	})
	b := &SemanticScholarBackend{Client: ts.Client()}
	if _, err := b.Search(context.Background(), Query{Topic: "x"}, testCfg()); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestSemanticSearchEmptyQuery(t *testing.T) {
	b := &SemanticScholarBackend{}
	if _, err := b.Search(context.Background(), Query{}, testCfg()); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestBuildYearRange(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		want     string
	}{
		{"both", "2020-01-01", "2023-12-31", "2020-2023"},
		{"from only", "2020-05-01", "", "2020-"},
		{"to only", "", "2019-02-02", "-2019"},
		{"neither", "", "", ""},
		{"malformed", "20x0-01-01", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildYearRange(tt.from, tt.to); got != tt.want {
				t.Errorf("buildYearRange(%q, %q) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestSemanticScholarBackendName(t *testing.T) {
	if got := (&SemanticScholarBackend{}).Name(); got != "semantic_scholar" {
		t.Errorf("Name() = %q", got)
	}
}
