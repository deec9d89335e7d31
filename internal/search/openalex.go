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

// openAlexSearchBase is the OpenAlex Works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openAlexSearchBase = "https://api.openalex.org/works"

// openAlexMaxPerPage is the largest page OpenAlex serves.
const openAlexMaxPerPage = 200

// OpenAlexBackend queries the OpenAlex API.
type OpenAlexBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email string
}

// Name returns the backend identifier.
func (b *OpenAlexBackend) Name() string { return string(types.SourceOpenAlex) }

// Search queries OpenAlex and returns candidates in relevance order.
func (b *OpenAlexBackend) Search(ctx context.Context, query Query, cfg types.SearchConfig) ([]types.CandidatePaper, error) {
	searchText := strings.TrimSpace(query.Topic)
	if searchText == "" {
		return nil, fmt.Errorf("empty OpenAlex query")
	}

	perPage := query.limit()
	if perPage > openAlexMaxPerPage {
		perPage = openAlexMaxPerPage
	}

	params := url.Values{
		"search":   {searchText},
		"per_page": {strconv.Itoa(perPage)},
		"page":     {"1"},
	}

	var filters []string
	if query.StartDate != "" {
		filters = append(filters, "from_publication_date:"+query.StartDate)
	}
	if query.EndDate != "" {
		filters = append(filters, "to_publication_date:"+query.EndDate)
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, openAlexSearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httputil.SetUserAgent(req, cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.CheckStatus("OpenAlex API", resp); err != nil {
		return nil, err
	}

	var oar openAlexResponse
	if err := json.NewDecoder(resp.Body).Decode(&oar); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	papers := make([]types.CandidatePaper, 0, len(oar.Results))
	for _, work := range oar.Results {
		papers = append(papers, work.candidate())
	}
	return papers, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The inverted index maps each word to a list of positions
// where that word appears.
func reconstructAbstract(index map[string][]int) string {
	last := -1
	for _, positions := range index {
		for _, p := range positions {
			last = max(last, p)
		}
	}
	if last < 0 {
		return ""
	}
	slots := make([]string, last+1)
	for word, positions := range index {
		for _, p := range positions {
			if p >= 0 {
				slots[p] = word
			}
		}
	}
	words := slots[:0]
	for _, w := range slots {
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Meta    openAlexMeta   `json:"meta"`
	Results []openAlexWork `json:"results"`
}

type openAlexMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationDate       string               `json:"publication_date"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	Concepts              []openAlexConcept    `json:"concepts"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
	OAURL    string `json:"oa_url"`
}

type openAlexConcept struct {
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
}

// candidate converts a work. The DOI, stripped of its resolver prefix,
// identifies the paper when present; otherwise the OpenAlex work ID does
// and no metrics lookup is possible.
func (w openAlexWork) candidate() types.CandidatePaper {
	p := types.CandidatePaper{
		Title:         collapse(w.Title),
		Abstract:      reconstructAbstract(w.AbstractInvertedIndex),
		Source:        string(types.SourceOpenAlex),
		PublishedDate: w.PublicationDate,
		URL:           w.ID,
	}
	if p.PublishedDate == "" && w.PublicationYear > 0 {
		p.PublishedDate = fmt.Sprintf("%04d-01-01", w.PublicationYear)
	}
	for _, authorship := range w.Authorships {
		if authorship.Author.DisplayName != "" {
			p.Authors = append(p.Authors, authorship.Author.DisplayName)
		}
	}
	for _, c := range w.Concepts {
		if c.Level == 0 && c.DisplayName != "" {
			p.Categories = append(p.Categories, c.DisplayName)
		}
	}
	if w.OpenAccess.IsOA {
		p.PDFURL = w.OpenAccess.OAURL
	}

	if w.DOI != "" {
		doi := strings.TrimPrefix(w.DOI, "https://doi.org/")
		p.ID = "DOI:" + doi
		p.LookupID = p.ID
		p.URL = w.DOI
	} else {
		p.ID = w.ID
	}
	return p
}
