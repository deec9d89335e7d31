// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the ideation-engine
// pipelines: the paper synthesis pipeline (SourceDocument, ParsedDocument,
// WeaknessPartition, ProposedMethod, ComparisonTable, SynthesisResult) and
// the SOTA identification pipeline (CandidatePaper, CitationMetrics,
// RankedPaper, SOTAResult), plus process configuration.
package types

// CandidatePaper is a paper returned by a bibliographic search.
type CandidatePaper struct {
	// ID is unique per source (e.g. "arXiv:2301.07041").
	ID string `json:"paper_id" yaml:"paper_id"`

	// LookupID is the identifier used for metrics lookup
	// (e.g. "arXiv:2301.07041", "DOI:10.1145/..."). Empty when unknown.
	LookupID string `json:"-" yaml:"-"`

	// Title is the paper title with newlines collapsed.
	Title string `json:"title" yaml:"title"`

	// Abstract is the paper abstract with newlines collapsed.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// PublishedDate is YYYY-MM-DD, or empty when the source had no date.
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// Categories lists subject categories reported by the source.
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// URL is the landing page for the paper.
	URL string `json:"url" yaml:"url"`

	// PDFURL is a direct PDF link when the source provides one.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Source identifies the backend that found the paper.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Relevance is the topical relevance score in [0,1]; nil until ranked.
	Relevance *float64 `json:"-" yaml:"-"`

	// Metrics holds citation metrics; nil when not enriched or not found.
	Metrics *CitationMetrics `json:"-" yaml:"-"`
}

// CitationMetrics are the citation statistics of a paper.
type CitationMetrics struct {
	CitationCount        int      `json:"citation_count" yaml:"citation_count"`
	InfluentialCitations int      `json:"influential_citations" yaml:"influential_citations"`
	ReferenceCount       int      `json:"reference_count" yaml:"reference_count"`
	Year                 int      `json:"year,omitempty" yaml:"year,omitempty"`
	FieldsOfStudy        []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`
}

// ScoreBreakdown is the per-paper metrics block of a SOTA result.
type ScoreBreakdown struct {
	CitationCount        int     `json:"citation_count" yaml:"citation_count"`
	InfluentialCitations int     `json:"influential_citations" yaml:"influential_citations"`
	ReferenceCount       int     `json:"reference_count" yaml:"reference_count"`
	RecencyScore         float64 `json:"recency_score" yaml:"recency_score"`
	CitationScore        float64 `json:"citation_score" yaml:"citation_score"`
}

// RankedPaper is a candidate with its composite score and rank.
type RankedPaper struct {
	// Rank is 1-based and dense over the returned papers.
	Rank int `json:"sota_rank" yaml:"sota_rank"`

	CandidatePaper `yaml:",inline"`

	// RelevanceScore is the relevance used in the composite (0.5 when unscored).
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// FinalScore is the weighted composite in [0,1].
	FinalScore float64 `json:"final_score" yaml:"final_score"`

	// Scores carries citation counts and the normalized component scores.
	Scores ScoreBreakdown `json:"metrics" yaml:"metrics"`

	// RelevanceReason is a one-sentence explanation of relevance.
	RelevanceReason string `json:"relevance_reason" yaml:"relevance_reason"`
}

// SearchParams echoes the fetch parameters of a SOTA request.
type SearchParams struct {
	MaxResults int    `json:"max_results" yaml:"max_results"`
	StartDate  string `json:"start_date" yaml:"start_date"`
	EndDate    string `json:"end_date" yaml:"end_date"`
}

// SOTAResult is the output of a SOTA identification run.
type SOTAResult struct {
	Topic        string        `json:"topic" yaml:"topic"`
	TotalFound   int           `json:"total_found" yaml:"total_found"`
	TopK         int           `json:"top_k" yaml:"top_k"`
	Papers       []RankedPaper `json:"sota_papers" yaml:"sota_papers"`
	SearchParams SearchParams  `json:"search_params" yaml:"search_params"`
}
