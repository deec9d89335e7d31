// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sota

import (
	"math"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Composite weights.
const (
	RelevanceWeight = 0.50
	CitationWeight  = 0.25
	RecencyWeight   = 0.25
)

const (
	// citationSaturation is the citation count that earns a full citation score.
	citationSaturation = 500

	// neutralScore stands in for a missing relevance score or publication date.
	neutralScore = 0.5

	abstractLimit = 500
	authorLimit   = 5
)

// CompositeRanker orders candidates by a weighted sum of relevance,
// citation and recency scores.
type CompositeRanker struct {
	// Now returns the reference time for recency. Nil means time.Now.
	Now func() time.Time
}

// Rank scores every paper and returns the top k with dense ranks 1..k.
// Papers are sorted by descending final score; ties keep input order.
func (r CompositeRanker) Rank(papers []types.CandidatePaper, k int) []types.RankedPaper {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	scored := make([]types.RankedPaper, len(papers))
	for i, p := range papers {
		relevance := neutralScore
		if p.Relevance != nil {
			relevance = *p.Relevance
		}
		citation := CitationScore(p.Metrics)
		recency := RecencyScore(p.PublishedDate, now)
		final := RelevanceWeight*relevance + CitationWeight*citation + RecencyWeight*recency

		var counts types.CitationMetrics
		if p.Metrics != nil {
			counts = *p.Metrics
		}

		out := p
		out.Abstract = truncateAbstract(p.Abstract)
		if len(out.Authors) > authorLimit {
			out.Authors = out.Authors[:authorLimit]
		}
		scored[i] = types.RankedPaper{
			CandidatePaper: out,
			RelevanceScore: round(relevance, 3),
			FinalScore:     round(final, 3),
			Scores: types.ScoreBreakdown{
				CitationCount:        counts.CitationCount,
				InfluentialCitations: counts.InfluentialCitations,
				ReferenceCount:       counts.ReferenceCount,
				RecencyScore:         round(recency, 2),
				CitationScore:        round(citation, 2),
			},
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// CitationScore is min(1, citations/500); zero when metrics are absent.
func CitationScore(m *types.CitationMetrics) float64 {
	if m == nil || m.CitationCount <= 0 {
		return 0
	}
	return math.Min(1, float64(m.CitationCount)/citationSaturation)
}

// RecencyScore maps the age of a YYYY-MM-DD publication date to a score:
// under 180 days 1.0, under 365 days 0.9, under 730 days 0.7, then a
// linear decay over ten years floored at 0.3. Missing or unparseable
// dates score 0.5. Age is counted in calendar days in now's location.
func RecencyScore(published string, now time.Time) float64 {
	if published == "" {
		return neutralScore
	}
	pub, err := time.ParseInLocation("2006-01-02", published, now.Location())
	if err != nil {
		return neutralScore
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// Round absorbs 23 and 25 hour days across DST changes.
	days := int(math.Round(today.Sub(pub).Hours() / 24))
	switch {
	case days < 180:
		return 1.0
	case days < 365:
		return 0.9
	case days < 730:
		return 0.7
	default:
		return math.Max(0.3, 1.0-float64(days)/3650)
	}
}

func truncateAbstract(s string) string {
	if utf8.RuneCountInString(s) <= abstractLimit {
		return s
	}
	return string([]rune(s)[:abstractLimit]) + "..."
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
