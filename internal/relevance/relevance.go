// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package relevance scores candidate papers against a research topic and
// explains why a ranked paper is relevant.
package relevance

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/internal/structured"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

var tracer = otel.Tracer("github.com/pdiddy/ideation-engine/internal/relevance")

const (
	// BatchSize is the number of titles scored in one generation call.
	// Candidates past the batch get DefaultScore.
	BatchSize = 15

	// DefaultScore is assigned to candidates the model did not score.
	DefaultScore = 0.5

	scoreTemperature = 0.1
	scoreMaxTokens   = 200
)

var scorePrompt = template.Must(template.New("score").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`You are a research paper relevance scorer. Given a research topic and a list of paper titles, rate each paper's relevance to the topic.

Research Topic: {{.Topic}}

Papers:
{{range $i, $t := .Titles}}{{inc $i}}. "{{$t}}"
{{end}}
For each paper, provide a relevance score from 0.0 to 1.0 where:
- 1.0 = Directly addresses the core topic
- 0.7-0.9 = Highly relevant, addresses key aspects
- 0.4-0.6 = Moderately relevant, touches on related concepts
- 0.1-0.3 = Tangentially related
- 0.0 = Not relevant

Return ONLY a JSON array of scores in order, like: [0.95, 0.72, 0.45, ...]
No explanation, just the array.`))

// Ranker scores candidates with a generation model, falling back to
// keyword overlap when no model is configured or its answer is unusable.
type Ranker struct {
	llm generate.Client
	log logrus.FieldLogger
}

// NewRanker returns a Ranker. A nil llm selects keyword scoring only.
func NewRanker(llm generate.Client, log logrus.FieldLogger) *Ranker {
	return &Ranker{llm: llm, log: logging.OrDiscard(log)}
}

// Rank sets Relevance on every candidate. When there are more than limit
// candidates it returns the limit best, sorted by descending relevance
// with ties kept in input order; otherwise it returns all candidates in
// input order. The input slice is not modified.
func (r *Ranker) Rank(ctx context.Context, topic string, candidates []types.CandidatePaper, limit int) []types.CandidatePaper {
	if len(candidates) == 0 {
		return []types.CandidatePaper{}
	}
	ctx, span := tracer.Start(ctx, "relevance.rank")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates", len(candidates)), attribute.Int("limit", limit))

	scored := make([]types.CandidatePaper, len(candidates))
	copy(scored, candidates)
	scores := r.score(ctx, topic, scored)
	for i := range scored {
		s := scores[i]
		scored[i].Relevance = &s
	}

	if limit <= 0 || len(scored) <= limit {
		return scored
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Relevance > *scored[j].Relevance
	})
	return scored[:limit]
}

// score returns one score per candidate.
func (r *Ranker) score(ctx context.Context, topic string, candidates []types.CandidatePaper) []float64 {
	if r.llm == nil {
		return KeywordScores(topic, candidates)
	}
	scores, err := r.modelScores(ctx, topic, candidates)
	if err != nil {
		r.log.WithError(err).WithField("stage", "relevance").Warn("model scoring failed, using keyword overlap")
		return KeywordScores(topic, candidates)
	}
	return scores
}

func (r *Ranker) modelScores(ctx context.Context, topic string, candidates []types.CandidatePaper) ([]float64, error) {
	n := len(candidates)
	if n > BatchSize {
		n = BatchSize
	}
	titles := make([]string, n)
	for i := range titles {
		titles[i] = candidates[i].Title
		if titles[i] == "" {
			titles[i] = "Unknown"
		}
	}

	var buf bytes.Buffer
	if err := scorePrompt.Execute(&buf, struct {
		Topic  string
		Titles []string
	}{topic, titles}); err != nil {
		return nil, fmt.Errorf("rendering score prompt: %w", err)
	}

	start := time.Now()
	raw, err := r.llm.Generate(ctx, generate.Request{
		Messages:        []generate.Message{generate.User(buf.String())},
		Temperature:     scoreTemperature,
		MaxOutputTokens: scoreMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{"stage": "relevance", "titles": n, "elapsed_ms": time.Since(start).Milliseconds()}).Debug("scored titles")

	var got []float64
	if err := structured.ExtractJSONArray(raw, &got); err != nil {
		return nil, err
	}
	if len(got) == 0 {
		return nil, &structured.ParseFailure{Reason: "empty score array", Raw: raw}
	}

	scores := make([]float64, len(candidates))
	for i := range scores {
		if i < n && i < len(got) {
			scores[i] = clamp(got[i])
		} else {
			scores[i] = DefaultScore
		}
	}
	return scores, nil
}

// KeywordScores scores candidates by case-insensitive word overlap with
// the topic:
//
//	min(1, 0.7*overlap/|topic| + 0.3*titleOverlap/|topic| + 0.1)
//
// where overlap counts topic words found in the title or abstract and
// titleOverlap those found in the title. A topic with no words scores
// DefaultScore for every candidate.
func KeywordScores(topic string, candidates []types.CandidatePaper) []float64 {
	topicWords := wordSet(topic)
	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		if len(topicWords) == 0 {
			scores[i] = DefaultScore
			continue
		}
		titleWords := wordSet(c.Title)
		textWords := wordSet(c.Title + " " + c.Abstract)

		overlap, titleOverlap := 0, 0
		for w := range topicWords {
			if textWords[w] {
				overlap++
			}
			if titleWords[w] {
				titleOverlap++
			}
		}
		total := float64(len(topicWords))
		scores[i] = min(1.0, 0.7*float64(overlap)/total+0.3*float64(titleOverlap)/total+0.1)
	}
	return scores
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
