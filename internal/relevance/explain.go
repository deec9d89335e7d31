// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relevance

import (
	"bytes"
	"context"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Fallback explanations.
const (
	NoClientReason = "Paper matches search criteria based on title and abstract content."
	FailedReason   = "Relevant based on semantic similarity to the research topic."
)

const (
	explainTemperature = 0.3
	explainMaxTokens   = 100
	explainAbstractCap = 500
)

var explainPrompt = template.Must(template.New("explain").Parse(`In one sentence, explain why this paper is relevant to the research topic.

Topic: {{.Topic}}
Paper Title: {{.Title}}
Abstract: {{.Abstract}}

Response (one sentence only):`))

// Explainer writes a one-sentence relevance explanation per paper.
type Explainer struct {
	llm generate.Client
	log logrus.FieldLogger
}

// NewExplainer returns an Explainer. With a nil llm every explanation is
// NoClientReason.
func NewExplainer(llm generate.Client, log logrus.FieldLogger) *Explainer {
	return &Explainer{llm: llm, log: logging.OrDiscard(log)}
}

// Explain never fails: generation errors yield FailedReason.
func (e *Explainer) Explain(ctx context.Context, topic string, p types.CandidatePaper) string {
	if e.llm == nil {
		return NoClientReason
	}
	title := p.Title
	if title == "" {
		title = "Unknown"
	}
	abstract := p.Abstract
	if utf8.RuneCountInString(abstract) > explainAbstractCap {
		abstract = string([]rune(abstract)[:explainAbstractCap])
	}

	var buf bytes.Buffer
	if err := explainPrompt.Execute(&buf, struct{ Topic, Title, Abstract string }{topic, title, abstract}); err != nil {
		return FailedReason
	}
	out, err := e.llm.Generate(ctx, generate.Request{
		Messages:        []generate.Message{generate.User(buf.String())},
		Temperature:     explainTemperature,
		MaxOutputTokens: explainMaxTokens,
	})
	out = strings.TrimSpace(out)
	if err != nil || out == "" {
		e.log.WithError(err).WithField("paper", p.ID).Debug("explanation generation failed")
		return FailedReason
	}
	return out
}
