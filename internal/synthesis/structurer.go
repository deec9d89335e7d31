// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/structured"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

const (
	// maxStructureChars bounds the paper text sent for section recovery.
	maxStructureChars = 8000

	fallbackTitle       = "Unknown"
	fallbackAbstractLen = 500
	fallbackMethodLen   = 2000
)

// Structurer recovers title, abstract, method, experiments and limitations
// from the plain text of a paper.
type Structurer struct {
	caller
}

// NewStructurer returns a Structurer that calls llm.
func NewStructurer(llm generate.Client, log logrus.FieldLogger) *Structurer {
	return &Structurer{caller: newCaller(llm, log)}
}

type sectionsJSON struct {
	Title       *string `json:"title"`
	Abstract    *string `json:"abstract"`
	Method      *string `json:"method"`
	Experiments *string `json:"experiments"`
	Limitations *string `json:"limitations"`
}

// Parse asks the model for the sections of doc. When the reply cannot be
// parsed, the title is "Unknown", the abstract is the first 500 characters
// of the text and the method is the first 2000.
func (s *Structurer) Parse(ctx context.Context, doc types.SourceDocument) (types.ParsedDocument, error) {
	raw, err := s.call(ctx, "structure", doc.ID, structureSampling, structureSystem, structurePrompt,
		struct{ Text string }{truncate(doc.Text, maxStructureChars)})
	if err != nil {
		return types.ParsedDocument{}, err
	}

	var sj sectionsJSON
	if err := structured.ExtractJSON(raw, &sj); err != nil {
		s.fallback("structure", doc.ID, err)
		return fallbackDocument(doc), nil
	}

	return types.ParsedDocument{
		ID:          doc.ID,
		Title:       clean(sj.Title),
		Abstract:    clean(sj.Abstract),
		Method:      clean(sj.Method),
		Experiments: clean(sj.Experiments),
		Limitations: clean(sj.Limitations),
	}, nil
}

func fallbackDocument(doc types.SourceDocument) types.ParsedDocument {
	title := fallbackTitle
	return types.ParsedDocument{
		ID:       doc.ID,
		Title:    &title,
		Abstract: nonEmpty(truncate(doc.Text, fallbackAbstractLen)),
		Method:   nonEmpty(truncate(doc.Text, fallbackMethodLen)),
	}
}

// clean trims a section and drops blank ones and the literal "null".
func clean(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" || strings.EqualFold(v, "null") {
		return nil
	}
	return &v
}
