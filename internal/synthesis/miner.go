// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"context"
	"text/template"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/structured"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

const (
	// minSectionChars is the shortest section worth mining.
	minSectionChars = 50
	// maxSectionChars bounds the section text sent per call.
	maxSectionChars = 3000

	forcedSection = "paper_content"
)

// mineOrder is the order sections are mined in.
var mineOrder = []string{
	types.SectionMethod,
	types.SectionExperiments,
	types.SectionLimitations,
	types.SectionAbstract,
}

// Miner lists candidate weaknesses of a parsed paper, section by section.
type Miner struct {
	caller
}

// NewMiner returns a Miner that calls llm.
func NewMiner(llm generate.Client, log logrus.FieldLogger) *Miner {
	return &Miner{caller: newCaller(llm, log)}
}

// Mine makes one call per section of at least 50 characters, in the order
// method, experiments, limitations, abstract, and concatenates the bullet
// items. If nothing is found and the paper has an abstract, one more
// insistent pass runs over the abstract.
func (m *Miner) Mine(ctx context.Context, doc types.ParsedDocument) ([]string, error) {
	weaknesses := []string{}
	for _, name := range mineOrder {
		text := doc.Section(name)
		if text == nil || utf8.RuneCountInString(*text) < minSectionChars {
			m.log.WithFields(logrus.Fields{"stage": "mine", "paper": doc.ID, "section": name}).Debug("section skipped")
			continue
		}
		items, err := m.mineSection(ctx, doc.ID, name, *text, minePrompt, mineSystem)
		if err != nil {
			return nil, err
		}
		weaknesses = append(weaknesses, items...)
	}

	if len(weaknesses) == 0 && doc.Abstract != nil && *doc.Abstract != "" {
		m.log.WithFields(logrus.Fields{"stage": "mine", "paper": doc.ID}).Info("no weaknesses found, retrying on abstract")
		items, err := m.mineSection(ctx, doc.ID, forcedSection, *doc.Abstract, mineForcedPrompt, mineForcedSystem)
		if err != nil {
			return nil, err
		}
		weaknesses = append(weaknesses, items...)
	}

	m.log.WithFields(logrus.Fields{"stage": "mine", "paper": doc.ID, "count": len(weaknesses)}).Info("weaknesses mined")
	return weaknesses, nil
}

func (m *Miner) mineSection(ctx context.Context, paper, section, text string, tmpl *template.Template, system string) ([]string, error) {
	raw, err := m.call(ctx, "mine", paper, mineSampling, system, tmpl, struct {
		Section string
		Text    string
	}{section, truncate(text, maxSectionChars)})
	if err != nil {
		return nil, err
	}
	return structured.ExtractBulletList(raw), nil
}
