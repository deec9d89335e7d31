// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID       string    `yaml:"id"`
	Type     string    `yaml:"type"`
	Title    string    `yaml:"title"`
	Author   []CSLName `yaml:"author,omitempty"`
	Abstract string    `yaml:"abstract,omitempty"`
	Issued   *CSLDate  `yaml:"issued,omitempty"`
	DOI      string    `yaml:"DOI,omitempty"`
	URL      string    `yaml:"URL,omitempty"`
	Number   string    `yaml:"number,omitempty"`
	Note     string    `yaml:"note,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// WriteCSL writes ranked papers as a CSL-YAML list to w.
func WriteCSL(w io.Writer, papers []types.RankedPaper) error {
	items := make([]CSLItem, len(papers))
	for i, p := range papers {
		items[i] = toCSLItem(p.CandidatePaper)
	}
	return writeYAML(w, items)
}

// toCSLItem converts a candidate paper. arXiv preprints are typed as
// articles with the arXiv number; DOI-identified papers carry the DOI.
func toCSLItem(p types.CandidatePaper) CSLItem {
	item := CSLItem{
		ID:       cslID(p.ID),
		Type:     "article-journal",
		Title:    p.Title,
		Abstract: p.Abstract,
		URL:      p.URL,
	}

	for _, a := range p.Authors {
		item.Author = append(item.Author, parseAuthorName(a))
	}
	item.Issued = parseIssued(p.PublishedDate)

	switch {
	case strings.HasPrefix(p.ID, "arXiv:"):
		item.Type = "article"
		item.Number = strings.TrimPrefix(p.ID, "arXiv:")
		item.Note = "arXiv:" + item.Number
	case strings.HasPrefix(p.ID, "DOI:"):
		item.DOI = strings.TrimPrefix(p.ID, "DOI:")
	}
	return item
}

// cslID makes a citation key usable in Pandoc (no colons or slashes).
func cslID(id string) string {
	return strings.NewReplacer(":", "-", "/", "_").Replace(id)
}

// parseIssued converts YYYY, YYYY-MM or YYYY-MM-DD into date-parts.
func parseIssued(date string) *CSLDate {
	if date == "" {
		return nil
	}
	var parts []int
	for _, s := range strings.SplitN(date, "-", 3) {
		n, err := strconv.Atoi(s)
		if err != nil {
			break
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return nil
	}
	return &CSLDate{DateParts: [][]int{parts}}
}

// parseAuthorName splits a full name string into CSL family/given parts.
// It splits on the last space: everything before is given, the last token
// is family. Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
