// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// SynthesisMarkdown renders a synthesis result as a Markdown document.
func SynthesisMarkdown(res *types.SynthesisResult) string {
	var b strings.Builder
	titleA := res.PaperA.TitleOr("Paper A")
	titleB := res.PaperB.TitleOr("Paper B")

	b.WriteString("# Research Synthesis\n\n")
	fmt.Fprintf(&b, "- **Paper A:** %s\n- **Paper B:** %s\n\n", titleA, titleB)

	b.WriteString("## Weaknesses\n\n")
	writeList(&b, "### "+titleA, res.WeaknessesA)
	writeList(&b, "### "+titleB, res.WeaknessesB)

	b.WriteString("## Weakness Analysis\n\n")
	writeList(&b, "### Shared", res.WeaknessAnalysis.Shared)
	writeList(&b, "### Only in Paper A", res.WeaknessAnalysis.OnlyA)
	writeList(&b, "### Only in Paper B", res.WeaknessAnalysis.OnlyB)

	m := res.ProposedMethod
	fmt.Fprintf(&b, "## Proposed Method: %s\n\n", m.Name)
	if m.CoreIdea != "" {
		b.WriteString(m.CoreIdea + "\n\n")
	}
	writeList(&b, "### Components", m.Components)
	if m.Rationale != "" {
		b.WriteString("### How It Addresses the Weaknesses\n\n" + m.Rationale + "\n\n")
	}

	b.WriteString("## Comparison\n\n")
	b.WriteString(pipeTable(comparisonRowsFull(res.ComparisonTable)))
	return b.String()
}

// SOTAMarkdown renders a SOTA result as a Markdown document.
func SOTAMarkdown(res *types.SOTAResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# State of the Art: %s\n\n", res.Topic)
	fmt.Fprintf(&b, "Top %d of %d candidates", len(res.Papers), res.TotalFound)
	if sp := res.SearchParams; sp.StartDate != "" || sp.EndDate != "" {
		fmt.Fprintf(&b, " published %s to %s", orDash(sp.StartDate), orDash(sp.EndDate))
	}
	b.WriteString(".\n\n")

	for _, p := range res.Papers {
		fmt.Fprintf(&b, "## %d. %s\n\n", p.Rank, p.Title)
		if len(p.Authors) > 0 {
			fmt.Fprintf(&b, "*%s*\n\n", strings.Join(p.Authors, ", "))
		}
		fmt.Fprintf(&b, "- **ID:** %s\n", p.ID)
		if p.PublishedDate != "" {
			fmt.Fprintf(&b, "- **Published:** %s\n", p.PublishedDate)
		}
		if p.URL != "" {
			fmt.Fprintf(&b, "- **Link:** <%s>\n", p.URL)
		}
		if p.PDFURL != "" {
			fmt.Fprintf(&b, "- **PDF:** <%s>\n", p.PDFURL)
		}
		fmt.Fprintf(&b, "- **Score:** %.3f (relevance %.3f, citations %d, recency %.2f)\n\n",
			p.FinalScore, p.RelevanceScore, p.Scores.CitationCount, p.Scores.RecencyScore)
		if p.RelevanceReason != "" {
			b.WriteString("> " + p.RelevanceReason + "\n\n")
		}
		if p.Abstract != "" {
			b.WriteString(p.Abstract + "\n\n")
		}
	}
	return b.String()
}

// RenderHTML converts Markdown to an HTML fragment with GitHub flavored
// extensions (tables, autolinks).
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return buf.String(), nil
}

func writeHTML(w io.Writer, title, markdown string) error {
	body, err := RenderHTML(markdown)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "<!doctype html>\n<html><head><meta charset=\"utf-8\"><title>%s</title>"+
		"<style>body{font-family:sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;line-height:1.5}"+
		"table{border-collapse:collapse;width:100%%}th,td{border:1px solid #ccc;padding:.4rem;text-align:left;vertical-align:top}"+
		"th{background:#f3f4f6}blockquote{color:#444;border-left:3px solid #ccc;margin-left:0;padding-left:1rem}</style>"+
		"</head><body>\n%s</body></html>\n", html.EscapeString(title), body)
	return err
}

func writeList(b *strings.Builder, heading string, items []string) {
	b.WriteString(heading + "\n\n")
	if len(items) == 0 {
		b.WriteString("_None._\n\n")
		return
	}
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	b.WriteString("\n")
}

// comparisonRowsFull is comparisonRows without clipping.
func comparisonRowsFull(table types.ComparisonTable) [][]string {
	rows := [][]string{{"Aspect", "Paper A", "Paper B", "Proposed"}}
	for _, aspect := range types.ComparisonAspects {
		if a, ok := table[aspect]; ok {
			rows = append(rows, []string{aspect, a.PaperA, a.PaperB, a.Proposed})
		}
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "…"
	}
	return s
}
