// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

const maxCellWidth = 60

// writeTable writes rows as a space-aligned table; the first row is the
// header. Widths are display widths so CJK and accented titles line up.
func writeTable(w io.Writer, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	for i, row := range rows {
		if _, err := fmt.Fprintln(w, strings.TrimRight(joinPadded(row, widths, "  "), " ")); err != nil {
			return err
		}
		if i == 0 {
			total := 0
			for _, wd := range widths {
				total += wd + 2
			}
			if _, err := fmt.Fprintln(w, strings.Repeat("-", total-2)); err != nil {
				return err
			}
		}
	}
	return nil
}

// pipeTable renders rows as a Markdown pipe table with padded columns.
func pipeTable(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	for _, row := range rows {
		for i := range row {
			row[i] = strings.ReplaceAll(row[i], "|", `\|`)
		}
	}
	widths := columnWidths(rows)
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString("| ")
		b.WriteString(joinPadded(row, widths, " | "))
		b.WriteString(" |\n")
		if i == 0 {
			seps := make([]string, len(widths))
			for j, wd := range widths {
				seps[j] = strings.Repeat("-", wd)
			}
			b.WriteString("| " + strings.Join(seps, " | ") + " |\n")
		}
	}
	return b.String()
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func joinPadded(row []string, widths []int, sep string) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = runewidth.FillRight(cell, widths[i])
	}
	return strings.Join(cells, sep)
}

// clip shortens s to at most maxCellWidth display columns.
func clip(s string) string {
	return runewidth.Truncate(s, maxCellWidth, "...")
}

func sotaRows(res *types.SOTAResult) [][]string {
	rows := [][]string{{"Rank", "Title", "Authors", "Published", "Relevance", "Citations", "Score"}}
	for _, p := range res.Papers {
		rows = append(rows, []string{
			strconv.Itoa(p.Rank),
			clip(p.Title),
			formatAuthors(p.Authors),
			p.PublishedDate,
			fmt.Sprintf("%.3f", p.RelevanceScore),
			strconv.Itoa(p.Scores.CitationCount),
			fmt.Sprintf("%.3f", p.FinalScore),
		})
	}
	return rows
}

func comparisonRows(table types.ComparisonTable) [][]string {
	rows := [][]string{{"Aspect", "Paper A", "Paper B", "Proposed"}}
	for _, aspect := range types.ComparisonAspects {
		a, ok := table[aspect]
		if !ok {
			continue
		}
		rows = append(rows, []string{aspect, clip(a.PaperA), clip(a.PaperB), clip(a.Proposed)})
	}
	return rows
}

func formatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return runewidth.Truncate(authors[0], 20, "...")
	default:
		return runewidth.Truncate(authors[0], 14, "...") + " et al."
	}
}
