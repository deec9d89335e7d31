// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Sheet names.
const (
	SheetComparison = "Comparison"
	SheetWeaknesses = "Weaknesses"
	SheetMethod     = "Method"
	SheetSOTA       = "SOTA"
)

// SynthesisWorkbook writes a workbook with the comparison table, the
// weakness partition and the proposed method.
func SynthesisWorkbook(w io.Writer, res *types.SynthesisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetComparison); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := writeRows(f, SheetComparison, comparisonRowsFull(res.ComparisonTable)); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetComparison, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetComparison, "B", "D", 50); err != nil {
		return err
	}

	weak := [][]string{{"Category", "Weakness"}}
	for _, part := range []struct {
		label string
		items []string
	}{
		{"Shared", res.WeaknessAnalysis.Shared},
		{"Only in Paper A", res.WeaknessAnalysis.OnlyA},
		{"Only in Paper B", res.WeaknessAnalysis.OnlyB},
	} {
		for _, it := range part.items {
			weak = append(weak, []string{part.label, it})
		}
	}
	if err := newSheet(f, SheetWeaknesses, weak); err != nil {
		return err
	}

	m := res.ProposedMethod
	method := [][]string{
		{"Field", "Value"},
		{"Name", m.Name},
		{"Core idea", m.CoreIdea},
		{"Components", strings.Join(m.Components, "\n")},
		{"Addresses weaknesses", m.Rationale},
		{"Paper A", res.PaperA.TitleOr("Paper A")},
		{"Paper B", res.PaperB.TitleOr("Paper B")},
	}
	if err := newSheet(f, SheetMethod, method); err != nil {
		return err
	}

	return f.Write(w)
}

// SOTAWorkbook writes one row per ranked paper.
func SOTAWorkbook(w io.Writer, res *types.SOTAResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSOTA); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	header := []any{"Rank", "Paper ID", "Title", "Authors", "Published", "Relevance", "Final Score",
		"Citations", "Influential Citations", "Recency Score", "Citation Score", "URL", "PDF", "Reason"}
	if err := f.SetSheetRow(SheetSOTA, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, p := range res.Papers {
		row := []any{p.Rank, p.ID, p.Title, strings.Join(p.Authors, "; "), p.PublishedDate,
			p.RelevanceScore, p.FinalScore, p.Scores.CitationCount, p.Scores.InfluentialCitations,
			p.Scores.RecencyScore, p.Scores.CitationScore, p.URL, p.PDFURL, p.RelevanceReason}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSOTA, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(SheetSOTA, "C", "C", 60); err != nil {
		return err
	}
	return f.Write(w)
}

func newSheet(f *excelize.File, name string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("creating sheet %s: %w", name, err)
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]string) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		vals := make([]any, len(r))
		for j, v := range r {
			vals[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
