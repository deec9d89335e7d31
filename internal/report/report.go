// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders synthesis and SOTA results for people and tools:
// JSON, YAML, CSL-YAML bibliographies, aligned terminal tables, Markdown,
// HTML and XLSX workbooks.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ideation-engine/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatCSL      Format = "csl"
)

// ParseFormat accepts a format name case-insensitively; "md" is an alias
// for markdown.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatJSON, nil
	case "md":
		return FormatMarkdown, nil
	case FormatJSON, FormatYAML, FormatTable, FormatMarkdown, FormatHTML, FormatXLSX, FormatCSL:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// WriteSynthesis renders a synthesis result. CSL is not available for
// synthesis results.
func WriteSynthesis(w io.Writer, res *types.SynthesisResult, f Format) error {
	switch f {
	case FormatJSON, "":
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatTable:
		return writeTable(w, comparisonRows(res.ComparisonTable))
	case FormatMarkdown:
		_, err := io.WriteString(w, SynthesisMarkdown(res))
		return err
	case FormatHTML:
		return writeHTML(w, "Research Synthesis", SynthesisMarkdown(res))
	case FormatXLSX:
		return SynthesisWorkbook(w, res)
	}
	return fmt.Errorf("format %q is not supported for synthesis results", f)
}

// WriteSOTA renders a SOTA result.
func WriteSOTA(w io.Writer, res *types.SOTAResult, f Format) error {
	switch f {
	case FormatJSON, "":
		return writeJSON(w, res)
	case FormatYAML:
		return writeYAML(w, res)
	case FormatTable:
		if len(res.Papers) == 0 {
			_, err := fmt.Fprintln(w, "No papers found.")
			return err
		}
		if err := writeTable(w, sotaRows(res)); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%d of %d candidates\n", len(res.Papers), res.TotalFound)
		return err
	case FormatMarkdown:
		_, err := io.WriteString(w, SOTAMarkdown(res))
		return err
	case FormatHTML:
		return writeHTML(w, "State of the Art: "+res.Topic, SOTAMarkdown(res))
	case FormatXLSX:
		return SOTAWorkbook(w, res)
	case FormatCSL:
		return WriteCSL(w, res.Papers)
	}
	return fmt.Errorf("format %q is not supported for SOTA results", f)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
