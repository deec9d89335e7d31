// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package synthesis

import (
	"strings"
	"text/template"
)

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"bullets": func(items []string, marker, empty string) string {
		if len(items) == 0 {
			return marker + " " + empty
		}
		lines := make([]string, len(items))
		for i, it := range items {
			lines[i] = marker + " " + it
		}
		return strings.Join(lines, "\n")
	},
}

func prompt(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(promptFuncs).Parse(text))
}

const (
	structureSystem  = "You extract sections from research papers. You answer with a single JSON object and nothing else."
	mineSystem       = "You are an expert peer reviewer who finds weaknesses and limitations in research papers."
	mineForcedSystem = "You are a rigorous peer reviewer. Every paper has limitations; you must name concrete ones."
	normalizeSystem  = "You are an academic editor who consolidates reviewer comments into clear statements."
	fuseSystem       = "You compare lists of research weaknesses. You answer with a single JSON object and nothing else."
	synthesizeSystem = "You are a senior research scientist who designs new methods that fix the weaknesses of prior work."
	compareSystem    = "You write comparison tables for academic papers. You answer with a single JSON object and nothing else."
)

var structurePrompt = prompt("structure", `Extract these sections from the research paper below and return ONLY a JSON object:

{
  "title": "paper title or null",
  "abstract": "abstract text or null",
  "method": "methodology section or null",
  "experiments": "experimental setup and results or null",
  "limitations": "limitations or discussion section or null"
}

Rules:
- Use null for any section that is not in the text.
- Do not infer or invent missing content.
- Copy section text verbatim.

Paper text:
{{.Text}}
`)

var minePrompt = prompt("mine", `Read the {{.Section}} section of a research paper below and list its weaknesses, limitations, gaps, or areas for improvement.

Look for:
- methodological limits such as small samples, narrow scope, or strong assumptions
- scalability and computational cost concerns
- weak generalization beyond the evaluated domains or datasets
- missing baselines or comparisons
- theoretical gaps
- evaluation limitations

Name at least two or three weaknesses. Only say that no weakness exists if you can justify it in the bullet itself.

Answer as a bullet list, one weakness per line:
- first weakness
- second weakness

Section text:
{{.Text}}
`)

var mineForcedPrompt = prompt("mine-forced", `The following {{.Section}} comes from a research paper. No weaknesses have been identified yet, but every paper has limitations.

List two to four concrete weaknesses or limitations of the work as a bullet list, one per line, starting each line with "- ". Do not answer "none".

Text:
{{.Text}}
`)

var normalizePrompt = prompt("normalize", `Consolidate the following raw weaknesses of a research paper.

Raw weaknesses:
{{bullets .Items "-" ""}}

Instructions:
1. Merge duplicates and near-duplicates.
2. Write each weakness as a clear, self-contained phrase in academic English of 10 to 20 words.
3. Do not use CamelCase identifiers or abbreviations.
4. Return between 3 and 6 weaknesses.

Answer as a bullet list, one weakness per line, each starting with "- ".

Example:
- Limited evaluation scope restricted to a few benchmark datasets
- No analysis of computational complexity or resource requirements
`)

var fusePrompt = prompt("fuse", `Compare the weaknesses of two research papers and sort every weakness into exactly one group:
1. shared: present in both papers
2. paper_a_only: present only in Paper A
3. paper_b_only: present only in Paper B

Paper A weaknesses:
{{bullets .A "-" "(none)"}}

Paper B weaknesses:
{{bullets .B "-" "(none)"}}

Return ONLY this JSON object:
{"shared": ["..."], "paper_a_only": ["..."], "paper_b_only": ["..."]}
`)

var synthesizePrompt = prompt("synthesize", `Propose a new research method that builds on two papers.

Paper A: "{{.TitleA}}"
Paper B: "{{.TitleB}}"

Weaknesses shared by both papers:
{{bullets .Shared "•" "No shared weaknesses identified"}}

Weaknesses of Paper A only:
{{bullets .OnlyA "•" "No unique weaknesses"}}

Weaknesses of Paper B only:
{{bullets .OnlyB "•" "No unique weaknesses"}}

The method must combine the strengths of both papers, address the weaknesses above explicitly, and be implementable without new datasets.

Give it a descriptive name in the form "[Adjective] [Core Concept] [Type]", for example "Robust Multi-Scale Fusion Network". Avoid generic names such as "New Method" or "Hybrid Approach".

Return ONLY this JSON object:
{
  "method_name": "descriptive method name",
  "core_idea": "two or three sentences on the key innovation and how it works",
  "components": ["Component name: what it does", "..."],
  "addresses_weaknesses": "one paragraph on how the components address each major weakness"
}
`)

var comparePrompt = prompt("compare", `Write a comparison of three approaches for an academic paper.

PAPER A
Title: {{.TitleA}}
Key limitations: {{.LimitsA}}

PAPER B
Title: {{.TitleB}}
Key limitations: {{.LimitsB}}

PROPOSED METHOD
Name: {{.Method.Name}}
Core idea: {{.Method.CoreIdea}}
Components: {{join .Method.Components ", "}}

Compare them on these aspects:
{{bullets .Aspects "-" ""}}

Each assessment is a specific phrase of 8 to 15 words that says why an approach is limited or strong. Never answer with a single word. Where information is missing write "Requires further empirical validation". The proposed method's assessment should state its improvement over both papers.

Return ONLY a JSON object with one key per aspect, each holding "paper_a", "paper_b" and "proposed":
{
{{- range $i, $a := .Aspects}}{{if $i}},{{end}}
  "{{$a}}": {"paper_a": "...", "paper_b": "...", "proposed": "..."}
{{- end}}
}
`)
