// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceDocument is a research paper supplied as plain text.
type SourceDocument struct {
	// ID is the caller's label for the document ("A" or "B").
	ID string `json:"id" yaml:"id"`

	// Text is the full plain text of the paper. It may be empty.
	Text string `json:"-" yaml:"-"`
}

// ParsedDocument holds the sections recovered from a SourceDocument.
// Every section is optional; nil means the section was not found.
type ParsedDocument struct {
	// ID is copied from the source document.
	ID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title *string `json:"title" yaml:"title"`

	// Abstract is the paper abstract.
	Abstract *string `json:"abstract" yaml:"abstract"`

	// Method describes the approach or methodology.
	Method *string `json:"method" yaml:"method"`

	// Experiments describes the experimental setup and results.
	Experiments *string `json:"experiments" yaml:"experiments"`

	// Limitations lists the limitations the authors state.
	Limitations *string `json:"limitations" yaml:"limitations"`
}

// TitleOr returns the title, or fallback when the title is absent or blank.
func (d ParsedDocument) TitleOr(fallback string) string {
	if d.Title == nil || *d.Title == "" {
		return fallback
	}
	return *d.Title
}

// Section names used when mining weaknesses, in mining order.
const (
	SectionMethod      = "method"
	SectionExperiments = "experiments"
	SectionLimitations = "limitations"
	SectionAbstract    = "abstract"
)

// Section returns the named section text, or nil.
func (d ParsedDocument) Section(name string) *string {
	switch name {
	case SectionMethod:
		return d.Method
	case SectionExperiments:
		return d.Experiments
	case SectionLimitations:
		return d.Limitations
	case SectionAbstract:
		return d.Abstract
	}
	return nil
}

// WeaknessPartition is the three-way fusion of two normalized weakness lists.
type WeaknessPartition struct {
	// Shared holds weaknesses present in both papers.
	Shared []string `json:"shared" yaml:"shared"`

	// OnlyA holds weaknesses present only in paper A.
	OnlyA []string `json:"paper_a_only" yaml:"paper_a_only"`

	// OnlyB holds weaknesses present only in paper B.
	OnlyB []string `json:"paper_b_only" yaml:"paper_b_only"`
}

// ProposedMethod is a new method synthesized from both papers.
type ProposedMethod struct {
	// Name is the method name. Never empty.
	Name string `json:"method_name" yaml:"method_name"`

	// CoreIdea summarizes the method in a few sentences.
	CoreIdea string `json:"core_idea" yaml:"core_idea"`

	// Components lists the method's building blocks.
	Components []string `json:"components" yaml:"components"`

	// Rationale explains how the method addresses the weaknesses.
	Rationale string `json:"addresses_weaknesses" yaml:"addresses_weaknesses"`
}

// AspectAssessment compares paper A, paper B and the proposed method on one aspect.
type AspectAssessment struct {
	PaperA   string `json:"paper_a" yaml:"paper_a"`
	PaperB   string `json:"paper_b" yaml:"paper_b"`
	Proposed string `json:"proposed" yaml:"proposed"`
}

// Comparison aspects, in presentation order.
const (
	AspectScalability    = "Task Scalability"
	AspectTheory         = "Theoretical Foundation"
	AspectEfficiency     = "Computational Efficiency"
	AspectGeneralization = "Generalization Capability"
	AspectPractical      = "Practical Applicability"
)

// ComparisonAspects lists the fixed comparison table rows in order.
var ComparisonAspects = []string{
	AspectScalability,
	AspectTheory,
	AspectEfficiency,
	AspectGeneralization,
	AspectPractical,
}

// ComparisonTable maps each comparison aspect to its assessment.
type ComparisonTable map[string]AspectAssessment

// SynthesisResult is the output of one synthesis run.
type SynthesisResult struct {
	PaperA           ParsedDocument    `json:"paper_a" yaml:"paper_a"`
	PaperB           ParsedDocument    `json:"paper_b" yaml:"paper_b"`
	WeaknessesA      []string          `json:"weaknesses_a" yaml:"weaknesses_a"`
	WeaknessesB      []string          `json:"weaknesses_b" yaml:"weaknesses_b"`
	WeaknessAnalysis WeaknessPartition `json:"weakness_analysis" yaml:"weakness_analysis"`
	ProposedMethod   ProposedMethod    `json:"proposed_method" yaml:"proposed_method"`
	ComparisonTable  ComparisonTable   `json:"comparison_table" yaml:"comparison_table"`
}
